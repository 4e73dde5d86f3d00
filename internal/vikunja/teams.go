package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListTeams fetches one page of teams visible to the token's user.
func (c *Client) ListTeams(ctx context.Context, cur *Cursor) ([]Team, error) {
	q := url.Values{}
	cur.Apply(q)

	var teams []Team
	hdr, err := c.do(ctx, http.MethodGet, "teams", q, nil, &teams)
	if err != nil {
		return nil, err
	}
	cur.Observe(hdr, len(teams))
	return teams, nil
}

// GetTeam fetches a single team by ID, including its members.
func (c *Client) GetTeam(ctx context.Context, teamID int64) (*Team, error) {
	var team Team
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("teams/%d", teamID), nil, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// TeamMembers fetches the members of a team.
func (c *Client) TeamMembers(ctx context.Context, teamID int64) ([]User, error) {
	team, err := c.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return team.Members, nil
}

// SearchUsers searches users by name or username.
func (c *Client) SearchUsers(ctx context.Context, search string) ([]User, error) {
	q := url.Values{}
	if search != "" {
		q.Set("s", search)
	}
	var users []User
	if _, err := c.do(ctx, http.MethodGet, "users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
