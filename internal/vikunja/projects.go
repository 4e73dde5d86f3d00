package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjects fetches one page of projects visible to the token's user.
func (c *Client) ListProjects(ctx context.Context, cur *Cursor) ([]Project, error) {
	q := url.Values{}
	cur.Apply(q)

	var projects []Project
	hdr, err := c.do(ctx, http.MethodGet, "projects", q, nil, &projects)
	if err != nil {
		return nil, err
	}
	cur.Observe(hdr, len(projects))
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var project Project
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("projects/%d", projectID), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project and returns the created record.
func (c *Client) CreateProject(ctx context.Context, project Project) (*Project, error) {
	var created Project
	if _, err := c.do(ctx, http.MethodPut, "projects", nil, project, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID int64, patch ProjectPatch) (*Project, error) {
	var project Project
	path := fmt.Sprintf("projects/%d", projectID)
	if _, err := c.do(ctx, http.MethodPost, path, nil, patch, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject permanently deletes a project and all its tasks.
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("projects/%d", projectID), nil, nil, nil)
	return err
}

// ShareProjectWithTeam grants a team access to a project.
func (c *Client) ShareProjectWithTeam(ctx context.Context, projectID int64, share TeamProject) error {
	path := fmt.Sprintf("projects/%d/teams", projectID)
	_, err := c.do(ctx, http.MethodPut, path, nil, share, nil)
	return err
}
