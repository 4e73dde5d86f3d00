package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListLabels fetches one page of labels visible to the token's user.
func (c *Client) ListLabels(ctx context.Context, cur *Cursor) ([]Label, error) {
	q := url.Values{}
	cur.Apply(q)

	var labels []Label
	hdr, err := c.do(ctx, http.MethodGet, "labels", q, nil, &labels)
	if err != nil {
		return nil, err
	}
	cur.Observe(hdr, len(labels))
	return labels, nil
}

// CreateLabel creates a label and returns the created record.
func (c *Client) CreateLabel(ctx context.Context, label Label) (*Label, error) {
	var created Label
	if _, err := c.do(ctx, http.MethodPut, "labels", nil, label, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteLabel permanently deletes a label. The label is removed from every
// task it was attached to.
func (c *Client) DeleteLabel(ctx context.Context, labelID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("labels/%d", labelID), nil, nil, nil)
	return err
}

// AddLabelToTask attaches a label to a task.
func (c *Client) AddLabelToTask(ctx context.Context, taskID, labelID int64) error {
	path := fmt.Sprintf("tasks/%d/labels", taskID)
	body := map[string]int64{"label_id": labelID}
	_, err := c.do(ctx, http.MethodPut, path, nil, body, nil)
	return err
}

// RemoveLabelFromTask detaches a label from a task.
func (c *Client) RemoveLabelFromTask(ctx context.Context, taskID, labelID int64) error {
	path := fmt.Sprintf("tasks/%d/labels/%d", taskID, labelID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
