package vikunja

import (
	"context"
	"fmt"
	"net/http"
)

// CreateRelation creates a directed relation from one task to another. The
// service stores the edge exactly as submitted; callers wanting the inverse
// edge must create it explicitly.
func (c *Client) CreateRelation(ctx context.Context, taskID, otherTaskID int64, kind RelationKind) error {
	path := fmt.Sprintf("tasks/%d/relations", taskID)
	body := Relation{TaskID: taskID, OtherTaskID: otherTaskID, Kind: kind}
	_, err := c.do(ctx, http.MethodPut, path, nil, body, nil)
	return err
}

// DeleteRelation removes a directed relation.
func (c *Client) DeleteRelation(ctx context.Context, taskID, otherTaskID int64, kind RelationKind) error {
	path := fmt.Sprintf("tasks/%d/relations/%s/%d", taskID, kind, otherTaskID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// TaskRelations fetches the relations of a task, keyed by kind. The
// relations ride on the task record itself; there is no standalone listing
// endpoint.
func (c *Client) TaskRelations(ctx context.Context, taskID int64) (map[RelationKind][]Task, error) {
	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task.Related, nil
}
