package vikunja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProjectTasks fetches one page of tasks in a project. Extra query
// parameters (filter expressions, sort) are passed through unchanged;
// pagination parameters come from the cursor, which is advanced past the
// fetched page.
func (c *Client) ListProjectTasks(ctx context.Context, projectID int64, cur *Cursor, query url.Values) ([]Task, error) {
	return c.listTasks(ctx, fmt.Sprintf("projects/%d/tasks", projectID), cur, query)
}

// ListAllTasks fetches one page of tasks across all projects.
func (c *Client) ListAllTasks(ctx context.Context, cur *Cursor, query url.Values) ([]Task, error) {
	return c.listTasks(ctx, "tasks/all", cur, query)
}

func (c *Client) listTasks(ctx context.Context, path string, cur *Cursor, query url.Values) ([]Task, error) {
	q := url.Values{}
	for key, vals := range query {
		q[key] = vals
	}
	cur.Apply(q)

	var tasks []Task
	hdr, err := c.do(ctx, http.MethodGet, path, q, nil, &tasks)
	if err != nil {
		return nil, err
	}
	cur.Observe(hdr, len(tasks))
	return tasks, nil
}

// GetTask fetches a single task by ID, including its related tasks.
func (c *Client) GetTask(ctx context.Context, taskID int64) (*Task, error) {
	var task Task
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("tasks/%d", taskID), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task in a project and returns the created record.
func (c *Client) CreateTask(ctx context.Context, projectID int64, input TaskInput) (*Task, error) {
	var task Task
	path := fmt.Sprintf("projects/%d/tasks", projectID)
	if _, err := c.do(ctx, http.MethodPut, path, nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task. Vikunja updates tasks with
// POST; only the fields present in the patch are sent.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) (*Task, error) {
	var task Task
	path := fmt.Sprintf("tasks/%d", taskID)
	if _, err := c.do(ctx, http.MethodPost, path, nil, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("tasks/%d", taskID), nil, nil, nil)
	return err
}

// AssignUser assigns a user to a task.
func (c *Client) AssignUser(ctx context.Context, taskID, userID int64) error {
	path := fmt.Sprintf("tasks/%d/assignees", taskID)
	body := map[string]int64{"user_id": userID}
	_, err := c.do(ctx, http.MethodPut, path, nil, body, nil)
	return err
}

// UnassignUser removes a user from a task.
func (c *Client) UnassignUser(ctx context.Context, taskID, userID int64) error {
	path := fmt.Sprintf("tasks/%d/assignees/%d", taskID, userID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
