// Package vikunja provides an authenticated client for the Vikunja REST API.
//
// The client wraps the v1 API and provides functionality for:
//   - Managing tasks (list, get, create, update, delete, assignees)
//   - Managing projects (list, get, create, update, delete, team sharing)
//   - Managing labels (list, create, delete, attach/detach on tasks)
//   - Managing task relations (create, get, delete)
//   - Teams and user search
//
// # Transport behavior
//
// Every request carries the bearer token from the resolved credentials. The
// token never appears in logs or error messages. Rate-limited (429), server
// (5xx) and network errors are retried up to three attempts with exponential
// backoff and jitter; a Retry-After hint from the service overrides the
// computed delay when it is larger. Other 4xx responses fail immediately
// with the remote status and message preserved in an *APIError.
//
// # Pagination
//
// Listing calls take a Cursor, which translates the limit/offset view used
// by callers into the page/per_page parameters the API speaks and detects
// exhaustion from short pages or the x-pagination response headers:
//
//	cur := vikunja.NewCursor(50, 0)
//	for {
//	    tasks, err := client.ListProjectTasks(ctx, projectID, cur, nil)
//	    if err != nil {
//	        return err
//	    }
//	    handle(tasks)
//	    if err := cur.Next(); err != nil {
//	        break // vikunja.ErrNoMoreRecords
//	    }
//	}
package vikunja
