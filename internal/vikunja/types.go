package vikunja

import "time"

// RelationKind identifies the type of a task relation. The Vikunja API
// defines exactly eleven kinds; the service stores each direction as
// submitted and does not create inverse edges on our behalf.
type RelationKind string

const (
	RelationSubtask     RelationKind = "subtask"
	RelationParentTask  RelationKind = "parenttask"
	RelationRelated     RelationKind = "related"
	RelationDuplicateOf RelationKind = "duplicateof"
	RelationDuplicates  RelationKind = "duplicates"
	RelationBlocking    RelationKind = "blocking"
	RelationBlocked     RelationKind = "blocked"
	RelationPrecedes    RelationKind = "precedes"
	RelationFollows     RelationKind = "follows"
	RelationCopiedFrom  RelationKind = "copiedfrom"
	RelationCopiedTo    RelationKind = "copiedto"
)

// RelationKinds lists all valid relation kinds.
var RelationKinds = []RelationKind{
	RelationSubtask, RelationParentTask, RelationRelated,
	RelationDuplicateOf, RelationDuplicates,
	RelationBlocking, RelationBlocked,
	RelationPrecedes, RelationFollows,
	RelationCopiedFrom, RelationCopiedTo,
}

// ParseRelationKind validates a relation kind string.
func ParseRelationKind(s string) (RelationKind, bool) {
	for _, k := range RelationKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Task represents a Vikunja task.
type Task struct {
	ID          int64                   `json:"id,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Done        bool                    `json:"done"`
	DoneAt      *time.Time              `json:"done_at,omitempty"`
	Priority    int                     `json:"priority,omitempty"`
	DueDate     *time.Time              `json:"due_date,omitempty"`
	StartDate   *time.Time              `json:"start_date,omitempty"`
	EndDate     *time.Time              `json:"end_date,omitempty"`
	Repeats     string                  `json:"repeat_after_rrule,omitempty"`
	ProjectID   int64                   `json:"project_id,omitempty"`
	Labels      []Label                 `json:"labels,omitempty"`
	Assignees   []User                  `json:"assignees,omitempty"`
	Reminders   []Reminder              `json:"reminders,omitempty"`
	Related     map[RelationKind][]Task `json:"related_tasks,omitempty"`
	Created     *time.Time              `json:"created,omitempty"`
	Updated     *time.Time              `json:"updated,omitempty"`
}

// TaskInput carries the fields accepted when creating a task. Zero-value
// fields are omitted from the request body.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Repeats     string     `json:"repeat_after_rrule,omitempty"`
}

// TaskPatch carries a partial task update. Nil pointers mean "leave
// unchanged"; the request body contains only the provided fields.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Done        *bool      `json:"done,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   *int64     `json:"project_id,omitempty"`
	Repeats     *string    `json:"repeat_after_rrule,omitempty"`
	// Pointer to a slice so an empty replacement list still marshals and
	// clears the remote reminders.
	Reminders *[]Reminder `json:"reminders,omitempty"`
}

// Project represents a Vikunja project.
type Project struct {
	ID              int64      `json:"id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	HexColor        string     `json:"hex_color,omitempty"`
	ParentProjectID int64      `json:"parent_project_id,omitempty"`
	IsArchived      bool       `json:"is_archived,omitempty"`
	Created         *time.Time `json:"created,omitempty"`
	Updated         *time.Time `json:"updated,omitempty"`
}

// ProjectPatch carries a partial project update.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	HexColor    *string `json:"hex_color,omitempty"`
}

// Label represents a Vikunja label.
type Label struct {
	ID          int64      `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	HexColor    string     `json:"hex_color,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Updated     *time.Time `json:"updated,omitempty"`
}

// Reminder is a single time-based reminder attached to a task.
type Reminder struct {
	Reminder time.Time `json:"reminder"`
}

// Relation represents a directed relation between two tasks, as returned by
// the relations endpoint.
type Relation struct {
	TaskID      int64        `json:"task_id,omitempty"`
	OtherTaskID int64        `json:"other_task_id"`
	Kind        RelationKind `json:"relation_kind"`
	Created     *time.Time   `json:"created,omitempty"`
}

// User represents a Vikunja user.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Team represents a Vikunja team.
type Team struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Members     []User `json:"members,omitempty"`
}

// TeamProject grants a team access to a project with a permission level:
// 0 = read, 1 = read+write, 2 = admin.
type TeamProject struct {
	TeamID int64 `json:"team_id"`
	Right  int   `json:"right"`
}
