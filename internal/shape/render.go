package shape

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// Timestamp renders a time in the fixed human-readable form used across
// markdown output. Nil times render empty.
func Timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// PriorityName maps Vikunja's numeric priority scale to its display name.
func PriorityName(p int) string {
	switch p {
	case 0:
		return "None"
	case 1:
		return "Low"
	case 2:
		return "Medium"
	case 3:
		return "High"
	case 4:
		return "Urgent"
	case 5:
		return "DO NOW"
	default:
		return strconv.Itoa(p)
	}
}

var rruleDays = map[string]string{
	"MO": "Mon", "TU": "Tue", "WE": "Wed",
	"TH": "Thu", "FR": "Fri", "SA": "Sat", "SU": "Sun",
}

// Recurrence renders an RFC 5545 RRULE as a short human-readable phrase,
// e.g. "Every 2 weeks on Mon, Fri". Unknown frequencies come back verbatim.
func Recurrence(rrule string) string {
	if rrule == "" {
		return ""
	}

	parts := map[string]string{}
	for _, part := range strings.Split(rrule, ";") {
		if key, value, ok := strings.Cut(part, "="); ok {
			parts[strings.ToUpper(key)] = value
		}
	}

	var unit string
	switch parts["FREQ"] {
	case "DAILY":
		unit = "day"
	case "WEEKLY":
		unit = "week"
	case "MONTHLY":
		unit = "month"
	case "YEARLY":
		unit = "year"
	default:
		return rrule
	}

	interval := 1
	if n, err := strconv.Atoi(parts["INTERVAL"]); err == nil && n > 1 {
		interval = n
	}

	out := "Every " + unit
	if interval > 1 {
		out = fmt.Sprintf("Every %d %ss", interval, unit)
	}

	if parts["FREQ"] == "WEEKLY" && parts["BYDAY"] != "" {
		var days []string
		for _, d := range strings.Split(parts["BYDAY"], ",") {
			if name, ok := rruleDays[d]; ok {
				days = append(days, name)
			} else {
				days = append(days, d)
			}
		}
		out += " on " + strings.Join(days, ", ")
	}
	if parts["FREQ"] == "MONTHLY" && parts["BYMONTHDAY"] != "" {
		out += " on day " + parts["BYMONTHDAY"]
	}
	return out
}

func doneMarker(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// taskMarkdown renders one task. Concise keeps a single identifying line;
// Detailed adds the description and remaining fields.
func taskMarkdown(task vikunja.Task, detail Detail) string {
	if detail != Detailed {
		line := fmt.Sprintf("- %s **#%d**: %s", doneMarker(task.Done), task.ID, task.Title)
		if task.Priority > 0 {
			line += fmt.Sprintf(" (%s)", PriorityName(task.Priority))
		}
		if task.Repeats != "" {
			line += " (repeats)"
		}
		return line
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s %s (#%d)\n", doneMarker(task.Done), task.Title, task.ID)
	if task.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", task.Description)
	}
	b.WriteString("\n")
	if task.ProjectID != 0 {
		fmt.Fprintf(&b, "- **Project**: %d\n", task.ProjectID)
	}
	if task.Priority > 0 {
		fmt.Fprintf(&b, "- **Priority**: %s\n", PriorityName(task.Priority))
	}
	if ts := Timestamp(task.DueDate); ts != "" {
		fmt.Fprintf(&b, "- **Due**: %s\n", ts)
	}
	if task.Repeats != "" {
		fmt.Fprintf(&b, "- **Repeats**: %s\n", Recurrence(task.Repeats))
	}
	if len(task.Labels) > 0 {
		names := make([]string, len(task.Labels))
		for i, l := range task.Labels {
			names[i] = "`" + l.Title + "`"
		}
		fmt.Fprintf(&b, "- **Labels**: %s\n", strings.Join(names, ", "))
	}
	if len(task.Assignees) > 0 {
		names := make([]string, len(task.Assignees))
		for i, u := range task.Assignees {
			names[i] = u.Username
		}
		fmt.Fprintf(&b, "- **Assigned to**: %s\n", strings.Join(names, ", "))
	}
	if len(task.Reminders) > 0 {
		times := make([]string, len(task.Reminders))
		for i, r := range task.Reminders {
			rt := r.Reminder
			times[i] = Timestamp(&rt)
		}
		fmt.Fprintf(&b, "- **Reminders**: %s\n", strings.Join(times, ", "))
	}
	if len(task.Related) > 0 {
		kinds := make([]string, 0, len(task.Related))
		for kind := range task.Related {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			ids := make([]string, len(task.Related[vikunja.RelationKind(kind)]))
			for i, rel := range task.Related[vikunja.RelationKind(kind)] {
				ids[i] = fmt.Sprintf("#%d", rel.ID)
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", kind, strings.Join(ids, ", "))
		}
	}
	if ts := Timestamp(task.Created); ts != "" {
		fmt.Fprintf(&b, "- **Created**: %s\n", ts)
	}
	if ts := Timestamp(task.Updated); ts != "" {
		fmt.Fprintf(&b, "- **Updated**: %s\n", ts)
	}
	return strings.TrimRight(b.String(), "\n")
}

func projectMarkdown(project vikunja.Project, detail Detail) string {
	if detail != Detailed {
		return fmt.Sprintf("- **#%d**: %s", project.ID, project.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (#%d)\n", project.Title, project.ID)
	if project.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", project.Description)
	}
	b.WriteString("\n")
	if project.ParentProjectID != 0 {
		fmt.Fprintf(&b, "- **Parent project**: %d\n", project.ParentProjectID)
	}
	if project.HexColor != "" {
		fmt.Fprintf(&b, "- **Color**: %s\n", project.HexColor)
	}
	if project.IsArchived {
		b.WriteString("- **Archived**: yes\n")
	}
	if ts := Timestamp(project.Created); ts != "" {
		fmt.Fprintf(&b, "- **Created**: %s\n", ts)
	}
	if ts := Timestamp(project.Updated); ts != "" {
		fmt.Fprintf(&b, "- **Updated**: %s\n", ts)
	}
	return strings.TrimRight(b.String(), "\n")
}

func labelMarkdown(label vikunja.Label, detail Detail) string {
	line := fmt.Sprintf("- **#%d**: `%s`", label.ID, label.Title)
	if detail == Detailed && label.Description != "" {
		line += ": " + label.Description
	}
	if detail == Detailed && label.HexColor != "" {
		line += fmt.Sprintf(" (%s)", label.HexColor)
	}
	return line
}

func teamMarkdown(team vikunja.Team, detail Detail) string {
	line := fmt.Sprintf("- **#%d**: %s", team.ID, team.Name)
	if detail == Detailed && len(team.Members) > 0 {
		names := make([]string, len(team.Members))
		for i, m := range team.Members {
			names[i] = m.Username
		}
		line += " (members: " + strings.Join(names, ", ") + ")"
	}
	return line
}

// conciseTask projects a task down to its identifying fields for concise
// JSON output.
func conciseTask(task vikunja.Task) any {
	return map[string]any{
		"id":    task.ID,
		"title": task.Title,
		"done":  task.Done,
	}
}

func conciseProject(project vikunja.Project) any {
	return map[string]any{
		"id":    project.ID,
		"title": project.Title,
	}
}

func conciseLabel(label vikunja.Label) any {
	return map[string]any{
		"id":    label.ID,
		"title": label.Title,
	}
}

func conciseTeam(team vikunja.Team) any {
	return map[string]any{
		"id":   team.ID,
		"name": team.Name,
	}
}
