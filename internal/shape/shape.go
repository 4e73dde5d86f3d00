package shape

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// DefaultCharLimit is the hard output budget for one shaped response.
const DefaultCharLimit = 25000

// Detail selects how much of each record survives shaping.
type Detail string

const (
	Concise  Detail = "concise"
	Detailed Detail = "detailed"
)

// Format selects the output representation.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseDetail maps a tool argument to a detail level, defaulting to concise.
func ParseDetail(s string) Detail {
	if Detail(s) == Detailed {
		return Detailed
	}
	return Concise
}

// ParseFormat maps a tool argument to a format, defaulting to markdown.
func ParseFormat(s string) Format {
	if Format(s) == FormatJSON {
		return FormatJSON
	}
	return FormatMarkdown
}

// Options configures one shaping call. A zero CharLimit means the default
// budget.
type Options struct {
	Detail    Detail
	Format    Format
	CharLimit int
}

func (o Options) limit() int {
	if o.CharLimit > 0 {
		return o.CharLimit
	}
	return DefaultCharLimit
}

// Result is a bounded shaped response. When Truncated is set, Omitted holds
// how many records were cut; omitted plus the records still visible always
// equals the record count that went in.
type Result struct {
	Content   string
	Truncated bool
	Omitted   int
}

// Tasks shapes a task listing with its pagination metadata.
func Tasks(tasks []vikunja.Task, meta vikunja.PageMeta, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonList("tasks", tasks, meta, opts, conciseTask)
	}
	header := fmt.Sprintf("# Tasks (%d of %d)", len(tasks), meta.Total)
	return markdownList(header, "tasks", tasks, meta, opts, taskMarkdown)
}

// Task shapes a single task.
func Task(task vikunja.Task, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonValue(task, opts, conciseTask)
	}
	return capped(taskMarkdown(task, opts.Detail), opts.limit())
}

// Projects shapes a project listing with its pagination metadata.
func Projects(projects []vikunja.Project, meta vikunja.PageMeta, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonList("projects", projects, meta, opts, conciseProject)
	}
	header := fmt.Sprintf("# Projects (%d of %d)", len(projects), meta.Total)
	return markdownList(header, "projects", projects, meta, opts, projectMarkdown)
}

// Project shapes a single project.
func Project(project vikunja.Project, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonValue(project, opts, conciseProject)
	}
	return capped(projectMarkdown(project, opts.Detail), opts.limit())
}

// Labels shapes a label listing with its pagination metadata.
func Labels(labels []vikunja.Label, meta vikunja.PageMeta, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonList("labels", labels, meta, opts, conciseLabel)
	}
	header := fmt.Sprintf("# Labels (%d of %d)", len(labels), meta.Total)
	return markdownList(header, "labels", labels, meta, opts, labelMarkdown)
}

// Teams shapes a team listing with its pagination metadata.
func Teams(teams []vikunja.Team, meta vikunja.PageMeta, opts Options) Result {
	if opts.Format == FormatJSON {
		return jsonList("teams", teams, meta, opts, conciseTeam)
	}
	header := fmt.Sprintf("# Teams (%d of %d)", len(teams), meta.Total)
	return markdownList(header, "teams", teams, meta, opts, teamMarkdown)
}

// JSON shapes an arbitrary value as indented JSON under the character cap.
// Used for payloads without list structure (relations, confirmations).
func JSON(v any, charLimit int) Result {
	if charLimit <= 0 {
		charLimit = DefaultCharLimit
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Result{Content: fmt.Sprintf("%v", v)}
	}
	return capped(string(data), charLimit)
}

// markdownList renders records one by one and keeps the longest prefix that
// fits the budget together with the truncation marker. Truncation always
// lands between records, and re-shaping the same input always cuts at the
// same boundary.
func markdownList[T any](header, noun string, records []T, meta vikunja.PageMeta, opts Options, render func(T, Detail) string) Result {
	if len(records) == 0 {
		return Result{Content: fmt.Sprintf("No %s found.", noun)}
	}

	sep := "\n"
	if opts.Detail == Detailed {
		sep = "\n\n"
	}
	rendered := make([]string, len(records))
	for i, r := range records {
		rendered[i] = render(r, opts.Detail)
	}

	footer := ""
	if meta.HasMore && meta.NextOffset != nil {
		footer = fmt.Sprintf("\n\n*Showing %s %d-%d of %d. Use offset=%d to see more.*",
			noun, meta.Offset+1, meta.Offset+meta.Count, meta.Total, *meta.NextOffset)
	}

	assemble := func(n int) string {
		var b strings.Builder
		b.WriteString(header)
		b.WriteString("\n")
		for i := 0; i < n; i++ {
			b.WriteString(sep)
			b.WriteString(rendered[i])
		}
		if n < len(records) {
			b.WriteString(truncationMarker(noun, len(records)-n))
		}
		b.WriteString(footer)
		return b.String()
	}

	full := assemble(len(records))
	if len(full) <= opts.limit() {
		return Result{Content: full}
	}

	for n := len(records) - 1; n >= 0; n-- {
		if out := assemble(n); len(out) <= opts.limit() {
			return Result{Content: out, Truncated: true, Omitted: len(records) - n}
		}
	}
	return Result{
		Content:   assemble(0),
		Truncated: true,
		Omitted:   len(records),
	}
}

func truncationMarker(noun string, omitted int) string {
	return fmt.Sprintf("\n\n---\n**Response truncated**: %d %s omitted to stay within the output budget. "+
		"Use limit/offset or filters to narrow the result.", omitted, noun)
}

// jsonEnvelope is the standard listing payload: pagination metadata plus the
// records and, when the budget forced a cut, the truncation accounting.
type jsonEnvelope struct {
	vikunja.PageMeta
	Records   []any
	Truncated bool
	Omitted   int
	key       string
}

func (e jsonEnvelope) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"total":    e.Total,
		"count":    e.Count,
		"limit":    e.Limit,
		"offset":   e.Offset,
		"has_more": e.HasMore,
		e.key:      e.Records,
	}
	if e.NextOffset != nil {
		m["next_offset"] = *e.NextOffset
	}
	if e.Truncated {
		m["truncated"] = true
		m["omitted"] = e.Omitted
	}
	return json.Marshal(m)
}

// jsonList shapes records into the JSON listing envelope, dropping whole
// records from the tail until the rendered output fits the budget.
func jsonList[T any](key string, records []T, meta vikunja.PageMeta, opts Options, concise func(T) any) Result {
	projected := make([]any, len(records))
	for i, r := range records {
		if opts.Detail == Detailed {
			projected[i] = r
		} else {
			projected[i] = concise(r)
		}
	}

	assemble := func(n int) (string, error) {
		env := jsonEnvelope{
			PageMeta:  meta,
			Records:   projected[:n],
			Truncated: n < len(records),
			Omitted:   len(records) - n,
			key:       key,
		}
		data, err := json.MarshalIndent(env, "", "  ")
		return string(data), err
	}

	for n := len(records); n >= 0; n-- {
		out, err := assemble(n)
		if err != nil {
			return Result{Content: fmt.Sprintf(`{"error":"failed to render %s"}`, key)}
		}
		if len(out) <= opts.limit() {
			return Result{Content: out, Truncated: n < len(records), Omitted: len(records) - n}
		}
	}
	out, _ := assemble(0)
	return Result{Content: out, Truncated: true, Omitted: len(records)}
}

func jsonValue[T any](v T, opts Options, concise func(T) any) Result {
	var payload any = v
	if opts.Detail != Detailed {
		payload = concise(v)
	}
	return JSON(payload, opts.limit())
}

// capped is the last-resort bound for single-record output, where no record
// boundary exists to cut at. The cut never splits a UTF-8 rune.
func capped(s string, limit int) Result {
	if len(s) <= limit {
		return Result{Content: s}
	}
	marker := "\n\n---\n**Response truncated** to stay within the output budget."
	if limit <= len(marker) {
		return Result{Content: s[:runeBoundary(s, limit)], Truncated: true}
	}
	cut := runeBoundary(s, limit-len(marker))
	return Result{Content: s[:cut] + marker, Truncated: true}
}

// runeBoundary returns the largest offset <= cut that starts a rune.
func runeBoundary(s string, cut int) int {
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}
