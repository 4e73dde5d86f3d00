package relations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// maxVisits bounds the graph walk so a pathological or corrupted remote
// graph cannot turn one validation into an unbounded fetch storm.
const maxVisits = 250

// ErrSelfRelation is returned for an edge from a task to itself, which is
// rejected regardless of relation kind.
var ErrSelfRelation = errors.New("a task cannot relate to itself")

// CycleError reports that a proposed edge would close a directed cycle.
// Path is the existing walk from the proposed edge's target back to its
// source, so callers can explain exactly which chain the new edge would
// close.
type CycleError struct {
	Kind vikunja.RelationKind
	Path []int64
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("relation %q would create a cycle through tasks %s",
		e.Kind, strings.Join(ids, " -> "))
}

// Edge is a proposed directed relation between two tasks.
type Edge struct {
	From int64
	To   int64
	Kind vikunja.RelationKind
}

// EdgeSource provides the current relations of a task. The live Vikunja
// client satisfies it; tests substitute an in-memory graph.
type EdgeSource interface {
	TaskRelations(ctx context.Context, taskID int64) (map[vikunja.RelationKind][]vikunja.Task, error)
}

// family groups the two kinds describing one hierarchical relationship, with
// a canonical downstream direction. An edge of the forward kind points
// downstream as stored; an edge of the inverse kind points upstream.
type family struct {
	forward vikunja.RelationKind
	inverse vikunja.RelationKind
}

// The three hierarchical families. Cycles are only meaningful within one
// family: a subtask loop, a scheduling loop, or a blocking loop. The
// remaining kinds (related, duplicateof/duplicates, copiedfrom/copiedto)
// carry no ordering, so no cycle check applies to them.
var families = []family{
	{forward: vikunja.RelationSubtask, inverse: vikunja.RelationParentTask},
	{forward: vikunja.RelationPrecedes, inverse: vikunja.RelationFollows},
	{forward: vikunja.RelationBlocking, inverse: vikunja.RelationBlocked},
}

func familyOf(kind vikunja.RelationKind) (family, bool) {
	for _, f := range families {
		if kind == f.forward || kind == f.inverse {
			return f, true
		}
	}
	return family{}, false
}

// Guard validates proposed relation edges against the live remote graph.
// The graph is fetched fresh for every validation because the remote state
// is the source of truth and may change between calls; nothing is cached.
type Guard struct {
	source EdgeSource
}

// NewGuard creates a guard reading edges from source.
func NewGuard(source EdgeSource) *Guard {
	return &Guard{source: source}
}

// Validate checks a proposed edge before it is submitted. Self-relations
// are always rejected. For hierarchical kinds, Validate walks the current
// same-family graph: the edge is rejected with a *CycleError when its
// target can already reach its source, since adding the edge would then
// close a loop. Non-hierarchical kinds cannot form a meaningful cycle and
// skip the remote fetch entirely.
//
// Validate never mutates remote state.
func (g *Guard) Validate(ctx context.Context, edge Edge) error {
	if edge.From == edge.To {
		return ErrSelfRelation
	}

	fam, hierarchical := familyOf(edge.Kind)
	if !hierarchical {
		return nil
	}

	// Normalize the proposed edge to the family's downstream direction.
	from, to := edge.From, edge.To
	if edge.Kind == fam.inverse {
		from, to = to, from
	}

	// An existing edge may be recorded on either endpoint: the tail
	// carries the forward kind, the head the inverse kind. Vikunja
	// mirrors both sides of a relation, but an edge written through the
	// raw API can exist on one side only, so the graph is walked in both
	// directions: downstream over forward entries from the target, and
	// upstream over inverse entries from the source. A path whose edges
	// are split across both storage sides still relies on the mirror.
	down := &walk{source: g.source, follow: fam.forward, target: from}
	path, found, err := down.reach(ctx, to, []int64{to})
	if err != nil {
		return fmt.Errorf("failed to check relation graph: %w", err)
	}
	if found {
		return &CycleError{Kind: edge.Kind, Path: path}
	}

	up := &walk{source: g.source, follow: fam.inverse, target: to}
	path, found, err = up.reach(ctx, from, []int64{from})
	if err != nil {
		return fmt.Errorf("failed to check relation graph: %w", err)
	}
	if found {
		// The upstream walk collects the path source-first; reverse it
		// so the reported chain runs from the target back to the source
		// like the downstream case.
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		return &CycleError{Kind: edge.Kind, Path: path}
	}
	return nil
}

// walk is the state of one depth-first reachability check following one
// relation kind.
type walk struct {
	source  EdgeSource
	follow  vikunja.RelationKind
	target  int64
	visited map[int64]bool
}

// reach reports whether target is reachable from node through entries of
// the walk's follow kind, returning the path that reaches it.
func (w *walk) reach(ctx context.Context, node int64, path []int64) ([]int64, bool, error) {
	if w.visited == nil {
		w.visited = make(map[int64]bool)
	}
	if w.visited[node] {
		return nil, false, nil
	}
	if len(w.visited) >= maxVisits {
		return nil, false, fmt.Errorf("relation graph exceeds %d tasks", maxVisits)
	}
	w.visited[node] = true

	for _, next := range w.neighbors(ctx, node) {
		if next.err != nil {
			return nil, false, next.err
		}
		if next.id == w.target {
			return append(path, next.id), true, nil
		}
		if found, ok, err := w.reach(ctx, next.id, append(path, next.id)); err != nil || ok {
			return found, ok, err
		}
	}
	return nil, false, nil
}

type neighbor struct {
	id  int64
	err error
}

// neighbors fetches node's relations and returns the tasks one step away
// through entries of the walk's follow kind.
func (w *walk) neighbors(ctx context.Context, node int64) []neighbor {
	related, err := w.source.TaskRelations(ctx, node)
	if err != nil {
		return []neighbor{{err: err}}
	}

	var out []neighbor
	for _, task := range related[w.follow] {
		out = append(out, neighbor{id: task.ID})
	}
	return out
}
