// Package relations validates task relation edges before they are submitted
// to Vikunja.
//
// The service accepts any relation between two existing tasks, including
// ones that close a dependency loop. A blocking loop or a subtask loop is
// never what the caller meant, so the guard in this package walks the
// current remote relation graph and rejects edges that would create a cycle
// within a hierarchical family (subtask/parenttask, precedes/follows,
// blocking/blocked), reporting the offending task chain. The remote graph is
// re-fetched on every validation; there is no local cache to go stale.
package relations
