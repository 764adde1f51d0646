// Package facility implements the log sinks a router dispatches to: the
// [Console] writing styled lines to standard out/error, the rotating plain
// text [File], and the rotating browser-viewable [HTMLFile].
//
// Every facility implements [Facility]: it owns exactly one sink and renders
// and persists one [record.Record] per Write call. File-backed facilities
// safety-check their target through [go.jacobcolvin.com/logrouter/pathguard]
// before creation, before every rotation step, and before every append, and
// share the numbered-suffix rotation chain implemented by [Rotate]. The HTML
// facility additionally re-validates every rendered row through
// [go.jacobcolvin.com/logrouter/sanitize.ValidateFragment] before committing
// it.
//
// Facilities do no locking; the router serializes all writes.
package facility
