// Package journal records scan runs in SQLite for `stave history`.
//
// Each run stores its policies, timing, counts, and outcome under a UUID.
// The journal is observability, not state: a failed insert never blocks a
// scan, and deleting the database only loses history. Schema changes bump
// the version in schema.go.
package journal
