// Package renamer applies the companion renames a scan accumulated.
//
// Keeping the effect separate from the walk means the traversal never blocks
// on a terminal read and the same scan code serves auto, interactive, and
// skip policies. Renames only ever touch the secondary file, in place, and
// never replace an existing target; a filesystem failure is a warning on the
// outcome, while an explicit quit at the prompt aborts the run before any
// manifest is written.
package renamer
