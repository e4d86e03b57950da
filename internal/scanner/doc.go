// Package scanner walks the library root and builds the manifest tree.
//
// The walk is a pure depth-first recursion: each directory produces an owned
// subtree composed by its parent, with children visited in raw byte order so
// repeated scans over an unchanged tree serialize identically. A directory
// holding a primary document or a metadata file is a leaf; one holding only
// subdirectories is a branch; anything else is an empty branch.
//
// Leaf validation records findings rather than acting on them: mismatched
// secondary companions become PendingRename entries for the renamer to apply
// after the walk, and everything short of a strict-mode primary conflict or
// a missing root is a warning, never a failure.
package scanner
