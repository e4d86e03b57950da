// Package manifest models the published archive tree and its JSON form.
//
// A Node is one of three cases: a branch (directory of subdirectories), a
// leaf holding its primary document's file name, or an explicit absence
// marker for a leaf missing its document. Branches remember insertion order,
// so the lexicographic ordering the scanner establishes survives encode and
// decode untouched. Write publishes atomically; a consumer reading the
// manifest path sees either the previous complete file or the new one.
package manifest
