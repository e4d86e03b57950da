package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stave/internal/manifest"
)

func testOptions(root string) Options {
	return Options{
		Root:               root,
		PrimaryExtension:   ".pdf",
		SecondaryExtension: ".mp3",
		MetadataFilename:   "info.json",
		MaxDepth:           10,
		Ignore:             []string{".*"},
	}
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		content := []byte("x")
		if name == "info.json" {
			content = []byte("{}")
		}
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	s := New(testOptions(filepath.Join(t.TempDir(), "nope")))
	if _, err := s.Scan(); !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestScanRootIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "root")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(testOptions(path))
	if _, err := s.Scan(); !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestBranchChildrenSorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b", "a", "c"} {
		touch(t, mkdir(t, root, name), name+".pdf", "info.json")
	}

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	names := result.Tree.ChildNames()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("children not sorted: %v", names)
	}
	if result.Leaves != 3 {
		t.Fatalf("leaves: got %d", result.Leaves)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestSingleLeafNoSecondary(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.pdf", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	leaf := result.Tree.Child("Bach")
	if leaf.Kind() != manifest.KindLeaf || leaf.Document() != "Air.pdf" {
		t.Fatalf("leaf: %v %q", leaf.Kind(), leaf.Document())
	}
	if len(result.Renames) != 0 {
		t.Fatalf("unexpected renames: %v", result.Renames)
	}
}

func TestMismatchedSecondaryRecordsRename(t *testing.T) {
	root := t.TempDir()
	dir := mkdir(t, root, "Bach")
	touch(t, dir, "Air.pdf", "recording.mp3", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Renames) != 1 {
		t.Fatalf("renames: %v", result.Renames)
	}
	pending := result.Renames[0]
	if pending.OldName != "recording.mp3" || pending.NewName != "Air.mp3" {
		t.Fatalf("rename pair: %q -> %q", pending.OldName, pending.NewName)
	}
	if pending.Dir != dir {
		t.Fatalf("rename dir: %q", pending.Dir)
	}
	// The walk itself must not touch the filesystem.
	if _, err := os.Stat(filepath.Join(dir, "recording.mp3")); err != nil {
		t.Fatal("walk must not rename files")
	}
	if result.Tree.Child("Bach").Document() != "Air.pdf" {
		t.Fatal("leaf value must be the primary regardless of rename state")
	}
}

func TestMatchingSecondaryNoRename(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.pdf", "Air.mp3", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Renames) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected clean leaf, got renames=%v warnings=%v", result.Renames, result.Warnings)
	}
}

func TestMultipleSecondariesWarnWithoutRename(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.pdf", "take1.mp3", "take2.mp3", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Renames) != 0 {
		t.Fatalf("no rename expected: %v", result.Renames)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "multiple secondary") {
		t.Fatalf("warnings: %v", result.Warnings)
	}
}

func TestMissingPrimaryBecomesAbsenceMarker(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if result.Tree.Child("Bach").Kind() != manifest.KindLeafMissing {
		t.Fatal("expected absence marker")
	}
	if result.Missing != 1 {
		t.Fatalf("missing count: %d", result.Missing)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "no primary document") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing-primary warning absent: %v", result.Warnings)
	}
}

func TestStrictConflictAborts(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "A.pdf", "B.pdf", "info.json")

	opts := testOptions(root)
	opts.Strict = true
	_, err := New(opts).Scan()
	if !errors.Is(err, ErrPrimaryConflict) {
		t.Fatalf("expected ErrPrimaryConflict, got %v", err)
	}
	if err != nil && (!strings.Contains(err.Error(), "A.pdf") || !strings.Contains(err.Error(), "B.pdf")) {
		t.Fatalf("conflict diagnostic must list every file: %v", err)
	}
}

func TestLenientConflictKeepsFirstAndSkipsRenames(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "B.pdf", "A.pdf", "other.mp3", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Tree.Child("Bach").Document(); got != "A.pdf" {
		t.Fatalf("lenient pick: got %q, want lexicographically first", got)
	}
	if len(result.Renames) != 0 {
		t.Fatalf("secondary renaming must be skipped on conflict: %v", result.Renames)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "multiple primary") {
		t.Fatalf("warnings: %v", result.Warnings)
	}
}

func TestDepthCapSkipsDescent(t *testing.T) {
	root := t.TempDir()
	deep := mkdir(t, root, "a", "b", "c", "d")
	touch(t, deep, "x.pdf", "info.json")

	opts := testOptions(root)
	opts.MaxDepth = 2
	result, err := New(opts).Scan()
	if err != nil {
		t.Fatal(err)
	}
	warned := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "depth") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected depth warning: %v", result.Warnings)
	}
	node := result.Tree.Child("a").Child("b").Child("c")
	if node == nil || node.Kind() != manifest.KindBranch || len(node.ChildNames()) != 0 {
		t.Fatal("capped directory should be an empty branch")
	}
}

func TestIgnoredEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.pdf", "info.json", ".DS_Store")
	mkdir(t, root, ".git")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if result.Tree.Child(".git") != nil {
		t.Fatal(".git should be ignored")
	}
	if len(result.Tree.ChildNames()) != 1 {
		t.Fatalf("children: %v", result.Tree.ChildNames())
	}
}

func TestEmptyDirectoryIsEmptyBranch(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "empty")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	node := result.Tree.Child("empty")
	if node == nil || node.Kind() != manifest.KindBranch || len(node.ChildNames()) != 0 {
		t.Fatal("expected empty branch")
	}
}

func TestExtensionMatchingIsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.PDF", "Air.MP3", "info.json")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	leaf := result.Tree.Child("Bach")
	if leaf.Kind() != manifest.KindLeaf || leaf.Document() != "Air.PDF" {
		t.Fatalf("leaf: %v %q", leaf.Kind(), leaf.Document())
	}
	if len(result.Renames) != 0 {
		t.Fatalf("matching stems must not rename: %v", result.Renames)
	}
}

func TestMissingMetadataWarns(t *testing.T) {
	root := t.TempDir()
	touch(t, mkdir(t, root, "Bach"), "Air.pdf")

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "info.json") {
		t.Fatalf("warnings: %v", result.Warnings)
	}
	if result.Tree.Child("Bach").Kind() != manifest.KindLeaf {
		t.Fatal("metadata absence must not block the leaf value")
	}
}

func TestInvalidMetadataWarns(t *testing.T) {
	root := t.TempDir()
	dir := mkdir(t, root, "Bach")
	touch(t, dir, "Air.pdf")
	if err := os.WriteFile(filepath.Join(dir, "info.json"), []byte(`{"youtube": 42}`), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New(testOptions(root)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "invalid info.json") {
		t.Fatalf("warnings: %v", result.Warnings)
	}
}
