package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteProducesIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	summary, err := Write(path, sampleTree())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Leaves != 2 || summary.Missing != 1 {
		t.Fatalf("summary: %+v", summary)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "  \"Baroque\": {") {
		t.Fatalf("expected two-space indentation:\n%s", text)
	}
	if !strings.Contains(text, "\"Handel\": null") {
		t.Fatalf("absence marker missing:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Fatal("manifest should end with a newline")
	}
}

func TestWriteOverwritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte("old content that is longer than the new manifest"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewBranch()
	root.AddChild("Solo", NewLeaf("Etude.pdf"))
	if _, err := Write(path, root); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !root.Equal(loaded) {
		t.Fatal("written manifest does not round trip")
	}
}

func TestWriteIsByteStable(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	if _, err := Write(first, sampleTree()); err != nil {
		t.Fatal(err)
	}
	if _, err := Write(second, sampleTree()); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Fatal("identical trees must serialize identically")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(filepath.Join(dir, "manifest.json"), sampleTree()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "manifest.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}
}
