package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Summary reports what a completed write covered.
type Summary struct {
	Leaves  int
	Missing int
	Bytes   int
}

// Write serializes the tree to path as pretty-printed UTF-8 JSON with
// two-space indentation. The file is staged next to the target and renamed
// into place, so readers never observe a half-built manifest.
func Write(path string, root *Node) (Summary, error) {
	if root == nil {
		return Summary{}, fmt.Errorf("write manifest: nil root")
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return Summary{}, fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return Summary{}, fmt.Errorf("stage manifest: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Summary{}, fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Summary{}, fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return Summary{}, fmt.Errorf("chmod manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return Summary{}, fmt.Errorf("publish manifest: %w", err)
	}

	present, missing := root.LeafCount()
	return Summary{Leaves: present, Missing: missing, Bytes: len(data)}, nil
}

// Load reads and parses a previously written manifest.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}
