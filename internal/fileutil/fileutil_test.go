package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")

	content := []byte("score bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRenameExclusive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.mp3")
	dst := filepath.Join(dir, "new.mp3")

	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RenameExclusive(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("source should be gone after rename")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("target missing after rename: %v", err)
	}
}

func TestRenameExclusive_TargetExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.mp3")
	dst := filepath.Join(dir, "new.mp3")

	if err := os.WriteFile(src, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := RenameExclusive(src, dst)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Fatal("source must be untouched when target exists")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "b" {
		t.Fatalf("target must be untouched, got %q", got)
	}
}
