package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, path, exists, err := Load(filepath.Join(dir, "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Scan.PrimaryExtension != ".pdf" {
		t.Fatalf("primary extension: got %q", cfg.Scan.PrimaryExtension)
	}
	if cfg.Scan.ConflictPolicy != ConflictLenient {
		t.Fatalf("conflict policy: got %q", cfg.Scan.ConflictPolicy)
	}
	if cfg.Scan.RenamePolicy != RenameAuto {
		t.Fatalf("rename policy: got %q", cfg.Scan.RenamePolicy)
	}
	if cfg.Scan.MaxDepth != 10 {
		t.Fatalf("max depth: got %d", cfg.Scan.MaxDepth)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "stave.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "lib") + `"
manifest_path = "` + filepath.Join(dir, "out.json") + `"

[scan]
primary_extension = "PDF"
secondary_extension = ".Ogg"
conflict_policy = "Strict"
rename_policy = "skip"
ignore = [".*", "", ".*"]
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Scan.PrimaryExtension != ".pdf" {
		t.Fatalf("primary extension not normalized: %q", cfg.Scan.PrimaryExtension)
	}
	if cfg.Scan.SecondaryExtension != ".ogg" {
		t.Fatalf("secondary extension not normalized: %q", cfg.Scan.SecondaryExtension)
	}
	if cfg.Scan.ConflictPolicy != ConflictStrict {
		t.Fatalf("conflict policy: got %q", cfg.Scan.ConflictPolicy)
	}
	if len(cfg.Scan.Ignore) != 1 || cfg.Scan.Ignore[0] != ".*" {
		t.Fatalf("ignore patterns not deduplicated: %v", cfg.Scan.Ignore)
	}
	if !filepath.IsAbs(cfg.Paths.ManifestPath) {
		t.Fatalf("manifest path not absolute: %q", cfg.Paths.ManifestPath)
	}
}

func TestValidateRejectsBadPolicies(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}

	bad := cfg
	bad.Scan.ConflictPolicy = "maybe"
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "conflict_policy") {
		t.Fatalf("expected conflict_policy error, got %v", err)
	}

	bad = cfg
	bad.Scan.RenamePolicy = "ask-twice"
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "rename_policy") {
		t.Fatalf("expected rename_policy error, got %v", err)
	}

	bad = cfg
	bad.Scan.SecondaryExtension = bad.Scan.PrimaryExtension
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for identical extensions")
	}

	bad = cfg
	bad.Scan.Ignore = []string{"[unclosed"}
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "glob") {
		t.Fatalf("expected glob error, got %v", err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/scores")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "scores") {
		t.Fatalf("expand: got %q", got)
	}
}
