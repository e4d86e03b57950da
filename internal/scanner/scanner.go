package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"stave/internal/logging"
	"stave/internal/manifest"
)

// ErrRootNotFound indicates the library root is missing or not a directory.
// This is fatal; no manifest is written.
var ErrRootNotFound = errors.New("library root not found")

// ErrPrimaryConflict indicates a leaf held more than one primary document
// while the strict conflict policy was active.
var ErrPrimaryConflict = errors.New("multiple primary documents")

// Options configures a scan.
type Options struct {
	Root               string
	PrimaryExtension   string // lowercase, leading dot
	SecondaryExtension string // lowercase, leading dot
	MetadataFilename   string
	MaxDepth           int
	Strict             bool
	Ignore             []string
	Logger             *slog.Logger
}

// Warning is a non-fatal finding attached to a directory.
type Warning struct {
	Path    string // directory path relative to the root ("." for the root)
	Message string
}

// PendingRename is a secondary file whose name does not match the primary's
// stem. The walk only records the decision; applying it is the renamer's job.
type PendingRename struct {
	Dir     string // absolute leaf directory
	Path    string // leaf path relative to the root, for display
	OldName string
	NewName string
}

// Result is the outcome of a completed walk.
type Result struct {
	Tree     *manifest.Node
	Renames  []PendingRename
	Warnings []Warning
	Branches int
	Leaves   int
	Missing  int
}

// Scanner walks a library root and builds the manifest tree.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a scanner. The logger may be nil.
func New(opts Options) *Scanner {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 10
	}
	return &Scanner{
		opts:   opts,
		logger: logging.WithComponent(opts.Logger, "scanner"),
	}
}

// Scan walks the root and returns the manifest tree plus pending renames and
// warnings. A missing root or a strict-mode primary conflict fails the whole
// scan; everything else degrades to warnings.
func (s *Scanner) Scan() (*Result, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	result := &Result{}
	tree, err := s.scanDir(result, root, ".", 0)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	return result, nil
}

// scanDir returns an owned subtree for one directory. Children are visited
// in raw byte order so the manifest is reproducible across filesystems.
func (s *Scanner) scanDir(result *Result, dir, rel string, depth int) (*manifest.Node, error) {
	if depth > s.opts.MaxDepth {
		s.warn(result, rel, fmt.Sprintf("depth %d exceeds limit %d; skipping descent", depth, s.opts.MaxDepth))
		result.Branches++
		return manifest.NewBranch(), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var subdirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		if s.ignored(name) {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, name)
		} else {
			files = append(files, name)
		}
	}
	sort.Strings(subdirs)
	sort.Strings(files)

	if s.isLeaf(files) {
		node, err := s.inspectLeaf(result, dir, rel, files)
		if err != nil {
			return nil, err
		}
		return node, nil
	}

	branch := manifest.NewBranch()
	result.Branches++
	if len(subdirs) == 0 {
		// Defensive default for directories with nothing recognizable.
		s.logger.Debug("empty directory", logging.String("path", rel))
		return branch, nil
	}

	s.logger.Info("entering branch", logging.String("path", rel), logging.Int("children", len(subdirs)))
	for _, name := range subdirs {
		child, err := s.scanDir(result, filepath.Join(dir, name), relJoin(rel, name), depth+1)
		if err != nil {
			return nil, err
		}
		branch.AddChild(name, child)
	}
	return branch, nil
}

// isLeaf reports whether a directory holds content files: a primary document
// or a metadata file makes it a leaf regardless of what else is present.
func (s *Scanner) isLeaf(files []string) bool {
	for _, name := range files {
		if hasExtension(name, s.opts.PrimaryExtension) || name == s.opts.MetadataFilename {
			return true
		}
	}
	return false
}

func (s *Scanner) ignored(name string) bool {
	for _, pattern := range s.opts.Ignore {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

func (s *Scanner) warn(result *Result, rel, message string) {
	result.Warnings = append(result.Warnings, Warning{Path: rel, Message: message})
	s.logger.Warn(message, logging.String("path", rel))
}

func hasExtension(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

func relJoin(rel, name string) string {
	if rel == "." {
		return name
	}
	return rel + "/" + name
}
