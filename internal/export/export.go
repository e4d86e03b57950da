// Package export flattens the archive into a single directory.
//
// Every complete leaf is copied out as "Branch - Sub - Leaf.pdf" together
// with its audio companion and metadata file when present. Existing targets
// are never overwritten; collisions and absent leaves are reported as
// warnings and the export continues.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stave/internal/fileutil"
	"stave/internal/logging"
	"stave/internal/manifest"
)

// Options configures an export pass.
type Options struct {
	Root               string // library root the tree was scanned from
	TargetDir          string
	SecondaryExtension string
	MetadataFilename   string
	Logger             *slog.Logger
}

// Summary reports what an export covered.
type Summary struct {
	Leaves   int
	Copied   int
	Warnings []string
}

// Run copies every complete leaf of tree into the target directory.
func Run(tree *manifest.Node, opts Options) (*Summary, error) {
	if tree == nil {
		return nil, errors.New("export: nil tree")
	}
	if strings.TrimSpace(opts.TargetDir) == "" {
		return nil, errors.New("export: target directory not configured")
	}
	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	logger := logging.WithComponent(opts.Logger, "export")
	summary := &Summary{}

	err := tree.Walk(func(path []string, node *manifest.Node) error {
		switch node.Kind() {
		case manifest.KindBranch:
			return nil
		case manifest.KindLeafMissing:
			summary.warn(logger, fmt.Sprintf("%s: no primary document, skipped", strings.Join(path, "/")))
			return nil
		}

		summary.Leaves++
		leafDir := filepath.Join(append([]string{opts.Root}, path...)...)
		flat := strings.Join(path, " - ")
		primary := node.Document()
		stem := strings.TrimSuffix(primary, filepath.Ext(primary))

		copies := []struct{ src, dst string }{
			{primary, flat + filepath.Ext(primary)},
		}
		if opts.SecondaryExtension != "" {
			secondary := stem + opts.SecondaryExtension
			if _, err := os.Stat(filepath.Join(leafDir, secondary)); err == nil {
				copies = append(copies, struct{ src, dst string }{secondary, flat + opts.SecondaryExtension})
			}
		}
		if opts.MetadataFilename != "" {
			if _, err := os.Stat(filepath.Join(leafDir, opts.MetadataFilename)); err == nil {
				copies = append(copies, struct{ src, dst string }{opts.MetadataFilename, flat + ".info.json"})
			}
		}

		for _, c := range copies {
			dst := filepath.Join(opts.TargetDir, c.dst)
			if _, err := os.Stat(dst); err == nil {
				summary.warn(logger, fmt.Sprintf("%s: target %s already exists, skipped", strings.Join(path, "/"), c.dst))
				continue
			}
			if err := fileutil.CopyFile(filepath.Join(leafDir, c.src), dst); err != nil {
				summary.warn(logger, fmt.Sprintf("%s: copy %s: %v", strings.Join(path, "/"), c.src, err))
				continue
			}
			summary.Copied++
			logger.Info("exported", logging.String("file", c.dst))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Summary) warn(logger *slog.Logger, message string) {
	s.Warnings = append(s.Warnings, message)
	logger.Warn(message)
}
