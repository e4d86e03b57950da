package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"stave/internal/logging"
	"stave/internal/manifest"
	"stave/internal/metadata"
)

// inspectLeaf applies the leaf decision table: pick the primary document,
// check the secondary companion's name, and verify metadata. Only the strict
// multi-primary case is fatal.
func (s *Scanner) inspectLeaf(result *Result, dir, rel string, files []string) (*manifest.Node, error) {
	var primaries, secondaries []string
	for _, name := range files {
		switch {
		case hasExtension(name, s.opts.PrimaryExtension):
			primaries = append(primaries, name)
		case hasExtension(name, s.opts.SecondaryExtension):
			secondaries = append(secondaries, name)
		}
	}

	s.checkMetadata(result, dir, rel, files)

	if len(primaries) == 0 {
		result.Missing++
		s.warn(result, rel, "no primary document")
		return manifest.NewMissingLeaf(), nil
	}

	if len(primaries) > 1 {
		if s.opts.Strict {
			return nil, fmt.Errorf("%w in %s: %s", ErrPrimaryConflict, rel, strings.Join(primaries, ", "))
		}
		s.warn(result, rel, fmt.Sprintf("multiple primary documents (%s); keeping %s", strings.Join(primaries, ", "), primaries[0]))
		// Lenient mode keeps the first and leaves secondaries alone.
		result.Leaves++
		s.logger.Info("leaf", logging.String("path", rel), logging.String("document", primaries[0]))
		return manifest.NewLeaf(primaries[0]), nil
	}

	primary := primaries[0]
	switch len(secondaries) {
	case 0:
	case 1:
		secondary := secondaries[0]
		if !stemsMatch(primary, secondary) {
			newName := stem(primary) + filepath.Ext(secondary)
			result.Renames = append(result.Renames, PendingRename{
				Dir:     dir,
				Path:    rel,
				OldName: secondary,
				NewName: newName,
			})
			s.logger.Info("companion needs rename",
				logging.String("path", rel),
				logging.String("from", secondary),
				logging.String("to", newName))
		}
	default:
		s.warn(result, rel, fmt.Sprintf("multiple secondary files (%s); manual action needed", strings.Join(secondaries, ", ")))
	}

	result.Leaves++
	s.logger.Info("leaf", logging.String("path", rel), logging.String("document", primary))
	return manifest.NewLeaf(primary), nil
}

func (s *Scanner) checkMetadata(result *Result, dir, rel string, files []string) {
	found := false
	for _, name := range files {
		if name == s.opts.MetadataFilename {
			found = true
			break
		}
	}
	if !found {
		s.warn(result, rel, fmt.Sprintf("no %s", s.opts.MetadataFilename))
		return
	}
	if _, err := metadata.Load(filepath.Join(dir, s.opts.MetadataFilename)); err != nil {
		s.warn(result, rel, fmt.Sprintf("invalid %s: %v", s.opts.MetadataFilename, err))
	}
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// stemsMatch compares base names under NFC normalization so names that only
// differ in Unicode composition (macOS vs Linux filesystems) compare equal.
func stemsMatch(primary, secondary string) bool {
	return norm.NFC.String(stem(primary)) == norm.NFC.String(stem(secondary))
}
