package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set (or export STAVE_LIBRARY_DIR)")
	}
	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		return errors.New("paths.manifest_path must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.PrimaryExtension == c.Scan.SecondaryExtension {
		return fmt.Errorf("scan.primary_extension and scan.secondary_extension must differ (both %q)", c.Scan.PrimaryExtension)
	}
	if strings.ContainsAny(c.Scan.MetadataFilename, "/\\") {
		return fmt.Errorf("scan.metadata_filename must be a bare file name, got %q", c.Scan.MetadataFilename)
	}
	switch c.Scan.ConflictPolicy {
	case ConflictLenient, ConflictStrict:
	default:
		return fmt.Errorf("scan.conflict_policy must be %q or %q, got %q", ConflictLenient, ConflictStrict, c.Scan.ConflictPolicy)
	}
	switch c.Scan.RenamePolicy {
	case RenameAuto, RenameInteractive, RenameSkip:
	default:
		return fmt.Errorf("scan.rename_policy must be %q, %q, or %q, got %q", RenameAuto, RenameInteractive, RenameSkip, c.Scan.RenamePolicy)
	}
	for _, pattern := range c.Scan.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.ignore contains invalid glob pattern %q", pattern)
		}
	}
	return nil
}
