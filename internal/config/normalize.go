package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir == "" {
		if value, ok := os.LookupEnv("STAVE_LIBRARY_DIR"); ok {
			c.Paths.LibraryDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		c.Paths.ManifestPath = defaultManifestPath
	}
	if c.Paths.ManifestPath, err = expandPath(c.Paths.ManifestPath); err != nil {
		return fmt.Errorf("paths.manifest_path: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.PrimaryExtension = normalizeExtension(c.Scan.PrimaryExtension, defaultPrimaryExtension)
	c.Scan.SecondaryExtension = normalizeExtension(c.Scan.SecondaryExtension, defaultSecondaryExtension)
	c.Scan.MetadataFilename = strings.TrimSpace(c.Scan.MetadataFilename)
	if c.Scan.MetadataFilename == "" {
		c.Scan.MetadataFilename = defaultMetadataFilename
	}
	if c.Scan.MaxDepth <= 0 {
		c.Scan.MaxDepth = defaultMaxDepth
	}
	c.Scan.ConflictPolicy = strings.ToLower(strings.TrimSpace(c.Scan.ConflictPolicy))
	if c.Scan.ConflictPolicy == "" {
		c.Scan.ConflictPolicy = defaultConflictPolicy
	}
	c.Scan.RenamePolicy = strings.ToLower(strings.TrimSpace(c.Scan.RenamePolicy))
	if c.Scan.RenamePolicy == "" {
		c.Scan.RenamePolicy = defaultRenamePolicy
	}

	patterns := make([]string, 0, len(c.Scan.Ignore))
	seen := make(map[string]struct{}, len(c.Scan.Ignore))
	for _, pattern := range c.Scan.Ignore {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		patterns = append(patterns, trimmed)
	}
	c.Scan.Ignore = patterns
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeExtension(value, fallback string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return fallback
	}
	if !strings.HasPrefix(cleaned, ".") {
		cleaned = "." + cleaned
	}
	return cleaned
}
