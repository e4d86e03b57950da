package config

const (
	defaultLibraryDir         = "~/scores"
	defaultManifestPath       = "manifest.json"
	defaultExportDir          = "~/scores-flat"
	defaultLogDir             = "~/.local/share/stave/logs"
	defaultPrimaryExtension   = ".pdf"
	defaultSecondaryExtension = ".mp3"
	defaultMetadataFilename   = "info.json"
	defaultMaxDepth           = 10
	defaultConflictPolicy     = ConflictLenient
	defaultRenamePolicy       = RenameAuto
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:   defaultLibraryDir,
			ManifestPath: defaultManifestPath,
			ExportDir:    defaultExportDir,
			LogDir:       defaultLogDir,
		},
		Scan: Scan{
			PrimaryExtension:   defaultPrimaryExtension,
			SecondaryExtension: defaultSecondaryExtension,
			MetadataFilename:   defaultMetadataFilename,
			MaxDepth:           defaultMaxDepth,
			ConflictPolicy:     defaultConflictPolicy,
			RenamePolicy:       defaultRenamePolicy,
			Ignore:             []string{".*"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
