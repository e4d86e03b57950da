package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stave/internal/export"
	"stave/internal/manifest"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var targetFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy every complete leaf into a flat directory",
		Long: `Read the manifest and copy each leaf's primary document, audio companion,
and metadata file into a single directory under flattened names like
"Branch - Sub - Leaf.pdf". Existing targets are never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tree, err := manifest.Load(cfg.Paths.ManifestPath)
			if err != nil {
				return fmt.Errorf("load manifest %s (run 'stave scan' first): %w", cfg.Paths.ManifestPath, err)
			}

			target := cfg.Paths.ExportDir
			if targetFlag != "" {
				target = targetFlag
			}

			summary, err := export.Run(tree, export.Options{
				Root:               cfg.Paths.LibraryDir,
				TargetDir:          target,
				SecondaryExtension: cfg.Scan.SecondaryExtension,
				MetadataFilename:   cfg.Scan.MetadataFilename,
				Logger:             logger,
			})
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Target", target},
				{"Leaves", formatCount(summary.Leaves)},
				{"Files copied", formatCount(summary.Copied)},
				{"Warnings", formatCount(len(summary.Warnings))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))

			for _, warning := range summary.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetFlag, "target", "", "Export directory (default from config)")
	return cmd
}
