package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"stave/internal/config"
	"stave/internal/journal"
	"stave/internal/logging"
	"stave/internal/manifest"
	"stave/internal/renamer"
	"stave/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var strictFlag bool
	var renameFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the library and write the manifest",
		Long: `Walk the library root, normalize audio companion names, and write the
manifest. Lenient conflict handling and automatic renames are the defaults;
--strict aborts on duplicate primary documents and --rename interactive
confirms each rename on the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			strict := strictFlag || cfg.Scan.ConflictPolicy == config.ConflictStrict
			policyValue := cfg.Scan.RenamePolicy
			if renameFlag != "" {
				policyValue = renameFlag
			}
			policy, err := renamer.ParsePolicy(policyValue)
			if err != nil {
				return err
			}
			if policy == renamer.PolicyInteractive && !dryRun && !stdinIsTerminal(cmd) {
				return errors.New("interactive rename policy needs a terminal; use --rename auto or --rename skip for unattended runs")
			}

			lock := flock.New(cfg.Paths.ManifestPath + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire scan lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another scan holds %s", lock.Path())
			}
			defer func() { _ = lock.Unlock() }()

			return runScan(cmd, cfg, logger, policy, strict, dryRun)
		},
	}

	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Abort when a leaf holds multiple primary documents")
	cmd.Flags().StringVar(&renameFlag, "rename", "", "Rename policy: auto, interactive, or skip (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Walk and report without renaming or writing the manifest")
	return cmd
}

func runScan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, policy renamer.Policy, strict, dryRun bool) error {
	log := logging.WithComponent(logger, "cli")

	conflictPolicy := config.ConflictLenient
	if strict {
		conflictPolicy = config.ConflictStrict
	}

	// Journal failures degrade to warnings; the scan itself must not depend
	// on history being writable.
	var store *journal.Store
	var run *journal.Run
	if !dryRun {
		var err error
		store, err = journal.Open(cfg.JournalPath())
		if err != nil {
			log.Warn("scan journal unavailable", logging.Error(err))
		} else {
			defer store.Close()
			run, err = store.StartRun(cmd.Context(), cfg.Paths.LibraryDir, conflictPolicy, string(policy))
			if err != nil {
				log.Warn("record scan start", logging.Error(err))
				run = nil
			}
		}
	}

	finish := func(result *scanner.Result, applied int, outcome string) {
		if store == nil || run == nil {
			return
		}
		if result != nil {
			run.Branches = result.Branches
			run.Leaves = result.Leaves
			run.Missing = result.Missing
			run.Warnings = len(result.Warnings)
		}
		run.RenamesApplied = applied
		run.Outcome = outcome
		if err := store.FinishRun(cmd.Context(), run); err != nil {
			log.Warn("record scan finish", logging.Error(err))
		}
	}

	scan := scanner.New(scanner.Options{
		Root:               cfg.Paths.LibraryDir,
		PrimaryExtension:   cfg.Scan.PrimaryExtension,
		SecondaryExtension: cfg.Scan.SecondaryExtension,
		MetadataFilename:   cfg.Scan.MetadataFilename,
		MaxDepth:           cfg.Scan.MaxDepth,
		Strict:             strict,
		Ignore:             cfg.Scan.Ignore,
		Logger:             logger,
	})
	result, err := scan.Scan()
	if err != nil {
		finish(nil, 0, journal.OutcomeFailed)
		return err
	}

	applied, declined := 0, 0
	if dryRun {
		for _, pending := range result.Renames {
			fmt.Fprintf(cmd.OutOrStdout(), "would rename %s: %q -> %q\n", pending.Path, pending.OldName, pending.NewName)
		}
	} else if len(result.Renames) > 0 {
		var prompter renamer.Prompter
		if policy == renamer.PolicyInteractive {
			prompter = renamer.NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		}
		outcomes, err := renamer.New(policy, prompter, logger).Apply(result.Renames)
		for _, outcome := range outcomes {
			switch {
			case outcome.Applied:
				applied++
			case outcome.Declined:
				declined++
			case outcome.Err != nil:
				result.Warnings = append(result.Warnings, scanner.Warning{
					Path:    outcome.Rename.Path,
					Message: fmt.Sprintf("rename %s failed: %v", outcome.Rename.OldName, outcome.Err),
				})
			}
		}
		if err != nil {
			if errors.Is(err, renamer.ErrAborted) {
				finish(result, applied, journal.OutcomeAborted)
			} else {
				finish(result, applied, journal.OutcomeFailed)
			}
			return err
		}
	}

	if !dryRun {
		summary, err := manifest.Write(cfg.Paths.ManifestPath, result.Tree)
		if err != nil {
			finish(result, applied, journal.OutcomeFailed)
			return err
		}
		log.Info("manifest written",
			logging.String("path", cfg.Paths.ManifestPath),
			logging.Int("bytes", summary.Bytes))
	}

	finish(result, applied, journal.OutcomeCompleted)
	printScanSummary(cmd, cfg, result, applied, declined, dryRun)

	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", warning.Path, warning.Message)
	}
	return nil
}

func printScanSummary(cmd *cobra.Command, cfg *config.Config, result *scanner.Result, applied, declined int, dryRun bool) {
	manifestCell := cfg.Paths.ManifestPath
	if dryRun {
		manifestCell = "(dry run, not written)"
	}
	rows := [][]string{
		{"Root", cfg.Paths.LibraryDir},
		{"Manifest", manifestCell},
		{"Branches", formatCount(result.Branches)},
		{"Leaves", formatCount(result.Leaves)},
		{"Missing", formatCount(result.Missing)},
		{"Warnings", formatCount(len(result.Warnings))},
		{"Renames applied", formatCount(applied)},
	}
	if declined > 0 {
		rows = append(rows, []string{"Renames declined", formatCount(declined)})
	}
	if dryRun {
		rows = append(rows, []string{"Renames pending", formatCount(len(result.Renames))})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
}

// stdinIsTerminal checks the process stdin, not the cobra stream, so tests
// that inject a buffer via SetIn still exercise the interactive path.
func stdinIsTerminal(cmd *cobra.Command) bool {
	if cmd.InOrStdin() != os.Stdin {
		return true
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
