package renamer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"stave/internal/fileutil"
	"stave/internal/logging"
	"stave/internal/scanner"
)

// ErrAborted indicates the user chose quit at an interactive prompt. The
// caller must exit non-zero without writing a manifest.
var ErrAborted = errors.New("scan aborted at rename prompt")

// Policy selects how pending renames are applied.
type Policy string

const (
	// PolicyAuto renames without asking.
	PolicyAuto Policy = "auto"
	// PolicyInteractive confirms each rename on the terminal.
	PolicyInteractive Policy = "interactive"
	// PolicySkip leaves every mismatched companion alone.
	PolicySkip Policy = "skip"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case PolicyAuto, PolicyInteractive, PolicySkip:
		return Policy(value), nil
	default:
		return "", fmt.Errorf("unknown rename policy %q", value)
	}
}

// Answer is a response to an interactive rename prompt.
type Answer int

const (
	AnswerDecline Answer = iota
	AnswerConfirm
	AnswerQuit
)

// Prompter asks the user to confirm one rename.
type Prompter interface {
	Confirm(rename scanner.PendingRename) (Answer, error)
}

// Outcome records what happened to one pending rename.
type Outcome struct {
	Rename   scanner.PendingRename
	Applied  bool
	Declined bool
	Err      error // filesystem failure; warning-level, scan continues
}

// Renamer applies the rename decisions a scan accumulated.
type Renamer struct {
	policy   Policy
	prompter Prompter
	logger   *slog.Logger
}

// New constructs a renamer. The prompter is only consulted under
// PolicyInteractive and may be nil otherwise.
func New(policy Policy, prompter Prompter, logger *slog.Logger) *Renamer {
	return &Renamer{
		policy:   policy,
		prompter: prompter,
		logger:   logging.WithComponent(logger, "renamer"),
	}
}

// Apply walks the pending renames in order. Filesystem failures and declines
// are recorded per-outcome and never stop the pass; only an explicit quit
// answer aborts, returning ErrAborted alongside the outcomes so far.
func (r *Renamer) Apply(renames []scanner.PendingRename) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(renames))
	for _, pending := range renames {
		switch r.policy {
		case PolicySkip:
			r.logger.Warn("rename skipped by policy",
				logging.String("path", pending.Path),
				logging.String("file", pending.OldName))
			outcomes = append(outcomes, Outcome{Rename: pending, Declined: true})
			continue
		case PolicyInteractive:
			if r.prompter == nil {
				return outcomes, errors.New("interactive rename policy requires a prompter")
			}
			answer, err := r.prompter.Confirm(pending)
			if err != nil {
				return outcomes, fmt.Errorf("read rename confirmation: %w", err)
			}
			switch answer {
			case AnswerQuit:
				r.logger.Warn("scan aborted by user", logging.String("path", pending.Path))
				return outcomes, ErrAborted
			case AnswerDecline:
				r.logger.Warn("rename declined",
					logging.String("path", pending.Path),
					logging.String("file", pending.OldName))
				outcomes = append(outcomes, Outcome{Rename: pending, Declined: true})
				continue
			}
		}

		outcomes = append(outcomes, r.apply(pending))
	}
	return outcomes, nil
}

func (r *Renamer) apply(pending scanner.PendingRename) Outcome {
	src := filepath.Join(pending.Dir, pending.OldName)
	dst := filepath.Join(pending.Dir, pending.NewName)
	if err := fileutil.RenameExclusive(src, dst); err != nil {
		r.logger.Warn("rename failed",
			logging.String("path", pending.Path),
			logging.String("from", pending.OldName),
			logging.String("to", pending.NewName),
			logging.Error(err))
		return Outcome{Rename: pending, Err: err}
	}
	r.logger.Info("renamed companion",
		logging.String("path", pending.Path),
		logging.String("from", pending.OldName),
		logging.String("to", pending.NewName))
	return Outcome{Rename: pending, Applied: true}
}
