package cli

import (
	"github.com/spf13/cobra"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/diff"
	"github.com/drkit/draudit/internal/format"
	"github.com/drkit/draudit/internal/snapshot"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var beforeID, afterID string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two audit snapshots",
		Long: `Compute the signature-based delta between two snapshots. With no ids,
the two most recent snapshots are compared. With only one snapshot in the
store the result is a no-baseline report, not an error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, cmd, beforeID, afterID)
		},
	}

	cmd.Flags().StringVar(&beforeID, "before", "", "baseline snapshot id")
	cmd.Flags().StringVar(&afterID, "after", "", "comparison snapshot id")
	return cmd
}

func runDiff(opts *RootOptions, cmd *cobra.Command, beforeID, afterID string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	store := snapshot.New(opts.SnapshotDir())

	// Default to the two most recent snapshots.
	if beforeID == "" || afterID == "" {
		metas, err := store.List()
		if err != nil {
			return WrapExitError(ExitCommandError, "list snapshots", err)
		}
		if afterID == "" {
			if len(metas) == 0 {
				return NewExitError(ExitCommandError, "no snapshots to compare; run audit --save-snapshot first")
			}
			afterID = metas[0].ID
		}
		if beforeID == "" && len(metas) > 1 {
			// metas[0] may be the explicit after id; pick the newest other.
			for _, m := range metas {
				if m.ID != afterID {
					beforeID = m.ID
					break
				}
			}
		}
	}

	after, err := store.Load(afterID)
	if err != nil {
		return WrapExitError(ExitCommandError, "load snapshot", err)
	}
	var before *audit.Report
	if beforeID != "" {
		before, err = store.Load(beforeID)
		if err != nil {
			return WrapExitError(ExitCommandError, "load snapshot", err)
		}
	}
	formatter.VerboseLog("Comparing %q -> %q", beforeID, afterID)

	result := diff.Compare(beforeID, before, afterID, after)
	rendered, err := renderDiff(opts.Format, result)
	if err != nil {
		return WrapExitError(ExitCommandError, "render diff", err)
	}
	return formatter.Emit(rendered)
}

func renderDiff(name string, d *diff.Result) (string, error) {
	switch name {
	case format.JSON:
		return format.ToJSON(d)
	case format.Markdown:
		return format.DiffToMarkdown(d), nil
	default:
		return format.DiffToText(d), nil
	}
}
