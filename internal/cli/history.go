package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drkit/draudit/internal/history"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show the audit metric trend, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := history.Open(rootOpts.HistoryPath())
			if err != nil {
				return WrapExitError(ExitCommandError, "open history", err)
			}
			defer hist.Close()

			entries, err := hist.List(limit)
			if err != nil {
				return WrapExitError(ExitCommandError, "list history", err)
			}

			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			if formatter.Format == "json" {
				return formatter.EmitJSON(entries)
			}
			if len(entries) == 0 {
				return formatter.Emit("No audit history.")
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s  %s %s  isolation=%.1f%% density=%.2f gaps=%d(high %d) dupes=%d components=%d\n",
					e.SnapshotID, e.ModelName, e.ModelVersion, e.IsolationAvg, e.DensityAvg,
					e.GapCount, e.HighGapCount, e.DuplicateCount, e.Components)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to show (0 = all)")
	return cmd
}
