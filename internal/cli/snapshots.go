package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drkit/draudit/internal/history"
	"github.com/drkit/draudit/internal/snapshot"
)

// NewSnapshotsCommand creates the snapshots command group.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage persisted audit snapshots",
	}
	cmd.AddCommand(newSnapshotsListCommand(rootOpts))
	cmd.AddCommand(newSnapshotsDeleteCommand(rootOpts))
	cmd.AddCommand(newSnapshotsClearCommand(rootOpts))
	return cmd
}

func newSnapshotsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List snapshots, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := snapshot.New(rootOpts.SnapshotDir())
			metas, err := store.List()
			if err != nil {
				return WrapExitError(ExitCommandError, "list snapshots", err)
			}

			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			if formatter.Format == "json" {
				return formatter.EmitJSON(metas)
			}
			if len(metas) == 0 {
				return formatter.Emit("No snapshots.")
			}
			for _, m := range metas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s  layers=%d\n",
					m.ID, m.ModelName, m.ModelVersion, len(m.Layers))
			}
			return nil
		},
	}
}

func newSnapshotsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:           "delete",
		Short:         "Delete one snapshot by id",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return NewExitError(ExitCommandError, "missing required flag --id")
			}
			store := snapshot.New(rootOpts.SnapshotDir())
			if err := store.Delete(id); err != nil {
				return WrapExitError(ExitCommandError, "delete snapshot", err)
			}
			// Keep the history index in step; stale rows are harmless but
			// confusing in trend output.
			if hist, err := history.Open(rootOpts.HistoryPath()); err == nil {
				_ = hist.Delete(id)
				hist.Close()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "snapshot id to delete")
	return cmd
}

func newSnapshotsClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete all snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := snapshot.New(rootOpts.SnapshotDir())
			n, err := store.Clear()
			if err != nil {
				return WrapExitError(ExitCommandError, "clear snapshots", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot(s)\n", n)
			return nil
		},
	}
}
