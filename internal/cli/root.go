package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/drkit/draudit/internal/format"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "markdown"
	ModelArg string // path to the model YAML
	StateDir string // root for persisted state, default ".dr"
}

// SnapshotDir returns the snapshot store directory under the state root.
func (o *RootOptions) SnapshotDir() string {
	return filepath.Join(o.StateDir, "audit-snapshots")
}

// HistoryPath returns the audit-history database path under the state root.
func (o *RootOptions) HistoryPath() string {
	return filepath.Join(o.StateDir, "audit-history.db")
}

// NewRootCommand creates the root command for the draudit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "draudit",
		Short: "Relationship audit for layered documentation models",
		Long: `draudit builds a typed graph over a documentation model, audits its
relationships (coverage, gaps, duplicates, balance, connectivity), persists
results as snapshots, and computes deltas between snapshots over time.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !format.IsValid(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, format.Valid)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", format.Text, "output format (text|json|markdown)")
	cmd.PersistentFlags().StringVar(&opts.ModelArg, "model", "model.yaml", "path to the model file")
	cmd.PersistentFlags().StringVar(&opts.StateDir, "state-dir", ".dr", "directory for snapshots and history")

	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewSnapshotsCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
