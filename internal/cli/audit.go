package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/format"
	"github.com/drkit/draudit/internal/history"
	"github.com/drkit/draudit/internal/modelfile"
	"github.com/drkit/draudit/internal/snapshot"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outputPath   string
		saveSnapshot bool
		threshold    bool
	)

	cmd := &cobra.Command{
		Use:   "audit [layer]",
		Short: "Run the relationship audit over the model",
		Long: `Run all relationship analyzers over the model graph and render the
assembled report. With a layer argument, coverage and balance are narrowed
to that layer; graph-wide sections (gaps, duplicates, connectivity,
integrity) always cover the full model.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			layer := ""
			if len(args) == 1 {
				layer = args[0]
			}
			return runAudit(rootOpts, cmd, layer, outputPath, saveSnapshot, threshold)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&saveSnapshot, "save-snapshot", false, "persist the report as a snapshot")
	cmd.Flags().BoolVar(&threshold, "threshold", false, "apply quality gates; exit 1 on failure")
	return cmd
}

func runAudit(opts *RootOptions, cmd *cobra.Command, layer, outputPath string, saveSnapshot, threshold bool) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loaded, err := modelfile.Load(opts.ModelArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "load model", err)
	}
	formatter.VerboseLog("Loaded model %s %s: %d nodes, %d relationships",
		loaded.Model.Name, loaded.Model.Version, loaded.Model.NodeCount(), loaded.Index.EdgeCount())

	report := audit.NewAuditor(loaded.Config).Run(loaded.Index, time.Now())
	if layer != "" {
		report, err = narrowToLayer(report, layer)
		if err != nil {
			return WrapExitError(ExitCommandError, "narrow report", err)
		}
	}

	if fp, err := report.Fingerprint(); err == nil {
		formatter.VerboseLog("Report fingerprint: %s", fp)
	}

	rendered, err := renderReport(opts.Format, report)
	if err != nil {
		return WrapExitError(ExitCommandError, "render report", err)
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write report", err)
		}
		formatter.VerboseLog("Report written to %s", outputPath)
	} else if err := formatter.Emit(rendered); err != nil {
		return WrapExitError(ExitCommandError, "write report", err)
	}

	if saveSnapshot {
		if err := persistSnapshot(opts, formatter, report); err != nil {
			return err
		}
	}

	if threshold {
		if failures := DefaultGates().Evaluate(report); len(failures) > 0 {
			for _, f := range failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "quality gate: %s\n", f)
			}
			return NewExitError(ExitGateFailure, fmt.Sprintf("%d quality gate(s) failed", len(failures)))
		}
		formatter.VerboseLog("All quality gates passed")
	}
	return nil
}

// persistSnapshot saves the report, retrying once on a same-second id
// collision, and indexes the headline metrics in the history database.
func persistSnapshot(opts *RootOptions, formatter *OutputFormatter, report *audit.Report) error {
	store := snapshot.New(opts.SnapshotDir())
	meta, err := store.Save(report)
	if snapshot.IsWriteConflict(err) {
		time.Sleep(time.Second)
		meta, err = store.Save(report)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "save snapshot", err)
	}
	formatter.VerboseLog("Snapshot saved: %s", meta.ID)

	// The history index is derived state; a failure here must not undo a
	// successful snapshot save.
	hist, err := history.Open(opts.HistoryPath())
	if err != nil {
		formatter.VerboseLog("warning: history index unavailable: %v", err)
		return nil
	}
	defer hist.Close()
	if err := hist.Record(meta, report); err != nil {
		formatter.VerboseLog("warning: history record failed: %v", err)
	}
	return nil
}

// narrowToLayer filters layer-scoped sections to one layer. Balance rows
// survive only for types covered in that layer's coverage metric.
func narrowToLayer(r *audit.Report, layer string) (*audit.Report, error) {
	var metric *audit.CoverageMetric
	for i := range r.Coverage {
		if r.Coverage[i].LayerID == layer {
			metric = &r.Coverage[i]
			break
		}
	}
	if metric == nil {
		return nil, fmt.Errorf("layer %q not in model (have %v)", layer, r.Layers)
	}

	layerTypes := make(map[string]bool, len(metric.Types))
	for _, t := range metric.Types {
		layerTypes[t.TypeID] = true
	}
	var balance []audit.BalanceAssessment
	for _, b := range r.Balance {
		if layerTypes[b.TypeID] {
			balance = append(balance, b)
		}
	}

	narrowed := *r
	narrowed.Layers = []string{layer}
	narrowed.Coverage = []audit.CoverageMetric{*metric}
	narrowed.Balance = balance
	return &narrowed, nil
}

func renderReport(name string, r *audit.Report) (string, error) {
	switch name {
	case format.JSON:
		return format.ToJSON(r)
	case format.Markdown:
		return format.ReportToMarkdown(r), nil
	default:
		return format.ReportToText(r), nil
	}
}
