package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metaeval/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Metadata extraction evaluation tools",
		Long: `Evaluation tools for measuring the accuracy of extracted bibliographic metadata.

Supports running backends against gold data, saving a backend's output for later
scoring, inspecting gold files and re-rendering saved reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewExtractCmd())
	cmd.AddCommand(evalcmd.NewMetricsCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
