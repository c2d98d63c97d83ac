package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metaeval/internal/evalcmd"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "metaeval",
		Short: "Bibliographic metadata extraction evaluation",
		Long: `Metaeval scores metadata extraction backends against gold-standard labels.

Titles, authors, abstracts, bibliographies and reference mentions are compared per
document and averaged into precision and recall per metric, so backends can be
compared side by side.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			evalcmd.SetupLogging(os.Stderr, verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newEvalCmd())

	return cmd
}
