// Package cli is the offline qcctl tool: the QC checks without S3, Postgres or Kafka.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qcctl",
		Short: "Photo quality-control checks on local files",
		Long: `qcctl runs the same metadata extraction, pixel checks and verdict
as the QC job, on a file from disk. Nothing is stored.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newAnalyzeCmd())

	return cmd
}
