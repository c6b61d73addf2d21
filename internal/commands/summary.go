package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/report"
)

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print per-kind totals for an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			stmt, err := e.importer.ImportFile(args[0])
			if err != nil {
				return err
			}
			return report.Summarize(stmt).Write(cmd.OutOrStdout())
		},
	}
}
