package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/importer"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Check that exports classify cleanly without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			files, err := importer.Expand(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, f := range files {
				stmt, err := e.importer.ImportFile(f.Path)
				if err == nil {
					err = checkStatement(stmt)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", f.Name, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d bank, %d investment, %d advisories)\n",
					f.Name, len(stmt.BankLines), len(stmt.InvestLines), len(stmt.Advisories))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed validation", failed, len(files))
			}
			return nil
		},
	}
}
