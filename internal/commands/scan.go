package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/importer"
)

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "List exports in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			files, err := importer.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No exports found in %s\n", dir)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tFILE\tSIZE")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", f.AccountID, f.Name, f.Size)
			}
			return tw.Flush()
		},
	}
}
