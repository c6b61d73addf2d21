package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/classify"
	"github.com/cleared-dev/schwabstmt/internal/config"
)

func newActionsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the recognized action labels and bank type codes, including configured ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(opts.configPath)
			if err != nil {
				return err
			}
			extra, err := cfg.TypeCodes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Brokerage actions:")
			for _, a := range classify.KnownActions() {
				fmt.Fprintf(out, "  %s\n", a)
			}

			codes := classify.NewPostedClassifier(extra).Codes()
			names := make([]string, 0, len(codes)+1)
			for c := range codes {
				names = append(names, c)
			}
			names = append(names, classify.TypeACH)
			sort.Strings(names)

			fmt.Fprintln(out, "Bank transaction types:")
			for _, c := range names {
				if c == classify.TypeACH {
					fmt.Fprintf(out, "  %s -> DEBIT or CREDIT\n", c)
					continue
				}
				fmt.Fprintf(out, "  %s -> %s\n", c, codes[c])
			}
			return nil
		},
	}
}
