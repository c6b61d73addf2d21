package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/export"
	"github.com/cleared-dev/schwabstmt/internal/importer"
	"github.com/cleared-dev/schwabstmt/internal/logger"
	"github.com/cleared-dev/schwabstmt/internal/model"
	"github.com/cleared-dev/schwabstmt/internal/statement"
)

func newConvertCommand(opts *globalOptions) *cobra.Command {
	var format, output, account string

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert exports to OFX, CSV or XLSX statements",
		Long: `Convert reads each Schwab JSON export and writes one statement per file.
Directories are scanned for files named <account>_Transactions_*.json.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			if format == "" {
				format = e.cfg.Output.Format
			}
			w := export.DefaultRegistry().Get(format)
			if w == nil {
				return fmt.Errorf("unknown format %q (want one of %s)", format,
					strings.Join(export.DefaultRegistry().Formats(), ", "))
			}

			files, err := importer.Expand(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no exports found in %s", strings.Join(args, ", "))
			}
			if output != "" && len(files) > 1 && !isDir(output) {
				return fmt.Errorf("--output must be a directory when converting %d files", len(files))
			}

			for _, f := range files {
				stmt, err := e.importer.ImportFile(f.Path)
				if err != nil {
					return err
				}
				if account != "" {
					stmt.AccountID = account
				}
				if err := checkStatement(stmt); err != nil {
					return fmt.Errorf("%s: %w", f.Name, err)
				}

				dest := destination(f, output, e.cfg.Output.Dir, w.Extension())
				if err := writeStatement(cmd.OutOrStdout(), dest, w, stmt); err != nil {
					return err
				}
				log := logger.FromContext(cmd.Context())
				log.Info().
					Str("source", f.Name).
					Str("output", dest).
					Int("lines", stmt.Len()).
					Int("advisories", len(stmt.Advisories)).
					Msg("converted")
				if dest != "-" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d lines)\n", f.Name, dest, stmt.Len())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: ofx, csv or xlsx (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file or directory; "-" writes to stdout`)
	cmd.Flags().StringVar(&account, "account", "", "account id to write instead of the one in the file name")

	return cmd
}

// checkStatement runs the statement-level checks and folds them into one error.
func checkStatement(stmt *model.Statement) error {
	errs := statement.Validate(stmt)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("statement failed validation:\n  %s", strings.Join(msgs, "\n  "))
}

// destination picks the output path: an explicit file, an explicit or
// configured directory, or the input's own directory.
func destination(f importer.FileInfo, output, cfgDir, ext string) string {
	if output == "-" {
		return output
	}
	name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ext
	switch {
	case output != "" && isDir(output):
		return filepath.Join(output, name)
	case output != "":
		return output
	case cfgDir != "":
		return filepath.Join(cfgDir, name)
	default:
		return filepath.Join(filepath.Dir(f.Path), name)
	}
}

func writeStatement(stdout io.Writer, dest string, w export.Writer, stmt *model.Statement) error {
	if dest == "-" {
		return w.Write(stdout, stmt)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := w.Write(out, stmt); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return out.Close()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
