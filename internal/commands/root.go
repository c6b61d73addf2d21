package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/schwabstmt/internal/accounts"
	"github.com/cleared-dev/schwabstmt/internal/buildinfo"
	"github.com/cleared-dev/schwabstmt/internal/config"
	"github.com/cleared-dev/schwabstmt/internal/importer"
	"github.com/cleared-dev/schwabstmt/internal/logger"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "schwabstmt",
		Short:   "Convert Schwab JSON transaction exports into statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultFile, "config file (defaults apply when missing)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console or json (overrides config)")

	rootCmd.AddCommand(
		newConvertCommand(opts),
		newSummaryCommand(opts),
		newValidateCommand(opts),
		newScanCommand(),
		newActionsCommand(opts),
		newConfigCommand(),
	)

	return rootCmd
}

// env is what every import-running command needs.
type env struct {
	cfg      *config.Config
	log      zerolog.Logger
	importer *importer.Importer
}

func loadEnv(cmd *cobra.Command, opts *globalOptions) (*env, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	log, err := logger.New(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return nil, err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	parser, err := importer.DefaultRegistry().Lookup(cfg.Input.Format)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", opts.configPath, err)
	}
	codes, err := cfg.TypeCodes()
	if err != nil {
		return nil, err
	}
	im := importer.New(parser, importer.Options{
		BrokerID:  cfg.BrokerID,
		Currency:  cfg.Currency,
		TypeCodes: codes,
		Accounts:  accounts.NewService(cfg.Accounts),
		Logger:    log,
	})
	return &env{cfg: cfg, log: log, importer: im}, nil
}
