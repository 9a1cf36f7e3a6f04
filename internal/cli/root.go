package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haomeng346/Second-hand-Marketplace/internal/config"
	"github.com/haomeng346/Second-hand-Marketplace/internal/logging"
	"github.com/haomeng346/Second-hand-Marketplace/internal/output"
	"github.com/haomeng346/Second-hand-Marketplace/internal/service"
)

// app is what every subcommand receives once the root has resolved
// configuration and loaded the marketplace.
type app struct {
	market *service.Marketplace
	out    *output.Printer
	close  func()
}

type rootFlags struct {
	configPath  string
	dataDir     string
	backend     string
	databaseURL string
	logLevel    string
}

// NewRootCmd builds the command tree. The returned func releases whatever
// the executed command opened and must be called after Execute.
func NewRootCmd() (*cobra.Command, func()) {
	var (
		flags rootFlags
		a     app
	)

	root := &cobra.Command{
		Use:   "marketplace",
		Short: "Second-hand marketplace for a single local operator",
		Long: `A second-hand marketplace kept in flat CSV files (or SQL when configured).

Running without a subcommand starts the interactive menu. Type 'cd ..' at
any prompt to return to the menu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()).With("service", cfg.ServiceName)
			ctx = logging.IntoContext(ctx, logger)
			cmd.SetContext(ctx)

			m, closeFn, err := Open(ctx, cfg)
			a.close = closeFn
			if err != nil {
				return err
			}
			a.market = m
			a.out = output.New(cmd.OutOrStdout())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, &a)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file (overrides MARKET_CONFIG)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory holding the CSV tables")
	pf.StringVar(&flags.backend, "backend", "", "Storage backend: csv, sqlite or postgres")
	pf.StringVar(&flags.databaseURL, "database-url", "", "SQLite file or PostgreSQL DSN for SQL backends")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newShellCmd(&a),
		newSuggestCmd(&a),
		newSearchCmd(&a),
		newListingsCmd(&a),
		newRegisterCmd(&a),
	)

	cleanup := func() {
		if a.close != nil {
			a.close()
		}
	}
	return root, cleanup
}

func resolveConfig(cmd *cobra.Command, flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}

	set := cmd.Flags()
	if set.Changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if set.Changed("backend") {
		cfg.Backend = flags.backend
	}
	if set.Changed("database-url") {
		cfg.DatabaseURL = flags.databaseURL
	}
	if set.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Execute runs the command line against args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root, cleanup := NewRootCmd()
	defer cleanup()

	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
