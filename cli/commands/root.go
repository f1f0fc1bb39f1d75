// Package commands implements the frm command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/config"
	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/cli/internal/version"
	"github.com/satishbabariya/frm-go/internal/debug"
)

// errReported marks an error that was already printed with its source excerpt.
var errReported = errors.New("error reported")

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug       bool
	configPath  string
	provider    string
	databaseURL string
	schemaPath  string
}

// config loads the configuration file and applies flag overrides.
func (o *globalOptions) config() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.databaseURL != "" {
		cfg.DatabaseURL = o.databaseURL
	}
	if o.schemaPath != "" {
		cfg.SchemaPath = o.schemaPath
	}
	return cfg, nil
}

// NewRootCommand creates the frm command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "frm",
		Short: "Compile comprehensions into relational queries",
		Long: `frm registers record declarations as tables and compiles
comprehension functions over them into SQL queries.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.InitWriter(cmd.ErrOrStderr(), opts.debug)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is .frm.yaml)")
	flags.StringVar(&opts.provider, "provider", "", "database provider (sqlite, postgres, mysql, duckdb)")
	flags.StringVar(&opts.databaseURL, "database-url", "", "database connection string")
	flags.StringVar(&opts.schemaPath, "schema", "", "record declaration file")

	cmd.AddCommand(
		newInitCommand(opts),
		newSchemaCommand(opts),
		newCompileCommand(opts),
		newRunCommand(opts),
		newMigrateCommand(opts),
		newTablesCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		ui.PrintError(os.Stderr, "%v", err)
	}
	return err
}
