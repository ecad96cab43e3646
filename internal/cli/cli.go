// Package cli implements indentctl, the operator tool for provisioning tenants,
// importing legacy indents and repairing document counters.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"indentflow/internal/config"
	"indentflow/internal/logger"
	"indentflow/internal/repository/postgres"
)

// Exit codes returned by Execute.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer

	cfg    *config.Config
	db     *sqlx.DB
	logger *zap.Logger

	// Global flags
	envFile    string
	jsonOutput bool
}

// New creates a new CLI instance writing to stdout.
func New() *CLI {
	c := &CLI{out: os.Stdout}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	defer c.close()
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "indentctl: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "indentctl",
		Short:         "Operator commands for the indent workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file to load before reading configuration")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")

	cmd.AddCommand(c.newBootstrapCmd())
	cmd.AddCommand(c.newImportCmd())
	cmd.AddCommand(c.newSequenceCmd())

	return cmd
}

// connect loads configuration and opens the database. Commands that touch
// storage call it from RunE so that --help works without a database.
func (c *CLI) connect() error {
	if c.db != nil {
		return nil
	}
	if c.envFile != "" {
		config.LoadDotEnv(c.envFile)
	} else {
		config.LoadDotEnv()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	c.logger = log

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	c.db = db
	return nil
}

func (c *CLI) close() {
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
