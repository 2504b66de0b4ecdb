package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmint/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizmint",
	Short: "LLM-generated multiple-choice assessments",
	Long:  "Quizmint turns study notes into a timed multiple-choice assessment with per-topic feedback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Request log database: SQLite path or postgres:// DSN (overrides QUIZMINT_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load before reading configuration")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads --env-file into the process environment. Variables that
// are already set win. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZMINT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the request log store for cmd.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.OpenContext(cmd.Context(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
