package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmint/internal/server"
	"github.com/abhisek/quizmint/internal/sessionstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assessments over an HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg := server.ConfigFromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		service, err := newService(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		sessions, closeSessions, err := sessionstore.Open(ctx, sessionstore.ConfigFromEnv())
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer closeSessions()

		fmt.Fprintf(os.Stderr, "listening on http://%s\n", cfg.Addr)
		srv := server.New(cfg, service, sessionstore.NewManager(sessions))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZMINT_ADDR)")
}
