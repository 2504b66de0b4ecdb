package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmint/internal/app"
	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts := app.Options{EventRepo: eventRepo}

	service, err := newService(cmd.Context(), eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Assessment generation will be unavailable.")
	} else {
		opts.Service = service
	}

	return app.Run(opts)
}

// newService builds the assessment service on the provider configured in
// the environment. Every call is recorded in eventRepo. The "mock" provider
// answers with offline fill-in-the-blank questions.
func newService(ctx context.Context, eventRepo store.EventRepo) (*assessment.Service, error) {
	llmCfg, ok := llm.EnvironmentConfig()
	if !ok {
		return nil, llm.ErrNotConfigured
	}
	llmCfg.MockRespond = quizgen.OfflineResponder

	provider, err := llm.NewProvider(ctx, llmCfg, eventRepo)
	if err != nil {
		return nil, err
	}
	cfg, err := quizgen.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return assessment.NewService(quizgen.New(provider, cfg)), nil
}
