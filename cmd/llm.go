package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/store"
)

const ruleWidth = 78

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the recorded question-generation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent provider calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		writeEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		writeUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func writeEventList(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-16s  %-12s  %-26s  %9s  %7s  %s\n",
		"ID", "When", "Purpose", "Model", "Tokens", "Ms", "Cost")
	fmt.Fprintln(w, rule())
	for _, e := range events {
		cost := "-"
		if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
			cost = formatCost(usd)
		}
		if !e.Success {
			cost = "failed"
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-12s  %-26s  %9d  %7d  %s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), truncate(e.Purpose, 12),
			truncate(e.Model, 26), e.InputTokens+e.OutputTokens, e.LatencyMs, cost)
	}
}

func writeEvent(w io.Writer, e *store.LLMRequestEvent) {
	fmt.Fprintf(w, "Call %d  %s\n", e.ID, e.Timestamp.Local().Format(time.RFC1123))
	fmt.Fprintf(w, "  provider  %s (%s)\n", e.Provider, e.Model)
	fmt.Fprintf(w, "  purpose   %s\n", e.Purpose)
	fmt.Fprintf(w, "  tokens    %d in, %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "  latency   %dms\n", e.LatencyMs)
	if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
		fmt.Fprintf(w, "  cost      %s\n", formatCost(usd))
	}
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "  error     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"PROMPT", e.RequestBody},
		{"REPLY", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n%s\n%s\n", part.title, rule())
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(part.body, "\n"))
	}
}

func writeUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	fmt.Fprintln(w, "By purpose")
	fmt.Fprintln(w, rule())
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%-20s  %5d calls  %9d in  %9d out  %6dms avg\n",
			truncate(u.Purpose, 20), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(w, "%-20s  %5d calls  %9d in  %9d out\n", "total", calls, in, out)

	if len(byModel) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, rule())
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if usd, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %5d calls  %10s\n", truncate(u.Model, 32), u.Calls, cost)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (priced models only)"
	}
	fmt.Fprintf(w, "%-32s  %16s\n", label, formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func rule() string {
	return strings.Repeat("─", ruleWidth)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (e.g. question-gen)")
	llmListCmd.Flags().Duration("since", 0, "Only show calls from the last duration (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
