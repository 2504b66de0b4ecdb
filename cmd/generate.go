package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/topics"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions from a notes file without starting a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		content, err := readContent(cmd, path)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		service, err := newService(cmd.Context(), st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		res, err := service.Generate(cmd.Context(), content)
		for _, w := range res.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message())
		}
		if err != nil {
			return errors.New(assessment.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeBatchJSON(out, res)
		}
		writeQuestions(out, res.Batch.Questions)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("file", "f", "-", "Notes file to read, or - for stdin")
	generateCmd.Flags().Bool("json", false, "Print questions, answer key and warnings as JSON")
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(b), nil
}

// batchOutput is the --json document.
type batchOutput struct {
	Topics    []string           `json:"topics"`
	Questions []quizgen.Question `json:"questions"`
	Warnings  []string           `json:"warnings"`
}

func writeBatchJSON(w io.Writer, res *assessment.Result) error {
	out := batchOutput{
		Topics:    topics.IDs(res.Topics),
		Questions: res.Batch.Questions,
		Warnings:  []string{},
	}
	for _, warn := range res.Warnings() {
		out.Warnings = append(out.Warnings, warn.Message())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeQuestions prints questions in the same block format the model is
// asked to produce, grouped under their topic.
func writeQuestions(w io.Writer, qs []quizgen.Question) {
	var topic string
	for i, q := range qs {
		if i == 0 || q.Topic != topic {
			if i > 0 {
				fmt.Fprintln(w)
			}
			topic = q.Topic
			fmt.Fprintf(w, "== %s ==\n\n", topic)
		}
		fmt.Fprintln(w, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "%s) %s\n", quizgen.Letters[j], opt)
		}
		fmt.Fprintf(w, "Correct: %s\n\n", q.Correct)
	}
}
