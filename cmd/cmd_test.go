package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/topics"
)

func TestBuildKind(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"(devel)", "development build"},
		{"1.2.3", "development build"},
		{"v1.2.3", "release"},
		{"v1.3.0-rc.1", "pre-release"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, buildKind(tt.version))
		})
	}
}

func testQuestions() []quizgen.Question {
	return []quizgen.Question{
		{Text: "1. First?", Options: [4]string{"w", "x", "y", "z"}, Correct: quizgen.LetterB, Topic: "Go"},
		{Text: "2. Second?", Options: [4]string{"w", "x", "y", "z"}, Correct: quizgen.LetterD, Topic: "Go"},
		{Text: "1. Third?", Options: [4]string{"w", "x", "y", "z"}, Correct: quizgen.LetterA, Topic: "SQL"},
	}
}

func TestWriteQuestions(t *testing.T) {
	var buf bytes.Buffer
	writeQuestions(&buf, testQuestions())
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "== Go =="))
	assert.Equal(t, 1, strings.Count(out, "== SQL =="))
	assert.Contains(t, out, "1. First?\na) w\nb) x\nc) y\nd) z\nCorrect: b\n")
	assert.Less(t, strings.Index(out, "== Go =="), strings.Index(out, "== SQL =="))
}

func TestWriteBatchJSON(t *testing.T) {
	res := &assessment.Result{
		Topics: []topics.Topic{{ID: "Go"}, {ID: "SQL"}},
		Batch: &quizgen.Batch{
			Questions: testQuestions(),
			Warnings: []quizgen.Warning{{
				Kind: quizgen.WarningInsufficient, Topic: "SQL", Generated: 1, Target: 15,
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeBatchJSON(&buf, res))

	var got batchOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"Go", "SQL"}, got.Topics)
	assert.Len(t, got.Questions, 3)
	assert.Equal(t, quizgen.LetterB, got.Questions[0].Correct)
	assert.Equal(t, []string{"Could not generate enough questions for topic: SQL (Generated 1/15)"}, got.Warnings)
}

func newTestCommand() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("env-file", "", "")
	return c
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QUIZMINT_TEST_FROM_FILE=loaded\n"), 0o600))
	t.Setenv("QUIZMINT_TEST_FROM_FILE", "")
	os.Unsetenv("QUIZMINT_TEST_FROM_FILE")

	c := newTestCommand()
	require.NoError(t, c.Flags().Set("env-file", path))
	require.NoError(t, loadEnvFile(c))
	assert.Equal(t, "loaded", os.Getenv("QUIZMINT_TEST_FROM_FILE"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	c := newTestCommand()
	require.NoError(t, c.Flags().Set("env-file", filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, loadEnvFile(c))
}

func TestReadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Go:\nchannels\n"), 0o600))

	got, err := readContent(newTestCommand(), path)
	require.NoError(t, err)
	assert.Equal(t, "Go:\nchannels\n", got)

	c := newTestCommand()
	c.SetIn(strings.NewReader("SQL:\njoins"))
	got, err = readContent(c, "-")
	require.NoError(t, err)
	assert.Equal(t, "SQL:\njoins", got)

	_, err = readContent(newTestCommand(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
