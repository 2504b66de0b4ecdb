package quizgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/topics"
)

const photosynthesis = "Chlorophyll absorbs light in the leaves. Glucose is produced from carbon dioxide and water. Oxygen is released into the atmosphere."

func TestReadPrompt(t *testing.T) {
	n, topic, details := readPrompt(BuildPrompt("Photosynthesis", photosynthesis, 3))
	assert.Equal(t, 3, n)
	assert.Equal(t, "Photosynthesis", topic)
	assert.Equal(t, photosynthesis, details)

	n, topic, _ = readPrompt(BuildJSONPrompt("Cells", "Cells divide by mitosis.", 2))
	assert.Equal(t, 2, n)
	assert.Equal(t, "Cells", topic)
}

func TestOfflineResponder_TextBlocksParse(t *testing.T) {
	resp := OfflineResponder(llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt("Photosynthesis", photosynthesis, 4)}},
	})
	require.NoError(t, resp.Err)

	qs := ParseResponse(resp.Text)
	require.Len(t, qs, 4)
	for i, q := range qs {
		assert.Equal(t, Letters[i%4], q.Correct)
		assert.Contains(t, q.Text, "_____")

		seen := map[string]bool{}
		for _, o := range q.Options {
			assert.NotEmpty(t, o)
			assert.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
		}
	}
	assert.Equal(t, "Chlorophyll", qs[0].CorrectOption())
}

func TestOfflineResponder_JSON(t *testing.T) {
	resp := OfflineResponder(llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: BuildJSONPrompt("Photosynthesis", photosynthesis, 2)}},
		Schema:   QuestionsSchema,
	})
	require.NoError(t, resp.Err)

	qs, err := ParseJSONResponse(resp.Content)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestOfflineResponder_SparseMaterialUsesFillers(t *testing.T) {
	qs := clozeQuestions("Tiny", "Ox is big", 1)
	require.Len(t, qs, 1)
	assert.Equal(t, "big", qs[0].CorrectOption())
	assert.Contains(t, qs[0].Options[:], "none of these")
}

func TestGenerate_OfflineMockProvider(t *testing.T) {
	mock := &llm.MockProvider{Respond: OfflineResponder}
	g := New(mock, testConfig(4))

	batch := g.Generate(context.Background(), []topics.Topic{
		{ID: "Photosynthesis", Details: photosynthesis},
		{ID: "Cells", Details: "Cells divide by mitosis. The nucleus holds chromosomes."},
	})

	assert.Empty(t, batch.Warnings)
	assert.Len(t, batch.QuestionsFor("Photosynthesis"), 2)
	assert.Len(t, batch.QuestionsFor("Cells"), 2)
}
