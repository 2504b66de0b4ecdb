package quizgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_WorkedExample(t *testing.T) {
	got := ParseResponse("1. 2+2=?\na) 3\nb) 4\nc) 5\nd) 6\nCorrect: b")
	require.Len(t, got, 1)
	assert.Equal(t, Question{
		Text:    "1. 2+2=?",
		Options: [4]string{"3", "4", "5", "6"},
		Correct: LetterB,
	}, got[0])
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Question
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "multiple blocks with surrounding blank lines",
			text: "\n\n1. First?\na) w\nb) x\nc) y\nd) z\nCorrect: a\n\n\n\n2. Second?\na) p\nb) q\nc) r\nd) s\nCorrect: d\n",
			want: []Question{
				{Text: "1. First?", Options: [4]string{"w", "x", "y", "z"}, Correct: LetterA},
				{Text: "2. Second?", Options: [4]string{"p", "q", "r", "s"}, Correct: LetterD},
			},
		},
		{
			name: "short block dropped",
			text: "1. Too short?\na) 1\nb) 2\nCorrect: a\n\n2. Ok?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect: c",
			want: []Question{
				{Text: "2. Ok?", Options: [4]string{"1", "2", "3", "4"}, Correct: LetterC},
			},
		},
		{
			name: "missing correct line dropped",
			text: "1. Q?\na) 1\nb) 2\nc) 3\nd) 4\nAnswer: a",
			want: nil,
		},
		{
			name: "invalid letter dropped",
			text: "1. Q?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect: e",
			want: nil,
		},
		{
			name: "uppercase letter rejected",
			text: "1. Q?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect: B",
			want: nil,
		},
		{
			name: "case-insensitive prefix and spacing",
			text: "1. Q?\n  a) one  \nb) two\nc) three\nd) four\n  CORRECT:   c  ",
			want: []Question{
				{Text: "1. Q?", Options: [4]string{"one", "two", "three", "four"}, Correct: LetterC},
			},
		},
		{
			name: "options without prefix kept",
			text: "1. Q?\nalpha\nb) beta\nc)gamma\nd) delta) epsilon\nCorrect: a",
			want: []Question{
				{Text: "1. Q?", Options: [4]string{"alpha", "beta", "c)gamma", "delta) epsilon"}, Correct: LetterA},
			},
		},
		{
			name: "question line kept verbatim",
			text: "  Q with spaces  \na) 1\nb) 2\nc) 3\nd) 4\nCorrect: d",
			want: []Question{
				{Text: "  Q with spaces  ", Options: [4]string{"1", "2", "3", "4"}, Correct: LetterD},
			},
		},
		{
			name: "crlf line endings",
			text: "1. Q?\r\na) 1\r\nb) 2\r\nc) 3\r\nd) 4\r\nCorrect: b\r\n\r\n",
			want: []Question{
				{Text: "1. Q?", Options: [4]string{"1", "2", "3", "4"}, Correct: LetterB},
			},
		},
		{
			name: "extra trailing lines ignored",
			text: "1. Q?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect: a\nExplanation: because",
			want: []Question{
				{Text: "1. Q?", Options: [4]string{"1", "2", "3", "4"}, Correct: LetterA},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResponse(tt.text))
		})
	}
}

func TestParseResponse_NeverEmitsInvalidRecords(t *testing.T) {
	text := "junk\n\n1. Q?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect: x\n\nCorrect: a\n\n\n\n" +
		"2. Q?\na) 1\nb) 2\nc) 3\nd) 4\nCorrect:\n\n3. Q?\na) 1\nb) 2\nc) 3\nd) 4\ncorrect: d"
	got := ParseResponse(text)
	require.Len(t, got, 1)
	for _, q := range got {
		assert.True(t, q.Correct.Valid())
		assert.Len(t, q.Options, 4)
	}
	assert.Equal(t, "3. Q?", got[0].Text)
}

func TestParseJSONResponse(t *testing.T) {
	raw := []byte(`{"questions":[
		{"question":"What is DNS?","options":["a) Name lookup","Routing","Storage","Auth"],"correct":"a"},
		{"question":"Three options","options":["x","y","z"],"correct":"b"},
		{"question":"Bad letter","options":["1","2","3","4"],"correct":"e"},
		{"question":"Padded letter","options":["1","2","3","4"],"correct":" d "}
	]}`)

	got, err := ParseJSONResponse(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, [4]string{"Name lookup", "Routing", "Storage", "Auth"}, got[0].Options)
	assert.Equal(t, LetterA, got[0].Correct)
	assert.Equal(t, LetterD, got[1].Correct)

	_, err = ParseJSONResponse([]byte("not json"))
	assert.Error(t, err)
}
