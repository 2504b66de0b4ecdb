package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/llm"
	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/sessionstore"
)

const mathBlock = "1. 2+2=?\na) 3\nb) 4\nc) 5\nd) 6\nCorrect: b"
const physicsBlock = "1. Unit of force?\na) Newton\nb) Joule\nc) Watt\nd) Pascal\nCorrect: a"

type testServer struct {
	*httptest.Server
	now *time.Time
}

func newTestServer(t *testing.T, responses ...llm.MockResponse) *testServer {
	t.Helper()
	cfg := quizgen.DefaultConfig()
	cfg.TotalQuestions = 2
	cfg.CallTimeout = 0

	svc := assessment.NewService(quizgen.New(llm.NewMockProvider(responses...), cfg))
	srv := New(DefaultConfig(), svc, sessionstore.NewManager(sessionstore.NewMemory(time.Hour)))

	now := time.Now()
	srv.now = func() time.Time { return now }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, now: &now}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func (ts *testServer) create(t *testing.T) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/assessments",
		`{"content":"Math:\nAlgebra basics\nPhysics:\nNewton's laws\n"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["id"].(string)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAssessment(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(mathBlock)},
		llm.MockResponse{Content: json.RawMessage(physicsBlock)},
	)

	resp, body := ts.do(t, http.MethodPost, "/api/assessments",
		`{"content":"Math:\nAlgebra basics\nPhysics:\nNewton's laws\n"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "in_progress", body["phase"])
	assert.Equal(t, "30:00", body["remaining"])
	assert.Equal(t, "Assessment generated successfully!", body["message"])

	qs := body["questions"].([]any)
	require.Len(t, qs, 2)
	first := qs[0].(map[string]any)
	assert.Equal(t, "Math", first["topic"])
	assert.Equal(t, "", first["answer"])
	_, leaked := first["correct"]
	assert.False(t, leaked, "answer key must not be exposed")
}

func TestCreateAssessmentErrors(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		ts := newTestServer(t)
		resp, body := ts.do(t, http.MethodPost, "/api/assessments", `{"content":"   "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Content cannot be empty.", body["error"])
	})

	t.Run("invalid json", func(t *testing.T) {
		ts := newTestServer(t)
		resp, _ := ts.do(t, http.MethodPost, "/api/assessments", `{`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("no questions", func(t *testing.T) {
		ts := newTestServer(t)
		resp, body := ts.do(t, http.MethodPost, "/api/assessments", `{"content":"Topic:\ndetails"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "Failed to generate questions. Please check the input content.", body["error"])
		assert.NotEmpty(t, body["warnings"])
	})
}

func TestAnswerSubmitAndResults(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(mathBlock)},
		llm.MockResponse{Content: json.RawMessage(physicsBlock)},
	)
	id := ts.create(t)
	base := "/api/assessments/" + id

	resp, body := ts.do(t, http.MethodGet, base+"/results", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, _ = ts.do(t, http.MethodPut, base+"/answers/0", `{"answer":"4"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPut, base+"/answers/1", `{"letter":"b"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPut, base+"/answers/1", `{"answer":"Volt"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	resp, _ = ts.do(t, http.MethodPut, base+"/answers/7", `{"answer":"4"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPut, base+"/answers/x", `{"answer":"4"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["answered"])

	resp, body = ts.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["score"])
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, "Your final score is: 1/2", body["score_line"])

	topics := body["topics"].([]any)
	require.Len(t, topics, 2)
	assert.Equal(t, "You performed well in the topic: Math (100.00% accuracy)", topics[0].(map[string]any)["message"])
	assert.Equal(t, "You need to improve in the topic: Physics (0.00% accuracy)", topics[1].(map[string]any)["message"])

	review := body["review"].([]any)
	assert.Equal(t, "Newton", review[1].(map[string]any)["correct_answer"])

	resp, _ = ts.do(t, http.MethodPost, base+"/submit", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPut, base+"/answers/1", `{"answer":"Newton"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, base+"/results", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["score"])
}

func TestTimeoutAutoSubmits(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(mathBlock)},
		llm.MockResponse{Content: json.RawMessage(physicsBlock)},
	)
	id := ts.create(t)
	base := "/api/assessments/" + id

	resp, _ := ts.do(t, http.MethodPut, base+"/answers/0", `{"answer":"4"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	*ts.now = ts.now.Add(31 * time.Minute)

	resp, body := ts.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "submitted", body["phase"])
	assert.Equal(t, true, body["auto_submitted"])
	assert.Equal(t, "00:00", body["remaining"])

	resp, body = ts.do(t, http.MethodGet, base+"/results", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["score"])
	assert.EqualValues(t, 30*60, body["duration_seconds"])
}

func TestNotFoundAndDelete(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(mathBlock)},
		llm.MockResponse{Content: json.RawMessage(physicsBlock)},
	)

	resp, _ := ts.do(t, http.MethodGet, "/api/assessments/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id := ts.create(t)
	resp, _ = ts.do(t, http.MethodDelete, "/api/assessments/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/assessments/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("QUIZMINT_ADDR", ":9999")
	t.Setenv("QUIZMINT_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	cfg := ConfigFromEnv()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
