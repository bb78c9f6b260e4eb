package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"interviewcoach/config"
	"interviewcoach/db"
	"interviewcoach/models"
	"interviewcoach/services"
	"interviewcoach/services/agents"
	"interviewcoach/services/interview"
	"interviewcoach/services/llm"
	"interviewcoach/services/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cannedModel string

func (m cannedModel) Name() string { return "canned/test" }

func (m cannedModel) Generate(context.Context, llm.Request) (string, error) {
	return string(m), nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	repo, err := db.NewFileInterviewLogRepository(t.TempDir())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cfg := config.Default().Interview

	registry := interview.NewRegistry(func(id string) *interview.Orchestrator {
		stages := interview.StagesFromModels(map[string]llm.Model{
			agents.StageInterviewer: cannedModel("What is a goroutine?"),
			agents.StageObserver:    cannedModel("[Observer]: ok\nRecommendation: continue"),
			agents.StageEvaluator:   cannedModel("[Evaluator]: correct | Score: 0.9 | good"),
			agents.StageFeedback:    cannedModel(`{"grade": "Senior", "hiring_recommendation": "Strong Hire", "confidence_score": 90}`),
		}, cfg, zap.NewNop())
		audit := services.NewAuditLogService(repo, id, zap.NewNop())
		return interview.NewOrchestrator(cfg, stages, audit, m, zap.NewNop())
	}, zap.NewNop())

	return NewRouter(NewInterviewHandler(registry, repo, zap.NewNop()), reg)
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else {
			json.NewEncoder(&payload).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func createInterview(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doRequest(router, "POST", "/interviews", models.CreateInterviewRequest{
		Name:       "Alex",
		Position:   "Backend Developer",
		Grade:      "Junior",
		Experience: "Python and SQL",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[models.CreateInterviewResponse](t, rec)
	require.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.PersistenceError)
	return resp.ID
}

func TestInterviewLifecycle(t *testing.T) {
	router := newTestRouter(t)
	id := createInterview(t, router)
	base := "/interviews/" + id

	rec := doRequest(router, "POST", base+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "What is a goroutine?", decode[models.MessageResponse](t, rec).Message)

	rec = doRequest(router, "POST", base+"/turns", models.TurnRequest{Message: "A goroutine is a lightweight thread managed by the runtime"})
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decode[models.TurnResponse](t, rec)
	assert.Equal(t, 1, turn.TurnID)
	assert.Equal(t, "What is a goroutine?", turn.Message)
	assert.False(t, turn.Complete)

	rec = doRequest(router, "POST", base+"/feedback", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(router, "GET", base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[models.InterviewStatus](t, rec)
	assert.Equal(t, id, status.ID)
	assert.Equal(t, 1, status.Turns)
	assert.InDelta(t, 0.9, status.CumulativeScore, 1e-9)

	rec = doRequest(router, "POST", base+"/finish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[models.MessageResponse](t, rec).Message, "Interview complete: Alex")

	rec = doRequest(router, "POST", base+"/turns", models.TurnRequest{Message: "One more thing about channels"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(router, "POST", base+"/feedback", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feedback := decode[models.FeedbackResponse](t, rec)
	assert.Equal(t, models.GradeSenior, feedback.Feedback.Grade)
	assert.Equal(t, models.RecommendationStrongHire, feedback.Feedback.HiringRecommendation)
	assert.Empty(t, feedback.PersistenceError)

	rec = doRequest(router, "GET", base+"/log", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	log := decode[models.InterviewLog](t, rec)
	assert.Equal(t, "Alex", log.ParticipantName)
	require.Len(t, log.Turns, 1)
	require.NotNil(t, log.FinalFeedback)
	assert.Equal(t, 90.0, log.FinalFeedback.ConfidenceScore)
}

func TestCreateInterviewValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		body     any
		expected int
	}{
		{name: "malformed json", body: "{not json", expected: http.StatusBadRequest},
		{name: "missing fields", body: models.CreateInterviewRequest{Name: "Alex"}, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, "POST", "/interviews", tt.body)
			assert.Equal(t, tt.expected, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestUnknownSessionAndLog(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{method: "GET", path: "/interviews/unknown"},
		{method: "POST", path: "/interviews/unknown/start"},
		{method: "POST", path: "/interviews/unknown/turns", body: models.TurnRequest{Message: "hello there friend"}},
		{method: "POST", path: "/interviews/unknown/finish"},
		{method: "GET", path: "/interviews/unknown/log"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHealthMetricsAndCORS(t *testing.T) {
	router := newTestRouter(t)
	id := createInterview(t, router)
	doRequest(router, "POST", "/interviews/"+id+"/turns", models.TurnRequest{Message: "Goroutines are multiplexed onto threads"})

	rec := doRequest(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())

	rec = doRequest(router, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), `interview_coach_turns_processed_total{outcome="answered"} 1`)

	rec = doRequest(router, "OPTIONS", "/interviews", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
