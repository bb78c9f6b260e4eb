package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"interviewcoach/config"
	"interviewcoach/db"
	"interviewcoach/models"
	"interviewcoach/services"
	"interviewcoach/services/agents"
	"interviewcoach/services/interview"
	"interviewcoach/services/llm"
	"interviewcoach/services/metrics"

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

var testProfile = models.CandidateProfile{
	Name:       "Alex",
	Position:   "Backend Developer",
	Grade:      models.GradeJunior,
	Experience: "Pet projects on Django, some SQL",
}

func newTestOrchestrator(t *testing.T, cfg config.InterviewConfig) (*interview.Orchestrator, *db.FileInterviewLogRepository) {
	t.Helper()

	repo, err := db.NewFileInterviewLogRepository(t.TempDir())
	require.NoError(t, err)

	stages := interview.StagesFromModels(map[string]llm.Model{
		agents.StageInterviewer: cannedModel("How does a goroutine differ from a thread?"),
		agents.StageObserver:    cannedModel("[Observer]: solid answer\nRecommendation: continue"),
		agents.StageEvaluator:   cannedModel("[Evaluator]: correct | Score: 0.8 | accurate"),
		agents.StageFeedback: cannedModel(`{"grade": "Senior", "hiring_recommendation": "Hire", "confidence_score": 80,
			"confirmed_skills": ["go", "sql"], "roadmap": ["Read about the Go scheduler"]}`),
	}, cfg, zap.NewNop())

	audit := services.NewAuditLogService(repo, "interview_test", zap.NewNop())
	m := metrics.New(prometheus.NewRegistry())
	return interview.NewOrchestrator(cfg, stages, audit, m, zap.NewNop()), repo
}

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, expected := range []string{"run", "batch", "serve", "show"} {
		assert.True(t, names[expected], "missing command %q", expected)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, batchCmd.Flags().Lookup("answers"))
	assert.NotNil(t, showCmd.Flags().Lookup("json"))
}

func TestReadAnswers(t *testing.T) {
	input := "# scenario\nFirst answer about SQL joins\n\n   \nSecond answer about indexes  \n"

	answers, err := readAnswers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"First answer about SQL joins", "Second answer about indexes"}, answers)
}

func TestReadProfile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.CandidateProfile
	}{
		{
			name:  "all defaults",
			input: "\n\n\n\n",
			expected: models.CandidateProfile{
				Name: defaultName, Position: defaultPosition, Grade: defaultGrade, Experience: defaultExperience,
			},
		},
		{
			name:  "exhausted input",
			input: "Maria\n",
			expected: models.CandidateProfile{
				Name: "Maria", Position: defaultPosition, Grade: defaultGrade, Experience: defaultExperience,
			},
		},
		{
			name:     "all given",
			input:    "Alex\nBackend Developer\nJunior\nPet projects on Django, some SQL\n",
			expected: testProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			profile := readProfile(bufio.NewScanner(strings.NewReader(tt.input)), &out)
			assert.Equal(t, tt.expected, profile)
		})
	}
}

func TestRunSessionWithCommands(t *testing.T) {
	o, repo := newTestOrchestrator(t, config.Default().Interview)
	input := "/status\nA goroutine is scheduled by the Go runtime onto OS threads\n/bogus\n/FINISH\n"

	var out bytes.Buffer
	err := runSession(context.Background(), o, testProfile, bufio.NewScanner(strings.NewReader(input)), &out, "report.json")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "[Interviewer]: How does a goroutine differ from a thread?")
	assert.Contains(t, text, "--- Interview Status ---")
	assert.Contains(t, text, "Unknown command: /bogus")
	assert.Contains(t, text, "FINAL REPORT")
	assert.Contains(t, text, "Recommendation: Hire")
	assert.Contains(t, text, "  + go")
	assert.Contains(t, text, "Full report saved to: report.json")
	assert.Contains(t, text, "Interview complete: Alex")

	log, err := repo.GetLog("interview_test")
	require.NoError(t, err)
	assert.Len(t, log.Turns, 1)
	require.NotNil(t, log.FinalFeedback)
	assert.Equal(t, models.GradeSenior, log.FinalFeedback.Grade)
}

func TestRunSessionQuitAndEOF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "quit confirmed", input: "/quit\ny\n", expected: "Exiting. Progress is saved in report.json"},
		{name: "input closed", input: "", expected: "Input closed. Progress is saved in report.json"},
		{name: "quit declined then eof", input: "/quit\nn\n", expected: "Input closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOrchestrator(t, config.Default().Interview)

			var out bytes.Buffer
			err := runSession(context.Background(), o, testProfile, bufio.NewScanner(strings.NewReader(tt.input)), &out, "report.json")
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.expected)
			assert.NotContains(t, out.String(), "FINAL REPORT")
			assert.False(t, o.IsComplete())
		})
	}
}

func TestRunSessionInvalidProfile(t *testing.T) {
	o, _ := newTestOrchestrator(t, config.Default().Interview)

	var out bytes.Buffer
	err := runSession(context.Background(), o, models.CandidateProfile{Name: "Alex"}, bufio.NewScanner(strings.NewReader("")), &out, "")
	assert.ErrorIs(t, err, interview.ErrInvalidProfile)
}

func TestRunBatch(t *testing.T) {
	cfg := config.Default().Interview
	cfg.MaxTurns = 2

	tests := []struct {
		name    string
		answers []string
		turns   int
	}{
		{
			name: "stops at completion",
			answers: []string{
				"Goroutines are cheap and multiplexed onto threads",
				"Channels pass values between goroutines safely",
				"A mutex guards shared memory",
			},
			turns: 2,
		},
		{
			name:    "finishes when answers run out",
			answers: []string{"An index speeds up lookups in a database table"},
			turns:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, repo := newTestOrchestrator(t, cfg)

			var out bytes.Buffer
			require.NoError(t, runBatch(context.Background(), o, testProfile, tt.answers, &out, "report.json"))

			assert.Equal(t, tt.turns, strings.Count(out.String(), "You: "))
			assert.Contains(t, out.String(), "FINAL REPORT")
			assert.True(t, o.IsComplete())

			log, err := repo.GetLog("interview_test")
			require.NoError(t, err)
			assert.Len(t, log.Turns, tt.turns)
		})
	}
}

func TestPrintReport(t *testing.T) {
	feedback := models.FinalFeedback{
		Grade:                models.GradeMiddle,
		HiringRecommendation: models.RecommendationHire,
		ConfidenceScore:      72,
		ConfirmedSkills:      []string{"a", "b", "c", "d", "e", "f"},
		KnowledgeGaps: []models.KnowledgeGap{
			{Topic: "databases", UserAnswer: strings.Repeat("x", 80), CorrectAnswer: "short"},
			{Topic: "testing"},
			{Topic: "algorithms"},
			{Topic: "debugging"},
		},
		SoftSkills: map[string]string{"clarity": "Good", "honesty": "High"},
		Roadmap:    []string{"1", "2", "3", "4", "5", "6"},
	}

	var out bytes.Buffer
	printReport(&out, feedback, "logs/x.json")
	text := out.String()

	assert.Contains(t, text, "Confidence: 72%")
	assert.Contains(t, text, "  + e\n")
	assert.NotContains(t, text, "  + f\n")
	assert.Contains(t, text, "    Your answer: "+strings.Repeat("x", 60)+"...\n")
	assert.Contains(t, text, "    Correct: short\n")
	assert.Contains(t, text, "  - algorithms\n")
	assert.NotContains(t, text, "debugging")
	assert.Less(t, strings.Index(text, "clarity: Good"), strings.Index(text, "honesty: High"))
	assert.Contains(t, text, "  > 5\n")
	assert.NotContains(t, text, "  > 6\n")
	assert.Contains(t, text, "Full report saved to: logs/x.json")
}

func TestPrintLog(t *testing.T) {
	log := &models.InterviewLog{
		ParticipantName:  "Alex",
		CandidateProfile: &testProfile,
		Turns: []models.Turn{{
			TurnID:              1,
			UserMessage:         "Goroutines are green threads",
			AgentVisibleMessage: "What about channels?",
			InternalThoughts:    "[Observer]: fine",
			PerformanceMetrics:  map[string]float64{"score": 0.7},
		}},
	}

	tests := []struct {
		name     string
		thoughts bool
	}{
		{name: "without notes"},
		{name: "with notes", thoughts: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printLog(&out, log, tt.thoughts, "")

			text := out.String()
			assert.Contains(t, text, "Position: Backend Developer (Junior)")
			assert.Contains(t, text, "--- Turn 1 (score 0.70) ---")
			assert.Contains(t, text, "No final feedback yet")
			assert.Equal(t, tt.thoughts, strings.Contains(text, "Notes: [Observer]: fine"))
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 60))
	assert.Equal(t, "при...", clip("привет", 3))
}
