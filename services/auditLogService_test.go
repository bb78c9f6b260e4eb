package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"interviewcoach/db"
	"interviewcoach/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingRepository struct {
	db.InterviewLogRepository
	err error
}

func (r *failingRepository) SaveLog(string, *models.InterviewLog) error {
	return r.err
}

func TestLogID(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		expected string
	}{
		{name: "Jane Doe", expected: "interview_20260102_150405_Jane_Doe"},
		{name: "o'brien/../x", expected: "interview_20260102_150405_obrienx"},
		{name: "Алексей", expected: "interview_20260102_150405_Алексей"},
		{name: "", expected: "interview_20260102_150405_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LogID(tt.name, now))
		})
	}
}

func TestAuditLogWriteThrough(t *testing.T) {
	repo, err := db.NewFileInterviewLogRepository(filepath.Join(t.TempDir(), "logs"))
	require.NoError(t, err)

	audit := NewAuditLogService(repo, "session", zap.NewNop())
	profile := models.CandidateProfile{Name: "Alex", Position: "Backend Developer", Grade: "Junior", Experience: "Go"}

	require.NoError(t, audit.Initialize("Alex", profile))
	stored, err := audit.Load("session")
	require.NoError(t, err)
	assert.Equal(t, "Alex", stored.ParticipantName)
	assert.Equal(t, &profile, stored.CandidateProfile)
	assert.Empty(t, stored.Turns)

	turn := models.Turn{TurnID: 1, AgentVisibleMessage: "Next?", UserMessage: "Answer", PerformanceMetrics: map[string]float64{"score": 0.5}}
	require.NoError(t, audit.AppendTurn(turn))
	stored, err = audit.Load("session")
	require.NoError(t, err)
	assert.Equal(t, []models.Turn{turn}, stored.Turns)

	feedback := models.FinalFeedback{Grade: models.GradeJunior, HiringRecommendation: models.RecommendationNoHire, ConfidenceScore: 60}
	require.NoError(t, audit.AttachFinalFeedback(feedback))
	stored, err = audit.Load("session")
	require.NoError(t, err)
	assert.Equal(t, &feedback, stored.FinalFeedback)
	assert.Equal(t, audit.Log(), stored)
}

func TestAuditLogRequiresInitialize(t *testing.T) {
	audit := NewAuditLogService(&failingRepository{}, "session", zap.NewNop())

	assert.ErrorIs(t, audit.AppendTurn(models.Turn{TurnID: 1}), ErrAuditLogNotInitialized)
	assert.ErrorIs(t, audit.AttachFinalFeedback(models.FinalFeedback{}), ErrAuditLogNotInitialized)
	assert.Nil(t, audit.Log())
}

func TestAuditLogSurfacesWriteFailures(t *testing.T) {
	diskFull := errors.New("disk full")
	audit := NewAuditLogService(&failingRepository{err: diskFull}, "session", zap.NewNop())

	assert.ErrorIs(t, audit.Initialize("Alex", models.CandidateProfile{Name: "Alex"}), diskFull)
	assert.ErrorIs(t, audit.AppendTurn(models.Turn{TurnID: 1}), diskFull)
	assert.Len(t, audit.Log().Turns, 1)
}

func TestAuditLogLoadMissing(t *testing.T) {
	repo, err := db.NewFileInterviewLogRepository(t.TempDir())
	require.NoError(t, err)

	_, err = NewAuditLogService(repo, "session", zap.NewNop()).Load("nope")
	assert.ErrorIs(t, err, db.ErrLogNotFound)
}
