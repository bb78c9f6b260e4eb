package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"interviewcoach/db"
	"interviewcoach/models"

	"go.uber.org/zap"
)

var ErrAuditLogNotInitialized = errors.New("audit log is not initialized")

// AuditLogService keeps the interview log of one session in memory and
// writes the whole envelope through to the repository after every change.
type AuditLogService struct {
	repo   db.InterviewLogRepository
	id     string
	log    *models.InterviewLog
	logger *zap.Logger
}

func NewAuditLogService(repo db.InterviewLogRepository, id string, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{repo: repo, id: id, logger: logger}
}

// LogID builds the identifier used for interactive sessions, for example
// interview_20260102_150405_Jane_Doe.
func LogID(participantName string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, participantName)
	return fmt.Sprintf("interview_%s_%s", now.Format("20060102_150405"), safe)
}

func (s *AuditLogService) ID() string {
	return s.id
}

func (s *AuditLogService) Initialize(participantName string, profile models.CandidateProfile) error {
	s.log = &models.InterviewLog{
		ParticipantName:  participantName,
		CandidateProfile: &profile,
		Turns:            []models.Turn{},
	}
	return s.flush("initialize")
}

func (s *AuditLogService) AppendTurn(turn models.Turn) error {
	if s.log == nil {
		return ErrAuditLogNotInitialized
	}
	s.log.Turns = append(s.log.Turns, turn)
	return s.flush("append_turn")
}

func (s *AuditLogService) AttachFinalFeedback(feedback models.FinalFeedback) error {
	if s.log == nil {
		return ErrAuditLogNotInitialized
	}
	s.log.FinalFeedback = &feedback
	return s.flush("attach_final_feedback")
}

// Log returns the in-memory envelope, nil before Initialize.
func (s *AuditLogService) Log() *models.InterviewLog {
	return s.log
}

// Load reads back any persisted log for audit or replay.
func (s *AuditLogService) Load(id string) (*models.InterviewLog, error) {
	log, err := s.repo.GetLog(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview log %s: %w", id, err)
	}
	return log, nil
}

func (s *AuditLogService) flush(op string) error {
	if err := s.repo.SaveLog(s.id, s.log); err != nil {
		s.logger.Error("Failed to write interview log",
			zap.String("log_id", s.id),
			zap.String("operation", op),
			zap.Error(err))
		return fmt.Errorf("failed to write interview log: %w", err)
	}

	s.logger.Debug("Successfully wrote interview log",
		zap.String("log_id", s.id),
		zap.String("operation", op),
		zap.Int("turns", len(s.log.Turns)))
	return nil
}
