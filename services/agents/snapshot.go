package agents

import (
	"fmt"
	"strings"

	"interviewcoach/models"

	"github.com/samber/lo"
)

const (
	StageInterviewer = "interviewer"
	StageObserver    = "observer"
	StageEvaluator   = "evaluator"
	StageFeedback    = "feedback"
)

// Snapshot is the read-only view of a session handed to each stage. Stages
// never mutate session state; the orchestrator applies their results.
type Snapshot struct {
	Profile            models.CandidateProfile
	Turns              []models.Turn
	UserMessage        string
	Difficulty         int
	TopicsCovered      []string
	NextTopic          string
	PerformanceHistory []float64
	Strategy           string
	ConfirmedSkills    []string
	WeakSkills         []string
	KnowledgeGaps      []models.KnowledgeGap
}

type Thresholds struct {
	High float64
	Low  float64
}

// RecentTurns returns at most the last n turns.
func (s Snapshot) RecentTurns(n int) []models.Turn {
	if n <= 0 || n >= len(s.Turns) {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// CurrentTopic is the most recently covered topic, or "general".
func (s Snapshot) CurrentTopic() string {
	if len(s.TopicsCovered) == 0 {
		return "general"
	}
	return s.TopicsCovered[len(s.TopicsCovered)-1]
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func formatHistory(history []float64) string {
	return "[" + strings.Join(lo.Map(history, func(score float64, _ int) string {
		return fmt.Sprintf("%.2f", score)
	}), ", ") + "]"
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}
