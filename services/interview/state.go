package interview

import (
	"strings"

	"interviewcoach/models"

	"github.com/samber/lo"
)

const initialStrategy = "Start the interview with a greeting and the first question."

var commonTopics = []string{
	"programming basics",
	"data structures",
	"algorithms",
	"oop",
	"testing",
	"debugging",
}

type positionTopicRow struct {
	keywords []string
	topics   []string
}

// positionTopics is checked in order; the first matching row wins.
var positionTopics = []positionTopicRow{
	{keywords: []string{"backend", "server"}, topics: []string{"databases", "api design", "architecture"}},
	{keywords: []string{"frontend"}, topics: []string{"html/css", "javascript", "frameworks"}},
	{keywords: []string{"fullstack", "full stack"}, topics: []string{"databases", "api design", "frontend frameworks"}},
}

// InitialTopics returns the topics to cover for a position, most important
// first.
func InitialTopics(position string) []string {
	topics := append([]string{}, commonTopics...)
	lower := strings.ToLower(position)

	row, found := lo.Find(positionTopics, func(row positionTopicRow) bool {
		return lo.SomeBy(row.keywords, func(keyword string) bool { return strings.Contains(lower, keyword) })
	})
	if found {
		topics = append(topics, row.topics...)
	}
	return topics
}

// SessionState is the single mutable aggregate of one interview. Only the
// orchestrator that owns it mutates it.
type SessionState struct {
	Profile            models.CandidateProfile
	Turns              []models.Turn
	CurrentTurnID      int
	UserMessage        string
	AgentMessage       string
	Difficulty         int
	PerformanceHistory []float64
	CumulativeScore    float64
	TopicsToCover      []string
	ShouldContinue     bool
	Complete           bool
	OffTopicCount      int
	KnowledgeGaps      []models.KnowledgeGap

	// Outputs of the hidden stages, kept for the next interviewer call only.
	ObserverAnalysis  string
	EvaluatorFeedback string
	Strategy          string

	topicsCovered []string
	topicIndex    map[string]struct{}
}

func newSessionState(profile models.CandidateProfile, initialDifficulty int) *SessionState {
	return &SessionState{
		Profile:        profile,
		Turns:          []models.Turn{},
		Difficulty:     initialDifficulty,
		TopicsToCover:  InitialTopics(profile.Position),
		ShouldContinue: true,
		Strategy:       initialStrategy,
		topicIndex:     map[string]struct{}{},
	}
}

// recordScore appends to the history and keeps the cumulative score equal
// to its mean.
func (s *SessionState) recordScore(score float64) {
	s.PerformanceHistory = append(s.PerformanceHistory, score)
	s.CumulativeScore = lo.Sum(s.PerformanceHistory) / float64(len(s.PerformanceHistory))
}

// adjustDifficulty applies delta within [minimum, maximum] and reports
// whether the level changed.
func (s *SessionState) adjustDifficulty(delta, minimum, maximum int) bool {
	next := max(minimum, min(maximum, s.Difficulty+delta))
	if next == s.Difficulty {
		return false
	}
	s.Difficulty = next
	return true
}

// addTopic is case-insensitive and idempotent.
func (s *SessionState) addTopic(topic string) bool {
	key := strings.ToLower(strings.TrimSpace(topic))
	if key == "" {
		return false
	}
	if _, ok := s.topicIndex[key]; ok {
		return false
	}
	s.topicIndex[key] = struct{}{}
	s.topicsCovered = append(s.topicsCovered, key)
	return true
}

// TopicsCovered returns the covered topics in the order they were first seen.
func (s *SessionState) TopicsCovered() []string {
	return append([]string{}, s.topicsCovered...)
}

// LastQuestion is the visible message of the previous turn, "" before the
// first turn is recorded.
func (s *SessionState) LastQuestion() string {
	if len(s.Turns) == 0 {
		return ""
	}
	return s.Turns[len(s.Turns)-1].AgentVisibleMessage
}

func (s *SessionState) clone() SessionState {
	c := *s
	c.Turns = append([]models.Turn{}, s.Turns...)
	c.PerformanceHistory = append([]float64{}, s.PerformanceHistory...)
	c.TopicsToCover = append([]string{}, s.TopicsToCover...)
	c.KnowledgeGaps = append([]models.KnowledgeGap{}, s.KnowledgeGaps...)
	c.topicsCovered = s.TopicsCovered()
	c.topicIndex = make(map[string]struct{}, len(s.topicIndex))
	for key := range s.topicIndex {
		c.topicIndex[key] = struct{}{}
	}
	return c
}
