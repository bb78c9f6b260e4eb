package memory

import (
	"fmt"
	"strings"

	"interviewcoach/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const DefaultWindowSize = 5

// ConversationMemory keeps every completed turn in order and serves
// windowed views of the most recent ones.
type ConversationMemory struct {
	windowSize int
	turns      []models.Turn
}

func NewConversationMemory(windowSize int) *ConversationMemory {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &ConversationMemory{windowSize: windowSize}
}

func (m *ConversationMemory) AddTurn(turn models.Turn) {
	m.turns = append(m.turns, turn)
}

// RecentContext returns the last n turns, or the configured window when n
// is not positive.
func (m *ConversationMemory) RecentContext(n int) []models.Turn {
	if n <= 0 {
		n = m.windowSize
	}
	if n > len(m.turns) {
		n = len(m.turns)
	}
	recent := make([]models.Turn, n)
	copy(recent, m.turns[len(m.turns)-n:])
	return recent
}

func (m *ConversationMemory) AllTurns() []models.Turn {
	all := make([]models.Turn, len(m.turns))
	copy(all, m.turns)
	return all
}

func (m *ConversationMemory) Len() int {
	return len(m.turns)
}

func (m *ConversationMemory) Summary() string {
	if len(m.turns) == 0 {
		return "No conversation history"
	}

	recent := m.RecentContext(3)
	var b strings.Builder
	fmt.Fprintf(&b, "Total turns: %d\n", len(m.turns))
	fmt.Fprintf(&b, "Last %d exchanges:", len(recent))
	for _, turn := range recent {
		fmt.Fprintf(&b, "\nTurn %d:\n", turn.TurnID)
		fmt.Fprintf(&b, "  Q: %s\n", truncate(turn.AgentVisibleMessage, 100))
		fmt.Fprintf(&b, "  A: %s", truncate(turn.UserMessage, 100))
	}
	return b.String()
}

// SearchTurnsByKeyword does a case-insensitive substring match against both
// sides of every turn.
func (m *ConversationMemory) SearchTurnsByKeyword(keyword string) []models.Turn {
	keyword = strings.ToLower(keyword)
	return lo.Filter(m.turns, func(turn models.Turn, _ int) bool {
		return strings.Contains(strings.ToLower(turn.UserMessage), keyword) ||
			strings.Contains(strings.ToLower(turn.AgentVisibleMessage), keyword)
	})
}

// SearchTurnsFuzzy tolerates typos by matching the keyword against each word.
func (m *ConversationMemory) SearchTurnsFuzzy(keyword string) []models.Turn {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	return lo.Filter(m.turns, func(turn models.Turn, _ int) bool {
		return fuzzyContains(turn.UserMessage, keyword) || fuzzyContains(turn.AgentVisibleMessage, keyword)
	})
}

func (m *ConversationMemory) HasDiscussedTopic(topic string) bool {
	return len(m.SearchTurnsByKeyword(topic)) > 0
}

// QuestionAtTurn returns "" when no turn carries the id.
func (m *ConversationMemory) QuestionAtTurn(turnID int) string {
	turn, ok := lo.Find(m.turns, func(turn models.Turn) bool {
		return turn.TurnID == turnID
	})
	if !ok {
		return ""
	}
	return turn.AgentVisibleMessage
}

func (m *ConversationMemory) Clear() {
	m.turns = nil
}

func fuzzyContains(text, keyword string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#')
	})

	for _, word := range words {
		if strings.Contains(word, keyword) {
			return true
		}
		if len(keyword) >= 4 && fuzzy.MatchFold(keyword, word) {
			return true
		}
		if len(keyword) >= 4 && fuzzy.LevenshteinDistance(keyword, word) <= 1 {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
