package agents

import (
	"context"
	"fmt"
	"strings"

	"interviewcoach/services/llm"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const fallbackStrategy = "Continue with the next uncovered topic at the current difficulty."

var (
	raiseDifficultyVocabulary = []string{
		"raise the difficulty", "increase the difficulty", "increase difficulty", "harder question",
		"too easy", "excellent", "handles it easily",
	}
	lowerDifficultyVocabulary = []string{
		"simplify", "lower the difficulty", "decrease the difficulty", "easier question",
		"struggl", "doesn't know", "does not know", "gaps", "weak",
	}
	strategyMarkers = []string{"recommend", "next"}
)

type ObserverResult struct {
	Analysis        string
	Strategy        string
	DifficultyDelta int
}

// Observer is a hidden stage: it analyses the latest answer and steers the
// interviewer.
type Observer struct {
	model      llm.Model
	thresholds Thresholds
	logger     *zap.Logger
}

func NewObserver(model llm.Model, thresholds Thresholds, logger *zap.Logger) *Observer {
	return &Observer{model: model, thresholds: thresholds, logger: logger}
}

// Analyze never fails. On a provider error the analysis is empty and the
// strategy falls back to continuing with the next topic.
func (a *Observer) Analyze(ctx context.Context, snap Snapshot) ObserverResult {
	a.logger.Info("Starting observer analysis", zap.Int("history", len(snap.PerformanceHistory)))

	p := snap.Profile
	text, err := a.model.Generate(ctx, llm.Request{
		Prompt: OBSERVER_PROMPT,
		SystemPrompt: fmt.Sprintf(OBSERVER_SYSTEM_PROMPT,
			p.Name, p.Position, p.Grade, p.Experience,
			joinOrNone(snap.TopicsCovered), snap.Difficulty, formatHistory(snap.PerformanceHistory),
			snap.UserMessage),
		Temperature: 0.5,
		MaxTokens:   400,
	})
	if err != nil {
		a.logger.Warn("Failed to run observer, using fallback strategy", zap.Error(err))
		delta, _ := HistoryDelta(snap.PerformanceHistory, a.thresholds)
		return ObserverResult{Strategy: fallbackStrategy, DifficultyDelta: delta}
	}

	result := ParseObserverOutput(text, snap.PerformanceHistory, a.thresholds)
	a.logger.Info("Successfully analysed answer", zap.Int("difficulty_delta", result.DifficultyDelta))
	return result
}

// ParseObserverOutput is total: any text, including "", yields a result.
func ParseObserverOutput(text string, history []float64, thresholds Thresholds) ObserverResult {
	analysis := strings.TrimSpace(text)
	return ObserverResult{
		Analysis:        analysis,
		Strategy:        ExtractStrategy(analysis),
		DifficultyDelta: ParseDifficultyDelta(analysis, history, thresholds),
	}
}

// HistoryDelta looks at the mean of the two most recent scores. ok is false
// when the history is too short or the mean sits between the thresholds.
func HistoryDelta(history []float64, thresholds Thresholds) (delta int, ok bool) {
	if len(history) < 2 {
		return 0, false
	}

	recent := mean(history[len(history)-2:])
	switch {
	case recent > thresholds.High:
		return 1, true
	case recent < thresholds.Low:
		return -1, true
	default:
		return 0, false
	}
}

// ParseDifficultyDelta prefers the score history and falls back to the
// vocabulary of the analysis.
func ParseDifficultyDelta(analysis string, history []float64, thresholds Thresholds) int {
	if delta, ok := HistoryDelta(history, thresholds); ok {
		return delta
	}

	lower := strings.ToLower(analysis)
	contains := func(keyword string) bool { return strings.Contains(lower, keyword) }
	switch {
	case lo.SomeBy(raiseDifficultyVocabulary, contains):
		return 1
	case lo.SomeBy(lowerDifficultyVocabulary, contains):
		return -1
	default:
		return 0
	}
}

// ExtractStrategy returns the first line carrying a recommendation marker,
// else the last line longer than 20 characters, else the whole text.
func ExtractStrategy(analysis string) string {
	lines := strings.Split(analysis, "\n")

	for _, line := range lines {
		lower := strings.ToLower(line)
		if lo.SomeBy(strategyMarkers, func(marker string) bool { return strings.Contains(lower, marker) }) {
			return strings.TrimSpace(line)
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); len(line) > 20 {
			return line
		}
	}

	return strings.TrimSpace(analysis)
}
