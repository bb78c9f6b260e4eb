package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"interviewcoach/models"
	"interviewcoach/services/llm"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const neutralScore = 0.5

var (
	scorePattern          = regexp.MustCompile(`(?i)score:\s*(\d+\.?\d*)`)
	correctAnswerPattern  = regexp.MustCompile(`(?im)(?:^|[^a-z])correct answer[^:\n]*:[ \t]*(.+)$`)
	shouldHaveBeenPattern = regexp.MustCompile(`(?im)should have (?:been|said|answered)[: \t]+(.+)$`)

	negativeVocabulary = []string{"incorrect", "not correct", "wrong"}
	partialVocabulary  = []string{"partial", "incomplete"}
	positiveVocabulary = []string{"correct", "excellent", "accurate"}
)

type EvaluatorResult struct {
	Feedback      string
	Score         float64
	Correctness   models.Correctness
	CorrectAnswer string
}

// Evaluator is a hidden stage that grades a single answer.
type Evaluator struct {
	model  llm.Model
	logger *zap.Logger
}

func NewEvaluator(model llm.Model, logger *zap.Logger) *Evaluator {
	return &Evaluator{model: model, logger: logger}
}

// Evaluate never fails. On a provider error the answer gets the neutral score.
func (a *Evaluator) Evaluate(ctx context.Context, snap Snapshot, question string) EvaluatorResult {
	a.logger.Info("Starting answer evaluation", zap.Int("answer_chars", len(snap.UserMessage)))

	p := snap.Profile
	text, err := a.model.Generate(ctx, llm.Request{
		Prompt: EVALUATOR_PROMPT,
		SystemPrompt: fmt.Sprintf(EVALUATOR_SYSTEM_PROMPT,
			p.Position, p.Grade, snap.CurrentTopic(), question, snap.UserMessage),
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		a.logger.Warn("Failed to evaluate answer, using neutral score", zap.Error(err))
		return ParseEvaluatorOutput("")
	}

	result := ParseEvaluatorOutput(text)
	a.logger.Info("Successfully evaluated answer",
		zap.Float64("score", result.Score),
		zap.String("correctness", string(result.Correctness)))
	return result
}

// ParseEvaluatorOutput is total: any text, including "", yields a result.
func ParseEvaluatorOutput(text string) EvaluatorResult {
	feedback := strings.TrimSpace(text)
	return EvaluatorResult{
		Feedback:      feedback,
		Score:         ParseScore(feedback),
		Correctness:   ParseCorrectness(feedback),
		CorrectAnswer: ExtractCorrectAnswer(feedback),
	}
}

// ParseScore reads an explicit "Score: X" label clamped to [0, 1]. Without
// one it falls back to sentiment words, negative first so that "incorrect"
// is not read as "correct".
func ParseScore(text string) float64 {
	if match := scorePattern.FindStringSubmatch(text); match != nil {
		if score, err := strconv.ParseFloat(match[1], 64); err == nil {
			return clamp(score, 0, 1)
		}
	}

	switch classify(text) {
	case models.CorrectnessIncorrect:
		return 0.2
	case models.CorrectnessCorrect:
		return 0.8
	default:
		return neutralScore
	}
}

// ParseCorrectness defaults to partial.
func ParseCorrectness(text string) models.Correctness {
	if c := classify(text); c != "" {
		return c
	}
	return models.CorrectnessPartial
}

// ExtractCorrectAnswer returns "" when the evaluator gave no reference answer.
func ExtractCorrectAnswer(text string) string {
	for _, pattern := range []*regexp.Regexp{correctAnswerPattern, shouldHaveBeenPattern} {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

func classify(text string) models.Correctness {
	lower := strings.ToLower(text)
	contains := func(keyword string) bool { return strings.Contains(lower, keyword) }

	switch {
	case lo.SomeBy(negativeVocabulary, contains):
		return models.CorrectnessIncorrect
	case lo.SomeBy(partialVocabulary, contains):
		return models.CorrectnessPartial
	case lo.SomeBy(positiveVocabulary, contains):
		return models.CorrectnessCorrect
	default:
		return ""
	}
}

func clamp(value, minimum, maximum float64) float64 {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}
