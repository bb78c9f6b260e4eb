package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"interviewcoach/models"
	"interviewcoach/services/llm"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultConfidence  = 50
	fallbackConfidence = 60
)

// feedbackReport is the structured block the model is asked to return.
type feedbackReport struct {
	Grade                string                `json:"grade" jsonschema:"required,enum=Junior,enum=Middle,enum=Senior"`
	HiringRecommendation string                `json:"hiring_recommendation" jsonschema:"required,enum=Hire,enum=No Hire,enum=Strong Hire"`
	ConfidenceScore      *confidence           `json:"confidence_score" jsonschema:"required,minimum=0,maximum=100"`
	Reasoning            string                `json:"reasoning,omitempty" jsonschema:"description=Short justification of the verdict"`
	ConfirmedSkills      []string              `json:"confirmed_skills" jsonschema:"required"`
	KnowledgeGaps        []models.KnowledgeGap `json:"knowledge_gaps" jsonschema:"required"`
	SoftSkills           map[string]any        `json:"soft_skills" jsonschema:"required,description=Assessment keyed by clarity and honesty and engagement"`
	Roadmap              []string              `json:"roadmap" jsonschema:"required,description=Topics to study ordered by priority"`
}

// confidence accepts 85 as well as "85" or "85%".
type confidence float64

func (c *confidence) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"% `)
	if raw == "" || raw == "null" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid confidence score %q: %w", raw, err)
	}
	*c = confidence(value)
	return nil
}

var feedbackSchema = buildFeedbackSchema()

func buildFeedbackSchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema, err := json.MarshalIndent(reflector.Reflect(&feedbackReport{}), "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to build feedback schema: %v", err))
	}
	return string(schema)
}

// FeedbackGenerator writes the final report once the interview is complete.
type FeedbackGenerator struct {
	model  llm.Model
	logger *zap.Logger
}

func NewFeedbackGenerator(model llm.Model, logger *zap.Logger) *FeedbackGenerator {
	return &FeedbackGenerator{model: model, logger: logger}
}

// Generate never fails. A provider error or an unparseable reply yields the
// conservative fallback report with empty skill and gap lists.
func (a *FeedbackGenerator) Generate(ctx context.Context, snap Snapshot, greeting string) models.FinalFeedback {
	a.logger.Info("Starting feedback generation", zap.Int("turns", len(snap.Turns)))

	text, err := a.model.Generate(ctx, llm.Request{
		Prompt:       fmt.Sprintf(FEEDBACK_PROMPT, feedbackSchema),
		SystemPrompt: a.systemPrompt(snap, greeting),
		Temperature:  0.5,
		MaxTokens:    2000,
	})
	if err != nil {
		a.logger.Warn("Failed to generate feedback, using fallback report", zap.Error(err))
	}

	feedback, structured := parseFeedback(text)
	if !structured {
		a.logger.Warn("Feedback was not structured, using keyword fallback")
	}

	a.logger.Info("Successfully generated feedback",
		zap.String("grade", feedback.Grade),
		zap.String("recommendation", feedback.HiringRecommendation))
	return feedback
}

func (a *FeedbackGenerator) systemPrompt(snap Snapshot, greeting string) string {
	metrics := CalculatePerformanceMetrics(snap.PerformanceHistory)
	p := snap.Profile

	return fmt.Sprintf(FEEDBACK_SYSTEM_PROMPT,
		p.Name, p.Position, p.Grade, p.Experience,
		len(snap.Turns), joinOrNone(snap.TopicsCovered), mean(snap.PerformanceHistory),
		metrics.Accuracy, metrics.Completeness, metrics.CommunicationClarity, metrics.OverallScore,
		joinOrNone(snap.ConfirmedSkills), joinOrNone(snap.WeakSkills),
		formatGaps(snap.KnowledgeGaps),
		BuildTranscript(snap.Turns, greeting))
}

// BuildTranscript renders each turn as the question the candidate answered,
// their answer and the hidden assessment.
func BuildTranscript(turns []models.Turn, greeting string) string {
	var b strings.Builder
	question := greeting
	for _, turn := range turns {
		fmt.Fprintf(&b, "\n--- Turn %d ---\n", turn.TurnID)
		fmt.Fprintf(&b, "Question: %s\n", question)
		fmt.Fprintf(&b, "Answer: %s\n", turn.UserMessage)
		if turn.InternalThoughts != "" {
			fmt.Fprintf(&b, "Assessment: %s\n", turn.InternalThoughts)
		}
		question = turn.AgentVisibleMessage
	}
	return b.String()
}

func formatGaps(gaps []models.KnowledgeGap) string {
	if len(gaps) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(gaps, func(gap models.KnowledgeGap, _ int) string {
		return fmt.Sprintf("- %s: answered %q, correct answer %q", gap.Topic, gap.UserAnswer, gap.CorrectAnswer)
	}), "\n")
}

// ParseFeedback is total: it tries the JSON block between the first "{" and
// the last "}" and falls back to keyword sniffing over the raw text.
func ParseFeedback(text string) models.FinalFeedback {
	feedback, _ := parseFeedback(text)
	return feedback
}

func parseFeedback(text string) (models.FinalFeedback, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		var report feedbackReport
		if err := json.Unmarshal([]byte(text[start:end+1]), &report); err == nil {
			return report.toFinalFeedback(), true
		}
	}
	return fallbackFeedback(text), false
}

func (r feedbackReport) toFinalFeedback() models.FinalFeedback {
	score := float64(defaultConfidence)
	if r.ConfidenceScore != nil {
		score = clamp(float64(*r.ConfidenceScore), 0, 100)
	}

	softSkills := make(map[string]string, len(r.SoftSkills))
	for key, value := range r.SoftSkills {
		softSkills[key] = strings.TrimSpace(fmt.Sprint(value))
	}

	return models.FinalFeedback{
		Grade:                normalizeGrade(r.Grade),
		HiringRecommendation: normalizeRecommendation(r.HiringRecommendation),
		ConfidenceScore:      score,
		ConfirmedSkills:      lo.Ternary(r.ConfirmedSkills == nil, []string{}, r.ConfirmedSkills),
		KnowledgeGaps:        lo.Ternary(r.KnowledgeGaps == nil, []models.KnowledgeGap{}, r.KnowledgeGaps),
		SoftSkills:           softSkills,
		Roadmap:              lo.Ternary(r.Roadmap == nil, []string{}, r.Roadmap),
	}
}

func fallbackFeedback(text string) models.FinalFeedback {
	return models.FinalFeedback{
		Grade:                normalizeGrade(text),
		HiringRecommendation: normalizeRecommendation(text),
		ConfidenceScore:      fallbackConfidence,
		ConfirmedSkills:      []string{},
		KnowledgeGaps:        []models.KnowledgeGap{},
		SoftSkills: map[string]string{
			"clarity":    "Average",
			"honesty":    "Needs review",
			"engagement": "Needs review",
		},
		Roadmap: []string{"Review the interview answers manually to build a detailed plan"},
	}
}

// normalizeGrade defaults to Junior.
func normalizeGrade(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "senior"):
		return models.GradeSenior
	case strings.Contains(lower, "middle"):
		return models.GradeMiddle
	default:
		return models.GradeJunior
	}
}

// normalizeRecommendation defaults to No Hire. "no hire" is checked before
// "hire" since it contains it.
func normalizeRecommendation(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strong hire"):
		return models.RecommendationStrongHire
	case strings.Contains(lower, "no hire"):
		return models.RecommendationNoHire
	case strings.Contains(lower, "hire"):
		return models.RecommendationHire
	default:
		return models.RecommendationNoHire
	}
}
