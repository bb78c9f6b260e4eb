package agents

import (
	"context"
	"fmt"
	"strings"

	"interviewcoach/services/llm"

	"go.uber.org/zap"
)

const (
	ClarificationMessage = "Sorry, I didn't quite catch that. Could you clarify or expand on your answer?"

	greetingFallback = "Hello, %s! Welcome to your technical interview for the %s position. " +
		"To start, could you explain the core concepts of the main technology you work with?"

	defaultStrategy = "Start the interview with a greeting and the first question."
)

// Interviewer produces every message the candidate sees.
type Interviewer struct {
	model         llm.Model
	contextWindow int
	logger        *zap.Logger
}

func NewInterviewer(model llm.Model, contextWindow int, logger *zap.Logger) *Interviewer {
	if contextWindow <= 0 {
		contextWindow = 3
	}
	return &Interviewer{model: model, contextWindow: contextWindow, logger: logger}
}

// Greeting never fails; a provider error yields a canned greeting.
func (a *Interviewer) Greeting(ctx context.Context, snap Snapshot) string {
	a.logger.Info("Starting greeting generation", zap.String("participant", snap.Profile.Name))

	text, err := a.model.Generate(ctx, llm.Request{
		Prompt:       fmt.Sprintf(GREETING_PROMPT, snap.Profile.Name, snap.Profile.Position),
		SystemPrompt: a.systemPrompt(snap),
		Temperature:  0.7,
		MaxTokens:    1000,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		a.logger.Warn("Failed to generate greeting, using fallback", zap.Error(err))
		return fmt.Sprintf(greetingFallback, snap.Profile.Name, snap.Profile.Position)
	}

	a.logger.Info("Successfully generated greeting")
	return strings.TrimSpace(text)
}

// NextQuestion never fails; a provider error or blank output yields the
// clarification request.
func (a *Interviewer) NextQuestion(ctx context.Context, snap Snapshot) string {
	a.logger.Info("Starting question generation", zap.Int("difficulty", snap.Difficulty))

	text, err := a.model.Generate(ctx, llm.Request{
		Prompt:       fmt.Sprintf(NEXT_QUESTION_PROMPT, a.buildContext(snap), snap.UserMessage),
		SystemPrompt: a.systemPrompt(snap),
		Temperature:  0.7,
		MaxTokens:    500,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		a.logger.Warn("Failed to generate question, asking for clarification", zap.Error(err))
		return ClarificationMessage
	}

	a.logger.Info("Successfully generated question")
	return strings.TrimSpace(text)
}

func (a *Interviewer) systemPrompt(snap Snapshot) string {
	strategy := snap.Strategy
	if strategy == "" {
		strategy = defaultStrategy
	}
	nextTopic := snap.NextTopic
	if nextTopic == "" {
		nextTopic = "any relevant topic not covered yet"
	}

	p := snap.Profile
	return fmt.Sprintf(INTERVIEWER_SYSTEM_PROMPT,
		p.Position, p.Grade,
		p.Name, p.Position, p.Grade, p.Experience,
		joinOrNone(snap.TopicsCovered), snap.Difficulty, nextTopic,
		strategy)
}

func (a *Interviewer) buildContext(snap Snapshot) string {
	recent := snap.RecentTurns(a.contextWindow)
	if len(recent) == 0 {
		return "Start of the interview"
	}

	parts := make([]string, 0, len(recent)*2)
	for _, turn := range recent {
		parts = append(parts, "Interviewer: "+turn.AgentVisibleMessage)
		parts = append(parts, "Candidate: "+turn.UserMessage)
	}
	return strings.Join(parts, "\n")
}
