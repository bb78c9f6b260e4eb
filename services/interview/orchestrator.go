package interview

import (
	"context"
	"fmt"
	"strings"

	"interviewcoach/config"
	"interviewcoach/models"
	"interviewcoach/services/agents"
	"interviewcoach/services/heuristics"
	"interviewcoach/services/memory"
	"interviewcoach/services/metrics"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	ClosingMessage = "Thank you for your answers! That was the last question. I will now prepare your final feedback."

	insufficientAnswerFeedback = "Insufficient answer"
	offTopicThoughts           = "[Observer]: Candidate going off-topic repeatedly. Redirecting."
	thoughtsFormat             = "[Observer]: %s | [Evaluator]: %s | Score: %.2f | [Strategy]: %s"
)

// AuditLog receives every change to the interview log. Each call is a
// write-through to durable storage.
type AuditLog interface {
	Initialize(participantName string, profile models.CandidateProfile) error
	AppendTurn(turn models.Turn) error
	AttachFinalFeedback(feedback models.FinalFeedback) error
}

// Orchestrator runs one interview session. It is not safe for concurrent
// use; the Registry serializes access per session.
type Orchestrator struct {
	cfg     config.InterviewConfig
	stages  Stages
	audit   AuditLog
	metrics *metrics.Metrics
	logger  *zap.Logger

	state    *SessionState
	memory   *memory.ConversationMemory
	entities *memory.EntityTracker
	greeting string
}

func NewOrchestrator(cfg config.InterviewConfig, stages Stages, audit AuditLog, m *metrics.Metrics, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		stages:  stages,
		audit:   audit,
		metrics: m,
		logger:  logger,
	}
}

// Initialize starts a fresh session for the profile. A *PersistenceError is
// returned with a usable state when the audit log could not be created.
func (o *Orchestrator) Initialize(profile models.CandidateProfile) (SessionState, error) {
	o.logger.Info("Starting interview initialization", zap.String("participant", profile.Name))

	if err := validateProfile(profile); err != nil {
		o.logger.Error("Failed to initialize interview", zap.Error(err))
		return SessionState{}, err
	}

	o.state = newSessionState(profile, o.cfg.DifficultyInitial)
	o.memory = memory.NewConversationMemory(o.cfg.MemoryWindow)
	o.entities = memory.NewEntityTracker()
	o.greeting = ""

	o.entities.AddTopicsToCover(o.state.TopicsToCover)
	for _, skill := range memory.ExtractSkills(profile.Experience) {
		o.entities.ClaimSkill(skill)
	}
	o.entities.SetAttribute("position", profile.Position)
	o.entities.SetAttribute("grade", profile.Grade)

	if err := o.audit.Initialize(profile.Name, profile); err != nil {
		return o.state.clone(), o.persistenceFailure("initialize", err)
	}

	o.logger.Info("Successfully initialized interview",
		zap.String("position", profile.Position),
		zap.String("grade", profile.Grade),
		zap.Strings("claimed_skills", o.entities.ClaimedSkills()))
	return o.state.clone(), nil
}

func validateProfile(profile models.CandidateProfile) error {
	fields := map[string]string{
		"name":       profile.Name,
		"position":   profile.Position,
		"grade":      profile.Grade,
		"experience": profile.Experience,
	}
	empty := lo.Filter([]string{"name", "position", "grade", "experience"}, func(field string, _ int) bool {
		return strings.TrimSpace(fields[field]) == ""
	})
	if len(empty) > 0 {
		return fmt.Errorf("%w: empty %s", ErrInvalidProfile, strings.Join(empty, ", "))
	}
	return nil
}

// Start returns the greeting with the first question. No turn is recorded.
func (o *Orchestrator) Start(ctx context.Context) (string, error) {
	if o.state == nil {
		return "", ErrNotInitialized
	}
	if o.state.Complete {
		return "", ErrInterviewComplete
	}

	greeting := o.stages.Interviewer.Greeting(ctx, o.snapshot(o.memory.RecentContext(o.cfg.MemoryWindow)))
	o.state.AgentMessage = greeting
	o.greeting = greeting
	return greeting, nil
}

// ProcessTurn runs the full pipeline for one candidate utterance and returns
// the message to show. Stage failures degrade to fallbacks; the only errors
// are precondition violations and *PersistenceError, which comes with a
// valid message.
func (o *Orchestrator) ProcessTurn(ctx context.Context, utterance string) (string, error) {
	if o.state == nil {
		return "", ErrNotInitialized
	}
	if o.state.Complete {
		return "", ErrInterviewComplete
	}

	s := o.state
	s.CurrentTurnID++
	s.UserMessage = utterance
	logger := o.logger.With(zap.Int("turn_id", s.CurrentTurnID))
	logger.Info("Starting turn processing", zap.Int("words", heuristics.WordCount(utterance)))

	if o.offTopicGate(utterance) {
		logger.Warn("Candidate went off topic repeatedly, redirecting", zap.Int("off_topic_count", s.OffTopicCount))
		o.metrics.TurnsProcessed.WithLabelValues("redirected").Inc()
		return heuristics.RedirectMessage, o.recordTurn(heuristics.RedirectMessage, offTopicThoughts, 0.0)
	}

	observation := o.stages.Observer.Analyze(ctx, o.snapshot(o.memory.RecentContext(o.cfg.MemoryWindow)))
	s.ObserverAnalysis = observation.Analysis
	s.Strategy = observation.Strategy

	lastQuestion := s.LastQuestion()
	evaluation, evaluated := o.evaluate(ctx, utterance, lastQuestion)
	s.EvaluatorFeedback = evaluation.Feedback
	s.recordScore(evaluation.Score)

	delta := observation.DifficultyDelta
	if forced, ok := agents.HistoryDelta(s.PerformanceHistory, o.thresholds()); ok {
		delta = forced
	}
	if s.adjustDifficulty(delta, o.cfg.DifficultyMin, o.cfg.DifficultyMax) {
		logger.Info("Adjusted difficulty", zap.Int("difficulty", s.Difficulty))
	}

	topics := memory.ExtractTopics(utterance + " " + lastQuestion)
	for _, topic := range topics {
		o.entities.AddTopic(topic)
		s.addTopic(topic)
	}

	if evaluated {
		o.verifySkills(utterance, evaluation.Score)
		o.collectGap(utterance, evaluation, topics)
	}

	thoughts := fmt.Sprintf(thoughtsFormat, observation.Analysis, evaluation.Feedback, evaluation.Score, observation.Strategy)
	logger.Debug("Compiled internal thoughts", zap.String("internal_thoughts", thoughts))

	if o.reachedCompletion(s.CurrentTurnID) {
		s.ShouldContinue = false
		s.Complete = true
		o.metrics.InterviewsCompleted.Inc()
		o.metrics.TurnsProcessed.WithLabelValues("completed").Inc()
		logger.Info("Interview complete", zap.Int("topics_covered", len(s.topicsCovered)))
		return ClosingMessage, o.recordTurn(ClosingMessage, thoughts, evaluation.Score)
	}

	question := o.stages.Interviewer.NextQuestion(ctx, o.snapshot(o.memory.RecentContext(o.cfg.MemoryWindow)))
	if strings.TrimSpace(question) == "" {
		question = agents.ClarificationMessage
	}

	o.metrics.TurnsProcessed.WithLabelValues("answered").Inc()
	logger.Info("Successfully processed turn",
		zap.Float64("score", evaluation.Score),
		zap.Int("difficulty", s.Difficulty))
	return question, o.recordTurn(question, thoughts, evaluation.Score)
}

// offTopicGate counts consecutive drift and reports whether the redirect
// should replace the pipeline. A counter-question always passes. Any
// on-topic utterance resets the count, so scattered drift never redirects.
func (o *Orchestrator) offTopicGate(utterance string) bool {
	if heuristics.IsQuestion(utterance) || !heuristics.IsOffTopic(utterance) {
		o.state.OffTopicCount = 0
		return false
	}
	o.state.OffTopicCount++
	return o.state.OffTopicCount >= o.cfg.OffTopicLimit
}

func (o *Orchestrator) evaluate(ctx context.Context, utterance, lastQuestion string) (agents.EvaluatorResult, bool) {
	if heuristics.ShouldSkipEvaluation(utterance) {
		o.metrics.EvaluationsSkipped.Inc()
		return agents.EvaluatorResult{
			Feedback:    insufficientAnswerFeedback,
			Score:       o.cfg.SkipScore,
			Correctness: models.CorrectnessIncorrect,
		}, false
	}
	return o.stages.Evaluator.Evaluate(ctx, o.snapshot(o.memory.RecentContext(o.cfg.MemoryWindow)), lastQuestion), true
}

// verifySkills grades the claimed skills the candidate talked about.
func (o *Orchestrator) verifySkills(utterance string, score float64) {
	for _, mentioned := range memory.ExtractSkills(utterance) {
		skill, ok := o.entities.FindClaimedSkill(mentioned)
		if !ok {
			continue
		}
		switch {
		case score >= o.cfg.ThresholdHigh:
			o.entities.VerifySkill(skill, memory.SkillGood)
		case score < o.cfg.ThresholdLow:
			o.entities.VerifySkill(skill, memory.SkillWeak)
		}
	}
}

func (o *Orchestrator) collectGap(utterance string, evaluation agents.EvaluatorResult, topics []string) {
	if evaluation.Correctness != models.CorrectnessIncorrect || evaluation.CorrectAnswer == "" {
		return
	}

	topic := "general"
	if len(topics) > 0 {
		topic = topics[0]
	} else if covered := o.state.topicsCovered; len(covered) > 0 {
		topic = covered[len(covered)-1]
	}

	o.state.KnowledgeGaps = append(o.state.KnowledgeGaps, models.KnowledgeGap{
		Topic:         topic,
		UserAnswer:    utterance,
		CorrectAnswer: evaluation.CorrectAnswer,
	})
}

func (o *Orchestrator) reachedCompletion(turnID int) bool {
	if turnID >= o.cfg.MaxTurns {
		return true
	}
	return turnID >= o.cfg.MinTurnsForTopics && len(o.state.topicsCovered) >= o.cfg.MinTopics
}

func (o *Orchestrator) recordTurn(visible, thoughts string, score float64) error {
	s := o.state
	turn := models.Turn{
		TurnID:              s.CurrentTurnID,
		AgentVisibleMessage: visible,
		UserMessage:         s.UserMessage,
		InternalThoughts:    thoughts,
		PerformanceMetrics:  map[string]float64{"score": score},
	}

	o.memory.AddTurn(turn)
	s.Turns = append(s.Turns, turn)
	s.AgentMessage = visible

	if err := o.audit.AppendTurn(turn); err != nil {
		return o.persistenceFailure("append_turn", err)
	}
	return nil
}

// GenerateFinalFeedback asks the feedback stage for the report and attaches
// it to the log. Callers must invoke it at most once per completed session.
func (o *Orchestrator) GenerateFinalFeedback(ctx context.Context) (models.FinalFeedback, error) {
	if o.state == nil {
		return models.FinalFeedback{}, ErrNotInitialized
	}
	if !o.state.Complete {
		return models.FinalFeedback{}, ErrInterviewNotComplete
	}

	o.logger.Info("Starting final feedback", zap.Int("turns", len(o.state.Turns)))

	feedback := o.stages.Feedback.Generate(ctx, o.snapshot(o.memory.AllTurns()), o.greeting)
	if err := o.audit.AttachFinalFeedback(feedback); err != nil {
		return feedback, o.persistenceFailure("attach_final_feedback", err)
	}

	o.logger.Info("Successfully generated final feedback", zap.String("grade", feedback.Grade))
	return feedback, nil
}

// Finish forces completion, as the /finish command does.
func (o *Orchestrator) Finish() error {
	if o.state == nil {
		return ErrNotInitialized
	}
	if !o.state.Complete {
		o.state.Complete = true
		o.state.ShouldContinue = false
		o.metrics.InterviewsCompleted.Inc()
		o.logger.Info("Interview finished early", zap.Int("turns", len(o.state.Turns)))
	}
	return nil
}

func (o *Orchestrator) IsComplete() bool {
	return o.state != nil && o.state.Complete
}

// State returns a copy of the session state.
func (o *Orchestrator) State() (SessionState, error) {
	if o.state == nil {
		return SessionState{}, ErrNotInitialized
	}
	return o.state.clone(), nil
}

func (o *Orchestrator) Status() (models.InterviewStatus, error) {
	if o.state == nil {
		return models.InterviewStatus{}, ErrNotInitialized
	}

	s := o.state
	return models.InterviewStatus{
		Participant:     s.Profile.Name,
		Turns:           len(s.Turns),
		Difficulty:      s.Difficulty,
		CumulativeScore: s.CumulativeScore,
		TopicsCovered:   s.TopicsCovered(),
		NextTopic:       o.entities.NextTopic(),
		Complete:        s.Complete,
	}, nil
}

// Coverage reports what the entity tracker learned about the candidate.
func (o *Orchestrator) Coverage() (memory.CoverageSummary, error) {
	if o.state == nil {
		return memory.CoverageSummary{}, ErrNotInitialized
	}
	return o.entities.CoverageSummary(), nil
}

// QuickSummary is the short text printed after the final report.
func (o *Orchestrator) QuickSummary() string {
	if o.state == nil {
		return ""
	}

	s := o.state
	return fmt.Sprintf("Interview complete: %s\nQuestions asked: %d\nAverage score: %.2f\nTopics covered: %s\n",
		s.Profile.Name, len(s.Turns), s.CumulativeScore, strings.Join(s.TopicsCovered(), ", "))
}

// ConversationSummary renders the recent exchanges kept in memory.
func (o *Orchestrator) ConversationSummary() string {
	if o.memory == nil {
		return ""
	}
	return o.memory.Summary()
}

func (o *Orchestrator) snapshot(turns []models.Turn) agents.Snapshot {
	s := o.state
	return agents.Snapshot{
		Profile:            s.Profile,
		Turns:              turns,
		UserMessage:        s.UserMessage,
		Difficulty:         s.Difficulty,
		TopicsCovered:      s.TopicsCovered(),
		NextTopic:          o.entities.NextTopic(),
		PerformanceHistory: append([]float64{}, s.PerformanceHistory...),
		Strategy:           s.Strategy,
		ConfirmedSkills:    o.entities.VerifiedGoodSkills(),
		WeakSkills:         o.entities.WeakSkills(),
		KnowledgeGaps:      append([]models.KnowledgeGap{}, s.KnowledgeGaps...),
	}
}

func (o *Orchestrator) thresholds() agents.Thresholds {
	return agents.Thresholds{High: o.cfg.ThresholdHigh, Low: o.cfg.ThresholdLow}
}

func (o *Orchestrator) persistenceFailure(op string, err error) error {
	o.metrics.PersistenceFailures.WithLabelValues(op).Inc()
	o.logger.Error("Failed to persist interview log", zap.String("operation", op), zap.Error(err))
	return &PersistenceError{Op: op, Err: err}
}
