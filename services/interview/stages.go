package interview

import (
	"fmt"

	"interviewcoach/config"
	"interviewcoach/services/agents"
	"interviewcoach/services/llm"

	"go.uber.org/zap"
)

// Stages bundles the four stage agents one orchestrator drives.
type Stages struct {
	Interviewer *agents.Interviewer
	Observer    *agents.Observer
	Evaluator   *agents.Evaluator
	Feedback    *agents.FeedbackGenerator
}

// NewStages binds the visible stages to the standard tier and the hidden
// analysis stages to the cheap tier.
func NewStages(factory *llm.Factory, cfg config.InterviewConfig, logger *zap.Logger) (Stages, error) {
	models := map[string]llm.Model{}
	for stage, tier := range map[string]llm.Tier{
		agents.StageInterviewer: llm.TierStandard,
		agents.StageFeedback:    llm.TierStandard,
		agents.StageObserver:    llm.TierCheap,
		agents.StageEvaluator:   llm.TierCheap,
	} {
		model, err := factory.ForStage(stage, tier)
		if err != nil {
			return Stages{}, fmt.Errorf("failed to create %s model: %w", stage, err)
		}
		models[stage] = model
	}

	return StagesFromModels(models, cfg, logger), nil
}

// StagesFromModels wires agents over already-built models keyed by stage.
func StagesFromModels(models map[string]llm.Model, cfg config.InterviewConfig, logger *zap.Logger) Stages {
	thresholds := agents.Thresholds{High: cfg.ThresholdHigh, Low: cfg.ThresholdLow}
	return Stages{
		Interviewer: agents.NewInterviewer(models[agents.StageInterviewer], cfg.ContextWindow, logger.Named(agents.StageInterviewer)),
		Observer:    agents.NewObserver(models[agents.StageObserver], thresholds, logger.Named(agents.StageObserver)),
		Evaluator:   agents.NewEvaluator(models[agents.StageEvaluator], logger.Named(agents.StageEvaluator)),
		Feedback:    agents.NewFeedbackGenerator(models[agents.StageFeedback], logger.Named(agents.StageFeedback)),
	}
}
