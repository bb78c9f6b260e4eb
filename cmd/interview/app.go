package main

import (
	"fmt"

	"interviewcoach/config"
	"interviewcoach/db"
	"interviewcoach/logging"
	"interviewcoach/services"
	"interviewcoach/services/interview"
	"interviewcoach/services/llm"
	"interviewcoach/services/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// app holds what every subcommand shares.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	gatherer *prometheus.Registry
	metrics  *metrics.Metrics
	repo     db.InterviewLogRepository
	factory  *llm.Factory
}

// newApp loads the configuration and opens the log store. A non-empty
// logFile replaces the stderr log output so that the terminal stays
// reserved for the conversation.
func newApp(path, logFile string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if logFile != "" && (cfg.Log.Output == "" || cfg.Log.Output == "stderr") {
		cfg.Log.Output = logFile
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	repo, err := db.NewInterviewLogRepository(cfg.Storage)
	if err != nil {
		logger.Error("Failed to open interview log storage", zap.Error(err))
		return nil, fmt.Errorf("failed to open interview log storage: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		gatherer: reg,
		metrics:  m,
		repo:     repo,
		factory:  llm.NewFactory(cfg.LLM, m, logger),
	}, nil
}

func (a *app) stages() (interview.Stages, error) {
	return interview.NewStages(a.factory, a.cfg.Interview, a.logger)
}

// newOrchestrator gives one session its own audit log keyed by logID.
func (a *app) newOrchestrator(stages interview.Stages, logID string) *interview.Orchestrator {
	logger := a.logger.With(zap.String("log_id", logID))
	audit := services.NewAuditLogService(a.repo, logID, logger)
	return interview.NewOrchestrator(a.cfg.Interview, stages, audit, a.metrics, logger)
}

// logLocation tells the user where the log of a session ended up.
func (a *app) logLocation(logID string) string {
	if files, ok := a.repo.(*db.FileInterviewLogRepository); ok {
		return files.Path(logID)
	}
	return fmt.Sprintf("%s log %s", a.cfg.Storage.Driver, logID)
}

func (a *app) close() {
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("Failed to close interview log storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
