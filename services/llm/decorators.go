package llm

import (
	"context"
	"time"

	"interviewcoach/services/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitedModel waits on a limiter shared by all stages of a provider.
type RateLimitedModel struct {
	next    Model
	limiter *rate.Limiter
}

// NewLimiter returns an unlimited limiter when requestsPerMinute is not positive.
func NewLimiter(requestsPerMinute float64, burst int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerMinute/60), burst)
}

func NewRateLimitedModel(next Model, limiter *rate.Limiter) *RateLimitedModel {
	return &RateLimitedModel{next: next, limiter: limiter}
}

func (m *RateLimitedModel) Name() string {
	return m.next.Name()
}

func (m *RateLimitedModel) Generate(ctx context.Context, req Request) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{Provider: "rate-limiter", Model: m.next.Name(), Err: err}
	}
	return m.next.Generate(ctx, req)
}

// ObservedModel bounds each call with a timeout and records latency and
// failures for one stage.
type ObservedModel struct {
	next    Model
	stage   string
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewObservedModel(next Model, stage string, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *ObservedModel {
	return &ObservedModel{
		next:    next,
		stage:   stage,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

func (m *ObservedModel) Name() string {
	return m.next.Name()
}

func (m *ObservedModel) Generate(ctx context.Context, req Request) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := m.next.Generate(ctx, req)
	m.metrics.StageDuration.WithLabelValues(m.stage).Observe(time.Since(start).Seconds())

	if err != nil {
		m.metrics.ProviderErrors.WithLabelValues(m.stage).Inc()
		m.logger.Error("Failed to generate stage output",
			zap.String("stage", m.stage),
			zap.String("model", m.next.Name()),
			zap.Error(err))
		return "", err
	}

	m.logger.Debug("Generated stage output",
		zap.String("stage", m.stage),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
