package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/pursuit/batch"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/telemetry"
)

// collisionPenalty multiplies the episode horizon for a collided episode.
const collisionPenalty = 2.0

// FitnessEvaluator runs headless episodes and scores a parameter vector.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	workers    int
	logger     *slog.Logger

	mu          sync.Mutex
	lastSummary telemetry.Summary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, workers int, logger *slog.Logger) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		workers:    workers,
		logger:     logger,
	}
}

// LastSummary returns the summary from the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() telemetry.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate returns the mean episode cost for raw parameters x (lower = better).
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	eps, err := batch.Run(ctx, cfg, fe.seeds, batch.Options{
		Workers: fe.workers,
		Logger:  fe.logger,
	})
	if err != nil {
		fe.logger.Warn("evaluation failed", "error", err)
		return math.Inf(1)
	}

	fe.mu.Lock()
	fe.lastSummary = telemetry.Summarize(eps)
	fe.mu.Unlock()

	horizon := float64(cfg.Sim.MaxTicks) * cfg.Sim.DT
	var total float64
	for _, ep := range eps {
		total += episodeCost(ep, horizon)
	}
	return total / float64(len(eps))
}

// episodeCost is the intercept time, the horizon for an episode that never
// intercepted, and a multiple of it for a collision.
func episodeCost(ep telemetry.EpisodeRecord, horizon float64) float64 {
	switch ep.Outcome {
	case telemetry.OutcomeIntercepted:
		return ep.SimTime
	case telemetry.OutcomeCollided:
		return collisionPenalty * horizon
	}
	return horizon
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
