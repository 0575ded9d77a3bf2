// Package coach asks the LLM how to steer a learner: which categories to
// weight in the next quiz and what to study after the last one.
package coach

import (
	"log/slog"

	"github.com/abhisek/adaptquiz/internal/llm"
)

// Config controls the coach's LLM requests.
type Config struct {
	WeightsMaxTokens   int
	WeightsTemperature float64

	PlanMaxTokens   int
	PlanTemperature float64

	// MaxCategories caps how many categories keep a weight. At most ten
	// fit in [MinWeight, MaxWeight] with a sum of one.
	MaxCategories int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		WeightsMaxTokens:   1024,
		WeightsTemperature: 0.2,
		PlanMaxTokens:      1024,
		PlanTemperature:    0.7,
		MaxCategories:      10,
	}
}

// Coach computes category weights and study plans.
type Coach struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Coach backed by provider.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxCategories <= 0 || cfg.MaxCategories > maxFeasibleCategories {
		cfg.MaxCategories = maxFeasibleCategories
	}
	return &Coach{provider: provider, config: cfg, logger: logger}
}
