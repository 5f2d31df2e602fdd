package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/recall/internal/core"
)

// ContextConfig tunes the contextual aggregator. The fusion weights and
// the dedup threshold are deliberately configuration, not constants.
type ContextConfig struct {
	ShortTermWeight float64 `env:"RECALL_WEIGHT_SHORT_TERM" envDefault:"1.0"`
	EntityWeight    float64 `env:"RECALL_WEIGHT_ENTITIES" envDefault:"1.0"`
	LongTermWeight  float64 `env:"RECALL_WEIGHT_LONG_TERM" envDefault:"1.0"`

	ShortTermLimit int `env:"RECALL_SHORT_TERM_LIMIT" envDefault:"5"`
	EntityLimit    int `env:"RECALL_ENTITY_LIMIT" envDefault:"5"`
	LongTermLimit  int `env:"RECALL_LONG_TERM_LIMIT" envDefault:"3"`

	// ScoreThreshold is the default minimum cosine similarity for
	// vector-store retrieval when the caller does not set one.
	ScoreThreshold float32 `env:"RECALL_SCORE_THRESHOLD" envDefault:"0.35"`

	// DedupThreshold is the normalized content similarity above which
	// two merged entries are considered duplicates.
	DedupThreshold float64 `env:"RECALL_DEDUP_THRESHOLD" envDefault:"0.95"`

	// MinQuality excludes low-scored task records from default
	// long-term search. The records are retained for audit.
	MinQuality float64 `env:"RECALL_MIN_QUALITY" envDefault:"0.35"`

	// MaxContextTokens bounds the merged context by token count when
	// positive. Zero disables the budget.
	MaxContextTokens int `env:"RECALL_MAX_CONTEXT_TOKENS" envDefault:"0"`
}

func NewContextConfig() (*ContextConfig, error) {
	c := &ContextConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("%w: parse context config: %v", core.ErrConfiguration, err)
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return nil, fmt.Errorf("%w: dedup threshold must be in (0,1], got %v", core.ErrConfiguration, c.DedupThreshold)
	}
	return c, nil
}
