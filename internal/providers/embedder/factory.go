package embedder

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

// NewProvider creates the embedding provider selected by configuration.
// An unknown provider kind is a configuration error here, at
// initialization, not at first use.
func NewProvider(ctx context.Context, cfg *config.EmbedderConfig) (core.Embedder, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Int("dimensions", cfg.Dimensions).
		Msg("starting embedding provider")

	switch cfg.Provider {
	case config.EmbedderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai embedder requires an API key", core.ErrConfiguration)
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Dimensions), nil
	case config.EmbedderOllama:
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.Dimensions), nil
	case config.EmbedderCustom:
		return nil, fmt.Errorf("%w: custom embedder must be supplied at engine construction", core.ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: unknown embedder provider: %s", core.ErrConfiguration, cfg.Provider)
	}
}
