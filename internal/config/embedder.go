package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/recall/internal/core"
)

// Embedder provider kinds. "custom" means the caller supplies its own
// embedding function at engine construction.
const (
	EmbedderOpenAI = "openai"
	EmbedderOllama = "ollama"
	EmbedderCustom = "custom"
)

type EmbedderConfig struct {
	Provider string `env:"RECALL_EMBEDDER_PROVIDER" envDefault:"openai"`
	Model    string `env:"RECALL_EMBEDDER_MODEL" envDefault:"text-embedding-3-small"`
	APIKey   string `env:"RECALL_EMBEDDER_API_KEY"`
	BaseURL  string `env:"RECALL_EMBEDDER_BASE_URL"`

	// Dimensions is the provider's output dimension. Every write is
	// checked against it; a mismatch is a configuration error.
	Dimensions int `env:"RECALL_EMBEDDER_DIMENSIONS" envDefault:"1536"`
}

func NewEmbedderConfig() (*EmbedderConfig, error) {
	c := &EmbedderConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("%w: parse embedder config: %v", core.ErrConfiguration, err)
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedder dimensions must be positive, got %d", core.ErrConfiguration, c.Dimensions)
	}
	return c, nil
}
