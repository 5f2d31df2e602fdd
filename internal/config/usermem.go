package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/recall/internal/core"
)

type UserMemoryConfig struct {
	Enabled bool   `env:"RECALL_USER_MEMORY_ENABLED" envDefault:"false"`
	BaseURL string `env:"RECALL_USER_MEMORY_URL" envDefault:"https://api.mem0.ai"`
	APIKey  string `env:"RECALL_USER_MEMORY_API_KEY"`
}

func NewUserMemoryConfig() (*UserMemoryConfig, error) {
	c := &UserMemoryConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("%w: parse user memory config: %v", core.ErrConfiguration, err)
	}
	if c.Enabled && c.APIKey == "" {
		return nil, fmt.Errorf("%w: user memory enabled without an API key", core.ErrConfiguration)
	}
	return c, nil
}
