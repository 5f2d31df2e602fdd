package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/recall/internal/core"
)

// AppConfig carries the process-wide storage settings. The storage root
// is resolved exactly once, at engine initialization; changing it
// requires a fresh initialization.
type AppConfig struct {
	// StorageDir overrides the platform data directory when set.
	StorageDir string `env:"RECALL_STORAGE_DIR"`

	// Project namespaces all stores so unrelated projects sharing a
	// machine do not collide.
	Project string `env:"RECALL_PROJECT" envDefault:"default"`
}

func NewAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("%w: parse app config: %v", core.ErrConfiguration, err)
	}
	return c, nil
}

// Root resolves the on-disk root for all durable stores: the override
// directory when configured, otherwise the platform application-data
// directory, namespaced by the project identifier.
func (c *AppConfig) Root() (string, error) {
	base := c.StorageDir
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			home, herr := os.UserHomeDir()
			if herr != nil {
				return "", fmt.Errorf("%w: no storage root: %v", core.ErrConfiguration, err)
			}
			dir = filepath.Join(home, ".recall")
		} else {
			dir = filepath.Join(dir, "recall")
		}
		base = dir
	} else if !filepath.IsAbs(base) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: relative storage dir without home: %v", core.ErrConfiguration, err)
		}
		base = filepath.Join(home, base)
	}
	return filepath.Join(base, c.Project), nil
}

func (c *AppConfig) ShortTermPath(root string) string {
	return filepath.Join(root, "short_term")
}

func (c *AppConfig) EntitiesPath(root string) string {
	return filepath.Join(root, "entities")
}

func (c *AppConfig) DatabasePath(root string) string {
	return filepath.Join(root, "long_term.db")
}
