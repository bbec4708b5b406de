// Package config holds startup configuration. Values are read once from
// the environment (LSGLOBE_*) and may be overridden by command-line flags;
// nothing here changes after the scene is built.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LSGLOBE_"

// Textures names the image files used by the scene, relative to Dir.
type Textures struct {
	Dir        string `env:"DIR" envDefault:"./textures"`
	Surface    string `env:"SURFACE" envDefault:"00_earthmap1k.jpg"`
	Bump       string `env:"BUMP" envDefault:"01_earthbump1k.jpg"`
	Specular   string `env:"SPECULAR" envDefault:"02_earthspec1k.jpg"`
	Lights     string `env:"LIGHTS" envDefault:"03_earthlights1k.jpg"`
	Clouds     string `env:"CLOUDS" envDefault:"04_earthcloudmap.jpg"`
	CloudAlpha string `env:"CLOUD_ALPHA" envDefault:"05_earthcloudmaptrans.jpg"`
	StarSprite string `env:"STAR_SPRITE" envDefault:"stars/circle.png"`
}

// Path joins a texture file name onto Dir. Empty names stay empty.
func (t Textures) Path(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(t.Dir, name)
}

// Config is the full startup configuration.
type Config struct {
	StarCount int    `env:"STAR_COUNT" envDefault:"2000"`
	Detail    int    `env:"DETAIL" envDefault:"12"`
	Seed      uint64 `env:"SEED"` // 0 draws an unseeded star placement
	FPS       int    `env:"FPS" envDefault:"30"`

	Textures Textures `envPrefix:"TEXTURE_"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Default returns the configuration with every default applied and no
// environment lookups.
func Default() Config {
	var cfg Config
	// Parsing an empty environment only applies envDefault tags.
	_ = env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{},
	})
	return cfg
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const (
	maxDetail = 64
	maxFPS    = 240
)

// Validate checks ranges that would make the scene unbuildable.
func (c Config) Validate() error {
	var errs []error
	if c.StarCount < 0 {
		errs = append(errs, fmt.Errorf("star count must be >= 0, got %d", c.StarCount))
	}
	if c.Detail < 0 || c.Detail > maxDetail {
		errs = append(errs, fmt.Errorf("detail must be in [0, %d], got %d", maxDetail, c.Detail))
	}
	if c.FPS < 1 || c.FPS > maxFPS {
		errs = append(errs, fmt.Errorf("fps must be in [1, %d], got %d", maxFPS, c.FPS))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
