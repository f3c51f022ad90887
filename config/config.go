// Package config holds runtime settings read from flags, env and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/echoflaresat/orrery/host"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/texture"
)

// Config holds application configuration.
type Config struct {
	Render RenderConfig
	Scene  SceneConfig
	Live   LiveConfig
	Log    LogConfig
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Width        int
	Height       int
	Supersample  int
	Workers      int
	FOV          float64
	TextureWidth int `mapstructure:"texture_width"`
	Format       string
}

// SceneConfig holds scene construction settings.
type SceneConfig struct {
	// Catalog is a YAML body catalog; empty means the built-in bodies.
	Catalog          string
	Seed             uint64
	SpinClock        string `mapstructure:"spin_clock"`
	TextureCacheSize int    `mapstructure:"texture_cache_size"`
}

// LiveConfig holds terminal view settings.
type LiveConfig struct {
	FPS         float64
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type LogConfig struct {
	Level string
}

// New returns a viper instance with defaults, env overrides (prefix ORRERY_)
// and the config file named by path or ORRERY_CONFIG.
func New(path string) *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("render.width", 320)
	v.SetDefault("render.height", 180)
	v.SetDefault("render.supersample", 2)
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.fov", 50.0)
	v.SetDefault("render.texture_width", 1024)
	v.SetDefault("render.format", "png")
	v.SetDefault("scene.catalog", "")
	v.SetDefault("scene.seed", 1)
	v.SetDefault("scene.spin_clock", "frame")
	v.SetDefault("scene.texture_cache_size", 32)
	v.SetDefault("live.fps", 30.0)
	v.SetDefault("live.metrics_addr", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("ORRERY_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "orrery"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ORRERY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the config file if present and decodes every setting.
// A missing default config file is not an error; an explicit one is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Supersample < 1 {
		return fmt.Errorf("render.supersample must be at least 1, got %d", c.Render.Supersample)
	}
	if c.Render.TextureWidth < 2 || c.Render.TextureWidth > texture.MaxWidth {
		return fmt.Errorf("render.texture_width must be in [2, %d], got %d", texture.MaxWidth, c.Render.TextureWidth)
	}
	if c.Scene.TextureCacheSize < 1 {
		return fmt.Errorf("scene.texture_cache_size must be at least 1, got %d", c.Scene.TextureCacheSize)
	}
	if c.Live.FPS <= 0 {
		return fmt.Errorf("live.fps must be positive, got %v", c.Live.FPS)
	}
	if _, err := c.SpinClock(); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	return nil
}

func (c Config) SpinClock() (orbit.Clock, error) {
	return orbit.ParseClock(c.Scene.SpinClock)
}

func (c Config) Format() (host.Format, error) {
	return host.ParseFormat(c.Render.Format)
}
