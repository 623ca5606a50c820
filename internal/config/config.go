package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Journal   JournalConfig
	Animation AnimationConfig
	Velocity  VelocityConfig
	UI        UIConfig
	Log       LogConfig
	Engine    EngineConfig
}

// JournalConfig holds sqlite settings for the transition journal.
type JournalConfig struct {
	Path       string
	Migrations string
	Keep       int
}

// AnimationConfig is the default timing of stock transitions.
type AnimationConfig struct {
	Duration     time.Duration
	Curve        string
	ReduceMotion bool `mapstructure:"reduce_motion"`
}

type VelocityConfig struct {
	SampleInterval time.Duration `mapstructure:"sample_interval"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FrameRate   int  `mapstructure:"frame_rate"`
	KeepBeneath bool `mapstructure:"keep_beneath"`
	EdgeWidth   int  `mapstructure:"edge_width"`
}

type LogConfig struct {
	Level string
	Path  string
}

type EngineConfig struct {
	Strict bool
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "tabstack")
}

func configPath() string {
	if p := os.Getenv("TABSTACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tabstack", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TABSTACK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("journal.path", filepath.Join(dataDir(), "journal.db"))
	v.SetDefault("journal.migrations", "internal/database/migrations")
	v.SetDefault("journal.keep", 500)
	v.SetDefault("animation.duration", 350*time.Millisecond)
	v.SetDefault("animation.curve", "ease-in-out")
	v.SetDefault("animation.reduce_motion", false)
	v.SetDefault("velocity.sample_interval", 100*time.Microsecond)
	v.SetDefault("ui.frame_rate", 60)
	v.SetDefault("ui.keep_beneath", false)
	v.SetDefault("ui.edge_width", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir(), "tabstack.log"))
	v.SetDefault("engine.strict", false)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("TABSTACK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tabstack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABSTACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.Animation.Duration < 0 {
		return fmt.Errorf("animation.duration must not be negative")
	}
	if c.UI.FrameRate <= 0 || c.UI.FrameRate > 240 {
		return fmt.Errorf("ui.frame_rate %d out of range", c.UI.FrameRate)
	}
	if c.Velocity.SampleInterval < 0 {
		return fmt.Errorf("velocity.sample_interval must not be negative")
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The TUI uses it to persist the reduce-motion toggle.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("journal.path", cfg.Journal.Path)
	v.Set("journal.migrations", cfg.Journal.Migrations)
	v.Set("journal.keep", cfg.Journal.Keep)
	v.Set("animation.duration", cfg.Animation.Duration.String())
	v.Set("animation.curve", cfg.Animation.Curve)
	v.Set("animation.reduce_motion", cfg.Animation.ReduceMotion)
	v.Set("velocity.sample_interval", cfg.Velocity.SampleInterval.String())
	v.Set("ui.frame_rate", cfg.UI.FrameRate)
	v.Set("ui.keep_beneath", cfg.UI.KeepBeneath)
	v.Set("ui.edge_width", cfg.UI.EdgeWidth)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("engine.strict", cfg.Engine.Strict)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
