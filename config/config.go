// Package config loads runtime settings from actorkit.yaml, ACTORKIT_*
// environment variables and explicit overrides, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/milk9111/actorkit/common"
	"github.com/spf13/viper"
)

type Config struct {
	Sim    SimConfig    `mapstructure:"sim"`
	Save   SaveConfig   `mapstructure:"save"`
	Window WindowConfig `mapstructure:"window"`
}

type SimConfig struct {
	TickRate     int     `mapstructure:"tick_rate"`
	Gravity      float64 `mapstructure:"gravity"`
	Level        string  `mapstructure:"level"`
	PlayerPrefab string  `mapstructure:"player_prefab"`
	PrefabDir    string  `mapstructure:"prefab_dir"`
	HotReload    bool    `mapstructure:"hot_reload"`
}

type SaveConfig struct {
	AppName string `mapstructure:"app_name"`
	Profile string `mapstructure:"profile"`
}

type WindowConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
	Debug  bool    `mapstructure:"debug"`
}

var ErrInvalid = errors.New("config: invalid")

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.gravity", common.Gravity)
	v.SetDefault("sim.level", "level1")
	v.SetDefault("sim.player_prefab", "player")
	v.SetDefault("sim.prefab_dir", "prefabs")
	v.SetDefault("sim.hot_reload", true)
	v.SetDefault("save.app_name", "actorkit")
	v.SetDefault("save.profile", "")
	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 540)
	v.SetDefault("window.scale", 32.0)
	v.SetDefault("window.debug", false)
}

// Default returns the built-in settings.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads path, or actorkit.yaml from the working directory when path is
// empty. A missing default file is not an error. Overrides use dotted keys
// such as "sim.level".
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ACTORKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("actorkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	} else {
		log.Printf("config: using %s", v.ConfigFileUsed())
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("%w: sim.tick_rate must be positive, got %d", ErrInvalid, c.Sim.TickRate)
	case c.Sim.Gravity >= 0:
		return fmt.Errorf("%w: sim.gravity must point down, got %v", ErrInvalid, c.Sim.Gravity)
	case c.Sim.Level == "":
		return fmt.Errorf("%w: sim.level is empty", ErrInvalid)
	case c.Sim.PlayerPrefab == "":
		return fmt.Errorf("%w: sim.player_prefab is empty", ErrInvalid)
	case c.Save.AppName == "":
		return fmt.Errorf("%w: save.app_name is empty", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.Scale <= 0:
		return fmt.Errorf("%w: window size %dx%d at scale %v", ErrInvalid, c.Window.Width, c.Window.Height, c.Window.Scale)
	}
	return nil
}

// Step is the fixed simulation step in seconds.
func (c *Config) Step() float64 {
	return 1 / float64(c.Sim.TickRate)
}
