// Package config loads glide engine settings from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/phanxgames/glide"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GLIDE_TIME_SCALE.
const EnvPrefix = "GLIDE"

// Load reads settings from path, falling back to $GLIDE_CONFIG and then to
// config.{toml,yaml,json} in $HOME/.config/glide. A missing file in the
// search path is not an error; DefaultSettings fill every absent key and
// GLIDE_* variables override both.
func Load(path string) (glide.Settings, error) {
	v := viper.New()
	for key, val := range values(glide.DefaultSettings()) {
		v.SetDefault(key, val)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "glide"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return glide.Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s glide.Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())); err != nil {
		return glide.Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, ok := glide.EaseByName(s.DefaultEase); !ok {
		if hint, found := glide.SuggestEase(s.DefaultEase); found {
			return glide.Settings{}, fmt.Errorf("unknown default_ease %q (did you mean %q?)", s.DefaultEase, hint)
		}
		return glide.Settings{}, fmt.Errorf("unknown default_ease %q", s.DefaultEase)
	}
	return s, nil
}

// NewEngine loads settings with Load and returns an initialized engine.
func NewEngine(path string) (*glide.Engine, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	e := glide.New()
	e.Init(s)
	return e, nil
}

// Save writes s to path, creating the directory if needed. The format
// follows the file extension.
func Save(path string, s glide.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	v := viper.New()
	for key, val := range values(s) {
		v.Set(key, val)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// values flattens s into config keys. Enums are written by name.
func values(s glide.Settings) map[string]any {
	return map[string]any{
		"default_ease":        s.DefaultEase,
		"default_loop_type":   s.DefaultLoopType.String(),
		"default_auto_kill":   s.DefaultAutoKill,
		"default_update_type": s.DefaultUpdateType.String(),
		"time_scale":          s.TimeScale,
		"overwrite_manager":   s.OverwriteManager,
		"log_overwrites":      s.LogOverwrites,
		"log_level":           s.LogLevel.String(),
		"path_subdivisions":   s.PathSubdivisions,
		"debug":               s.Debug,
		"capacity":            s.Capacity,
	}
}
