package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultTickIntervalMS = 10

type Config struct {
	DefaultFolder  string `koanf:"default_folder"`
	TickIntervalMS int    `koanf:"tick_interval_ms"` // playback poll interval (default: 10)

	Notifications NotificationsConfig `koanf:"notifications"`
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	Enabled      *bool `koanf:"enabled"`        // master switch (default: true)
	NowPlaying   *bool `koanf:"now_playing"`    // notify on track change (default: true)
	ShowAlbumArt *bool `koanf:"show_album_art"` // use album art as notification icon (default: true)
	Timeout      int32 `koanf:"timeout"`        // ms, 0 = server default
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/kanta/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "kanta", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// TickInterval returns the playback poll interval with the default and
// a sane lower bound applied.
func (c *Config) TickInterval() time.Duration {
	ms := c.TickIntervalMS
	if ms < 1 {
		ms = defaultTickIntervalMS
	}
	return time.Duration(ms) * time.Millisecond
}

// NotificationsEnabled reports whether track-change notifications
// should be sent. Unset values default to enabled.
func (c *Config) NotificationsEnabled() bool {
	if c.Notifications.Enabled != nil && !*c.Notifications.Enabled {
		return false
	}
	if c.Notifications.NowPlaying != nil && !*c.Notifications.NowPlaying {
		return false
	}
	return true
}

// ShowAlbumArt reports whether notifications should carry album art.
func (c *Config) ShowAlbumArt() bool {
	return c.Notifications.ShowAlbumArt == nil || *c.Notifications.ShowAlbumArt
}
