// Package config loads the TOML configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LibraryFolder string `koanf:"library_folder"` // folder scanned for tracks; empty means cwd

	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
	State    StateConfig    `koanf:"state"`
	UI       UIConfig       `koanf:"ui"`

	Notifications NotificationsConfig `koanf:"notifications"`
}

// PlaybackConfig holds queue and session settings.
type PlaybackConfig struct {
	RefreshIntervalMs int    `koanf:"refresh_interval_ms" default:"500" validate:"gte=50,lte=10000"`
	EventBuffer       int    `koanf:"event_buffer" default:"64" validate:"gte=1,lte=4096"`
	Repeat            string `koanf:"repeat" default:"off" validate:"oneof=off all one"`
	Shuffle           bool   `koanf:"shuffle"`                     // shuffle every loaded queue
	RestoreQueue      bool   `koanf:"restore_queue" default:"true"` // cue the last queue on startup
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `koanf:"output" default:"file" validate:"oneof=file stderr stdout"`
	File   string `koanf:"file"` // defaults to the XDG state dir
}

type MPRISConfig struct {
	Enabled bool `koanf:"enabled" default:"true"`
}

type StateConfig struct {
	Path string `koanf:"path"` // defaults to the XDG data dir
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	Enabled      bool `koanf:"enabled"` // off by default
	ShowAlbumArt bool `koanf:"show_album_art" default:"true"`
	TimeoutMs    int  `koanf:"timeout_ms" default:"5000" validate:"gte=-1,lte=60000"` // -1 = server default
}

// UIConfig holds display settings.
type UIConfig struct {
	Icons string `koanf:"icons" default:"none" validate:"oneof=nerd unicode none"`
}

// RefreshInterval returns the position polling interval.
func (c PlaybackConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

// Load reads the config files in priority order, applies defaults and
// validates the result.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom is Load with explicit paths; later files win, missing ones are
// skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load %s", path)
			}
		}
	}

	// Defaults go in first so that explicit false values in the file survive.
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg.LibraryFolder = expandPath(cfg.LibraryFolder)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.State.Path = expandPath(cfg.State.Path)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tideline/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tideline", "config.toml"))
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
