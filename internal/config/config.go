package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/rhythm/internal/skinning"
)

type Config struct {
	Audio    AudioConfig    `koanf:"audio"`
	Skin     SkinConfig     `koanf:"skin"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Gameplay GameplayConfig `koanf:"gameplay"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate int     `koanf:"sample_rate" default:"44100" validate:"oneof=22050 44100 48000 96000"`
	BufferMs   int     `koanf:"buffer_ms" default:"50" validate:"gte=5,lte=1000"`
	Volume     float64 `koanf:"volume" default:"1" validate:"gte=0,lte=1"`
}

// SkinConfig holds skin selection and storage settings.
type SkinConfig struct {
	Current  string `koanf:"current" validate:"omitempty,skinref"` // "default", "classic", "random" or a skin ID; empty keeps the saved choice
	FilesDir string `koanf:"files_dir"`                            // empty means the xdg data dir
}

// DatabaseConfig holds the state database location.
type DatabaseConfig struct {
	Path string `koanf:"path"` // empty means the xdg data dir
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" default:"info" validate:"oneof=trace debug info warn warning error off"`
	Output string `koanf:"output" default:"stderr" validate:"oneof=stdout stderr file"`
	File   string `koanf:"file"`
}

// GameplayConfig holds pause and dim behaviour.
type GameplayConfig struct {
	DimLevel  float64 `koanf:"dim_level" default:"0.8" validate:"gte=0,lte=1"`
	DimFadeMs int     `koanf:"dim_fade_ms" default:"800" validate:"gte=0,lte=10000"`
	TickRate  int     `koanf:"tick_rate" default:"60" validate:"gte=1,lte=1000"`
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given toml files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "parse %s", path)
			}
		}
	}

	// Defaults first so values explicitly set to zero in a file survive.
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.overrideFromEnv()

	cfg.Skin.FilesDir = expandPath(cfg.Skin.FilesDir)
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Output = strings.ToLower(cfg.Log.Output)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overrideFromEnv lets the environment (or a .env file) override paths and
// verbosity without touching the config file.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("RHYTHM_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("RHYTHM_FILES_DIR"); v != "" {
		c.Skin.FilesDir = v
	}
	if v := os.Getenv("RHYTHM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RHYTHM_SKIN"); v != "" {
		c.Skin.Current = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("skinref", func(fl validator.FieldLevel) bool {
		_, err := ParseSkinRef(fl.Field().String())
		return err == nil
	}); err != nil {
		return errors.Wrap(err, "register validators")
	}
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}

// ParseSkinRef resolves a skin reference: one of the built-in names or a
// skin ID. The empty string resolves to uuid.Nil.
func ParseSkinRef(ref string) (uuid.UUID, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "":
		return uuid.Nil, nil
	case "default":
		return skinning.DefaultSkinID, nil
	case "classic":
		return skinning.ClassicSkinID, nil
	case "random":
		return skinning.RandomSkinID, nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid skin %q", ref)
	}
	return id, nil
}

// CurrentSkinID returns the configured skin, or uuid.Nil when none is set.
func (c SkinConfig) CurrentSkinID() uuid.UUID {
	id, _ := ParseSkinRef(c.Current)
	return id
}

// BufferDuration is the speaker buffer length.
func (c AudioConfig) BufferDuration() time.Duration {
	return time.Duration(c.BufferMs) * time.Millisecond
}

// FadeDuration is how long the background takes to reach its target dim.
func (c GameplayConfig) FadeDuration() time.Duration {
	return time.Duration(c.DimFadeMs) * time.Millisecond
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/rhythm/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rhythm", "config.toml"))
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
