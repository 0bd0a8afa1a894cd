// Package settings persists the tool's durable configuration as a
// JSON file: cache and output locations plus per-job defaults.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/modelcat"
)

// ErrConfig marks a malformed settings file. Fatal at startup.
var ErrConfig = errors.New("config error")

type Settings struct {
	CacheDir       string `mapstructure:"cache_dir" json:"cache_dir"`
	OutputDir      string `mapstructure:"output_dir" json:"output_dir"`
	DefaultQuality int    `mapstructure:"default_quality" json:"default_quality"`
	DefaultModelID string `mapstructure:"default_model_id" json:"default_model_id"`
}

func Default() Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Settings{
		CacheDir:       filepath.Join(home, ".voice_cloning_cache"),
		OutputDir:      filepath.Join(home, "VoiceCloneOutput"),
		DefaultQuality: job.DefaultQuality,
		DefaultModelID: modelcat.DefaultModelID,
	}
}

// Normalize clamps out-of-range values back to defaults instead of
// failing, so a hand-edited file cannot wedge startup.
func Normalize(s Settings) Settings {
	def := Default()
	if s.CacheDir == "" {
		s.CacheDir = def.CacheDir
	}
	if s.OutputDir == "" {
		s.OutputDir = def.OutputDir
	}
	if s.DefaultQuality < job.MinQuality || s.DefaultQuality > job.MaxQuality {
		s.DefaultQuality = def.DefaultQuality
	}
	if s.DefaultModelID == "" {
		s.DefaultModelID = def.DefaultModelID
	}
	return s
}

// Store reads and writes one settings file. Last write wins; this is a
// single-user tool.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the settings file inside the default output dir,
// next to generated audio and history.
func DefaultPath() string {
	return filepath.Join(Default().OutputDir, "settings.json")
}

// Load reads settings from disk. A missing file yields defaults; a
// malformed one is an ErrConfig.
func (s *Store) Load() (Settings, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("%w: failed to read %s: %v", ErrConfig, s.path, err)
	}

	var out Settings
	if err := v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("%w: failed to parse %s: %v", ErrConfig, s.path, err)
	}
	return Normalize(out), nil
}

// Save writes settings as JSON, creating parent directories.
func (s *Store) Save(cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("cache_dir", cfg.CacheDir)
	v.Set("output_dir", cfg.OutputDir)
	v.Set("default_quality", cfg.DefaultQuality)
	v.Set("default_model_id", cfg.DefaultModelID)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
