package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "aiterm"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// LogFile is the default log file name under ~/.local/state/aiterm
	LogFile = "aiterm.log"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads configuration from ~/.config/aiterm/config.json
// and merges it with defaults. Dotfile values override defaults.
// Returns default config if dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load() (*Config, error) {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil // Use defaults if can't get home dir
	}
	return l.LoadFrom(filepath.Join(homeDir, ".config", ConfigDir, ConfigFile))
}

// LoadFrom reads configuration from an explicit path. A missing file yields
// defaults, same as Load.
//
// NOTE: JSON keys are unmarshalled directly over the default configuration,
// so explicit zero values (e.g., 0, false, "") in the file override defaults.
func (l *Loader) LoadFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err // Return error for permission issues
		}
		data = nil
	}

	if data != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err // Return error for malformed JSON
		}
	}

	if cfg.Logging.File == "" {
		if homeDir, err := l.fs.UserHomeDir(); err == nil {
			cfg.Logging.File = filepath.Join(homeDir, ".local", "state", ConfigDir, LogFile)
		} else {
			cfg.Logging.File = filepath.Join(os.TempDir(), LogFile)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
