package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

const testConfigPath = "/home/user/.config/aiterm/config.json"

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Interrupt.EscalationThresholdMs)
	assert.Equal(t, "zsh", cfg.Shell.Shell)
	assert.Equal(t, int64(20*1024*1024), cfg.Context.MaxFileSize)
	assert.Equal(t, "/home/user/.local/state/aiterm/aiterm.log", cfg.Logging.File)
}

func TestLoad_FullOverride_AllValuesReplaced(t *testing.T) {
	configJSON := `{
		"interrupt": {"escalation_threshold_ms": 250},
		"provider": {"model": "gemini-2.5-pro", "system_prompt": "Be terse.", "max_iterations": 5},
		"shell": {"shell": "bash", "max_command_output_size": 1024, "timeout_seconds": 30},
		"context": {"max_file_size": 2048, "event_buffer": 8},
		"editor": {"port": 7777, "reconnect_interval_ms": 500},
		"logging": {"file": "/tmp/ai.log", "level": "debug", "max_size_mb": 1, "max_backups": 0}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Interrupt.EscalationThresholdMs)
	assert.Equal(t, "gemini-2.5-pro", cfg.Provider.Model)
	assert.Equal(t, "Be terse.", cfg.Provider.SystemPrompt)
	assert.Equal(t, "bash", cfg.Shell.Shell)
	assert.Equal(t, int64(2048), cfg.Context.MaxFileSize)
	assert.Equal(t, 7777, cfg.Editor.Port)
	assert.Equal(t, "/tmp/ai.log", cfg.Logging.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	configJSON := `{"shell": {"shell": "bash"}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "bash", cfg.Shell.Shell)                             // Overridden
	assert.Equal(t, 600, cfg.Shell.TimeoutSeconds)                       // Default
	assert.Equal(t, int64(10*1024*1024), cfg.Shell.MaxCommandOutputSize) // Default
	assert.Equal(t, 1000, cfg.Interrupt.EscalationThresholdMs)           // Default
}

func TestLoadFrom_ExplicitPath(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/etc/aiterm.json": []byte(`{"editor": {"port": 9000}}`),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.LoadFrom("/etc/aiterm.json")

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Editor.Port)
}

// --- UNHAPPY PATH TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(`{invalid json`),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDirErr: errors.New("homeless"),
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Interrupt.EscalationThresholdMs)
}

func TestLoad_WrongJSONType_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(`["not", "an", "object"]`),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// --- EDGE CASE TESTS ---

func TestLoad_ZeroValueExplicit_OverridesAndFailsValidation(t *testing.T) {
	// Explicit zero replaces the default, then validation rejects it
	configJSON := `{"interrupt": {"escalation_threshold_ms": 0}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "escalation_threshold_ms")
}

func TestLoad_EditorPortZero_Disabled(t *testing.T) {
	configJSON := `{"editor": {"port": 0}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Editor.Port)
}

func TestLoad_UnknownFields_Ignored(t *testing.T) {
	configJSON := `{"shell": {"timeout_seconds": 60}, "unknown_field": "ignored"}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			testConfigPath: []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Shell.TimeoutSeconds)
}

// --- DEFAULT CONFIG TESTS ---

func TestDefaultConfig_AllFieldsInitialized(t *testing.T) {
	cfg := DefaultConfig()

	assert.Greater(t, cfg.Interrupt.EscalationThresholdMs, 0)
	assert.Greater(t, cfg.Provider.MaxIterations, 0)
	assert.Greater(t, cfg.Context.MaxFileSize, int64(0))
	assert.NotEmpty(t, cfg.Provider.Model)
}
