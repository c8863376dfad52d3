package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Interrupt InterruptConfig `json:"interrupt"`
	Provider  ProviderConfig  `json:"provider"`
	Shell     ShellConfig     `json:"shell"`
	Context   ContextConfig   `json:"context"`
	Editor    EditorConfig    `json:"editor"`
	Logging   LoggingConfig   `json:"logging"`
}

type InterruptConfig struct {
	// Two interrupts closer together than this exit the session.
	EscalationThresholdMs int `json:"escalation_threshold_ms"` // Default: 1000
}

type ProviderConfig struct {
	Model         string `json:"model"`          // Default: gemini-2.5-flash
	SystemPrompt  string `json:"system_prompt"`  // Default: "You are an assistant!"
	MaxIterations int    `json:"max_iterations"` // Default: 20
}

type ShellConfig struct {
	Shell                string `json:"shell"`                   // Default: zsh
	MaxCommandOutputSize int64  `json:"max_command_output_size"` // Default: 10 * 1024 * 1024 (10MB)
	TimeoutSeconds       int    `json:"timeout_seconds"`         // Default: 600 (10 minutes)
}

type ContextConfig struct {
	MaxFileSize int64 `json:"max_file_size"` // Default: 20 * 1024 * 1024 (20MB)
	EventBuffer int   `json:"event_buffer"`  // Default: 64
}

type EditorConfig struct {
	// Port of the editor extension server; 0 disables the bridge.
	Port                int `json:"port"`                  // Default: 0
	ReconnectIntervalMs int `json:"reconnect_interval_ms"` // Default: 2000
}

type LoggingConfig struct {
	File       string `json:"file"`        // Default: ~/.local/state/aiterm/aiterm.log (resolved at load)
	Level      string `json:"level"`       // Default: info
	MaxSizeMB  int    `json:"max_size_mb"` // Default: 10
	MaxBackups int    `json:"max_backups"` // Default: 3
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Interrupt: InterruptConfig{
			EscalationThresholdMs: 1000,
		},
		Provider: ProviderConfig{
			Model:         "gemini-2.5-flash",
			SystemPrompt:  "You are an assistant!",
			MaxIterations: 20,
		},
		Shell: ShellConfig{
			Shell:                "zsh",
			MaxCommandOutputSize: 10 * 1024 * 1024,
			TimeoutSeconds:       600,
		},
		Context: ContextConfig{
			MaxFileSize: 20 * 1024 * 1024,
			EventBuffer: 64,
		},
		Editor: EditorConfig{
			Port:                0,
			ReconnectIntervalMs: 2000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
