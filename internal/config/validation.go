package config

import (
	"fmt"
	"slices"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Interrupt validation
	if c.Interrupt.EscalationThresholdMs < 1 {
		errs = append(errs, "interrupt.escalation_threshold_ms must be >= 1")
	}

	// Provider validation
	if strings.TrimSpace(c.Provider.Model) == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.MaxIterations < 1 {
		errs = append(errs, "provider.max_iterations must be >= 1")
	}

	// Shell validation
	if strings.TrimSpace(c.Shell.Shell) == "" {
		errs = append(errs, "shell.shell must not be empty")
	}
	if c.Shell.MaxCommandOutputSize < 1 {
		errs = append(errs, "shell.max_command_output_size must be >= 1")
	}
	if c.Shell.TimeoutSeconds < 1 {
		errs = append(errs, "shell.timeout_seconds must be >= 1")
	}

	// Context validation
	if c.Context.MaxFileSize < 1 {
		errs = append(errs, "context.max_file_size must be >= 1")
	}
	if c.Context.EventBuffer < 0 {
		errs = append(errs, "context.event_buffer must be >= 0")
	}

	// Editor validation
	if c.Editor.Port < 0 || c.Editor.Port > 65535 {
		errs = append(errs, "editor.port must be between 0 and 65535")
	}
	if c.Editor.ReconnectIntervalMs < 1 {
		errs = append(errs, "editor.reconnect_interval_ms must be >= 1")
	}

	// Logging validation
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Sprintf("logging.level must be one of %v", validLogLevels))
	}
	if c.Logging.MaxSizeMB < 1 {
		errs = append(errs, "logging.max_size_mb must be >= 1")
	}
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, "logging.max_backups must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
