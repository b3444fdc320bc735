// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hsinghkalsi/ingestcore/internal/execsource"
)

// ExecDemoConfig is the YAML shape read by cmd/exec-source-demo.
type ExecDemoConfig struct {
	Exec    ExecInfo    `yaml:"exec"`
	Logging LoggingInfo `yaml:"logging"`
}

// ExecInfo mirrors execsource.Config at the YAML boundary.
type ExecInfo struct {
	Mode    string   `yaml:"mode"` // "scheduled" | "streaming"
	Command []string `yaml:"command"`

	WorkingDirectory string            `yaml:"working_directory"`
	Environment      map[string]string `yaml:"environment"`
	ClearEnvironment bool              `yaml:"clear_environment"`

	// IncludeStderr and EventPerLine are pointers so a key omitted from the
	// YAML document is distinguishable from one explicitly set to false;
	// ToExecConfig only sets the matching *Set flag when the pointer is
	// non-nil, preserving execsource.Config's true defaults.
	IncludeStderr *bool `yaml:"include_stderr"`
	EventPerLine  *bool `yaml:"event_per_line"`

	MaximumBufferSize string `yaml:"maximum_buffer_size"` // e.g. "1mb"

	ExecIntervalSecs uint   `yaml:"exec_interval_secs"`
	CronSchedule     string `yaml:"cron_schedule"`

	RespawnOnExit       *bool `yaml:"respawn_on_exit"`
	RespawnIntervalSecs uint  `yaml:"respawn_interval_secs"`
}

// LoadExecDemoConfig reads path and applies the logging defaults; the exec
// settings are validated by ToExecConfig.
func LoadExecDemoConfig(path string) (*ExecDemoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exec demo config: %w", err)
	}

	var cfg ExecDemoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing exec demo config: %w", err)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = cfg.Logging.ResolveLevel()
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = cfg.Logging.ResolveFormat()
	}

	return &cfg, nil
}

// ToExecConfig converts the YAML shape into an execsource.Config, which
// performs its own Validate().
func (c ExecDemoConfig) ToExecConfig() (execsource.Config, error) {
	cfg := execsource.Config{
		Command:          c.Exec.Command,
		WorkingDirectory: c.Exec.WorkingDirectory,
		Environment:      c.Exec.Environment,
		ClearEnvironment: c.Exec.ClearEnvironment,
	}

	if c.Exec.IncludeStderr != nil {
		cfg.IncludeStderr = *c.Exec.IncludeStderr
		cfg.IncludeStderrSet = true
	}
	if c.Exec.EventPerLine != nil {
		cfg.EventPerLine = *c.Exec.EventPerLine
		cfg.EventPerLineSet = true
	}

	if c.Exec.MaximumBufferSize != "" {
		n, err := ParseByteSize(c.Exec.MaximumBufferSize)
		if err != nil {
			return execsource.Config{}, fmt.Errorf("exec.maximum_buffer_size: %w", err)
		}
		cfg.MaximumBufferSizeBytes = uint(n)
		cfg.MaximumBufferSizeBytesSet = true
	}

	switch c.Exec.Mode {
	case "", "scheduled":
		cfg.Mode = execsource.ModeScheduled
		cfg.Scheduled = execsource.ScheduledConfig{
			ExecIntervalSecs: c.Exec.ExecIntervalSecs,
			CronSchedule:     c.Exec.CronSchedule,
		}
	case "streaming":
		cfg.Mode = execsource.ModeStreaming
		cfg.Streaming = execsource.StreamingConfig{
			RespawnIntervalSecs: c.Exec.RespawnIntervalSecs,
		}
		if c.Exec.RespawnOnExit != nil {
			cfg.Streaming.RespawnOnExit = *c.Exec.RespawnOnExit
			cfg.Streaming.RespawnOnExitSet = true
		}
	default:
		return execsource.Config{}, fmt.Errorf("exec.mode must be \"scheduled\" or \"streaming\", got %q", c.Exec.Mode)
	}

	if err := cfg.Validate(); err != nil {
		return execsource.Config{}, err
	}
	return cfg, nil
}
