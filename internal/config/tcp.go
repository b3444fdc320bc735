// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hsinghkalsi/ingestcore/internal/tcpsource"
	"github.com/hsinghkalsi/ingestcore/internal/tlsconfig"
)

// TCPDemoConfig is the YAML shape read by cmd/tcp-source-demo.
type TCPDemoConfig struct {
	TCP     TCPInfo     `yaml:"tcp"`
	Logging LoggingInfo `yaml:"logging"`
}

// TCPInfo mirrors tcpsource.Config at the YAML boundary.
type TCPInfo struct {
	// Address accepts "host:port", "systemd" or "systemd#N" (see
	// tcpsource.ParseAddress).
	Address string `yaml:"address"`

	ShutdownTimeoutSecs uint `yaml:"shutdown_timeout_secs"`

	KeepaliveIdleSecs     uint `yaml:"keepalive_idle_secs"`
	KeepaliveIntervalSecs uint `yaml:"keepalive_interval_secs"`
	KeepaliveRetries      int  `yaml:"keepalive_retries"`

	ReceiveBufferSize string `yaml:"receive_buffer_size"`
	SendBufferSize    string `yaml:"send_buffer_size"`

	// EventPerLine is a pointer so an omitted key is distinguishable from an
	// explicit false; ToTCPConfig only sets EventPerLineSet when non-nil,
	// preserving tcpsource.Config's true default.
	EventPerLine *bool `yaml:"event_per_line"`
	Compressed   bool  `yaml:"compressed"`

	MaxFrameLength string `yaml:"max_frame_length"`

	// DSCP names a DSCP code point ("EF", "AF41", "CS5") applied to accepted
	// connections. Empty disables it.
	DSCP string `yaml:"dscp"`

	TLS *TLSInfo `yaml:"tls"`
}

// TLSInfo mirrors tlsconfig.Config at the YAML boundary.
type TLSInfo struct {
	Enabled    bool   `yaml:"enabled"`
	CertPath   string `yaml:"cert_path"`
	KeyPath    string `yaml:"key_path"`
	CACertPath string `yaml:"ca_cert_path"`
}

// LoadTCPDemoConfig reads and validates path.
func LoadTCPDemoConfig(path string) (*TCPDemoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tcp demo config: %w", err)
	}

	var cfg TCPDemoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing tcp demo config: %w", err)
	}
	if cfg.TCP.Address == "" {
		return nil, fmt.Errorf("tcp.address is required")
	}

	cfg.Logging.Level = cfg.Logging.ResolveLevel()
	cfg.Logging.Format = cfg.Logging.ResolveFormat()

	return &cfg, nil
}

// ToTCPConfig converts the YAML shape into a tcpsource.Config.
func (c TCPDemoConfig) ToTCPConfig() (tcpsource.Config, error) {
	addr, err := tcpsource.ParseAddress(c.TCP.Address)
	if err != nil {
		return tcpsource.Config{}, fmt.Errorf("tcp.address: %w", err)
	}

	cfg := tcpsource.Config{
		Addr:            addr,
		ShutdownTimeout: time.Duration(c.TCP.ShutdownTimeoutSecs) * time.Second,
		Compressed:      c.TCP.Compressed,
		DSCP:            c.TCP.DSCP,
	}
	if c.TCP.EventPerLine != nil {
		cfg.EventPerLine = *c.TCP.EventPerLine
		cfg.EventPerLineSet = true
	}

	if c.TCP.KeepaliveIdleSecs > 0 || c.TCP.KeepaliveIntervalSecs > 0 || c.TCP.KeepaliveRetries > 0 {
		cfg.Keepalive = &tcpsource.KeepaliveConfig{
			Idle:     time.Duration(c.TCP.KeepaliveIdleSecs) * time.Second,
			Interval: time.Duration(c.TCP.KeepaliveIntervalSecs) * time.Second,
			Retries:  c.TCP.KeepaliveRetries,
		}
	}

	if c.TCP.ReceiveBufferSize != "" {
		n, err := ParseByteSize(c.TCP.ReceiveBufferSize)
		if err != nil {
			return tcpsource.Config{}, fmt.Errorf("tcp.receive_buffer_size: %w", err)
		}
		cfg.ReceiveBufferBytes = int(n)
	}
	if c.TCP.SendBufferSize != "" {
		n, err := ParseByteSize(c.TCP.SendBufferSize)
		if err != nil {
			return tcpsource.Config{}, fmt.Errorf("tcp.send_buffer_size: %w", err)
		}
		cfg.SendBufferBytes = int(n)
	}
	if c.TCP.MaxFrameLength != "" {
		n, err := ParseByteSize(c.TCP.MaxFrameLength)
		if err != nil {
			return tcpsource.Config{}, fmt.Errorf("tcp.max_frame_length: %w", err)
		}
		cfg.MaxFrameLength = int(n)
	}

	if c.TCP.TLS != nil {
		cfg.TLS = &tlsconfig.Config{
			Enabled:    c.TCP.TLS.Enabled,
			CertPath:   c.TCP.TLS.CertPath,
			KeyPath:    c.TCP.TLS.KeyPath,
			CACertPath: c.TCP.TLS.CACertPath,
		}
	}

	return cfg, nil
}
