// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hsinghkalsi/ingestcore/internal/execsource"
	"github.com/hsinghkalsi/ingestcore/internal/tcpsource"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestParseByteSizeSuffixes(t *testing.T) {
	cases := map[string]int64{
		"0":    0,
		"512":  512,
		"1kb":  1024,
		"4mb":  4 * 1024 * 1024,
		"2gb":  2 * 1024 * 1024 * 1024,
		"10b":  10,
	}
	for in, want := range cases {
		got, err := ParseByteSize(in)
		if err != nil {
			t.Fatalf("ParseByteSize(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseByteSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseByteSizeInvalid(t *testing.T) {
	if _, err := ParseByteSize("not-a-size"); err == nil {
		t.Fatal("expected error for invalid size string")
	}
}

func TestLoadExecDemoConfigScheduled(t *testing.T) {
	path := writeTempConfig(t, `
exec:
  mode: scheduled
  command: ["/bin/echo", "hi"]
  exec_interval_secs: 30
logging:
  level: debug
`)
	cfg, err := LoadExecDemoConfig(path)
	if err != nil {
		t.Fatalf("LoadExecDemoConfig: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	execCfg, err := cfg.ToExecConfig()
	if err != nil {
		t.Fatalf("ToExecConfig: %v", err)
	}
	if execCfg.Mode != execsource.ModeScheduled {
		t.Errorf("Mode = %v, want ModeScheduled", execCfg.Mode)
	}
	if execCfg.Scheduled.Interval().Seconds() != 30 {
		t.Errorf("Interval = %v, want 30s", execCfg.Scheduled.Interval())
	}
	if !execCfg.IncludeStderrResolved() {
		t.Error("IncludeStderrResolved() = false, want true when include_stderr is omitted from YAML")
	}
	if !execCfg.EventPerLineResolved() {
		t.Error("EventPerLineResolved() = false, want true when event_per_line is omitted from YAML")
	}
}

func TestLoadExecDemoConfigExplicitFalseOverridesDefault(t *testing.T) {
	path := writeTempConfig(t, `
exec:
  mode: scheduled
  command: ["/bin/echo", "hi"]
  include_stderr: false
  event_per_line: false
`)
	cfg, err := LoadExecDemoConfig(path)
	if err != nil {
		t.Fatalf("LoadExecDemoConfig: %v", err)
	}
	execCfg, err := cfg.ToExecConfig()
	if err != nil {
		t.Fatalf("ToExecConfig: %v", err)
	}
	if execCfg.IncludeStderrResolved() {
		t.Error("IncludeStderrResolved() = true, want false when include_stderr: false is explicit in YAML")
	}
	if execCfg.EventPerLineResolved() {
		t.Error("EventPerLineResolved() = true, want false when event_per_line: false is explicit in YAML")
	}
}

func TestLoadExecDemoConfigStreaming(t *testing.T) {
	path := writeTempConfig(t, `
exec:
  mode: streaming
  command: ["/bin/cat"]
  respawn_on_exit: false
`)
	cfg, err := LoadExecDemoConfig(path)
	if err != nil {
		t.Fatalf("LoadExecDemoConfig: %v", err)
	}
	execCfg, err := cfg.ToExecConfig()
	if err != nil {
		t.Fatalf("ToExecConfig: %v", err)
	}
	if execCfg.Mode != execsource.ModeStreaming {
		t.Errorf("Mode = %v, want ModeStreaming", execCfg.Mode)
	}
	if execCfg.Streaming.ShouldRespawn() {
		t.Errorf("ShouldRespawn() = true, want false")
	}
}

func TestToExecConfigRejectsEmptyCommand(t *testing.T) {
	cfg := ExecDemoConfig{Exec: ExecInfo{Mode: "scheduled"}}
	if _, err := cfg.ToExecConfig(); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestToExecConfigRejectsUnknownMode(t *testing.T) {
	cfg := ExecDemoConfig{Exec: ExecInfo{Mode: "bogus", Command: []string{"/bin/true"}}}
	if _, err := cfg.ToExecConfig(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoadTCPDemoConfigSocket(t *testing.T) {
	path := writeTempConfig(t, `
tcp:
  address: "127.0.0.1:9000"
  shutdown_timeout_secs: 10
  max_frame_length: "2mb"
`)
	cfg, err := LoadTCPDemoConfig(path)
	if err != nil {
		t.Fatalf("LoadTCPDemoConfig: %v", err)
	}
	tcpCfg, err := cfg.ToTCPConfig()
	if err != nil {
		t.Fatalf("ToTCPConfig: %v", err)
	}
	if tcpCfg.Addr.Kind != tcpsource.AddressKindSocket {
		t.Errorf("Addr.Kind = %v, want AddressKindSocket", tcpCfg.Addr.Kind)
	}
	if tcpCfg.MaxFrameLengthResolved() != 2*1024*1024 {
		t.Errorf("MaxFrameLengthResolved() = %d, want 2mb", tcpCfg.MaxFrameLengthResolved())
	}
	if !tcpCfg.EventPerLineResolved() {
		t.Error("EventPerLineResolved() = false, want true when event_per_line is omitted from YAML")
	}
}

func TestLoadTCPDemoConfigExplicitFalseOverridesDefault(t *testing.T) {
	path := writeTempConfig(t, `
tcp:
  address: "127.0.0.1:9001"
  event_per_line: false
`)
	cfg, err := LoadTCPDemoConfig(path)
	if err != nil {
		t.Fatalf("LoadTCPDemoConfig: %v", err)
	}
	tcpCfg, err := cfg.ToTCPConfig()
	if err != nil {
		t.Fatalf("ToTCPConfig: %v", err)
	}
	if tcpCfg.EventPerLineResolved() {
		t.Error("EventPerLineResolved() = true, want false when event_per_line: false is explicit in YAML")
	}
}

func TestLoadTCPDemoConfigRequiresAddress(t *testing.T) {
	path := writeTempConfig(t, `
tcp:
  address: ""
`)
	if _, err := LoadTCPDemoConfig(path); err == nil {
		t.Fatal("expected error for missing tcp.address")
	}
}

func TestToTCPConfigWithTLS(t *testing.T) {
	cfg := TCPDemoConfig{
		TCP: TCPInfo{
			Address: "systemd#1",
			TLS: &TLSInfo{
				Enabled:    true,
				CertPath:   "/tmp/cert.pem",
				KeyPath:    "/tmp/key.pem",
				CACertPath: "/tmp/ca.pem",
			},
		},
	}
	tcpCfg, err := cfg.ToTCPConfig()
	if err != nil {
		t.Fatalf("ToTCPConfig: %v", err)
	}
	if tcpCfg.TLS == nil || !tcpCfg.TLS.Enabled {
		t.Fatal("expected TLS config carried through")
	}
	if tcpCfg.Addr.Kind != tcpsource.AddressKindFD || tcpCfg.Addr.FDOffset != 0 {
		t.Fatalf("Addr = %+v, want FD offset 0", tcpCfg.Addr)
	}
}
