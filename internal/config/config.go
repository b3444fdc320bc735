// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package config loads the YAML configuration for the demo binaries under
// cmd/. The ingestion cores themselves (internal/execsource,
// internal/tcpsource) take plain Go structs; this package is only the file
// format the demo mains read those structs from.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// LoggingInfo controls the demo binaries' logger construction.
type LoggingInfo struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ResolveLevel applies the "info" default.
func (l LoggingInfo) ResolveLevel() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

// ResolveFormat applies the "json" default.
func (l LoggingInfo) ResolveFormat() string {
	if l.Format == "" {
		return "json"
	}
	return l.Format
}

// ParseByteSize converts human-readable sizes ("256mb", "1gb") to bytes.
// Longest suffix first so "mb" is never matched as a bare "b".
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	type suffix struct {
		s string
		m int64
	}
	suffixes := []suffix{
		{"gb", 1024 * 1024 * 1024},
		{"mb", 1024 * 1024},
		{"kb", 1024},
		{"b", 1},
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.s) {
			numStr := strings.TrimSuffix(s, sfx.s)
			num, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid number %q: %w", numStr, err)
			}
			return num * sfx.m, nil
		}
	}

	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown size format %q", s)
	}
	return num, nil
}
