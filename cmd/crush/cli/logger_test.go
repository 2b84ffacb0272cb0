// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		format   string
		terminal bool
		wantJSON bool
	}{
		{LogFormatAuto, true, false},
		{LogFormatAuto, false, true},
		{"", false, true},
		{LogFormatText, false, false},
		{LogFormatJSON, true, true},
	}
	for _, test := range tests {
		var output bytes.Buffer
		logger, err := newLogger(&output, slog.LevelInfo, test.format, test.terminal)
		if err != nil {
			t.Fatalf("newLogger(%q) error: %v", test.format, err)
		}
		logger.Info("stage finished", "stage", 1)

		var decoded map[string]any
		isJSON := json.Unmarshal(output.Bytes(), &decoded) == nil
		if isJSON != test.wantJSON {
			t.Errorf("newLogger(%q, terminal=%v) wrote %q, want JSON=%v", test.format, test.terminal, output.String(), test.wantJSON)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	var output bytes.Buffer
	logger, err := newLogger(&output, slog.LevelWarn, LogFormatText, false)
	if err != nil {
		t.Fatalf("newLogger() error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(output.String(), "hidden") || !strings.Contains(output.String(), "shown") {
		t.Errorf("log = %q, want only the warning", output.String())
	}
}

func TestNewLogger_UnknownFormat(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, slog.LevelInfo, "xml", false); err == nil {
		t.Error("newLogger(xml) succeeded, want an error")
	}
}
