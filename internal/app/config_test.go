// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, &Config{BuildPath: ".", LogLevel: "info", LogFormat: "text"}, cfg)

	testCases := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{name: "bad level", cfg: Config{LogLevel: "trace"}, wantErr: []string{`invalid log level "trace"`}},
		{name: "bad format", cfg: Config{LogFormat: "xml"}, wantErr: []string{`invalid log format "xml"`}},
		{name: "bad filter", cfg: Config{TaskFilter: "[a"}, wantErr: []string{`invalid task filter "[a"`}},
		{
			name:    "all reported",
			cfg:     Config{LogLevel: "loud", LogFormat: "xml"},
			wantErr: []string{"invalid log level", "invalid log format"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = newLogger("nonsense", "text", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
