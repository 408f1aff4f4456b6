// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// LoggedContext returns a context carrying a debug level text logger that
// writes into the returned buffer. Set GRIDBUILD_TEST_LOGS=true to also dump
// the captured output at the end of the test.
func LoggedContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("GRIDBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// WriteFiles writes files, keyed by slash separated relative path, under a
// fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
