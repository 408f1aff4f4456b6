// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Info("expanded", "task", "build")
	assert.Contains(t, buf.String(), "task=build")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
