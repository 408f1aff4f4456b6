// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package testutil

import (
	"path/filepath"
	"testing"
)

// WriteBuildFile writes a single build file named build.hcl into a temporary
// directory and returns the file's path.
func WriteBuildFile(t *testing.T, content string) string {
	t.Helper()

	dir := WriteFiles(t, map[string]string{"build.hcl": content})
	return filepath.Join(dir, "build.hcl")
}
