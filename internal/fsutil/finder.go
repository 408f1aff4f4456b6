// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// skippedDirs are never descended into while searching for build files.
var skippedDirs = []string{"node_modules", "target", "vendor"}

// FindFilesByExtension recursively searches root for files ending with
// extension and returns their paths in lexical order. root may also name a
// single file. Hidden directories and dependency trees such as node_modules
// are skipped below root.
func FindFilesByExtension(root string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isSkipped(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

func isSkipped(name string) bool {
	return (strings.HasPrefix(name, ".") && name != ".") || slices.Contains(skippedDirs, name)
}
