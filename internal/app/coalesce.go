// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/gridbuild/internal/coalesce"
	"github.com/specialistvlad/gridbuild/internal/unit"
	"gopkg.in/yaml.v3"
)

// BatchFile is one tick's input to a category coalescer, as written by an
// orchestrator. JSON files are accepted too since JSON is valid YAML.
type BatchFile struct {
	Category string             `json:"category" yaml:"category"`
	Batch    []coalesce.Request `json:"batch" yaml:"batch"`
	Running  []coalesce.Request `json:"running,omitempty" yaml:"running,omitempty"`
}

// ReadBatchFile reads and validates a batch file from path.
func ReadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	bf, err := DecodeBatchFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("batch file %s: %w", path, err)
	}
	return bf, nil
}

// DecodeBatchFile decodes and validates a batch file. Unknown fields are
// rejected.
func DecodeBatchFile(r io.Reader) (*BatchFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var bf BatchFile
	if err := dec.Decode(&bf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("batch file is empty")
		}
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	if err := bf.Validate(); err != nil {
		return nil, err
	}
	return &bf, nil
}

// Validate checks that the category is set and that ids are unique across
// the batch and the running set.
func (bf *BatchFile) Validate() error {
	var errs []error
	if bf.Category == "" {
		errs = append(errs, errors.New("category must not be empty"))
	}
	seen := make(map[unit.ID]string)
	check := func(where string, reqs []coalesce.Request) {
		for _, r := range reqs {
			if prev, ok := seen[r.ID]; ok {
				errs = append(errs, fmt.Errorf("id %d in %s is already used in %s", r.ID, where, prev))
				continue
			}
			seen[r.ID] = where
			if r.Run == "" {
				errs = append(errs, fmt.Errorf("id %d in %s has an empty run", r.ID, where))
			}
		}
	}
	check("batch", bf.Batch)
	check("running", bf.Running)
	return errors.Join(errs...)
}

// Coalesce asks the category's coalescer for this tick's decision.
func (a *App) Coalesce(ctx context.Context, bf *BatchFile) coalesce.Decision {
	return a.dispatcher.Tick(a.Context(ctx), bf.Category, bf.Batch, bf.Running)
}
