// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors for task parsing.
var (
	// ErrAbsolutePath is returned when a repository spec names an
	// absolute path. All repository paths are resolved against the
	// configured root; absolute paths would escape it.
	ErrAbsolutePath = errors.New("repository path must be relative")

	// ErrUnknownOption is returned for unrecognized keys in a
	// repository spec. Unknown keys fail fast instead of being
	// silently dropped.
	ErrUnknownOption = errors.New("unknown repository option")
)

// Task describes one repository to process.
type Task struct {
	// Repo is the repository path, relative to the repository root.
	Repo string

	// CopyFrom switches the task to mirror mode: the clonebundles
	// manifest of this source repository is copied over instead of
	// generating any bundles.
	CopyFrom string

	// ZstdMax selects maximum zstd compression over the default level.
	ZstdMax bool
}

// ParseTask parses one repository specification of the form
//
//	path [copyfrom=<source>] [zstd_max]
func ParseTask(spec string) (Task, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return Task{}, errors.New("empty repository specification")
	}

	task := Task{Repo: fields[0]}
	if filepath.IsAbs(task.Repo) {
		return Task{}, fmt.Errorf("%w: %s", ErrAbsolutePath, task.Repo)
	}

	for _, field := range fields[1:] {
		key, value, _ := strings.Cut(field, "=")
		switch key {
		case "copyfrom":
			if value == "" {
				return Task{}, fmt.Errorf("copyfrom requires a source repository in %q", spec)
			}
			if filepath.IsAbs(value) {
				return Task{}, fmt.Errorf("%w: %s", ErrAbsolutePath, value)
			}
			task.CopyFrom = value
		case "zstd_max":
			task.ZstdMax = true
		default:
			return Task{}, fmt.Errorf("%w: %q in %q", ErrUnknownOption, key, spec)
		}
	}
	return task, nil
}

// ParseTasks parses a list of repository specifications, skipping blank
// entries.
func ParseTasks(specs []string) ([]Task, error) {
	var tasks []Task
	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		task, err := ParseTask(spec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
