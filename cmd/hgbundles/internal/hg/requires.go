// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotGeneralDelta is returned for repositories whose storage format
// lacks the generaldelta requirement. Modern bundle generation cannot
// work against such repositories, and the condition is not recoverable
// at runtime; it requires a repository upgrade.
var ErrNotGeneralDelta = errors.New("non-generaldelta repo not supported")

// HasGeneralDelta reports whether the repository's storage format
// carries the generaldelta requirement. The check reads the
// .hg/requires control file directly rather than invoking hg.
func HasGeneralDelta(repoPath string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, ".hg", "requires"))
	if err != nil {
		return false, fmt.Errorf("reading requires of %s: %w", repoPath, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "generaldelta" {
			return true, nil
		}
	}
	return false, nil
}
