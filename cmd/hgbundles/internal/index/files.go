// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// HTMLName is the fleet index document, local and remote.
	HTMLName = "index.html"

	// JSONName is the machine-readable summary, local and remote.
	JSONName = "bundles.json"

	lastRunName = "lastrun"
)

// WriteLocal places a discovery artifact under the bundle root.
func WriteLocal(bundleRoot, name string, data []byte) error {
	path := filepath.Join(bundleRoot, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// TouchLastRun records the completion time of a fully successful run.
// External monitoring alerts on the age of this file, so it must only
// be written once everything else has succeeded.
func TouchLastRun(bundleRoot string, now time.Time) error {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000000") + "Z\n"
	path := filepath.Join(bundleRoot, lastRunName)
	if err := os.WriteFile(path, []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
