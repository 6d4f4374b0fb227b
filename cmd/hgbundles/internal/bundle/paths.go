// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bundle

import (
	"fmt"
	"path/filepath"
)

// Basename returns the file name of a bundle variant. Bundle files are
// named after the tip revision at the time the bundle was created, which
// makes staleness trivially visible from the name alone.
func Basename(tip string, typ Type) string {
	return fmt.Sprintf("%s.%s.hg", tip, typ)
}

// RemoteKey returns the object-storage key for a bundle variant. Keys
// are prefixed with the repository name so bucket contents are easy to
// attribute to a repository.
func RemoteKey(repo, tip string, typ Type) string {
	return repo + "/" + Basename(tip, typ)
}

// Paths resolves the local file path and remote storage key for one
// bundle variant. The same inputs always yield the same outputs; both
// generation and manifest assembly rely on recomputing these.
func Paths(root, repo, tip string, typ Type) (localPath, remoteKey string) {
	return filepath.Join(root, Basename(tip, typ)), RemoteKey(repo, tip, typ)
}
