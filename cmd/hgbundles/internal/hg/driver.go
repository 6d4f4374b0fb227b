// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hg wraps the Mercurial binary behind a small driver interface
// so the pipeline can be tested without a working hg installation.
package hg

import "context"

// Driver exposes the three Mercurial operations the bundle pipeline
// depends on. All three are synchronous and either fully succeed or
// fail; there is no partial-success state to interpret.
//
// Thread Safety: implementations must be safe for concurrent use. The
// generator invokes CreateBundle from multiple workers at once.
type Driver interface {
	// CreateBundle writes a bundle of the repository at repoPath to
	// destPath using the given argument vector.
	CreateBundle(ctx context.Context, repoPath, destPath string, args []string) error

	// TipRevision returns the node hash of the repository tip. The
	// value is stable for the duration of the query, but commits may
	// land immediately afterwards; callers tolerate that race.
	TipRevision(ctx context.Context, repoPath string) (string, error)

	// ReplicateSync pushes the repository's control metadata to its
	// mirrors.
	ReplicateSync(ctx context.Context, repoPath string) error
}
