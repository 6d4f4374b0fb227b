// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage adapts cloud object stores to the uniform capability
// the upload pipeline needs: existence checks, uploads, and expiration
// refreshes. Providers differ wildly in how each is spelled; every
// difference stays behind the Backend interface.
package storage

import "context"

// Backend is one replication target for bundle files.
//
// Thread Safety: implementations must be safe for concurrent use; the
// uploader fans out across backends and bundle variants at once.
type Backend interface {
	// Name identifies the backend in logs and errors, e.g. "s3:bucket".
	Name() string

	// Exists reports whether an object is present at key.
	Exists(ctx context.Context, key string) (bool, error)

	// Upload stores the file at localPath under key.
	Upload(ctx context.Context, localPath, key string) error

	// RefreshExpiration resets the object's lifecycle-expiration clock
	// without transferring content. Buckets expire objects a few days
	// after their last modification; an unchanged repository must not
	// lose its still-advertised bundles to that policy.
	RefreshExpiration(ctx context.Context, key string) error

	// PutData writes a small control document (manifest, index) under
	// key with the given content type and cache policy.
	PutData(ctx context.Context, key string, data []byte, contentType, cacheControl string) error
}
