// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS replicates bundles into one GCS bucket.
type GCS struct {
	client *gstorage.Client
	bucket string
	region string
}

var _ Backend = (*GCS)(nil)

// NewGCS builds a GCS backend for the given bucket. credentialsFile may
// be empty, in which case application default credentials are used.
func NewGCS(ctx context.Context, bucket, region, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s. Please ensure you have the correct key and it is accessible", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, region: region}, nil
}

func (b *GCS) Name() string {
	return "gcs:" + b.bucket
}

func (b *GCS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.Bucket(b.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s:%s: %w", b.bucket, key, err)
	}
	return true, nil
}

// RefreshExpiration places a temporary event-based hold on the object
// and releases it again. Releasing a hold restarts the object's
// retention clock, which keeps the bucket's expiration policy from
// deleting a still-advertised bundle.
func (b *GCS) RefreshExpiration(ctx context.Context, key string) error {
	obj := b.client.Bucket(b.bucket).Object(key)
	if _, err := obj.Update(ctx, gstorage.ObjectAttrsToUpdate{EventBasedHold: true}); err != nil {
		return fmt.Errorf("placing hold on %s:%s: %w", b.bucket, key, err)
	}
	if _, err := obj.Update(ctx, gstorage.ObjectAttrsToUpdate{EventBasedHold: false}); err != nil {
		return fmt.Errorf("releasing hold on %s:%s: %w", b.bucket, key, err)
	}
	return nil
}

func (b *GCS) Upload(ctx context.Context, localPath, key string) error {
	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open the local file: %s: %w", localPath, err)
	}
	defer localFile.Close()

	writer := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = "application/octet-stream"

	if _, err := io.Copy(writer, localFile); err != nil {
		return fmt.Errorf("failed to copy local file %s to GCS object %s: %w", localPath, key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}
	return nil
}

func (b *GCS) PutData(ctx context.Context, key string, data []byte, contentType, cacheControl string) error {
	writer := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = cacheControl

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("writing %s:%s: %w", b.bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}
	return nil
}
