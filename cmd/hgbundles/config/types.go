// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import "path/filepath"

// GCSEndpoint fronts every GCS bucket. Unlike S3, GCS exposes a single
// global endpoint regardless of bucket location.
const GCSEndpoint = "https://storage.googleapis.com"

// Config is the full run configuration. It is constructed once by Load
// and passed explicitly into the orchestrator and uploader; nothing in
// this package mutates it afterwards.
type Config struct {
	// HG is the path of the Mercurial executable driving bundle
	// generation and replication sync.
	HG string `yaml:"hg"`

	// RepositoryRoot is the directory all repository paths are
	// resolved against. Repository specs are always relative.
	RepositoryRoot string `yaml:"repository_root"`

	// BundleRoot is where bundle files, the HTML index, the JSON
	// summary and the lastrun marker are written.
	BundleRoot string `yaml:"bundle_root"`

	// CDN is the URL prefix of the CDN fronting the storage buckets.
	// It produces the first (most preferred) manifest line per variant.
	CDN string `yaml:"cdn"`

	// Concurrency bounds the worker pool shared by bundle generation
	// and uploads. The SINGLE_THREADED environment variable forces it
	// to 1 so tests see deterministic ordering.
	Concurrency int `yaml:"concurrency"`

	// GCSCredentials optionally points at a service account key file.
	// When empty, application default credentials are used.
	GCSCredentials string `yaml:"gcs_credentials,omitempty"`

	// S3 lists the S3 buckets bundles replicate to, in manifest order.
	S3 []S3Bucket `yaml:"s3"`

	// GCS lists the GCS buckets bundles replicate to, in manifest
	// order. S3 buckets always precede GCS buckets in manifests.
	GCS []GCSBucket `yaml:"gcs"`
}

// S3Bucket identifies one S3 replication target.
type S3Bucket struct {
	// Host is the regional endpoint, e.g. s3-us-west-2.amazonaws.com.
	Host   string `yaml:"host"`
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// GCSBucket identifies one GCS replication target.
type GCSBucket struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// RepoPath resolves a relative repository spec against the repository
// root.
func (c *Config) RepoPath(repo string) string {
	return filepath.Join(c.RepositoryRoot, repo)
}

// Default returns the stock configuration. Bucket lists mirror the
// production replication fleet; region order matters because it defines
// manifest mirror order and us-west-2 is listed before us-west-1 since
// it is cheaper.
func Default() *Config {
	return &Config{
		HG:             "/var/hg/venv_bundles/bin/hg",
		RepositoryRoot: "/repo/hg/repos",
		BundleRoot:     "/repo/hg/bundles",
		CDN:            "https://hg-bundles.cdn.aleutian.ai",
		Concurrency:    4,
		S3: []S3Bucket{
			{Host: "s3-us-west-2.amazonaws.com", Bucket: "hg-bundles-us-west-2", Region: "us-west-2"},
			{Host: "s3-us-west-1.amazonaws.com", Bucket: "hg-bundles-us-west-1", Region: "us-west-1"},
			{Host: "s3-us-east-2.amazonaws.com", Bucket: "hg-bundles-us-east-2", Region: "us-east-2"},
			{Host: "s3-external-1.amazonaws.com", Bucket: "hg-bundles-us-east-1", Region: "us-east-1"},
			{Host: "s3-eu-central-1.amazonaws.com", Bucket: "hg-bundles-eu-central-1", Region: "eu-central-1"},
		},
		GCS: []GCSBucket{
			{Bucket: "hg-bundles-gcp-us-central1", Region: "us-central1"},
		},
	}
}
