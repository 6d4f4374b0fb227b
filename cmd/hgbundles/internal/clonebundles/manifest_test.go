// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package clonebundles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/config"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
)

func testConfig() *config.Config {
	return &config.Config{
		CDN: "https://cdn.example.net",
		S3: []config.S3Bucket{
			{Host: "s3-us-west-2.amazonaws.com", Bucket: "bundles-usw2", Region: "us-west-2"},
			{Host: "s3-eu-central-1.amazonaws.com", Bucket: "bundles-euc1", Region: "eu-central-1"},
		},
		GCS: []config.GCSBucket{
			{Bucket: "bundles-gcp-usc1", Region: "us-central1"},
		},
	}
}

func TestBuild_Ordering(t *testing.T) {
	lines := Build(testConfig(), "repo", "abc123",
		[]bundle.Type{bundle.TypeZstdMax, bundle.TypeGzipV2, bundle.TypePacked1})

	// 3 variants x (1 CDN + 2 S3 + 1 GCS) lines.
	require.Len(t, lines, 12)

	indexOf := func(substr string) int {
		for i, l := range lines {
			if strings.Contains(l, substr) {
				return i
			}
		}
		t.Fatalf("no manifest line contains %q", substr)
		return -1
	}

	// Variant blocks ordered by preference rank.
	assert.Less(t, indexOf("zstd-max.hg"), indexOf("gzip-v2.hg"))
	assert.Less(t, indexOf("gzip-v2.hg"), indexOf("packed1.hg"))

	// Within a variant: CDN first, S3 before GCS.
	assert.True(t, strings.HasPrefix(lines[0], "https://cdn.example.net/repo/abc123.zstd-max.hg"))
	assert.Contains(t, lines[0], "REQUIRESNI=true cdn=true")
	assert.Contains(t, lines[1], "ec2region=us-west-2")
	assert.Contains(t, lines[2], "ec2region=eu-central-1")
	assert.Contains(t, lines[3], "gceregion=us-central1")
	assert.True(t, strings.HasPrefix(lines[3], "https://storage.googleapis.com/"))
}

func TestBuild_OnlyGeneratedVariants(t *testing.T) {
	lines := Build(testConfig(), "repo", "abc123", []bundle.Type{bundle.TypeGzipV2})

	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Contains(t, l, "gzip-v2")
	}
}

func TestBuild_ParamsPerVariant(t *testing.T) {
	lines := Build(testConfig(), "repo", "abc123", []bundle.Type{bundle.TypePacked1})

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "BUNDLESPEC=none-packed1;requirements%3Dgeneraldelta%2Crevlogv1")
}

func newRepoDir(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".hg"), 0o755))
	return repo
}

func TestWrite_CreatesManifest(t *testing.T) {
	repo := newRepoDir(t)

	require.NoError(t, Write(repo, []string{"line one", "line two"}))

	data, err := os.ReadFile(filepath.Join(repo, ".hg", ManifestName))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(data))

	fi, err := os.Stat(filepath.Join(repo, ".hg", ManifestName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o664), fi.Mode().Perm())
}

func TestWrite_BacksUpPrevious(t *testing.T) {
	repo := newRepoDir(t)

	require.NoError(t, Write(repo, []string{"old"}))
	require.NoError(t, Write(repo, []string{"new"}))

	backup, err := os.ReadFile(filepath.Join(repo, ".hg", backupName))
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))

	current, err := os.ReadFile(filepath.Join(repo, ".hg", ManifestName))
	require.NoError(t, err)
	assert.Equal(t, "new", string(current))
}

func TestCopyFrom(t *testing.T) {
	source := newRepoDir(t)
	dest := newRepoDir(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(source, ".hg", ManifestName), []byte("canonical"), 0o664))
	require.NoError(t, os.WriteFile(
		filepath.Join(dest, ".hg", ManifestName), []byte("stale"), 0o664))

	require.NoError(t, CopyFrom(source, dest))

	copied, err := os.ReadFile(filepath.Join(dest, ".hg", ManifestName))
	require.NoError(t, err)
	assert.Equal(t, "canonical", string(copied))

	backup, err := os.ReadFile(filepath.Join(dest, ".hg", mirrorBackupName))
	require.NoError(t, err)
	assert.Equal(t, "stale", string(backup))
}

func TestCopyFrom_NoPreviousManifest(t *testing.T) {
	source := newRepoDir(t)
	dest := newRepoDir(t)

	require.NoError(t, os.WriteFile(
		filepath.Join(source, ".hg", ManifestName), []byte("canonical"), 0o664))

	require.NoError(t, CopyFrom(source, dest))

	_, err := os.Stat(filepath.Join(dest, ".hg", mirrorBackupName))
	assert.True(t, os.IsNotExist(err), "no backup should exist without a previous manifest")
}

func TestCopyFrom_MissingSource(t *testing.T) {
	source := newRepoDir(t)
	dest := newRepoDir(t)

	assert.Error(t, CopyFrom(source, dest))
}
