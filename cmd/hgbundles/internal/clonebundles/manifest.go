// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package clonebundles assembles and persists the per-repository
// manifest that Mercurial clients consult when seeding a clone. Line
// order is significant: clients walk the list top to bottom and take
// the first bundle they can handle.
package clonebundles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/config"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
)

// ManifestName is the clonebundles control file inside .hg.
const ManifestName = "clonebundles.manifest"

const (
	// backupName preserves the previous manifest across a rewrite.
	backupName = "clonebundles.manifest.old"

	// mirrorBackupName preserves the previous manifest of a mirror
	// repository before the source's manifest is copied over it.
	mirrorBackupName = "clonebundles.manifest.last"
)

// Build assembles the manifest lines for one repository. Variants are
// listed by preference rank; within a variant the CDN-fronted URL comes
// first, then every S3 bucket, then every GCS bucket. S3 precedes GCS
// for cost reasons. Only variants actually present in generated are
// listed.
func Build(cfg *config.Config, repo, tip string, generated []bundle.Type) []string {
	present := make(map[bundle.Type]bool, len(generated))
	for _, t := range generated {
		present[t] = true
	}

	var lines []string
	for _, spec := range bundle.ManifestOrder() {
		if !present[spec.Type] {
			continue
		}
		remote := bundle.RemoteKey(repo, tip, spec.Type)

		lines = append(lines, fmt.Sprintf("%s/%s %s REQUIRESNI=true cdn=true",
			cfg.CDN, remote, spec.Params))

		for _, b := range cfg.S3 {
			lines = append(lines, fmt.Sprintf("https://%s/%s/%s %s ec2region=%s",
				b.Host, b.Bucket, remote, spec.Params, b.Region))
		}
		for _, b := range cfg.GCS {
			lines = append(lines, fmt.Sprintf("%s/%s/%s %s gceregion=%s",
				config.GCSEndpoint, b.Bucket, remote, spec.Params, b.Region))
		}
	}
	return lines
}

// Write persists manifest lines into the repository's .hg directory,
// preserving whatever manifest was there before as a backup. The file
// is written 0664 so the repository group can rewrite it.
func Write(repoPath string, lines []string) error {
	manifest := filepath.Join(repoPath, ".hg", ManifestName)
	backup := filepath.Join(repoPath, ".hg", backupName)

	if _, err := os.Stat(manifest); err == nil {
		slog.Info("backing up manifest", "from", manifest, "to", backup)
		if err := copyFile(manifest, backup); err != nil {
			return fmt.Errorf("backing up manifest: %w", err)
		}
	}

	if err := os.WriteFile(manifest, []byte(strings.Join(lines, "\n")), 0o664); err != nil {
		return fmt.Errorf("writing manifest %s: %w", manifest, err)
	}
	// WriteFile mode is filtered through the umask.
	if err := os.Chmod(manifest, 0o664); err != nil {
		return fmt.Errorf("setting manifest mode: %w", err)
	}
	return nil
}

// CopyFrom installs the source repository's manifest onto a mirror
// repository. The mirror's previous manifest, if any, is backed up
// first.
//
// The backup is taken before the copy is known to succeed; a failed
// copy leaves the stale manifest in place with its backup already
// overwritten. The window is narrow and the manifest is regenerated on
// the next run, so the ordering is kept as-is.
func CopyFrom(sourceRepoPath, destRepoPath string) error {
	source := filepath.Join(sourceRepoPath, ".hg", ManifestName)
	dest := filepath.Join(destRepoPath, ".hg", ManifestName)
	backup := filepath.Join(destRepoPath, ".hg", mirrorBackupName)

	if _, err := os.Stat(dest); err == nil {
		slog.Info("backing up manifest", "from", dest, "to", backup)
		if err := copyFile(dest, backup); err != nil {
			return fmt.Errorf("backing up mirror manifest: %w", err)
		}
	}

	slog.Info("copying manifest", "from", source, "to", dest)
	if err := copyFile(source, dest); err != nil {
		return fmt.Errorf("copying manifest from %s: %w", source, err)
	}
	return nil
}

// copyFile copies contents and preserves mode and timestamps.
func copyFile(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, fi.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
