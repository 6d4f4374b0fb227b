// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/hg"
)

// Generated records one bundle variant that is relevant to the current
// run, whether it was freshly produced or found already on disk.
// Immutable once returned by Generate.
type Generated struct {
	Type      Type
	LocalPath string
	RemoteKey string
	Size      int64
}

// Generator produces bundle files for repositories by driving hg.
//
// Thread Safety: safe for concurrent use, but two generators (or two
// processes) working on the same repository are not coordinated.
type Generator struct {
	driver     hg.Driver
	bundleRoot string
	workers    int
	log        *slog.Logger
}

// NewGenerator creates a Generator writing bundle files under
// bundleRoot. workers bounds concurrent hg invocations; values below 1
// are treated as 1.
func NewGenerator(driver hg.Driver, bundleRoot string, workers int) *Generator {
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		driver:     driver,
		bundleRoot: bundleRoot,
		workers:    workers,
		log:        slog.Default(),
	}
}

// Dir returns the directory holding bundle files for a repository.
func (g *Generator) Dir(repo string) string {
	return filepath.Join(g.bundleRoot, repo)
}

// Prune creates the repository's bundle directory if needed and removes
// bundle files that do not belong to the given tip. Dotfiles are left
// alone. The previous run's files for an unchanged tip survive so they
// can be reused instead of regenerated.
func (g *Generator) Prune(repo, tip string) error {
	dir := g.Dir(repo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating bundle directory %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing bundle directory %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, tip) {
			continue
		}
		full := filepath.Join(dir, name)
		g.log.Info("removing old bundle file", "path", full)
		if err := os.Remove(full); err != nil {
			return fmt.Errorf("removing old bundle file %s: %w", full, err)
		}
	}
	return nil
}

// Generate produces every variant in specs for the repository named
// repo, living at repoPath, at revision tip. Variants whose file is
// already present are kept as-is, so re-running against an unchanged
// tip performs no hg invocations at all. Generation happens on a
// bounded worker pool; the first failure is returned after all workers
// settle.
//
// The returned slice covers every requested variant, with sizes taken
// from the files on disk.
func (g *Generator) Generate(ctx context.Context, repo, repoPath, tip string, specs []Spec) ([]Generated, error) {
	dir := g.Dir(repo)

	var out []Generated
	eg := new(errgroup.Group)
	eg.SetLimit(g.workers)

	for _, spec := range specs {
		local, remote := Paths(dir, repo, tip, spec.Type)
		out = append(out, Generated{Type: spec.Type, LocalPath: local, RemoteKey: remote})

		if _, err := os.Stat(local); err == nil {
			g.log.Info("bundle already exists, skipping", "path", local)
			continue
		}

		spec := spec
		// An aborted hg process may leave a partial file behind, which
		// would defeat the already-exists check on the next run. Write
		// to a temporary path and rename only once hg has finished.
		temp := local + ".tmp"
		eg.Go(func() error {
			if err := g.driver.CreateBundle(ctx, repoPath, temp, spec.Args); err != nil {
				g.log.Error("bundle generation failed",
					"repo", repo, "type", string(spec.Type), "error", err)
				return err
			}
			if err := os.Rename(temp, local); err != nil {
				return fmt.Errorf("publishing bundle %s: %w", local, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i := range out {
		fi, err := os.Stat(out[i].LocalPath)
		if err != nil {
			return nil, fmt.Errorf("measuring bundle %s: %w", out[i].LocalPath, err)
		}
		out[i].Size = fi.Size()
	}
	return out, nil
}
