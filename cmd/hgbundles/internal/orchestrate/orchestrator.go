// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package orchestrate drives the full bundle pipeline: per-repository
// generation and replication, then fleet-wide manifest publication.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/config"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/clonebundles"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/hg"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/index"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/upload"
)

// Orchestrator processes repositories one at a time and publishes the
// aggregated discovery artifacts at the end of a fully successful run.
type Orchestrator struct {
	cfg    *config.Config
	driver hg.Driver
	gen    *bundle.Generator
	pub    *upload.Publisher
	upload bool
	log    *slog.Logger
}

// New wires an Orchestrator. uploadEnabled false skips every network
// operation, which keeps local testing and dry runs credential-free.
func New(cfg *config.Config, driver hg.Driver, gen *bundle.Generator, pub *upload.Publisher, uploadEnabled bool) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		driver: driver,
		gen:    gen,
		pub:    pub,
		upload: uploadEnabled,
		log:    slog.Default(),
	}
}

// Process runs one repository to completion and returns its bundle
// artifacts. Mirror tasks copy the source manifest, trigger replication
// and return an empty set.
func (o *Orchestrator) Process(ctx context.Context, task Task) (bundle.ResultSet, error) {
	if task.CopyFrom != "" {
		return o.processMirror(ctx, task)
	}

	repoPath := o.cfg.RepoPath(task.Repo)

	// The tip observed here names every bundle file for this run.
	// Commits landing between this query and bundle creation sneak
	// into the bundles unnamed; bundles are best-effort seeds, not
	// exact snapshots, so that is acceptable.
	tip, err := o.driver.TipRevision(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	o.log.Info("tip", "repo", task.Repo, "node", tip)

	ok, err := hg.HasGeneralDelta(repoPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", hg.ErrNotGeneralDelta, repoPath)
	}

	if err := o.gen.Prune(task.Repo, tip); err != nil {
		return nil, err
	}

	generated, err := o.gen.Generate(ctx, task.Repo, repoPath, tip, bundle.Required(task.ZstdMax))
	if err != nil {
		return nil, err
	}

	if o.upload {
		if err := o.pub.PublishAll(ctx, generated); err != nil {
			return nil, err
		}
	}

	types := make([]bundle.Type, 0, len(generated))
	for _, g := range generated {
		types = append(types, g.Type)
	}
	lines := clonebundles.Build(o.cfg, task.Repo, tip, types)
	if err := clonebundles.Write(repoPath, lines); err != nil {
		return nil, err
	}

	if err := o.driver.ReplicateSync(ctx, repoPath); err != nil {
		return nil, err
	}

	result := make(bundle.ResultSet, len(generated))
	for _, g := range generated {
		result[g.Type] = bundle.Artifact{Path: g.RemoteKey, Size: g.Size}
	}
	return result, nil
}

func (o *Orchestrator) processMirror(ctx context.Context, task Task) (bundle.ResultSet, error) {
	source := o.cfg.RepoPath(task.CopyFrom)
	dest := o.cfg.RepoPath(task.Repo)

	if err := clonebundles.CopyFrom(source, dest); err != nil {
		return nil, err
	}
	if err := o.driver.ReplicateSync(ctx, dest); err != nil {
		return nil, err
	}
	return bundle.ResultSet{}, nil
}

// Run processes every task, then publishes the fleet index, the JSON
// summary, and finally the lastrun marker. The first repository failure
// aborts the run; artifacts for repositories already processed stay as
// written, but no fleet-wide manifest is published.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) error {
	results := make(map[string]bundle.ResultSet, len(tasks))
	for _, task := range tasks {
		rs, err := o.Process(ctx, task)
		if err != nil {
			return fmt.Errorf("processing %s: %w", task.Repo, err)
		}
		results[task.Repo] = rs
	}

	html, err := index.BuildHTML(results, time.Now())
	if err != nil {
		return err
	}
	jsonData, err := index.BuildJSON(results)
	if err != nil {
		return err
	}

	if err := index.WriteLocal(o.cfg.BundleRoot, index.HTMLName, []byte(html)); err != nil {
		return err
	}
	if err := index.WriteLocal(o.cfg.BundleRoot, index.JSONName, jsonData); err != nil {
		return err
	}

	if o.upload {
		if err := o.pub.PutDataAll(ctx, index.HTMLName, []byte(html), "text/html"); err != nil {
			return err
		}
		if err := o.pub.PutDataAll(ctx, index.JSONName, jsonData, "application/json"); err != nil {
			return err
		}
	}

	return index.TouchLastRun(o.cfg.BundleRoot, time.Now())
}
