// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/storage"
)

// controlCacheControl keeps CDNs from caching manifests indefinitely.
// Bundle objects themselves are immutable and need no such policy.
const controlCacheControl = "max-age=60"

// Publisher replicates bundle files and control documents to a set of
// storage backends.
//
// Thread Safety: safe for concurrent use.
type Publisher struct {
	backends []storage.Backend
	policy   Policy
	workers  int
	log      *slog.Logger

	// sleep is swapped out in tests so the fixed retry delay does not
	// actually elapse.
	sleep func(time.Duration)
}

// NewPublisher creates a Publisher over the given backends. workers
// bounds concurrent publish operations; values below 1 are treated
// as 1.
func NewPublisher(backends []storage.Backend, policy Policy, workers int) *Publisher {
	if workers < 1 {
		workers = 1
	}
	return &Publisher{
		backends: backends,
		policy:   policy,
		workers:  workers,
		log:      slog.Default(),
		sleep:    time.Sleep,
	}
}

// Publish makes the file at localPath available at key on one backend.
// An object already present is not re-uploaded; its expiration clock is
// refreshed instead. Transient network failures are retried on the
// publisher's policy; any other failure propagates immediately.
func (p *Publisher) Publish(ctx context.Context, b storage.Backend, localPath, key string) error {
	for attempt := 1; attempt <= p.policy.Attempts; attempt++ {
		err := p.publishOnce(ctx, b, localPath, key)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		p.log.Warn("publish failed",
			"backend", b.Name(), "key", key, "attempt", attempt, "error", err)
		if attempt < p.policy.Attempts {
			p.sleep(p.policy.Delay)
		}
	}
	return &ExhaustedError{Backend: b.Name(), Key: key, Attempts: p.policy.Attempts}
}

func (p *Publisher) publishOnce(ctx context.Context, b storage.Backend, localPath, key string) error {
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return err
	}

	if exists {
		p.log.Info("resetting expiration time", "backend", b.Name(), "key", key)
		if err := b.RefreshExpiration(ctx, key); err != nil {
			return err
		}
		p.log.Info("expiration time reset", "backend", b.Name(), "key", key)
		return nil
	}

	p.log.Info("uploading", "backend", b.Name(), "key", key, "from", localPath)
	if err := b.Upload(ctx, localPath, key); err != nil {
		return err
	}
	p.log.Info("uploading completed", "backend", b.Name(), "key", key)
	return nil
}

// PublishAll replicates every bundle to every backend on the bounded
// worker pool. All pairs run to completion; the first failure is
// returned after the pool settles.
func (p *Publisher) PublishAll(ctx context.Context, bundles []bundle.Generated) error {
	eg := new(errgroup.Group)
	eg.SetLimit(p.workers)

	for _, b := range p.backends {
		for _, gen := range bundles {
			eg.Go(func() error {
				return p.Publish(ctx, b, gen.LocalPath, gen.RemoteKey)
			})
		}
	}
	return eg.Wait()
}

// PutDataAll writes a control document to every backend.
func (p *Publisher) PutDataAll(ctx context.Context, key string, data []byte, contentType string) error {
	for _, b := range p.backends {
		if err := b.PutData(ctx, key, data, contentType, controlCacheControl); err != nil {
			return fmt.Errorf("publishing %s to %s: %w", key, b.Name(), err)
		}
	}
	return nil
}
