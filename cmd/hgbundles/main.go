// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/config"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/hg"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/orchestrate"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/storage"
	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/upload"
	"github.com/AleutianAI/hgbundles/pkg/logging"
)

func main() {
	slog.SetDefault(logging.Default().Slog())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Errors past this point are operational, not usage mistakes.
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logger, err := logging.New(logging.Config{Level: level, LogDir: logDir})
	if err != nil {
		return err
	}
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	specs, err := loadSpecs(args)
	if err != nil {
		return err
	}
	tasks, err := orchestrate.ParseTasks(specs)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("no repositories given; pass specs or -f <file>")
	}

	var backends []storage.Backend
	if !noUpload {
		backends, err = buildBackends(ctx, cfg)
		if err != nil {
			return err
		}
	}

	driver := &hg.ExecDriver{HG: cfg.HG}
	gen := bundle.NewGenerator(driver, cfg.BundleRoot, cfg.Concurrency)
	pub := upload.NewPublisher(backends, upload.DefaultPolicy(), cfg.Concurrency)

	orch := orchestrate.New(cfg, driver, gen, pub, !noUpload)
	return orch.Run(ctx, tasks)
}

// loadSpecs returns repository specifications either from the -f file
// (one per line) or from the trailing CLI arguments.
func loadSpecs(args []string) ([]string, error) {
	if repoFile == "" {
		return args, nil
	}

	f, err := os.Open(repoFile)
	if err != nil {
		return nil, fmt.Errorf("reading repository list: %w", err)
	}
	defer f.Close()

	var specs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		specs = append(specs, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading repository list: %w", err)
	}
	return specs, nil
}

// buildBackends constructs every configured storage backend. S3 buckets
// come first so the uploader's fan-out order matches manifest order.
func buildBackends(ctx context.Context, cfg *config.Config) ([]storage.Backend, error) {
	var backends []storage.Backend
	for _, b := range cfg.S3 {
		s, err := storage.NewS3(ctx, b.Bucket, b.Region)
		if err != nil {
			return nil, err
		}
		backends = append(backends, s)
	}
	for _, b := range cfg.GCS {
		g, err := storage.NewGCS(ctx, b.Bucket, b.Region, cfg.GCSCredentials)
		if err != nil {
			return nil, err
		}
		backends = append(backends, g)
	}
	return backends, nil
}
