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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	repoFile   string
	noUpload   bool
	logDir     string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "hgbundles [repository spec...]",
		Short: "Generate and replicate Mercurial clone bundles",
		Long: `hgbundles produces clone bundle files for a set of Mercurial
repositories, replicates them to the configured S3 and GCS buckets, and
publishes the clonebundles manifests clients use to pick a bundle.

Each repository spec is a relative path optionally followed by options:

    mozilla-central zstd_max
    releases/mozilla-beta copyfrom=mozilla-central`,
		RunE: runGenerate,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&repoFile, "file", "f", "",
		"file to read the repository list from")
	rootCmd.Flags().BoolVar(&noUpload, "no-upload", false,
		"do not upload to storage backends (useful for testing)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path of the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"directory for per-day JSON log files (stderr only when unset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"emit debug-level log messages")
}
