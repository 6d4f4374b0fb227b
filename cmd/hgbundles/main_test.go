// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSpecs_FromArgs(t *testing.T) {
	repoFile = ""
	specs, err := loadSpecs([]string{"repo-a", "repo-b zstd_max"})
	if err != nil {
		t.Fatalf("loadSpecs failed: %v", err)
	}
	if len(specs) != 2 || specs[1] != "repo-b zstd_max" {
		t.Errorf("unexpected specs: %v", specs)
	}
}

func TestLoadSpecs_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos")
	if err := os.WriteFile(path, []byte("repo-a\nrepo-b copyfrom=repo-a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	repoFile = path
	defer func() { repoFile = "" }()

	specs, err := loadSpecs(nil)
	if err != nil {
		t.Fatalf("loadSpecs failed: %v", err)
	}
	if len(specs) != 2 || specs[1] != "repo-b copyfrom=repo-a" {
		t.Errorf("unexpected specs: %v", specs)
	}
}

func TestLoadSpecs_MissingFile(t *testing.T) {
	repoFile = filepath.Join(t.TempDir(), "absent")
	defer func() { repoFile = "" }()

	if _, err := loadSpecs(nil); err == nil {
		t.Error("expected error for missing repository list")
	}
}
