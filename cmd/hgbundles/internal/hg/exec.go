// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExecDriver runs a Mercurial binary as a subprocess.
type ExecDriver struct {
	// HG is the path of the hg executable.
	HG string
}

var _ Driver = (*ExecDriver)(nil)

func (d *ExecDriver) CreateBundle(ctx context.Context, repoPath, destPath string, args []string) error {
	// Replication hooks must not fire while producing bundles; the
	// bundle is a read-only artifact, not a repository mutation.
	argv := []string{"--config", "extensions.vcsreplicator=!", "-R", repoPath}
	argv = append(argv, args...)
	argv = append(argv, destPath)

	cmd := exec.CommandContext(ctx, d.HG, argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hg %s on %s: %w", strings.Join(args, " "), repoPath, err)
	}
	return nil
}

func (d *ExecDriver) TipRevision(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, d.HG, "-R", repoPath, "log", "-r", "tip", "-T", "{node}")
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("querying tip of %s: %w", repoPath, err)
	}
	tip := strings.TrimSpace(string(out))
	if tip == "" {
		return "", fmt.Errorf("empty tip revision for %s", repoPath)
	}
	return tip, nil
}

func (d *ExecDriver) ReplicateSync(ctx context.Context, repoPath string) error {
	cmd := exec.CommandContext(ctx, d.HG, "replicatesync")
	cmd.Dir = repoPath
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hg replicatesync in %s: %w", repoPath, err)
	}
	return nil
}
