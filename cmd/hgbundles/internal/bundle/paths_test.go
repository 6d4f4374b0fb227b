// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bundle

import "testing"

func TestPaths_Deterministic(t *testing.T) {
	l1, r1 := Paths("/bundles/repo", "repo", "abc123", TypeGzipV2)
	l2, r2 := Paths("/bundles/repo", "repo", "abc123", TypeGzipV2)

	if l1 != l2 || r1 != r2 {
		t.Fatalf("identical inputs produced different outputs: %s/%s vs %s/%s", l1, r1, l2, r2)
	}
	if l1 != "/bundles/repo/abc123.gzip-v2.hg" {
		t.Errorf("unexpected local path: %s", l1)
	}
	if r1 != "repo/abc123.gzip-v2.hg" {
		t.Errorf("unexpected remote key: %s", r1)
	}
}

func TestPaths_InjectiveAcrossTypes(t *testing.T) {
	types := []Type{TypeGzipV2, TypeZstd, TypeZstdMax, TypePacked1}

	locals := make(map[string]Type)
	remotes := make(map[string]Type)
	for _, typ := range types {
		local, remote := Paths("/bundles/r", "r", "deadbeef", typ)
		if prev, ok := locals[local]; ok {
			t.Errorf("types %s and %s collide on local path %s", prev, typ, local)
		}
		if prev, ok := remotes[remote]; ok {
			t.Errorf("types %s and %s collide on remote key %s", prev, typ, remote)
		}
		locals[local] = typ
		remotes[remote] = typ
	}
}

func TestPaths_NestedRepo(t *testing.T) {
	_, remote := Paths("/bundles/releases/beta", "releases/beta", "abc", TypeZstd)
	if remote != "releases/beta/abc.zstd.hg" {
		t.Errorf("unexpected remote key for nested repo: %s", remote)
	}
}
