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

import "sort"

// Type identifies one bundle variant.
type Type string

const (
	TypeGzipV2  Type = "gzip-v2"
	TypeZstd    Type = "zstd"
	TypeZstdMax Type = "zstd-max"
	TypePacked1 Type = "packed1"
)

// Spec describes how one bundle variant is generated and advertised.
type Spec struct {
	Type Type

	// Args is the hg argument vector producing this variant. The
	// destination path is appended as the final argument by the driver.
	Args []string

	// Params is the attribute string advertised for this variant in
	// clonebundles manifests.
	Params string

	// Rank orders manifest entries. Lower ranks are listed first and
	// preferred by compliant clients.
	Rank int
}

// Specs returns every bundle variant in generation order.
//
// zstd uses default compression settings and is reasonably fast.
// zstd-max uses the highest compression settings and is absurdly slow,
// but produces significantly smaller bundles. Level 20 (and not higher)
// is used because it is the largest level supported by the zstd library
// in 32-bit processes.
func Specs() []Spec {
	return []Spec{
		{
			Type:   TypeGzipV2,
			Args:   []string{"bundle", "-a", "-t", "gzip-v2"},
			Params: "BUNDLESPEC=gzip-v2",
			Rank:   2,
		},
		{
			Type:   TypeZstd,
			Args:   []string{"bundle", "-a", "-t", "zstd-v2"},
			Params: "BUNDLESPEC=zstd-v2",
			Rank:   1,
		},
		{
			Type: TypeZstdMax,
			Args: []string{"--config", "experimental.bundlecomplevel=20",
				"bundle", "-a", "-t", "zstd-v2"},
			Params: "BUNDLESPEC=zstd-v2",
			Rank:   0,
		},
		{
			Type:   TypePacked1,
			Args:   []string{"debugcreatestreamclonebundle"},
			Params: "BUNDLESPEC=none-packed1;requirements%3Dgeneraldelta%2Crevlogv1",
			Rank:   3,
		},
	}
}

// Required returns the variants generated in one run. zstd and zstd-max
// are redundant compression levels of the same algorithm, so exactly one
// of them is produced depending on zstdMax.
func Required(zstdMax bool) []Spec {
	var specs []Spec
	for _, s := range Specs() {
		if s.Type == TypeZstd && zstdMax {
			continue
		}
		if s.Type == TypeZstdMax && !zstdMax {
			continue
		}
		specs = append(specs, s)
	}
	return specs
}

// ManifestOrder returns every variant sorted by client preference.
func ManifestOrder() []Spec {
	specs := Specs()
	sort.Slice(specs, func(i, j int) bool { return specs[i].Rank < specs[j].Rank })
	return specs
}

// Artifact records where one generated bundle lives in remote storage.
type Artifact struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ResultSet maps every bundle variant produced for one repository to its
// remote artifact. Mirror repositories yield an empty set.
type ResultSet map[Type]Artifact
