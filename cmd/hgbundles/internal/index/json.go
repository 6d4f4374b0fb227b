// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package index

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
)

// BuildJSON renders the machine-readable fleet summary: repository ->
// bundle type -> {path, size}. Keys are sorted and the document is
// indented with four spaces so successive runs diff cleanly. Mirror
// repositories (empty result sets) are omitted.
func BuildJSON(results map[string]bundle.ResultSet) ([]byte, error) {
	out := make(map[string]bundle.ResultSet, len(results))
	for repo, rs := range results {
		if len(rs) == 0 {
			continue
		}
		out[repo] = rs
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding bundle summary: %w", err)
	}
	return data, nil
}

func sortedKeys(m map[string]bundle.ResultSet) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
