// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package index builds the fleet-wide discovery artifacts: a
// human-readable HTML table, a machine-readable JSON summary, and the
// lastrun staleness marker.
package index

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AleutianAI/hgbundles/cmd/hgbundles/internal/bundle"
)

// columnOrder fixes the table columns of the HTML index.
var columnOrder = []bundle.Type{
	bundle.TypeZstd,
	bundle.TypeZstdMax,
	bundle.TypeGzipV2,
	bundle.TypePacked1,
}

const indexHTML = `<html>
  <head>
    <title>Mercurial Bundles</title>
    <style>
      .numeric {
        text-align: right;
        font-variant-numeric: tabular-nums;
      }
    </style>
  </head>
  <body>
    <h1>Mercurial Bundles</h1>
    <p>
       This server contains Mercurial bundle files that can be used to seed
       repository clones. If your Mercurial client is configured properly,
       it should fetch one of these bundles automatically.
    </p>
    <p>
      The table below lists all available repositories and their bundles.
      Only the most recent bundle is shown. Previous bundles are expired 7 days
      after they are superseded.
    </p>
    <p>
      A <a href="bundles.json">JSON document</a> exposes a machine-readable
      representation of this data.
    </p>
    <p>
      <strong>
        Mercurial 4.1 or newer is required to unbundle zstd.
        Please use gzip or stream for older versions.
      </strong>
    </p>
    <table border="1">
      <tr>
        <th>Repository</th>
        <th>zstd</th>
        <th>zstd (max)</th>
        <th>gzip (v2)</th>
        <th>stream</th>
      </tr>
{{- range .Rows}}
      <tr>
        <td>{{.Repo}}</td>
{{- range .Cells}}
        <td class="numeric">{{if .Path}}<a href="{{.Path}}">{{.Size}}</a>{{else}}-{{end}}</td>
{{- end}}
      </tr>
{{- end}}
    </table>
    <p>This page generated at {{.Generated}}.</p>
  </body>
</html>`

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexRow struct {
	Repo  string
	Cells []indexCell
}

type indexCell struct {
	Path string
	Size string
}

type indexData struct {
	Rows      []indexRow
	Generated string
}

// BuildHTML renders the fleet index page. Repositories without a
// gzip-v2 bundle are skipped; a missing gzip-v2 means the repository
// mirrors another one and generated nothing itself.
func BuildHTML(results map[string]bundle.ResultSet, now time.Time) (string, error) {
	data := indexData{Generated: now.UTC().Format("2006-01-02T15:04:05.000000")}

	for _, repo := range sortedKeys(results) {
		rs := results[repo]
		if _, ok := rs[bundle.TypeGzipV2]; !ok {
			continue
		}

		row := indexRow{Repo: repo}
		for _, typ := range columnOrder {
			var cell indexCell
			if a, ok := rs[typ]; ok {
				cell = indexCell{Path: a.Path, Size: humanize.Comma(a.Size)}
			}
			row.Cells = append(row.Cells, cell)
		}
		data.Rows = append(data.Rows, row)
	}

	var sb strings.Builder
	if err := indexTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering index: %w", err)
	}
	return sb.String(), nil
}
