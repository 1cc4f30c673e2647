// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders the standard set of comparison charts for an
// aggregate benchmark table as PNG files.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

// A Style is the kind of a chart.
type Style int

const (
	// Bar groups bars by dataset, one colored bar per model.
	Bar Style = iota
	// Heatmap shows the model × dataset pivot of a column,
	// annotated with each cell's value.
	Heatmap
	// Scatter plots one column against another, colored by model
	// with one glyph shape per dataset.
	Scatter
)

// A Spec describes one chart.
type Spec struct {
	File  string
	Style Style
	Title string

	// Y is the charted column. For scatters, X is the column on
	// the horizontal axis.
	X, Y string

	XLabel, YLabel string
}

// Standard is the fixed chart set.
var Standard = []Spec{
	{File: "avg_latency_comparison.png", Style: Bar, Y: report.Average,
		Title: "Average Latency Comparison (ms)", YLabel: "Latency (ms)"},
	{File: "hit_rate_comparison.png", Style: Bar, Y: report.HitRate,
		Title: "Hit Rate Comparison (%)", YLabel: "Hit Rate (%)"},
	{File: "p99_latency_comparison.png", Style: Bar, Y: report.P99,
		Title: "P99 Latency Comparison (ms)", YLabel: "Latency (ms)"},
	{File: "avg_latency_heatmap.png", Style: Heatmap, Y: report.Average,
		Title: "Heatmap: Average Latency Across Models & Datasets"},
	{File: "index_memory_kb_comparison.png", Style: Bar, Y: report.IndexMemKB,
		Title: "Index Memory Usage (KB) by Model and Dataset", YLabel: "Memory (KB)"},
	{File: "index_memory_mb_comparison.png", Style: Bar, Y: report.IndexMemMB,
		Title: "Index Memory Usage (MB) by Model and Dataset", YLabel: "Memory (MB)"},
	{File: "index_memory_heatmap.png", Style: Heatmap, Y: report.IndexMemKB,
		Title: "Heatmap: Index Memory (KB) Across Models & Datasets"},
	{File: "index_build_time_comparison.png", Style: Bar, Y: report.IndexBuildMs,
		Title: "Index Build Time (ms) by Model and Dataset", YLabel: "Index Build Time (ms)"},
	{File: "latency_vs_memory_scatter.png", Style: Scatter, X: report.IndexMemKB, Y: report.Average,
		Title: "Average Latency vs Index Memory (KB)", XLabel: "Index Memory (KB)", YLabel: "Average Latency (ms)"},
	{File: "latency_vs_build_time_scatter.png", Style: Scatter, X: report.IndexBuildMs, Y: report.Average,
		Title: "Average Latency vs Index Build Time (ms)", XLabel: "Index Build Time (ms)", YLabel: "Average Latency (ms)"},
}

// A Battery renders a set of charts into a directory.
type Battery struct {
	Dir    string
	Charts []Spec // nil means Standard

	// Width and Height default to 30cm × 15cm; DPI defaults to 100.
	Width, Height vg.Length
	DPI           int

	// Progress, if non-nil, receives a "Saved <file>" line for
	// every chart written.
	Progress io.Writer
	Logger   *slog.Logger
}

// A SkipError explains why a chart was not rendered.
type SkipError struct {
	File   string
	Column string
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("%s: column %s %s", e.File, e.Column, e.Reason)
}

// Render draws every chart for t and returns the paths of the files
// written, in order.
//
// A chart whose columns are not in t or have no present values is
// skipped and logged. Render stops at the first other error; a
// *aggtable.PivotAmbiguityError means t has duplicate keys and nothing
// more can be charted.
func (b *Battery) Render(t *aggtable.Table) ([]string, error) {
	charts := b.Charts
	if charts == nil {
		charts = Standard
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(b.Dir, 0777); err != nil {
		return nil, err
	}

	var written []string
	for _, spec := range charts {
		pl, err := b.plot(t, spec)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				logger.Warn("skipping chart", "file", skip.File, "column", skip.Column, "reason", skip.Reason)
				continue
			}
			return written, err
		}
		path := filepath.Join(b.Dir, spec.File)
		if err := b.save(pl, path); err != nil {
			return written, err
		}
		written = append(written, path)
		if b.Progress != nil {
			fmt.Fprintf(b.Progress, "Saved %s\n", path)
		}
	}
	return written, nil
}

func (b *Battery) plot(t *aggtable.Table, spec Spec) (*plot.Plot, error) {
	cols := []string{spec.Y}
	if spec.Style == Scatter {
		cols = append(cols, spec.X)
	}
	for _, col := range cols {
		c, ok := t.Column(col)
		if !ok {
			return nil, &SkipError{spec.File, col, "not in table"}
		}
		if !anyPresent(t, c) {
			return nil, &SkipError{spec.File, col, "has no values"}
		}
	}

	pl := plot.New()
	pl.Title.Text = spec.Title
	pl.X.Label.Text = spec.XLabel
	pl.Y.Label.Text = spec.YLabel

	var err error
	switch spec.Style {
	case Bar:
		err = bars(pl, t, spec.Y)
	case Heatmap:
		err = heatmap(pl, t, spec.Y)
	case Scatter:
		err = scatter(pl, t, spec.X, spec.Y)
	default:
		err = fmt.Errorf("%s: unknown chart style %d", spec.File, spec.Style)
	}
	if err != nil {
		return nil, err
	}
	return pl, nil
}

func anyPresent(t *aggtable.Table, col int) bool {
	for _, r := range t.Rows {
		if r.Values[col].Present {
			return true
		}
	}
	return false
}

func (b *Battery) save(pl *plot.Plot, path string) (err error) {
	width, height, dpi := b.Width, b.Height, b.DPI
	if width == 0 {
		width = 30 * vg.Centimeter
	}
	if height == 0 {
		height = 15 * vg.Centimeter
	}
	if dpi == 0 {
		dpi = 100
	}

	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := can.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
