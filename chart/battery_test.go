// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func fullTable(t *testing.T) *aggtable.Table {
	t.Helper()
	var units []*aggtable.Unit
	i := 0.0
	for _, m := range []string{"btree", "learned_linear", "learned_poly"} {
		for _, d := range []string{"linear", "poly", "random"} {
			i++
			units = append(units, &aggtable.Unit{
				Key: aggtable.Key{Model: m, Dataset: d},
				Fields: report.Fields{
					report.Average:      report.FloatValue(0.1 * i),
					report.P99:          report.FloatValue(0.3 * i),
					report.IndexMemKB:   report.FloatValue(64 * i),
					report.IndexMemMB:   report.FloatValue(64 * i / 1024),
					report.IndexBuildMs: report.FloatValue(2.5 * i),
					report.Hits:         report.IntValue(1000 - int64(i)),
					report.HitRate:      report.FloatValue(100 - i/10),
				},
			})
		}
	}
	// One hole, which every chart must tolerate.
	units[4].Fields[report.Average] = report.Value{}
	tab, err := aggtable.Build(units)
	require.NoError(t, err)
	return tab
}

func testBattery(dir string, progress, logs *bytes.Buffer) *Battery {
	b := &Battery{
		Dir:    dir,
		Width:  8 * vg.Centimeter,
		Height: 6 * vg.Centimeter,
		DPI:    40,
		Logger: slog.New(slog.NewTextHandler(logs, nil)),
	}
	if progress != nil {
		b.Progress = progress
	}
	return b
}

func TestRenderStandard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	var progress, logs bytes.Buffer
	written, err := testBattery(dir, &progress, &logs).Render(fullTable(t))
	require.NoError(t, err)
	require.Len(t, written, len(Standard))

	for i, spec := range Standard {
		path := filepath.Join(dir, spec.File)
		assert.Equal(t, path, written[i])
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", spec.File)
		assert.Contains(t, progress.String(), "Saved "+path+"\n")
	}
	assert.Empty(t, logs.String())
}

func TestRenderSkips(t *testing.T) {
	units := []*aggtable.Unit{
		{Key: aggtable.Key{Model: "a", Dataset: "x"}, Fields: report.Fields{
			report.Average: report.FloatValue(1), report.IndexMemKB: report.FloatValue(10), report.HitRate: {},
		}},
		{Key: aggtable.Key{Model: "b", Dataset: "y"}, Fields: report.Fields{
			report.Average: report.FloatValue(2), report.IndexMemKB: report.FloatValue(10),
		}},
	}
	tab, err := aggtable.Build(units)
	require.NoError(t, err)

	dir := t.TempDir()
	var logs bytes.Buffer
	written, err := testBattery(dir, nil, &logs).Render(tab)
	require.NoError(t, err)

	var files []string
	for _, w := range written {
		files = append(files, filepath.Base(w))
	}
	assert.Equal(t, []string{
		"avg_latency_comparison.png",
		"avg_latency_heatmap.png",
		"index_memory_kb_comparison.png",
		"index_memory_heatmap.png",
		"latency_vs_memory_scatter.png",
	}, files)
	assert.Contains(t, logs.String(), "skipping chart")
	assert.Contains(t, logs.String(), "file=hit_rate_comparison.png")
	assert.Contains(t, logs.String(), `reason="has no values"`)
	assert.Contains(t, logs.String(), "file=latency_vs_build_time_scatter.png")

	_, err = os.Stat(filepath.Join(dir, "p99_latency_comparison.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderAmbiguous(t *testing.T) {
	tab := &aggtable.Table{
		Columns: []string{report.Average},
		Rows: []aggtable.Row{
			{Key: aggtable.Key{Model: "m", Dataset: "d"}, Values: []report.Value{report.FloatValue(1)}},
			{Key: aggtable.Key{Model: "m", Dataset: "d"}, Values: []report.Value{report.FloatValue(2)}},
		},
	}
	var logs bytes.Buffer
	written, err := testBattery(t.TempDir(), nil, &logs).Render(tab)
	var amb *aggtable.PivotAmbiguityError
	require.True(t, errors.As(err, &amb), "got %v", err)
	assert.Empty(t, written)
}

func TestAnnotation(t *testing.T) {
	assert.Equal(t, "0.123", annotation(report.FloatValue(0.123456)))
	assert.Equal(t, "1.23e+03", annotation(report.FloatValue(1234.5)))
	assert.Equal(t, "1000", annotation(report.IntValue(1000)))
}
