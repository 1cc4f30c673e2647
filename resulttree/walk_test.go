// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resulttree

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestWalk(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md":                    file("not a model"),
		"btree/notes.txt":              file("not a dataset"),
		"btree/uniform/stats.txt":      file("Average (ms): 1.5\nP99 (ms): 3\nIndex Memory (KB): 128\nIndex Memory (MB): 0.125\nIndex Build Time (ms): 40\n"),
		"btree/uniform/accuracy.txt":   file("Hits: 1000\nMisses: 0\nHit Rate (%): 100\nMiss Rate (%): 0\n"),
		"btree/zipf/stats.txt":         file("Average (ms): 2\n"),
		"learned/uniform/stats.txt":    file("Average (ms): 0.5\nMin (ms): 0.1\n"),
		"learned/uniform/accuracy.txt": file("Hits: 990\nMisses: 10\n"),
		"learned/uniform/index_memory.txt": file(
			"Index Memory (KB): 64\nIndex Memory (MB): 0.0625\n"),
		"learned/empty/.keep": file(""),
	}

	var logs bytes.Buffer
	w := &Walker{Logger: testLogger(&logs)}
	units, err := w.Walk(fsys)
	require.NoError(t, err)

	var keys []aggtable.Key
	for _, u := range units {
		keys = append(keys, u.Key)
	}
	assert.Equal(t, []aggtable.Key{
		{Model: "btree", Dataset: "uniform"},
		{Model: "btree", Dataset: "zipf"},
		{Model: "learned", Dataset: "empty"},
		{Model: "learned", Dataset: "uniform"},
	}, keys)

	bu := units[0].Fields
	assert.Equal(t, report.FloatValue(1.5), bu[report.Average])
	assert.Equal(t, report.Value{}, bu[report.Min])
	assert.Equal(t, report.FloatValue(128), bu[report.IndexMemKB])
	assert.Equal(t, report.FloatValue(40), bu[report.IndexBuildMs])
	assert.Equal(t, report.IntValue(0), bu[report.Misses])

	// No accuracy report: accuracy is absent. No memory anywhere:
	// memory is the zero default.
	bz := units[1].Fields
	assert.Equal(t, report.Value{}, bz[report.Hits])
	assert.Equal(t, report.FloatValue(0), bz[report.IndexMemKB])
	assert.Equal(t, report.FloatValue(0), bz[report.IndexMemMB])

	// A leaf with no reports at all still produces a row.
	le := units[2].Fields
	assert.Equal(t, report.Value{}, le[report.Average])
	assert.Len(t, le, len(report.CanonicalFields))

	lu := units[3].Fields
	assert.Equal(t, report.FloatValue(64), lu[report.IndexMemKB])
	assert.Equal(t, report.FloatValue(0.0625), lu[report.IndexMemMB])
	assert.Equal(t, report.IntValue(990), lu[report.Hits])

	assert.Contains(t, logs.String(), "report not found")
}

func TestWalkMalformed(t *testing.T) {
	fsys := fstest.MapFS{
		"m/d/stats.txt":    file("Min (ms): 1\nAverage (ms): N/A\nIndex Memory (KB): 512\n"),
		"m/d/accuracy.txt": file("Hits: 5\n"),
		"m/e/stats.txt":    file("Average (ms): 4\n"),
	}

	var logs bytes.Buffer
	units, err := (&Walker{Logger: testLogger(&logs)}).Walk(fsys)
	require.NoError(t, err)
	require.Len(t, units, 2)

	// The malformed stats report is discarded entirely; the
	// accuracy report is still used and the run continues.
	f := units[0].Fields
	assert.Equal(t, report.Value{}, f[report.Min])
	assert.Equal(t, report.Value{}, f[report.Average])
	assert.Equal(t, report.IntValue(5), f[report.Hits])
	assert.Equal(t, report.FloatValue(4), units[1].Fields[report.Average])

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "discarding malformed report")
	assert.Contains(t, out, "file=m/d/stats.txt")
	assert.Contains(t, out, "line=2")
}

func TestWalkLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"m/d/latency.log": file("Average: 9\nThroughput: 12\n"),
		"m/d/acc.log":     file("Hits: 1\n"),
		"m/d/stats.txt":   file("Average: 1\n"),
	}
	rules, err := report.NewRuleSet(append(report.DefaultRules().Rules(),
		report.Rule{Field: "Throughput", Family: "throughput", Label: "Throughput"})...)
	require.NoError(t, err)

	w := &Walker{
		Rules:         rules,
		Layout:        Layout{Stats: "latency.log", Accuracy: "acc.log"},
		Logger:        slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		NoZeroDefault: true,
	}
	units, err := w.Walk(fsys)
	require.NoError(t, err)
	require.Len(t, units, 1)
	f := units[0].Fields
	assert.Equal(t, report.FloatValue(9), f[report.Average])
	assert.Equal(t, report.FloatValue(12), f["Throughput"])
	assert.Equal(t, report.IntValue(1), f[report.Hits])
	assert.Equal(t, report.Value{}, f[report.IndexMemKB])
}

func TestWalkRootMissing(t *testing.T) {
	_, err := (&Walker{}).Walk(os.DirFS(filepath.Join(t.TempDir(), "nosuch")))
	assert.Error(t, err)
}

func TestWalkDirFS(t *testing.T) {
	root := t.TempDir()
	leaf := filepath.Join(root, "m", "d")
	require.NoError(t, os.MkdirAll(leaf, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(leaf, "stats.txt"), []byte("P99: 2.5\n"), 0666))

	units, err := (&Walker{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}).Walk(os.DirFS(root))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, report.FloatValue(2.5), units[0].Fields[report.P99])
}

func TestReconcileMemory(t *testing.T) {
	rules := report.DefaultRules()
	fsys := fstest.MapFS{
		"index_memory.txt": file("Index Memory (KB): 999\nIndex Memory (MB): 0.97\n"),
		"kb_only.txt":      file("Index Memory (KB): 64\n"),
		"bad.txt":          file("Index Memory (KB): lots\n"),
	}
	primary := func(kb report.Value) report.Fields {
		return report.Fields{report.Average: report.FloatValue(1), report.IndexMemKB: kb, report.IndexMemMB: report.Value{}}
	}

	for _, test := range []struct {
		name      string
		primary   report.Fields
		secondary string
		noZero    bool
		kb, mb    report.Value
		errPrefix string
	}{
		{"primary wins", primary(report.FloatValue(128)), "index_memory.txt", false, report.FloatValue(128), report.Value{}, ""},
		{"primary zero", primary(report.FloatValue(0)), "index_memory.txt", false, report.FloatValue(999), report.FloatValue(0.97), ""},
		{"primary absent", primary(report.Value{}), "index_memory.txt", false, report.FloatValue(999), report.FloatValue(0.97), ""},
		{"secondary partial", primary(report.Value{}), "kb_only.txt", false, report.FloatValue(64), report.FloatValue(0), ""},
		{"secondary missing", primary(report.Value{}), "nosuch.txt", false, report.FloatValue(0), report.FloatValue(0), "nosuch.txt: no such report"},
		{"secondary malformed", primary(report.Value{}), "bad.txt", false, report.FloatValue(0), report.FloatValue(0), "bad.txt:1: IndexMemKB"},
		{"no zero default", primary(report.Value{}), "nosuch.txt", true, report.Value{}, report.Value{}, "nosuch.txt"},
	} {
		t.Run(test.name, func(t *testing.T) {
			r := &Reconciler{Rules: rules, NoZeroDefault: test.noZero}
			before := test.primary.Clone()
			got, err := r.ReconcileMemory(test.primary, fsys, test.secondary)
			if test.errPrefix == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, strings.HasPrefix(err.Error(), test.errPrefix), "error %q", err)
			}
			assert.Equal(t, test.kb, got[report.IndexMemKB])
			assert.Equal(t, test.mb, got[report.IndexMemMB])
			assert.Equal(t, report.FloatValue(1), got[report.Average])
			assert.Equal(t, before, test.primary, "primary modified")
		})
	}
}

func TestWalkStableHeader(t *testing.T) {
	// No leaf reports accuracy or build time, and nothing reports
	// memory. Every default field is still a column.
	fsys := fstest.MapFS{
		"btree/uniform/stats.txt":   file("Average (ms): 1\nMin (ms): 0.5\nMax (ms): 4\nP99 (ms): 3\n"),
		"learned/uniform/stats.txt": file("Average (ms): 2\n"),
	}
	units, err := (&Walker{Logger: testLogger(&bytes.Buffer{}), NoZeroDefault: true}).Walk(fsys)
	require.NoError(t, err)
	tab, err := aggtable.Build(units)
	require.NoError(t, err)

	assert.Equal(t, report.CanonicalFields, tab.Columns)
	assert.Equal(t, report.Value{}, tab.Value(0, report.Hits))
	assert.Equal(t, report.Value{}, tab.Value(1, report.IndexBuildMs))
	assert.Equal(t, report.Value{}, tab.Value(1, report.Min))
}
