// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resulttree collects benchmark results from a directory tree
// laid out as
//
//	<root>/<model>/<dataset>/stats.txt
//	<root>/<model>/<dataset>/accuracy.txt
//	<root>/<model>/<dataset>/index_memory.txt   (optional)
//
// Each <model>/<dataset> directory is a leaf and becomes one
// aggtable.Unit. Missing or malformed reports are not errors: their
// fields are left absent and the problem is logged.
package resulttree

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

// A Layout names the report files in a leaf directory.
type Layout struct {
	Stats    string // primary report: latency, memory, build time
	Accuracy string
	Memory   string // secondary memory report
}

// DefaultLayout returns the file names written by the benchmarks.
func DefaultLayout() Layout {
	return Layout{
		Stats:    "stats.txt",
		Accuracy: "accuracy.txt",
		Memory:   "index_memory.txt",
	}
}

// A Walker walks a result tree. The zero value uses DefaultRules,
// DefaultLayout, and slog.Default.
type Walker struct {
	Rules  *report.RuleSet
	Layout Layout
	Logger *slog.Logger

	// NoZeroDefault is passed on to the memory Reconciler.
	NoZeroDefault bool
}

// Walk returns one Unit for each leaf in fsys, in directory order.
//
// Walk fails only if the root of fsys cannot be read. Problems below
// the root are logged and skipped.
func (w *Walker) Walk(fsys fs.FS) ([]*aggtable.Unit, error) {
	models, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	rules := w.Rules
	if rules == nil {
		rules = report.DefaultRules()
	}
	lay := w.Layout
	def := DefaultLayout()
	if lay.Stats == "" {
		lay.Stats = def.Stats
	}
	if lay.Accuracy == "" {
		lay.Accuracy = def.Accuracy
	}
	if lay.Memory == "" {
		lay.Memory = def.Memory
	}
	l := &leafReader{
		fsys:   fsys,
		rules:  rules,
		layout: lay,
		rec:    &Reconciler{Rules: rules, NoZeroDefault: w.NoZeroDefault},
	}
	for _, fam := range rules.Families() {
		if fam != report.Accuracy {
			l.primary = append(l.primary, fam)
		}
	}

	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var units []*aggtable.Unit
	for _, m := range models {
		if !isDir(fsys, ".", m) {
			continue
		}
		model := m.Name()
		datasets, err := fs.ReadDir(fsys, model)
		if err != nil {
			logger.Warn("skipping unreadable model directory", "model", model, "err", err)
			continue
		}
		for _, d := range datasets {
			if !isDir(fsys, model, d) {
				continue
			}
			dataset := d.Name()
			log := logger.With("model", model, "dataset", dataset)
			units = append(units, l.read(aggtable.Key{Model: model, Dataset: dataset}, log))
		}
	}
	return units, nil
}

// isDir reports whether e, an entry of directory dir, is a directory
// or a symbolic link to one.
func isDir(fsys fs.FS, dir string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := fs.Stat(fsys, path.Join(dir, e.Name()))
	return err == nil && fi.IsDir()
}

type leafReader struct {
	fsys    fs.FS
	rules   *report.RuleSet
	layout  Layout
	rec     *Reconciler
	primary []report.Family
}

func (l *leafReader) read(k aggtable.Key, log *slog.Logger) *aggtable.Unit {
	dir := path.Join(k.Model, k.Dataset)

	fields, err := report.ParseFile(l.fsys, path.Join(dir, l.layout.Stats), l.rules, l.primary...)
	absorb(log, err)

	acc, err := report.ParseFile(l.fsys, path.Join(dir, l.layout.Accuracy), l.rules, report.Accuracy)
	absorb(log, err)
	for name, v := range acc {
		fields[name] = v
	}

	fields, err = l.rec.ReconcileMemory(fields, l.fsys, path.Join(dir, l.layout.Memory))
	absorb(log, err)

	return &aggtable.Unit{Key: k, Fields: fields}
}

// absorb logs a report error that does not stop the walk.
func absorb(log *slog.Logger, err error) {
	if err == nil {
		return
	}
	var missing *report.MissingFileError
	var perr *report.ParseError
	switch {
	case errors.As(err, &missing):
		log.Debug("report not found", "file", missing.Path)
	case errors.As(err, &perr):
		log.Warn("discarding malformed report", "file", perr.FileName, "line", perr.Line, "field", perr.Field, "err", perr.Err)
	default:
		log.Warn("cannot read report", "err", err)
	}
}
