// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resulttree

import (
	"io/fs"

	"golang.org/x/indexbench/report"
)

// A Reconciler decides where a result's index memory figures come
// from. Some models report memory in their primary report; others
// write it to a separate file.
type Reconciler struct {
	Rules *report.RuleSet

	// NoZeroDefault leaves memory fields absent when neither report
	// supplies them. By default they are set to zero, which is what
	// models that do not measure memory have always been charted as.
	NoZeroDefault bool
}

// ReconcileMemory returns primary with its memory fields settled.
//
// If primary holds a present, non-zero IndexMemKB, primary's memory
// fields are kept. Otherwise the secondary report at name in fsys is
// parsed for the memory family and each of its values replaces the
// primary's. Memory fields that the secondary report does not supply
// take the zero default. Values from the two sources are never
// combined.
//
// The returned error describes a missing or malformed secondary
// report. It is informational: the returned Fields are always usable.
func (r *Reconciler) ReconcileMemory(primary report.Fields, fsys fs.FS, name string) (report.Fields, error) {
	out := primary.Clone()
	if kb := primary.Get(report.IndexMemKB); kb.Present && kb.Num != 0 {
		return out, nil
	}

	secondary, err := report.ParseFile(fsys, name, r.Rules, report.Memory)
	for _, field := range r.Rules.Fields(report.Memory) {
		v := secondary.Get(field)
		if !v.Present && !r.NoZeroDefault {
			kind, _ := r.Rules.Kind(field)
			v = report.Value{Kind: kind, Present: true}
		}
		out[field] = v
	}
	return out, err
}
