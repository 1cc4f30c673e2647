// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggtable assembles per-experiment benchmark results into a
// single denormalized table with one row per (model, dataset) pair.
//
// Results are collected with a Builder, which folds them into an
// immutable Table. The Table's columns are the union of the fields
// observed in any result; a row that lacks a column holds the absent
// marker (the zero report.Value) there.
package aggtable

import "golang.org/x/indexbench/report"

// A Key identifies a result: the model that produced it and the dataset
// distribution it was run on.
type Key struct {
	Model, Dataset string
}

func (k Key) String() string {
	return k.Model + "/" + k.Dataset
}

func (k Key) less(o Key) bool {
	if k.Model != o.Model {
		return k.Model < o.Model
	}
	return k.Dataset < o.Dataset
}

// A Unit is the result of one experiment.
type Unit struct {
	Key
	Fields report.Fields
}
