// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggtable

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/indexbench/report"
)

// A DuplicateKeyError reports that more than one result was collected
// for the same (model, dataset) key.
type DuplicateKeyError struct {
	Keys []Key // sorted
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate results for " + joinKeys(e.Keys)
}

func joinKeys(keys []Key) string {
	var buf strings.Builder
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k.String())
	}
	return buf.String()
}

// A Builder collects Units into a Table.
//
// The zero value of Builder is ready to use.
type Builder struct {
	units []*Unit

	// count maps each key to the number of units added with
	// that key.
	count map[Key]int
}

// NewBuilder returns a new, empty Builder.
func NewBuilder() *Builder {
	return new(Builder)
}

// Add adds u to the Builder. u's Fields must not be modified after
// this.
func (b *Builder) Add(u *Unit) {
	if b.count == nil {
		b.count = make(map[Key]int)
	}
	b.count[u.Key]++
	b.units = append(b.units, u)
}

// Table folds the collected Units into a Table. Rows appear in the
// order the Units were added.
//
// If two Units share a key, Table returns a *DuplicateKeyError listing
// every such key.
func (b *Builder) Table() (*Table, error) {
	var dups []Key
	for k, n := range b.count {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	if len(dups) > 0 {
		sortKeys(dups)
		return nil, &DuplicateKeyError{dups}
	}

	cols := universe(b.units)
	for _, c := range cols {
		if c == modelCol || c == datasetCol {
			return nil, fmt.Errorf("field name %q collides with a key column", c)
		}
	}

	t := &Table{Columns: cols, Rows: make([]Row, 0, len(b.units))}
	for _, u := range b.units {
		vals := make([]report.Value, len(cols))
		for i, c := range cols {
			vals[i] = u.Fields[c]
		}
		t.Rows = append(t.Rows, Row{u.Key, vals})
	}
	return t, nil
}

// Build is a convenience that folds units into a Table.
func Build(units []*Unit) (*Table, error) {
	var b Builder
	for _, u := range units {
		b.Add(u)
	}
	return b.Table()
}

// universe returns the name of every field carried by any unit,
// including fields that are absent in every unit, so the header does
// not depend on which reports happened to be found. Known fields come
// first, in canonical order, followed by other fields in the order
// they were first seen. Within a unit, unknown fields are visited in
// sorted order so the result does not depend on map iteration.
func universe(units []*Unit) []string {
	var known, extra []string
	seen := make(map[string]bool)
	for _, u := range units {
		names := make([]string, 0, len(u.Fields))
		for name := range u.Fields {
			if !seen[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			seen[name] = true
			if _, ok := report.CanonicalIndex(name); ok {
				known = append(known, name)
			} else {
				extra = append(extra, name)
			}
		}
	}
	sort.Slice(known, func(i, j int) bool {
		a, _ := report.CanonicalIndex(known[i])
		b, _ := report.CanonicalIndex(known[j])
		return a < b
	})
	return append(known, extra...)
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}
