// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"strings"
)

// A Rule attributes report lines to a field.
//
// A line matches a Rule if it contains Label, contains every string in
// Require, and contains none of the strings in Exclude. Exclude is how
// overlapping labels are kept apart: "Min" appears both in latency
// lines and in memory lines, so the latency rule for Min excludes
// "Memory".
type Rule struct {
	Field   string
	Family  Family
	Kind    Kind
	Label   string
	Require []string
	Exclude []string
}

// Match reports whether line matches r.
func (r *Rule) Match(line string) bool {
	if !strings.Contains(line, r.Label) {
		return false
	}
	for _, s := range r.Require {
		if !strings.Contains(line, s) {
			return false
		}
	}
	for _, s := range r.Exclude {
		if strings.Contains(line, s) {
			return false
		}
	}
	return true
}

// A RuleSet is an ordered table of Rules. Rules are tried top to
// bottom and the first match wins.
//
// A RuleSet is immutable once constructed and may be shared.
type RuleSet struct {
	rules []Rule

	// fields lists each distinct field in order of first
	// appearance, with its family and kind.
	fields []fieldInfo
	index  map[string]int
}

type fieldInfo struct {
	name   string
	family Family
	kind   Kind
}

// NewRuleSet constructs a RuleSet from rules, in order.
//
// Several rules may name the same field (for example, alternate
// spellings of one label), but they must agree on its family and kind.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{index: make(map[string]int)}
	for i, r := range rules {
		switch {
		case r.Field == "":
			return nil, fmt.Errorf("rule %d: missing field", i+1)
		case r.Label == "":
			return nil, fmt.Errorf("rule %d (%s): missing label", i+1, r.Field)
		case r.Family == "":
			return nil, fmt.Errorf("rule %d (%s): missing family", i+1, r.Field)
		case r.Kind != KindFloat && r.Kind != KindInt:
			return nil, fmt.Errorf("rule %d (%s): bad kind %v", i+1, r.Field, r.Kind)
		}
		if j, ok := rs.index[r.Field]; ok {
			have := rs.fields[j]
			if have.family != r.Family || have.kind != r.Kind {
				return nil, fmt.Errorf("rule %d (%s): field already declared as %s %s", i+1, r.Field, have.family, have.kind)
			}
		} else {
			rs.index[r.Field] = len(rs.fields)
			rs.fields = append(rs.fields, fieldInfo{r.Field, r.Family, r.Kind})
		}
		r.Require = append([]string(nil), r.Require...)
		r.Exclude = append([]string(nil), r.Exclude...)
		rs.rules = append(rs.rules, r)
	}
	return rs, nil
}

var defaultRules = []Rule{
	{Field: IndexMemKB, Family: Memory, Kind: KindFloat, Label: "Index Memory (KB)"},
	{Field: IndexMemMB, Family: Memory, Kind: KindFloat, Label: "Index Memory (MB)"},
	{Field: IndexBuildMs, Family: Build, Kind: KindFloat, Label: "Index Build Time (ms)"},
	{Field: Average, Family: Latency, Kind: KindFloat, Label: "Average", Exclude: []string{"Index", "Memory"}},
	{Field: P99, Family: Latency, Kind: KindFloat, Label: "P99", Exclude: []string{"Index", "Memory"}},
	{Field: Min, Family: Latency, Kind: KindFloat, Label: "Min", Exclude: []string{"Index", "Memory"}},
	{Field: Max, Family: Latency, Kind: KindFloat, Label: "Max", Exclude: []string{"Index", "Memory"}},
	{Field: Hits, Family: Accuracy, Kind: KindInt, Label: "Hits:"},
	{Field: Misses, Family: Accuracy, Kind: KindInt, Label: "Misses:"},
	{Field: HitRate, Family: Accuracy, Kind: KindFloat, Label: "Hit Rate"},
	{Field: MissRate, Family: Accuracy, Kind: KindFloat, Label: "Miss Rate"},
}

// DefaultRules returns the rule table for the reports written by the
// indexing benchmarks: stats.txt (latency, memory, and build time),
// accuracy.txt, and index_memory.txt.
func DefaultRules() *RuleSet {
	rs, err := NewRuleSet(defaultRules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Rules returns a copy of the rules in rs, in match order.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Match returns the first rule in rs that matches line and belongs to
// one of families, or nil. If families is empty, all rules are
// considered.
func (rs *RuleSet) Match(line string, families ...Family) *Rule {
	for i := range rs.rules {
		r := &rs.rules[i]
		if !hasFamily(families, r.Family) {
			continue
		}
		if r.Match(line) {
			return r
		}
	}
	return nil
}

// Fields returns the names of the fields of families, in order of
// first appearance in rs. If families is empty, it returns every field.
func (rs *RuleSet) Fields(families ...Family) []string {
	var names []string
	for _, f := range rs.fields {
		if hasFamily(families, f.family) {
			names = append(names, f.name)
		}
	}
	return names
}

// Families returns the distinct families of the fields in rs, in order
// of first appearance.
func (rs *RuleSet) Families() []Family {
	var fams []Family
	seen := make(map[Family]bool)
	for _, f := range rs.fields {
		if !seen[f.family] {
			seen[f.family] = true
			fams = append(fams, f.family)
		}
	}
	return fams
}

// Kind returns the kind of field name.
func (rs *RuleSet) Kind(name string) (Kind, bool) {
	i, ok := rs.index[name]
	if !ok {
		return KindFloat, false
	}
	return rs.fields[i].kind, true
}

// Absent returns Fields holding the absent marker for every field of
// families.
func (rs *RuleSet) Absent(families ...Family) Fields {
	f := make(Fields)
	for _, name := range rs.Fields(families...) {
		f[name] = Value{}
	}
	return f
}

func hasFamily(families []Family, f Family) bool {
	if len(families) == 0 {
		return true
	}
	for _, x := range families {
		if x == f {
			return true
		}
	}
	return false
}
