// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report reads the loosely formatted key/value text reports
// written by the indexing benchmarks.
//
// A report is a sequence of lines such as
//
//	Average (ms): 0.412
//	P99 (ms): 1.73
//	Index Memory (KB): 512
//
// There is no grammar beyond "label, colon, number". Each line is
// matched independently against an ordered table of Rules; the first
// matching rule names the field the line's value belongs to. Lines that
// match no rule are ignored.
//
// Every value read from a report is a Value. The zero Value is the
// absent marker: a field that a report did not supply is never
// represented as a numeric zero, since zero is a legitimate
// measurement (for example, zero misses).
package report

import (
	"fmt"
	"strconv"
)

// A Kind is the numeric type of a field.
type Kind int

const (
	// KindFloat is used for rates, latencies, memory sizes, and times.
	KindFloat Kind = iota
	// KindInt is used for counts.
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the name of a Kind, as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "float", "":
		return KindFloat, nil
	case "int":
		return KindInt, nil
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

// A Value is a single measurement, or the absence of one.
type Value struct {
	Num     float64
	Kind    Kind
	Present bool
}

// FloatValue returns a present floating point Value.
func FloatValue(x float64) Value {
	return Value{Num: x, Kind: KindFloat, Present: true}
}

// IntValue returns a present integer Value.
func IntValue(n int64) Value {
	return Value{Num: float64(n), Kind: KindInt, Present: true}
}

// ParseValue parses text as a Value of kind k.
func ParseValue(text string, k Kind) (Value, error) {
	if k == KindInt {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(n), nil
	}
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(x), nil
}

// String formats v in a form ParseValue accepts. The absent marker
// formats as "".
func (v Value) String() string {
	if !v.Present {
		return ""
	}
	if v.Kind == KindInt {
		return strconv.FormatInt(int64(v.Num), 10)
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// Fields maps field names to values.
type Fields map[string]Value

// Get returns the value of field name, or the absent marker.
func (f Fields) Get(name string) Value {
	return f[name]
}

// Clone returns a copy of f that shares no state with f.
func (f Fields) Clone() Fields {
	f2 := make(Fields, len(f))
	for k, v := range f {
		f2[k] = v
	}
	return f2
}

// A Family is a group of related fields. Families are the unit of
// parse restriction and of error recovery: a malformed report leaves
// every field of its families absent.
type Family string

const (
	Latency  Family = "latency"
	Memory   Family = "memory"
	Build    Family = "build"
	Accuracy Family = "accuracy"
)

// Names of the fields recognized by DefaultRules.
const (
	Average      = "Average"
	Min          = "Min"
	Max          = "Max"
	P99          = "P99"
	IndexMemKB   = "IndexMemKB"
	IndexMemMB   = "IndexMemMB"
	IndexBuildMs = "IndexBuildMs"
	Hits         = "Hits"
	Misses       = "Misses"
	HitRate      = "HitRate"
	MissRate     = "MissRate"
)

// CanonicalFields is the stable column order of the default fields.
var CanonicalFields = []string{
	Average, Min, Max, P99,
	IndexMemKB, IndexMemMB, IndexBuildMs,
	Hits, Misses, HitRate, MissRate,
}

var canonicalIndex = func() map[string]int {
	m := make(map[string]int, len(CanonicalFields))
	for i, f := range CanonicalFields {
		m[f] = i
	}
	return m
}()

// CanonicalIndex returns the position of name in CanonicalFields.
func CanonicalIndex(name string) (int, bool) {
	i, ok := canonicalIndex[name]
	return i, ok
}
