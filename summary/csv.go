// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package summary exports an aggregate table as CSV, as a text
// listing, and as HTML.
package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

// WriteCSV writes t to w as comma-separated values. The header is
// t.Header(). Absent values are written as empty fields.
func WriteCSV(w io.Writer, t *aggtable.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	rec := make([]string, 2+len(t.Columns))
	for _, r := range t.Rows {
		rec[0], rec[1] = r.Model, r.Dataset
		for i, v := range r.Values {
			rec[2+i] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// A CSVError reports a malformed summary record.
type CSVError struct {
	Line int
	Msg  string
}

func (e *CSVError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ReadCSV reads a table written by WriteCSV. Field kinds are taken
// from rules; fields rules does not know are read as floats.
func ReadCSV(r io.Reader, rules *report.RuleSet) (*aggtable.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CSVError{1, "missing header"}
		}
		return nil, err
	}
	if len(header) < 2 || header[0] != "Model" || header[1] != "Dataset" {
		return nil, &CSVError{1, "header must begin with Model,Dataset"}
	}
	kinds := make([]report.Kind, len(header))
	for i, name := range header[2:] {
		kinds[2+i], _ = rules.Kind(name)
	}

	var b aggtable.Builder
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		u := &aggtable.Unit{
			Key:    aggtable.Key{Model: rec[0], Dataset: rec[1]},
			Fields: make(report.Fields, len(rec)-2),
		}
		for i := 2; i < len(rec); i++ {
			if rec[i] == "" {
				u.Fields[header[i]] = report.Value{}
				continue
			}
			v, err := report.ParseValue(rec[i], kinds[i])
			if err != nil {
				return nil, &CSVError{line, fmt.Sprintf("%s: %v", header[i], err)}
			}
			u.Fields[header[i]] = v
		}
		b.Add(u)
	}
	return b.Table()
}
