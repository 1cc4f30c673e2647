// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// A ParseError reports a line whose label matched a rule but whose
// value could not be parsed.
type ParseError struct {
	FileName string
	Line     int
	Field    string
	Text     string // the offending line
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.FileName, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errMissingColon = errors.New("missing ':' after label")

// Parse reads a report from r and returns the values of the fields of
// families, using rules to attribute lines to fields. Fields the report
// does not mention are absent. If a field appears more than once, the
// last value wins.
//
// fileName is used in error messages; it is purely diagnostic.
//
// If a matched line has no value, or its value is not a number of the
// field's kind, Parse stops and returns a *ParseError. A report is
// never partially trusted: on any error, every returned field is
// absent.
func Parse(r io.Reader, fileName string, rules *RuleSet, families ...Family) (Fields, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	fields := rules.Absent(families...)

	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		rule := rules.Match(text, families...)
		if rule == nil {
			continue
		}
		v, err := parseLine(text, rule.Kind)
		if err != nil {
			return rules.Absent(families...), &ParseError{fileName, line, rule.Field, text, err}
		}
		fields[rule.Field] = v
	}
	if err := s.Err(); err != nil {
		return rules.Absent(families...), fmt.Errorf("%s:%d: %w", fileName, line, err)
	}
	return fields, nil
}

// parseLine returns the value after the first colon in text.
func parseLine(text string, k Kind) (Value, error) {
	i := strings.IndexByte(text, ':')
	if i < 0 {
		return Value{}, errMissingColon
	}
	return ParseValue(strings.TrimSpace(text[i+1:]), k)
}
