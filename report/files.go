// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"fmt"
	"io/fs"
)

// A MissingFileError reports that a report file does not exist. It is
// not a failure: the fields the report would have supplied are simply
// absent.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: no such report", e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// ParseFile parses the report at name in fsys. See Parse.
//
// If the file does not exist, ParseFile returns absent Fields and a
// *MissingFileError. The file is closed before ParseFile returns,
// including when parsing fails.
func ParseFile(fsys fs.FS, name string, rules *RuleSet, families ...Family) (Fields, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = &MissingFileError{name, err}
		}
		return rules.Absent(families...), err
	}
	defer f.Close()
	return Parse(f, name, rules, families...)
}
