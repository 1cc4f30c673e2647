// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summary

import (
	"fmt"
	"io"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/internal/texttab"
)

// Banner is printed above the text listing.
const Banner = "================ SUMMARY TABLE ================"

// WriteText writes a human-readable listing of t to w. Numbers are
// right-aligned and absent values are shown as NaN.
func WriteText(w io.Writer, t *aggtable.Table) error {
	if _, err := fmt.Fprintf(w, "\n%s\n\n", Banner); err != nil {
		return err
	}

	var tab texttab.Table
	tab.Row()
	for i, h := range t.Header() {
		if i < 2 {
			tab.Cell(h)
		} else {
			tab.Cell(h, texttab.Right)
		}
	}
	for _, r := range t.Rows {
		tab.Row().Cell(r.Model).Cell(r.Dataset)
		for _, v := range r.Values {
			s := "NaN"
			if v.Present {
				s = v.String()
			}
			tab.Cell(s, texttab.Right)
		}
	}
	return tab.Format(w)
}
