// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summary

import (
	"io"

	"github.com/google/safehtml/template"
	"golang.org/x/indexbench/aggtable"
)

var htmlTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table.summary { border-collapse: collapse; }
table.summary td, table.summary th { padding: 0.2em 0.6em; }
table.summary td.num { text-align: right; font-family: monospace; }
table.summary td.absent { color: #999; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table class="summary">
<tr>{{range .Header}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr><td>{{.Model}}<td>{{.Dataset}}{{range .Values}}{{if .Present}}<td class="num">{{.String}}{{else}}<td class="num absent">NaN{{end}}{{end}}
{{end -}}
</table>
</body>
</html>
`))

// WriteHTML writes t to w as an HTML page titled title.
func WriteHTML(w io.Writer, title string, t *aggtable.Table) error {
	return htmlTemplate.Execute(w, struct {
		Title  string
		Header []string
		Rows   []aggtable.Row
	}{title, t.Header(), t.Rows})
}
