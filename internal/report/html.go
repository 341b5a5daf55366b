// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/aclements/go-gg/table"
	"github.com/google/safehtml/template"
)

// A Section is one titled table of an HTML report.
type Section struct {
	Title string
	Table *table.Table
}

// A Page is a complete HTML report.
type Page struct {
	Title    string
	Notes    []string
	Sections []Section
}

type htmlSection struct {
	Title   string
	Columns []string
	Rows    [][]string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 2px 8px; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Notes}}<ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

// HTML writes p to w as a standalone HTML page.
func HTML(w io.Writer, p Page) error {
	data := struct {
		Title    string
		Notes    []string
		Sections []htmlSection
	}{Title: p.Title, Notes: p.Notes}
	for _, s := range p.Sections {
		data.Sections = append(data.Sections, htmlSection{
			Title:   s.Title,
			Columns: s.Table.Columns(),
			Rows:    rows(s.Table),
		})
	}
	return pageTmpl.Execute(w, data)
}
