package templates

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// SessionPage renders column selection, ordering, comment and output steps.
func SessionPage(p SessionParams) templ.Component {
	return Layout(p.Session.FileName+" - Header File Generator", sessionBody(p))
}

func sessionBody(p SessionParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		v := p.Session
		base := "/s/" + url.PathEscape(v.ID)

		m.raw("<p class=\"success\">Excel file loaded successfully: <strong>")
		m.text(v.FileName)
		m.raw("</strong>\n(sheet ")
		m.text(v.Sheet)
		m.raw(", ")
		m.number(v.RowCount)
		m.raw(" rows)</p>\n")
		m.alert(p.Alert)

		m.raw("<section id=\"columns\">\n<h2>1. Select Columns</h2>\n<form method=\"post\"")
		m.href("action", base+"/columns")
		m.raw(">\n<label for=\"column-select\">Select columns to include in output:</label>\n")
		m.raw("<select id=\"column-select\" name=\"column\" multiple")
		m.raw(" size=\"")
		m.number(len(v.Columns))
		m.raw("\">\n")
		for _, name := range v.Columns {
			m.option(name, name, p.IsSelected(name))
		}
		m.raw("</select>\n<p><button type=\"submit\">Apply selection</button></p>\n</form>\n</section>\n")

		if !p.HasOrder() {
			return m.err
		}

		// Boundary moves are no-ops in the service, so both buttons stay
		// enabled whichever column the dropdown shows.
		m.raw("<section id=\"order\">\n<h2>2. Reorder Selected Columns</h2>\n<form method=\"post\"")
		m.href("action", base+"/move")
		m.raw(">\n<label for=\"move-select\">Select a column to move:</label>\n")
		m.raw("<select id=\"move-select\" name=\"column\">\n")
		for _, name := range v.Order {
			m.option(name, name, name == v.Cursor)
		}
		m.raw("</select>\n<button type=\"submit\"")
		m.href("formaction", base+"/cursor")
		m.raw(">Select</button>\n")
		m.raw("<button type=\"submit\" name=\"direction\" value=\"up\">&uarr; Move Up</button>\n")
		m.raw("<button type=\"submit\" name=\"direction\" value=\"down\">&darr; Move Down</button>\n")
		m.raw("</form>\n<p>Current Order:</p>\n<ol class=\"order\">\n")
		for _, name := range v.Order {
			m.raw("<li")
			if name == v.Cursor {
				m.attr("class", "cursor")
			}
			m.raw(">")
			m.text(name)
			m.raw("</li>\n")
		}
		m.raw("</ol>\n</section>\n")

		m.raw("<section id=\"comment\">\n<h2>3. Select Comment Column (optional)</h2>\n<form method=\"post\"")
		m.href("action", base+"/comment")
		m.raw(">\n<label for=\"comment-select\">Select column to be used as comment: (Optional)</label>\n")
		m.raw("<select id=\"comment-select\" name=\"column\">\n")
		m.option("None", "None", v.Comment == "")
		for _, name := range v.Columns {
			m.option(name, name, name == v.Comment)
		}
		m.raw("</select>\n<button type=\"submit\">Apply</button>\n</form>\n</section>\n")

		m.raw("<section id=\"output\">\n<h2>4. Output</h2>\n<form method=\"post\"")
		m.href("action", base+"/generate")
		m.raw(">\n<label for=\"file-name\">Output file name (with .h extension):</label>\n")
		m.raw("<input id=\"file-name\" type=\"text\" name=\"file_name\"")
		m.attr("value", v.OutputName)
		m.raw(">\n<button type=\"submit\">Generate Header File</button>\n</form>\n")
		if pv := p.Preview; pv != nil {
			m.raw("<div class=\"preview\">\n<p>")
			m.text(pv.FileName)
			m.raw(": ")
			m.number(pv.Lines)
			m.raw(" lines</p>\n<div class=\"code\">")
			m.render(templ.Raw(pv.Code))
			m.raw("</div>\n<p><a class=\"button\"")
			m.href("href", pv.DownloadURL)
			m.attr("download", pv.FileName)
			m.raw(">Download Header File</a></p>\n</div>\n")
		}
		m.raw("</section>")
		return m.err
	})
}
