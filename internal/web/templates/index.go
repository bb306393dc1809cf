package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// IndexPage renders the upload form.
func IndexPage(p IndexParams) templ.Component {
	return Layout("Excel to Header File Generator", indexBody(p))
}

func indexBody(p IndexParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.alert(p.Alert)
		m.raw("<section>\n<h2>Upload Excel file (.xlsx)</h2>\n")
		m.raw("<form method=\"post\" action=\"/upload\" enctype=\"multipart/form-data\">\n")
		m.raw("<p><input type=\"file\" name=\"file\" accept=\".xlsx\" required></p>\n")
		m.raw("<details>\n<summary>Sheet options</summary>\n")
		m.raw("<p><label>Worksheet (blank for the first sheet): <input type=\"text\" name=\"sheet\"></label></p>\n")
		m.raw("<p><label>Header row: <input type=\"number\" name=\"header_row\" min=\"1\" value=\"")
		m.number(p.HeaderRow)
		m.raw("\"></label></p>\n</details>\n")
		m.raw("<p class=\"hint\">Maximum file size: ")
		m.text(p.MaxSize)
		m.raw(". Rows above the header row are ignored.</p>\n")
		m.raw("<p><button type=\"submit\">Upload</button></p>\n")
		m.raw("</form>\n</section>")
		return m.err
	})
}
