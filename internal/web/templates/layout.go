package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		m.raw("<meta charset=\"utf-8\">\n")
		m.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		m.raw("<title>")
		m.text(title)
		m.raw("</title>\n")
		m.raw("<link rel=\"stylesheet\" href=\"/static/app.css\">\n")
		m.raw("</head>\n<body>\n<main>\n")
		m.raw("<h1><a href=\"/\">Excel to Header File Generator</a></h1>\n")
		m.render(body)
		m.raw("\n</main>\n</body>\n</html>\n")
		return m.err
	})
}
