package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders an error message with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.raw("<div class=\"alert\" role=\"alert\">\n<p class=\"alert-message\">")
		m.text(message)
		m.raw("</p>\n")
		if action != "" {
			m.raw("<p class=\"alert-action\">")
			m.text(action)
			m.raw("</p>\n")
		}
		if code != "" {
			m.raw("<p class=\"alert-code\">Code: ")
			m.text(code)
			m.raw("</p>\n")
		}
		m.raw("</div>\n")
		return m.err
	})
}

// ErrorPage renders a standalone error page.
func ErrorPage(a Alert) templ.Component {
	return Layout("Error - Header File Generator", errorBody(a))
}

func errorBody(a Alert) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.render(ErrorAlert(a.Message, a.Action, a.Code))
		m.raw("<p><a href=\"/\">Upload a workbook</a></p>")
		return m.err
	})
}

// alert renders a when it is set.
func (m *markup) alert(a *Alert) {
	if a != nil {
		m.render(ErrorAlert(a.Message, a.Action, a.Code))
	}
}
