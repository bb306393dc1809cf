// Package templates provides the HTML components for the web UI.
//
// Each page is a templ.Component. Text and attribute values go through
// templ.EscapeString, links through templ.URL, and the highlighted preview
// through templ.Raw.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/hdrgen/internal/core"
	"github.com/a-h/templ"
)

// Alert is an error shown above a page.
type Alert struct {
	Message string
	Action  string
	Code    string
}

// Preview is generated header text ready to show and download.
type Preview struct {
	FileName    string
	Lines       int
	Code        string // trusted highlighter markup, written unescaped
	DownloadURL string
}

// IndexParams holds data for the upload page.
type IndexParams struct {
	MaxSize   string
	HeaderRow int
	Alert     *Alert
}

// SessionParams holds data for the column selection page.
type SessionParams struct {
	Session *core.SessionView
	Alert   *Alert
	Preview *Preview
}

// IsSelected reports whether name is one of the selected columns.
func (p SessionParams) IsSelected(name string) bool {
	for _, s := range p.Session.Selected {
		if s == name {
			return true
		}
	}
	return false
}

// HasOrder reports whether any column has been selected.
func (p SessionParams) HasOrder() bool {
	return len(p.Session.Order) > 0
}

// markup writes HTML to w and keeps the first error. Later writes are
// skipped once one fails.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

// raw writes s as-is. Only literal markup goes through here.
func (m *markup) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// text writes s escaped for element content.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) number(n int) {
	m.raw(strconv.Itoa(n))
}

// attr writes ` name="value"` with value escaped.
func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes a sanitized URL attribute.
func (m *markup) href(name, url string) {
	m.attr(name, string(templ.URL(url)))
}

// flag writes a boolean attribute when on is true.
func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" " + name)
	}
}

func (m *markup) render(c templ.Component) {
	if m.err != nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

// option writes one <option> of a select.
func (m *markup) option(value, label string, selected bool) {
	m.raw("<option")
	m.attr("value", value)
	m.flag("selected", selected)
	m.raw(">")
	m.text(label)
	m.raw("</option>\n")
}
