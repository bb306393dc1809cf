package web

import (
	"bytes"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders generated header text as syntax-highlighted C.
type Highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *html.Formatter
}

// NewHighlighter uses the named chroma style, falling back to the default
// style when the name is unknown.
func NewHighlighter(styleName string) *Highlighter {
	lexer := lexers.Get("c")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: html.New(html.WithClasses(false), html.TabWidth(4)),
	}
}

// Highlight returns src as HTML markup. On a lexer or formatter failure the
// text is returned escaped inside a plain pre block.
func (h *Highlighter) Highlight(src string) string {
	it, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return plainCode(src)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return plainCode(src)
	}
	return buf.String()
}

func plainCode(src string) string {
	return "<pre>" + templ.EscapeString(src) + "</pre>"
}
