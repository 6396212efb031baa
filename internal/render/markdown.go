// Package render pushes message state to displays.
package render

import (
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	htmlFlags  = mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML
	extensions = parser.CommonExtensions | parser.Attributes
)

// ToHTML renders chat markdown. Raw HTML in messages is dropped.
func ToHTML(md string) string {
	// Parsers keep state between calls and must not be reused.
	p := parser.NewWithExtensions(extensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: htmlFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

// ToPlainText renders md to a single line of text with markup and entities
// resolved.
func ToPlainText(md string) string {
	return strings.Join(strings.Fields(html.UnescapeString(stripTags(ToHTML(md)))), " ")
}

func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
