// Package markdown renders post and page bodies to HTML as templ components
// and extracts plain text for excerpts and reading-time estimates.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, content)
	})
}

// Render writes the HTML representation of content to w. Raw HTML in the
// source is omitted.
func Render(w io.Writer, content string) error {
	return md.Convert([]byte(content), w)
}

// HTML renders content to an HTML string.
func HTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText returns the readable text of content with markup removed.
// Blocks are separated by a single space.
func PlainText(content string) string {
	src := []byte(content)
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	space := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				space()
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				space()
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(bytes.TrimRight(seg.Value(src), "\n"))
				space()
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount counts the words of the plain text of content.
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}

// Excerpt returns at most maxRunes runes of the plain text of content, cut
// at a word boundary and marked with an ellipsis when shortened.
func Excerpt(content string, maxRunes int) string {
	plain := PlainText(content)
	if maxRunes <= 0 || utf8.RuneCountInString(plain) <= maxRunes {
		return plain
	}
	runes := []rune(plain)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
