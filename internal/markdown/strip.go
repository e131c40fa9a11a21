// Package markdown converts model answers written in markdown to plain text
// suitable for posting.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var parser = goldmark.New().Parser()

// Strip removes markdown formatting from src and returns the text content.
// Block elements end up on their own lines, thematic breaks become "---"
// divider lines, and inline HTML is dropped.
func Strip(src string) string {
	source := []byte(src)
	doc := parser.Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(node.URL(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				newline(&buf)
			}
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			if entering {
				newline(&buf)
				buf.WriteString("---\n")
			}
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if !entering {
				newline(&buf)
			}
		}
		return ast.WalkContinue, nil
	})

	return tidy(buf.String())
}

// newline ends the current line unless it is already ended.
func newline(buf *bytes.Buffer) {
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
}

// tidy trims trailing spaces per line and the result as a whole.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
