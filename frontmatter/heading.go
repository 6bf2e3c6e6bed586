// ABOUTME: Finds the first level-one Markdown heading in a document body using goldmark.
// ABOUTME: Used as an opt-in title source when the header carries no title.
package frontmatter

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// firstHeading returns the plain text of the first "# Heading" in body, or
// an empty string when there is none.
func firstHeading(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = inlineText(h, body)
		if title == "" {
			return ast.WalkContinue, nil
		}
		return ast.WalkStop, nil
	})
	return title
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
