package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Link is a hyperlink found in inline content.
type Link struct {
	URL  string
	Text string
}

// InlineText flattens the inline children of n into plain text. Code span
// and emphasis markers are dropped, soft line breaks become spaces.
func InlineText(n ast.Node, src []byte) string {
	var sb strings.Builder

	writeInline(&sb, n, src)

	return strings.TrimSpace(sb.String())
}

func writeInline(sb *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))

			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.URL(src))
		case *ast.RawHTML:
			segs := node.Segments
			for i := range segs.Len() {
				seg := segs.At(i)
				sb.Write(seg.Value(src))
			}
		default:
			writeInline(sb, c, src)
		}
	}
}

// Links returns every hyperlink below n in source order. A link without
// text yields an entry with an empty Text.
func Links(n ast.Node, src []byte) []Link {
	var links []Link

	//nolint:errcheck // the walker never returns an error.
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch l := node.(type) {
		case *ast.Link:
			links = append(links, Link{
				URL:  string(l.Destination),
				Text: InlineText(l, src),
			})

			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			links = append(links, Link{
				URL:  string(l.URL(src)),
				Text: string(l.Label(src)),
			})

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return links
}
