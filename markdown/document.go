package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind is the type of a top-level block.
type Kind int

// Block kinds.
const (
	KindOther Kind = iota
	KindHeading
	KindParagraph
	KindFencedCode
	KindCode
	KindList
	KindThematicBreak
	KindHTML
	KindQuote
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindFencedCode:
		return "fenced-code"
	case KindCode:
		return "code"
	case KindList:
		return "list"
	case KindThematicBreak:
		return "thematic-break"
	case KindHTML:
		return "html"
	case KindQuote:
		return "quote"
	case KindOther:
	}

	return "other"
}

var (
	thematicBreakRe = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	fenceRe         = regexp.MustCompile("^ {0,3}(?:```|~~~)")
	atxRe           = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
)

// Block is one top-level markdown block.
type Block struct {
	// Node is the underlying goldmark node.
	Node ast.Node
	// Text is the flattened inline text of headings and paragraphs.
	Text string
	// Info is the info string of fenced code blocks.
	Info string
	// Kind is the block type.
	Kind Kind
	// Level is the heading level (1-6), or 0.
	Level int
	// Line is the 0-based source line where the block starts.
	Line int
	// EndLine is the 0-based source line of the block's last content line.
	EndLine int
	// Setext is true for headings written with an underline.
	Setext bool
}

// IsHeading reports whether b is a heading of the given level. A level of
// -1 matches any heading.
func (b *Block) IsHeading(level int) bool {
	return b != nil && b.Kind == KindHeading && (level == -1 || b.Level == level)
}

// Document is a parsed markdown file.
type Document struct {
	source     []byte
	lines      []string
	lineStarts []int
	blocks     []Block
}

// NewDocument parses src with goldmark and indexes its top-level blocks.
func NewDocument(src []byte) *Document {
	d := &Document{source: src}
	d.indexLines()

	root := goldmark.New().Parser().Parse(text.NewReader(src))

	minLine := 0

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		b := d.newBlock(n, minLine)
		d.blocks = append(d.blocks, b)
		minLine = max(b.EndLine+1, b.Line+1)
	}

	return d
}

func (d *Document) indexLines() {
	raw := strings.Split(string(d.source), "\n")

	d.lines = make([]string, len(raw))
	d.lineStarts = make([]int, len(raw))

	offset := 0
	for i, l := range raw {
		d.lineStarts[i] = offset
		offset += len(l) + 1
		d.lines[i] = strings.TrimRight(l, "\r")
	}
}

// lineOf returns the 0-based line containing byte offset off.
func (d *Document) lineOf(off int) int {
	return sort.SearchInts(d.lineStarts, off+1) - 1
}

func (d *Document) newBlock(n ast.Node, minLine int) Block {
	b := Block{Node: n}

	switch node := n.(type) {
	case *ast.Heading:
		b.Kind = KindHeading
		b.Level = node.Level
		b.Text = InlineText(n, d.source)
	case *ast.Paragraph:
		b.Kind = KindParagraph
		b.Text = InlineText(n, d.source)
	case *ast.FencedCodeBlock:
		b.Kind = KindFencedCode
		if node.Info != nil {
			b.Info = strings.TrimSpace(string(node.Info.Segment.Value(d.source)))
		}
	case *ast.CodeBlock:
		b.Kind = KindCode
	case *ast.List:
		b.Kind = KindList
	case *ast.ThematicBreak:
		b.Kind = KindThematicBreak
	case *ast.HTMLBlock:
		b.Kind = KindHTML
	case *ast.Blockquote:
		b.Kind = KindQuote
	}

	b.Line, b.EndLine = d.blockLines(n, b.Kind, minLine)

	if b.Kind == KindHeading {
		b.Setext = !atxRe.MatchString(d.Line(b.Line))
		if b.Setext {
			// The underline follows the last text line.
			b.EndLine++
		}
	}

	return b
}

// blockLines finds the first and last source lines of a block. Most blocks
// carry line segments; thematic breaks and empty fences do not, so their
// line is found by scanning forward from minLine.
func (d *Document) blockLines(n ast.Node, kind Kind, minLine int) (int, int) {
	switch kind {
	case KindThematicBreak:
		l := d.scan(minLine, thematicBreakRe)
		return l, l

	case KindFencedCode:
		start := d.scan(minLine, fenceRe)

		end := start
		if last, ok := d.lastSegmentLine(n); ok {
			end = last
		}
		// Include the closing fence when present.
		if end+1 < len(d.lines) && fenceRe.MatchString(d.lines[end+1]) {
			end++
		}

		return start, end

	case KindHeading:
		if first, ok := d.firstSegmentLine(n); ok {
			last, _ := d.lastSegmentLine(n)
			return first, last
		}

		l := d.scan(minLine, atxRe)

		return l, l
	}

	first, ok := d.firstSegmentLine(n)
	if !ok {
		return minLine, minLine
	}

	last, _ := d.lastSegmentLine(n)

	return first, max(first, last)
}

func (d *Document) scan(from int, re *regexp.Regexp) int {
	for i := from; i < len(d.lines); i++ {
		if re.MatchString(d.lines[i]) {
			return i
		}
	}

	return min(from, max(len(d.lines)-1, 0))
}

func (d *Document) firstSegmentLine(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return d.lineOf(lines.At(0).Start), true
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := d.firstSegmentLine(c); ok {
			return l, true
		}
	}

	return 0, false
}

func (d *Document) lastSegmentLine(n ast.Node) (int, bool) {
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if l, ok := d.lastSegmentLine(c); ok {
			return l, true
		}
	}

	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			seg := lines.At(lines.Len() - 1)
			return d.lineOf(max(seg.Start, seg.Stop-1)), true
		}
	}

	return 0, false
}

// Source returns the raw document bytes.
func (d *Document) Source() []byte {
	return d.source
}

// Blocks returns the top-level blocks. Callers must not modify them.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Block returns the block at index i, or nil.
func (d *Document) Block(i int) *Block {
	if i < 0 || i >= len(d.blocks) {
		return nil
	}

	return &d.blocks[i]
}

// Len returns the number of top-level blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// LineCount returns the number of source lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the 0-based source line i without its line ending, or "".
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}

	return d.lines[i]
}

// LineRange returns source lines [from, to) joined with "\n". Bounds are
// clamped; to < 0 means the end of the document.
func (d *Document) LineRange(from, to int) string {
	if to < 0 || to > len(d.lines) {
		to = len(d.lines)
	}

	from = max(from, 0)
	if from >= to {
		return ""
	}

	return strings.Join(d.lines[from:to], "\n")
}

// Code returns the content of a fenced or indented code block.
func (d *Document) Code(b *Block) string {
	if b == nil || (b.Kind != KindFencedCode && b.Kind != KindCode) {
		return ""
	}

	var sb strings.Builder

	lines := b.Node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(d.source))
	}

	return strings.TrimRight(strings.ReplaceAll(sb.String(), "\r\n", "\n"), "\n")
}

// Links returns the hyperlinks inside block b in source order.
func (d *Document) Links(b *Block) []Link {
	if b == nil {
		return nil
	}

	return Links(b.Node, d.source)
}
