package markdown

import "strings"

// Cursor is a forward read position over the blocks of a [Document].
//
// The block at the cursor is the current block; [Cursor.Take] returns it and
// advances. One [Cursor.UnGet] may follow each Take. A Cursor is not safe for
// concurrent use; give each reader its own.
type Cursor struct {
	doc       *Document
	pos       int
	canUnget  bool
	exhausted bool
}

// Cursor returns a new cursor positioned at the first block.
func (d *Document) Cursor() *Cursor {
	return &Cursor{doc: d}
}

// Document returns the document the cursor reads.
func (c *Cursor) Document() *Document {
	return c.doc
}

// Position returns the index of the current block, or -1 at the end.
func (c *Cursor) Position() int {
	if c.IsEnd() {
		return -1
	}

	return c.pos
}

// IsEnd reports whether every block has been consumed.
func (c *Cursor) IsEnd() bool {
	return c.exhausted || c.pos >= c.doc.Len()
}

// Reset returns the cursor to the first block.
func (c *Cursor) Reset() {
	c.pos = 0
	c.canUnget = false
	c.exhausted = false
}

// Seek moves the cursor to block index i. Out-of-range values move it to
// the end.
func (c *Cursor) Seek(i int) {
	c.canUnget = false

	if i < 0 || i >= c.doc.Len() {
		c.pos = c.doc.Len()
		c.exhausted = true

		return
	}

	c.pos = i
	c.exhausted = false
}

// Current returns the block at the cursor without consuming it, or nil at
// the end.
func (c *Cursor) Current() *Block {
	if c.IsEnd() {
		return nil
	}

	return c.doc.Block(c.pos)
}

// Peek returns the block after the current one without moving, or nil.
func (c *Cursor) Peek() *Block {
	if c.IsEnd() {
		return nil
	}

	return c.doc.Block(c.pos + 1)
}

// Take returns the current block and advances past it. At the end it
// returns nil and the cursor stays pinned at the end.
func (c *Cursor) Take() *Block {
	if c.IsEnd() {
		c.exhausted = true
		c.canUnget = false

		return nil
	}

	b := c.doc.Block(c.pos)
	c.pos++
	c.canUnget = true

	return b
}

// UnGet steps back over the block returned by the most recent Take. It
// reports false when there is nothing to step back over.
func (c *Cursor) UnGet() bool {
	if !c.canUnget {
		return false
	}

	c.pos--
	c.canUnget = false
	c.exhausted = false

	return true
}

// FindHeader scans forward from the block after the current one for a
// heading of the given level whose text equals title, ignoring case. An
// empty title matches any heading; a level of -1 matches any level. It
// returns the block index, or -1.
func (c *Cursor) FindHeader(level int, title string) int {
	if c.IsEnd() {
		return -1
	}

	for i := c.pos + 1; i < c.doc.Len(); i++ {
		b := c.doc.Block(i)
		if !b.IsHeading(level) {
			continue
		}

		if title == "" || strings.EqualFold(strings.TrimSpace(b.Text), title) {
			return i
		}
	}

	return -1
}

// FindHeaderBefore is FindHeader bounded by the block index limit. A limit
// of -1 means the end of the document.
func (c *Cursor) FindHeaderBefore(level int, title string, limit int) int {
	i := c.FindHeader(level, title)
	if i < 0 || (limit >= 0 && i >= limit) {
		return -1
	}

	return i
}

// StringFromAST returns the original source text from the current block's
// first line up to, but not including, the first line of block endIndex.
// An endIndex of -1 extends to the end of the document. The result is
// trimmed.
func (c *Cursor) StringFromAST(endIndex int) string {
	cur := c.Current()
	if cur == nil {
		return ""
	}

	endLine := -1

	if end := c.doc.Block(endIndex); end != nil {
		if endIndex <= c.pos {
			return ""
		}

		endLine = end.Line
	}

	return strings.TrimSpace(c.doc.LineRange(cur.Line, endLine))
}

// TextLine returns the 1-based source line of block index i, or -1.
func (c *Cursor) TextLine(i int) int {
	b := c.doc.Block(i)
	if b == nil {
		return -1
	}

	return b.Line + 1
}

// CurrentLine returns the 1-based source line of the current block, or -1.
func (c *Cursor) CurrentLine() int {
	return c.TextLine(c.Position())
}
