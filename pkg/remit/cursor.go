package remit

import "github.com/oarkflow/edi835/pkg/tokenizer"

// Cursor is a one-record lookahead reader over the tokenized segment
// stream. Loop builders peek to decide ownership and consume only the
// segments that belong to them; a terminating segment is always left
// unconsumed for the caller.
type Cursor struct {
	segments []tokenizer.Segment
	pos      int
}

// NewCursor wraps an ordered segment sequence.
func NewCursor(segments []tokenizer.Segment) *Cursor {
	return &Cursor{segments: segments}
}

// Peek returns the next segment without consuming it.
func (c *Cursor) Peek() (tokenizer.Segment, bool) {
	if c.pos >= len(c.segments) {
		return tokenizer.Segment{}, false
	}
	return c.segments[c.pos], true
}

// Next consumes and returns the next segment.
func (c *Cursor) Next() (tokenizer.Segment, bool) {
	seg, ok := c.Peek()
	if ok {
		c.pos++
	}
	return seg, ok
}

// Pos is the 1-based position of the segment Peek would return, used
// in structural error reports.
func (c *Cursor) Pos() int {
	return c.pos + 1
}
