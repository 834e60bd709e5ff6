package arma

import (
	"strings"
	"unicode/utf8"
)

// whitespace is insignificant between tokens.
const whitespace = " \r\n\t"

// cursor is a forward-only view over the unconsumed input.
type cursor struct {
	rest string
	// off is the byte offset of rest within the original input.
	off int
}

func newCursor(input string) cursor {
	return cursor{rest: input}
}

// peek returns the next rune without consuming it. ok is false at end of input.
func (c *cursor) peek() (r rune, ok bool) {
	if len(c.rest) == 0 {
		return 0, false
	}
	if b := c.rest[0]; b < utf8.RuneSelf {
		return rune(b), true
	}
	r, _ = utf8.DecodeRuneInString(c.rest)
	return r, true
}

func (c *cursor) skip(n int) {
	c.rest = c.rest[n:]
	c.off += n
}

func (c *cursor) eof() bool {
	return len(c.rest) == 0
}

func (c *cursor) hasPrefix(p string) bool {
	return strings.HasPrefix(c.rest, p)
}

// consume skips p if the input starts with it.
func (c *cursor) consume(p string) bool {
	if !strings.HasPrefix(c.rest, p) {
		return false
	}
	c.skip(len(p))
	return true
}

// take consumes and returns the next n bytes.
func (c *cursor) take(n int) string {
	s := c.rest[:n]
	c.skip(n)
	return s
}

func (c *cursor) skipSpace() {
	n := 0
	for n < len(c.rest) && strings.IndexByte(whitespace, c.rest[n]) >= 0 {
		n++
	}
	c.skip(n)
}

// expect skips whitespace and consumes b, returning false if the next
// significant byte is something else.
func (c *cursor) expect(b byte) bool {
	c.skipSpace()
	if len(c.rest) == 0 || c.rest[0] != b {
		return false
	}
	c.skip(1)
	return true
}

func (c *cursor) fail(kind error, msg string) error {
	return &SyntaxError{Err: kind, Offset: c.off, Msg: msg}
}
