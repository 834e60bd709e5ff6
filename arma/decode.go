package arma

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// maxDepth bounds nesting of class and array bodies.
const maxDepth = 10000

// frame carries the contextual flags for a single dispatch. A fresh frame is
// built for every recursive call, so flags never outlive the value they
// describe.
type frame struct {
	// root is set for the document-level value, whose body may omit braces.
	root bool
	// classBody is set when the value follows "class Name".
	classBody bool
	// bareKey is set when the next scalar is an unquoted key.
	bareKey bool
	// arrayField is set when the key carried a [] marker.
	arrayField bool
}

// Decoder reads one document from an input stream.
type Decoder struct {
	r   io.Reader
	cur cursor

	loaded  bool
	checked bool
	done    bool
	depth   int

	disallowUnknownFields bool
}

// NewDecoder returns a decoder that reads its document from r. The whole
// stream is read on the first call to Decode.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func newStringDecoder(s string) *Decoder {
	return &Decoder{cur: newCursor(s), loaded: true}
}

// DisallowUnknownFields makes Decode fail when a statement names a field that
// the destination struct does not have.
func (d *Decoder) DisallowUnknownFields() {
	d.disallowUnknownFields = true
}

// InputOffset returns the byte offset of the first unconsumed input byte.
func (d *Decoder) InputOffset() int {
	return d.cur.off
}

// DecodeString decodes text with a caller-supplied visitor.
func DecodeString(text string, shape Shape, v Visitor) error {
	return newStringDecoder(text).DecodeValue(shape, v)
}

// DecodeValue decodes the document into v, which declares shape. It fails
// with ErrTrailingCharacters if input remains after the value.
func (d *Decoder) DecodeValue(shape Shape, v Visitor) error {
	if err := d.load(); err != nil {
		return err
	}
	if err := d.value(frame{root: true}, shape, v); err != nil {
		return err
	}
	return d.finish()
}

func (d *Decoder) load() error {
	if d.done {
		return io.EOF
	}
	if !d.loaded {
		data, err := io.ReadAll(d.r)
		if err != nil {
			return fmt.Errorf("arma: reading input: %w", err)
		}
		d.cur = newCursor(string(data))
		d.loaded = true
	}
	if !d.checked {
		if off := invalidUTF8(d.cur.rest); off >= 0 {
			return &SyntaxError{Err: ErrSyntax, Offset: d.cur.off + off, Msg: "input is not valid UTF-8"}
		}
		d.checked = true
	}
	return nil
}

// invalidUTF8 returns the index of the first byte of s that does not start a
// valid UTF-8 sequence, or -1.
func invalidUTF8(s string) int {
	if utf8.ValidString(s) {
		return -1
	}
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

func (d *Decoder) finish() error {
	d.cur.skipSpace()
	if !d.cur.eof() {
		return d.cur.fail(ErrTrailingCharacters, "")
	}
	d.done = true
	return nil
}

// value is the dispatch point for every value in the document.
func (d *Decoder) value(f frame, shape Shape, v Visitor) error {
	d.cur.skipSpace()
	kind := shape.Kind()
	if d.cur.eof() && !(f.root && (kind == ShapeMap || kind == ShapeStruct || kind == ShapeAny)) {
		return d.cur.fail(ErrUnexpectedEOF, "expected "+shape.String())
	}
	if kind == ShapeAny {
		return d.inferred(f, v)
	}
	return d.directed(f, shape, v)
}

// inferred picks a grammar rule from the next input character.
func (d *Decoder) inferred(f frame, v Visitor) error {
	c := &d.cur
	if f.classBody {
		return d.class(f, v)
	}
	if f.root && (c.eof() || d.atStatement()) {
		return d.class(f, v)
	}

	r, _ := c.peek()
	switch {
	case c.literalAhead("null"):
		c.skip(len("null"))
		return v.VisitNull()
	case c.literalAhead("true"):
		c.skip(len("true"))
		return v.VisitBool(true)
	case c.literalAhead("false"):
		c.skip(len("false"))
		return v.VisitBool(false)
	case isIdentStart(r):
		t, err := c.parseWord()
		if err != nil {
			return err
		}
		return v.VisitString(t)
	case r == '"':
		t, err := c.parseQuoted()
		if err != nil {
			return err
		}
		return v.VisitString(t)
	case r == '-' || (r >= '0' && r <= '9'):
		return d.number(v)
	case r == '{':
		return d.seq(f, v)
	}
	return c.fail(ErrSyntax, fmt.Sprintf("unexpected %q", r))
}

// atStatement reports whether a document-level value looks like the start of
// a statement rather than a scalar literal. A literal followed by '=' or '['
// is a key.
func (d *Decoder) atStatement() bool {
	r, _ := d.cur.peek()
	if !isIdentStart(r) {
		return false
	}
	for _, lit := range [...]string{"true", "false", "null"} {
		if d.cur.literalAhead(lit) {
			after := strings.TrimLeft(d.cur.rest[len(lit):], whitespace)
			return strings.HasPrefix(after, "=") || strings.HasPrefix(after, "[")
		}
	}
	return true
}

func (d *Decoder) number(v Visitor) error {
	c := &d.cur
	tok := c.numberToken()
	switch {
	case isFloatToken(tok):
		n, err := c.parseFloat()
		if err != nil {
			return err
		}
		return v.VisitFloat64(n)
	case tok != "" && tok[0] == '-':
		n, err := c.parseInt()
		if err != nil {
			return err
		}
		return v.VisitInt64(n)
	}
	n, err := c.parseUint()
	if err != nil {
		return err
	}
	return v.VisitUint64(n)
}

// directed applies the grammar rule the caller declared.
func (d *Decoder) directed(f frame, shape Shape, v Visitor) error {
	c := &d.cur
	if shape.IsNullable() && c.literalAhead("null") {
		c.skip(len("null"))
		return v.VisitNull()
	}

	kind := shape.Kind()
	if f.classBody && kind != ShapeSeq && kind != ShapeMap && kind != ShapeStruct {
		return c.fail(ErrSyntax, "class body cannot be decoded as "+kind.String())
	}

	switch kind {
	case ShapeBool:
		b, err := c.parseBool()
		if err != nil {
			return err
		}
		return v.VisitBool(b)
	case ShapeUint:
		n, err := c.parseUint()
		if err != nil {
			return err
		}
		return v.VisitUint64(n)
	case ShapeInt:
		n, err := c.parseInt()
		if err != nil {
			return err
		}
		return v.VisitInt64(n)
	case ShapeFloat:
		n, err := c.parseFloat()
		if err != nil {
			return err
		}
		return v.VisitFloat64(n)
	case ShapeString:
		t, err := d.text()
		if err != nil {
			return err
		}
		return v.VisitString(t)
	case ShapeNull:
		if err := c.parseNull(); err != nil {
			return err
		}
		return v.VisitNull()
	case ShapeSeq:
		if f.classBody {
			return c.fail(ErrExpectedArray, "found class body")
		}
		return d.seq(f, v)
	case ShapeMap, ShapeStruct:
		if f.arrayField {
			return c.fail(ErrExpectedMap, "found array-valued field")
		}
		return d.class(f, v)
	case ShapeEnum:
		return c.fail(ErrUnsupported, "enum values cannot be decoded")
	default:
		return c.fail(ErrUnsupported, "unknown shape "+kind.String())
	}
}

// text reads a string value, quoted or unquoted.
func (d *Decoder) text() (Text, error) {
	if d.cur.hasPrefix(`"`) {
		return d.cur.parseQuoted()
	}
	return d.cur.parseWord()
}

// key reads a statement key in class-name mode or bare mode, as selected by
// the frame. A bare key's '=' is consumed.
func (d *Decoder) key(f frame) (name string, array bool, err error) {
	c := &d.cur
	switch {
	case f.classBody:
		name, err = c.parseClassName()
		return name, false, err
	case f.bareKey:
		name, array, err = c.parseKey()
		if err != nil {
			return "", false, err
		}
		c.skip(len("="))
		return name, array, nil
	}
	return "", false, c.fail(ErrSyntax, "expected key")
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > maxDepth {
		return d.cur.fail(ErrSyntax, fmt.Sprintf("exceeded max depth of %d", maxDepth))
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// seq decodes an array body.
func (d *Decoder) seq(_ frame, v Visitor) error {
	c := &d.cur
	if !c.consume("{") {
		return c.fail(ErrExpectedArray, "")
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	if err := v.VisitSeq(&seqAccess{d: d, first: true}); err != nil {
		return err
	}
	if !c.expect('}') {
		return c.fail(ErrExpectedArrayEnd, "")
	}
	return nil
}

// class decodes a class body. Only the document-level body may omit braces.
func (d *Decoder) class(f frame, v Visitor) error {
	c := &d.cur
	braced := c.consume("{")
	if !braced && !f.root {
		return c.fail(ErrExpectedMap, "")
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	if err := v.VisitMap(&classAccess{d: d, braced: braced}); err != nil {
		return err
	}
	if braced && !c.expect('}') {
		return c.fail(ErrExpectedMapEnd, "")
	}
	return nil
}
