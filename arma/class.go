package arma

import (
	"errors"
	"strings"
)

var errAccessOrder = errors.New("arma: NextKey and NextValue must alternate")

// classAccess walks the statements of a class body. The enclosing class call
// owns the braces.
type classAccess struct {
	d      *Decoder
	braced bool

	// pending is the frame for the value of the key last returned.
	pending frame
	keyed   bool
}

func (m *classAccess) NextKey() (string, bool, error) {
	if m.keyed {
		return "", false, errAccessOrder
	}
	c := &m.d.cur
	c.skipSpace()
	r, ok := c.peek()
	switch {
	case !ok && m.braced:
		return "", false, c.fail(ErrUnexpectedEOF, "unclosed class body")
	case !ok:
		return "", false, nil
	case r == '}' && m.braced:
		return "", false, nil
	case r == '}':
		return "", false, c.fail(ErrSyntax, "unexpected '}'")
	}

	f := frame{bareKey: true}
	if m.atClassKeyword() {
		c.skip(len("class"))
		f = frame{classBody: true}
	}
	key, array, err := m.d.key(f)
	if err != nil {
		return "", false, err
	}
	m.pending = frame{classBody: f.classBody, arrayField: array}
	m.keyed = true
	return key, true, nil
}

func (m *classAccess) NextValue(shape Shape, v Visitor) error {
	if !m.keyed {
		return errAccessOrder
	}
	m.keyed = false
	if err := m.d.value(m.pending, shape, v); err != nil {
		return err
	}
	c := &m.d.cur
	if !c.expect(';') {
		if m.pending.classBody {
			return c.fail(ErrSyntax, "expected ';' after class body")
		}
		return c.fail(ErrSyntax, "expected ';' after value")
	}
	return nil
}

// atClassKeyword reports whether the statement starts with the class keyword
// rather than a field that happens to be named class.
func (m *classAccess) atClassKeyword() bool {
	rest := m.d.cur.rest
	if !strings.HasPrefix(rest, "class") || len(rest) == len("class") {
		return false
	}
	if strings.IndexByte(whitespace, rest[len("class")]) < 0 {
		return false
	}
	next := strings.TrimLeft(rest[len("class"):], whitespace)
	return next != "" && next[0] != '=' && next[0] != '['
}
