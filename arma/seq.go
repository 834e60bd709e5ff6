package arma

// seqAccess walks the elements of an array body. The enclosing seq call owns
// the braces.
type seqAccess struct {
	d     *Decoder
	first bool
}

func (s *seqAccess) NextElement(shape Shape, v Visitor) (bool, error) {
	c := &s.d.cur
	c.skipSpace()
	r, ok := c.peek()
	if !ok {
		return false, c.fail(ErrUnexpectedEOF, "unclosed array")
	}
	if r == '}' {
		return false, nil
	}
	if !s.first {
		if r != ',' {
			return false, c.fail(ErrExpectedArrayComma, "")
		}
		c.skip(1)
	}
	s.first = false
	return true, s.d.value(frame{}, shape, v)
}
