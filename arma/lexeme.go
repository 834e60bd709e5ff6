package arma

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/valyala/bytebufferpool"
)

const (
	// numberDelims end an unquoted numeric literal.
	numberDelims = ";,} \r\n\t"
	// classNameDelims end the name following the class keyword.
	classNameDelims = " \r\n\t{"
	// wordDelims end an unquoted string value.
	wordDelims = ";,}"
	// keyInvalid may not appear inside a bare key once it has been trimmed.
	keyInvalid = " \r\n\t;,{}\""
	// newlineJoin continues a quoted string on a new line: "a" \n "b".
	newlineJoin = ` \n "`
)

func (c *cursor) parseBool() (bool, error) {
	switch {
	case c.consume("true"):
		return true, nil
	case c.consume("false"):
		return false, nil
	}
	return false, c.fail(ErrExpectedBoolean, "")
}

func (c *cursor) parseNull() error {
	if c.consume("null") {
		return nil
	}
	return c.fail(ErrExpectedNull, "")
}

// literalAhead reports whether the input starts with word as a complete token.
func (c *cursor) literalAhead(word string) bool {
	if !strings.HasPrefix(c.rest, word) {
		return false
	}
	return len(c.rest) == len(word) || strings.IndexByte(numberDelims, c.rest[len(word)]) >= 0
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// numberToken returns the unconsumed text up to the next delimiter.
func (c *cursor) numberToken() string {
	n := strings.IndexAny(c.rest, numberDelims)
	if n < 0 {
		n = len(c.rest)
	}
	return c.rest[:n]
}

func isFloatToken(tok string) bool {
	return strings.ContainsAny(tok, ".eE")
}

func (c *cursor) parseUint() (uint64, error) {
	tok := c.numberToken()
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, c.numberError(ErrExpectedInteger, tok, err)
	}
	c.skip(len(tok))
	return v, nil
}

func (c *cursor) parseInt() (int64, error) {
	tok := c.numberToken()
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, c.numberError(ErrExpectedInteger, tok, err)
	}
	c.skip(len(tok))
	return v, nil
}

func (c *cursor) parseFloat() (float64, error) {
	tok := c.numberToken()
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, c.numberError(ErrExpectedFloat, tok, err)
	}
	c.skip(len(tok))
	return v, nil
}

func (c *cursor) numberError(kind error, tok string, err error) error {
	if tok == "" {
		if c.eof() {
			return c.fail(ErrUnexpectedEOF, "")
		}
		return c.fail(kind, fmt.Sprintf("found %q", c.rest[:1]))
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return c.fail(kind, fmt.Sprintf("%q: %v", tok, err))
}

// parseQuoted reads a quoted string. Strings without escapes are returned as
// substrings of the input.
func (c *cursor) parseQuoted() (Text, error) {
	if !c.consume(`"`) {
		return Text{}, c.fail(ErrSyntax, `expected '"'`)
	}
	var bb *bytebufferpool.ByteBuffer
	for {
		i := strings.IndexByte(c.rest, '"')
		if i < 0 {
			if bb != nil {
				bytebufferpool.Put(bb)
			}
			c.skip(len(c.rest))
			return Text{}, c.fail(ErrUnexpectedEOF, "unterminated string")
		}
		seg := c.take(i)
		c.skip(1)

		var join byte
		switch {
		case c.consume(`"`):
			join = '"'
		case c.consume(newlineJoin):
			join = '\n'
		default:
			if bb == nil {
				return Text{Value: seg, Borrowed: true}, nil
			}
			bb.WriteString(seg)
			s := bb.String()
			bytebufferpool.Put(bb)
			return Text{Value: s}, nil
		}

		if bb == nil {
			bb = bytebufferpool.Get()
		}
		bb.WriteString(seg)
		bb.WriteByte(join)
	}
}

// parseClassName reads the name after the class keyword.
func (c *cursor) parseClassName() (string, error) {
	c.skipSpace()
	n := strings.IndexAny(c.rest, classNameDelims)
	if n < 0 {
		return "", c.fail(ErrUnexpectedEOF, "class name without body")
	}
	name := strings.TrimSpace(c.rest[:n])
	if name == "" || strings.ContainsAny(name, keyInvalid+"=") {
		return "", c.fail(ErrSyntax, fmt.Sprintf("invalid class name %q", name))
	}
	c.skip(n)
	return name, nil
}

// parseKey reads a bare key up to, but not including, the '='. A trailing []
// marker is stripped and reported through array.
func (c *cursor) parseKey() (key string, array bool, err error) {
	n := strings.IndexByte(c.rest, '=')
	if n < 0 {
		return "", false, c.fail(ErrUnexpectedEOF, "expected '=' after key")
	}
	key = strings.TrimSpace(c.rest[:n])
	if i := strings.IndexByte(key, '['); i >= 0 {
		if strings.Join(strings.Fields(key[i:]), "") != "[]" {
			return "", false, c.fail(ErrSyntax, fmt.Sprintf("invalid array marker in key %q", key))
		}
		key, array = strings.TrimSpace(key[:i]), true
	}
	if key == "" || strings.ContainsAny(key, keyInvalid) {
		return "", false, c.fail(ErrSyntax, fmt.Sprintf("invalid key %q", key))
	}
	c.skip(n)
	return key, array, nil
}

// parseWord reads an unquoted string value.
func (c *cursor) parseWord() (Text, error) {
	n := strings.IndexAny(c.rest, wordDelims)
	if n < 0 {
		n = len(c.rest)
	}
	w := strings.TrimSpace(c.rest[:n])
	if w == "" || strings.ContainsAny(w, "{=\"") {
		return Text{}, c.fail(ErrSyntax, "expected string")
	}
	c.skip(n)
	return Text{Value: w, Borrowed: true}, nil
}
