// Package transcode converts documents to JSON and YAML without building an
// intermediate Go value. Statements become object members in document order.
package transcode

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/armaconf/arma"
	"github.com/valyala/bytebufferpool"
)

// JSON writes text as JSON to w. A positive indent pretty-prints with that
// many spaces per level.
func JSON(w io.Writer, text string, indent int) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	jv := &jsonVisitor{buf: buf}
	if indent > 0 {
		jv.indent = strings.Repeat(" ", indent)
	}
	if err := arma.DecodeString(text, arma.ShapeAny, jv); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.B)
	return err
}

// jsonVisitor appends each value to buf as it is decoded. prefix holds the
// separator owed before the next value; it is dropped if no value follows.
type jsonVisitor struct {
	buf    *bytebufferpool.ByteBuffer
	indent string
	depth  int
	prefix string
}

func (j *jsonVisitor) begin() {
	j.buf.WriteString(j.prefix)
	j.prefix = ""
}

func (j *jsonVisitor) newline(depth int) string {
	if j.indent == "" {
		return ""
	}
	return "\n" + strings.Repeat(j.indent, depth)
}

func (j *jsonVisitor) VisitBool(v bool) error {
	j.begin()
	j.buf.B = strconv.AppendBool(j.buf.B, v)
	return nil
}

func (j *jsonVisitor) VisitUint64(v uint64) error {
	j.begin()
	j.buf.B = strconv.AppendUint(j.buf.B, v, 10)
	return nil
}

func (j *jsonVisitor) VisitInt64(v int64) error {
	j.begin()
	j.buf.B = strconv.AppendInt(j.buf.B, v, 10)
	return nil
}

func (j *jsonVisitor) VisitFloat64(v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("transcode: %v has no JSON representation", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	j.begin()
	j.buf.Write(b)
	return nil
}

func (j *jsonVisitor) VisitString(v arma.Text) error {
	j.begin()
	return j.quote(v.Value)
}

func (j *jsonVisitor) quote(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	j.buf.Write(b)
	return nil
}

func (j *jsonVisitor) VisitNull() error {
	j.begin()
	j.buf.WriteString("null")
	return nil
}

func (j *jsonVisitor) VisitSeq(s arma.SeqAccess) error {
	j.begin()
	j.buf.WriteByte('[')
	j.depth++
	n := 0
	for {
		sep := ","
		if n == 0 {
			sep = ""
		}
		j.prefix = sep + j.newline(j.depth)
		ok, err := s.NextElement(arma.ShapeAny, j)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		n++
	}
	j.prefix = ""
	j.depth--
	if n > 0 {
		j.buf.WriteString(j.newline(j.depth))
	}
	j.buf.WriteByte(']')
	return nil
}

func (j *jsonVisitor) VisitMap(m arma.MapAccess) error {
	j.begin()
	j.buf.WriteByte('{')
	j.depth++
	colon := ":"
	if j.indent != "" {
		colon = ": "
	}
	n := 0
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if n > 0 {
			j.buf.WriteByte(',')
		}
		j.buf.WriteString(j.newline(j.depth))
		if err := j.quote(key); err != nil {
			return err
		}
		j.buf.WriteString(colon)
		if err := m.NextValue(arma.ShapeAny, j); err != nil {
			return err
		}
		n++
	}
	j.depth--
	if n > 0 {
		j.buf.WriteString(j.newline(j.depth))
	}
	j.buf.WriteByte('}')
	return nil
}
