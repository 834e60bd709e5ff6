package arma

// Shape is the kind of value a caller expects at the current position. ShapeAny
// lets the decoder pick a grammar rule from the next input character; every
// other shape directs the decoder to one rule.
type Shape uint8

const (
	ShapeAny Shape = iota
	ShapeBool
	ShapeUint
	ShapeInt
	ShapeFloat
	ShapeString
	ShapeNull
	ShapeSeq
	ShapeMap
	ShapeStruct
	ShapeEnum
)

const nullableBit Shape = 0x80

// Nullable marks s as also accepting the null literal.
func Nullable(s Shape) Shape {
	return s | nullableBit
}

// Kind strips the nullable marker.
func (s Shape) Kind() Shape {
	return s &^ nullableBit
}

func (s Shape) IsNullable() bool {
	return s&nullableBit != 0
}

func (s Shape) String() string {
	var name string
	switch s.Kind() {
	case ShapeAny:
		name = "any"
	case ShapeBool:
		name = "bool"
	case ShapeUint:
		name = "uint"
	case ShapeInt:
		name = "int"
	case ShapeFloat:
		name = "float"
	case ShapeString:
		name = "string"
	case ShapeNull:
		name = "null"
	case ShapeSeq:
		name = "array"
	case ShapeMap:
		name = "map"
	case ShapeStruct:
		name = "struct"
	case ShapeEnum:
		name = "enum"
	default:
		name = "invalid"
	}
	if s.IsNullable() {
		return "nullable " + name
	}
	return name
}

// Text is a decoded string value.
//
// A Borrowed value is a substring of the decoder's input and keeps the whole
// input reachable while it is retained; use strings.Clone to detach it. Values
// that needed escape processing are always freshly allocated.
type Text struct {
	Value    string
	Borrowed bool
}

// Visitor receives decoded values. Exactly one method is called per decoded
// value. Any error returned aborts decoding and is returned to the caller
// unchanged.
type Visitor interface {
	VisitBool(v bool) error
	VisitUint64(v uint64) error
	VisitInt64(v int64) error
	VisitFloat64(v float64) error
	VisitString(v Text) error
	VisitNull() error
	// VisitSeq must call NextElement until it reports no more elements.
	VisitSeq(s SeqAccess) error
	// VisitMap must call NextKey until it reports no more keys, following
	// every key with exactly one NextValue.
	VisitMap(m MapAccess) error
}

// SeqAccess yields the elements of an array body.
type SeqAccess interface {
	// NextElement decodes the next element into v. ok is false once the
	// closing brace has been reached; v is not called in that case.
	NextElement(shape Shape, v Visitor) (ok bool, err error)
}

// MapAccess yields the statements of a class body.
type MapAccess interface {
	// NextKey reads the next statement's key. ok is false at the end of the
	// body.
	NextKey() (key string, ok bool, err error)
	// NextValue decodes the value for the key last returned by NextKey.
	NextValue(shape Shape, v Visitor) error
}
