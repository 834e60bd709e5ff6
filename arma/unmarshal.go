package arma

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// Unmarshal decodes a document into the value pointed to by v.
//
// Go types declare what the document must contain: bools, integers, floats
// and strings take the matching literal; slices and arrays take array bodies;
// structs and maps keyed by strings take class bodies; pointers also accept
// null; interface{} values receive the types documented on Class.
// Struct fields are matched by their arma tag or name, case-insensitively.
func Unmarshal(data []byte, v any) error {
	return newStringDecoder(string(data)).Decode(v)
}

// UnmarshalString is Unmarshal for string input. Decoded strings that needed
// no escape processing share memory with text.
func UnmarshalString(text string, v any) error {
	return newStringDecoder(text).Decode(v)
}

// Decode reads the document and stores it in the value pointed to by v.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}
	shape, err := d.shapeOf(rv.Type().Elem())
	if err != nil {
		return err
	}
	return d.DecodeValue(shape, valueVisitor{d: d, v: rv.Elem()})
}

// shapeOf declares the shape a Go type expects.
func (d *Decoder) shapeOf(t reflect.Type) (Shape, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return ShapeString, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return ShapeBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ShapeInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ShapeUint, nil
	case reflect.Float32, reflect.Float64:
		return ShapeFloat, nil
	case reflect.String:
		return ShapeString, nil
	case reflect.Slice, reflect.Array:
		return ShapeSeq, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return 0, d.unsupported(t)
		}
		return ShapeMap, nil
	case reflect.Struct:
		return ShapeStruct, nil
	case reflect.Pointer:
		elem, err := d.shapeOf(t.Elem())
		if err != nil {
			return 0, err
		}
		return Nullable(elem), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return ShapeAny, nil
		}
	}
	return 0, d.unsupported(t)
}

func (d *Decoder) unsupported(t reflect.Type) error {
	return d.cur.fail(ErrUnsupported, "cannot decode into "+t.String())
}

// valueVisitor stores decoded values into v, which must be settable.
type valueVisitor struct {
	d     *Decoder
	v     reflect.Value
	field string
}

// target follows pointers, allocating as needed, to the value that receives
// a non-null literal.
func (vv valueVisitor) target() reflect.Value {
	v := vv.v
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

func (vv valueVisitor) typeError(what string, t reflect.Type) error {
	return &UnmarshalTypeError{Value: what, Type: t, Field: vv.field, Offset: vv.d.cur.off}
}

func (vv valueVisitor) generic() (genericVisitor, reflect.Value, bool) {
	v := vv.target()
	if v.Kind() != reflect.Interface || v.NumMethod() != 0 {
		return genericVisitor{}, v, false
	}
	return genericVisitor{out: new(any)}, v, true
}

func (vv valueVisitor) VisitBool(b bool) error {
	v := vv.target()
	switch {
	case v.Kind() == reflect.Bool:
		v.SetBool(b)
	case v.Kind() == reflect.Interface && v.NumMethod() == 0:
		v.Set(reflect.ValueOf(b))
	default:
		return vv.typeError("bool", v.Type())
	}
	return nil
}

func (vv valueVisitor) VisitUint64(n uint64) error {
	v := vv.target()
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.OverflowUint(n) {
			return vv.typeError("number "+strconv.FormatUint(n, 10), v.Type())
		}
		v.SetUint(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || v.OverflowInt(int64(n)) {
			return vv.typeError("number "+strconv.FormatUint(n, 10), v.Type())
		}
		v.SetInt(int64(n))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(n))
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return vv.typeError("number", v.Type())
		}
		v.Set(reflect.ValueOf(n))
	default:
		return vv.typeError("number", v.Type())
	}
	return nil
}

func (vv valueVisitor) VisitInt64(n int64) error {
	v := vv.target()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(n) {
			return vv.typeError("number "+strconv.FormatInt(n, 10), v.Type())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n < 0 || v.OverflowUint(uint64(n)) {
			return vv.typeError("number "+strconv.FormatInt(n, 10), v.Type())
		}
		v.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(n))
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return vv.typeError("number", v.Type())
		}
		v.Set(reflect.ValueOf(n))
	default:
		return vv.typeError("number", v.Type())
	}
	return nil
}

func (vv valueVisitor) VisitFloat64(n float64) error {
	v := vv.target()
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if v.OverflowFloat(n) {
			return vv.typeError("number "+strconv.FormatFloat(n, 'g', -1, 64), v.Type())
		}
		v.SetFloat(n)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return vv.typeError("number", v.Type())
		}
		v.Set(reflect.ValueOf(n))
	default:
		return vv.typeError("number "+strconv.FormatFloat(n, 'g', -1, 64), v.Type())
	}
	return nil
}

func (vv valueVisitor) VisitString(s Text) error {
	v := vv.target()
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		if err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s.Value)); err != nil {
			return fmt.Errorf("arma: field %s: %w", vv.field, err)
		}
		return nil
	}
	switch {
	case v.Kind() == reflect.String:
		v.SetString(s.Value)
	case v.Kind() == reflect.Interface && v.NumMethod() == 0:
		v.Set(reflect.ValueOf(s.Value))
	default:
		return vv.typeError("string", v.Type())
	}
	return nil
}

func (vv valueVisitor) VisitNull() error {
	switch vv.v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		vv.v.Set(reflect.Zero(vv.v.Type()))
	}
	return nil
}

func (vv valueVisitor) VisitSeq(s SeqAccess) error {
	if g, v, ok := vv.generic(); ok {
		if err := g.VisitSeq(s); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*g.out))
		return nil
	}

	v := vv.target()
	switch v.Kind() {
	case reflect.Slice:
		return vv.fillSlice(v, s)
	case reflect.Array:
		return vv.fillArray(v, s)
	}
	return vv.typeError("array", v.Type())
}

func (vv valueVisitor) fillSlice(v reflect.Value, s SeqAccess) error {
	elemType := v.Type().Elem()
	shape, err := vv.d.shapeOf(elemType)
	if err != nil {
		return err
	}
	if v.IsNil() {
		v.Set(reflect.MakeSlice(v.Type(), 0, 4))
	}
	v.SetLen(0)
	for i := 0; ; i++ {
		if i >= v.Cap() {
			v.Grow(1)
		}
		v.SetLen(i + 1)
		elem := v.Index(i)
		elem.SetZero()
		ok, err := s.NextElement(shape, valueVisitor{d: vv.d, v: elem, field: vv.elemName(i)})
		if err != nil {
			return err
		}
		if !ok {
			v.SetLen(i)
			return nil
		}
	}
}

func (vv valueVisitor) fillArray(v reflect.Value, s SeqAccess) error {
	shape, err := vv.d.shapeOf(v.Type().Elem())
	if err != nil {
		return err
	}
	i := 0
	for ; ; i++ {
		var elem Visitor = discard{}
		elemShape := ShapeAny
		if i < v.Len() {
			elem = valueVisitor{d: vv.d, v: v.Index(i), field: vv.elemName(i)}
			elemShape = shape
		}
		ok, err := s.NextElement(elemShape, elem)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	for ; i < v.Len(); i++ {
		v.Index(i).SetZero()
	}
	return nil
}

func (vv valueVisitor) elemName(i int) string {
	return vv.field + "[" + strconv.Itoa(i) + "]"
}

func (vv valueVisitor) VisitMap(m MapAccess) error {
	if g, v, ok := vv.generic(); ok {
		if err := g.VisitMap(m); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*g.out))
		return nil
	}

	v := vv.target()
	switch v.Kind() {
	case reflect.Struct:
		return vv.fillStruct(v, m)
	case reflect.Map:
		return vv.fillMap(v, m)
	}
	return vv.typeError("class", v.Type())
}

func (vv valueVisitor) fillStruct(v reflect.Value, m MapAccess) error {
	fs := cachedFields(v.Type())
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f, found := fs.lookup(key)
		if !found {
			if vv.d.disallowUnknownFields {
				return &UnknownFieldError{Field: key, Type: v.Type(), Suggestion: fs.suggest(key)}
			}
			if err := m.NextValue(ShapeAny, discard{}); err != nil {
				return err
			}
			continue
		}
		shape, err := vv.d.shapeOf(f.typ)
		if err != nil {
			return err
		}
		name := f.name
		if vv.field != "" {
			name = vv.field + "." + name
		}
		fv := fieldByIndex(v, f.index)
		if err := m.NextValue(shape, valueVisitor{d: vv.d, v: fv, field: name}); err != nil {
			return err
		}
	}
}

func (vv valueVisitor) fillMap(v reflect.Value, m MapAccess) error {
	t := v.Type()
	shape, err := vv.d.shapeOf(t.Elem())
	if err != nil {
		return err
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		elem := reflect.New(t.Elem()).Elem()
		if err := m.NextValue(shape, valueVisitor{d: vv.d, v: elem, field: key}); err != nil {
			return err
		}
		v.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), elem)
	}
}
