package arma

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Member is one statement of a class body decoded without a schema.
type Member struct {
	Name  string
	Value any
}

// Class is a class body decoded into an interface value. Members keep their
// document order. Values are nil, bool, uint64, int64, float64, string, []any
// or *Class.
type Class struct {
	Members []Member
}

// Get returns the value of the first member named name. Names are matched
// case-insensitively, as the engine does.
func (c *Class) Get(name string) (any, bool) {
	for _, m := range c.Members {
		if strings.EqualFold(m.Name, name) {
			return m.Value, true
		}
	}
	return nil, false
}

// Class returns the nested class named name.
func (c *Class) Class(name string) (*Class, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	cls, ok := v.(*Class)
	return cls, ok
}

// Names returns member names in document order.
func (c *Class) Names() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Name
	}
	return names
}

func (c *Class) Len() int {
	return len(c.Members)
}

// MarshalJSON encodes the class as a JSON object in document order.
func (c *Class) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range c.Members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the class as a YAML mapping in document order.
func (c *Class) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, m := range c.Members {
		val := new(yaml.Node)
		if err := val.Encode(m.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Name},
			val,
		)
	}
	return node, nil
}

// genericVisitor stores whatever it is given into out.
type genericVisitor struct {
	out *any
}

func (g genericVisitor) VisitBool(v bool) error {
	*g.out = v
	return nil
}

func (g genericVisitor) VisitUint64(v uint64) error {
	*g.out = v
	return nil
}

func (g genericVisitor) VisitInt64(v int64) error {
	*g.out = v
	return nil
}

func (g genericVisitor) VisitFloat64(v float64) error {
	*g.out = v
	return nil
}

func (g genericVisitor) VisitString(v Text) error {
	*g.out = v.Value
	return nil
}

func (g genericVisitor) VisitNull() error {
	*g.out = nil
	return nil
}

func (g genericVisitor) VisitSeq(s SeqAccess) error {
	list := make([]any, 0, 4)
	for {
		var elem any
		ok, err := s.NextElement(ShapeAny, genericVisitor{out: &elem})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		list = append(list, elem)
	}
	*g.out = list
	return nil
}

func (g genericVisitor) VisitMap(m MapAccess) error {
	cls := &Class{}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var val any
		if err := m.NextValue(ShapeAny, genericVisitor{out: &val}); err != nil {
			return err
		}
		cls.Members = append(cls.Members, Member{Name: key, Value: val})
	}
	*g.out = cls
	return nil
}

// discard consumes values without storing them.
type discard struct{}

func (discard) VisitBool(bool) error       { return nil }
func (discard) VisitUint64(uint64) error   { return nil }
func (discard) VisitInt64(int64) error     { return nil }
func (discard) VisitFloat64(float64) error { return nil }
func (discard) VisitString(Text) error     { return nil }
func (discard) VisitNull() error           { return nil }

func (discard) VisitSeq(s SeqAccess) error {
	for {
		ok, err := s.NextElement(ShapeAny, discard{})
		if err != nil || !ok {
			return err
		}
	}
}

func (discard) VisitMap(m MapAccess) error {
	for {
		_, ok, err := m.NextKey()
		if err != nil || !ok {
			return err
		}
		if err := m.NextValue(ShapeAny, discard{}); err != nil {
			return err
		}
	}
}
