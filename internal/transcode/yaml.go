package transcode

import (
	"io"
	"strconv"

	"github.com/mcncl/armaconf/arma"
	"gopkg.in/yaml.v3"
)

// YAML writes text as a YAML document to w, indenting nested blocks by indent
// spaces.
func YAML(w io.Writer, text string, indent int) error {
	node, err := Node(text)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(max(indent, 2))
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// Node decodes text into a YAML node tree.
func Node(text string) (*yaml.Node, error) {
	nv := &nodeVisitor{}
	if err := arma.DecodeString(text, arma.ShapeAny, nv); err != nil {
		return nil, err
	}
	return nv.node, nil
}

// nodeVisitor stores the node for the last value it visited.
type nodeVisitor struct {
	node *yaml.Node
}

func (n *nodeVisitor) scalar(tag, value string) error {
	n.node = &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	return nil
}

func (n *nodeVisitor) VisitBool(v bool) error {
	return n.scalar("!!bool", strconv.FormatBool(v))
}

func (n *nodeVisitor) VisitUint64(v uint64) error {
	return n.scalar("!!int", strconv.FormatUint(v, 10))
}

func (n *nodeVisitor) VisitInt64(v int64) error {
	return n.scalar("!!int", strconv.FormatInt(v, 10))
}

func (n *nodeVisitor) VisitFloat64(v float64) error {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += ".0"
	}
	return n.scalar("!!float", s)
}

func (n *nodeVisitor) VisitString(v arma.Text) error {
	return n.scalar("!!str", v.Value)
}

func (n *nodeVisitor) VisitNull() error {
	return n.scalar("!!null", "null")
}

func (n *nodeVisitor) VisitSeq(s arma.SeqAccess) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for {
		elem := &nodeVisitor{}
		ok, err := s.NextElement(arma.ShapeAny, elem)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		seq.Content = append(seq.Content, elem.node)
	}
	n.node = seq
	return nil
}

func (n *nodeVisitor) VisitMap(m arma.MapAccess) error {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		val := &nodeVisitor{}
		if err := m.NextValue(arma.ShapeAny, val); err != nil {
			return err
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val.node,
		)
	}
	n.node = mapping
	return nil
}
