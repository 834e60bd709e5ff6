package models

import "github.com/mcncl/armaconf/arma"

// IntermediateRepresentation holds a decoded document in a form the analyzer
// and transcoders can walk. Root keeps statements in document order.
type IntermediateRepresentation struct {
	Root *arma.Class
	// Source is the document text, kept so transcoders can stream it again.
	Source string
}

// TypeKind is the broad category of a Go type.
type TypeKind int

const (
	Interface TypeKind = iota
	Bool
	Int
	Float
	String
	Time
	UUID
	Slice
	Struct
	Mapped
)

func (k TypeKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Time:
		return "time"
	case UUID:
		return "uuid"
	case Slice:
		return "slice"
	case Struct:
		return "struct"
	case Mapped:
		return "mapped"
	}
	return "interface"
}

// TypeInfo describes the Go type chosen for a value.
type TypeInfo struct {
	Kind      TypeKind
	Name      string
	IsPointer bool
	// SliceElementType is set for Slice kinds.
	SliceElementType *TypeInfo
	// StructName is set for Struct kinds.
	StructName string
}

// FieldInfo is one field of a generated struct.
type FieldInfo struct {
	// Key is the statement name as written in the document.
	Key     string
	GoName  string
	GoType  TypeInfo
	Tag     string
	Comment string
}

// StructDef is a generated struct type.
type StructDef struct {
	Name   string
	Fields []FieldInfo
	IsRoot bool
	// Class is the document class name the struct was inferred from.
	Class string
}

// AnalysisResult is everything the generator needs to emit Go source.
type AnalysisResult struct {
	Structs []StructDef
	Imports map[string]struct{}
}
