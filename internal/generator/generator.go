package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/armaconf/internal/models"
)

// Generator is responsible for generating Go struct definitions from analysis results
type Generator struct {
	// Header is written as a comment above the package clause.
	Header string
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateStructs generates Go struct definitions from the analysis result
func (g *Generator) GenerateStructs(result models.AnalysisResult, packageName string) (string, error) {
	if packageName == "" {
		return "", fmt.Errorf("package name is empty")
	}
	var buf bytes.Buffer

	if g.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(g.Header, "\n"), "\n") {
			buf.WriteString(strings.TrimRight("// "+line, " ") + "\n")
		}
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, "package %s\n", packageName)
	writeImports(&buf, result.Imports)

	for _, def := range sortStructs(result.Structs) {
		buf.WriteString("\n")
		writeStruct(&buf, def)
	}
	return buf.String(), nil
}

// writeImports writes standard library imports first, then the rest.
func writeImports(buf *bytes.Buffer, imports map[string]struct{}) {
	if len(imports) == 0 {
		return
	}
	var std, thirdParty []string
	for imp := range imports {
		if strings.Contains(imp, ".") {
			thirdParty = append(thirdParty, imp)
		} else {
			std = append(std, imp)
		}
	}
	sort.Strings(std)
	sort.Strings(thirdParty)

	buf.WriteString("\nimport (\n")
	for _, imp := range std {
		fmt.Fprintf(buf, "\t%q\n", imp)
	}
	if len(std) > 0 && len(thirdParty) > 0 {
		buf.WriteString("\n")
	}
	for _, imp := range thirdParty {
		fmt.Fprintf(buf, "\t%q\n", imp)
	}
	buf.WriteString(")\n")
}

func writeStruct(buf *bytes.Buffer, def models.StructDef) {
	switch {
	case def.IsRoot:
		fmt.Fprintf(buf, "// %s is the top level of the document.\n", def.Name)
	case def.Class != "" && def.Class != def.Name:
		fmt.Fprintf(buf, "// %s holds class %s.\n", def.Name, def.Class)
	}
	if len(def.Fields) == 0 {
		fmt.Fprintf(buf, "type %s struct{}\n", def.Name)
		return
	}

	// Align names and types; gofmt would do the same.
	maxNameWidth, maxTypeWidth := 0, 0
	for _, field := range def.Fields {
		maxNameWidth = max(maxNameWidth, len(field.GoName))
		maxTypeWidth = max(maxTypeWidth, len(getTypeString(field.GoType)))
	}

	fmt.Fprintf(buf, "type %s struct {\n", def.Name)
	for _, field := range def.Fields {
		if field.Comment != "" {
			fmt.Fprintf(buf, "\t// %s\n", field.Comment)
		}
		fmt.Fprintf(buf, "\t%-*s %-*s %s\n",
			maxNameWidth, field.GoName,
			maxTypeWidth, getTypeString(field.GoType),
			field.Tag)
	}
	buf.WriteString("}\n")
}

// sortStructs puts the root struct first, followed by nested structs by name.
func sortStructs(structs []models.StructDef) []models.StructDef {
	sorted := make([]models.StructDef, len(structs))
	copy(sorted, structs)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsRoot != sorted[j].IsRoot {
			return sorted[i].IsRoot
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// getTypeString converts a TypeInfo to a string representation of the Go type
func getTypeString(typeInfo models.TypeInfo) string {
	var typeStr string

	switch typeInfo.Kind {
	case models.Struct:
		typeStr = typeInfo.StructName
	case models.Slice:
		if typeInfo.SliceElementType != nil {
			typeStr = "[]" + getTypeString(*typeInfo.SliceElementType)
		} else {
			typeStr = "[]any"
		}
	default:
		typeStr = typeInfo.Name
	}

	if typeInfo.IsPointer {
		return "*" + typeStr
	}
	return typeStr
}
