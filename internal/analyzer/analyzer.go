package analyzer

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/mcncl/armaconf/arma"
	"github.com/mcncl/armaconf/internal/config"
	"github.com/mcncl/armaconf/internal/models"
)

// DefaultRootName is the default name for the root struct if not specified.
const DefaultRootName = "Config"

const uuidImport = "github.com/google/uuid"

// timeLayouts are tried in order when deciding whether a string holds a time.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly, time.DateTime}

var (
	anyType     = models.TypeInfo{Kind: models.Interface, Name: "any"}
	boolType    = models.TypeInfo{Kind: models.Bool, Name: "bool"}
	intType     = models.TypeInfo{Kind: models.Int, Name: "int"}
	int64Type   = models.TypeInfo{Kind: models.Int, Name: "int64"}
	uint64Type  = models.TypeInfo{Kind: models.Int, Name: "uint64"}
	float64Type = models.TypeInfo{Kind: models.Float, Name: "float64"}
	stringType  = models.TypeInfo{Kind: models.String, Name: "string"}
	timeType    = models.TypeInfo{Kind: models.Time, Name: "time.Time"}
	uuidType    = models.TypeInfo{Kind: models.UUID, Name: "uuid.UUID"}
)

// Analyzer infers Go struct definitions from a decoded document. Each class
// becomes a struct and each statement a field tagged with its document name.
type Analyzer struct {
	// structNames tracks generated struct names to avoid collisions
	structNames    map[string]int
	analysisResult models.AnalysisResult
	config         *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		structNames: make(map[string]int),
		analysisResult: models.AnalysisResult{
			Structs: make([]models.StructDef, 0),
			Imports: make(map[string]struct{}),
		},
		config: cfg,
	}
}

// Analyze walks the document and returns struct definitions and imports.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootStructName string) (models.AnalysisResult, error) {
	if ir.Root == nil {
		return models.AnalysisResult{}, fmt.Errorf("document has no statements to analyze")
	}
	if rootStructName == "" {
		rootStructName = DefaultRootName
	}
	rootStructName = a.generateUniqueStructName(typeName(rootStructName))

	root, err := a.analyzeClass(ir.Root, "")
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to analyze document: %w", err)
	}
	root.Name = rootStructName
	root.IsRoot = true
	a.analysisResult.Structs = append([]models.StructDef{root}, a.analysisResult.Structs...)
	a.collectImports()

	return a.analysisResult, nil
}

// collectImports records the packages the final field types refer to. Array
// unification can widen a time or UUID element to string, so imports are
// only known once every struct is complete.
func (a *Analyzer) collectImports() {
	for _, def := range a.analysisResult.Structs {
		for _, field := range def.Fields {
			if path := importFor(field.GoType); path != "" {
				a.analysisResult.Imports[path] = struct{}{}
			}
		}
	}
}

func importFor(t models.TypeInfo) string {
	for t.Kind == models.Slice && t.SliceElementType != nil {
		t = *t.SliceElementType
	}
	switch t.Kind {
	case models.Time:
		return "time"
	case models.UUID:
		return uuidImport
	}
	return ""
}

// analyzeClass builds the struct for cls. Nested classes are added to the
// result as they are found; the returned definition is not.
func (a *Analyzer) analyzeClass(cls *arma.Class, className string) (models.StructDef, error) {
	def := models.StructDef{
		Class:  className,
		Fields: make([]models.FieldInfo, 0, cls.Len()),
	}
	seenKeys := make(map[string]bool, cls.Len())
	usedNames := make(map[string]bool, cls.Len())

	for _, m := range cls.Members {
		// The engine looks names up case-insensitively; the first one wins here too.
		folded := strings.ToLower(m.Name)
		if seenKeys[folded] {
			continue
		}
		seenKeys[folded] = true

		field := models.FieldInfo{
			Key:    m.Name,
			GoName: uniqueFieldName(a.getFieldName(m.Name), usedNames),
		}

		if mapping, found := a.config.FindTypeMapping(m.Name); found {
			field.GoType = models.TypeInfo{Kind: models.Mapped, Name: mapping.Type}
			field.Comment = mapping.Comment
			if mapping.Import != "" {
				a.analysisResult.Imports[mapping.Import] = struct{}{}
			}
		} else {
			typ, err := a.analyzeValue(m.Name, m.Value)
			if err != nil {
				return models.StructDef{}, fmt.Errorf("failed to analyze %q: %w", m.Name, err)
			}
			field.GoType = typ
		}
		field.Tag = fieldTag(m.Name, field.GoType)
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

func (a *Analyzer) analyzeValue(key string, v any) (models.TypeInfo, error) {
	switch v := v.(type) {
	case nil:
		return anyType, nil
	case bool:
		return boolType, nil
	case uint64:
		if v > math.MaxInt64 {
			return uint64Type, nil
		}
		return a.intType(int64(v)), nil
	case int64:
		return a.intType(v), nil
	case float64:
		return float64Type, nil
	case string:
		return analyzeString(v), nil
	case []any:
		return a.analyzeArray(key, v)
	case *arma.Class:
		nested, err := a.analyzeClass(v, key)
		if err != nil {
			return models.TypeInfo{}, err
		}
		return a.findOrAddStructDef(nested, typeName(key)), nil
	}
	return models.TypeInfo{}, fmt.Errorf("unexpected value type %T", v)
}

func (a *Analyzer) intType(n int64) models.TypeInfo {
	if a.config.Types.ForceInt64 || n > math.MaxInt32 || n < math.MinInt32 {
		return int64Type
	}
	return intType
}

func analyzeString(s string) models.TypeInfo {
	if len(s) == 36 && uuid.Validate(s) == nil {
		return uuidType
	}
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return timeType
		}
	}
	return stringType
}

func (a *Analyzer) analyzeArray(key string, arr []any) (models.TypeInfo, error) {
	if len(arr) == 0 {
		return sliceOf(anyType), nil
	}
	elem, err := a.analyzeValue(key, arr[0])
	if err != nil {
		return models.TypeInfo{}, fmt.Errorf("element 0: %w", err)
	}
	for i, v := range arr[1:] {
		next, err := a.analyzeValue(key, v)
		if err != nil {
			return models.TypeInfo{}, fmt.Errorf("element %d: %w", i+1, err)
		}
		elem = unify(elem, next)
	}
	return sliceOf(elem), nil
}

func sliceOf(elem models.TypeInfo) models.TypeInfo {
	return models.TypeInfo{
		Kind:             models.Slice,
		Name:             "[]" + typeString(elem),
		SliceElementType: &elem,
	}
}

// unify returns a type that can hold values of both x and y.
func unify(x, y models.TypeInfo) models.TypeInfo {
	if areTypeInfosEqual(&x, &y) {
		return x
	}
	switch {
	case x.Kind == models.Int && y.Kind == models.Int:
		if x.Name == "uint64" || y.Name == "uint64" {
			return float64Type
		}
		return int64Type
	case isNumeric(x) && isNumeric(y):
		return float64Type
	case isText(x) && isText(y):
		return stringType
	case x.Kind == models.Slice && y.Kind == models.Slice:
		return sliceOf(unify(*x.SliceElementType, *y.SliceElementType))
	}
	return anyType
}

func isNumeric(t models.TypeInfo) bool {
	return t.Kind == models.Int || t.Kind == models.Float
}

func isText(t models.TypeInfo) bool {
	return t.Kind == models.String || t.Kind == models.Time || t.Kind == models.UUID
}

// generateUniqueStructName ensures that the struct name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueStructName(baseName string) string {
	name := baseName
	count := a.structNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	a.structNames[baseName] = count + 1
	return name
}

// typeName converts a document name to an exported Go identifier.
func typeName(name string) string {
	camel := strcase.ToCamel(name)
	if camel == "" {
		return "Class"
	}
	if !unicode.IsLetter([]rune(camel)[0]) {
		return "C" + camel
	}
	return camel
}

func (a *Analyzer) getFieldName(key string) string {
	name := a.config.GetFieldName(key)
	if name == "" {
		return "Field"
	}
	if r := []rune(name)[0]; !unicode.IsUpper(r) {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r)) + name[len(string(r)):]
		}
		return "F" + name
	}
	return name
}

func uniqueFieldName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s%d", name, n)
	}
	used[candidate] = true
	return candidate
}

// fieldTag renders the struct tag for a field. The json tag lets the decoded
// struct be re-encoded with the same names.
func fieldTag(key string, t models.TypeInfo) string {
	omit := ""
	if t.IsPointer || t.Kind == models.Slice || t.Kind == models.Interface {
		omit = ",omitempty"
	}
	return fmt.Sprintf("`arma:\"%s\" json:\"%s%s\"`", key, key, omit)
}

// typeString converts a TypeInfo to a string representation of the Go type
func typeString(t models.TypeInfo) string {
	var s string
	switch t.Kind {
	case models.Struct:
		s = t.StructName
	case models.Slice:
		s = "[]any"
		if t.SliceElementType != nil {
			s = "[]" + typeString(*t.SliceElementType)
		}
	default:
		s = t.Name
	}
	if t.IsPointer {
		return "*" + s
	}
	return s
}

// areTypeInfosEqual checks if two TypeInfo objects represent the same type.
func areTypeInfosEqual(t1, t2 *models.TypeInfo) bool {
	if t1 == nil || t2 == nil {
		return t1 == t2
	}
	if t1.Kind != t2.Kind || t1.Name != t2.Name || t1.IsPointer != t2.IsPointer || t1.StructName != t2.StructName {
		return false
	}
	if t1.Kind == models.Slice {
		return areTypeInfosEqual(t1.SliceElementType, t2.SliceElementType)
	}
	return true
}

// areStructDefsEquivalent compares two StructDefs for structural equality.
// Keys, Go names, types and tags must match; field order does not.
func areStructDefsEquivalent(s1, s2 *models.StructDef) bool {
	if len(s1.Fields) != len(s2.Fields) {
		return false
	}
	byKey := make(map[string]models.FieldInfo, len(s1.Fields))
	for _, f := range s1.Fields {
		byKey[f.Key] = f
	}
	for _, f2 := range s2.Fields {
		f1, ok := byKey[f2.Key]
		if !ok {
			return false
		}
		if f1.GoName != f2.GoName || f1.Tag != f2.Tag || !areTypeInfosEqual(&f1.GoType, &f2.GoType) {
			return false
		}
	}
	return true
}

// findOrAddStructDef reuses an equivalent struct when one exists. Otherwise
// the candidate is named uniquely and added to the result.
func (a *Analyzer) findOrAddStructDef(candidate models.StructDef, suggestedName string) models.TypeInfo {
	for _, existing := range a.analysisResult.Structs {
		if areStructDefsEquivalent(&candidate, &existing) {
			return models.TypeInfo{Kind: models.Struct, Name: existing.Name, StructName: existing.Name}
		}
	}

	candidate.Name = a.generateUniqueStructName(suggestedName)
	a.analysisResult.Structs = append(a.analysisResult.Structs, candidate)
	return models.TypeInfo{Kind: models.Struct, Name: candidate.Name, StructName: candidate.Name}
}
