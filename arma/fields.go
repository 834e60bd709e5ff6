package arma

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type field struct {
	name  string
	index []int
	typ   reflect.Type
}

type fields struct {
	list   []field
	byName map[string]int
	// byFold maps lower-cased names for case-insensitive lookups.
	byFold map[string]int
}

var fieldCache sync.Map // map[reflect.Type]*fields

func cachedFields(t reflect.Type) *fields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*fields)
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return f.(*fields)
}

// typeFields lists the fields a struct type accepts. Promoted fields of
// embedded structs are included; the arma tag renames a field or, with "-",
// hides it.
func typeFields(t reflect.Type) *fields {
	fs := &fields{byName: make(map[string]int), byFold: make(map[string]int)}
	for _, sf := range reflect.VisibleFields(t) {
		tag := sf.Tag.Get("arma")
		if tag == "-" {
			continue
		}
		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if tag == "" && ft.Kind() == reflect.Struct {
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if embeddedBehindUnexported(t, sf.Index) {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		if _, dup := fs.byName[name]; dup {
			continue
		}
		fs.byName[name] = len(fs.list)
		if _, dup := fs.byFold[strings.ToLower(name)]; !dup {
			fs.byFold[strings.ToLower(name)] = len(fs.list)
		}
		fs.list = append(fs.list, field{name: name, index: sf.Index, typ: sf.Type})
	}
	return fs
}

// embeddedBehindUnexported reports whether a promoted field is reached through
// an unexported embedded pointer, which reflection cannot allocate.
func embeddedBehindUnexported(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		sf := t.Field(i)
		if sf.Type.Kind() == reflect.Pointer {
			if !sf.IsExported() {
				return true
			}
			t = sf.Type.Elem()
		} else {
			t = sf.Type
		}
	}
	return false
}

func (fs *fields) lookup(name string) (*field, bool) {
	if i, ok := fs.byName[name]; ok {
		return &fs.list[i], true
	}
	if i, ok := fs.byFold[strings.ToLower(name)]; ok {
		return &fs.list[i], true
	}
	return nil, false
}

// suggest returns the known field name closest to name, or "" when nothing
// is close.
func (fs *fields) suggest(name string) string {
	names := make([]string, len(fs.list))
	for i, f := range fs.list {
		names[i] = f.name
	}
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", len(name)/3+1
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(n)); d <= bestDist {
			best, bestDist = n, d-1
		}
	}
	return best
}

// fieldByIndex walks index from v, allocating nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
