package report

import (
	"cmp"
	"slices"
	"strings"

	"typeshape/infer"
	"typeshape/internal/common"
	"typeshape/typedesc"
)

// Row is the classification of one type.
type Row struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	TypeParams  []string `json:"type_params,omitempty"`
	Sequence    bool     `json:"sequence"`
	Collection  bool     `json:"collection"`
	Keyed       bool     `json:"keyed"`
	Castable    bool     `json:"castable"`
	Element     string   `json:"element,omitempty"`
	Ancestors   []string `json:"ancestors,omitempty"`
	Interfaces  []string `json:"interfaces,omitempty"`
	Constructor string   `json:"constructor,omitempty"`
	Params      []Param  `json:"params,omitempty"`
}

// Param is a parameter of the default constructor.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Shape lists the shape flags of r, or "-" when it has none.
func (r Row) Shape() string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{r.Collection, "collection"},
		{r.Sequence && !r.Collection, "sequence"},
		{r.Keyed, "keyed"},
		{r.Castable, "castable"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}

	if len(flags) == 0 {
		return "-"
	}

	return strings.Join(flags, ",")
}

// NewRow classifies t. Constructor parameters come from cache, or from the
// process-wide cache when cache is nil.
func NewRow(t typedesc.Type, cache *infer.ConstructorCache) Row {
	if cache == nil {
		cache = infer.DefaultCache()
	}

	row := Row{
		ID:         t.ID(),
		Kind:       t.Kind().String(),
		Sequence:   infer.IsSequence(t),
		Collection: infer.IsCollection(t),
		Keyed:      infer.IsKeyedSequence(t),
		Castable:   infer.IsCastableSequence(t),
	}

	if def, ok := t.(interface{ Params() []string }); ok && t.IsGenericDefinition() {
		row.TypeParams = def.Params()
	}

	if elem, ok := infer.SequenceElementType(t); ok {
		row.Element = elem.ID()
	}

	for a := range infer.Ancestors(t) {
		row.Ancestors = append(row.Ancestors, a.ID())
	}

	for _, i := range t.Interfaces() {
		row.Interfaces = append(row.Interfaces, i.ID())
	}

	if params, ok := cache.Parameters(t); ok {
		row.Constructor = params.Constructor
		for _, p := range params.Params {
			row.Params = append(row.Params, Param{Name: p.Name, Type: p.Type.ID()})
		}
	}

	return row
}

// Rows classifies types sorted by ID, keeping those matching filter.
func Rows(types []typedesc.Type, cache *infer.ConstructorCache, filter string) []Row {
	out := make([]Row, 0, len(types))
	for _, t := range types {
		if t != nil && Matches(t, filter) {
			out = append(out, NewRow(t, cache))
		}
	}

	slices.SortFunc(out, func(a, b Row) int { return cmp.Compare(a.ID, b.ID) })

	return out
}

// Matches reports whether t is selected by filter: empty, the short name,
// the ID, or the ID with package paths shortened.
func Matches(t typedesc.Type, filter string) bool {
	switch filter {
	case "", t.Name(), t.ID(), common.ShortID(t.ID()):
		return true
	default:
		return false
	}
}
