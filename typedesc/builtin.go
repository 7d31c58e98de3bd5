package typedesc

import (
	"fmt"
)

// Object is the universal root every class derives from.
var Object = &Descriptor{id: "Object", name: "Object", kind: KindClass}

// Shape interfaces.
var (
	// Sequence[T] can be iterated to produce elements of T.
	Sequence = NewGeneric("", "Sequence", KindInterface, []string{"T"}, func([]Type) (Spec, error) {
		return Spec{}, nil
	})

	// Collection[T] is a sequence that also knows its length.
	Collection = NewGeneric("", "Collection", KindInterface, []string{"T"}, func(args []Type) (Spec, error) {
		return Spec{Interfaces: []Type{SequenceOf(args[0])}}, nil
	})

	// Mapping[K,V] is a collection of pairs with keyed lookup.
	Mapping = NewGeneric("", "Mapping", KindInterface, []string{"K", "V"}, func(args []Type) (Spec, error) {
		return Spec{Interfaces: []Type{CollectionOf(PairOf(args[0], args[1]))}}, nil
	})

	// Pair[K,V] is a single key/value element of a mapping.
	Pair = NewGeneric("", "Pair", KindClass, []string{"K", "V"}, func([]Type) (Spec, error) {
		return Spec{}, nil
	})
)

// Builtin containers.
var (
	// List[T] describes Go slices.
	List = NewGeneric("", "List", KindClass, []string{"T"}, func(args []Type) (Spec, error) {
		return Spec{
			Interfaces: []Type{CollectionOf(args[0])},
			Constructors: []Constructor{
				{Name: "NewList", Exported: true},
				{Name: "NewListWithCapacity", Exported: true, Params: []Parameter{{Name: "capacity", Type: Int}}},
			},
		}, nil
	})

	// Dictionary[K,V] describes Go maps.
	Dictionary = NewGeneric("", "Dictionary", KindClass, []string{"K", "V"}, func(args []Type) (Spec, error) {
		return Spec{
			Interfaces: []Type{MappingOf(args[0], args[1])},
			Constructors: []Constructor{
				{Name: "NewDictionary", Exported: true},
				{Name: "NewDictionaryWithCapacity", Exported: true, Params: []Parameter{{Name: "capacity", Type: Int}}},
			},
		}, nil
	})
)

// Primitives. Byte and Rune share the descriptors of uint8 and int32.
var (
	Bool       = primitive("bool")
	Int        = primitive("int")
	Int8       = primitive("int8")
	Int16      = primitive("int16")
	Int32      = primitive("int32")
	Int64      = primitive("int64")
	Uint       = primitive("uint")
	Uint8      = primitive("uint8")
	Uint16     = primitive("uint16")
	Uint32     = primitive("uint32")
	Uint64     = primitive("uint64")
	Uintptr    = primitive("uintptr")
	Float32    = primitive("float32")
	Float64    = primitive("float64")
	Complex64  = primitive("complex64")
	Complex128 = primitive("complex128")
	Byte       = Uint8
	Rune       = Int32

	// Text is the character sequence. It is a sequence of runes but has no
	// generic arguments of its own.
	Text = New(Spec{Name: "string", Kind: KindPrimitive, Interfaces: []Type{SequenceOf(Rune)}})

	Any   = New(Spec{Name: "any", Kind: KindInterface})
	Error = New(Spec{Name: "error", Kind: KindInterface})
)

func primitive(name string) *Descriptor {
	return New(Spec{Name: name, Kind: KindPrimitive})
}

// Builtins returns every predeclared descriptor keyed by the names it is
// known under.
func Builtins() map[string]Type {
	return map[string]Type{
		"Object":     Object,
		"Sequence":   Sequence,
		"Collection": Collection,
		"Mapping":    Mapping,
		"Pair":       Pair,
		"List":       List,
		"Dictionary": Dictionary,
		"bool":       Bool,
		"int":        Int,
		"int8":       Int8,
		"int16":      Int16,
		"int32":      Int32,
		"int64":      Int64,
		"uint":       Uint,
		"uint8":      Uint8,
		"uint16":     Uint16,
		"uint32":     Uint32,
		"uint64":     Uint64,
		"uintptr":    Uintptr,
		"float32":    Float32,
		"float64":    Float64,
		"complex64":  Complex64,
		"complex128": Complex128,
		"byte":       Byte,
		"rune":       Rune,
		"string":     Text,
		"any":        Any,
		"error":      Error,
	}
}

func SequenceOf(elem Type) *Descriptor   { return MustInstantiate(Sequence, elem) }
func CollectionOf(elem Type) *Descriptor { return MustInstantiate(Collection, elem) }
func MappingOf(k, v Type) *Descriptor    { return MustInstantiate(Mapping, k, v) }
func PairOf(k, v Type) *Descriptor       { return MustInstantiate(Pair, k, v) }
func ListOf(elem Type) *Descriptor       { return MustInstantiate(List, elem) }
func DictionaryOf(k, v Type) *Descriptor { return MustInstantiate(Dictionary, k, v) }

// ArrayOf describes a fixed-size array. Like the character sequence it
// implements the collection shape without generic arguments of its own.
func ArrayOf(elem Type, n int) *Descriptor {
	return New(Spec{
		Name:       fmt.Sprintf("[%d]%s", n, elem.ID()),
		Kind:       KindClass,
		Interfaces: []Type{CollectionOf(elem)},
	})
}

// PointerTo describes a pointer to elem.
func PointerTo(elem Type) *Descriptor {
	return New(Spec{Name: "*" + elem.ID(), Kind: KindPointer})
}
