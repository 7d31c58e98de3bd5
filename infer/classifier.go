package infer

import (
	"iter"

	"typeshape/internal/common"
	"typeshape/typedesc"
)

// GenericImplementations returns the instantiations of the generic
// definition def that t realizes: t itself together with its interfaces when
// def is an interface, or together with its ancestors otherwise.
// Unbound generic definitions realize nothing.
func GenericImplementations(t, def typedesc.Type) []typedesc.Type {
	if t == nil || def == nil || t.IsGenericDefinition() {
		return nil
	}

	var candidates []typedesc.Type
	if typedesc.IsInterface(def) {
		candidates = t.Interfaces()
	} else {
		for a := range Ancestors(t) {
			candidates = append(candidates, a)
		}
	}
	candidates = append(candidates, t)

	var out []typedesc.Type
	for _, c := range common.UniqueBy(candidates, typedesc.Type.ID) {
		if c.IsGeneric() && typedesc.Same(c.GenericOrigin(), def) {
			out = append(out, c)
		}
	}

	return out
}

// ElementType returns the first generic argument of def as implemented by t.
//
// It reports false when t does not implement def, and also when t implements
// def more than once: picking one of several instantiations would be a guess,
// so callers fall back to another strategy instead.
func ElementType(t, def typedesc.Type) (typedesc.Type, bool) {
	impl, ok := common.Single(GenericImplementations(t, def))
	if !ok {
		return nil, false
	}

	args := impl.GenericArgs()
	if len(args) == 0 {
		return nil, false
	}

	return args[0], true
}

// IsSequence reports whether t has the sequence shape.
func IsSequence(t typedesc.Type) bool {
	_, ok := ElementType(t, typedesc.Sequence)
	return ok
}

// IsCollection reports whether t has the collection shape.
func IsCollection(t typedesc.Type) bool {
	_, ok := ElementType(t, typedesc.Collection)
	return ok
}

// isMapping reports whether t has the mapping shape.
func isMapping(t typedesc.Type) bool {
	_, ok := ElementType(t, typedesc.Mapping)
	return ok
}

// IsKeyedSequence reports whether t is a sequence of key/value pairs: it
// either has the mapping shape or is a sequence whose own first generic
// argument is a Pair.
//
// Generic "take the first element" helpers do not work on these types, so
// callers must special-case them.
func IsKeyedSequence(t typedesc.Type) bool {
	if t == nil {
		return false
	}

	if isMapping(t) {
		return true
	}

	if !IsSequence(t) || !t.IsGeneric() {
		return false
	}

	args := t.GenericArgs()
	if len(args) == 0 {
		return false
	}

	return args[0].IsGeneric() && typedesc.Same(args[0].GenericOrigin(), typedesc.Pair)
}

// IsCastableSequence reports whether values of t can be converted by a
// direct element cast: t is a sequence with exactly one generic argument and
// not a mapping. Text is excluded because it has no generic arguments.
func IsCastableSequence(t typedesc.Type) bool {
	if !IsSequence(t) {
		return false
	}

	return len(t.GenericArgs()) == 1 && !isMapping(t)
}

// Ancestors yields the base chain of t, nearest first, stopping before the
// universal root.
func Ancestors(t typedesc.Type) iter.Seq[typedesc.Type] {
	return func(yield func(typedesc.Type) bool) {
		if t == nil {
			return
		}

		for b := t.Base(); b != nil && !typedesc.IsRoot(b); b = b.Base() {
			if !yield(b) {
				return
			}
		}
	}
}

// SequenceElementType returns the element type of any sequence type. Unlike
// ElementType it takes the first Sequence implementation found rather than
// requiring a unique one.
func SequenceElementType(t typedesc.Type) (typedesc.Type, bool) {
	if t == nil {
		return nil, false
	}

	ifaces := t.Interfaces()
	if typedesc.IsInterface(t) && !containsType(ifaces, t) {
		ifaces = append(ifaces, t)
	}

	for _, i := range ifaces {
		if !i.IsGeneric() || !typedesc.Same(i.GenericOrigin(), typedesc.Sequence) {
			continue
		}

		if args := i.GenericArgs(); len(args) > 0 {
			return args[0], true
		}
	}

	return nil, false
}

// AssignableTo reports whether a value of src can be used where dst is
// expected: the types are the same, dst is an interface src implements, or
// dst is one of src's ancestors.
func AssignableTo(src, dst typedesc.Type) bool {
	if src == nil || dst == nil {
		return false
	}

	if typedesc.Same(src, dst) || typedesc.IsRoot(dst) {
		return true
	}

	if typedesc.IsInterface(dst) {
		return typedesc.Same(dst, typedesc.Any) || containsType(src.Interfaces(), dst)
	}

	for a := range Ancestors(src) {
		if typedesc.Same(a, dst) {
			return true
		}
	}

	return false
}

// IsSequenceOf reports whether t is a sequence whose elements are assignable
// to elem.
func IsSequenceOf(t, elem typedesc.Type) bool {
	e, ok := ElementType(t, typedesc.Sequence)
	return ok && AssignableTo(e, elem)
}

func containsType(list []typedesc.Type, t typedesc.Type) bool {
	for _, x := range list {
		if typedesc.Same(x, t) {
			return true
		}
	}

	return false
}
