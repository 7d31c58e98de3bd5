package typedesc

import (
	"typeshape/internal/common"
)

// Kind represents the kind of a described type.
type Kind int

const (
	KindClass     Kind = iota // concrete type with an inheritance chain
	KindInterface             // capability implemented by other types
	KindPrimitive             // builtin scalar (int, bool, ...)
	KindPointer               // pointer to another type
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindPrimitive:
		return "primitive"
	case KindPointer:
		return "pointer"
	default:
		return common.UnknownStr
	}
}

// ParseKind converts a kind name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "class", "struct":
		return KindClass, true
	case "interface":
		return KindInterface, true
	case "primitive":
		return KindPrimitive, true
	case "pointer":
		return KindPointer, true
	default:
		return KindClass, false
	}
}

// Type is the metadata capability the classifier works against.
//
// Implementations must be immutable once they are handed out and safe for
// concurrent use.
type Type interface {
	// ID is the canonical identity. Two descriptors with the same ID describe
	// the same type.
	ID() string
	// Name is the short type name without package or generic arguments.
	Name() string
	// Package is the import path (or manifest package) declaring the type.
	Package() string
	Kind() Kind
	// Base is the type this one derives from. Nil for interfaces, pointers
	// and the universal root.
	Base() Type
	// Interfaces returns every interface implemented directly, through other
	// interfaces, or through the base chain. Each interface appears once.
	Interfaces() []Type
	Constructors() []Constructor
	IsGeneric() bool
	IsGenericDefinition() bool
	// GenericArgs returns the type arguments of an instantiation.
	// Definitions and non-generic types return nil.
	GenericArgs() []Type
	// GenericOrigin returns the generic definition an instantiation was built
	// from. A definition is its own origin; non-generic types return nil.
	GenericOrigin() Type
}

// Parameter describes one constructor parameter.
type Parameter struct {
	Name     string
	Type     Type
	Position int // zero-based
}

// Constructor describes a function producing a value of the owning type.
type Constructor struct {
	Name     string
	Exported bool // public constructors are the only ones considered for construction
	Params   []Parameter
}

// Arity returns the number of parameters.
func (c Constructor) Arity() int {
	return len(c.Params)
}

// Same reports whether a and b describe the same type.
func Same(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.ID() == b.ID()
}

// IsInterface reports whether t is an interface type.
func IsInterface(t Type) bool {
	return t != nil && t.Kind() == KindInterface
}

// IsRoot reports whether t is the universal root type.
func IsRoot(t Type) bool {
	return Same(t, Object)
}
