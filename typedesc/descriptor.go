package typedesc

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"typeshape/internal/common"
)

var (
	// ErrNotGenericDefinition is returned when instantiating a type that is
	// not an unbound generic definition.
	ErrNotGenericDefinition = errors.New("not a generic type definition")
	// ErrArityMismatch is returned when the number of type arguments does not
	// match the definition's parameters.
	ErrArityMismatch = errors.New("generic argument count mismatch")
)

// Spec declares a type to build.
type Spec struct {
	Package      string
	Name         string
	Kind         Kind
	Base         Type // nil derives classes and primitives from Object
	Interfaces   []Type
	Constructors []Constructor
}

// Template expands a generic definition for concrete type arguments.
// Package, Name and Kind of the returned Spec are taken from the definition.
type Template func(args []Type) (Spec, error)

// Descriptor is the table-backed implementation of Type.
type Descriptor struct {
	id         string
	pkg        string
	name       string
	kind       Kind
	base       Type
	interfaces []Type
	ctors      []Constructor

	// Generic definitions carry params and template; instantiations carry
	// origin and args.
	params   []string
	template Template
	origin   *Descriptor
	args     []Type
}

var _ Type = (*Descriptor)(nil)

// New builds a non-generic descriptor.
func New(spec Spec) *Descriptor {
	d := &Descriptor{
		id:    common.Qualify(spec.Package, spec.Name),
		pkg:   spec.Package,
		name:  spec.Name,
		kind:  spec.Kind,
		ctors: slices.Clone(spec.Constructors),
	}
	d.base = baseFor(spec.Kind, spec.Base)
	d.interfaces = closure(spec.Interfaces, d.base)

	return d
}

// NewGeneric builds an unbound generic definition with the given type
// parameter names. Its instantiations are produced by Instantiate.
func NewGeneric(pkg, name string, kind Kind, params []string, tmpl Template) *Descriptor {
	d := &Descriptor{
		id:       common.Qualify(pkg, name) + "[" + strings.Repeat(",", max(len(params)-1, 0)) + "]",
		pkg:      pkg,
		name:     name,
		kind:     kind,
		params:   slices.Clone(params),
		template: tmpl,
	}
	d.base = baseFor(kind, nil)

	return d
}

// Instantiate binds the type parameters of a generic definition.
func Instantiate(def Type, args ...Type) (*Descriptor, error) {
	d, ok := def.(*Descriptor)
	if !ok || d == nil || d.template == nil {
		return nil, fmt.Errorf("instantiate %v: %w", def, ErrNotGenericDefinition)
	}

	return InstantiateFunc(d, d.template, args...)
}

// InstantiateFunc is Instantiate with tmpl producing the instance in place of
// the definition's own template. The instance's origin is still def.
func InstantiateFunc(def Type, tmpl Template, args ...Type) (*Descriptor, error) {
	d, ok := def.(*Descriptor)
	if !ok || d == nil || d.template == nil || tmpl == nil {
		return nil, fmt.Errorf("instantiate %v: %w", def, ErrNotGenericDefinition)
	}

	if len(args) != len(d.params) {
		return nil, fmt.Errorf("instantiate %s: %w: want %d, got %d", d.id, ErrArityMismatch, len(d.params), len(args))
	}

	ids := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("instantiate %s: type argument %d is nil", d.id, i)
		}
		ids[i] = a.ID()
	}

	spec, err := tmpl(args)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", d.id, err)
	}

	inst := &Descriptor{
		id:     common.Qualify(d.pkg, d.name) + "[" + strings.Join(ids, ",") + "]",
		pkg:    d.pkg,
		name:   d.name,
		kind:   d.kind,
		ctors:  slices.Clone(spec.Constructors),
		origin: d,
		args:   slices.Clone(args),
	}
	inst.base = baseFor(d.kind, spec.Base)
	inst.interfaces = closure(spec.Interfaces, inst.base)

	return inst, nil
}

// MustInstantiate is Instantiate that panics on error.
func MustInstantiate(def Type, args ...Type) *Descriptor {
	d, err := Instantiate(def, args...)
	if err != nil {
		panic(err)
	}

	return d
}

func baseFor(kind Kind, base Type) Type {
	if base != nil {
		return base
	}

	switch kind {
	case KindClass, KindPrimitive:
		return Object
	default:
		return nil
	}
}

// closure flattens declared interfaces with the interfaces they extend and
// those inherited from base.
func closure(declared []Type, base Type) []Type {
	var out []Type
	for _, i := range declared {
		if i == nil {
			continue
		}
		out = append(out, i)
		out = append(out, i.Interfaces()...)
	}

	if base != nil {
		out = append(out, base.Interfaces()...)
	}

	return common.UniqueBy(out, Type.ID)
}

// AddConstructor appends a constructor. It exists for builders whose
// constructor parameters refer back to the type being built and must not be
// called once the descriptor has been shared.
func (d *Descriptor) AddConstructor(c Constructor) {
	d.ctors = append(d.ctors, c)
}

func (d *Descriptor) ID() string      { return d.id }
func (d *Descriptor) Name() string    { return d.name }
func (d *Descriptor) Package() string { return d.pkg }
func (d *Descriptor) Kind() Kind      { return d.kind }
func (d *Descriptor) Base() Type      { return d.base }
func (d *Descriptor) String() string  { return d.id }

func (d *Descriptor) Interfaces() []Type {
	return slices.Clone(d.interfaces)
}

func (d *Descriptor) Constructors() []Constructor {
	return slices.Clone(d.ctors)
}

func (d *Descriptor) IsGeneric() bool {
	return d.template != nil || d.origin != nil
}

func (d *Descriptor) IsGenericDefinition() bool {
	return d.template != nil
}

func (d *Descriptor) GenericArgs() []Type {
	return slices.Clone(d.args)
}

func (d *Descriptor) GenericOrigin() Type {
	switch {
	case d.template != nil:
		return d
	case d.origin != nil:
		return d.origin
	default:
		return nil
	}
}

// Params returns the type parameter names of a generic definition.
func (d *Descriptor) Params() []string {
	return slices.Clone(d.params)
}
