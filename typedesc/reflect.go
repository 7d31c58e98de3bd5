package typedesc

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"sync"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	predeclared = Builtins()
)

// Reflector describes runtime reflect.Type values.
//
// Runtime reflection exposes no generic origin, so named generic
// instantiations are described as plain named types. Go has no constructors
// either; they are registered explicitly with RegisterConstructor before the
// owning type is first described.
type Reflector struct {
	cache sync.Map // reflect.Type -> Type

	mu       sync.Mutex
	ctors    map[reflect.Type][]registeredCtor
	building map[reflect.Type]*Descriptor
	pending  map[reflect.Type]bool
	staged   map[reflect.Type]Type // built by the current pass, not yet published
}

type registeredCtor struct {
	name   string
	fn     reflect.Type
	params []string
}

// NewReflector creates an empty Reflector.
func NewReflector() *Reflector {
	return &Reflector{
		ctors:    make(map[reflect.Type][]registeredCtor),
		building: make(map[reflect.Type]*Descriptor),
		pending:  make(map[reflect.Type]bool),
		staged:   make(map[reflect.Type]Type),
	}
}

// RegisterConstructor records fn as a constructor of the type it returns.
// fn must be a func returning T or *T, optionally followed by an error.
// paramNames name the parameters in order; missing names default to argN.
func (r *Reflector) RegisterConstructor(name string, fn any, paramNames ...string) error {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return fmt.Errorf("register constructor %s: %T is not a func", name, fn)
	}

	switch {
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		return fmt.Errorf("register constructor %s: want 1 or 2 results, got %d", name, ft.NumOut())
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return fmt.Errorf("register constructor %s: second result must be error", name)
	}

	owner := ft.Out(0)
	if owner.Kind() == reflect.Ptr {
		owner = owner.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, described := r.cache.Load(owner); described {
		return fmt.Errorf("register constructor %s: %s was already described", name, owner)
	}

	r.ctors[owner] = append(r.ctors[owner], registeredCtor{name: name, fn: ft, params: paramNames})

	return nil
}

// Describe returns the descriptor of t, building it on first use.
func (r *Reflector) Describe(t reflect.Type) Type {
	if t == nil {
		return nil
	}

	if v, ok := r.cache.Load(t); ok {
		return v.(Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.describe(t)

	// Descriptors of a pass are complete only once the outermost describe
	// returns.
	for st, v := range r.staged {
		r.cache.Store(st, v)
	}
	clear(r.staged)

	return out
}

// DescribeValue is Describe(reflect.TypeOf(v)).
func (r *Reflector) DescribeValue(v any) Type {
	return r.Describe(reflect.TypeOf(v))
}

func (r *Reflector) describe(t reflect.Type) Type {
	if v, ok := r.cache.Load(t); ok {
		return v.(Type)
	}

	if v, ok := r.staged[t]; ok {
		return v
	}

	if d, ok := r.building[t]; ok {
		return d
	}

	if r.pending[t] {
		// Referenced while its own base or interfaces are being resolved.
		return New(Spec{Package: t.PkgPath(), Name: t.Name(), Kind: reflectKind(t)})
	}

	var out Type
	if t.Name() == "" || t.PkgPath() == "" {
		out = r.unnamed(t)
	} else {
		out = r.named(t)
	}

	// A nested describe may have staged t while out was being built.
	if v, ok := r.staged[t]; ok {
		return v
	}

	r.staged[t] = out

	return out
}

func reflectKind(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Interface:
		return KindInterface
	case reflect.Ptr:
		return KindPointer
	default:
		return KindClass
	}
}

// unnamed describes composite literals and predeclared types.
func (r *Reflector) unnamed(t reflect.Type) Type {
	switch t.Kind() {
	case reflect.Ptr:
		return PointerTo(r.describe(t.Elem()))
	case reflect.Slice:
		return ListOf(r.describe(t.Elem()))
	case reflect.Array:
		return ArrayOf(r.describe(t.Elem()), t.Len())
	case reflect.Map:
		return DictionaryOf(r.describe(t.Key()), r.describe(t.Elem()))
	case reflect.String:
		return Text
	case reflect.Interface:
		switch {
		case t == errorType:
			return Error
		case t.NumMethod() == 0:
			return Any
		default:
			return New(Spec{Name: t.String(), Kind: KindInterface, Interfaces: r.iteratorShapes(t)})
		}
	}

	if b, ok := predeclared[t.Kind().String()]; ok {
		return b
	}

	return New(Spec{Name: t.String(), Kind: KindClass})
}

func (r *Reflector) named(t reflect.Type) Type {
	r.pending[t] = true
	defer delete(r.pending, t)

	spec := Spec{
		Package:    t.PkgPath(),
		Name:       t.Name(),
		Kind:       reflectKind(t),
		Base:       r.baseOf(t),
		Interfaces: r.iteratorShapes(t),
	}

	d := New(spec)

	r.building[t] = d
	defer delete(r.building, t)

	for _, rc := range r.ctors[t] {
		d.AddConstructor(r.constructor(rc))
	}

	return d
}

// baseOf returns the type t derives from: the first embedded struct for
// structs, the underlying type for other named types.
func (r *Reflector) baseOf(t reflect.Type) Type {
	switch t.Kind() {
	case reflect.Interface:
		return nil

	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}

			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}

			if ft.Kind() == reflect.Struct && ft.Name() != "" && !r.pending[ft] {
				return r.describe(ft)
			}
		}

		return nil

	case reflect.Slice:
		return r.describe(reflect.SliceOf(t.Elem()))
	case reflect.Array:
		return r.describe(reflect.ArrayOf(t.Len(), t.Elem()))
	case reflect.Map:
		return r.describe(reflect.MapOf(t.Key(), t.Elem()))
	case reflect.Ptr:
		return r.describe(reflect.PointerTo(t.Elem()))
	case reflect.String:
		return Text
	}

	if b, ok := predeclared[t.Kind().String()]; ok {
		return b
	}

	return nil
}

func (r *Reflector) constructor(rc registeredCtor) Constructor {
	c := Constructor{Name: rc.name, Exported: token.IsExported(rc.name)}

	for i := 0; i < rc.fn.NumIn(); i++ {
		name := fmt.Sprintf("arg%d", i)
		if i < len(rc.params) && rc.params[i] != "" {
			name = rc.params[i]
		}

		c.Params = append(c.Params, Parameter{Name: name, Type: r.describe(rc.fn.In(i)), Position: i})
	}

	return c
}

// iteratorShapes applies the iterator shape rules to t's method set.
func (r *Reflector) iteratorShapes(t reflect.Type) []Type {
	in, out, ok := methodSig(t, "All")
	if !ok || len(in) != 0 || len(out) != 1 {
		return nil
	}

	yield, err := yieldFunc(out[0])
	if err != nil {
		return nil
	}

	hasLen := false
	if lin, lout, ok := methodSig(t, "Len"); ok && len(lin) == 0 && len(lout) == 1 && lout[0].Kind() == reflect.Int {
		hasLen = true
	}

	switch yield.NumIn() {
	case 1:
		elem := r.describe(yield.In(0))
		if hasLen {
			return []Type{CollectionOf(elem)}
		}

		return []Type{SequenceOf(elem)}

	case 2:
		key, val := r.describe(yield.In(0)), r.describe(yield.In(1))
		if lin, lout, ok := methodSig(t, "Lookup"); ok &&
			len(lin) == 1 && lin[0] == yield.In(0) &&
			len(lout) == 2 && lout[0] == yield.In(1) && lout[1].Kind() == reflect.Bool {
			return []Type{MappingOf(key, val)}
		}

		if hasLen {
			return []Type{CollectionOf(PairOf(key, val))}
		}

		return []Type{SequenceOf(PairOf(key, val))}
	}

	return nil
}

// methodSig returns the parameter and result types of a method, without the
// receiver.
func methodSig(t reflect.Type, name string) (in, out []reflect.Type, ok bool) {
	mset, skip := t, 0
	if t.Kind() != reflect.Interface {
		mset, skip = reflect.PointerTo(t), 1
	}

	m, found := mset.MethodByName(name)
	if !found {
		return nil, nil, false
	}

	ft := m.Type
	for i := skip; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}

	for i := 0; i < ft.NumOut(); i++ {
		out = append(out, ft.Out(i))
	}

	return in, out, true
}

// yieldFunc extracts the yield callback of an iter.Seq or iter.Seq2 type.
func yieldFunc(seq reflect.Type) (reflect.Type, error) {
	if seq.Kind() != reflect.Func || seq.NumIn() != 1 || seq.NumOut() != 0 {
		return nil, errors.New("not an iterator")
	}

	yield := seq.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, errors.New("not a yield func")
	}

	if yield.NumIn() < 1 || yield.NumIn() > 2 {
		return nil, errors.New("unsupported yield arity")
	}

	return yield, nil
}
