package analyze

import (
	"go/types"
	"strings"

	"typeshape/internal/common"
	"typeshape/internal/diagnostic"
	"typeshape/typedesc"
)

var predeclared = typedesc.Builtins()

// describer turns go/types types into descriptors. Each top-level describe
// pass and each generic instantiation uses its own describer; finished
// named types are shared through the Analyzer. Instantiations nested in one
// another share inflight, the IDs of instances whose templates are running.
type describer struct {
	a   *Analyzer
	idx *index

	pending  map[*types.TypeName]bool
	building map[*types.TypeName]*typedesc.Descriptor
	inflight map[string]bool
}

func (a *Analyzer) describer() *describer {
	idx := a.idx.Load()
	if idx == nil {
		idx = idx.clone()
	}

	return &describer{
		a:        a,
		idx:      idx,
		pending:  make(map[*types.TypeName]bool),
		building: make(map[*types.TypeName]*typedesc.Descriptor),
		inflight: make(map[string]bool),
	}
}

// nested returns a describer for a template run from within d.
func (d *describer) nested() *describer {
	child := d.a.describer()
	child.inflight = d.inflight

	return child
}

func instanceName(origin *types.TypeName, args []typedesc.Type) string {
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = a.ID()
	}

	return origin.Name() + "[" + strings.Join(ids, ",") + "]"
}

// declared returns the descriptor registered for a package-level type name.
func (d *describer) declared(obj *types.TypeName) typedesc.Type {
	if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
		return d.a.definition(obj)
	}

	return d.object(obj)
}

// describe returns the descriptor of t. env binds type parameters by index.
func (d *describer) describe(t types.Type, env []typedesc.Type) typedesc.Type {
	switch tt := types.Unalias(t).(type) {
	case *types.TypeParam:
		if i := tt.Index(); i < len(env) {
			return env[i]
		}

		return typedesc.Any

	case *types.Basic:
		if tt.Info()&types.IsString != 0 {
			return typedesc.Text
		}

		if b, ok := predeclared[tt.Name()]; ok {
			return b
		}

	case *types.Pointer:
		return typedesc.PointerTo(d.describe(tt.Elem(), env))

	case *types.Slice:
		return typedesc.ListOf(d.describe(tt.Elem(), env))

	case *types.Array:
		return typedesc.ArrayOf(d.describe(tt.Elem(), env), int(tt.Len()))

	case *types.Map:
		return typedesc.DictionaryOf(d.describe(tt.Key(), env), d.describe(tt.Elem(), env))

	case *types.Interface:
		if tt.Empty() {
			return typedesc.Any
		}

	case *types.Named:
		return d.named(tt, env)
	}

	return d.unsupported(t)
}

// unsupported describes channels, funcs and unnamed structs or interfaces
// as opaque types.
func (d *describer) unsupported(t types.Type) typedesc.Type {
	name := types.TypeString(t, nil)
	d.a.warn(diagnostic.CodeUnsupportedType, name+" is described as an opaque type", name, "")

	kind := typedesc.KindClass
	if types.IsInterface(t) {
		kind = typedesc.KindInterface
	}

	return typedesc.New(typedesc.Spec{Name: name, Kind: kind})
}

func (d *describer) named(n *types.Named, env []typedesc.Type) typedesc.Type {
	obj := n.Obj()
	if obj.Pkg() == nil {
		// error and comparable
		if b, ok := predeclared[obj.Name()]; ok {
			return b
		}

		return typedesc.Any
	}

	switch {
	case n.TypeArgs().Len() > 0:
		return d.instance(n, env)
	case n.TypeParams().Len() > 0:
		return d.a.definition(obj)
	default:
		return d.object(obj)
	}
}

// object describes a non-generic named type.
func (d *describer) object(obj *types.TypeName) typedesc.Type {
	if t, ok := d.a.named.Load(obj); ok {
		return t.(typedesc.Type)
	}

	if t, ok := d.building[obj]; ok {
		return t
	}

	if d.pending[obj] {
		// Referenced while its own base or interfaces are being resolved.
		return typedesc.New(typedesc.Spec{Package: obj.Pkg().Path(), Name: obj.Name(), Kind: kindOf(obj)})
	}

	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return d.describe(obj.Type(), nil)
	}

	d.pending[obj] = true
	spec := d.spec(named, nil)
	delete(d.pending, obj)

	desc := typedesc.New(spec)

	d.building[obj] = desc
	for _, c := range d.constructors(obj, nil) {
		desc.AddConstructor(c)
	}
	delete(d.building, obj)

	actual, _ := d.a.named.LoadOrStore(obj, typedesc.Type(desc))

	return actual.(typedesc.Type)
}

// instance describes an instantiated generic type.
func (d *describer) instance(n *types.Named, env []typedesc.Type) typedesc.Type {
	origin := n.Origin().Obj()

	args := make([]typedesc.Type, n.TypeArgs().Len())
	for i := range args {
		args[i] = d.describe(n.TypeArgs().At(i), env)
	}

	name := instanceName(origin, args)
	id := common.Qualify(origin.Pkg().Path(), name)
	stub := func() typedesc.Type {
		return typedesc.New(typedesc.Spec{Package: origin.Pkg().Path(), Name: name, Kind: kindOf(origin)})
	}

	if d.inflight[id] {
		// Self reference from within its own template.
		return stub()
	}

	d.inflight[id] = true
	defer delete(d.inflight, id)

	named := origin.Type().(*types.Named)
	inst, err := typedesc.InstantiateFunc(d.a.definition(origin), func(targs []typedesc.Type) (typedesc.Spec, error) {
		return d.nested().spec(named, targs), nil
	}, args...)
	if err != nil {
		d.a.warn(diagnostic.CodeUnsupportedType, err.Error(), id, d.a.position(origin.Pos()))
		return stub()
	}

	return inst
}

// definition returns the generic definition of a generic named type. Its
// template re-describes the type with the parameters bound to the
// instantiation arguments.
func (a *Analyzer) definition(obj *types.TypeName) *typedesc.Descriptor {
	if def, ok := a.defs.Load(obj); ok {
		return def.(*typedesc.Descriptor)
	}

	named := obj.Type().(*types.Named)
	params := make([]string, named.TypeParams().Len())
	for i := range params {
		params[i] = named.TypeParams().At(i).Obj().Name()
	}

	def := typedesc.NewGeneric(obj.Pkg().Path(), obj.Name(), kindOf(obj), params, func(targs []typedesc.Type) (typedesc.Spec, error) {
		d := a.describer()
		d.inflight[common.Qualify(obj.Pkg().Path(), instanceName(obj, targs))] = true

		return d.spec(named, targs), nil
	})

	actual, _ := a.defs.LoadOrStore(obj, def)

	return actual.(*typedesc.Descriptor)
}

// spec collects base, interfaces and, for generic types, constructors.
// Non-generic types get their constructors once their descriptor exists.
func (d *describer) spec(named *types.Named, env []typedesc.Type) typedesc.Spec {
	obj := named.Obj()
	spec := typedesc.Spec{
		Package: obj.Pkg().Path(),
		Name:    obj.Name(),
		Kind:    kindOf(obj),
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		spec.Base = d.embeddedBase(u, env)

	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if e, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named); ok {
				spec.Interfaces = append(spec.Interfaces, d.describe(e, env))
			}
		}

	default:
		spec.Base = d.describe(u, env)
	}

	spec.Interfaces = append(spec.Interfaces, d.shapes(named, env)...)

	if named.TypeParams().Len() > 0 {
		spec.Constructors = d.constructors(obj, env)
	} else if spec.Kind != typedesc.KindInterface {
		spec.Interfaces = append(spec.Interfaces, d.implemented(named)...)
	}

	return spec
}

// embeddedBase returns the first embedded named struct, by value or pointer.
func (d *describer) embeddedBase(st *types.Struct, env []typedesc.Type) typedesc.Type {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}

		ft := types.Unalias(f.Type())
		if p, ok := ft.(*types.Pointer); ok {
			ft = types.Unalias(p.Elem())
		}

		n, ok := ft.(*types.Named)
		if !ok || d.pending[n.Origin().Obj()] {
			continue
		}

		if _, isStruct := n.Underlying().(*types.Struct); isStruct {
			return d.describe(n, env)
		}
	}

	return nil
}

// shapes applies the iterator shape rules to t's method set.
func (d *describer) shapes(t types.Type, env []typedesc.Type) []typedesc.Type {
	all := methodSig(t, "All")
	if all == nil || all.Params().Len() != 0 || all.Results().Len() != 1 {
		return nil
	}

	yield := yieldSig(all.Results().At(0).Type())
	if yield == nil {
		return nil
	}

	hasLen := false
	if l := methodSig(t, "Len"); l != nil && l.Params().Len() == 0 && l.Results().Len() == 1 &&
		types.Identical(l.Results().At(0).Type(), types.Typ[types.Int]) {
		hasLen = true
	}

	switch yield.Params().Len() {
	case 1:
		elem := d.describe(yield.Params().At(0).Type(), env)
		if hasLen {
			return []typedesc.Type{typedesc.CollectionOf(elem)}
		}

		return []typedesc.Type{typedesc.SequenceOf(elem)}

	case 2:
		key := d.describe(yield.Params().At(0).Type(), env)
		val := d.describe(yield.Params().At(1).Type(), env)

		// Each generic method has its own receiver type parameters, so
		// signatures are compared as descriptors.
		if l := methodSig(t, "Lookup"); l != nil && l.Params().Len() == 1 && l.Results().Len() == 2 &&
			typedesc.Same(d.describe(l.Params().At(0).Type(), env), key) &&
			typedesc.Same(d.describe(l.Results().At(0).Type(), env), val) &&
			types.Identical(l.Results().At(1).Type(), types.Typ[types.Bool]) {
			return []typedesc.Type{typedesc.MappingOf(key, val)}
		}

		pair := typedesc.PairOf(key, val)
		if hasLen {
			return []typedesc.Type{typedesc.CollectionOf(pair)}
		}

		return []typedesc.Type{typedesc.SequenceOf(pair)}
	}

	return nil
}

// implemented returns the named interfaces of the loaded packages that T or
// *T implements.
func (d *describer) implemented(named *types.Named) []typedesc.Type {
	var out []typedesc.Type
	for _, iface := range d.idx.ifaces {
		if iface.Obj() == named.Obj() {
			continue
		}

		it, ok := iface.Underlying().(*types.Interface)
		if !ok {
			continue
		}

		if types.Implements(named, it) || types.Implements(types.NewPointer(named), it) {
			out = append(out, d.describe(iface, nil))
		}
	}

	return out
}

func kindOf(obj *types.TypeName) typedesc.Kind {
	if types.IsInterface(obj.Type()) {
		return typedesc.KindInterface
	}

	return typedesc.KindClass
}

// methodSig returns the signature of the named method of t or *t.
func methodSig(t types.Type, name string) *types.Signature {
	obj, _, _ := types.LookupFieldOrMethod(t, true, nil, name)

	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}

	sig, _ := fn.Type().(*types.Signature)

	return sig
}

// yieldSig returns the yield callback of an iter.Seq or iter.Seq2 type.
func yieldSig(seq types.Type) *types.Signature {
	fn, ok := seq.Underlying().(*types.Signature)
	if !ok || fn.Params().Len() != 1 || fn.Results().Len() != 0 {
		return nil
	}

	yield, ok := fn.Params().At(0).Type().Underlying().(*types.Signature)
	if !ok || yield.Results().Len() != 1 || !types.Identical(yield.Results().At(0).Type(), types.Typ[types.Bool]) {
		return nil
	}

	if n := yield.Params().Len(); n < 1 || n > 2 {
		return nil
	}

	return yield
}
