package analyze

import (
	"fmt"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"typeshape/internal/diagnostic"
	"typeshape/typedesc"
)

// constructorOwner returns the type fn constructs, or nil if fn is not a
// constructor. A constructor is named New<Type> or new<Type>, optionally
// followed by an upper-case suffix, and returns T or *T, optionally followed
// by an error.
func constructorOwner(fn *types.Func) *types.TypeName {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil {
		return nil
	}

	results := sig.Results()
	switch {
	case results.Len() == 0 || results.Len() > 2:
		return nil
	case results.Len() == 2 && !types.Identical(results.At(1).Type(), types.Universe.Lookup("error").Type()):
		return nil
	}

	res := types.Unalias(results.At(0).Type())
	if p, ok := res.(*types.Pointer); ok {
		res = types.Unalias(p.Elem())
	}

	named, ok := res.(*types.Named)
	if !ok {
		return nil
	}

	owner := named.Origin().Obj()
	if owner.Pkg() != fn.Pkg() || !constructorName(fn.Name(), owner.Name()) {
		return nil
	}

	return owner
}

func constructorName(fn, typ string) bool {
	for _, prefix := range []string{"New", "new"} {
		rest, ok := strings.CutPrefix(fn, prefix+typ)
		if !ok {
			continue
		}

		if rest == "" {
			return true
		}

		r, _ := utf8.DecodeRuneInString(rest)

		return unicode.IsUpper(r)
	}

	return false
}

// constructors describes the constructor functions of obj in source order.
// The type parameters of a generic constructor are bound positionally to
// env.
func (d *describer) constructors(obj *types.TypeName, env []typedesc.Type) []typedesc.Constructor {
	var out []typedesc.Constructor
	for _, fn := range d.idx.ctors[obj] {
		sig := fn.Type().(*types.Signature)
		if sig.TypeParams().Len() != len(env) {
			d.a.info(diagnostic.CodeIgnoredFunc,
				fmt.Sprintf("%s has %d type parameters, %s has %d", fn.Name(), sig.TypeParams().Len(), obj.Name(), len(env)),
				obj.Pkg().Path()+"."+obj.Name(), d.a.position(fn.Pos()))
			continue
		}

		c := typedesc.Constructor{Name: fn.Name(), Exported: fn.Exported()}
		for i := 0; i < sig.Params().Len(); i++ {
			p := sig.Params().At(i)

			name := p.Name()
			if name == "" || name == "_" {
				name = fmt.Sprintf("arg%d", i)
			}

			c.Params = append(c.Params, typedesc.Parameter{
				Name:     name,
				Type:     d.describe(p.Type(), env),
				Position: i,
			})
		}

		out = append(out, c)
	}

	return out
}
