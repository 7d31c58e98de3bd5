package manifest

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"typeshape/internal/diagnostic"
)

// Validate checks the structure of a manifest: names, kinds, parameters and
// the syntax of type expressions. It does not resolve references.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeInvalidDefinition, "manifest is nil", "", "")
		return res
	}

	if f.Package == "" {
		res.AddError(diagnostic.CodeInvalidDefinition, "package is required", "", "package")
	}

	seen := make(map[string]int)

	for i := range f.Types {
		decl := &f.Types[i]
		src := fmt.Sprintf("types[%d]", i)

		if !token.IsIdentifier(decl.Name) {
			res.AddError(diagnostic.CodeInvalidDefinition, fmt.Sprintf("invalid type name %q", decl.Name), decl.Name, src+".name")
			continue
		}

		if prev, ok := seen[decl.Name]; ok {
			res.AddError(diagnostic.CodeDuplicateType,
				fmt.Sprintf("type %s is already declared at types[%d]", decl.Name, prev), decl.Name, src)
			continue
		}
		seen[decl.Name] = i

		switch decl.Kind {
		case "", "class", "struct":
		case "interface":
			if decl.Base != "" {
				res.AddError(diagnostic.CodeInvalidDefinition, "interfaces cannot have a base type", decl.Name, src+".base")
			}
		default:
			res.AddError(diagnostic.CodeInvalidDefinition,
				fmt.Sprintf("invalid kind %q (expected 'class' or 'interface')", decl.Kind), decl.Name, src+".kind")
		}

		params := make(map[string]bool)
		for j, p := range decl.Params {
			if !token.IsIdentifier(p) || params[p] {
				res.AddError(diagnostic.CodeInvalidDefinition,
					fmt.Sprintf("invalid or repeated type parameter %q", p), decl.Name, fmt.Sprintf("%s.params[%d]", src, j))
			}
			params[p] = true
		}

		validateExpr(res, decl.Name, src+".base", decl.Base)
		for j, iface := range decl.Interfaces {
			validateExpr(res, decl.Name, fmt.Sprintf("%s.interfaces[%d]", src, j), iface)
		}

		for j := range decl.Constructors {
			validateConstructor(res, decl, &decl.Constructors[j], fmt.Sprintf("%s.constructors[%d]", src, j))
		}
	}

	return res
}

func validateConstructor(res *diagnostic.Diagnostics, decl *TypeDecl, c *ConstructorDecl, src string) {
	if !token.IsIdentifier(c.Name) {
		res.AddError(diagnostic.CodeInvalidDefinition, fmt.Sprintf("invalid constructor name %q", c.Name), decl.Name, src+".name")
	}

	for i, p := range c.Params {
		psrc := fmt.Sprintf("%s.params[%d]", src, i)
		if p.Name == "" {
			res.AddError(diagnostic.CodeInvalidDefinition, "parameter name is required", decl.Name, psrc)
		}

		if p.Type == "" {
			res.AddError(diagnostic.CodeInvalidDefinition, "parameter type is required", decl.Name, psrc)
			continue
		}

		validateExpr(res, decl.Name, psrc+".type", p.Type)
	}
}

func validateExpr(res *diagnostic.Diagnostics, typ, src, expr string) {
	if expr == "" {
		return
	}

	// Full import paths are resolved by name, not parsed.
	if _, err := parser.ParseExpr(expr); err != nil && !strings.Contains(expr, "/") {
		res.AddError(diagnostic.CodeInvalidDefinition, fmt.Sprintf("invalid type expression %q: %v", expr, err), typ, src)
	}
}
