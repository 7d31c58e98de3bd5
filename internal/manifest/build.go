package manifest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"typeshape/internal/common"
	"typeshape/internal/diagnostic"
	"typeshape/typedesc"
)

// Builder registers manifest declarations in a descriptor table.
type Builder struct {
	table  *typedesc.Table
	logger *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder registering into table.
func NewBuilder(table *typedesc.Table, opts ...Option) *Builder {
	b := &Builder{table: table, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build validates f and registers its declarations in table. It returns the
// registered descriptors in declaration order.
func Build(f *File, table *typedesc.Table) ([]typedesc.Type, error) {
	types, diags := NewBuilder(table).Build(f)
	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("build manifest: %w", err)
	}

	return types, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// build is the state of one Build call.
type build struct {
	b     *Builder
	file  *File
	diags *diagnostic.Diagnostics
	alias string

	decls   map[string]int // name -> index in file.Types
	env     map[string]typedesc.Type
	descs   map[string]*typedesc.Descriptor
	shallow map[string]*typedesc.Descriptor
	state   map[string]visitState
	stack   []string
}

// Build validates f and registers its declarations. Declarations may appear
// in any order; non-generic ones are built after the declarations their base
// and interfaces refer to, and constructors are resolved once every
// declaration exists. Nothing is registered if validation or resolution
// fails.
func (b *Builder) Build(f *File) ([]typedesc.Type, *diagnostic.Diagnostics) {
	diags := Validate(f)
	if diags.HasErrors() {
		return nil, diags
	}

	s := &build{
		b:       b,
		file:    f,
		diags:   diags,
		alias:   common.PkgAlias(f.Package),
		decls:   make(map[string]int, len(f.Types)),
		env:     make(map[string]typedesc.Type, 2*len(f.Types)),
		descs:   make(map[string]*typedesc.Descriptor),
		shallow: make(map[string]*typedesc.Descriptor),
		state:   make(map[string]visitState),
	}

	for i := range f.Types {
		s.decls[f.Types[i].Name] = i
	}

	// Generic definitions expand lazily, so every declaration can use them.
	for i := range f.Types {
		if decl := f.Types[i]; decl.IsGeneric() {
			kind, _ := typedesc.ParseKind(decl.Kind)
			s.shallow[decl.Name] = typedesc.NewGeneric(f.Package, decl.Name, kind, decl.Params,
				func([]typedesc.Type) (typedesc.Spec, error) { return typedesc.Spec{}, nil })
		}
	}

	for i := range f.Types {
		if decl := f.Types[i]; decl.IsGeneric() {
			s.bind(s.env, decl.Name, s.definition(decl))
		}
	}

	for i := range f.Types {
		if !f.Types[i].IsGeneric() {
			s.visit(f.Types[i].Name)
		}
	}

	s.resolveConstructors()
	s.checkGenerics()

	if s.diags.HasErrors() {
		return nil, s.diags
	}

	out := make([]typedesc.Type, len(f.Types))
	for i, decl := range f.Types {
		out[i] = s.env[decl.Name]
		if _, taken := b.table.Lookup(out[i].ID()); taken {
			s.diags.AddError(diagnostic.CodeDuplicateType, fmt.Sprintf("type %s is already registered", out[i].ID()),
				decl.Name, fmt.Sprintf("types[%d]", i))
		}
	}

	if s.diags.HasErrors() {
		return nil, s.diags
	}

	if err := b.table.RegisterAll(out...); err != nil {
		s.diags.AddError(diagnostic.CodeDuplicateType, err.Error(), "", "")
		return nil, s.diags
	}

	b.logger.Debug("built manifest",
		zap.String("package", f.Package),
		zap.Int("types", len(out)))

	return out, s.diags
}

// bind makes a declaration resolvable by its bare and package-qualified name.
func (s *build) bind(scope map[string]typedesc.Type, name string, t typedesc.Type) {
	scope[name] = t
	if s.alias != "" {
		scope[s.alias+"."+name] = t
	}
}

// visit builds a non-generic declaration after its dependencies.
func (s *build) visit(name string) typedesc.Type {
	switch s.state[name] {
	case visited:
		return s.env[name]

	case visiting:
		start := slices.Index(s.stack, name)
		cycle := append(slices.Clone(s.stack[start:]), name)
		s.diags.AddError(diagnostic.CodeCycle, "declaration cycle: "+strings.Join(cycle, " -> "),
			name, fmt.Sprintf("types[%d]", s.decls[name]))

		return nil
	}

	s.state[name] = visiting
	s.stack = append(s.stack, name)

	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
		s.state[name] = visited
	}()

	i := s.decls[name]
	decl := &s.file.Types[i]

	for _, dep := range s.deps(decl, make(map[string]bool)) {
		if s.visit(dep) == nil {
			return nil
		}
	}

	kind, _ := typedesc.ParseKind(decl.Kind)
	spec := typedesc.Spec{Package: s.file.Package, Name: decl.Name, Kind: kind}

	if decl.Base != "" {
		base, err := s.b.table.Resolve(decl.Base, s.env)
		if err != nil {
			s.diags.AddError(diagnostic.CodeUnknownType, err.Error(), name, fmt.Sprintf("types[%d].base", i))
			return nil
		}

		spec.Base = base
	}

	for j, expr := range decl.Interfaces {
		iface, err := s.b.table.Resolve(expr, s.env)
		if err != nil {
			s.diags.AddError(diagnostic.CodeUnknownType, err.Error(), name, fmt.Sprintf("types[%d].interfaces[%d]", i, j))
			return nil
		}

		spec.Interfaces = append(spec.Interfaces, iface)
	}

	d := typedesc.New(spec)
	s.bind(s.env, name, d)
	s.descs[name] = d

	return d
}

// refs lists the declarations named by decl's base and interfaces and, for
// generic declarations, constructor parameters. decl's own type parameters
// are excluded.
func (s *build) refs(decl *TypeDecl) []string {
	exprs := slices.Concat([]string{decl.Base}, decl.Interfaces)
	if decl.IsGeneric() {
		for _, c := range decl.Constructors {
			for _, p := range c.Params {
				exprs = append(exprs, p.Type)
			}
		}
	}

	var out []string
	add := func(name string) {
		if _, ok := s.decls[name]; ok && !slices.Contains(decl.Params, name) {
			out = append(out, name)
		}
	}

	for _, expr := range exprs {
		node, err := parser.ParseExpr(expr)
		if err != nil {
			continue
		}

		ast.Inspect(node, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.SelectorExpr:
				if x, ok := n.X.(*ast.Ident); ok && x.Name == s.alias {
					add(n.Sel.Name)
				}

				return false

			case *ast.Ident:
				add(n.Name)
			}

			return true
		})
	}

	return common.UniqueBy(out, func(name string) string { return name })
}

// deps lists the non-generic declarations decl refers to, directly or
// through the generic declarations it instantiates.
func (s *build) deps(decl *TypeDecl, seen map[string]bool) []string {
	seen[decl.Name] = true

	var out []string
	for _, name := range s.refs(decl) {
		dep := &s.file.Types[s.decls[name]]
		switch {
		case !dep.IsGeneric():
			out = append(out, name)
		case !seen[name]:
			out = append(out, s.deps(dep, seen)...)
		}
	}

	return common.UniqueBy(out, func(name string) string { return name })
}

// reach returns the generic declarations reachable from name through the
// expressions of generic declarations.
func (s *build) reach(name string) map[string]bool {
	seen := make(map[string]bool)

	var walk func(string)
	walk = func(from string) {
		for _, r := range s.refs(&s.file.Types[s.decls[from]]) {
			if s.file.Types[s.decls[r]].IsGeneric() && !seen[r] {
				seen[r] = true
				walk(r)
			}
		}
	}
	walk(name)

	return seen
}

// definition returns the generic definition of decl. Its template resolves
// the declaration's expressions with the parameters bound to the arguments.
// Generic declarations on a reference cycle with decl, decl included, expand
// to instances without interfaces or constructors there.
func (s *build) definition(decl TypeDecl) *typedesc.Descriptor {
	kind, _ := typedesc.ParseKind(decl.Kind)

	from := s.reach(decl.Name)

	var cyclic []string
	for name := range from {
		if name == decl.Name || s.reach(name)[decl.Name] {
			cyclic = append(cyclic, name)
		}
	}

	table, env := s.b.table, s.env

	return typedesc.NewGeneric(s.file.Package, decl.Name, kind, decl.Params, func(args []typedesc.Type) (typedesc.Spec, error) {
		scope := maps.Clone(env)
		for _, name := range cyclic {
			s.bind(scope, name, s.shallow[name])
		}

		for i, p := range decl.Params {
			scope[p] = args[i]
		}

		return expand(table, &decl, scope)
	})
}

// expand resolves a generic declaration within scope.
func expand(table *typedesc.Table, decl *TypeDecl, scope map[string]typedesc.Type) (typedesc.Spec, error) {
	var spec typedesc.Spec

	if decl.Base != "" {
		base, err := table.Resolve(decl.Base, scope)
		if err != nil {
			return spec, fmt.Errorf("base: %w", err)
		}

		spec.Base = base
	}

	for _, expr := range decl.Interfaces {
		iface, err := table.Resolve(expr, scope)
		if err != nil {
			return spec, fmt.Errorf("interface: %w", err)
		}

		spec.Interfaces = append(spec.Interfaces, iface)
	}

	for i := range decl.Constructors {
		c, err := resolveConstructor(table, &decl.Constructors[i], scope)
		if err != nil {
			return spec, err
		}

		spec.Constructors = append(spec.Constructors, c)
	}

	return spec, nil
}

func resolveConstructor(table *typedesc.Table, c *ConstructorDecl, env map[string]typedesc.Type) (typedesc.Constructor, error) {
	out := typedesc.Constructor{Name: c.Name, Exported: c.IsExported()}

	for i, p := range c.Params {
		typ, err := table.Resolve(p.Type, env)
		if err != nil {
			return out, fmt.Errorf("constructor %s parameter %s: %w", c.Name, p.Name, err)
		}

		out.Params = append(out.Params, typedesc.Parameter{Name: p.Name, Type: typ, Position: i})
	}

	return out, nil
}

// resolveConstructors attaches constructors to the built non-generic
// declarations. Parameters may refer to any declaration.
func (s *build) resolveConstructors() {
	for i := range s.file.Types {
		decl := &s.file.Types[i]

		d, ok := s.descs[decl.Name]
		if !ok {
			continue
		}

		for j := range decl.Constructors {
			c, err := resolveConstructor(s.b.table, &decl.Constructors[j], s.env)
			if err != nil {
				s.diags.AddError(diagnostic.CodeUnknownType, err.Error(), decl.Name,
					fmt.Sprintf("types[%d].constructors[%d]", i, j))
				continue
			}

			d.AddConstructor(c)
		}
	}
}

// checkGenerics expands every generic declaration once with any-typed
// arguments so unresolvable references surface at build time.
func (s *build) checkGenerics() {
	for i := range s.file.Types {
		decl := &s.file.Types[i]
		if !decl.IsGeneric() {
			continue
		}

		args := slices.Repeat([]typedesc.Type{typedesc.Any}, len(decl.Params))
		if _, err := typedesc.Instantiate(s.env[decl.Name], args...); err != nil {
			s.diags.AddError(diagnostic.CodeUnknownType, err.Error(), decl.Name, fmt.Sprintf("types[%d]", i))
		}
	}
}
