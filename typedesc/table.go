package typedesc

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"sync"

	"typeshape/internal/common"
)

var (
	// ErrDuplicateType is returned when a type ID is registered twice.
	ErrDuplicateType = errors.New("duplicate type")
	// ErrUnknownType is returned when a name or expression cannot be resolved.
	ErrUnknownType = errors.New("unknown type")
)

// Table is a registry of named descriptors. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	byID    map[string]Type
	byName  map[string][]Type // qualified name without generic brackets
	aliases map[string]Type
}

// NewTable creates a table seeded with the builtin descriptors.
func NewTable() *Table {
	t := &Table{
		byID:    make(map[string]Type),
		byName:  make(map[string][]Type),
		aliases: make(map[string]Type),
	}

	for name, b := range Builtins() {
		if b.ID() != name && !b.IsGenericDefinition() {
			t.aliases[name] = b
			continue
		}

		if err := t.Register(b); err != nil {
			panic(err)
		}
	}

	return t
}

// Register adds a descriptor. IDs must be unique.
func (t *Table) Register(typ Type) error {
	return t.RegisterAll(typ)
}

// RegisterAll adds descriptors as a unit: if any is nil or its ID is taken,
// by the table or an earlier element, none is added.
func (t *Table) RegisterAll(types ...Type) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	seen := make(map[string]bool, len(types))
	for _, typ := range types {
		if typ == nil {
			errs = append(errs, errors.New("register: nil type"))
			continue
		}

		id := typ.ID()
		if _, ok := t.byID[id]; ok || seen[id] {
			errs = append(errs, fmt.Errorf("register %s: %w", id, ErrDuplicateType))
		}
		seen[id] = true
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, typ := range types {
		t.byID[typ.ID()] = typ
		qn := common.Qualify(typ.Package(), typ.Name())
		t.byName[qn] = append(t.byName[qn], typ)
	}

	return nil
}

// Lookup returns the descriptor registered under id.
func (t *Table) Lookup(id string) (Type, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if typ, ok := t.byID[id]; ok {
		return typ, true
	}

	typ, ok := t.aliases[id]

	return typ, ok
}

// LookupName resolves a type name written as:
//   - "typeshape/fixtures/content.Article" (full)
//   - "content.Article" (package alias)
//   - "Article" (name only, must be unambiguous)
//
// Generic definitions are found by their name without brackets.
func (t *Table) LookupName(name string) (Type, bool) {
	if typ, ok := t.Lookup(name); ok {
		return typ, true
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if found := t.byName[name]; len(found) > 0 {
		return found[0], true
	}

	pkg, short := "", name
	if i := strings.LastIndex(name, "."); i >= 0 {
		pkg, short = name[:i], name[i+1:]
	}

	if short == "" {
		return nil, false
	}

	var matches []Type
	for _, qn := range t.sortedNames() {
		for _, typ := range t.byName[qn] {
			if typ.Name() != short {
				continue
			}

			if pkg == "" || typ.Package() == pkg || strings.HasSuffix(typ.Package(), "/"+pkg) {
				matches = append(matches, typ)
			}
		}
	}

	return common.Single(matches)
}

func (t *Table) sortedNames() []string {
	names := make([]string, 0, len(t.byName))
	for qn := range t.byName {
		names = append(names, qn)
	}
	sort.Strings(names)

	return names
}

// Types returns the registered descriptors sorted by ID.
func (t *Table) Types() []Type {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Type, 0, len(t.byID))
	for _, typ := range t.byID {
		out = append(out, typ)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })

	return out
}

// Len returns the number of registered descriptors.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byID)
}

// Resolve parses a Go type expression such as "List[int]",
// "content.Page[content.Article]", "map[string]int", "[]T" or "*T" and
// returns its descriptor. env binds generic parameter names and other local
// names, bare or package-qualified, and may be nil.
func (t *Table) Resolve(expr string, env map[string]Type) (Type, error) {
	expr = strings.TrimSpace(expr)
	if typ, ok := env[expr]; ok {
		return typ, nil
	}

	if typ, ok := t.Lookup(expr); ok {
		return typ, nil
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		// Full import paths are not Go expressions.
		if typ, ok := t.LookupName(expr); ok {
			return typ, nil
		}

		return nil, fmt.Errorf("parse type expression %q: %w", expr, err)
	}

	return t.resolveNode(node, env)
}

func (t *Table) resolveNode(node ast.Expr, env map[string]Type) (Type, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return t.resolveNode(n.X, env)

	case *ast.Ident:
		if typ, ok := env[n.Name]; ok {
			return typ, nil
		}

		return t.named(n.Name)

	case *ast.SelectorExpr:
		pkg, ok := n.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported selector %T", n.X)
		}

		name := pkg.Name + "." + n.Sel.Name
		if typ, ok := env[name]; ok {
			return typ, nil
		}

		return t.named(name)

	case *ast.StarExpr:
		elem, err := t.resolveNode(n.X, env)
		if err != nil {
			return nil, err
		}

		return PointerTo(elem), nil

	case *ast.ArrayType:
		elem, err := t.resolveNode(n.Elt, env)
		if err != nil {
			return nil, err
		}

		if n.Len == nil {
			return ListOf(elem), nil
		}

		lit, ok := n.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return nil, fmt.Errorf("unsupported array length %T", n.Len)
		}

		size, err := strconv.Atoi(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("array length %q: %w", lit.Value, err)
		}

		return ArrayOf(elem, size), nil

	case *ast.MapType:
		key, err := t.resolveNode(n.Key, env)
		if err != nil {
			return nil, err
		}

		val, err := t.resolveNode(n.Value, env)
		if err != nil {
			return nil, err
		}

		return DictionaryOf(key, val), nil

	case *ast.InterfaceType:
		if n.Methods == nil || len(n.Methods.List) == 0 {
			return Any, nil
		}

		return nil, errors.New("inline interface types are not supported")

	case *ast.IndexExpr:
		return t.instantiate(n.X, []ast.Expr{n.Index}, env)

	case *ast.IndexListExpr:
		return t.instantiate(n.X, n.Indices, env)

	default:
		return nil, fmt.Errorf("unsupported type expression %T", node)
	}
}

func (t *Table) named(name string) (Type, error) {
	typ, ok := t.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	return typ, nil
}

func (t *Table) instantiate(x ast.Expr, indices []ast.Expr, env map[string]Type) (Type, error) {
	def, err := t.resolveNode(x, env)
	if err != nil {
		return nil, err
	}

	args := make([]Type, len(indices))
	for i, idx := range indices {
		if args[i], err = t.resolveNode(idx, env); err != nil {
			return nil, err
		}
	}

	return Instantiate(def, args...)
}
