package analyze

import (
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"typeshape/internal/diagnostic"
	"typeshape/infer"
	"typeshape/typedesc"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and registers their types in a descriptor table.
//
// Generic definitions registered by the Analyzer describe their
// instantiations lazily, so the Analyzer must outlive the table's use.
type Analyzer struct {
	table  *typedesc.Table
	logger *zap.Logger
	dir    string
	fset   *token.FileSet

	mu       sync.Mutex // serializes LoadPackages
	packages map[string]*PackageInfo
	idx      atomic.Pointer[index]

	named sync.Map // *types.TypeName -> typedesc.Type
	defs  sync.Map // *types.TypeName -> *typedesc.Descriptor

	diagMu sync.Mutex
	diags  diagnostic.Diagnostics
	seen   map[string]bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithTable registers descriptors into t instead of a fresh table.
func WithTable(t *typedesc.Table) Option {
	return func(a *Analyzer) { a.table = t }
}

// WithDir sets the directory package patterns are resolved in.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:   zap.NewNop(),
		fset:     token.NewFileSet(),
		packages: make(map[string]*PackageInfo),
		seen:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.table == nil {
		a.table = typedesc.NewTable()
	}

	return a
}

// LoadPackages loads the specified packages and registers their exported
// named types. Patterns are standard Go package patterns
// (e.g., "./content", "typeshape/fixtures/...").
func (a *Analyzer) LoadPackages(patterns ...string) (*typedesc.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
		Fset: a.fset,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	idx := a.idx.Load().clone()
	for _, pkg := range pkgs {
		indexPackage(pkg.Types, idx)
	}
	a.idx.Store(idx)

	d := a.describer()
	for _, pkg := range pkgs {
		if err := a.processPackage(d, pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.table, nil
}

// Table returns the table descriptors are registered in.
func (a *Analyzer) Table() *typedesc.Table {
	return a.table
}

// Packages returns the loaded packages sorted by path.
func (a *Analyzer) Packages() []*PackageInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*PackageInfo, 0, len(a.packages))
	for _, p := range a.packages {
		out = append(out, p)
	}

	slices.SortFunc(out, func(x, y *PackageInfo) int { return cmp.Compare(x.Path, y.Path) })

	return out
}

// Diagnostics returns a copy of the findings collected so far.
func (a *Analyzer) Diagnostics() diagnostic.Diagnostics {
	a.diagMu.Lock()
	defer a.diagMu.Unlock()

	var out diagnostic.Diagnostics
	out.Merge(a.diags)

	return out
}

// TypeOf returns the descriptor registered for a type of a loaded package.
func (a *Analyzer) TypeOf(pkgPath, typeName string) (typedesc.Type, error) {
	name := pkgPath + "." + typeName

	t, ok := a.table.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("type %s not found", name)
	}

	return t, nil
}

// indexPackage records the constructors and named interfaces of pkg.
func indexPackage(pkg *types.Package, idx *index) {
	scope := pkg.Scope()

	var funcs []*types.Func
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.Func:
			funcs = append(funcs, obj)

		case *types.TypeName:
			named, ok := obj.Type().(*types.Named)
			if !ok || obj.IsAlias() || !obj.Exported() || named.TypeParams().Len() > 0 {
				continue
			}

			if iface, ok := named.Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
				idx.ifaces = append(idx.ifaces, named)
			}
		}
	}

	slices.SortFunc(funcs, func(x, y *types.Func) int { return cmp.Compare(x.Pos(), y.Pos()) })

	for _, fn := range funcs {
		if owner := constructorOwner(fn); owner != nil {
			idx.ctors[owner] = append(idx.ctors[owner], fn)
		}
	}
}

// processPackage registers the exported named types of a loaded package.
func (a *Analyzer) processPackage(d *describer, pkg *packages.Package) error {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		typ := d.declared(typeName)
		if err := a.table.Register(typ); err != nil {
			if errors.Is(err, typedesc.ErrDuplicateType) {
				a.logger.Debug("type already registered", zap.String("id", typ.ID()))
				continue
			}

			return err
		}

		a.reportTie(typ, typeName)
		pkgInfo.Types = append(pkgInfo.Types, typ.ID())
	}

	a.packages[pkg.PkgPath] = pkgInfo
	a.logger.Debug("processed package",
		zap.String("path", pkg.PkgPath),
		zap.Int("types", len(pkgInfo.Types)))

	return nil
}

// reportTie notes when several exported constructors share the lowest arity.
func (a *Analyzer) reportTie(t typedesc.Type, obj *types.TypeName) {
	best, ok := infer.DefaultConstructor(t)
	if !ok {
		return
	}

	var tied []string
	for _, c := range t.Constructors() {
		if c.Exported && c.Arity() == best.Arity() {
			tied = append(tied, c.Name)
		}
	}

	if len(tied) > 1 {
		a.info(diagnostic.CodeConstructorTie,
			fmt.Sprintf("%s take %d parameters; %s is the default", strings.Join(tied, ", "), best.Arity(), best.Name),
			t.ID(), a.position(obj.Pos()))
	}
}

func (a *Analyzer) warn(code, message, typ, source string) {
	a.report(diagnostic.SeverityWarning, code, message, typ, source)
}

func (a *Analyzer) info(code, message, typ, source string) {
	a.report(diagnostic.SeverityInfo, code, message, typ, source)
}

// report records a finding once, however often the type is re-described.
func (a *Analyzer) report(sev diagnostic.Severity, code, message, typ, source string) {
	a.diagMu.Lock()
	defer a.diagMu.Unlock()

	key := strings.Join([]string{code, typ, message}, "\x00")
	if a.seen[key] {
		return
	}
	a.seen[key] = true

	switch sev {
	case diagnostic.SeverityWarning:
		a.diags.AddWarning(code, message, typ, source)
	default:
		a.diags.AddInfo(code, message, typ, source)
	}

	a.logger.Debug("diagnostic",
		zap.Stringer("severity", sev),
		zap.String("code", code),
		zap.String("type", typ),
		zap.String("message", message))
}

func (a *Analyzer) position(pos token.Pos) string {
	if !pos.IsValid() {
		return ""
	}

	return a.fset.Position(pos).String()
}
