package analyze

import (
	"go/types"
	"maps"
	"slices"
)

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []string // IDs of the descriptors registered for this package
}

// index is the per-load lookup data describers read. LoadPackages replaces
// it as a whole, so a describer keeps using the snapshot it started with.
type index struct {
	// ctors maps a type to its constructor functions in source order.
	ctors map[*types.TypeName][]*types.Func
	// ifaces are the non-generic named interfaces of the loaded packages
	// that declare at least one method.
	ifaces []*types.Named
}

func (ix *index) clone() *index {
	if ix == nil {
		return &index{ctors: make(map[*types.TypeName][]*types.Func)}
	}

	return &index{
		ctors:  maps.Clone(ix.ctors),
		ifaces: slices.Clone(ix.ifaces),
	}
}
