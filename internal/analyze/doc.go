// Package analyze builds type descriptors from Go source.
//
// It loads packages with golang.org/x/tools/go/packages and registers a
// descriptor for every exported named type in a typedesc.Table:
//   - a struct's first embedded named struct is its base type
//   - other named types derive from their underlying type
//   - iterator methods (All, Len, Lookup) give the shape interfaces
//   - New<Type> functions are the type's constructors
//   - generic types become generic definitions
package analyze
