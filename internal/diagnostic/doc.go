// Package diagnostic collects coded findings produced while building
// descriptor tables.
//
// Both the Go package analyzer and the manifest builder report through it:
//   - unsupported Go types that were described as opaque
//   - constructor ties resolved by declaration order
//   - unresolvable type references in manifests
package diagnostic
