// Package manifest declares descriptor tables in YAML, for types that have
// no Go source to analyze.
//
// # Schema Overview
//
//	version: "1"
//	package: cms
//	types:
//	  - name: Node
//	    constructors:
//	      - name: NewNode
//	        params: [{name: id, type: int64}]
//	  - name: Page
//	    params: [T]
//	    base: Node
//	    interfaces: "Collection[T]"
//	    constructors:
//	      - name: NewPage
//	        params: [{items: "[]T"}]
//	  - name: Renderer
//	    kind: interface
//
// Type expressions use Go syntax and may name builtins (List, Dictionary,
// Sequence, ...), other declarations of the file, types already in the
// target table, and the declaration's own type parameters.
package manifest
