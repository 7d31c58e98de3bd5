// Package infer classifies described types by shape and caches the
// parameters of their default constructors.
//
// Shapes:
//   - sequence: implements typedesc.Sequence exactly once
//   - collection: implements typedesc.Collection exactly once
//   - keyed sequence: a mapping, or a sequence whose first generic argument is a Pair
//   - castable sequence: a sequence with a single generic argument that is not a mapping
//
// Classification functions are pure and safe for concurrent use. They never
// fail: types that do not match, including ambiguous multiple
// implementations and unbound generic definitions, simply report false.
//
// ConstructorCache holds one entry per type ID for the life of the cache. The
// package owns a process-wide instance reached through DefaultCache and
// ConstructorParametersOf.
package infer
