// Package match ranks type names by similarity to a misspelled query.
//
// Names are compared after normalization: package qualifiers and generic
// arguments are dropped, separators removed and case folded. Similarity is
// one minus the Levenshtein distance relative to the longer name.
package match
