// Package report renders classification results for described types.
//
// A Row summarizes one type: its shape (sequence, collection, keyed,
// castable), element type, base chain, interfaces and default constructor.
// Rows are written as a colored table, JSON, or a go-spew dump.
package report
