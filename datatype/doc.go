// Package datatype maps in-memory value layouts to substrate-recognized
// transfer descriptors.
//
// Elementary descriptors are process-wide singletons for the fixed-width
// primitive kinds, obtained with Of:
//
//	desc, err := datatype.Of[float64]()
//
// Composite descriptors describe non-contiguous or heterogeneous views
// without copying, and are built with Contiguous, Vector, Indexed and
// Struct. Builders validate eagerly: a malformed layout is a programming
// error and fails at construction with an invalid_layout error, never at
// the communication call.
//
// Any value kind can make itself transferable by implementing Described,
// returning the same descriptor on every call. Descriptors are compared
// structurally; repeated Describe calls for the same kind must yield
// identical block sequences.
package datatype
