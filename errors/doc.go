// Package errors provides structured error types for the comm-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, Go type name,
// offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindInvalidLayout).
//		Path("particle", "velocity").
//		Value(stride).
//		Detail("stride smaller than element extent").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RankOutOfRange(errors.PhaseComm, rank, size)
//	err := errors.Truncation(incoming, capacity)
//
// All errors implement the standard error interface and support errors.Is/As.
// Layout and range errors are always surfaced synchronously, before any
// substrate call is issued; substrate-reported faults are translated to the
// nearest Kind and never silently retried.
package errors
