// Package layout implements the byte-level mechanics shared by the
// datatype builders and the loopback engine: canonical-form validation of
// block sequences, packed-size computation, and copying between user
// memory (following a layout's offsets and extent) and contiguous wire
// bytes.
//
// This is the only package besides buffer that performs raw pointer
// arithmetic; everything above it deals in validated views.
package layout
