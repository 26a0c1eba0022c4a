package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit       Phase = "init"       // universe acquire/release
	PhaseDescribe   Phase = "describe"   // elementary descriptor lookup
	PhaseLayout     Phase = "layout"     // composite datatype construction
	PhaseView       Phase = "view"       // buffer view construction
	PhaseComm       Phase = "comm"       // point-to-point operations
	PhaseCollective Phase = "collective" // barrier/broadcast/gather
	PhaseSubstrate  Phase = "substrate"  // raw engine operations
)

// Kind categorizes the error
type Kind string

const (
	KindUninitialized      Kind = "uninitialized_substrate"
	KindAlreadyInitialized Kind = "already_initialized"
	KindInvalidLayout      Kind = "invalid_layout"
	KindRegionTooSmall     Kind = "region_too_small"
	KindRankOutOfRange     Kind = "rank_out_of_range"
	KindTransferFault      Kind = "transfer_fault"
	KindTruncation         Kind = "truncation_fault"
	KindInvalidInput       Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Uninitialized creates an error for a capability used before the
// universe is acquired or after it is released
func Uninitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUninitialized,
		Detail: fmt.Sprintf("%s used before initialization", what),
	}
}

// AlreadyInitialized creates an error for a second universe acquisition
func AlreadyInitialized() *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyInitialized,
		Detail: "substrate already has a live universe",
	}
}

// InvalidLayout creates an error for a malformed composite descriptor.
// value carries the offending offset or stride.
func InvalidLayout(path []string, value any, detail string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindInvalidLayout,
		Path:   path,
		Value:  value,
		Detail: detail,
	}
}

// RegionTooSmall creates an error for a buffer region whose declared
// capacity cannot hold the declared element count
func RegionTooSmall(need, have uintptr) *Error {
	return &Error{
		Phase:  PhaseView,
		Kind:   KindRegionTooSmall,
		Detail: fmt.Sprintf("layout requires %d bytes, region holds %d", need, have),
		Value:  need,
	}
}

// RankOutOfRange creates an error for an endpoint rank outside the
// communicator's membership
func RankOutOfRange(phase Phase, rank, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRankOutOfRange,
		Detail: fmt.Sprintf("rank %d outside group of size %d", rank, size),
		Value:  rank,
	}
}

// TransferFault creates an error for a substrate-level communication
// failure
func TransferFault(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTransferFault,
		Detail: detail,
		Cause:  cause,
	}
}

// Truncation creates an error for an incoming message that exceeds the
// receive view's capacity. Data beyond the capacity is lost.
func Truncation(incoming, capacity int) *Error {
	return &Error{
		Phase:  PhaseComm,
		Kind:   KindTruncation,
		Detail: fmt.Sprintf("incoming message of %d elements exceeds receive capacity %d", incoming, capacity),
		Value:  incoming,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
