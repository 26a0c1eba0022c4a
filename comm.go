package commruntime

import "unsafe"

// Block is one contiguous byte run inside a single element of a layout.
// A block covers the half-open range [Offset, Offset+Size*uintptr(Count)).
type Block struct {
	Offset uintptr // byte offset from the element base address
	Size   uintptr // bytes per repetition
	Count  int     // contiguous repetitions
}

// Layout describes the wire layout of one element, independent of any
// memory address. Implementations must be referentially stable: repeated
// calls return identical extents and identical block sequences, since the
// substrate may cache or compare them by value.
type Layout interface {
	// Extent is the stride in bytes from one element to the next. It may
	// exceed the sum of block sizes to account for trailing padding.
	Extent() uintptr
	// Blocks returns the byte runs of one element in ascending offset
	// order. Callers must not mutate the returned slice.
	Blocks() []Block
}

// Group identifies a substrate-level process group. Group values are
// handles managed (and reference counted) by the substrate.
type Group uint32

// Wildcards accepted by Recv and Probe in place of a source rank or tag.
const (
	AnySource = -1
	AnyTag    = -1
)

// RawStatus is the substrate's raw result for a completed receive or
// probe: the actual source rank, tag, and element count transferred.
type RawStatus struct {
	Source int
	Tag    int
	Count  int
}

// Substrate is the raw message-passing engine backing one participant.
// It operates on bare addresses and counts; the datatype, buffer, and
// comm packages exist to construct valid arguments for it and to
// translate its raw errors into the typed error model.
//
// All calls are blocking. A Substrate value is assumed single-threaded
// for communication calls unless its implementation documents otherwise;
// Rank and Size are always safe to call concurrently.
type Substrate interface {
	// World returns the handle of the default all-participants group.
	World() Group

	Rank(g Group) int
	Size(g Group) int

	// Send transfers count elements laid out by l starting at ptr.
	// Completion means the caller's buffer is reusable, not that the
	// receiver has consumed the message.
	Send(ptr unsafe.Pointer, count int, l Layout, dest, tag int, g Group) error

	// Recv blocks until a message matching (source, tag) arrives and
	// writes at most capacity elements laid out by l starting at ptr.
	// source and tag may be AnySource/AnyTag.
	Recv(ptr unsafe.Pointer, capacity int, l Layout, source, tag int, g Group) (RawStatus, error)

	// Probe blocks until a matching message is available and reports its
	// size in elements of l without consuming it.
	Probe(l Layout, source, tag int, g Group) (RawStatus, error)

	Barrier(g Group) error
	Bcast(ptr unsafe.Pointer, count int, l Layout, root int, g Group) error
	Gather(sendPtr unsafe.Pointer, sendCount int, sendLayout Layout,
		recvPtr unsafe.Pointer, recvCapacity int, recvLayout Layout,
		root int, g Group) error

	// DupGroup creates a group with identical membership but an
	// independent message-matching domain. It is collective: every rank
	// of g must call it, and all receive the same new handle.
	DupGroup(g Group) (Group, error)

	// FreeGroup releases one reference to g. The world group is never
	// released.
	FreeGroup(g Group) error
}
