package buffer

import (
	"unsafe"

	"github.com/wippyai/comm-runtime/datatype"
	"github.com/wippyai/comm-runtime/errors"
)

// SendView is a read-only, non-owning reference to element data: a base
// address, an element count, and the datatype describing each element.
// The three are always bound together; the communication layer never
// accepts them separately.
type SendView struct {
	base  unsafe.Pointer
	count int
	dt    datatype.Datatype
}

// RecvView is the mutable counterpart of SendView: the destination of a
// receive, with count acting as the capacity in elements. The referenced
// memory must stay valid and unaliased for the duration of the call the
// view participates in.
type RecvView struct {
	base  unsafe.Pointer
	count int
	dt    datatype.Datatype
}

// Base returns the start address of the viewed region.
func (v SendView) Base() unsafe.Pointer { return v.base }

// Count returns the number of elements the view covers.
func (v SendView) Count() int { return v.count }

// Datatype returns the element descriptor.
func (v SendView) Datatype() datatype.Datatype { return v.dt }

// Base returns the start address of the viewed region.
func (v RecvView) Base() unsafe.Pointer { return v.base }

// Count returns the view's capacity in elements.
func (v RecvView) Count() int { return v.count }

// Datatype returns the element descriptor.
func (v RecvView) Datatype() datatype.Datatype { return v.dt }

// Send builds a read-only view over a slice of primitive values.
func Send[T datatype.Primitive](s []T) (SendView, error) {
	dt, err := datatype.Of[T]()
	if err != nil {
		return SendView{}, err
	}
	return SendView{base: sliceBase(s), count: len(s), dt: dt}, nil
}

// Recv builds a receive view over a slice of primitive values. The slice
// length is the view's capacity; the actual received count is reported
// via Status and may be smaller.
func Recv[T datatype.Primitive](s []T) (RecvView, error) {
	dt, err := datatype.Of[T]()
	if err != nil {
		return RecvView{}, err
	}
	return RecvView{base: sliceBase(s), count: len(s), dt: dt}, nil
}

// SendOf builds a read-only view over a slice of self-describing values.
// T's Describe result must byte-match T's in-memory layout; descriptor
// fidelity is the caller's obligation.
func SendOf[T datatype.Described](s []T) (SendView, error) {
	var probe T
	dt := probe.Describe()
	if dt == nil {
		return SendView{}, errors.InvalidInput(errors.PhaseView, "Describe returned nil")
	}
	return SendView{base: sliceBase(s), count: len(s), dt: dt}, nil
}

// RecvOf builds a receive view over a slice of self-describing values.
func RecvOf[T datatype.Described](s []T) (RecvView, error) {
	var probe T
	dt := probe.Describe()
	if dt == nil {
		return RecvView{}, errors.InvalidInput(errors.PhaseView, "Describe returned nil")
	}
	return RecvView{base: sliceBase(s), count: len(s), dt: dt}, nil
}

// Region is a caller-declared raw memory region: a base address and a
// capacity in bytes.
type Region struct {
	Base     unsafe.Pointer
	Capacity uintptr
}

// ViewSend binds count elements of dt to a raw region, failing with
// region_too_small when the declared capacity cannot hold them. No copy
// is performed; the view is a non-owning reference.
func ViewSend(r Region, dt datatype.Datatype, count int) (SendView, error) {
	if err := checkRegion(r, dt, count); err != nil {
		return SendView{}, err
	}
	return SendView{base: r.Base, count: count, dt: dt}, nil
}

// ViewRecv binds a receive capacity of count elements of dt to a raw
// region, failing with region_too_small when the capacity cannot hold
// them.
func ViewRecv(r Region, dt datatype.Datatype, count int) (RecvView, error) {
	if err := checkRegion(r, dt, count); err != nil {
		return RecvView{}, err
	}
	return RecvView{base: r.Base, count: count, dt: dt}, nil
}

func checkRegion(r Region, dt datatype.Datatype, count int) error {
	if count < 0 {
		return errors.InvalidInput(errors.PhaseView, "negative element count")
	}
	need := uintptr(count) * dt.Extent()
	if need > r.Capacity {
		return errors.RegionTooSmall(need, r.Capacity)
	}
	return nil
}

func sliceBase[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
