package datatype

import (
	"fmt"

	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/layout"
)

// Composite is a derived descriptor: an ordered sequence of byte runs
// plus a total extent. Composites are immutable once built.
type Composite struct {
	blocks []commruntime.Block
	extent uintptr
}

// Extent returns the stride in bytes to the next logical element.
func (c *Composite) Extent() uintptr { return c.extent }

// Blocks returns the canonical byte runs of one element. Callers must not
// mutate the result.
func (c *Composite) Blocks() []commruntime.Block { return c.blocks }

// Describe implements Described.
func (c *Composite) Describe() Datatype { return c }

// Field is one entry of a structured layout: count repetitions of Type
// starting at Offset bytes from the element base.
type Field struct {
	Offset uintptr
	Type   Datatype
	Count  int
}

// Contiguous builds a descriptor of count repetitions of elem placed at
// elem's own extent. count may be zero, describing an empty transfer.
func Contiguous(elem Datatype, count int) (*Composite, error) {
	if count < 0 {
		return nil, errors.InvalidLayout(nil, count, "negative repeat count")
	}
	c := &Composite{
		blocks: flatten(nil, 0, elem, elem.Extent(), count),
		extent: uintptr(count) * elem.Extent(),
	}
	if err := layout.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Vector builds a strided descriptor: count copies of elem whose starts
// are strideBytes apart. strideBytes must be at least elem's extent; use
// VectorOverlapped for deliberate view aliasing.
func Vector(elem Datatype, strideBytes uintptr, count int) (*Composite, error) {
	if strideBytes < elem.Extent() {
		return nil, errors.InvalidLayout(nil, strideBytes,
			fmt.Sprintf("stride %d smaller than element extent %d", strideBytes, elem.Extent()))
	}
	c, err := vector(elem, strideBytes, count)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// VectorOverlapped builds a strided descriptor whose stride may be
// smaller than the element extent, e.g. for a diagonal or gather view.
// Aliased reads and the consequences of aliased writes are the caller's
// responsibility.
func VectorOverlapped(elem Datatype, strideBytes uintptr, count int) (*Composite, error) {
	return vector(elem, strideBytes, count)
}

func vector(elem Datatype, strideBytes uintptr, count int) (*Composite, error) {
	if count < 0 {
		return nil, errors.InvalidLayout(nil, count, "negative repeat count")
	}
	c := &Composite{blocks: flatten(nil, 0, elem, strideBytes, count)}
	if count > 0 {
		c.extent = uintptr(count-1)*strideBytes + elem.Extent()
	}
	return c, nil
}

// Indexed builds a descriptor of one copy of elem at each of the given
// byte offsets. Offsets must be non-decreasing; they are never reordered,
// since reordering would silently change the wire layout.
func Indexed(elem Datatype, offsets []uintptr) (*Composite, error) {
	c := &Composite{}
	for i, off := range offsets {
		if i > 0 && off < offsets[i-1] {
			return nil, errors.InvalidLayout(offsetPath(i), off, "offsets must be non-decreasing")
		}
		c.blocks = flatten(c.blocks, off, elem, elem.Extent(), 1)
		if end := off + elem.Extent(); end > c.extent {
			c.extent = end
		}
	}
	if err := layout.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Struct builds a heterogeneous descriptor from the given fields. The
// extent is the maximum (offset + size) over all fields; use
// StructWithExtent to append trailing padding.
func Struct(fields []Field) (*Composite, error) {
	return buildStruct(fields)
}

// StructWithExtent builds a struct descriptor with an explicit extent,
// which must be at least the maximum (offset + size) over all fields.
func StructWithExtent(fields []Field, extent uintptr) (*Composite, error) {
	c, err := buildStruct(fields)
	if err != nil {
		return nil, err
	}
	if extent < c.extent {
		return nil, errors.InvalidLayout(nil, extent,
			fmt.Sprintf("extent %d smaller than layout end %d", extent, c.extent))
	}
	c.extent = extent
	return c, nil
}

func buildStruct(fields []Field) (*Composite, error) {
	c := &Composite{}
	for i, f := range fields {
		if f.Count < 0 {
			return nil, errors.InvalidLayout(fieldPath(i), f.Count, "negative repeat count")
		}
		if i > 0 && f.Offset < fields[i-1].Offset {
			return nil, errors.InvalidLayout(fieldPath(i), f.Offset, "offsets must be non-decreasing")
		}
		c.blocks = flatten(c.blocks, f.Offset, f.Type, f.Type.Extent(), f.Count)
		if end := f.Offset + uintptr(f.Count)*f.Type.Extent(); end > c.extent {
			c.extent = end
		}
	}
	if err := layout.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// flatten appends count repetitions of dt, placed stride bytes apart
// starting at base, to dst as plain blocks.
func flatten(dst []commruntime.Block, base uintptr, dt Datatype, stride uintptr, count int) []commruntime.Block {
	for i := 0; i < count; i++ {
		start := base + uintptr(i)*stride
		for _, b := range dt.Blocks() {
			dst = append(dst, commruntime.Block{
				Offset: start + b.Offset,
				Size:   b.Size,
				Count:  b.Count,
			})
		}
	}
	return dst
}

func fieldPath(i int) []string  { return []string{fmt.Sprintf("field[%d]", i)} }
func offsetPath(i int) []string { return []string{fmt.Sprintf("offset[%d]", i)} }
