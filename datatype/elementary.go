package datatype

import (
	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/errors"
	"github.com/wippyai/comm-runtime/internal/registry"
)

// Primitive is the set of Go types with a direct elementary descriptor.
// byte is covered as an alias of uint8.
type Primitive interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Elementary is the process-wide singleton descriptor for one primitive
// kind. Two Elementary values for the same kind compare equal.
type Elementary struct {
	kind Kind
	size uintptr
}

// Of returns the elementary descriptor for T. It fails with an
// uninitialized_substrate error when called before the first universe is
// acquired or after the last one is released.
func Of[T Primitive]() (Elementary, error) {
	var zero T
	e, ok := registry.Lookup(kindOf(any(zero)))
	if !ok {
		return Elementary{}, errors.Uninitialized(errors.PhaseDescribe, "elementary descriptor registry")
	}
	return Elementary{kind: e.Kind, size: e.Size}, nil
}

func kindOf(v any) Kind {
	switch v.(type) {
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	default:
		return KindFloat64
	}
}

// Kind returns the elementary kind.
func (e Elementary) Kind() Kind { return e.kind }

// Extent returns the element size in bytes.
func (e Elementary) Extent() uintptr { return e.size }

// Blocks returns the single byte run of the element.
func (e Elementary) Blocks() []commruntime.Block {
	return []commruntime.Block{{Offset: 0, Size: e.size, Count: 1}}
}

// Describe implements Described.
func (e Elementary) Describe() Datatype { return e }

func (e Elementary) String() string { return e.kind.String() }
