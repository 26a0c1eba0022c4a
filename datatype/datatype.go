package datatype

import (
	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/internal/registry"
)

// Datatype describes the wire layout of one element. It is the layout
// contract the substrate consumes; see commruntime.Layout.
type Datatype = commruntime.Layout

// Kind identifies an elementary wire kind.
type Kind = registry.Kind

const (
	KindInt8    = registry.KindInt8
	KindInt16   = registry.KindInt16
	KindInt32   = registry.KindInt32
	KindInt64   = registry.KindInt64
	KindUint8   = registry.KindUint8
	KindUint16  = registry.KindUint16
	KindUint32  = registry.KindUint32
	KindUint64  = registry.KindUint64
	KindFloat32 = registry.KindFloat32
	KindFloat64 = registry.KindFloat64
)

// Described is the capability implemented by any value kind that wants to
// be transferable. Describe is a pure function of the kind, not the
// instance: repeated calls must return descriptors with identical blocks
// and extent, since the substrate may compare them by value.
type Described interface {
	Describe() Datatype
}
