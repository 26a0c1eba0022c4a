// Package registry holds the process-wide table of elementary wire
// descriptors and the initialization gate that guards it. The table is
// installed by the first live universe and released by the last; looking
// up a descriptor outside that window is a precondition violation.
package registry

import "sync"

// Kind enumerates the elementary wire kinds.
type Kind uint8

const (
	KindInt8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64

	kindCount
)

var kindNames = [...]string{
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Entry is one elementary descriptor: a primitive kind and its wire size.
type Entry struct {
	Kind Kind
	Size uintptr
}

var table = [kindCount]Entry{
	KindInt8:    {KindInt8, 1},
	KindInt16:   {KindInt16, 2},
	KindInt32:   {KindInt32, 4},
	KindInt64:   {KindInt64, 8},
	KindUint8:   {KindUint8, 1},
	KindUint16:  {KindUint16, 2},
	KindUint32:  {KindUint32, 4},
	KindUint64:  {KindUint64, 8},
	KindFloat32: {KindFloat32, 4},
	KindFloat64: {KindFloat64, 8},
}

var (
	mu   sync.Mutex
	refs int
)

// Install adds one reference to the registry, making lookups available.
func Install() {
	mu.Lock()
	refs++
	mu.Unlock()
}

// Release drops one reference. When the last reference is gone the
// registry is unavailable again.
func Release() {
	mu.Lock()
	if refs > 0 {
		refs--
	}
	mu.Unlock()
}

// Ready reports whether at least one universe holds the registry open.
func Ready() bool {
	mu.Lock()
	defer mu.Unlock()
	return refs > 0
}

// Lookup returns the singleton entry for k. The second result is false
// when the registry is not installed or k is unknown.
func Lookup(k Kind) (Entry, bool) {
	if !Ready() || k >= kindCount {
		return Entry{}, false
	}
	return table[k], true
}
