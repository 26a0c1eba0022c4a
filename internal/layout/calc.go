package layout

import (
	"unsafe"

	commruntime "github.com/wippyai/comm-runtime"
	"github.com/wippyai/comm-runtime/errors"
)

// PackedSize returns the payload bytes of a single element of l, i.e. the
// sum of its block sizes without padding.
func PackedSize(l commruntime.Layout) uintptr {
	var total uintptr
	for _, b := range l.Blocks() {
		total += b.Size * uintptr(b.Count)
	}
	return total
}

// Validate checks that l is in canonical non-overlapping form: blocks in
// ascending offset order, no block overlapping its predecessor, and the
// extent at least covering the last byte so that contiguous repetition at
// the extent cannot alias.
func Validate(l commruntime.Layout) error {
	var end uintptr
	for i, b := range l.Blocks() {
		if b.Count < 0 {
			return errors.InvalidLayout(pathOf(i), b.Count, "negative repeat count")
		}
		if b.Count == 0 {
			continue
		}
		if b.Offset < end {
			return errors.InvalidLayout(pathOf(i), b.Offset, "overlapping byte ranges")
		}
		end = b.Offset + b.Size*uintptr(b.Count)
	}
	if l.Extent() < end {
		return errors.InvalidLayout(nil, l.Extent(),
			"extent smaller than the layout's last byte")
	}
	return nil
}

func pathOf(i int) []string {
	return []string{"block[" + itoa(i) + "]"}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// Pack copies count elements laid out by l starting at base into a fresh
// contiguous byte slice. base may be nil only when the copy is empty.
func Pack(base unsafe.Pointer, count int, l commruntime.Layout) []byte {
	per := PackedSize(l)
	out := make([]byte, per*uintptr(count))
	if len(out) == 0 {
		return out
	}

	blocks := l.Blocks()
	extent := l.Extent()
	off := uintptr(0)
	for i := 0; i < count; i++ {
		elem := uintptr(i) * extent
		for _, b := range blocks {
			for r := 0; r < b.Count; r++ {
				src := unsafe.Slice((*byte)(unsafe.Add(base, elem+b.Offset+uintptr(r)*b.Size)), b.Size)
				copy(out[off:off+b.Size], src)
				off += b.Size
			}
		}
	}
	return out
}

// Unpack copies n elements laid out by l from the contiguous bytes of
// data into base. It is the inverse of Pack; data must hold at least
// n*PackedSize(l) bytes.
func Unpack(data []byte, base unsafe.Pointer, n int, l commruntime.Layout) {
	per := PackedSize(l)
	if per == 0 || n == 0 {
		return
	}

	blocks := l.Blocks()
	extent := l.Extent()
	off := uintptr(0)
	for i := 0; i < n; i++ {
		elem := uintptr(i) * extent
		for _, b := range blocks {
			for r := 0; r < b.Count; r++ {
				dst := unsafe.Slice((*byte)(unsafe.Add(base, elem+b.Offset+uintptr(r)*b.Size)), b.Size)
				copy(dst, data[off:off+b.Size])
				off += b.Size
			}
		}
	}
}
