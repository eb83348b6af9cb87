// Package history implements the undo/redo engine: a compact action list,
// retained-but-revocable text storage and the bookkeeping that turns raw
// edits into user-visible undo steps.
package history

import "math"

// elementBound pairs an element width in bytes with the largest value that
// width can hold.
type elementBound struct {
	size     int
	maxValue uint64
}

// Widths escalate through powers of two only; a vector never revisits a
// smaller width while it holds elements.
var elementBounds = [...]elementBound{
	{1, math.MaxUint8},
	{2, math.MaxUint16},
	{4, math.MaxUint32},
	{8, math.MaxUint64},
}

func boundFor(value uint64) elementBound {
	for _, b := range elementBounds {
		if value <= b.maxValue {
			return b
		}
	}
	return elementBounds[len(elementBounds)-1]
}

// ScaledVector is a growable array of unsigned integers stored at the
// smallest uniform element width (1, 2, 4 or 8 bytes) that fits every value
// currently held. An undo history that only records short insertions and
// deletions therefore spends one or two bytes per length instead of eight.
//
// The zero value is an empty vector ready for use. Indexing outside
// [0, Size()) is a programming error and panics through the slice bounds
// check.
type ScaledVector struct {
	element elementBound
	bytes   []byte
}

func (sv *ScaledVector) width() int {
	if sv.element.size == 0 {
		sv.element = elementBounds[0]
	}
	return sv.element.size
}

// Size returns the logical number of elements held.
func (sv *ScaledVector) Size() int {
	if sv.element.size == 0 {
		return 0
	}
	return len(sv.bytes) / sv.element.size
}

// ValueAt decodes the i-th element at the current width.
func (sv *ScaledVector) ValueAt(i int) uint64 {
	w := sv.element.size
	base := i * w
	_ = sv.bytes[base+w-1]
	var v uint64
	for b := 0; b < w; b++ {
		v |= uint64(sv.bytes[base+b]) << (8 * b)
	}
	return v
}

// SignedValueAt reinterprets the i-th element's stored bit pattern as a
// two's-complement value of the current width.
func (sv *ScaledVector) SignedValueAt(i int) int64 {
	v := sv.ValueAt(i)
	shift := uint(64 - 8*sv.element.size)
	return int64(v<<shift) >> shift
}

// SetValueAt stores value at index i, re-encoding the whole buffer into the
// next width that fits when value overflows the current one. Re-encoding is
// O(Size) but occurs at most three times over a vector's lifetime.
func (sv *ScaledVector) SetValueAt(i int, value uint64) {
	w := sv.width()
	if value > sv.element.maxValue {
		sv.rescale(boundFor(value))
		w = sv.element.size
	}
	base := i * w
	_ = sv.bytes[base+w-1]
	for b := 0; b < w; b++ {
		sv.bytes[base+b] = byte(value >> (8 * b))
	}
}

// ClearValueAt zeroes the element at index i without any width change.
func (sv *ScaledVector) ClearValueAt(i int) {
	w := sv.element.size
	base := i * w
	for b := 0; b < w; b++ {
		sv.bytes[base+b] = 0
	}
}

func (sv *ScaledVector) rescale(to elementBound) {
	n := sv.Size()
	old := sv.element
	grown := make([]byte, n*to.size)
	for i := 0; i < n; i++ {
		var v uint64
		for b := 0; b < old.size; b++ {
			v |= uint64(sv.bytes[i*old.size+b]) << (8 * b)
		}
		for b := 0; b < to.size; b++ {
			grown[i*to.size+b] = byte(v >> (8 * b))
		}
	}
	sv.element = to
	sv.bytes = grown
}

// PushBack appends one zero-valued element.
func (sv *ScaledVector) PushBack() {
	w := sv.width()
	sv.bytes = append(sv.bytes, make([]byte, w)...)
}

// Truncate shrinks the vector to length elements. The element width is kept.
func (sv *ScaledVector) Truncate(length int) {
	sv.bytes = sv.bytes[:length*sv.width()]
}

// ReSize sets the logical length, zero-filling any growth.
func (sv *ScaledVector) ReSize(length int) {
	w := sv.width()
	want := length * w
	if want <= len(sv.bytes) {
		sv.bytes = sv.bytes[:want]
		return
	}
	sv.bytes = append(sv.bytes, make([]byte, want-len(sv.bytes))...)
}

// Clear empties the vector and allows the width to restart at one byte.
func (sv *ScaledVector) Clear() {
	sv.bytes = nil
	sv.element = elementBound{}
}

// SizeInBytes reports the raw storage used, for tests.
func (sv *ScaledVector) SizeInBytes() int {
	return len(sv.bytes)
}
