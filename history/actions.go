package history

import "github.com/bethropolis/ebb/types"

// ActionTypeTag is the per-action metadata: the action kind plus whether
// the action may be coalesced with a compatible neighbour.
type ActionTypeTag struct {
	Kind        types.ActionKind
	MayCoalesce bool
}

// coalesceFlag is OR-ed into the kind in the packed integer form used by
// Type and PushUndoActionType.
const coalesceFlag = 0x100

// UndoActions is the ordered action list: a tag slice plus two ScaledVectors
// for byte positions and byte lengths. The three collections always have the
// same logical length.
type UndoActions struct {
	types     []ActionTypeTag
	positions ScaledVector
	lengths   ScaledVector
}

// Len returns the number of recorded actions.
func (ua *UndoActions) Len() int {
	return len(ua.types)
}

// Truncate drops every action at index length and beyond. All three
// collections shrink together; there is no intermediate observable state.
func (ua *UndoActions) Truncate(length int) {
	ua.types = ua.types[:length]
	ua.positions.Truncate(length)
	ua.lengths.Truncate(length)
}

// PushBack appends one zero-valued action slot.
func (ua *UndoActions) PushBack() {
	ua.types = append(ua.types, ActionTypeTag{})
	ua.positions.PushBack()
	ua.lengths.PushBack()
}

// Clear removes all actions.
func (ua *UndoActions) Clear() {
	ua.types = ua.types[:0]
	ua.positions.Clear()
	ua.lengths.Clear()
}

// Create fills the slot at index, appending it first when index is one past
// the end. Rewriting an interior slot is how a diverging timeline reuses
// entries of a previously undone branch.
func (ua *UndoActions) Create(index int, kind types.ActionKind, position, lenData int, mayCoalesce bool) {
	if index >= len(ua.types) {
		ua.PushBack()
	}
	ua.types[index] = ActionTypeTag{Kind: kind, MayCoalesce: mayCoalesce}
	ua.positions.SetValueAt(index, uint64(position))
	ua.lengths.SetValueAt(index, uint64(lenData))
}

// Tag returns the metadata of the action at index.
func (ua *UndoActions) Tag(index int) ActionTypeTag {
	return ua.types[index]
}

// AtStart reports whether index sits at a sequence boundary: the beginning
// of the list or a Start marker.
func (ua *UndoActions) AtStart(index int) bool {
	if index == 0 {
		return true
	}
	return ua.types[index].Kind == types.ActionStart
}

// LengthTo sums the payload lengths of all actions before index, locating
// an action's payload inside the scrap storage.
func (ua *UndoActions) LengthTo(index int) int {
	sum := 0
	for act := 0; act < index; act++ {
		sum += int(ua.lengths.ValueAt(act))
	}
	return sum
}

// Position returns the byte position recorded for the action at index.
func (ua *UndoActions) Position(index int) int {
	return int(ua.positions.ValueAt(index))
}

// Length returns the payload length recorded for the action at index.
// Lengths are stored as magnitudes; the action kind carries the sign used
// when summing deltas.
func (ua *UndoActions) Length(index int) int {
	return int(ua.lengths.ValueAt(index))
}
