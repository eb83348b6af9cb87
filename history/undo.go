package history

import (
	"errors"
	"fmt"

	"github.com/bethropolis/ebb/types"
)

var (
	// ErrNoUndo is returned by the undo step accessors when no step is
	// available; callers should consult CanUndo first.
	ErrNoUndo = errors.New("history: nothing to undo")
	// ErrNoRedo is the redo equivalent of ErrNoUndo.
	ErrNoRedo = errors.New("history: nothing to redo")
)

// mark is an optional action index. The zero value is unset, so "no save
// point" is unrepresentable as a valid index.
type mark struct {
	at int
	ok bool
}

// UndoHistory records, coalesces and replays document mutations. It owns
// the action list and the scrap storage exclusively; the document owning it
// drives replay through the pull-based Start/Get/Completed step calls.
//
// All operations are synchronous and must run on the goroutine owning the
// document. Replaying a step calls back into nothing: the document applies
// the returned actions itself and must not record new actions while doing
// so.
type UndoHistory struct {
	actions UndoActions
	steps   ScaledVector // index of the first action of each undo step

	current   int
	seqDepth  int
	lastDepth int // sequence depth when the previous action was recorded

	pendingStart    bool // next append opens a grouped sequence
	pendingCoalesce bool

	savePoint mark
	detach    mark
	tentative mark

	scraps *ScrapStack // created on the first payload-bearing action

	// memo caches the scrap offset of one action so Text and SetCurrent
	// avoid rescanning the length vector from zero.
	memo struct {
		act int
		pos int
		ok  bool
	}
}

// NewUndoHistory returns an empty history. A fresh document is considered
// saved, so the save point starts at action zero.
func NewUndoHistory() *UndoHistory {
	return &UndoHistory{savePoint: mark{at: 0, ok: true}}
}

func (uh *UndoHistory) ensureScraps() *ScrapStack {
	if uh.scraps == nil {
		uh.scraps = &ScrapStack{}
	}
	return uh.scraps
}

// lengthTo is UndoActions.LengthTo with the memo applied.
func (uh *UndoHistory) lengthTo(index int) int {
	start, sum := 0, 0
	if uh.memo.ok && uh.memo.act <= index {
		start, sum = uh.memo.act, uh.memo.pos
	}
	for act := start; act < index; act++ {
		sum += uh.actions.Length(act)
	}
	uh.memo.act, uh.memo.pos, uh.memo.ok = index, sum, true
	return sum
}

func (uh *UndoHistory) recordStep(index int) {
	uh.steps.PushBack()
	uh.steps.SetValueAt(uh.steps.Size()-1, uint64(index))
}

// truncate drops every action at length and beyond together with its step
// boundaries. The scrap cursor already sits at the end of the applied
// payloads, so the orphaned redo payloads are reclaimed by the next push.
func (uh *UndoHistory) truncate(length int) {
	uh.actions.Truncate(length)
	for uh.steps.Size() > 0 && int(uh.steps.ValueAt(uh.steps.Size()-1)) >= length {
		uh.steps.Truncate(uh.steps.Size() - 1)
	}
	if uh.memo.ok && uh.memo.act > length {
		uh.memo.ok = false
	}
}

// AppendAction records one primitive edit. data carries the inserted or
// removed text (nil for Container actions). It returns a borrowed view of
// the stored payload, valid until the next mutating call, and whether a new
// undo step boundary was started so the document can fire one notification
// per user-visible action.
func (uh *UndoHistory) AppendAction(kind types.ActionKind, position int, data []byte, mayCoalesce bool) ([]byte, bool) {
	lengthData := len(data)

	// Losing the save point to divergence detaches the history: the save
	// point becomes unset and the detach point remembers the last action
	// still shared with the saved state.
	if uh.savePoint.ok && uh.current < uh.savePoint.at {
		uh.savePoint = mark{}
		if !uh.detach.ok {
			uh.detach = mark{at: uh.current, ok: true}
		}
	} else if uh.detach.ok && uh.detach.at > uh.current {
		uh.detach = mark{at: uh.current, ok: true}
	}
	if uh.tentative.ok && uh.tentative.at > uh.current {
		uh.tentative = mark{}
	}

	// Editing after an undo diverges the timeline.
	if uh.current < uh.actions.Len() {
		uh.truncate(uh.current)
	}

	if uh.pendingStart {
		// First action of a grouped sequence: a Start marker opens the
		// step and everything up to EndUndoAction joins it.
		uh.pendingStart = false
		newStep := true
		if uh.pendingCoalesce && uh.current >= 1 && uh.actions.Tag(uh.current-1).MayCoalesce {
			newStep = false
		}
		marker := uh.current
		uh.actions.Create(marker, types.ActionStart, 0, 0, uh.pendingCoalesce)
		uh.current++
		if newStep {
			uh.recordStep(marker)
		}
		view := uh.appendEntry(kind, position, data, mayCoalesce, false)
		return view, newStep
	}

	var newStep bool
	switch {
	case uh.current == 0:
		newStep = true
	case uh.seqDepth > 0:
		// Grouped: always part of the open step.
		newStep = false
	default:
		var merge bool
		newStep, merge = uh.placement(kind, position, lengthData, mayCoalesce)
		if merge {
			return uh.merge(kind, position, data), false
		}
	}
	view := uh.appendEntry(kind, position, data, mayCoalesce, newStep)
	return view, newStep
}

func (uh *UndoHistory) appendEntry(kind types.ActionKind, position int, data []byte, mayCoalesce, newStep bool) []byte {
	index := uh.current
	uh.actions.Create(index, kind, position, len(data), mayCoalesce)
	var view []byte
	if len(data) > 0 {
		view = uh.ensureScraps().Push(data)
	}
	uh.current++
	if newStep {
		uh.recordStep(index)
	}
	uh.lastDepth = uh.seqDepth
	return view
}

// placement decides where a top-level action belongs: a brand new step, a
// continuation of the current step, or a merge into the previous entry.
func (uh *UndoHistory) placement(kind types.ActionKind, position, lengthData int, mayCoalesce bool) (newStep, merge bool) {
	prev := uh.current - 1
	prevTag := uh.actions.Tag(prev)
	switch {
	case uh.lastDepth != 0:
		// The previous action was recorded inside a grouped sequence.
		return true, false
	case uh.savePoint.ok && uh.savePoint.at == uh.current:
		// The save point must stay addressable as a step boundary.
		return true, false
	case uh.tentative.ok && uh.tentative.at == uh.current:
		return true, false
	case !prevTag.MayCoalesce || !mayCoalesce:
		return true, false
	}
	if kind == types.ActionContainer {
		// A coalescible container action joins the current step.
		return false, false
	}
	// Container actions forward the coalesce state of the action before
	// them.
	target := prev
	for target >= 0 && uh.actions.Tag(target).Kind == types.ActionContainer && uh.actions.Tag(target).MayCoalesce {
		target--
	}
	if target < 0 {
		return true, false
	}
	tag := uh.actions.Tag(target)
	if !tag.MayCoalesce || tag.Kind != kind {
		return true, false
	}
	tpos := uh.actions.Position(target)
	tlen := uh.actions.Length(target)
	switch kind {
	case types.ActionInsert:
		// Insertions must begin exactly where the previous one ended.
		if position != tpos+tlen {
			return true, false
		}
	case types.ActionRemove:
		// Forward delete repeats at the same position; backspace ends
		// exactly where the previous removal began.
		if position != tpos && position+lengthData != tpos {
			return true, false
		}
	default:
		return true, false
	}
	return false, target == prev
}

// merge extends the previous entry instead of creating a new one.
func (uh *UndoHistory) merge(kind types.ActionKind, position int, data []byte) []byte {
	prev := uh.current - 1
	ppos := uh.actions.Position(prev)
	plen := uh.actions.Length(prev)
	lengthData := len(data)
	scraps := uh.ensureScraps()

	var view []byte
	if kind == types.ActionRemove && position != ppos {
		// Backspace: the removed text precedes the previous payload in
		// document order, so the merged payload is rebuilt around it.
		old := append([]byte(nil), scraps.TextAt(scraps.Current()-plen)[:plen]...)
		scraps.MoveBack(plen)
		scraps.Push(data)
		scraps.Push(old)
		base := scraps.Current() - plen - lengthData
		view = scraps.TextAt(base)[:lengthData]
		uh.actions.positions.SetValueAt(prev, uint64(position))
	} else {
		view = scraps.Push(data)
	}
	uh.actions.lengths.SetValueAt(prev, uint64(plen+lengthData))
	if uh.memo.ok && uh.memo.act > prev {
		uh.memo.ok = false
	}
	uh.lastDepth = uh.seqDepth
	return view
}

// BeginUndoAction opens a grouped sequence: every action appended before
// the matching EndUndoAction forms one undo step. Groups nest; only the
// outermost transition inserts the Start marker. With mayCoalesce the group
// may join the step preceding it.
func (uh *UndoHistory) BeginUndoAction(mayCoalesce bool) {
	if uh.seqDepth == 0 {
		uh.pendingStart = true
		uh.pendingCoalesce = mayCoalesce
	}
	uh.seqDepth++
}

// EndUndoAction closes the innermost grouped sequence.
func (uh *UndoHistory) EndUndoAction() {
	if uh.seqDepth > 0 {
		uh.seqDepth--
	}
	if uh.seqDepth == 0 {
		uh.pendingStart = false
	}
}

// UndoSequenceDepth returns the current grouping depth.
func (uh *UndoHistory) UndoSequenceDepth() int {
	return uh.seqDepth
}

// DropUndoSequence abandons any open grouping without recording anything.
func (uh *UndoHistory) DropUndoSequence() {
	uh.seqDepth = 0
	uh.pendingStart = false
}

// DeleteUndoHistory resets all state to empty without destroying the
// object, for document reload or revert.
func (uh *UndoHistory) DeleteUndoHistory() {
	uh.actions.Clear()
	uh.steps.Clear()
	uh.current = 0
	uh.seqDepth = 0
	uh.lastDepth = 0
	uh.pendingStart = false
	uh.savePoint = mark{at: 0, ok: true}
	uh.detach = mark{}
	uh.tentative = mark{}
	uh.memo.ok = false
	if uh.scraps != nil {
		uh.scraps.Clear()
	}
}

// Actions returns the number of recorded actions.
func (uh *UndoHistory) Actions() int {
	return uh.actions.Len()
}

// Current returns the action index corresponding to the document's state.
func (uh *UndoHistory) Current() int {
	return uh.current
}

// SetSavePoint marks the current action as the last persisted state.
func (uh *UndoHistory) SetSavePoint() {
	uh.SetSavePointAt(uh.current)
}

// SetSavePointAt places the save point at an explicit action index and
// clears any detachment.
func (uh *UndoHistory) SetSavePointAt(action int) {
	uh.savePoint = mark{at: action, ok: true}
	uh.detach = mark{}
}

// SavePoint returns the save point index; ok is false once the save point
// has been lost to divergence.
func (uh *UndoHistory) SavePoint() (action int, ok bool) {
	return uh.savePoint.at, uh.savePoint.ok
}

// IsSavePoint reports whether the document state matches the last save.
func (uh *UndoHistory) IsSavePoint() bool {
	return uh.savePoint.ok && uh.current == uh.savePoint.at
}

// BeforeSavePoint reports whether the current action precedes the save
// point, or the save point is unreachable.
func (uh *UndoHistory) BeforeSavePoint() bool {
	return !uh.savePoint.ok || uh.savePoint.at > uh.current
}

// PreviousBeforeSavePoint is BeforeSavePoint for the action about to be
// undone.
func (uh *UndoHistory) PreviousBeforeSavePoint() bool {
	return !uh.savePoint.ok || uh.savePoint.at >= uh.current
}

// BeforeReachableSavePoint reports whether an intact save point lies ahead
// of the current action.
func (uh *UndoHistory) BeforeReachableSavePoint() bool {
	return uh.savePoint.ok && uh.savePoint.at > 0 && uh.savePoint.at > uh.current
}

// AfterSavePoint reports whether the current action is at or past the save
// point, or the save point is unreachable.
func (uh *UndoHistory) AfterSavePoint() bool {
	return !uh.savePoint.ok || uh.savePoint.at <= uh.current
}

// SetDetachPoint places the detach point at an explicit action index.
func (uh *UndoHistory) SetDetachPoint(action int) {
	uh.detach = mark{at: action, ok: true}
}

// DetachPoint returns the detach point if the history is detached.
func (uh *UndoHistory) DetachPoint() (action int, ok bool) {
	return uh.detach.at, uh.detach.ok
}

// AfterDetachPoint reports whether the current action is past the last
// state still comparable with the lost save point. The document must treat
// this as "assume dirty" until a fresh SetSavePoint.
func (uh *UndoHistory) AfterDetachPoint() bool {
	return uh.detach.ok && uh.detach.at < uh.current
}

// AfterOrAtDetachPoint is AfterDetachPoint including the detach point
// itself.
func (uh *UndoHistory) AfterOrAtDetachPoint() bool {
	return uh.detach.ok && uh.detach.at <= uh.current
}

// TentativeStart enters composition mode, remembering the current action so
// the composition can be rolled back or committed as one unit.
func (uh *UndoHistory) TentativeStart() {
	uh.tentative = mark{at: uh.current, ok: true}
}

// TentativeActive reports whether a composition is in progress.
func (uh *UndoHistory) TentativeActive() bool {
	return uh.tentative.ok
}

// TentativeSteps returns how many undo steps the composition spans, so the
// document can cancel it by undoing exactly that many.
func (uh *UndoHistory) TentativeSteps() int {
	if !uh.tentative.ok {
		return 0
	}
	n := 0
	for i := 0; i < uh.steps.Size(); i++ {
		if v := int(uh.steps.ValueAt(i)); v >= uh.tentative.at && v < uh.current {
			n++
		}
	}
	return n
}

// TentativeCommit collapses everything recorded since TentativeStart into a
// single undo step and leaves composition mode.
func (uh *UndoHistory) TentativeCommit() {
	if uh.tentative.ok {
		var kept ScaledVector
		for i := 0; i < uh.steps.Size(); i++ {
			v := int(uh.steps.ValueAt(i))
			if v > uh.tentative.at && v < uh.current {
				continue
			}
			kept.PushBack()
			kept.SetValueAt(kept.Size()-1, uint64(v))
		}
		uh.steps = kept
	}
	uh.tentative = mark{}
}

// CanUndo reports whether an undo step is available. Undo is unavailable
// while a grouped sequence is open.
func (uh *UndoHistory) CanUndo() bool {
	return uh.current > 0 && uh.seqDepth == 0
}

// stepStart returns the index of the first action of the step holding act.
func (uh *UndoHistory) stepStart(act int) int {
	for i := uh.steps.Size() - 1; i >= 0; i-- {
		if v := int(uh.steps.ValueAt(i)); v <= act {
			return v
		}
	}
	return 0
}

// StartUndo returns the number of raw actions forming the next undo step.
// The document then calls GetUndoStep/CompletedUndoStep that many times.
func (uh *UndoHistory) StartUndo() int {
	if !uh.CanUndo() {
		return 0
	}
	return uh.current - uh.stepStart(uh.current-1)
}

// GetUndoStep returns the inverse of the action being undone: a recorded
// insertion comes back as a removal and vice versa, with the payload
// retained in scrap storage. The payload view is valid only until the next
// mutating call.
func (uh *UndoHistory) GetUndoStep() (types.Action, error) {
	if !uh.CanUndo() {
		return types.Action{}, ErrNoUndo
	}
	act := uh.current - 1
	tag := uh.actions.Tag(act)
	length := uh.actions.Length(act)
	action := types.Action{
		Kind:     tag.Kind,
		Position: uh.actions.Position(act),
		Length:   length,
	}
	if length > 0 {
		base := uh.scraps.Current() - length
		action.Text = uh.scraps.TextAt(base)[:length]
	}
	switch tag.Kind {
	case types.ActionInsert:
		action.Kind = types.ActionRemove
	case types.ActionRemove:
		action.Kind = types.ActionInsert
	}
	return action, nil
}

// CompletedUndoStep moves the history back over the action just applied.
func (uh *UndoHistory) CompletedUndoStep() error {
	if !uh.CanUndo() {
		return ErrNoUndo
	}
	act := uh.current - 1
	if uh.scraps != nil {
		uh.scraps.MoveBack(uh.actions.Length(act))
	}
	uh.current--
	return nil
}

// CanRedo reports whether a redo step is available.
func (uh *UndoHistory) CanRedo() bool {
	return uh.current < uh.actions.Len() && uh.seqDepth == 0
}

// StartRedo returns the number of raw actions forming the next redo step.
func (uh *UndoHistory) StartRedo() int {
	if !uh.CanRedo() {
		return 0
	}
	for i := 0; i < uh.steps.Size(); i++ {
		if v := int(uh.steps.ValueAt(i)); v > uh.current {
			return v - uh.current
		}
	}
	return uh.actions.Len() - uh.current
}

// GetRedoStep returns the next action to replay exactly as recorded.
func (uh *UndoHistory) GetRedoStep() (types.Action, error) {
	if !uh.CanRedo() {
		return types.Action{}, ErrNoRedo
	}
	act := uh.current
	tag := uh.actions.Tag(act)
	length := uh.actions.Length(act)
	action := types.Action{
		Kind:     tag.Kind,
		Position: uh.actions.Position(act),
		Length:   length,
	}
	if length > 0 {
		action.Text = uh.scraps.CurrentText()[:length]
	}
	return action, nil
}

// CompletedRedoStep moves the history forward over the action just applied.
func (uh *UndoHistory) CompletedRedoStep() error {
	if !uh.CanRedo() {
		return ErrNoRedo
	}
	if uh.scraps != nil {
		uh.scraps.MoveForward(uh.actions.Length(uh.current))
	}
	uh.current++
	return nil
}

// Delta returns the net document length change of the first action actions.
func (uh *UndoHistory) Delta(action int) int {
	delta := 0
	for act := 0; act < action; act++ {
		switch uh.actions.Tag(act).Kind {
		case types.ActionInsert:
			delta += uh.actions.Length(act)
		case types.ActionRemove:
			delta -= uh.actions.Length(act)
		}
	}
	return delta
}

// Validate checks that the applied actions account exactly for the
// document's current length. A failure is reported to the caller, never
// auto-corrected.
func (uh *UndoHistory) Validate(lengthDocument int) bool {
	return uh.Delta(uh.current) == lengthDocument
}

// SetCurrent repositions the history to action after validating that the
// prefix reproduces the given document length.
func (uh *UndoHistory) SetCurrent(action, lengthDocument int) error {
	if action < 0 || action > uh.actions.Len() {
		return fmt.Errorf("history: action %d out of range [0, %d]", action, uh.actions.Len())
	}
	if uh.Delta(action) != lengthDocument {
		return fmt.Errorf("history: action %d does not reproduce document length %d", action, lengthDocument)
	}
	uh.current = action
	if uh.scraps != nil {
		uh.scraps.SetCurrent(uh.lengthTo(action))
	}
	return nil
}

// Type returns the packed kind of an action, with coalesceFlag (0x100) set
// when it may coalesce.
func (uh *UndoHistory) Type(action int) int {
	tag := uh.actions.Tag(action)
	t := int(tag.Kind)
	if tag.MayCoalesce {
		t |= coalesceFlag
	}
	return t
}

// Position returns the byte position of the action.
func (uh *UndoHistory) Position(action int) int {
	return uh.actions.Position(action)
}

// Length returns the payload length of the action.
func (uh *UndoHistory) Length(action int) int {
	return uh.actions.Length(action)
}

// Text returns a borrowed view of the action's payload, valid until the
// next mutating call.
func (uh *UndoHistory) Text(action int) []byte {
	length := uh.actions.Length(action)
	if length == 0 || uh.scraps == nil {
		return nil
	}
	return uh.scraps.TextAt(uh.lengthTo(action))[:length]
}

// PushUndoActionType appends an action from its packed type form with no
// payload, used to rebuild container actions. It reports whether a new
// step was started.
func (uh *UndoHistory) PushUndoActionType(typ, position int) bool {
	kind := types.ActionKind(typ &^ coalesceFlag)
	_, started := uh.AppendAction(kind, position, nil, typ&coalesceFlag != 0)
	return started
}

// ChangeLastUndoActionText replaces the payload of the most recently
// recorded action.
func (uh *UndoHistory) ChangeLastUndoActionText(data []byte) error {
	if uh.current == 0 || uh.current != uh.actions.Len() {
		return errors.New("history: no trailing action to change")
	}
	act := uh.current - 1
	scraps := uh.ensureScraps()
	scraps.SetCurrent(uh.lengthTo(act))
	scraps.Push(data)
	uh.actions.lengths.SetValueAt(act, uint64(len(data)))
	if uh.memo.ok && uh.memo.act > act {
		uh.memo.ok = false
	}
	return nil
}
