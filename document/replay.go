package document

import (
	"fmt"

	"github.com/bethropolis/ebb/event"
	"github.com/bethropolis/ebb/history"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/types"
)

// CanUndo reports whether an undo step is available.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// Undo reverts one undo step and returns the number of raw actions
// replayed. Listeners see a TypeBufferModified event per action with
// Replay set, and TypeSavePointReached when the step lands on the saved
// state.
func (d *Document) Undo() (int, error) {
	if !d.history.CanUndo() {
		return 0, history.ErrNoUndo
	}
	steps := d.history.StartUndo()
	logger.Debugf("document: undo replaying %d action(s)", steps)

	d.performing = true
	defer func() { d.performing = false }()

	for i := 0; i < steps; i++ {
		act, err := d.history.GetUndoStep()
		if err != nil {
			return i, err
		}
		if err := d.applyAction(act, false); err != nil {
			return i, fmt.Errorf("document: undo action %d: %w", i, err)
		}
		d.history.CompletedUndoStep()
	}
	if d.history.IsSavePoint() {
		d.dispatch(event.TypeSavePointReached, nil)
	}
	return steps, nil
}

// Redo reapplies one undone step and returns the number of raw actions
// replayed.
func (d *Document) Redo() (int, error) {
	if !d.history.CanRedo() {
		return 0, history.ErrNoRedo
	}
	steps := d.history.StartRedo()
	logger.Debugf("document: redo replaying %d action(s)", steps)

	d.performing = true
	defer func() { d.performing = false }()

	for i := 0; i < steps; i++ {
		act, err := d.history.GetRedoStep()
		if err != nil {
			return i, err
		}
		if err := d.applyAction(act, true); err != nil {
			return i, fmt.Errorf("document: redo action %d: %w", i, err)
		}
		d.history.CompletedRedoStep()
	}
	if d.history.IsSavePoint() {
		d.dispatch(event.TypeSavePointReached, nil)
	}
	return steps, nil
}

// applyAction mutates the buffer as the history engine directs. For undo
// the engine already hands back the inverse action, so both directions
// apply the action as given.
func (d *Document) applyAction(act types.Action, redo bool) error {
	switch act.Kind {
	case types.ActionInsert:
		if err := d.checkPos(act.Position); err != nil {
			return err
		}
		start := pointAt(d.content, act.Position)
		d.spliceInsert(act.Position, act.Text)
		d.dispatch(event.TypeBufferModified, event.BufferModifiedData{
			Edit: types.EditInfo{
				StartIndex:     uint32(act.Position),
				OldEndIndex:    uint32(act.Position),
				NewEndIndex:    uint32(act.Position + act.Length),
				StartPosition:  start,
				OldEndPosition: start,
				NewEndPosition: pointAt(d.content, act.Position+act.Length),
			},
			Replay: true,
		})
	case types.ActionRemove:
		if err := d.checkRange(act.Position, act.Length); err != nil {
			return err
		}
		start := pointAt(d.content, act.Position)
		oldEnd := pointAt(d.content, act.Position+act.Length)
		d.spliceDelete(act.Position, act.Length)
		d.dispatch(event.TypeBufferModified, event.BufferModifiedData{
			Edit: types.EditInfo{
				StartIndex:     uint32(act.Position),
				OldEndIndex:    uint32(act.Position + act.Length),
				NewEndIndex:    uint32(act.Position),
				StartPosition:  start,
				OldEndPosition: oldEnd,
				NewEndPosition: start,
			},
			Replay: true,
		})
	case types.ActionContainer:
		d.dispatch(event.TypeContainerAction, event.ContainerActionData{
			Token: act.Position,
			Redo:  redo,
		})
	case types.ActionStart:
		// Group marker, no buffer effect.
	default:
		return fmt.Errorf("document: unknown action kind %v", act.Kind)
	}
	return nil
}

// TentativeStart marks the current state so a run of speculative edits can
// later be undone wholesale or committed. Used for input method composition.
func (d *Document) TentativeStart() {
	d.history.TentativeStart()
}

// TentativeActive reports whether a tentative run is open.
func (d *Document) TentativeActive() bool {
	return d.history.TentativeActive()
}

// TentativeCommit keeps the speculative edits, fusing them into a single
// undo step.
func (d *Document) TentativeCommit() {
	d.history.TentativeCommit()
}

// TentativeUndo reverts every edit made since TentativeStart and clears
// the marker. It returns the number of undo steps replayed.
func (d *Document) TentativeUndo() (int, error) {
	if !d.history.TentativeActive() {
		return 0, nil
	}
	steps := d.history.TentativeSteps()
	for i := 0; i < steps; i++ {
		if _, err := d.Undo(); err != nil {
			return i, err
		}
	}
	d.history.TentativeCommit()
	return steps, nil
}
