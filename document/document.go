// Package document implements the text buffer that owns an undo history.
// Positions are byte offsets; the document records every primitive edit
// with the history engine and applies the actions the engine hands back
// during undo and redo.
package document

import (
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/ebb/event"
	"github.com/bethropolis/ebb/history"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/types"
)

// Document is a flat byte buffer with undo/redo, save-point tracking and
// change notification. It is not safe for concurrent use; all calls must
// come from the goroutine owning the document.
type Document struct {
	content  []byte
	filePath string

	history *history.UndoHistory
	events  *event.Manager

	collecting bool // recording enabled (off while loading bulk text)
	performing bool // replaying undo/redo; recording suppressed
	coalesce   bool // typing runs may coalesce into single steps
}

// Option configures a Document at creation.
type Option func(*Document)

// WithCoalescing controls whether adjacent typing and deleting coalesce
// into single undo steps. Enabled by default.
func WithCoalescing(on bool) Option {
	return func(d *Document) { d.coalesce = on }
}

// New creates an empty document. The event manager may be nil when no one
// listens.
func New(events *event.Manager, opts ...Option) *Document {
	d := &Document{
		history:    history.NewUndoHistory(),
		events:     events,
		collecting: true,
		coalesce:   true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromBytes creates a document holding text, with an empty history.
func NewFromBytes(text []byte, events *event.Manager, opts ...Option) *Document {
	d := New(events, opts...)
	d.content = append(d.content, text...)
	return d
}

// Length returns the document length in bytes.
func (d *Document) Length() int {
	return len(d.content)
}

// Bytes returns a copy of the document content.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.content...)
}

// String returns the document content as a string.
func (d *Document) String() string {
	return string(d.content)
}

// TextRange returns a copy of length bytes starting at pos.
func (d *Document) TextRange(pos, length int) ([]byte, error) {
	if err := d.checkRange(pos, length); err != nil {
		return nil, err
	}
	return append([]byte(nil), d.content[pos:pos+length]...), nil
}

// FilePath returns the path the document was loaded from or saved to.
func (d *Document) FilePath() string {
	return d.filePath
}

// History exposes the undo history for inspection.
func (d *Document) History() *history.UndoHistory {
	return d.history
}

// IsModified reports whether the document differs from its last saved
// state. Once the save point has been lost to divergence this stays true
// until the next save.
func (d *Document) IsModified() bool {
	return !d.history.IsSavePoint()
}

// SetUndoCollection enables or disables recording of edits. Disabling does
// not clear existing history.
func (d *Document) SetUndoCollection(on bool) {
	d.collecting = on
}

// IsCollectingUndo reports whether edits are being recorded.
func (d *Document) IsCollectingUndo() bool {
	return d.collecting
}

func (d *Document) checkPos(pos int) error {
	if pos < 0 || pos > len(d.content) {
		return fmt.Errorf("document: position %d out of range [0, %d]", pos, len(d.content))
	}
	return nil
}

func (d *Document) checkRange(pos, length int) error {
	if length < 0 {
		return fmt.Errorf("document: negative length %d", length)
	}
	if pos < 0 || pos+length > len(d.content) {
		return fmt.Errorf("document: range [%d, %d) out of range [0, %d]", pos, pos+length, len(d.content))
	}
	return nil
}

// Insert adds text at pos and records the action. It returns the edit
// description for incremental parsers.
func (d *Document) Insert(pos int, text []byte) (types.EditInfo, error) {
	if err := d.checkPos(pos); err != nil {
		return types.EditInfo{}, err
	}
	if len(text) == 0 {
		return types.EditInfo{}, nil
	}

	wasSavePoint := d.history.IsSavePoint()
	startedStep := false
	if d.collecting && !d.performing {
		_, startedStep = d.history.AppendAction(types.ActionInsert, pos, text, d.coalesce)
	}

	start := pointAt(d.content, pos)
	d.spliceInsert(pos, text)
	info := types.EditInfo{
		StartIndex:     uint32(pos),
		OldEndIndex:    uint32(pos),
		NewEndIndex:    uint32(pos + len(text)),
		StartPosition:  start,
		OldEndPosition: start,
		NewEndPosition: pointAt(d.content, pos+len(text)),
	}
	d.notifyEdit(info, startedStep, wasSavePoint)
	return info, nil
}

// Delete removes length bytes at pos and records the action with the
// removed text as payload.
func (d *Document) Delete(pos, length int) (types.EditInfo, error) {
	if err := d.checkRange(pos, length); err != nil {
		return types.EditInfo{}, err
	}
	if length == 0 {
		return types.EditInfo{}, nil
	}

	wasSavePoint := d.history.IsSavePoint()
	startedStep := false
	if d.collecting && !d.performing {
		removed := d.content[pos : pos+length]
		_, startedStep = d.history.AppendAction(types.ActionRemove, pos, removed, d.coalesce)
	}

	start := pointAt(d.content, pos)
	oldEnd := pointAt(d.content, pos+length)
	d.spliceDelete(pos, length)
	info := types.EditInfo{
		StartIndex:     uint32(pos),
		OldEndIndex:    uint32(pos + length),
		NewEndIndex:    uint32(pos),
		StartPosition:  start,
		OldEndPosition: oldEnd,
		NewEndPosition: start,
	}
	d.notifyEdit(info, startedStep, wasSavePoint)
	return info, nil
}

// RecordContainerAction records an application-defined action carrying an
// opaque token. Replay hands the token back through TypeContainerAction so
// the application can apply its own inverse. Reports whether a new undo
// step was started.
func (d *Document) RecordContainerAction(token int, mayCoalesce bool) bool {
	if !d.collecting || d.performing {
		return false
	}
	_, started := d.history.AppendAction(types.ActionContainer, token, nil, mayCoalesce)
	return started
}

// BeginUndoAction groups subsequent edits into one undo step until the
// matching EndUndoAction. Groups nest.
func (d *Document) BeginUndoAction(mayCoalesce bool) {
	d.history.BeginUndoAction(mayCoalesce)
}

// EndUndoAction closes the innermost group.
func (d *Document) EndUndoAction() {
	d.history.EndUndoAction()
}

// SetSavePoint marks the current state as saved and notifies listeners.
func (d *Document) SetSavePoint() {
	d.history.SetSavePoint()
	d.dispatch(event.TypeSavePointReached, nil)
}

// ResetHistory discards the entire undo history, as after revert-to-saved.
func (d *Document) ResetHistory() {
	d.history.DeleteUndoHistory()
	d.dispatch(event.TypeHistoryCleared, nil)
}

// Validate checks that the recorded history accounts for the document's
// length. Used defensively after bulk operations.
func (d *Document) Validate() bool {
	ok := d.history.Validate(len(d.content))
	if !ok {
		logger.Errorf("document: history validation failed at length %d", len(d.content))
	}
	return ok
}

// Load replaces the content with the file at path and clears the history.
// A missing file yields an empty document bound to the path.
func (d *Document) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("document: loading %q: %w", path, err)
		}
		data = nil
	}
	d.content = data
	d.filePath = path
	d.history.DeleteUndoHistory()
	d.dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: path})
	logger.Infof("document: loaded %q (%d bytes)", path, len(data))
	return nil
}

// Save writes the content to path (or the stored path when empty) and sets
// the save point.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.filePath
	}
	if path == "" {
		return errors.New("document: no file path specified for saving")
	}
	if err := os.WriteFile(path, d.content, 0644); err != nil {
		return fmt.Errorf("document: saving %q: %w", path, err)
	}
	d.filePath = path
	d.history.SetSavePoint()
	d.dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	d.dispatch(event.TypeSavePointReached, nil)
	return nil
}

func (d *Document) spliceInsert(pos int, text []byte) {
	grown := make([]byte, 0, len(d.content)+len(text))
	grown = append(grown, d.content[:pos]...)
	grown = append(grown, text...)
	grown = append(grown, d.content[pos:]...)
	d.content = grown
}

func (d *Document) spliceDelete(pos, length int) {
	d.content = append(d.content[:pos], d.content[pos+length:]...)
}

func (d *Document) dispatch(t event.Type, data interface{}) {
	if d.events != nil {
		d.events.Dispatch(t, data)
	}
}

func (d *Document) notifyEdit(info types.EditInfo, startedStep, wasSavePoint bool) {
	d.dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: info, Replay: d.performing})
	if startedStep {
		d.dispatch(event.TypeUndoStepStarted, nil)
	}
	if wasSavePoint && !d.history.IsSavePoint() {
		d.dispatch(event.TypeSavePointLeft, nil)
	}
}

// pointAt converts a byte offset into a row/column point by scanning the
// content. Columns are byte offsets within the row, matching tree-sitter.
func pointAt(content []byte, pos int) sitter.Point {
	var p sitter.Point
	lineStart := 0
	for i := 0; i < pos && i < len(content); i++ {
		if content[i] == '\n' {
			p.Row++
			lineStart = i + 1
		}
	}
	p.Column = uint32(pos - lineStart)
	return p
}
