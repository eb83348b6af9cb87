// Package event provides a small synchronous event bus connecting the
// document to its consumers (status displays, parsers, plugins).
package event

import "github.com/bethropolis/ebb/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// TypeBufferModified fires for every applied mutation, including each
	// raw action replayed during undo and redo.
	TypeBufferModified
	// TypeBufferLoaded fires after a document is loaded from a file.
	TypeBufferLoaded
	// TypeBufferSaved fires after a document is written out.
	TypeBufferSaved

	// TypeUndoStepStarted fires when a recorded edit opened a new undo
	// step rather than coalescing into the previous one.
	TypeUndoStepStarted
	// TypeContainerAction fires when replay reaches an application-defined
	// action; the application performs its own inverse operation.
	TypeContainerAction

	// TypeSavePointReached and TypeSavePointLeft drive dirty indicators.
	TypeSavePointReached
	TypeSavePointLeft

	// TypeHistoryCleared fires when the undo history is reset wholesale.
	TypeHistoryCleared
)

// Event is the structure passed through the bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData describes one applied mutation.
type BufferModifiedData struct {
	Edit types.EditInfo
	// Replay is true when the mutation came from undo or redo rather than
	// a fresh edit.
	Replay bool
}

// BufferLoadedData names the file a document was loaded from.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData names the file a document was saved to.
type BufferSavedData struct {
	FilePath string
}

// ContainerActionData carries the token of a replayed container action and
// the direction of replay.
type ContainerActionData struct {
	Token int
	Redo  bool
}
