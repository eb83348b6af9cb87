// Package types holds the small value types shared between the history
// engine, the document and their consumers.
package types

// ActionKind identifies what a recorded action did to the document.
type ActionKind uint8

const (
	// ActionInsert records text added to the document.
	ActionInsert ActionKind = iota
	// ActionRemove records text deleted from the document.
	ActionRemove
	// ActionStart is a structural marker delimiting grouped undo steps.
	// It never modifies the document.
	ActionStart
	// ActionContainer is an application-defined action. The engine stores
	// its position field as an opaque token and replays it so the
	// application can perform its own inverse operation.
	ActionContainer
)

func (k ActionKind) String() string {
	switch k {
	case ActionInsert:
		return "insert"
	case ActionRemove:
		return "remove"
	case ActionStart:
		return "start"
	case ActionContainer:
		return "container"
	}
	return "unknown"
}

// Action is one replayable step handed from the history engine to the
// document. For ActionInsert the document inserts Text at Position; for
// ActionRemove it deletes Length bytes at Position. Text is a borrowed view
// into the engine's scrap storage and must not be retained across any
// further call into the engine or document.
type Action struct {
	Kind     ActionKind
	Position int
	Length   int
	Text     []byte
}
