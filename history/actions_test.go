package history

import (
	"testing"

	"github.com/bethropolis/ebb/types"
)

func TestUndoActionsCreateAppendsAndOverwrites(t *testing.T) {
	var ua UndoActions
	ua.Create(0, types.ActionInsert, 10, 5, true)
	ua.Create(1, types.ActionRemove, 3, 2, false)
	if ua.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ua.Len())
	}

	tag := ua.Tag(0)
	if tag.Kind != types.ActionInsert || !tag.MayCoalesce {
		t.Errorf("Tag(0) = %+v", tag)
	}
	if ua.Position(1) != 3 || ua.Length(1) != 2 {
		t.Errorf("action 1 = pos %d len %d, want pos 3 len 2", ua.Position(1), ua.Length(1))
	}

	// Divergence rewrites interior slots in place.
	ua.Create(0, types.ActionContainer, 99, 0, false)
	if ua.Len() != 2 {
		t.Fatalf("overwrite changed Len() to %d", ua.Len())
	}
	if ua.Tag(0).Kind != types.ActionContainer || ua.Position(0) != 99 {
		t.Errorf("overwritten action 0 = %+v pos %d", ua.Tag(0), ua.Position(0))
	}
}

func TestUndoActionsLengthsAreMagnitudes(t *testing.T) {
	var ua UndoActions
	// 200 exceeds the signed range of a one-byte element; Length must not
	// sign-extend it.
	ua.Create(0, types.ActionRemove, 0, 200, false)
	if got := ua.Length(0); got != 200 {
		t.Errorf("Length(0) = %d, want 200", got)
	}
}

func TestUndoActionsTruncate(t *testing.T) {
	var ua UndoActions
	for i := 0; i < 5; i++ {
		ua.Create(i, types.ActionInsert, i*10, i+1, false)
	}
	ua.Truncate(2)
	if ua.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ua.Len())
	}
	if ua.Position(1) != 10 || ua.Length(1) != 2 {
		t.Errorf("surviving action 1 = pos %d len %d", ua.Position(1), ua.Length(1))
	}
	if got := ua.LengthTo(2); got != 3 {
		t.Errorf("LengthTo(2) = %d, want 3", got)
	}
}

func TestUndoActionsAtStart(t *testing.T) {
	var ua UndoActions
	ua.Create(0, types.ActionInsert, 0, 1, false)
	ua.Create(1, types.ActionStart, 0, 0, false)
	ua.Create(2, types.ActionInsert, 1, 1, false)

	if !ua.AtStart(0) {
		t.Error("AtStart(0) = false, want true at index zero")
	}
	if !ua.AtStart(1) {
		t.Error("AtStart(1) = false, want true at a Start marker")
	}
	if ua.AtStart(2) {
		t.Error("AtStart(2) = true, want false")
	}
}
