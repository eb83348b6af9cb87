package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo describes a single buffer mutation in the shape tree-sitter's
// Edit function expects, so consumers can keep a parse tree in sync with
// the document, including across undo and redo replay.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the replaced text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}
