package document

import (
	"bytes"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/ebb/types"
)

// NextGraphemeBoundary returns the byte offset just past the grapheme
// cluster starting at pos, so combining sequences and emoji move as one
// unit.
func (d *Document) NextGraphemeBoundary(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos >= len(d.content) {
		return len(d.content)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(d.content[pos:], -1)
	return pos + len(cluster)
}

// PrevGraphemeBoundary returns the byte offset of the start of the
// grapheme cluster ending at pos. Segmentation is forward-only, so the
// scan restarts at the beginning of the line.
func (d *Document) PrevGraphemeBoundary(pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(d.content) {
		pos = len(d.content)
	}
	if d.content[pos-1] == '\n' {
		return pos - 1
	}
	start := bytes.LastIndexByte(d.content[:pos], '\n') + 1
	rest := d.content[start:pos]
	state := -1
	boundary := start
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		if len(rest) == 0 {
			return pos - len(cluster)
		}
		boundary += len(cluster)
	}
	return boundary
}

// DeleteBack removes the grapheme cluster before pos, as for a backspace
// key. It returns the new caret position.
func (d *Document) DeleteBack(pos int) (int, types.EditInfo, error) {
	if err := d.checkPos(pos); err != nil {
		return pos, types.EditInfo{}, err
	}
	start := d.PrevGraphemeBoundary(pos)
	if start == pos {
		return pos, types.EditInfo{}, nil
	}
	info, err := d.Delete(start, pos-start)
	if err != nil {
		return pos, types.EditInfo{}, err
	}
	return start, info, nil
}

// DeleteForward removes the grapheme cluster at pos, as for the delete
// key. The caret stays at pos.
func (d *Document) DeleteForward(pos int) (types.EditInfo, error) {
	if err := d.checkPos(pos); err != nil {
		return types.EditInfo{}, err
	}
	end := d.NextGraphemeBoundary(pos)
	if end == pos {
		return types.EditInfo{}, nil
	}
	return d.Delete(pos, end-pos)
}
