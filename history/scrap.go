package history

// ScrapStack holds the literal text payloads of every recorded action in a
// single growable arena. A movable cursor marks the end of the payloads
// belonging to applied actions: undoing moves the cursor back without
// copying, so the payload stays available for redo; pushing new data at the
// cursor discards everything beyond it, which is how redo payloads of an
// abandoned timeline are reclaimed.
//
// Views returned by Push, CurrentText and TextAt borrow the arena and are
// valid only until the next Push.
type ScrapStack struct {
	stack   []byte
	current int
}

// Clear drops all payload data and resets the cursor.
func (s *ScrapStack) Clear() {
	s.stack = s.stack[:0]
	s.current = 0
}

// Push appends data at the cursor, truncating any superseded bytes beyond
// it, advances the cursor and returns a view of the stored copy.
func (s *ScrapStack) Push(data []byte) []byte {
	s.stack = append(s.stack[:s.current], data...)
	start := s.current
	s.current += len(data)
	return s.stack[start:s.current]
}

// SetCurrent repositions the cursor to an absolute offset.
func (s *ScrapStack) SetCurrent(position int) {
	s.current = position
}

// MoveForward advances the cursor over length bytes of payload, marking
// them live again after a redo.
func (s *ScrapStack) MoveForward(length int) {
	s.current += length
}

// MoveBack retreats the cursor over length bytes of payload, marking them
// consumed by an undo while keeping them intact for redo.
func (s *ScrapStack) MoveBack(length int) {
	s.current -= length
}

// Current returns the cursor offset.
func (s *ScrapStack) Current() int {
	return s.current
}

// CurrentText returns a view starting at the cursor.
func (s *ScrapStack) CurrentText() []byte {
	return s.stack[s.current:]
}

// TextAt returns a view starting at position. Callers slice it to the
// length they recorded.
func (s *ScrapStack) TextAt(position int) []byte {
	return s.stack[position:]
}
