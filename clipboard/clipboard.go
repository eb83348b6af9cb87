// Package clipboard implements cut, copy and paste against a document,
// using the system clipboard when available and an internal register
// otherwise.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/bethropolis/ebb/document"
	"github.com/bethropolis/ebb/internal/logger"
)

// Manager holds the clipboard state for one document.
type Manager struct {
	doc       *document.Document
	internal  []byte
	useSystem bool
}

// NewManager creates a clipboard manager. When useSystem is set and the
// platform has no clipboard support, operations fall back to the internal
// register.
func NewManager(doc *document.Document, useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("clipboard: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{doc: doc, useSystem: useSystem}
}

func (m *Manager) write(text []byte) {
	m.internal = append(m.internal[:0], text...)
	if m.useSystem {
		if err := clipboard.WriteAll(string(text)); err != nil {
			logger.Warnf("clipboard: system write failed: %v", err)
		}
	}
}

func (m *Manager) read() []byte {
	if m.useSystem {
		text, err := clipboard.ReadAll()
		if err == nil {
			return []byte(text)
		}
		logger.Warnf("clipboard: system read failed: %v", err)
	}
	return append([]byte(nil), m.internal...)
}

// Copy places the range [pos, pos+length) on the clipboard.
func (m *Manager) Copy(pos, length int) error {
	text, err := m.doc.TextRange(pos, length)
	if err != nil {
		return err
	}
	m.write(text)
	return nil
}

// Cut copies the range then deletes it as a single undo step.
func (m *Manager) Cut(pos, length int) error {
	text, err := m.doc.TextRange(pos, length)
	if err != nil {
		return err
	}
	if _, err := m.doc.Delete(pos, length); err != nil {
		return err
	}
	m.write(text)
	return nil
}

// Paste inserts the clipboard content at pos and returns the number of
// bytes inserted.
func (m *Manager) Paste(pos int) (int, error) {
	text := m.read()
	if len(text) == 0 {
		return 0, nil
	}
	if _, err := m.doc.Insert(pos, text); err != nil {
		return 0, err
	}
	return len(text), nil
}

// PasteReplace replaces the range [pos, pos+length) with the clipboard
// content as one undo step. It returns the number of bytes inserted.
func (m *Manager) PasteReplace(pos, length int) (int, error) {
	text := m.read()
	m.doc.BeginUndoAction(false)
	defer m.doc.EndUndoAction()
	if length > 0 {
		if _, err := m.doc.Delete(pos, length); err != nil {
			return 0, err
		}
	}
	if len(text) == 0 {
		return 0, nil
	}
	if _, err := m.doc.Insert(pos, text); err != nil {
		return 0, err
	}
	return len(text), nil
}
