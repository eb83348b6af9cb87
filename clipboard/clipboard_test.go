package clipboard

import (
	"testing"

	"github.com/bethropolis/ebb/document"
)

func newFixture(t *testing.T, content string) (*document.Document, *Manager) {
	t.Helper()
	doc := document.NewFromBytes([]byte(content), nil)
	return doc, NewManager(doc, false)
}

func TestCopyPaste(t *testing.T) {
	doc, clip := newFixture(t, "hello world")
	if err := clip.Copy(0, 5); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	n, err := clip.Paste(11)
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if n != 5 {
		t.Errorf("Paste inserted %d bytes, want 5", n)
	}
	if got := doc.String(); got != "hello worldhello" {
		t.Errorf("content = %q", got)
	}
}

func TestCutUndo(t *testing.T) {
	doc, clip := newFixture(t, "hello world")
	if err := clip.Cut(5, 6); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if got := doc.String(); got != "hello" {
		t.Fatalf("content = %q after cut", got)
	}
	if _, err := clip.Paste(0); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := doc.String(); got != " worldhello" {
		t.Errorf("content = %q after paste", got)
	}
}

func TestCutRangeError(t *testing.T) {
	doc, clip := newFixture(t, "abc")
	if err := clip.Cut(1, 10); err == nil {
		t.Error("Cut past the end succeeded")
	}
	if got := doc.String(); got != "abc" {
		t.Errorf("failed cut modified the document: %q", got)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	doc, clip := newFixture(t, "abc")
	n, err := clip.Paste(0)
	if err != nil || n != 0 {
		t.Errorf("Paste of empty clipboard = (%d, %v)", n, err)
	}
	if doc.CanUndo() {
		t.Error("empty paste recorded an undo step")
	}
}

func TestPasteReplaceIsOneUndoStep(t *testing.T) {
	doc, clip := newFixture(t, "one two three")
	if err := clip.Copy(0, 3); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	n, err := clip.PasteReplace(4, 3)
	if err != nil {
		t.Fatalf("PasteReplace: %v", err)
	}
	if n != 3 {
		t.Errorf("PasteReplace inserted %d bytes, want 3", n)
	}
	if got := doc.String(); got != "one one three" {
		t.Fatalf("content = %q", got)
	}

	if _, err := doc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := doc.String(); got != "one two three" {
		t.Errorf("one undo did not restore the replacement: %q", got)
	}
}
