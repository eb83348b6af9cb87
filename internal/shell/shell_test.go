package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bethropolis/ebb/internal/config"
)

func runScript(t *testing.T, script string) (*Shell, string) {
	t.Helper()
	sh, err := New(config.Default(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out bytes.Buffer
	if err := sh.Run(strings.NewReader(script), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sh, out.String()
}

func TestTypeUndoRedo(t *testing.T) {
	sh, out := runScript(t, `
t hello
u
r
p
q
`)
	if !strings.Contains(out, `"hello"`) {
		t.Errorf("output missing redone content:\n%s", out)
	}
	if got := sh.doc.String(); got != "hello" {
		t.Errorf("document = %q", got)
	}
}

func TestInsertDeleteCaret(t *testing.T) {
	sh, _ := runScript(t, `
i 0 abcdef
d 2 3
q
`)
	if got := sh.doc.String(); got != "abf" {
		t.Errorf("document = %q, want %q", got, "abf")
	}
	if sh.caret != 2 {
		t.Errorf("caret = %d, want 2", sh.caret)
	}
}

func TestGroupedCommands(t *testing.T) {
	sh, _ := runScript(t, `
t one
begin
t  two
t  three
end
u
q
`)
	if got := sh.doc.String(); got != "one" {
		t.Errorf("document = %q, want grouped edits undone together", got)
	}
}

func TestClipboardCommands(t *testing.T) {
	sh, _ := runScript(t, `
t hello
copy 0 5
goto 5
paste
q
`)
	if got := sh.doc.String(); got != "hellohello" {
		t.Errorf("document = %q", got)
	}
}

func TestUnknownCommandReportsError(t *testing.T) {
	_, out := runScript(t, "bogus\nq\n")
	if !strings.Contains(out, "error:") {
		t.Errorf("output missing error report:\n%s", out)
	}
}
