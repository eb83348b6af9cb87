// Package shell provides a line-oriented command interface over a single
// document, exposing editing, undo/redo, grouping and clipboard commands.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bethropolis/ebb/clipboard"
	"github.com/bethropolis/ebb/document"
	"github.com/bethropolis/ebb/event"
	"github.com/bethropolis/ebb/internal/config"
	"github.com/bethropolis/ebb/internal/logger"
)

// Shell wires a document, its clipboard and an event bus to a textual
// command loop.
type Shell struct {
	cfg    *config.Config
	events *event.Manager
	doc    *document.Document
	clip   *clipboard.Manager
	caret  int
	out    io.Writer
}

// New creates a shell; when filePath is non-empty the document is loaded
// from it.
func New(cfg *config.Config, filePath string) (*Shell, error) {
	events := event.NewManager()
	doc := document.New(events, document.WithCoalescing(cfg.Editor.CoalesceTyping))
	sh := &Shell{
		cfg:    cfg,
		events: events,
		doc:    doc,
		clip:   clipboard.NewManager(doc, cfg.Editor.SystemClipboard),
	}
	sh.subscribe()
	if filePath != "" {
		if err := doc.Load(filePath); err != nil {
			return nil, err
		}
	}
	return sh, nil
}

func (s *Shell) subscribe() {
	s.events.Subscribe(event.TypeSavePointLeft, func(event.Event) bool {
		s.printf("* modified\n")
		return false
	})
	s.events.Subscribe(event.TypeSavePointReached, func(event.Event) bool {
		s.printf("* saved state\n")
		return false
	})
	s.events.Subscribe(event.TypeContainerAction, func(e event.Event) bool {
		data := e.Data.(event.ContainerActionData)
		s.printf("* container action %d (redo=%v)\n", data.Token, data.Redo)
		return false
	})
}

func (s *Shell) printf(format string, args ...interface{}) {
	if s.out != nil {
		fmt.Fprintf(s.out, format, args...)
	}
}

// Run reads commands from in until EOF or the quit command.
func (s *Shell) Run(in io.Reader, out io.Writer) error {
	s.out = out
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.printf("ebb shell; type 'help' for commands\n")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := s.execute(line)
		if err != nil {
			s.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (s *Shell) execute(line string) (quit bool, err error) {
	fields := strings.SplitN(line, " ", 2)
	cmd := fields[0]
	rest := ""
	if len(fields) > 1 {
		rest = fields[1]
	}

	switch cmd {
	case "help":
		s.printHelp()
	case "q", "quit":
		return true, nil
	case "p", "print":
		s.printf("%q (len %d, caret %d)\n", s.doc.String(), s.doc.Length(), s.caret)
	case "i", "insert":
		err = s.cmdInsert(rest)
	case "t", "type":
		err = s.cmdType(rest)
	case "d", "delete":
		err = s.cmdDelete(rest)
	case "bs":
		s.caret, _, err = s.doc.DeleteBack(s.caret)
	case "del":
		_, err = s.doc.DeleteForward(s.caret)
	case "goto":
		err = s.cmdGoto(rest)
	case "u", "undo":
		err = s.cmdUndo()
	case "r", "redo":
		err = s.cmdRedo()
	case "begin":
		s.doc.BeginUndoAction(rest == "coalesce")
	case "end":
		s.doc.EndUndoAction()
	case "copy":
		err = s.cmdRange(rest, s.clip.Copy)
	case "cut":
		err = s.cmdRange(rest, s.clip.Cut)
	case "paste":
		var n int
		n, err = s.clip.Paste(s.caret)
		s.caret += n
	case "save":
		err = s.doc.Save(rest)
	case "load":
		if rest == "" {
			return false, fmt.Errorf("usage: load <path>")
		}
		err = s.doc.Load(rest)
		s.caret = 0
	case "status":
		s.cmdStatus()
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	return false, err
}

func (s *Shell) printHelp() {
	s.printf(`commands:
  i <pos> <text>   insert text at byte position
  t <text>         type text at the caret
  d <pos> <len>    delete a byte range
  bs / del         backspace / forward delete at the caret
  goto <pos>       move the caret
  u / r            undo / redo one step
  begin [coalesce] / end   group edits into one undo step
  copy|cut <pos> <len>, paste
  save [path], load <path>
  p, status, q
`)
}

func (s *Shell) cmdInsert(rest string) error {
	pos, text, ok := splitPosText(rest)
	if !ok {
		return fmt.Errorf("usage: i <pos> <text>")
	}
	if _, err := s.doc.Insert(pos, []byte(text)); err != nil {
		return err
	}
	s.caret = pos + len(text)
	return nil
}

func (s *Shell) cmdType(text string) error {
	if _, err := s.doc.Insert(s.caret, []byte(text)); err != nil {
		return err
	}
	s.caret += len(text)
	return nil
}

func (s *Shell) cmdDelete(rest string) error {
	pos, length, err := parseTwoInts(rest)
	if err != nil {
		return fmt.Errorf("usage: d <pos> <len>")
	}
	if _, err := s.doc.Delete(pos, length); err != nil {
		return err
	}
	if s.caret > pos {
		s.caret = pos
	}
	return nil
}

func (s *Shell) cmdGoto(rest string) error {
	pos, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || pos < 0 || pos > s.doc.Length() {
		return fmt.Errorf("usage: goto <pos in [0, %d]>", s.doc.Length())
	}
	s.caret = pos
	return nil
}

func (s *Shell) cmdUndo() error {
	n, err := s.doc.Undo()
	if err != nil {
		return err
	}
	s.printf("undid %d action(s)\n", n)
	s.clampCaret()
	return nil
}

func (s *Shell) cmdRedo() error {
	n, err := s.doc.Redo()
	if err != nil {
		return err
	}
	s.printf("redid %d action(s)\n", n)
	s.clampCaret()
	return nil
}

func (s *Shell) cmdRange(rest string, op func(pos, length int) error) error {
	pos, length, err := parseTwoInts(rest)
	if err != nil {
		return fmt.Errorf("usage: <cmd> <pos> <len>")
	}
	return op(pos, length)
}

func (s *Shell) cmdStatus() {
	h := s.doc.History()
	s.printf("length=%d caret=%d modified=%v undo=%v redo=%v actions=%d/%d\n",
		s.doc.Length(), s.caret, s.doc.IsModified(),
		s.doc.CanUndo(), s.doc.CanRedo(), h.Current(), h.Actions())
	if !s.doc.Validate() {
		logger.Warnf("shell: history failed validation")
	}
}

func (s *Shell) clampCaret() {
	if s.caret > s.doc.Length() {
		s.caret = s.doc.Length()
	}
}

func splitPosText(rest string) (pos int, text string, ok bool) {
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 {
		return 0, "", false
	}
	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", false
	}
	return pos, fields[1], true
}

func parseTwoInts(rest string) (a, b int, err error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two integers")
	}
	if a, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, err
	}
	if b, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
