package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ccbench/internal/bench"
)

const timeRounding = 100 * time.Millisecond

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// Session couples a running bubbletea program with a RunWriter feeding it.
type Session struct {
	program *tea.Program
}

// NewSession starts a progress view for the scheduled pairs. cancel stops the
// batch when the user quits.
func NewSession(pairs []Pair, cancel func()) *Session {
	m := NewModel(pairs, cancel)
	return &Session{program: tea.NewProgram(m, tea.WithAltScreen())}
}

// Writer returns a RunWriter that streams completed runs into the view.
func (s *Session) Writer() bench.RunWriter {
	return &Writer{program: s.program}
}

// Done tells the view the batch has finished.
func (s *Session) Done() {
	s.program.Send(DoneMsg{})
}

// Wait runs the program until the batch finishes or the user quits.
func (s *Session) Wait() error {
	_, err := s.program.Run()
	return err
}

// Writer forwards run records into a bubbletea program.
type Writer struct {
	program teaProgram
}

// WriteRun sends one completed run to the view.
func (w *Writer) WriteRun(r bench.Run) error {
	w.program.Send(RunMsg(r))
	return nil
}
