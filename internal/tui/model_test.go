package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ccbench/internal/bench"
)

func testPairs() []Pair {
	return []Pair{
		{Algorithm: "cubic", Profile: "profile_1"},
		{Algorithm: "vegas", Profile: "profile_1"},
	}
}

func TestModelTracksRuns(t *testing.T) {
	m := NewModel(testPairs(), nil)

	updated, _ := m.Update(RunMsg(bench.Run{
		Algorithm: "cubic",
		Profile:   "profile_1",
		Status:    bench.StatusOK,
		Duration:  2 * time.Second,
	}))
	m = updated.(Model)

	if m.done != 1 || m.failed != 0 {
		t.Fatalf("done/failed = %d/%d, want 1/0", m.done, m.failed)
	}
	view := m.View()
	if !strings.Contains(view, "1/2") {
		t.Errorf("view does not show progress: %q", view)
	}
}

func TestModelTracksFailures(t *testing.T) {
	m := NewModel(testPairs(), nil)

	updated, _ := m.Update(RunMsg(bench.Run{
		Algorithm: "vegas",
		Profile:   "profile_1",
		Status:    bench.StatusTimeout,
		Error:     "timed out after 1s",
	}))
	m = updated.(Model)

	if m.failed != 1 {
		t.Fatalf("failed = %d, want 1", m.failed)
	}
	if !strings.Contains(m.View(), "timed out") {
		t.Errorf("view does not surface the error: %q", m.View())
	}
}

func TestModelQuitCancelsBatch(t *testing.T) {
	canceled := false
	m := NewModel(testPairs(), func() { canceled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !canceled {
		t.Fatal("quit did not cancel the batch")
	}
	if cmd == nil {
		t.Fatal("quit did not produce a command")
	}
}

func TestModelDoneQuits(t *testing.T) {
	m := NewModel(testPairs(), nil)
	updated, cmd := m.Update(DoneMsg{})
	if cmd == nil {
		t.Fatal("DoneMsg did not produce a quit command")
	}
	if v := updated.(Model).View(); v != "" {
		t.Errorf("finished view = %q, want empty", v)
	}
}

// stubProgram records messages sent to the bubbletea program.
type stubProgram struct {
	msgs []tea.Msg
}

func (p *stubProgram) Send(msg tea.Msg) {
	p.msgs = append(p.msgs, msg)
}

func TestWriterForwardsRuns(t *testing.T) {
	p := &stubProgram{}
	w := &Writer{program: p}

	run := bench.Run{Algorithm: "cubic", Profile: "profile_1", Status: bench.StatusOK}
	if err := w.WriteRun(run); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(p.msgs))
	}
	if got, ok := p.msgs[0].(RunMsg); !ok || got.Algorithm != "cubic" {
		t.Errorf("unexpected message: %#v", p.msgs[0])
	}
}
