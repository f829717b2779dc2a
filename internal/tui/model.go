// Live batch progress view built on bubbletea
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"ccbench/internal/bench"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
)

// Pair names one scheduled experiment for display.
type Pair struct {
	Algorithm string
	Profile   string
}

// RunMsg carries a completed run record.
type RunMsg bench.Run

// DoneMsg signals that the batch finished.
type DoneMsg struct{}

type rowState struct {
	pair     Pair
	status   string
	duration string
}

// Model renders batch progress: a spinner, a table of pair statuses, and the
// last error line.
type Model struct {
	spinner  spinner.Model
	table    table.Model
	rows     []rowState
	index    map[Pair]int
	done     int
	failed   int
	width    int
	finished bool
	lastErr  string
	cancel   func()
}

// NewModel builds the progress model for the scheduled pairs. cancel is
// invoked when the user quits early; it must stop launching new runs.
func NewModel(pairs []Pair, cancel func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	rows := make([]rowState, len(pairs))
	index := make(map[Pair]int, len(pairs))
	for i, p := range pairs {
		rows[i] = rowState{pair: p, status: "pending", duration: "-"}
		index[p] = i
	}

	columns := []table.Column{
		{Title: "ALGORITHM", Width: 14},
		{Title: "PROFILE", Width: 14},
		{Title: "STATUS", Width: 10},
		{Title: "DURATION", Width: 12},
	}
	height := len(pairs)
	if height > 12 {
		height = 12
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(height+1),
	)

	m := Model{
		spinner: sp,
		table:   t,
		rows:    rows,
		index:   index,
		width:   80,
		cancel:  cancel,
	}
	m.syncTable()
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles run completions, spinner ticks, and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.finished = true
			return m, tea.Quit
		}
		return m, nil
	case RunMsg:
		run := bench.Run(msg)
		if i, ok := m.index[Pair{Algorithm: run.Algorithm, Profile: run.Profile}]; ok {
			m.rows[i].status = string(run.Status)
			m.rows[i].duration = run.Duration.Round(timeRounding).String()
		}
		m.done++
		if run.Status != bench.StatusOK {
			m.failed++
			if run.Error != "" {
				m.lastErr = fmt.Sprintf("%s/%s: %s", run.Algorithm, run.Profile, run.Error)
			}
		}
		m.syncTable()
		return m, nil
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the progress screen.
func (m Model) View() string {
	if m.finished {
		return ""
	}
	header := titleStyle.Render("ccbench") +
		fmt.Sprintf(" %s %d/%d runs complete, %d failed",
			m.spinner.View(), m.done, len(m.rows), m.failed)

	out := header + "\n\n" + m.table.View() + "\n"
	if m.lastErr != "" {
		out += footerStyle.Render(wordwrap.String("last error: "+m.lastErr, m.width-2)) + "\n"
	}
	out += footerStyle.Render("press q to stop after the current run")
	return out
}

func (m *Model) syncTable() {
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		rows[i] = table.Row{r.pair.Algorithm, r.pair.Profile, styledStatus(r.status), r.duration}
	}
	m.table.SetRows(rows)
}

func styledStatus(status string) string {
	switch status {
	case string(bench.StatusOK):
		return okStyle.Render(status)
	case string(bench.StatusFailed), string(bench.StatusTimeout):
		return failStyle.Render(status)
	default:
		return pendingStyle.Render(status)
	}
}
