package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"airtight/internal/driver"
)

// rowState is where one file is in the pipeline.
type rowState uint8

const (
	stateQueued rowState = iota
	stateLoading
	stateDecoding
	stateLinting
	stateDone
	stateCached
	stateFailed
)

var stateLabels = [...]string{"queued", "loading", "decoding", "linting", "done", "cached", "error"}

func (s rowState) String() string { return stateLabels[s] }

func (s rowState) finished() bool { return s >= stateDone }

func (s rowState) active() bool { return s > stateQueued && !s.finished() }

// share is the part of the bar one file contributes in this state.
func (s rowState) share() float64 {
	switch {
	case s.finished():
		return 1
	case s == stateLinting:
		return 0.7
	case s == stateDecoding:
		return 0.3
	case s == stateLoading:
		return 0.1
	}
	return 0
}

func (s rowState) style() lipgloss.Style {
	color := "7"
	switch {
	case s == stateFailed:
		color = "1"
	case s.finished():
		color = "2"
	case s.active():
		color = "6"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// stateOf maps a driver event; ok is false for events that change nothing.
func stateOf(ev driver.Event) (rowState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusDone:
		return stateDone, true
	case driver.StatusCached:
		return stateCached, true
	case driver.StatusError:
		return stateFailed, true
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageLoad:
			return stateLoading, true
		case driver.StageDecode:
			return stateDecoding, true
		case driver.StageLint:
			return stateLinting, true
		}
	}
	return 0, false
}

type row struct {
	path  string
	state rowState
}

// maxRows caps the file list; the rest is summarised in one line.
const maxRows = 16

type (
	eventMsg  driver.Event
	closedMsg struct{}
)

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spin     spinner.Model
	bar      progress.Model
	rows     []row
	byPath   map[string]int
	phase    string
	width    int
	finished bool
}

// NewProgressModel renders per-file lint progress fed by events and quits
// when events is closed or the user presses q.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next ждёт следующее событие драйвера.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			m.finished = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.finished {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev. Events without a file only relabel the header.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	state, ok := stateOf(ev)
	if ev.File == "" {
		if ok {
			m.phase = state.String()
		}
		return nil
	}
	i, known := m.byPath[ev.File]
	if !known || !ok {
		return nil
	}
	m.rows[i].state = state

	var total float64
	for _, r := range m.rows {
		total += r.state.share()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.finished {
		header = "done: " + header
	} else {
		header = m.spin.View() + " " + header
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	shown, hidden := m.visibleRows()
	for _, r := range shown {
		fmt.Fprintf(&b, "  %s %s\n", r.state.style().Render(fmt.Sprintf("%12s", r.state)), truncate(r.path, nameWidth))
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %12s %d more file(s)\n", "", hidden)
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRows lists files being worked on first, then queued ones, up to maxRows.
func (m *progressModel) visibleRows() ([]row, int) {
	if len(m.rows) <= maxRows {
		return m.rows, 0
	}
	shown := make([]row, 0, maxRows)
	for _, want := range []func(rowState) bool{rowState.active, func(s rowState) bool { return s == stateQueued }} {
		for _, r := range m.rows {
			if len(shown) == maxRows {
				break
			}
			if want(r.state) {
				shown = append(shown, r)
			}
		}
	}
	return shown, len(m.rows) - len(shown)
}

// truncate shortens value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
