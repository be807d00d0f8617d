package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtight/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	var model tea.Model = NewProgressModel("lint", []string{"a.ts", "b.ts"}, events)

	model, _ = model.Update(eventMsg(driver.Event{File: "a.ts", Stage: driver.StageLint, Status: driver.StatusWorking}))
	model, _ = model.Update(eventMsg(driver.Event{File: "b.ts", Stage: driver.StageLint, Status: driver.StatusCached}))
	model, _ = model.Update(eventMsg(driver.Event{File: "unknown.ts", Stage: driver.StageLint, Status: driver.StatusDone}))

	view := model.View()
	assert.Contains(t, view, "linting")
	assert.Contains(t, view, "cached")
	assert.NotContains(t, view, "unknown.ts")

	pm, ok := model.(*progressModel)
	require.True(t, ok)
	assert.Equal(t, stateLinting, pm.rows[0].state)
	assert.Equal(t, stateCached, pm.rows[1].state)

	model, cmd := model.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.Contains(t, model.View(), "done: lint")
}

func TestProgressModelQuitsOnKey(t *testing.T) {
	m := NewProgressModel("lint", []string{"a.ts"}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.(*progressModel).finished)
}

func TestProgressModelBoundsRows(t *testing.T) {
	files := make([]string, 0, maxRows+4)
	for i := range maxRows + 4 {
		files = append(files, fmt.Sprintf("f%02d.ts", i))
	}
	m := NewProgressModel("lint", files, nil).(*progressModel)
	m.apply(driver.Event{File: "f19.ts", Stage: driver.StageDecode, Status: driver.StatusWorking})
	m.apply(driver.Event{File: "f00.ts", Stage: driver.StageLint, Status: driver.StatusDone})

	shown, hidden := m.visibleRows()
	require.Len(t, shown, maxRows)
	assert.Equal(t, 4, hidden)
	assert.Equal(t, "f19.ts", shown[0].path)
	assert.Equal(t, stateDecoding, shown[0].state)
	assert.Equal(t, "f01.ts", shown[1].path)
}

func TestStateOf(t *testing.T) {
	s, ok := stateOf(driver.Event{Stage: driver.StageLoad, Status: driver.StatusWorking})
	require.True(t, ok)
	assert.Equal(t, "loading", s.String())

	s, ok = stateOf(driver.Event{Status: driver.StatusError})
	require.True(t, ok)
	assert.Equal(t, "error", s.String())
	assert.True(t, s.finished())
	assert.InDelta(t, 1.0, s.share(), 0)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "src/co...", truncate("src/components/a.ts", 9))
	assert.Equal(t, "sr", truncate("src", 2))
	assert.Equal(t, "src", truncate("src", 0))
}
