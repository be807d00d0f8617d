package observ

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerBeginEnd(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("discover")
	timer.End(idx, "3 files")
	timer.End(42, "ignored")

	report := timer.Report()
	require.Len(t, report.Phases, 1)
	assert.Equal(t, "discover", report.Phases[0].Name)
	assert.Equal(t, "3 files", report.Phases[0].Note)
	assert.Equal(t, 1, report.Phases[0].Count)
	assert.GreaterOrEqual(t, report.TotalMS, 0.0)
}

func TestTimerAddAggregates(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("lint", time.Millisecond)
		}()
	}
	wg.Wait()
	timer.Add("decode", 2*time.Millisecond)

	report := timer.Report()
	require.Len(t, report.Phases, 2)
	assert.Equal(t, "lint", report.Phases[0].Name)
	assert.Equal(t, 8, report.Phases[0].Count)
	assert.InDelta(t, 8.0, report.Phases[0].DurationMS, 0.001)
	assert.InDelta(t, 10.0, report.TotalMS, 0.001)
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	assert.Equal(t, Report{}, timer.Report())

	timer.Add("lint", 1500*time.Microsecond)
	timer.Add("lint", 500*time.Microsecond)
	summary := timer.Summary()
	assert.Contains(t, summary, "timings:\n")
	assert.Contains(t, summary, "lint")
	assert.Contains(t, summary, "2.00 ms  x2")
	assert.Contains(t, summary, "total")
}
