package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type phase struct {
	name    string
	started time.Time
	spent   time.Duration
	count   int
	note    string
}

// Timer accumulates wall time per named phase. The driver brackets whole
// phases with Begin/End while per-file workers feed Add concurrently.
type Timer struct {
	mu     sync.Mutex
	phases []*phase
	byName map[string]int
}

func NewTimer() *Timer {
	return &Timer{byName: make(map[string]int)}
}

// lookup returns the phase called name, creating it at the end.
func (t *Timer) lookup(name string) (int, *phase) {
	if i, ok := t.byName[name]; ok {
		return i, t.phases[i]
	}
	t.phases = append(t.phases, &phase{name: name})
	t.byName[name] = len(t.phases) - 1
	return len(t.phases) - 1, t.phases[len(t.phases)-1]
}

// Begin opens the phase name and returns a handle for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, p := t.lookup(name)
	p.started = time.Now()
	return idx
}

// End closes the phase opened by Begin; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := t.phases[idx]
	p.spent += time.Since(p.started)
	p.count++
	p.note = note
}

// Add charges d to the phase name.
func (t *Timer) Add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, p := t.lookup(name)
	p.spent += d
	p.count++
}

// PhaseReport: одна фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serialisable view of a Timer. TotalMS sums the phases, so
// with parallel workers it can exceed wall time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.spent
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.spent), Count: p.count, Note: p.note})
	}
	if len(r.Phases) > 0 {
		r.TotalMS = millis(total)
	}
	return r
}

// Summary renders the report as an aligned text table.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  x%d", p.Count)
		}
		if p.Note != "" {
			fmt.Fprintf(&b, "  // %s", p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}
