package trace

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var seq atomic.Uint64

// writerTracer форматирует и пишет каждое событие сразу.
type writerTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func (t *writerTracer) Accepts(s Scope) bool { return t.level.ShouldEmit(s) }

// Emit drops write errors: a broken trace sink never fails a run.
func (t *writerTracer) Emit(ev Event) {
	if !t.Accepts(ev.Scope) {
		return
	}
	ev.Seq = seq.Add(1)
	line := FormatEvent(&ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

// Close closes the destination unless it is stdout or stderr.
func (t *writerTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the most recent events in memory for a dump after a failure.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	count int
	level Level
}

// NewRing returns a ring holding up to size events.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Ring{buf: make([]Event, size), level: level}
}

// Accepts also keeps file-level events at LevelError, otherwise a failure
// dump would always be empty.
func (r *Ring) Accepts(s Scope) bool {
	if r.level == LevelError {
		return s <= ScopeFile
	}
	return r.level.ShouldEmit(s)
}

func (r *Ring) Emit(ev Event) {
	if !r.Accepts(ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = seq.Add(1)
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
}

// Snapshot returns the stored events oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := range r.count {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Dump writes the snapshot to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Close() error { return nil }

// tee отдаёт каждое событие всем вложенным трейсерам.
type tee []Tracer

func (t tee) Accepts(s Scope) bool {
	for _, inner := range t {
		if inner.Accepts(s) {
			return true
		}
	}
	return false
}

func (t tee) Emit(ev Event) {
	for _, inner := range t {
		inner.Emit(ev)
	}
}

func (t tee) Close() error {
	var errs []error
	for _, inner := range t {
		errs = append(errs, inner.Close())
	}
	return errors.Join(errs...)
}

type nopTracer struct{}

func (nopTracer) Accepts(Scope) bool { return false }
func (nopTracer) Emit(Event)         {}
func (nopTracer) Close() error       { return nil }

// Nop is the tracer used when tracing is off.
var Nop Tracer = nopTracer{}
