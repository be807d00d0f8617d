package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations are safe for concurrent use.
type Tracer interface {
	// Accepts reports whether events of scope would be kept, so callers can
	// skip building them.
	Accepts(scope Scope) bool
	Emit(ev Event)
	Close() error
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory
	ModeBoth
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

// ParseMode accepts stream, ring and both.
func ParseMode(s string) (StorageMode, error) {
	for _, m := range []StorageMode{ModeStream, ModeRing, ModeBoth} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config describes the tracer New builds. Output wins over OutputPath;
// an empty path or "-" means stderr.
type Config struct {
	Level      Level
	Mode       StorageMode // zero means ModeStream
	Format     Format      // FormatAuto picks NDJSON for .ndjson and .jsonl paths
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	mode := cfg.Mode
	if mode == 0 {
		mode = ModeStream
	}
	if mode == ModeRing {
		return NewRing(cfg.RingSize, cfg.Level), nil
	}
	if mode != ModeStream && mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", mode)
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	stream := &writerTracer{w: w, level: cfg.Level, format: resolveFormat(cfg)}
	if mode == ModeStream {
		return stream, nil
	}
	return tee{stream, NewRing(cfg.RingSize, cfg.Level)}, nil
}

func resolveFormat(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// RingOf finds the in-memory ring inside t.
func RingOf(t Tracer) (*Ring, bool) {
	switch v := t.(type) {
	case *Ring:
		return v, true
	case tee:
		for _, inner := range v {
			if r, ok := RingOf(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
