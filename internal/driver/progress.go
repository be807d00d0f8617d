package driver

import "time"

// Stage describes what a worker is doing with a file.
type Stage string

const (
	// StageLoad is reading the source file.
	StageLoad Stage = "load"
	// StageDecode is reading and decoding the ESTree document.
	StageDecode Stage = "decode"
	// StageLint is running the rules.
	StageLint Stage = "lint"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the file could not be linted.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(Event)

func (f ProgressFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
