package driver

import "time"

// Stage describes a phase of checking one unit.
type Stage string

const (
	// StageLoad reads and scans unit files.
	StageLoad Stage = "load"
	// StageDeclare runs the declaration pass and imports archives.
	StageDeclare Stage = "declare"
	// StageBind runs the body pass.
	StageBind Stage = "bind"
	// StageExport archives the instantiations of a unit.
	StageExport Stage = "export"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached indicates the archive came from the disk cache.
	StatusCached Status = "cached"
	StatusDone   Status = "done"
	StatusError  Status = "error"
)

// Event reports progress for a unit, or for the whole build when Unit is
// empty.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Build calls it from worker
// goroutines.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
