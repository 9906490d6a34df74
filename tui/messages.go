package tui

import (
	"time"

	"github.com/PlatDrake2875/diarization/stage"
	"github.com/PlatDrake2875/diarization/types"
)

// Messages for the tea program. Remote-call results carry the stage
// ticket issued at start time so the controller can drop stale ones.

// TickMsg drives the stage timers and playback advancement.
type TickMsg struct {
	Time time.Time
}

// FetchResultMsg is the continuation of a fetch call.
type FetchResultMsg struct {
	Ticket stage.Ticket
	Media  *types.MediaDescriptor
	Err    error
}

// AnalyzeResultMsg is the continuation of an analyze call.
type AnalyzeResultMsg struct {
	Ticket   stage.Ticket
	Segments []types.Segment
	Err      error
}

// DurationLoadedMsg reports the probed media duration (metadata load).
type DurationLoadedMsg struct {
	PlayableURL string
	Seconds     float64
	Err         error
}

// ExportWrittenMsg reports the outcome of writing the export file.
type ExportWrittenMsg struct {
	Path string
	Err  error
}
