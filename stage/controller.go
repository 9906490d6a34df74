package stage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PlatDrake2875/diarization/types"
)

// TranscriptSink receives the segment list produced by a successful
// analyze stage. The transcript edit store implements it.
type TranscriptSink interface {
	Ingest(segments []types.Segment)
	Clear()
}

// Controller drives the two pipeline stages. At most one stage runs at a
// time; analyze may only start once fetch has succeeded for the current
// source. All methods must be called from a single goroutine (the UI event
// loop); the controller does no locking of its own.
type Controller struct {
	now  func() time.Time
	sink TranscriptSink

	Fetch   Stage
	Analyze Stage

	// Media is the descriptor produced by the last successful fetch.
	// Replaced wholesale on every new fetch; nil until one succeeds.
	Media *types.MediaDescriptor
}

// New creates a controller feeding analyze results into sink.
func New(sink TranscriptSink) *Controller {
	return NewWithClock(sink, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(sink TranscriptSink, now func() time.Time) *Controller {
	return &Controller{
		now:     now,
		sink:    sink,
		Fetch:   Stage{State: StateIdle},
		Analyze: Stage{State: StateIdle},
	}
}

// Busy reports whether either stage is running. Start controls must be
// treated as disabled while it returns true.
func (c *Controller) Busy() bool {
	return c.Fetch.State == StateRunning || c.Analyze.State == StateRunning
}

// StartFetch validates the source reference and moves the fetch stage to
// running. It resets the analyze stage, clears any prior media descriptor
// and discards the transcript (including user edits). The caller must
// issue exactly one remote fetch call and hand the result back through
// ResolveFetch with the returned ticket.
func (c *Controller) StartFetch(sourceReference string) (Ticket, error) {
	if c.Busy() {
		return Ticket{}, &PreconditionError{Reason: "a stage is already running"}
	}
	if err := validateSource(sourceReference); err != nil {
		return Ticket{}, err
	}

	c.Media = nil
	c.sink.Clear()
	// Bump the analyze generation too so a still-pending analyze
	// resolution from the previous source is dropped.
	c.Analyze = Stage{State: StateIdle, gen: c.Analyze.gen + 1}

	gen := c.Fetch.gen + 1
	c.Fetch = Stage{
		State:     StateRunning,
		StartedAt: c.now(),
		gen:       gen,
	}
	return Ticket{kind: KindFetch, gen: gen}, nil
}

// ResolveFetch applies the outcome of a fetch call. The resolution is
// discarded (no state mutated, false returned) when the ticket's
// generation has been superseded or the stage is no longer running.
func (c *Controller) ResolveFetch(t Ticket, media *types.MediaDescriptor, callErr error) bool {
	if t.kind != KindFetch || t.gen != c.Fetch.gen || c.Fetch.State != StateRunning {
		return false
	}
	c.finish(&c.Fetch, callErr)
	if callErr == nil {
		c.Media = media
	}
	return true
}

// StartAnalyze moves the analyze stage to running, discarding the held
// transcript. Fails with PreconditionError when no successful fetch result
// is available; in that case no remote call may be issued.
func (c *Controller) StartAnalyze() (Ticket, error) {
	if c.Busy() {
		return Ticket{}, &PreconditionError{Reason: "a stage is already running"}
	}
	if c.Fetch.State != StateSucceeded || c.Media == nil {
		return Ticket{}, &PreconditionError{Reason: "no converted media available; run fetch first"}
	}

	c.sink.Clear()
	gen := c.Analyze.gen + 1
	c.Analyze = Stage{
		State:     StateRunning,
		StartedAt: c.now(),
		gen:       gen,
	}
	return Ticket{kind: KindAnalyze, gen: gen}, nil
}

// ResolveAnalyze applies the outcome of an analyze call, ingesting the
// segments into the transcript sink on success. Stale resolutions are
// discarded exactly like ResolveFetch.
func (c *Controller) ResolveAnalyze(t Ticket, segments []types.Segment, callErr error) bool {
	if t.kind != KindAnalyze || t.gen != c.Analyze.gen || c.Analyze.State != StateRunning {
		return false
	}
	c.finish(&c.Analyze, callErr)
	if callErr == nil {
		c.sink.Ingest(segments)
	}
	return true
}

// Reset returns both stages to idle, discarding the media descriptor and
// the transcript. Called when the user changes the source; it supersedes
// any in-flight call by bumping both generations, so a resolution arriving
// afterwards is dropped without ever transitioning its stage.
func (c *Controller) Reset() {
	c.Media = nil
	c.sink.Clear()
	c.Fetch = Stage{State: StateIdle, gen: c.Fetch.gen + 1}
	c.Analyze = Stage{State: StateIdle, gen: c.Analyze.gen + 1}
}

// Tick recomputes ElapsedSeconds for the running stage, if any. Ticks that
// arrive after a stage has finished are no-ops.
func (c *Controller) Tick(now time.Time) {
	if c.Fetch.State == StateRunning {
		c.Fetch.ElapsedSeconds = int(now.Sub(c.Fetch.StartedAt).Seconds())
	}
	if c.Analyze.State == StateRunning {
		c.Analyze.ElapsedSeconds = int(now.Sub(c.Analyze.StartedAt).Seconds())
	}
}

func (c *Controller) finish(s *Stage, callErr error) {
	elapsed := c.now().Sub(s.StartedAt).Seconds()
	s.FinalDurationSeconds = elapsed
	s.ElapsedSeconds = int(elapsed)
	if callErr != nil {
		s.State = StateFailed
		s.Err = callErr
		return
	}
	s.State = StateSucceeded
	s.Err = nil
}

// supportedExtensions are the bare-path sources the fetch stage accepts;
// anything else must be an http(s) URL. The pipeline converts via ffmpeg,
// so common container formats are all fine.
var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".mp4":  true,
	".mkv":  true,
	".webm": true,
}

func validateSource(sourceReference string) error {
	src := strings.TrimSpace(sourceReference)
	if src == "" {
		return &ValidationError{Reason: "source reference is empty"}
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Host != "" {
		if u.Scheme == "http" || u.Scheme == "https" {
			return nil
		}
		return &ValidationError{Reason: fmt.Sprintf("unsupported URL scheme %q", u.Scheme)}
	}
	if supportedExtensions[strings.ToLower(filepath.Ext(src))] {
		return nil
	}
	return &ValidationError{Reason: fmt.Sprintf("%q is neither an http(s) URL nor a recognized media file", src)}
}
