package stage

import (
	"errors"
	"testing"
	"time"

	"github.com/PlatDrake2875/diarization/types"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSink struct {
	ingested [][]types.Segment
	clears   int
}

func (f *fakeSink) Ingest(segments []types.Segment) {
	f.ingested = append(f.ingested, segments)
}

func (f *fakeSink) Clear() { f.clears++ }

func newController() (*Controller, *fakeClock, *fakeSink) {
	clock := newFakeClock()
	sink := &fakeSink{}
	return NewWithClock(sink, clock.now), clock, sink
}

func TestStartFetchValidation(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"bad scheme", "ftp://example.com/audio.wav"},
		{"unrecognized file", "notes.pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, _, sink := newController()
			_, err := ctrl.StartFetch(tc.source)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ctrl.Fetch.State != StateIdle {
				t.Errorf("fetch stage started despite invalid source: %s", ctrl.Fetch.State)
			}
			if sink.clears != 0 {
				t.Errorf("transcript cleared despite invalid source")
			}
		})
	}
}

func TestStartFetchAcceptsURLsAndMediaPaths(t *testing.T) {
	for _, src := range []string{
		"https://example.com/episode",
		"http://example.com/a.mp3",
		"recording.wav",
		"talks/interview.MP4",
	} {
		ctrl, _, _ := newController()
		if _, err := ctrl.StartFetch(src); err != nil {
			t.Errorf("StartFetch(%q) = %v, want accept", src, err)
		}
	}
}

func TestStartFetchResetsPriorResults(t *testing.T) {
	ctrl, _, sink := newController()
	succeedFetch(t, ctrl)
	succeedAnalyze(t, ctrl)

	if _, err := ctrl.StartFetch("again.wav"); err != nil {
		t.Fatalf("second StartFetch: %v", err)
	}
	if ctrl.Media != nil {
		t.Error("media descriptor not cleared on fetch start")
	}
	if ctrl.Analyze.State != StateIdle {
		t.Errorf("analyze stage not reset, state = %s", ctrl.Analyze.State)
	}
	// One clear per start so far: fetch, analyze, fetch again.
	if sink.clears != 3 {
		t.Errorf("transcript clears = %d, want 3", sink.clears)
	}
}

func TestElapsedSecondsTruncates(t *testing.T) {
	ctrl, clock, _ := newController()
	if _, err := ctrl.StartFetch("a.wav"); err != nil {
		t.Fatal(err)
	}

	clock.advance(3400 * time.Millisecond)
	ctrl.Tick(clock.now())
	if ctrl.Fetch.ElapsedSeconds != 3 {
		t.Errorf("ElapsedSeconds = %d, want 3", ctrl.Fetch.ElapsedSeconds)
	}
}

func TestFinalDurationFreezes(t *testing.T) {
	ctrl, clock, _ := newController()
	ticket, err := ctrl.StartFetch("a.wav")
	if err != nil {
		t.Fatal(err)
	}

	clock.advance(2500 * time.Millisecond)
	if !ctrl.ResolveFetch(ticket, &types.MediaDescriptor{AudioReference: "ref"}, nil) {
		t.Fatal("resolution not applied")
	}
	if ctrl.Fetch.State != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", ctrl.Fetch.State)
	}
	got := ctrl.Fetch.FinalDurationSeconds
	if got != 2.5 {
		t.Errorf("FinalDurationSeconds = %g, want 2.5", got)
	}

	// Later ticks must not change the frozen duration.
	clock.advance(10 * time.Second)
	ctrl.Tick(clock.now())
	if ctrl.Fetch.FinalDurationSeconds != got {
		t.Errorf("FinalDurationSeconds changed after completion: %g", ctrl.Fetch.FinalDurationSeconds)
	}
	if ctrl.Fetch.ElapsedSeconds != 2 {
		t.Errorf("ElapsedSeconds changed after completion: %d", ctrl.Fetch.ElapsedSeconds)
	}
}

func TestFetchFailureRecordsErrorAndDuration(t *testing.T) {
	ctrl, clock, _ := newController()
	ticket, err := ctrl.StartFetch("a.wav")
	if err != nil {
		t.Fatal(err)
	}

	clock.advance(4 * time.Second)
	callErr := errors.New("service exploded")
	if !ctrl.ResolveFetch(ticket, nil, callErr) {
		t.Fatal("resolution not applied")
	}
	if ctrl.Fetch.State != StateFailed {
		t.Fatalf("state = %s, want failed", ctrl.Fetch.State)
	}
	if !errors.Is(ctrl.Fetch.Err, callErr) {
		t.Errorf("stage error = %v, want %v", ctrl.Fetch.Err, callErr)
	}
	if ctrl.Fetch.FinalDurationSeconds != 4 {
		t.Errorf("FinalDurationSeconds = %g, want 4", ctrl.Fetch.FinalDurationSeconds)
	}
	if ctrl.Media != nil {
		t.Error("media descriptor set despite failure")
	}
}

func TestStaleFetchResolutionIsDropped(t *testing.T) {
	ctrl, clock, _ := newController()
	first, err := ctrl.StartFetch("a.wav")
	if err != nil {
		t.Fatal(err)
	}

	// The user changes the source while the first call is in flight, then
	// starts a second fetch before the first resolves.
	ctrl.Reset()
	second, err := ctrl.StartFetch("b.wav")
	if err != nil {
		t.Fatal(err)
	}

	// The slow first call finally comes back. It must not mutate state.
	stale := &types.MediaDescriptor{AudioReference: "stale"}
	if ctrl.ResolveFetch(first, stale, nil) {
		t.Fatal("stale resolution was applied")
	}
	if ctrl.Fetch.State != StateRunning {
		t.Errorf("state = %s, want running", ctrl.Fetch.State)
	}
	if ctrl.Media != nil {
		t.Error("stale media descriptor stored")
	}

	clock.advance(time.Second)
	fresh := &types.MediaDescriptor{AudioReference: "fresh"}
	if !ctrl.ResolveFetch(second, fresh, nil) {
		t.Fatal("current resolution rejected")
	}
	if ctrl.Media.AudioReference != "fresh" {
		t.Errorf("media = %q, want fresh", ctrl.Media.AudioReference)
	}
}

func TestAnalyzeRequiresSuccessfulFetch(t *testing.T) {
	ctrl, _, sink := newController()
	_, err := ctrl.StartAnalyze()
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if ctrl.Analyze.State != StateIdle {
		t.Errorf("analyze stage started, state = %s", ctrl.Analyze.State)
	}
	if sink.clears != 0 {
		t.Error("transcript cleared despite rejected start")
	}
}

func TestAnalyzeSuccessIngestsSegments(t *testing.T) {
	ctrl, _, sink := newController()
	succeedFetch(t, ctrl)

	ticket, err := ctrl.StartAnalyze()
	if err != nil {
		t.Fatal(err)
	}
	segments := []types.Segment{
		{Speaker: "SPEAKER_00", StartTime: 0, EndTime: 1.5, Text: "hi"},
	}
	if !ctrl.ResolveAnalyze(ticket, segments, nil) {
		t.Fatal("resolution not applied")
	}
	if ctrl.Analyze.State != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", ctrl.Analyze.State)
	}
	if len(sink.ingested) != 1 || len(sink.ingested[0]) != 1 {
		t.Fatalf("sink ingested %v, want one batch of one segment", sink.ingested)
	}
}

func TestStaleAnalyzeAfterNewFetchIsDropped(t *testing.T) {
	ctrl, _, sink := newController()
	succeedFetch(t, ctrl)

	analyzeTicket, err := ctrl.StartAnalyze()
	if err != nil {
		t.Fatal(err)
	}
	// The user changes the source while analyze is pending and re-fetches.
	// The old analyze resolution must not repopulate the transcript.
	ctrl.Reset()
	succeedFetch(t, ctrl)

	if ctrl.ResolveAnalyze(analyzeTicket, []types.Segment{{Text: "late"}}, nil) {
		t.Fatal("stale analyze resolution was applied")
	}
	if len(sink.ingested) != 0 {
		t.Errorf("stale segments ingested: %v", sink.ingested)
	}
}

func TestStartsRejectedWhileBusy(t *testing.T) {
	ctrl, _, _ := newController()
	if _, err := ctrl.StartFetch("a.wav"); err != nil {
		t.Fatal(err)
	}

	var perr *PreconditionError
	if _, err := ctrl.StartFetch("b.wav"); !errors.As(err, &perr) {
		t.Errorf("StartFetch while running: %v, want PreconditionError", err)
	}
	if _, err := ctrl.StartAnalyze(); !errors.As(err, &perr) {
		t.Errorf("StartAnalyze while running: %v, want PreconditionError", err)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	ctrl, _, _ := newController()
	succeedFetch(t, ctrl)
	succeedAnalyze(t, ctrl)

	ctrl.Reset()
	if ctrl.Fetch.State != StateIdle || ctrl.Analyze.State != StateIdle {
		t.Errorf("states after reset: fetch=%s analyze=%s", ctrl.Fetch.State, ctrl.Analyze.State)
	}
	if ctrl.Media != nil {
		t.Error("media descriptor survived reset")
	}
}

func succeedFetch(t *testing.T, ctrl *Controller) {
	t.Helper()
	ticket, err := ctrl.StartFetch("sample.wav")
	if err != nil {
		t.Fatal(err)
	}
	ok := ctrl.ResolveFetch(ticket, &types.MediaDescriptor{
		Title:          "sample.wav",
		PlayableURL:    "http://localhost:8080/media/sample.wav",
		AudioReference: "ref-1",
		FileName:       "sample.wav",
	}, nil)
	if !ok {
		t.Fatal("fetch resolution not applied")
	}
}

func succeedAnalyze(t *testing.T, ctrl *Controller) {
	t.Helper()
	ticket, err := ctrl.StartAnalyze()
	if err != nil {
		t.Fatal(err)
	}
	if !ctrl.ResolveAnalyze(ticket, []types.Segment{{Speaker: "A", Text: "x"}}, nil) {
		t.Fatal("analyze resolution not applied")
	}
}
