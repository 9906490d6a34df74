package playback

import (
	"errors"
	"testing"
)

type fakePort struct {
	position float64
	duration float64
	known    bool

	seeks       []float64
	subscriber  func(float64)
	unsubscribd bool
}

func (f *fakePort) CurrentTime() float64 { return f.position }

func (f *fakePort) Duration() (float64, bool) { return f.duration, f.known }

func (f *fakePort) Seek(t float64) { f.seeks = append(f.seeks, t) }

func (f *fakePort) Subscribe(fn func(float64)) func() {
	f.subscriber = fn
	return func() {
		f.subscriber = nil
		f.unsubscribd = true
	}
}

func (f *fakePort) report(position float64) {
	f.position = position
	if f.subscriber != nil {
		f.subscriber(position)
	}
}

func TestSeekFractionClamps(t *testing.T) {
	port := &fakePort{duration: 10, known: true}
	s := NewSynchronizer(port)
	defer s.Close()

	if err := s.SeekFraction(1.2); err != nil {
		t.Fatal(err)
	}
	if len(port.seeks) != 1 || port.seeks[0] != 10 {
		t.Errorf("seeks = %v, want exactly [10]", port.seeks)
	}

	if err := s.SeekFraction(-0.5); err != nil {
		t.Fatal(err)
	}
	if port.seeks[1] != 0 {
		t.Errorf("negative fraction seeked to %g, want 0", port.seeks[1])
	}
}

func TestSeeksRejectedWhileDurationUnknown(t *testing.T) {
	port := &fakePort{}
	s := NewSynchronizer(port)
	defer s.Close()

	if err := s.SeekFraction(0.5); !errors.Is(err, ErrDurationUnknown) {
		t.Errorf("SeekFraction error = %v, want ErrDurationUnknown", err)
	}
	if err := s.Step(5); !errors.Is(err, ErrDurationUnknown) {
		t.Errorf("Step error = %v, want ErrDurationUnknown", err)
	}
	if len(port.seeks) != 0 {
		t.Errorf("seek issued despite unknown duration: %v", port.seeks)
	}
	if _, ok := s.IndicatorPercent(); ok {
		t.Error("indicator reported without a known duration")
	}
}

func TestStepClamps(t *testing.T) {
	port := &fakePort{duration: 60, known: true, position: 58}
	s := NewSynchronizer(port)
	defer s.Close()

	if err := s.Step(5); err != nil {
		t.Fatal(err)
	}
	if port.seeks[0] != 60 {
		t.Errorf("forward step seeked to %g, want 60", port.seeks[0])
	}

	port.position = 2
	if err := s.Step(-5); err != nil {
		t.Fatal(err)
	}
	if port.seeks[1] != 0 {
		t.Errorf("backward step seeked to %g, want 0", port.seeks[1])
	}
}

func TestIndicatorFollowsReportedPositionOnly(t *testing.T) {
	port := &fakePort{duration: 10, known: true}
	s := NewSynchronizer(port)
	defer s.Close()

	if err := s.SeekFraction(0.5); err != nil {
		t.Fatal(err)
	}
	// The seek was requested but not yet honored: indicator stays put.
	if p, _ := s.IndicatorPercent(); p != 0 {
		t.Errorf("indicator moved optimistically to %g", p)
	}

	port.report(5)
	if p, _ := s.IndicatorPercent(); p != 50 {
		t.Errorf("indicator = %g, want 50", p)
	}

	port.report(25) // past the end; clamp
	if p, _ := s.IndicatorPercent(); p != 100 {
		t.Errorf("indicator = %g, want 100", p)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	port := &fakePort{duration: 10, known: true}
	s := NewSynchronizer(port)
	s.Close()
	s.Close() // idempotent

	if !port.unsubscribd {
		t.Fatal("Close did not cancel the subscription")
	}
	port.report(7)
	if s.Position() != 0 {
		t.Error("position updated after Close")
	}
}

func TestPlayerAdvanceAndSeek(t *testing.T) {
	p := NewPlayer()

	p.TogglePlay()
	if p.Playing() {
		t.Fatal("player started before duration was known")
	}
	p.Seek(5)
	if p.CurrentTime() != 0 {
		t.Fatal("seek honored before duration was known")
	}

	p.SetDuration(10)
	p.TogglePlay()
	if !p.Playing() {
		t.Fatal("player did not start")
	}

	var observed []float64
	cancel := p.Subscribe(func(position float64) { observed = append(observed, position) })
	defer cancel()

	p.Advance(4)
	p.Advance(8) // runs past the end; pauses at 10
	if p.CurrentTime() != 10 {
		t.Errorf("position = %g, want 10", p.CurrentTime())
	}
	if p.Playing() {
		t.Error("player still playing past the end")
	}
	if len(observed) != 2 || observed[0] != 4 || observed[1] != 10 {
		t.Errorf("observed positions = %v, want [4 10]", observed)
	}

	p.Seek(12)
	if p.CurrentTime() != 10 {
		t.Errorf("seek past end landed at %g, want 10", p.CurrentTime())
	}
	p.Seek(-1)
	if p.CurrentTime() != 0 {
		t.Errorf("seek before start landed at %g, want 0", p.CurrentTime())
	}
}
