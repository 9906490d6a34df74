package playback

import "errors"

// ErrDurationUnknown rejects seek interactions before the media source
// has reported its duration.
var ErrDurationUnknown = errors.New("media duration not yet known")

// Synchronizer keeps the timeline indicator bound to the playback
// position. Position updates from the port move the indicator; user
// interactions request seeks on the port. The indicator never moves
// optimistically, only once the port reports the new position.
type Synchronizer struct {
	port     Port
	cancel   func()
	position float64
}

// NewSynchronizer subscribes to the port. Call Close when the view is
// torn down or the media source changes.
func NewSynchronizer(port Port) *Synchronizer {
	s := &Synchronizer{port: port, position: port.CurrentTime()}
	s.cancel = port.Subscribe(func(position float64) {
		s.position = position
	})
	return s
}

// Close cancels the position subscription. Safe to call more than once.
func (s *Synchronizer) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Position returns the last position reported by the port, in seconds.
func (s *Synchronizer) Position() float64 { return s.position }

// IndicatorPercent returns the indicator offset clamped to [0, 100].
// The second return is false while the duration is unknown.
func (s *Synchronizer) IndicatorPercent() (float64, bool) {
	total, known := s.port.Duration()
	if !known || total <= 0 {
		return 0, false
	}
	return clamp(100*s.position/total, 0, 100), true
}

// SeekFraction requests a seek to fraction f of the total duration. f is
// clamped to [0, 1]; exactly one seek request is issued.
func (s *Synchronizer) SeekFraction(f float64) error {
	total, known := s.port.Duration()
	if !known || total <= 0 {
		return ErrDurationUnknown
	}
	s.port.Seek(clamp(f, 0, 1) * total)
	return nil
}

// Step requests a discrete seek of delta seconds relative to the current
// position, clamped into [0, totalDuration].
func (s *Synchronizer) Step(delta float64) error {
	total, known := s.port.Duration()
	if !known || total <= 0 {
		return ErrDurationUnknown
	}
	s.port.Seek(clamp(s.port.CurrentTime()+delta, 0, total))
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
