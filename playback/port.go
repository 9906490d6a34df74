// Package playback binds the timeline to a playback position source. The
// Port interface is deliberately narrow so the synchronizer is testable
// without any real media element behind it.
package playback

// Port is the playback host surface the synchronizer consumes: current
// position, total duration (available only after metadata load), a seek
// operation, and a position-changed subscription.
type Port interface {
	CurrentTime() float64
	Duration() (seconds float64, known bool)
	Seek(t float64)
	Subscribe(fn func(position float64)) (cancel func())
}
