package playback

// Player is the playback host used by the terminal client, where no media
// element exists: position advances only when the owning event loop calls
// Advance. It implements Port.
type Player struct {
	position float64
	duration float64
	known    bool
	playing  bool

	subscribers map[int]func(float64)
	nextID      int
}

// NewPlayer creates a paused player with unknown duration.
func NewPlayer() *Player {
	return &Player{subscribers: make(map[int]func(float64))}
}

// SetDuration records the media duration once metadata has loaded.
// Non-positive values are ignored.
func (p *Player) SetDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	p.duration = seconds
	p.known = true
}

// CurrentTime implements Port.
func (p *Player) CurrentTime() float64 { return p.position }

// Duration implements Port.
func (p *Player) Duration() (float64, bool) { return p.duration, p.known }

// Playing reports whether the player is advancing.
func (p *Player) Playing() bool { return p.playing }

// TogglePlay flips play/pause. Playback cannot start before the duration
// is known.
func (p *Player) TogglePlay() {
	if !p.known {
		return
	}
	p.playing = !p.playing
}

// Advance moves playback forward by dt seconds while playing, pausing at
// the end of the media, and notifies subscribers of the new position.
func (p *Player) Advance(dt float64) {
	if !p.playing || dt <= 0 {
		return
	}
	p.position += dt
	if p.position >= p.duration {
		p.position = p.duration
		p.playing = false
	}
	p.notify()
}

// Seek implements Port, clamping into the known media range.
func (p *Player) Seek(t float64) {
	if !p.known {
		return
	}
	p.position = clamp(t, 0, p.duration)
	p.notify()
}

// Subscribe implements Port.
func (p *Player) Subscribe(fn func(position float64)) func() {
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	return func() {
		delete(p.subscribers, id)
	}
}

func (p *Player) notify() {
	for _, fn := range p.subscribers {
		fn(p.position)
	}
}
