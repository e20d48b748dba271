package canvas

import (
	"sync"
	"time"
)

// PlaybackState is the preview clock's state.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
)

// Playback is the single scheduled tick source driving in-session video
// preview. One ticker goroutine lives for the playback's lifetime; Start and
// Stop toggle state instead of recreating timers. The clock loops at the
// configured loop length.
type Playback struct {
	mu     sync.Mutex
	state  PlaybackState
	clock  float64 // seconds
	loop   float64 // loop length in seconds, 0 means no looping
	step   time.Duration
	onTick func(t float64)

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

const defaultTickInterval = 100 * time.Millisecond

// NewPlayback creates a stopped playback clock. onTick receives the current
// clock value on every tick and on every seek; it pushes currentTime into
// the session's video elements.
func NewPlayback(loop float64, onTick func(t float64)) *Playback {
	p := &Playback{
		loop:   loop,
		step:   defaultTickInterval,
		onTick: onTick,
		ticker: time.NewTicker(defaultTickInterval),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Playback) run() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.tick()
		}
	}
}

func (p *Playback) tick() {
	p.mu.Lock()
	if p.state != Playing {
		p.mu.Unlock()
		return
	}
	p.advance(p.step.Seconds())
	t, fn := p.clock, p.onTick
	p.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

// advance moves the clock forward, wrapping at the loop length. Caller holds
// the lock.
func (p *Playback) advance(dt float64) {
	p.clock += dt
	if p.loop > 0 && p.clock >= p.loop {
		p.clock = 0
	}
}

// Start begins advancing the clock. Starting an already playing clock is a
// no-op.
func (p *Playback) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Playing
}

// Stop freezes the clock without resetting it.
func (p *Playback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Stopped
}

// Seek moves the clock to t, clamped to [0, loop), and pushes the new time
// immediately.
func (p *Playback) Seek(t float64) {
	p.mu.Lock()
	if t < 0 {
		t = 0
	}
	if p.loop > 0 && t >= p.loop {
		t = 0
	}
	p.clock = t
	now, fn := p.clock, p.onTick
	p.mu.Unlock()
	if fn != nil {
		fn(now)
	}
}

// SetLoop updates the loop length, typically after elements change.
func (p *Playback) SetLoop(loop float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
	if p.loop > 0 && p.clock >= p.loop {
		p.clock = 0
	}
}

// Loop returns the configured loop length in seconds.
func (p *Playback) Loop() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

func (p *Playback) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Now returns the current clock value in seconds.
func (p *Playback) Now() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock
}

// Close releases the ticker goroutine. The playback is unusable afterwards.
func (p *Playback) Close() {
	p.once.Do(func() {
		p.ticker.Stop()
		close(p.done)
	})
}
