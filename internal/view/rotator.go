package view

import (
	"sync"
	"time"
)

// Rotator advances a fixed-size slideshow on a timer. Stopping resets
// the position to the first slide.
type Rotator struct {
	mu       sync.Mutex
	count    int
	index    int
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	onChange func(int)
}

// NewRotator creates a rotator over count slides advancing every
// interval
func NewRotator(count int, interval time.Duration, onChange func(int)) *Rotator {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Rotator{count: count, interval: interval, onChange: onChange}
}

// Start begins automatic advancement. Calling Start on a running
// rotator is a no-op.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticker != nil || r.count < 2 {
		return
	}
	r.ticker = time.NewTicker(r.interval)
	r.done = make(chan struct{})
	go r.run(r.ticker, r.done)
}

func (r *Rotator) run(t *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-t.C:
			r.Next()
		case <-done:
			return
		}
	}
}

// Stop halts advancement and resets to the first slide
func (r *Rotator) Stop() {
	r.mu.Lock()
	if r.ticker == nil {
		r.mu.Unlock()
		return
	}
	r.ticker.Stop()
	close(r.done)
	r.ticker = nil
	r.done = nil
	r.index = 0
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(0)
	}
}

// Next advances to the following slide, wrapping around
func (r *Rotator) Next() {
	r.step(1)
}

// Prev moves to the preceding slide, wrapping around
func (r *Rotator) Prev() {
	r.step(-1)
}

// Seek jumps to the given slide index if it is in range
func (r *Rotator) Seek(i int) {
	r.mu.Lock()
	if i < 0 || i >= r.count {
		r.mu.Unlock()
		return
	}
	r.index = i
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(i)
	}
}

func (r *Rotator) step(d int) {
	r.mu.Lock()
	if r.count == 0 {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + d + r.count) % r.count
	i := r.index
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(i)
	}
}

// Index returns the current slide position
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Running reports whether automatic advancement is active
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticker != nil
}
