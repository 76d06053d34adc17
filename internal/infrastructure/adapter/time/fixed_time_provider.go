package time

import (
	"sync"
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// FixedTimeProvider is a manually advanced clock for tests and load scripts
type FixedTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedTimeProvider creates a clock pinned at now
func NewFixedTimeProvider(now time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: now.UTC()}
}

var _ core.TimeProvider = (*FixedTimeProvider)(nil)

// Now returns the pinned instant
func (p *FixedTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Since returns the pinned instant minus t
func (p *FixedTimeProvider) Since(t time.Time) time.Duration {
	return p.Now().Sub(t)
}

// After fires immediately and advances the clock by d
func (p *FixedTimeProvider) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- p.Advance(d)
	return ch
}

// Advance moves the clock forward and returns the new instant
func (p *FixedTimeProvider) Advance(d time.Duration) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
	return p.now
}

// Set pins the clock at t
func (p *FixedTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t.UTC()
}
