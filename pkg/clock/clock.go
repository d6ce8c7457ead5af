// Package clock abstracts wall-clock time so TTL and calendar logic can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// Real is the system clock
type Real struct{}

// Now returns time.Now()
func (Real) Now() time.Time { return time.Now() }

// Fake is a manually advanced clock, safe for concurrent use
type Fake struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFake returns a fake clock frozen at t
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now returns the frozen time
func (f *Fake) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set moves the clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
