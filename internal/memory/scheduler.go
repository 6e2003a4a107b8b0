package memory

import (
	"sync"
	"time"
)

// Scheduler runs deferred work for a session.
// The returned stop functions must be safe to call more than once and must
// not block waiting for a running callback.
type Scheduler interface {
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) (stop func())

	// Every runs fn every d until stopped.
	Every(d time.Duration, fn func()) (stop func())
}

// WallClock is the real-time Scheduler.
type WallClock struct{}

// AfterFunc schedules fn with time.AfterFunc.
func (WallClock) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Every runs fn from a ticker goroutine.
func (WallClock) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
