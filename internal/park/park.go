// Package park is the suspension primitive used by the scheduler. A caller
// suspends itself with Park and another caller resumes it with Unpark.
//
// A Handle carries at most one pending permit. Unpark before Park is
// retained, so a wake issued between a queue mutation and the matching Park
// is never lost; Park consumes exactly one permit.
package park

import "sync/atomic"

// Handle is the suspension handle of a single caller.
type Handle struct {
	permit   chan struct{}
	released atomic.Bool
	parked   atomic.Int32
}

// NewHandle returns a handle with no pending permit.
func NewHandle() *Handle {
	return &Handle{permit: make(chan struct{}, 1)}
}

// Park blocks the calling goroutine until a permit is available and consumes
// it. There is no timeout; a handle that is never unparked blocks forever.
func (h *Handle) Park() {
	h.parked.Add(1)
	<-h.permit
	h.parked.Add(-1)
}

// Unpark issues a permit. It reports false when a permit was already pending,
// which means two wakes were issued for a single park.
func (h *Handle) Unpark() bool {
	select {
	case h.permit <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release marks the handle as released and wakes any pending Park. A released
// handle belongs to a caller that has left its container.
func (h *Handle) Release() {
	h.released.Store(true)
	h.Unpark()
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Parked reports whether a goroutine is currently blocked in Park.
func (h *Handle) Parked() bool {
	return h.parked.Load() > 0
}
