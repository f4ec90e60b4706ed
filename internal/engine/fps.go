package engine

import (
	"time"

	"arbor/internal/config"
)

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	next time.Time
}

// NewFPSLimiter creates a new FPS limiter
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame should be rendered based on the FPS limit.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *FPSLimiter) Wait() {
	limit := config.GetFPSLimit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		// yields substantially better precision on high FPS caps
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}

// FPSManager tracks the frame rate and reports it once per second.
type FPSManager struct {
	frames   int
	fps      int
	last     time.Time
	onSecond func(fps int)
}

// NewFPSManager returns a manager with no callback.
func NewFPSManager() *FPSManager {
	return &FPSManager{last: time.Now()}
}

// SetCallback registers a function invoked once per second with the
// measured frame rate (window title updates).
func (m *FPSManager) SetCallback(fn func(fps int)) {
	m.onSecond = fn
}

// Frame records one completed frame, rolling the per-second counter.
func (m *FPSManager) Frame() {
	m.frames++
	if since := time.Since(m.last); since >= time.Second {
		m.fps = m.frames
		m.frames = 0
		m.last = m.last.Add(since)
		if m.onSecond != nil {
			m.onSecond(m.fps)
		}
	}
}

// FPS returns the most recent per-second frame count.
func (m *FPSManager) FPS() int { return m.fps }
