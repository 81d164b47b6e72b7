// Package timeguard validates request timestamps against a replay window.
package timeguard

import (
	"time"
)

// Layout is the compact UTC timestamp format carried by API requests.
const Layout = "20060102150405"

// DefaultWindow is the replay tolerance applied when none is configured.
const DefaultWindow = 15 * time.Minute

// Guard checks caller-supplied timestamps for freshness. The zero value
// is not usable; construct with New.
type Guard struct {
	window time.Duration
	now    func() time.Time
}

// Option customizes a Guard.
type Option func(*Guard)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// New builds a Guard with the given tolerance window. Non-positive
// windows fall back to the default.
func New(window time.Duration, opts ...Option) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	g := &Guard{
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Valid reports whether the supplied YYYYMMDDHHMMSS timestamp lies
// strictly within the window of current UTC time. Non-numeric, zero or
// otherwise malformed input is invalid. The check is a total predicate
// and never fails loudly; freshness is independent of identity.
//
// The elapsed time is computed as a true duration, so timestamps close
// to midnight or an hour boundary compare correctly.
func (g *Guard) Valid(timestamp string) bool {
	if !numeric(timestamp) || allZero(timestamp) {
		return false
	}
	given, err := time.ParseInLocation(Layout, timestamp, time.UTC)
	if err != nil {
		return false
	}
	elapsed := g.now().UTC().Sub(given)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return elapsed < g.window
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allZero(s string) bool {
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}
