package insight

import "sync/atomic"

// Tracker numbers outstanding requests so that only the newest result is
// applied. A result from an older generation is stale and should be dropped.
type Tracker struct {
	gen atomic.Uint64
}

// Begin starts a new request and returns its generation.
func (t *Tracker) Begin() uint64 { return t.gen.Add(1) }

// Accept reports whether gen is still the latest generation.
func (t *Tracker) Accept(gen uint64) bool { return gen == t.gen.Load() }

// Current returns the latest generation handed out.
func (t *Tracker) Current() uint64 { return t.gen.Load() }
