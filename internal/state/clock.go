package state

import "sync/atomic"

// RequestClock hands out monotonically increasing request numbers so that
// only the result of the latest request is applied. It is safe to call from
// the goroutines that run the requests.
type RequestClock struct {
	latest atomic.Uint64
}

// Next issues a new request number; every earlier number becomes stale.
func (c *RequestClock) Next() uint64 {
	return c.latest.Add(1)
}

// Current reports whether seq is the most recently issued number.
func (c *RequestClock) Current(seq uint64) bool {
	return seq != 0 && c.latest.Load() == seq
}
