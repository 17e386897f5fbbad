// Package termio holds the process-wide terminal I/O counters. The terminal
// side increments them; chart series read them through source adapters.
package termio

import "sync/atomic"

// Counter names as they appear in series configuration.
const (
	NameInput      = "alacritty_input"
	NameOutput     = "alacritty_output"
	NameAsyncItems = "async_items_loaded"
)

// Counter is a monotonically increasing event count.
type Counter struct {
	n atomic.Uint64
}

// Add increments the counter and returns the new total.
func (c *Counter) Add(delta uint64) uint64 {
	return c.n.Add(delta)
}

// Load returns the current total.
func (c *Counter) Load() uint64 {
	return c.n.Load()
}

// Counters groups the counters shared between the terminal and the engine.
type Counters struct {
	Input      Counter
	Output     Counter
	AsyncItems Counter
}

// ByName returns the counter registered under a series type name.
func (c *Counters) ByName(name string) (*Counter, bool) {
	switch name {
	case NameInput:
		return &c.Input, true
	case NameOutput:
		return &c.Output, true
	case NameAsyncItems:
		return &c.AsyncItems, true
	}
	return nil, false
}
