// Package series implements the bounded per-series sample store. A Buffer
// keeps the most recent samples of one feed in a fixed-size ring, resolves
// samples that land in the same time bucket with a CollisionPolicy and fills
// ticks that produced nothing with a MissingPolicy.
package series

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rileyhilliard/chartty/internal/errors"
)

// DefaultCapacity is the number of samples retained when none is configured.
const DefaultCapacity = 300

// DefaultGranularity is the default bucket width.
const DefaultGranularity = time.Second

// Sample is one observation. Filled marks values produced by gap filling.
type Sample struct {
	Time   time.Time
	Value  float64
	Filled bool
}

// Outcome reports what Ingest did with a sample.
type Outcome int

const (
	// Appended means the sample opened a new bucket.
	Appended Outcome = iota
	// Merged means the sample collided with a stored one.
	Merged
	// Dropped means the sample was older than anything it could merge into.
	Dropped
)

func (o Outcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case Merged:
		return "merged"
	default:
		return "dropped"
	}
}

// Options configures a Buffer.
type Options struct {
	Capacity    int
	Granularity time.Duration
	Collision   CollisionPolicy
	Missing     MissingPolicy
}

// Buffer is a fixed-capacity, time-ordered ring of samples. It is safe for
// one writer and many readers.
type Buffer struct {
	mu    sync.RWMutex
	opts  Options
	data  []Sample
	head  int
	count int
}

// New creates a buffer. Capacity must be positive; a non-positive
// granularity defaults to one second.
func New(opts Options) (*Buffer, error) {
	if opts.Capacity <= 0 {
		return nil, errors.New(errors.ErrBuffer,
			fmt.Sprintf("Buffer capacity must be positive, got %d", opts.Capacity),
			"Set metrics_capacity to a value above zero")
	}
	if opts.Granularity <= 0 {
		opts.Granularity = DefaultGranularity
	}
	return &Buffer{
		opts: opts,
		data: make([]Sample, opts.Capacity),
	}, nil
}

// Options returns the buffer's effective options.
func (b *Buffer) Options() Options {
	return b.opts
}

// Ingest stores a sample. NaN and infinite values are rejected with an
// ErrBuffer error and leave the buffer untouched.
func (b *Buffer) Ingest(s Sample) (Outcome, error) {
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return Dropped, errors.New(errors.ErrBuffer,
			fmt.Sprintf("Rejected non-finite sample value %v", s.Value), "")
	}
	s.Filled = false

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		b.push(s)
		return Appended, nil
	}

	bucket := b.bucket(s.Time)
	newest := b.count - 1
	last := b.bucket(b.at(newest).Time)

	switch {
	case bucket > last:
		b.push(s)
		return Appended, nil
	case bucket == last:
		b.merge(newest, s)
		return Merged, nil
	}

	// Older than the newest sample: merge into its bucket if still held.
	for i := newest - 1; i >= 0; i-- {
		stored := b.bucket(b.at(i).Time)
		if stored == bucket {
			b.merge(i, s)
			return Merged, nil
		}
		if stored < bucket {
			break
		}
	}
	return Dropped, nil
}

// Gap records a tick that produced no sample. It appends a filled sample at
// the given time and returns it. A gap whose bucket is not newer than the
// newest stored sample is a no-op.
func (b *Buffer) Gap(at time.Time) (Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count > 0 && b.bucket(at) <= b.bucket(b.at(b.count-1).Time) {
		return Sample{}, false
	}

	s := Sample{
		Time:   at,
		Value:  b.opts.Missing.fill(b.valuesLocked()),
		Filled: true,
	}
	b.push(s)
	return s, true
}

// Snapshot returns a copy of the stored samples, oldest first.
func (b *Buffer) Snapshot() []Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Sample, b.count)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

// Values returns the stored values, oldest first.
func (b *Buffer) Values() []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.valuesLocked()
}

// Latest returns the newest sample.
func (b *Buffer) Latest() (Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return Sample{}, false
	}
	return b.at(b.count - 1), true
}

// Stats summarizes the stored values.
func (b *Buffer) Stats() Stats {
	return StatsOf(b.Values())
}

// Len returns the number of stored samples.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.opts.Capacity
}

// bucket quantizes t to the buffer granularity.
func (b *Buffer) bucket(t time.Time) int64 {
	ns := t.UnixNano()
	g := int64(b.opts.Granularity)
	q := ns / g
	if ns%g < 0 {
		q--
	}
	return q
}

// push appends a sample, overwriting the oldest when full.
// Must be called with b.mu held.
func (b *Buffer) push(s Sample) {
	size := len(b.data)
	b.data[b.head] = s
	b.head = (b.head + 1) % size
	if b.count < size {
		b.count++
	}
}

// at returns the i-th sample in chronological order.
// Must be called with b.mu held.
func (b *Buffer) at(i int) Sample {
	size := len(b.data)
	start := (b.head - b.count + size) % size
	return b.data[(start+i)%size]
}

// merge resolves a collision at chronological index i. A filled slot is
// replaced outright since it never held a real observation.
// Must be called with b.mu held.
func (b *Buffer) merge(i int, s Sample) {
	size := len(b.data)
	idx := ((b.head-b.count+size)%size + i) % size
	stored := b.data[idx]
	if stored.Filled {
		stored.Value = s.Value
		stored.Filled = false
	} else {
		stored.Value = b.opts.Collision.Resolve(stored.Value, s.Value)
	}
	b.data[idx] = stored
}

func (b *Buffer) valuesLocked() []float64 {
	out := make([]float64, b.count)
	for i := range out {
		out[i] = b.at(i).Value
	}
	return out
}
