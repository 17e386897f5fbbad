package source

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/chartty/internal/series"
)

// CounterReader is the read side of a termio.Counter.
type CounterReader interface {
	Load() uint64
}

// deltaCounter reports how many events a counter saw since the previous
// fetch. The baseline is taken at construction so events from before the
// series existed are not charted.
type deltaCounter struct {
	kind    Kind
	counter CounterReader
	now     func() time.Time

	mu   sync.Mutex
	prev uint64
}

func newDeltaCounter(kind Kind, c CounterReader, now func() time.Time) *deltaCounter {
	if now == nil {
		now = time.Now
	}
	return &deltaCounter{kind: kind, counter: c, now: now, prev: c.Load()}
}

// Fetch never blocks and never fails.
func (d *deltaCounter) Fetch(_ context.Context) ([]series.Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.counter.Load()
	delta := cur - d.prev
	if cur < d.prev {
		// Counter was reset underneath us.
		delta = cur
	}
	d.prev = cur

	return []series.Sample{{Time: d.now(), Value: float64(delta)}}, nil
}

func (d *deltaCounter) Kind() Kind {
	return d.kind
}

// LocalCounter charts the terminal input or output byte counter.
type LocalCounter struct {
	*deltaCounter
}

// NewLocalCounter creates an adapter over an input or output counter.
// A nil now uses time.Now.
func NewLocalCounter(kind Kind, c CounterReader, now func() time.Time) *LocalCounter {
	return &LocalCounter{deltaCounter: newDeltaCounter(kind, c, now)}
}

// AsyncItemCount charts the number of samples loaded by asynchronous
// (Prometheus) fetches.
type AsyncItemCount struct {
	*deltaCounter
}

// NewAsyncItemCount creates an adapter over the async items counter.
func NewAsyncItemCount(c CounterReader, now func() time.Time) *AsyncItemCount {
	return &AsyncItemCount{deltaCounter: newDeltaCounter(KindAsyncItems, c, now)}
}
