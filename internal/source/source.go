// Package source provides the adapters that produce samples for a series on
// each scheduler tick: local terminal I/O counters and Prometheus HTTP
// queries.
package source

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/chartty/internal/series"
	"github.com/rileyhilliard/chartty/internal/termio"
)

// Kind is the configured series type.
type Kind string

const (
	KindPrometheus Kind = "prometheus"
	KindInput      Kind = termio.NameInput
	KindOutput     Kind = termio.NameOutput
	KindAsyncItems Kind = termio.NameAsyncItems
)

// Kinds lists every supported series type.
var Kinds = []Kind{KindPrometheus, KindInput, KindOutput, KindAsyncItems}

// ParseKind validates a configured series type.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown series type %q", s)
}

// IsCounter reports whether the kind reads a local counter.
func (k Kind) IsCounter() bool {
	return k == KindInput || k == KindOutput || k == KindAsyncItems
}

// Adapter fetches the samples produced since the previous tick. An empty
// result with a nil error is a valid tick with nothing to report.
type Adapter interface {
	Fetch(ctx context.Context) ([]series.Sample, error)
	Kind() Kind
}
