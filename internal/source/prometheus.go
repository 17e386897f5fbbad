package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/api"

	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/series"
)

const rangeQueryPath = "/api/v1/query_range"

// LoadCounter receives the number of samples each successful fetch loaded.
type LoadCounter interface {
	Add(delta uint64) uint64
}

// PrometheusOptions configures a PrometheusQuery.
type PrometheusOptions struct {
	// Source is the full query URL, e.g.
	// http://localhost:9090/api/v1/query_range?query=node_load1
	Source string
	// Labels that a result stream must carry to be ingested.
	Labels map[string]string
	// Capacity and Step size the query_range window (start = now-Capacity*Step).
	Capacity int
	Step     time.Duration
	// Loaded is incremented by the sample count of every successful fetch.
	Loaded LoadCounter
	// Client overrides the HTTP client used by the Prometheus API client.
	Client *http.Client
	Now    func() time.Time
}

// PrometheusQuery fetches samples from a Prometheus HTTP API endpoint.
type PrometheusQuery struct {
	base   *url.URL
	ranged bool
	opts   PrometheusOptions
	client api.Client
}

// NewPrometheusQuery validates the source URL and builds the API client.
// Only http and https URLs are accepted.
func NewPrometheusQuery(opts PrometheusOptions) (*PrometheusQuery, error) {
	u, err := url.Parse(strings.TrimSpace(opts.Source))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid Prometheus source URL %q", opts.Source),
			"Use a full URL such as http://localhost:9090/api/v1/query_range?query=up")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported scheme %q in Prometheus source %q", u.Scheme, opts.Source),
			"Only http and https sources are supported")
	}
	if u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Prometheus source %q has no host", opts.Source),
			"Include host and port, e.g. http://localhost:9090")
	}

	client, err := api.NewClient(api.Config{
		Address: u.Scheme + "://" + u.Host,
		Client:  opts.Client,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create Prometheus client", "")
	}

	if opts.Capacity <= 0 {
		opts.Capacity = series.DefaultCapacity
	}
	if opts.Step <= 0 {
		opts.Step = series.DefaultGranularity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &PrometheusQuery{
		base:   u,
		ranged: strings.HasSuffix(strings.TrimRight(u.Path, "/"), rangeQueryPath),
		opts:   opts,
		client: client,
	}, nil
}

func (q *PrometheusQuery) Kind() Kind {
	return KindPrometheus
}

// URL returns the request URL for a fetch at now. Query parameters are
// re-encoded; range queries get a window ending at now.
func (q *PrometheusQuery) URL(now time.Time) *url.URL {
	u := *q.base
	params := u.Query()
	if q.ranged {
		window := time.Duration(q.opts.Capacity) * q.opts.Step
		params.Set("start", strconv.FormatInt(now.Add(-window).Unix(), 10))
		params.Set("end", strconv.FormatInt(now.Unix(), 10))
		step := int64(q.opts.Step / time.Second)
		if step < 1 {
			step = 1
		}
		params.Set("step", strconv.FormatInt(step, 10))
	}
	u.RawQuery = params.Encode()
	return &u
}

// Fetch issues the query and decodes the response. Transport failures are
// ErrNetwork, deadline overruns are ErrTimeout and malformed or failed
// responses are ErrParse.
func (q *PrometheusQuery) Fetch(ctx context.Context) ([]series.Sample, error) {
	u := q.URL(q.opts.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrNetwork, "Failed to build Prometheus request", "")
	}

	resp, body, err := q.client.Do(ctx, req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.WrapWithCode(err, errors.ErrTimeout,
				fmt.Sprintf("Prometheus query to %s timed out", u.Host),
				"Raise fetch_timeout or simplify the query")
		}
		return nil, errors.WrapWithCode(err, errors.ErrNetwork,
			fmt.Sprintf("Prometheus query to %s failed", u.Host),
			"Check that Prometheus is reachable")
	}
	if resp.StatusCode/100 != 2 && len(body) == 0 {
		return nil, errors.New(errors.ErrNetwork,
			fmt.Sprintf("Prometheus returned %s with an empty body", resp.Status), "")
	}

	samples, err := decodeResponse(body, q.opts.Labels)
	if err != nil {
		return nil, err
	}

	if q.opts.Loaded != nil && len(samples) > 0 {
		q.opts.Loaded.Add(uint64(len(samples)))
	}
	return samples, nil
}
