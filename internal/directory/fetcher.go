package directory

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"advohub/internal/directory/metrics"
	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/origins"
)

var tracer = otel.Tracer("advohub.directory")

const (
	defaultPageLimit    = 1000
	defaultMaxPages     = 50
	defaultFetchTimeout = 10 * time.Second
)

// degradable is implemented by adapters that track their own health.
type degradable interface {
	Degraded() bool
}

// Fetcher lists every configured origin concurrently and waits for all of
// them to settle. One origin failing never cancels the others.
type Fetcher struct {
	sources ports.Sources
	params   origins.ListParams
	maxPages int
	timeout  time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type FetcherOption func(*Fetcher)

// WithPageLimit sets the page size requested from every origin.
func WithPageLimit(limit int) FetcherOption {
	return func(f *Fetcher) {
		if limit > 0 {
			f.params.Limit = limit
		}
	}
}

// WithMaxPages caps how many pages are followed per origin. An origin with
// more pages is reported as truncated.
func WithMaxPages(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithFetchTimeout bounds the listing of one origin, all pages included.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithFetcherMetrics(m *metrics.Metrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

func NewFetcher(sources ports.Sources, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		sources: sources,
		params:   origins.ListParams{Page: 1, Limit: defaultPageLimit},
		maxPages: defaultMaxPages,
		timeout:  defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll returns one settled outcome per configured origin. Unconfigured
// origins are absent from the map.
func (f *Fetcher) FetchAll(ctx context.Context) map[models.Origin]FetchOutcome {
	lists := f.configured()
	slots := make([]FetchOutcome, len(models.OriginOrder))
	present := make([]bool, len(models.OriginOrder))

	var g errgroup.Group
	for i, origin := range models.OriginOrder {
		list, ok := lists[origin]
		if !ok {
			continue
		}
		present[i] = true
		i, origin := i, origin
		g.Go(func() error {
			slots[i] = f.fetchOne(ctx, origin, list)
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make(map[models.Origin]FetchOutcome, len(models.OriginOrder))
	for i, origin := range models.OriginOrder {
		if present[i] {
			outcomes[origin] = slots[i]
		}
	}
	return outcomes
}

// Degraded lists the origins whose adapters currently report themselves unhealthy.
func (f *Fetcher) Degraded() map[models.Origin]bool {
	out := make(map[models.Origin]bool)
	for origin, src := range f.configured() {
		if d, ok := src.(degradable); ok && d.Degraded() {
			out[origin] = true
		}
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, origin models.Origin, list ports.Origin) FetchOutcome {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "directory.fetch_origin",
		trace.WithAttributes(attribute.String("directory.origin", string(origin))),
	)
	defer span.End()

	start := time.Now()
	outcome := f.listPages(ctx, list)
	elapsed := time.Since(start)
	outcome.Duration = elapsed
	f.metrics.ObserveFetch(string(origin), elapsed)

	err := outcome.Err

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(origins.CategoryOf(err)))
		if f.logger != nil {
			f.logger.WarnContext(ctx, "origin list failed",
				"origin", origin,
				"category", origins.CategoryOf(err),
				"duration_ms", elapsed.Milliseconds(),
				"error", err,
			)
		}
	} else {
		resp := outcome.Response
		span.SetAttributes(
			attribute.Bool("directory.success", resp != nil && resp.Success),
			attribute.Int("directory.pages", 1+len(outcome.More)),
			attribute.Bool("directory.truncated", outcome.Truncated),
		)
	}
	return outcome
}

// listPages requests page 1 and follows the origin's pagination until the
// last page, a failed page, or the page cap.
func (f *Fetcher) listPages(ctx context.Context, list ports.Origin) FetchOutcome {
	params := f.params
	resp, err := list.List(ctx, params)
	if err != nil {
		return FetchOutcome{Err: err}
	}
	outcome := FetchOutcome{Response: resp}
	for hasMorePages(resp, params.Page) {
		if 1+len(outcome.More) >= f.maxPages {
			outcome.Truncated = true
			break
		}
		params.Page++
		resp, err = list.List(ctx, params)
		if err != nil {
			return FetchOutcome{Response: outcome.Response, More: outcome.More, Err: err}
		}
		outcome.More = append(outcome.More, resp)
	}
	return outcome
}

// hasMorePages uses the requested page number rather than the echoed one so
// an origin that keeps answering page 1 cannot loop forever.
func hasMorePages(resp *origins.ListResponse, requested int) bool {
	return resp != nil && resp.Success && resp.Pagination != nil && resp.Pagination.TotalPages > requested
}

func (f *Fetcher) configured() map[models.Origin]ports.Origin {
	out := make(map[models.Origin]ports.Origin, 4)
	if f.sources.Admin != nil {
		out[models.OriginAdmin] = f.sources.Admin
	}
	if f.sources.Community != nil {
		out[models.OriginCommunity] = f.sources.Community
	}
	if f.sources.Volunteer != nil {
		out[models.OriginVolunteer] = f.sources.Volunteer
	}
	if f.sources.Contact != nil {
		out[models.OriginContact] = f.sources.Contact
	}
	return out
}
