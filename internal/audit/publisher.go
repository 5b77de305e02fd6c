package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"advohub/pkg/requestcontext"
)

// Store persists events and answers recent-event queries.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, q Query) ([]Event, error)
}

// Sink receives a copy of every event. Sinks are write-only.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only: the store is
// the queryable record, sinks get a best-effort copy.
type Publisher struct {
	store  Store
	sinks  []Sink
	logger *slog.Logger
}

type Option func(*Publisher)

func WithSink(s Sink) Option {
	return func(p *Publisher) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps the event and writes it to the store and every sink. All
// destinations are attempted; their failures are joined.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}

	var errs []error
	if err := p.store.Append(ctx, event); err != nil {
		errs = append(errs, err)
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil && p.logger != nil {
		p.logger.WarnContext(ctx, "audit event not fully delivered",
			"log_type", "audit",
			"action", event.Action,
			"event_id", event.ID,
			"error", err,
		)
	}
	return err
}

func (p *Publisher) ListRecent(ctx context.Context, q Query) ([]Event, error) {
	return p.store.ListRecent(ctx, q.Normalized())
}
