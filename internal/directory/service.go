package directory

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"advohub/internal/audit"
	"advohub/internal/directory/metrics"
	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/origins"
	dErrors "advohub/pkg/domain-errors"
	"advohub/pkg/platform/sentinel"
	"advohub/pkg/requestcontext"
)

// ErrRefreshSuperseded is returned by a refresh that a newer refresh replaced
// before it could install its result.
var ErrRefreshSuperseded = errors.New("refresh superseded by a newer refresh")

// protectedPatchKeys identify a record and may not be edited.
var protectedPatchKeys = []string{"id", "_id", "origin"}

// Snapshot is one installed aggregation pass. It is never modified after it
// is installed.
type Snapshot struct {
	Records     []models.UnifiedRecord
	Reports     []OriginReport
	RefreshedAt time.Time
	Generation  uint64
}

// Service owns the directory snapshot and is the only path for mutations.
type Service struct {
	fetcher     *Fetcher
	router      *Router
	metrics     *metrics.Metrics
	logger      *slog.Logger
	auditor     ports.AuditPublisher
	invalidator ports.Invalidator

	snapshot atomic.Pointer[Snapshot]

	refreshMu  sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	cancelGen  uint64

	mutateMu sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithInvalidator(inv ports.Invalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

func NewService(fetcher *Fetcher, router *Router, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		router:  router,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{Records: []models.UnifiedRecord{}})
	return s
}

// Snapshot returns the installed snapshot. Before the first refresh it is empty.
func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Refresh runs a full aggregation pass and installs it. Starting a refresh
// cancels any cancellable refresh still in flight; the cancelled one returns
// ErrRefreshSuperseded and installs nothing.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	return s.refresh(ctx, false)
}

// refresh with detached set cannot be cancelled by a newer refresh. It still
// yields to a newer snapshot that installs first, but if the newer refresh
// aborts, the detached result is installed.
func (s *Service) refresh(ctx context.Context, detached bool) (*Snapshot, error) {
	s.refreshMu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	gen := s.generation
	if !detached {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		s.cancel = cancel
		s.cancelGen = gen
		defer cancel()
	}
	s.refreshMu.Unlock()

	ctx, span := tracer.Start(ctx, "directory.refresh",
		trace.WithAttributes(attribute.Int64("directory.generation", int64(gen))),
	)
	defer span.End()

	start := time.Now()
	outcomes := s.fetcher.FetchAll(ctx)
	records, reports := AggregateReport(outcomes, s.logger)
	degraded := s.fetcher.Degraded()
	for i := range reports {
		reports[i].Degraded = degraded[reports[i].Origin]
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.cancelGen == gen {
		s.cancel = nil
	}
	if err := ctx.Err(); err != nil {
		if gen != s.generation {
			s.metrics.ObserveRefresh("superseded", time.Since(start))
			span.SetStatus(codes.Error, "superseded")
			return nil, ErrRefreshSuperseded
		}
		s.metrics.ObserveRefresh("aborted", time.Since(start))
		span.SetStatus(codes.Error, "aborted")
		return nil, err
	}
	if gen < s.snapshot.Load().Generation {
		s.metrics.ObserveRefresh("superseded", time.Since(start))
		span.SetStatus(codes.Error, "superseded")
		return nil, ErrRefreshSuperseded
	}

	snap := &Snapshot{
		Records:     records,
		Reports:     reports,
		RefreshedAt: time.Now(),
		Generation:  gen,
	}
	s.snapshot.Store(snap)

	for _, r := range reports {
		s.metrics.SetOriginRecords(string(r.Origin), r.Count)
		if r.Reason != "" {
			s.metrics.IncrementFetchFailure(string(r.Origin), r.Reason)
		}
	}
	elapsed := time.Since(start)
	s.metrics.ObserveRefresh("installed", elapsed)
	span.SetAttributes(attribute.Int("directory.records", len(records)))

	if s.logger != nil {
		s.logger.InfoContext(ctx, "directory refreshed",
			"records", len(records),
			"generation", gen,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return snap, nil
}

// ManualRefresh is an admin-requested refresh. It is audited.
func (s *Service) ManualRefresh(ctx context.Context, actor models.Actor) (*Snapshot, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		if errors.Is(err, ErrRefreshSuperseded) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "a newer refresh is in progress")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "refresh did not complete")
	}
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionRefreshed,
		Outcome:   audit.OutcomeApplied,
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
	})
	return snap, nil
}

// HandleInvalidation refreshes after another instance changed an origin.
func (s *Service) HandleInvalidation(ctx context.Context, reason string) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshSuperseded) {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "refresh after invalidation failed",
				"reason", reason,
				"error", err,
			)
		}
	}
}

// List filters and sorts the current snapshot.
func (s *Service) List(q Query, sort SortSpec) []models.UnifiedRecord {
	return Sort(Filter(s.Snapshot().Records, q), sort)
}

// Find looks a record up by its origin and ID.
func (s *Service) Find(key models.Key) (models.UnifiedRecord, bool) {
	records := s.Snapshot().Records
	i := slices.IndexFunc(records, func(r models.UnifiedRecord) bool {
		return r.Key() == key
	})
	if i < 0 {
		return models.UnifiedRecord{}, false
	}
	return records[i], true
}

// ApplyAction authorizes and performs one mutation, then rebuilds the
// directory from the origins. Denied actions never reach an origin.
func (s *Service) ApplyAction(ctx context.Context, actor models.Actor, kind ActionKind, key models.Key, payload map[string]any) error {
	if !kind.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown action")
	}
	target, ok := s.Find(key)
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "record not found in directory")
	}

	event := audit.Event{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Origin:    string(target.Origin),
		TargetID:  target.ID,
		Kind:      string(kind),
	}

	if err := Authorize(actor, target); err != nil {
		s.metrics.IncrementMutation(string(target.Origin), string(kind), string(audit.OutcomeDenied))
		event.Action = audit.ActionDenied
		event.Outcome = audit.OutcomeDenied
		event.Reason = dErrors.MessageOf(err)
		s.emitAudit(ctx, event)
		s.logAudit(ctx, "directory action denied", event)
		return err
	}

	if kind == ActionEdit {
		if err := validatePatch(payload); err != nil {
			return err
		}
	}

	s.mutateMu.Lock()
	err := s.router.Apply(ctx, Action{Kind: kind, Target: target, Payload: payload})
	s.mutateMu.Unlock()

	if err != nil {
		s.metrics.IncrementMutation(string(target.Origin), string(kind), string(audit.OutcomeFailed))
		event.Action = audit.ActionFailed
		event.Outcome = audit.OutcomeFailed
		event.Reason = mutationMessage(err)
		s.emitAudit(ctx, event)
		if s.logger != nil {
			s.logger.WarnContext(ctx, "directory mutation failed",
				"origin", target.Origin,
				"kind", kind,
				"target_id", target.ID,
				"retryable", origins.IsRetryable(err),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		if errors.Is(err, sentinel.ErrNotConfigured) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, event.Reason)
		}
		return dErrors.Wrap(err, dErrors.CodeUpstream, event.Reason)
	}

	s.metrics.IncrementMutation(string(target.Origin), string(kind), string(audit.OutcomeApplied))
	event.Action = appliedAction(kind)
	event.Outcome = audit.OutcomeApplied
	s.emitAudit(ctx, event)
	s.logAudit(ctx, "directory action applied", event)

	// The mutation is committed at the origin; the refresh must outlive both
	// the caller's request and any newer refresh that later aborts.
	refreshCtx := context.WithoutCancel(ctx)
	if _, err := s.refresh(refreshCtx, true); err != nil && !errors.Is(err, ErrRefreshSuperseded) {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "refresh after mutation failed", "error", err)
		}
	}
	if s.invalidator != nil {
		if err := s.invalidator.Publish(refreshCtx, key.String()); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "directory invalidation not published", "error", err)
		}
	}
	return nil
}

func validatePatch(payload map[string]any) error {
	if len(payload) == 0 {
		return dErrors.New(dErrors.CodeValidation, "edit payload is required")
	}
	for _, k := range protectedPatchKeys {
		if _, ok := payload[k]; ok {
			return dErrors.New(dErrors.CodeValidation, "field "+k+" cannot be edited")
		}
	}
	return nil
}

func mutationMessage(err error) string {
	var me *MutationError
	if errors.As(err, &me) {
		return me.Message
	}
	return err.Error()
}

func appliedAction(kind ActionKind) audit.Action {
	switch kind {
	case ActionDelete:
		return audit.ActionRecordDeleted
	case ActionToggleStatus:
		return audit.ActionStatusToggled
	default:
		return audit.ActionRecordUpdated
	}
}

// emitAudit is best effort. A failed audit write never changes the result.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}

func (s *Service) logAudit(ctx context.Context, msg string, event audit.Event) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg,
		"log_type", "audit",
		"action", event.Action,
		"actor_id", event.ActorID,
		"actor_role", event.ActorRole,
		"origin", event.Origin,
		"target_id", event.TargetID,
		"kind", event.Kind,
		"reason", event.Reason,
		"request_id", requestcontext.RequestID(ctx),
	)
}
