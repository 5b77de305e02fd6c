package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"advohub/internal/audit"
	"advohub/internal/directory"
	"advohub/internal/directory/models"
	dErrors "advohub/pkg/domain-errors"
	"advohub/pkg/platform/httputil"
	"advohub/pkg/requestcontext"
)

// Service defines the directory operations the handler needs.
type Service interface {
	Snapshot() *directory.Snapshot
	List(q directory.Query, sort directory.SortSpec) []models.UnifiedRecord
	Find(key models.Key) (models.UnifiedRecord, bool)
	ManualRefresh(ctx context.Context, actor models.Actor) (*directory.Snapshot, error)
	ApplyAction(ctx context.Context, actor models.Actor, kind directory.ActionKind, key models.Key, payload map[string]any) error
}

// AuditReader lists recent audit events.
type AuditReader interface {
	ListRecent(ctx context.Context, q audit.Query) ([]audit.Event, error)
}

// Handler wires the admin directory endpoints to the directory service.
type Handler struct {
	service Service
	audit   AuditReader
	logger  *slog.Logger
}

func New(service Service, auditReader AuditReader, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		audit:   auditReader,
		logger:  logger,
	}
}

// Register mounts the directory endpoints. The caller is expected to have
// applied authentication middleware to r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/directory", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/stats", h.HandleStats)
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/audit", h.HandleAudit)
		r.Put("/{origin}/{id}", h.HandleEdit)
		r.Delete("/{origin}/{id}", h.HandleDelete)
		r.Post("/{origin}/{id}/toggle-status", h.HandleToggleStatus)
	})
}

// HandleList handles GET /admin/directory.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	req, err := ParseListRequest(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap := h.service.Snapshot()
	records := h.service.List(req.Query(), req.SortSpec())
	page := directory.Paginate(records, req.Page, req.Limit)

	h.logger.DebugContext(ctx, "directory listed",
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", actor.ID,
		"matched", len(records),
	)
	httputil.WriteJSON(w, http.StatusOK, toListResponse(page, actor, snap))
}

// HandleStats handles GET /admin/directory/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireActor(w, r); !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStatsResponse(h.service.Snapshot()))
}

// HandleRefresh handles POST /admin/directory/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	start := time.Now()
	snap, err := h.service.ManualRefresh(ctx, actor)
	if err != nil {
		h.logger.WarnContext(ctx, "manual refresh failed",
			"request_id", requestcontext.RequestID(ctx),
			"actor_id", actor.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "manual refresh completed",
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", actor.ID,
		"records", len(snap.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toStatsResponse(snap))
}

// HandleAudit handles GET /admin/directory/audit.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.requireActor(w, r); !ok {
		return
	}
	if h.audit == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit trail is not configured"))
		return
	}

	req, err := ParseAuditRequest(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.audit.ListRecent(ctx, req.Query())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

// HandleEdit handles PUT /admin/directory/{origin}/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EditRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.mutate(w, r, actor, directory.ActionEdit, req.Changes, "record updated")
}

// HandleDelete handles DELETE /admin/directory/{origin}/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if actor, ok := h.requireActor(w, r); ok {
		h.mutate(w, r, actor, directory.ActionDelete, nil, "record deleted")
	}
}

// HandleToggleStatus handles POST /admin/directory/{origin}/{id}/toggle-status.
func (h *Handler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	if actor, ok := h.requireActor(w, r); ok {
		h.mutate(w, r, actor, directory.ActionToggleStatus, nil, "status updated")
	}
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, actor models.Actor, kind directory.ActionKind, payload map[string]any, message string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, err := parseKey(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.ApplyAction(ctx, actor, kind, key, payload); err != nil {
		h.logger.WarnContext(ctx, "directory action rejected",
			"request_id", requestID,
			"actor_id", actor.ID,
			"origin", key.Origin,
			"target_id", key.ID,
			"kind", kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := MutationResponse{Success: true, Message: message}
	if rec, found := h.service.Find(key); found {
		resp.Record = &rec
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	id, role := requestcontext.Actor(r.Context())
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return models.Actor{}, false
	}
	return models.Actor{ID: id, Role: models.Role(role)}, true
}

func parseKey(r *http.Request) (models.Key, error) {
	origin, err := models.ParseOrigin(chi.URLParam(r, "origin"))
	if err != nil {
		return models.Key{}, dErrors.New(dErrors.CodeBadRequest, err.Error())
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		return models.Key{}, dErrors.New(dErrors.CodeBadRequest, "record id is required")
	}
	return models.Key{Origin: origin, ID: id}, nil
}
