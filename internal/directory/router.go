package directory

import (
	"context"
	"fmt"

	"advohub/internal/directory/models"
	"advohub/internal/directory/ports"
	"advohub/internal/origins"
	"advohub/pkg/platform/sentinel"
)

// ActionKind is the mutation an admin requested.
type ActionKind string

const (
	ActionEdit         ActionKind = "edit"
	ActionDelete       ActionKind = "delete"
	ActionToggleStatus ActionKind = "toggle_status"
)

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionEdit, ActionDelete, ActionToggleStatus:
		return true
	}
	return false
}

// Action is one mutation against one record. Payload is only used by edits.
type Action struct {
	Kind    ActionKind
	Target  models.UnifiedRecord
	Payload map[string]any
}

// ErrOriginNotConfigured is returned when the target's origin has no adapter.
var ErrOriginNotConfigured = fmt.Errorf("origin %w", sentinel.ErrNotConfigured)

// MutationError is a mutation the owning origin did not apply. Message is what
// the origin reported and is safe to show the admin.
type MutationError struct {
	Origin   models.Origin
	Kind     ActionKind
	TargetID string
	Message  string
	Err      error
}

func (e *MutationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s/%s: %s: %v", e.Kind, e.Origin, e.TargetID, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %s", e.Kind, e.Origin, e.TargetID, e.Message)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Router sends each action to the origin that owns the target record.
type Router struct {
	sources ports.Sources
}

func NewRouter(sources ports.Sources) *Router {
	return &Router{sources: sources}
}

// Apply performs exactly one remote call. It does not retry and does not
// touch any cached state.
func (r *Router) Apply(ctx context.Context, action Action) error {
	if !action.Kind.IsValid() {
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}

	var (
		resp *origins.MutationResponse
		err  error
	)
	id := action.Target.ID

	switch action.Target.Origin {
	case models.OriginAdmin:
		if r.sources.Admin == nil {
			return r.notConfigured(action)
		}
		switch action.Kind {
		case ActionToggleStatus:
			resp, err = r.sources.Admin.ToggleStatus(ctx, id)
		default:
			resp, err = applyGeneric(ctx, r.sources.Admin, action)
		}
	case models.OriginCommunity:
		if r.sources.Community == nil {
			return r.notConfigured(action)
		}
		resp, err = applyGeneric(ctx, r.sources.Community, action)
	case models.OriginVolunteer:
		if r.sources.Volunteer == nil {
			return r.notConfigured(action)
		}
		resp, err = applyGeneric(ctx, r.sources.Volunteer, action)
	case models.OriginContact:
		if r.sources.Contact == nil {
			return r.notConfigured(action)
		}
		resp, err = applyGeneric(ctx, r.sources.Contact, action)
	default:
		return fmt.Errorf("unknown origin %q", action.Target.Origin)
	}

	if err != nil {
		return &MutationError{
			Origin:   action.Target.Origin,
			Kind:     action.Kind,
			TargetID: id,
			Message:  origins.MessageOf(err),
			Err:      err,
		}
	}
	if resp == nil || !resp.Success {
		msg := "origin rejected the change"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return &MutationError{Origin: action.Target.Origin, Kind: action.Kind, TargetID: id, Message: msg}
	}
	return nil
}

// applyGeneric handles edit and delete for every origin, and toggle for the
// origins that express it as a status update.
func applyGeneric(ctx context.Context, o ports.Origin, action Action) (*origins.MutationResponse, error) {
	id := action.Target.ID
	switch action.Kind {
	case ActionEdit:
		return o.Update(ctx, id, action.Payload)
	case ActionDelete:
		return o.Delete(ctx, id)
	default:
		return o.Update(ctx, id, map[string]any{"status": NextStatus(action.Target)})
	}
}

func (r *Router) notConfigured(action Action) error {
	return &MutationError{
		Origin:   action.Target.Origin,
		Kind:     action.Kind,
		TargetID: action.Target.ID,
		Message:  fmt.Sprintf("%s origin is not configured", action.Target.Origin),
		Err:      ErrOriginNotConfigured,
	}
}

// statusActive is what the community and volunteer toggle compares against.
// Neither origin ever stores it, so their toggle always resolves to approved.
const statusActive = "active"

// NextStatus is the status a toggle writes for non-admin origins. Admin
// toggles are delegated to the admin backend and return "".
func NextStatus(target models.UnifiedRecord) string {
	switch target.Origin {
	case models.OriginCommunity, models.OriginVolunteer:
		if target.Status == statusActive {
			return models.ApplicationStatusArchived
		}
		return models.ApplicationStatusApproved
	case models.OriginContact:
		if target.Status == models.ContactStatusNew {
			return models.ContactStatusRead
		}
		return models.ContactStatusArchived
	default:
		return ""
	}
}
