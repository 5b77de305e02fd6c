package audit

import "time"

// Action names a directory audit event.
type Action string

const (
	ActionRecordUpdated Action = "directory_record_updated"
	ActionRecordDeleted Action = "directory_record_deleted"
	ActionStatusToggled Action = "directory_status_toggled"
	ActionDenied        Action = "directory_action_denied"
	ActionFailed        Action = "directory_action_failed"
	ActionRefreshed     Action = "directory_refreshed"
)

// Outcome is what happened to the attempted action.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
	OutcomeDenied  Outcome = "denied"
)

// Event is emitted from the directory service for every mutation attempt.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Outcome   Outcome   `json:"outcome"`
	ActorID   string    `json:"actorId"`
	ActorRole string    `json:"actorRole"`
	Origin    string    `json:"origin,omitempty"`
	TargetID  string    `json:"targetId,omitempty"`
	// Kind is the requested mutation (edit, delete, toggle_status).
	Kind      string `json:"kind,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Query selects recent events. Empty Actions matches every action.
type Query struct {
	Limit   int
	Actions []Action
}

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// Normalized clamps the limit into its allowed range.
func (q Query) Normalized() Query {
	switch {
	case q.Limit <= 0:
		q.Limit = defaultQueryLimit
	case q.Limit > maxQueryLimit:
		q.Limit = maxQueryLimit
	}
	return q
}

func (q Query) matches(e Event) bool {
	if len(q.Actions) == 0 {
		return true
	}
	for _, a := range q.Actions {
		if a == e.Action {
			return true
		}
	}
	return false
}
