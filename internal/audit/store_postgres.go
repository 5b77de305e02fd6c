package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS directory_audit_events (
	id          UUID PRIMARY KEY,
	timestamp   TIMESTAMPTZ NOT NULL,
	action      TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	actor_id    TEXT NOT NULL,
	actor_role  TEXT NOT NULL,
	origin      TEXT NOT NULL DEFAULT '',
	target_id   TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS directory_audit_events_timestamp_idx
	ON directory_audit_events (timestamp DESC);
`

// PostgresStore persists audit events in directory_audit_events.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append is idempotent on event ID.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO directory_audit_events (
			id, timestamp, action, outcome, actor_id, actor_role,
			origin, target_id, kind, reason, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		string(event.Outcome),
		event.ActorID,
		event.ActorRole,
		event.Origin,
		event.TargetID,
		event.Kind,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns matching events, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, q Query) ([]Event, error) {
	q = q.Normalized()
	query := `
		SELECT id, timestamp, action, outcome, actor_id, actor_role,
			   origin, target_id, kind, reason, request_id
		FROM directory_audit_events
		WHERE cardinality($1::text[]) = 0 OR action = ANY($1::text[])
		ORDER BY timestamp DESC
		LIMIT $2
	`
	actions := make([]string, len(q.Actions))
	for i, a := range q.Actions {
		actions[i] = string(a)
	}

	rows, err := s.db.QueryContext(ctx, query, pq.Array(actions), q.Limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e               Event
			action, outcome string
		)
		if err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&action,
			&outcome,
			&e.ActorID,
			&e.ActorRole,
			&e.Origin,
			&e.TargetID,
			&e.Kind,
			&e.Reason,
			&e.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
