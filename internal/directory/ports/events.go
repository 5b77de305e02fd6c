package ports

import (
	"context"

	"advohub/internal/audit"
)

// AuditPublisher records mutation attempts.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Invalidator tells other instances their snapshot is stale.
type Invalidator interface {
	Publish(ctx context.Context, reason string) error
}
