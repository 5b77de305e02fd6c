package ports

//go:generate mockgen -source=origins.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"advohub/internal/origins"
)

// Origin is the contract every source adapter fulfils.
type Origin interface {
	List(ctx context.Context, params origins.ListParams) (*origins.ListResponse, error)
	Update(ctx context.Context, id string, patch map[string]any) (*origins.MutationResponse, error)
	Delete(ctx context.Context, id string) (*origins.MutationResponse, error)
}

// AdminOrigin adds the dedicated status toggle only the admin backend exposes.
type AdminOrigin interface {
	List(ctx context.Context, params origins.ListParams) (*origins.ListResponse, error)
	Update(ctx context.Context, id string, patch map[string]any) (*origins.MutationResponse, error)
	Delete(ctx context.Context, id string) (*origins.MutationResponse, error)
	ToggleStatus(ctx context.Context, id string) (*origins.MutationResponse, error)
}

// Sources bundles the four origin adapters.
type Sources struct {
	Admin     AdminOrigin
	Community Origin
	Volunteer Origin
	Contact   Origin
}
