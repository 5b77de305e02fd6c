package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Origin adapters, stores and the
// invalidation bus return these (optionally wrapped) so services can translate
// them into domain errors:
//   - ErrNotFound: the record or entry does not exist
//   - ErrUnavailable: a dependency cannot be reached right now
//   - ErrMalformed: a dependency answered with a payload we cannot read
//   - ErrNotConfigured: an optional dependency was not wired
var (
	ErrNotFound      = errors.New("not found")
	ErrUnavailable   = errors.New("unavailable")
	ErrMalformed     = errors.New("malformed response")
	ErrNotConfigured = errors.New("not configured")
)
