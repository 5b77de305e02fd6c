package testutil

import (
	"net/http"

	"advohub/pkg/requestcontext"
)

// WithActor adds an authenticated admin to the request context, as the auth
// middleware would after validating a token.
func WithActor(req *http.Request, adminID, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), adminID, role))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
