// Package bootstrap builds the origin adapters shared by the server and the
// operator CLI.
package bootstrap

import (
	"log/slog"
	"net/http"

	"advohub/internal/directory/ports"
	"advohub/internal/origins"
	"advohub/internal/platform/config"
)

// Sources returns the configured origin adapters. Demo mode wires seeded
// in-memory origins instead of HTTP clients. An origin without a URL is left
// nil and reported as not configured.
func Sources(cfg config.OriginsConfig, logger *slog.Logger) ports.Sources {
	if cfg.Demo {
		demo := origins.NewDemoSet()
		return ports.Sources{
			Admin:     demo.Admin,
			Community: demo.Community,
			Volunteer: demo.Volunteer,
			Contact:   demo.Contact,
		}
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	opts := []origins.Option{
		origins.WithHTTPClient(hc),
		origins.WithToken(cfg.APIToken),
		origins.WithFailureThreshold(cfg.FailureThreshold),
		origins.WithLogger(logger),
	}

	var sources ports.Sources
	if cfg.AdminURL != "" {
		sources.Admin = origins.NewAdminClient(cfg.AdminURL, opts...)
	}
	if cfg.CommunityURL != "" {
		sources.Community = origins.NewCommunityClient(cfg.CommunityURL, opts...)
	}
	if cfg.VolunteerURL != "" {
		sources.Volunteer = origins.NewVolunteerClient(cfg.VolunteerURL, opts...)
	}
	if cfg.ContactURL != "" {
		sources.Contact = origins.NewContactClient(cfg.ContactURL, opts...)
	}
	return sources
}
