// Package origins holds the source adapters for the four backends the
// directory aggregates. Adapters speak each backend's JSON envelope and return
// native payloads; they never normalize.
package origins

import "encoding/json"

// Backend names, matching the directory's origin tags.
const (
	NameAdmin     = "admin"
	NameCommunity = "community"
	NameVolunteer = "volunteer"
	NameContact   = "contact"
)

// Collection paths relative to each origin's base URL.
const (
	PathAdmins           = "/admins"
	PathCommunityMembers = "/community-members"
	PathVolunteers       = "/volunteers"
	PathContacts         = "/contacts"
)

// ListParams are forwarded as query parameters on list calls. Filtering
// happens on the aggregated snapshot, never at the origin.
type ListParams struct {
	Page  int
	Limit int
}

// Pagination is echoed by origins that page their lists.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResponse is the list envelope. Data is left raw because its shape differs
// per origin: a bare array for most, an object wrapping the array for admins.
type ListResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// MutationResponse is the envelope for update, delete and toggle calls.
type MutationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
