package handler

import (
	"time"

	"advohub/internal/audit"
	"advohub/internal/directory"
	"advohub/internal/directory/models"
)

// RecordResponse is a directory row plus whether the caller may act on it.
type RecordResponse struct {
	models.UnifiedRecord
	CanModify bool `json:"can_modify"`
}

// ListResponse is the HTTP response for GET /admin/directory.
type ListResponse struct {
	Records     []RecordResponse `json:"records"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"total_pages"`
	Stats       directory.Stats  `json:"stats"`
	RefreshedAt *time.Time       `json:"refreshed_at,omitempty"`
}

// StatsResponse is the HTTP response for GET /admin/directory/stats and
// POST /admin/directory/refresh.
type StatsResponse struct {
	Stats       directory.Stats          `json:"stats"`
	Origins     []directory.OriginReport `json:"origins"`
	RefreshedAt *time.Time               `json:"refreshed_at,omitempty"`
}

// MutationResponse is the HTTP response for edit, delete and toggle.
type MutationResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Record  *models.UnifiedRecord `json:"record,omitempty"`
}

type AuditResponse struct {
	Events []audit.Event `json:"events"`
}

func toListResponse(page directory.Page, actor models.Actor, snap *directory.Snapshot) *ListResponse {
	records := make([]RecordResponse, len(page.Records))
	for i, r := range page.Records {
		records[i] = RecordResponse{UnifiedRecord: r, CanModify: directory.CanModify(actor, r)}
	}
	return &ListResponse{
		Records:     records,
		Page:        page.Page,
		Limit:       page.Limit,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		Stats:       directory.Summarize(snap.Records),
		RefreshedAt: refreshedAt(snap),
	}
}

func toStatsResponse(snap *directory.Snapshot) *StatsResponse {
	origins := snap.Reports
	if origins == nil {
		origins = []directory.OriginReport{}
	}
	return &StatsResponse{
		Stats:       directory.Summarize(snap.Records),
		Origins:     origins,
		RefreshedAt: refreshedAt(snap),
	}
}

func refreshedAt(snap *directory.Snapshot) *time.Time {
	if snap.RefreshedAt.IsZero() {
		return nil
	}
	t := snap.RefreshedAt
	return &t
}
