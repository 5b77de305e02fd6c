package directory

import (
	"slices"
	"strings"

	"advohub/internal/directory/models"
)

// filterAll is the value that disables the role and status predicates.
const filterAll = "all"

// Query is the admin's current search and filter selection.
type Query struct {
	Search string
	Role   string
	Status string
}

// Filter returns the records matching every predicate in q, in input order.
func Filter(records []models.UnifiedRecord, q Query) []models.UnifiedRecord {
	search := strings.ToLower(q.Search)
	out := make([]models.UnifiedRecord, 0, len(records))
	for _, r := range records {
		if !matchesSearch(r, search) {
			continue
		}
		if !bypass(q.Role) && string(r.Role) != q.Role {
			continue
		}
		if !bypass(q.Status) && !strings.EqualFold(r.Status, q.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r models.UnifiedRecord, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), search) ||
		strings.Contains(strings.ToLower(r.Email), search) ||
		strings.Contains(strings.ToLower(r.Mobile), search)
}

func bypass(v string) bool {
	return v == "" || v == filterAll
}

// SortField names a sortable column.
type SortField string

const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "createdAt"
	SortByRole      SortField = "role"
	SortByStatus    SortField = "status"
	SortByOrigin    SortField = "origin"
)

// ParseSortField reports whether s names a sortable column.
func ParseSortField(s string) (SortField, bool) {
	switch f := SortField(s); f {
	case SortByName, SortByEmail, SortByCreatedAt, SortByRole, SortByStatus, SortByOrigin:
		return f, true
	}
	return "", false
}

type SortSpec struct {
	Field SortField
	Desc  bool
}

// Sort returns a stably sorted copy. An empty field returns the input order.
// Origin sorts by origin priority, not alphabetically.
func Sort(records []models.UnifiedRecord, spec SortSpec) []models.UnifiedRecord {
	out := slices.Clone(records)
	if spec.Field == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.UnifiedRecord) int {
		c := compareBy(spec.Field, a, b)
		if spec.Desc {
			return -c
		}
		return c
	})
	return out
}

func compareBy(field SortField, a, b models.UnifiedRecord) int {
	switch field {
	case SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortByEmail:
		return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case SortByCreatedAt:
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	case SortByRole:
		return strings.Compare(string(a.Role), string(b.Role))
	case SortByStatus:
		return strings.Compare(strings.ToLower(a.Status), strings.ToLower(b.Status))
	case SortByOrigin:
		return originRank(a.Origin) - originRank(b.Origin)
	}
	return 0
}

func originRank(o models.Origin) int {
	if i := slices.Index(models.OriginOrder, o); i >= 0 {
		return i
	}
	return len(models.OriginOrder)
}

// Page is one window of a record list.
type Page struct {
	Records    []models.UnifiedRecord `json:"records"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"totalPages"`
}

// Paginate returns the 1-based page of records. A limit of zero or less
// returns everything on one page.
func Paginate(records []models.UnifiedRecord, page, limit int) Page {
	total := len(records)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return Page{Records: slices.Clone(records), Page: 1, Limit: total, Total: total, TotalPages: 1}
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return Page{Records: []models.UnifiedRecord{}, Page: page, Limit: limit, Total: total, TotalPages: totalPages}
	}
	end := min(start+limit, total)
	return Page{
		Records:    slices.Clone(records[start:end]),
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Stats are directory totals by origin, role and status.
type Stats struct {
	Total    int                   `json:"total"`
	ByOrigin map[models.Origin]int `json:"byOrigin"`
	ByRole   map[models.Role]int   `json:"byRole"`
	ByStatus map[string]int        `json:"byStatus"`
}

func Summarize(records []models.UnifiedRecord) Stats {
	stats := Stats{
		Total:    len(records),
		ByOrigin: make(map[models.Origin]int),
		ByRole:   make(map[models.Role]int),
		ByStatus: make(map[string]int),
	}
	for _, o := range models.OriginOrder {
		stats.ByOrigin[o] = 0
	}
	for _, r := range records {
		stats.ByOrigin[r.Origin]++
		stats.ByRole[r.Role]++
		stats.ByStatus[r.Status]++
	}
	return stats
}
