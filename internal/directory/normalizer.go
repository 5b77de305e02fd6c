package directory

import (
	"strings"

	"advohub/internal/directory/models"
)

const unknownName = "Unknown"

// Normalize maps one origin's native records to unified records, 1:1 and in
// input order. Missing optional fields get their documented defaults.
func Normalize(records []models.NativeRecord, origin models.Origin) []models.UnifiedRecord {
	out := make([]models.UnifiedRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, normalizeOne(rec, origin))
	}
	return out
}

func normalizeOne(rec models.NativeRecord, origin models.Origin) models.UnifiedRecord {
	u := models.UnifiedRecord{
		ID:         rec.Identifier(),
		Name:       orDefault(rec.Name, unknownName),
		Email:      rec.Email,
		Mobile:     rec.ContactNumber(),
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
		Origin:     origin,
		ProfilePic: rec.ProfilePic,
		Notes:      rec.Notes,
	}

	switch origin {
	case models.OriginAdmin:
		u.Role = adminRole(rec.Role)
		u.Status = adminStatus(rec)
	case models.OriginCommunity:
		u.Role = models.RoleCommunityMember
	case models.OriginVolunteer:
		u.Role = models.RoleVolunteer
		u.Name = volunteerName(rec)
	case models.OriginContact:
		u.Role = models.RoleContact
	}
	return u
}

// volunteerName falls back fullName, then "first last", then Unknown.
func volunteerName(rec models.NativeRecord) string {
	if name := strings.TrimSpace(rec.FullName); name != "" {
		return rec.FullName
	}
	if joined := strings.TrimSpace(rec.FirstName + " " + rec.LastName); joined != "" {
		return joined
	}
	return unknownName
}

func adminRole(stored string) models.Role {
	switch strings.ToLower(strings.TrimSpace(stored)) {
	case "admin":
		return models.RoleAdmin
	default:
		// subadmin, sub-admin, sub_admin and anything unrecognised
		return models.RoleSubAdmin
	}
}

func adminStatus(rec models.NativeRecord) string {
	if rec.IsActive != nil {
		if *rec.IsActive {
			return models.AdminStatusActive
		}
		return models.AdminStatusInactive
	}
	return orDefault(rec.Status, models.AdminStatusInactive)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
