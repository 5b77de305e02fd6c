package directory

import (
	"advohub/internal/directory/models"
	dErrors "advohub/pkg/domain-errors"
)

// subAdminModifiable is the set of target roles a SubAdmin may act on.
// RoleMember matches no record the normalizer produces today.
var subAdminModifiable = map[models.Role]bool{
	models.RoleVolunteer: true,
	models.RoleMember:    true,
}

// CanModify reports whether actor may edit, delete or toggle target.
// Self-modification is always denied, whatever the actor's role.
func CanModify(actor models.Actor, target models.UnifiedRecord) bool {
	if target.Origin == models.OriginAdmin && target.ID == actor.ID {
		return false
	}

	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleSubAdmin:
		if target.Origin == models.OriginAdmin {
			return false
		}
		return subAdminModifiable[target.Role]
	default:
		return false
	}
}

// Authorize is CanModify as a domain error.
func Authorize(actor models.Actor, target models.UnifiedRecord) error {
	if CanModify(actor, target) {
		return nil
	}
	if target.Origin == models.OriginAdmin && target.ID == actor.ID {
		return dErrors.New(dErrors.CodeForbidden, "cannot modify your own account")
	}
	return dErrors.New(dErrors.CodeForbidden, "not permitted to modify this record")
}
