package models

import (
	"fmt"
	"strings"
)

// Origin identifies which backend owns a record. It is the only thing the
// mutation router dispatches on.
type Origin string

const (
	OriginAdmin     Origin = "admin"
	OriginCommunity Origin = "community"
	OriginVolunteer Origin = "volunteer"
	OriginContact   Origin = "contact"
)

// OriginOrder is the cross-origin ordering of the directory.
var OriginOrder = []Origin{OriginAdmin, OriginCommunity, OriginVolunteer, OriginContact}

func (o Origin) String() string { return string(o) }

func (o Origin) IsValid() bool {
	switch o {
	case OriginAdmin, OriginCommunity, OriginVolunteer, OriginContact:
		return true
	}
	return false
}

// ParseOrigin accepts the origin tag case-insensitively.
func ParseOrigin(s string) (Origin, error) {
	o := Origin(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("unknown origin %q", s)
	}
	return o, nil
}

// Role is the unified role label shown in the directory.
type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleSubAdmin        Role = "SubAdmin"
	RoleCommunityMember Role = "CommunityMember"
	RoleVolunteer       Role = "Volunteer"
	RoleContact         Role = "Contact"

	// RoleMember is the label the sub-admin allow-list checks. No origin
	// produces it; community records are labelled RoleCommunityMember.
	RoleMember Role = "Member"
)

func (r Role) String() string { return string(r) }

// Native status vocabularies. They are deliberately not unified across origins.
const (
	AdminStatusActive   = "Active"
	AdminStatusInactive = "Inactive"

	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
	ApplicationStatusArchived = "archived"

	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// Key is the identity of a record in the directory. IDs are only unique within
// an origin.
type Key struct {
	Origin Origin
	ID     string
}

func (k Key) String() string { return string(k.Origin) + "/" + k.ID }

// UnifiedRecord is the normalized projection of a person-like record from any
// origin. It is rebuilt on every aggregation pass and never mutated in place.
type UnifiedRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Role       Role   `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	Origin     Origin `json:"origin"`
	ProfilePic string `json:"profilePic,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (r UnifiedRecord) Key() Key {
	return Key{Origin: r.Origin, ID: r.ID}
}

// Actor is the authenticated admin performing an action.
type Actor struct {
	ID   string
	Role Role
}
