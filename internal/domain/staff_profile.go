package domain

import "time"

// StaffProfileStatus is the workflow status of a staff profile. Only ACTIVE
// profiles count for scope resolution and assignment.
type StaffProfileStatus string

const (
	StaffProfileActive     StaffProfileStatus = "ACTIVE"
	StaffProfileSuspended  StaffProfileStatus = "SUSPENDED"
	StaffProfileOffboarded StaffProfileStatus = "OFFBOARDED"
)

// StaffProfile links an identity to a department. An identity holds at most
// one active profile at a time.
type StaffProfile struct {
	ID           string
	UserID       string
	Name         string
	DepartmentID string
	Status       StaffProfileStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleGrant attaches a named bundle of permission keys to an identity for a
// time window. A grant is active when EffectiveFrom <= now and EffectiveTo is
// unset or in the future.
type RoleGrant struct {
	ID            string
	UserID        string
	RoleName      string
	Permissions   []string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
}

// ActiveAt reports whether the grant applies at the given instant.
func (g RoleGrant) ActiveAt(at time.Time) bool {
	if g.EffectiveFrom.After(at) {
		return false
	}
	return g.EffectiveTo == nil || !g.EffectiveTo.Before(at)
}
