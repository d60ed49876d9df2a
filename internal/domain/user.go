package domain

import "time"

// Role is the stored platform role of an identity.
type Role string

const (
	RoleSuperuser Role = "SUPERUSER"
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
)

// UserStatus represents lifecycle states for an identity.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the authenticated identity behind every operation.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
