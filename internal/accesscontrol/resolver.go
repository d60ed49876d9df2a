package accesscontrol

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// UserSource resolves identities.
type UserSource interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// StaffSource resolves staff profiles and permission grants.
type StaffSource interface {
	GetActiveProfileByUser(ctx context.Context, userID string) (*domain.StaffProfile, error)
	ListActiveGrantsByUser(ctx context.Context, userID string, at time.Time) ([]domain.RoleGrant, error)
}

// DepartmentSource resolves department records.
type DepartmentSource interface {
	GetByID(ctx context.Context, id string) (*domain.Department, error)
}

// Resolver builds ActorContexts from authenticated identities.
type Resolver struct {
	users       UserSource
	staff       StaffSource
	departments DepartmentSource
	now         func() time.Time
}

// NewResolver constructs a resolver.
func NewResolver(users UserSource, staff StaffSource, departments DepartmentSource) *Resolver {
	return &Resolver{users: users, staff: staff, departments: departments, now: time.Now}
}

// WithClock overrides the resolver's notion of now. Test hook.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve maps a user id to its effective permission set and staff linkage.
// An unknown identity yields an empty context rather than an error; the
// caller turns the missing permissions into an authorization failure.
func (r *Resolver) Resolve(ctx context.Context, userID string) (ActorContext, error) {
	actor := ActorContext{UserID: userID, Permissions: permissionSet()}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return actor, nil
		}
		return actor, err
	}
	if user.Status != domain.UserStatusActive {
		return actor, nil
	}
	actor.Role = user.Role

	switch user.Role {
	case domain.RoleSuperuser:
		actor.Permissions = permissionSet(PermissionWildcard)
	case domain.RoleAdmin:
		keys := make([]string, 0, len(definitions))
		for _, key := range AllKeys() {
			if IsRestrictedSystemPermission(key) {
				continue
			}
			keys = append(keys, key)
		}
		actor.Permissions = permissionSet(keys...)
	default:
		grants, err := r.staff.ListActiveGrantsByUser(ctx, userID, r.now())
		if err != nil {
			return actor, err
		}
		keys := []string{PermInquiriesCreate, PermInquiriesView}
		for _, grant := range grants {
			keys = append(keys, grant.Permissions...)
		}
		actor.Permissions = permissionSet(keys...)
	}

	profile, err := r.staff.GetActiveProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return actor, nil
		}
		return actor, err
	}
	actor.StaffProfileID = &profile.ID
	actor.DepartmentID = &profile.DepartmentID

	dept, err := r.departments.GetByID(ctx, profile.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return actor, nil
		}
		return actor, err
	}
	actor.DepartmentViewAll = dept.CanViewAllDepartments
	return actor, nil
}
