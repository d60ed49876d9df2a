package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// StaffRepository handles staff profiles and role grants.
type StaffRepository interface {
	GetProfileByID(ctx context.Context, id string) (*domain.StaffProfile, error)
	GetActiveProfileByUser(ctx context.Context, userID string) (*domain.StaffProfile, error)
	ListActiveProfilesByDepartment(ctx context.Context, departmentID string) ([]domain.StaffProfile, error)
	ListActiveGrantsByUser(ctx context.Context, userID string, at time.Time) ([]domain.RoleGrant, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) GetProfileByID(ctx context.Context, id string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, user_id, name, department_id, status, created_at, updated_at
        FROM staff_profiles WHERE id=$1`
	return r.fetchProfile(ctx, query, id)
}

func (r *staffRepository) GetActiveProfileByUser(ctx context.Context, userID string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, user_id, name, department_id, status, created_at, updated_at
        FROM staff_profiles WHERE user_id=$1 AND status='ACTIVE'
        ORDER BY created_at ASC LIMIT 1`
	return r.fetchProfile(ctx, query, userID)
}

func (r *staffRepository) fetchProfile(ctx context.Context, query string, arg any) (*domain.StaffProfile, error) {
	var profile domain.StaffProfile
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.DepartmentID,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *staffRepository) ListActiveProfilesByDepartment(ctx context.Context, departmentID string) ([]domain.StaffProfile, error) {
	const query = `
        SELECT id, user_id, name, department_id, status, created_at, updated_at
        FROM staff_profiles WHERE department_id=$1 AND status='ACTIVE'
        ORDER BY created_at ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffProfile
	for rows.Next() {
		var profile domain.StaffProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.Name,
			&profile.DepartmentID,
			&profile.Status,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}

func (r *staffRepository) ListActiveGrantsByUser(ctx context.Context, userID string, at time.Time) ([]domain.RoleGrant, error) {
	const query = `
        SELECT id, user_id, role_name, permissions, effective_from, effective_to, created_at
        FROM staff_role_grants
        WHERE user_id=$1 AND effective_from <= $2 AND (effective_to IS NULL OR effective_to >= $2)`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, userID, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleGrant
	for rows.Next() {
		var grant domain.RoleGrant
		if err := rows.Scan(
			&grant.ID,
			&grant.UserID,
			&grant.RoleName,
			&grant.Permissions,
			&grant.EffectiveFrom,
			&grant.EffectiveTo,
			&grant.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, grant)
	}
	return result, rows.Err()
}
