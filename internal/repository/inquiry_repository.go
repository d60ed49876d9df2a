package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// InquiryFilter captures listing parameters. When DepartmentID is set and
// IncludeEscalatedFrom is true, inquiries the department escalated away
// remain visible through their audit trail.
type InquiryFilter struct {
	CreatedByUserID      *string
	AssignedToStaffID    *string
	DepartmentID         *string
	IncludeEscalatedFrom bool
	Statuses             []domain.InquiryStatus
	Types                []domain.InquiryType
	Priorities           []domain.InquiryPriority
	SubjectQuery         *string
	Limit                int
	Offset               int
}

// StaffPerformanceRow is one leaderboard entry of the overview report.
type StaffPerformanceRow struct {
	StaffProfileID string
	Name           string
	Active         bool
	Solved         int64
	InCharge       int64
}

// InquiryRepository encapsulates inquiry persistence.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	Update(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction, serializing concurrent mutations of the same inquiry.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Inquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int64, error)
	CountByStatus(ctx context.Context, since time.Time) (map[domain.InquiryStatus]int64, error)
	CountUnassignedOpen(ctx context.Context, since time.Time) (int64, error)
	StaffPerformance(ctx context.Context, since time.Time) ([]StaffPerformanceRow, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates the repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquiryColumns = `id, reference_key, type, subject, status, priority, department_id,
               created_by_user_id, assigned_to_staff_id, created_at, updated_at`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (reference_key, type, subject, status, priority, department_id, created_by_user_id, assigned_to_staff_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		inquiry.ReferenceKey,
		inquiry.Type,
		inquiry.Subject,
		inquiry.Status,
		inquiry.Priority,
		inquiry.DepartmentID,
		inquiry.CreatedByUserID,
		inquiry.AssignedToStaffID,
	).Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        UPDATE inquiries SET type=$1, subject=$2, status=$3, priority=$4, department_id=$5,
            assigned_to_staff_id=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query,
		inquiry.Type,
		inquiry.Subject,
		inquiry.Status,
		inquiry.Priority,
		inquiry.DepartmentID,
		inquiry.AssignedToStaffID,
		inquiry.ID,
	).Scan(&inquiry.UpdatedAt)
	return err
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id=$1`, inquiryColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *inquiryRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id=$1 FOR UPDATE`, inquiryColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *inquiryRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&inquiry.ID,
		&inquiry.ReferenceKey,
		&inquiry.Type,
		&inquiry.Subject,
		&inquiry.Status,
		&inquiry.Priority,
		&inquiry.DepartmentID,
		&inquiry.CreatedByUserID,
		&inquiry.AssignedToStaffID,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedByUserID != nil {
		args = append(args, *filter.CreatedByUserID)
		clauses = append(clauses, fmt.Sprintf("created_by_user_id=$%d", len(args)))
	}
	if filter.AssignedToStaffID != nil {
		args = append(args, *filter.AssignedToStaffID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_staff_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		placeholder := fmt.Sprintf("$%d", len(args))
		if filter.IncludeEscalatedFrom {
			clauses = append(clauses, fmt.Sprintf(
				`(department_id=%s OR id IN (SELECT inquiry_id FROM inquiry_audits WHERE action='ESCALATED' AND from_department_id=%s))`,
				placeholder, placeholder))
		} else {
			clauses = append(clauses, fmt.Sprintf("department_id=%s", placeholder))
		}
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, typ := range filter.Types {
			args = append(args, typ)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SubjectQuery != nil && strings.TrimSpace(*filter.SubjectQuery) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SubjectQuery)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(subject) LIKE $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM inquiries WHERE %s`, where)
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		inquiryColumns, where, limit, offset)

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := scanInquiries(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *inquiryRepository) CountByStatus(ctx context.Context, since time.Time) (map[domain.InquiryStatus]int64, error) {
	const query = `
        SELECT status, COUNT(*) FROM inquiries
        WHERE created_at >= $1
        GROUP BY status`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.InquiryStatus]int64)
	for rows.Next() {
		var status domain.InquiryStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *inquiryRepository) CountUnassignedOpen(ctx context.Context, since time.Time) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM inquiries
        WHERE status='OPEN' AND assigned_to_staff_id IS NULL AND created_at >= $1`
	var count int64
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

func (r *inquiryRepository) StaffPerformance(ctx context.Context, since time.Time) ([]StaffPerformanceRow, error) {
	const query = `
        SELECT sp.id, sp.name, sp.status = 'ACTIVE',
               COUNT(*) FILTER (WHERE i.status IN ('RESOLVED','CLOSED') AND i.updated_at >= $1),
               COUNT(*) FILTER (WHERE i.status NOT IN ('RESOLVED','CLOSED'))
        FROM staff_profiles sp
        LEFT JOIN inquiries i ON i.assigned_to_staff_id = sp.id
        GROUP BY sp.id, sp.name, sp.status`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StaffPerformanceRow
	for rows.Next() {
		var row StaffPerformanceRow
		if err := rows.Scan(&row.StaffProfileID, &row.Name, &row.Active, &row.Solved, &row.InCharge); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanInquiries(rows pgx.Rows) ([]domain.Inquiry, error) {
	var result []domain.Inquiry
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.ReferenceKey,
			&inquiry.Type,
			&inquiry.Subject,
			&inquiry.Status,
			&inquiry.Priority,
			&inquiry.DepartmentID,
			&inquiry.CreatedByUserID,
			&inquiry.AssignedToStaffID,
			&inquiry.CreatedAt,
			&inquiry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}
