package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// AuditRepository stores the append-only trail. There is deliberately no
// update or delete operation.
type AuditRepository interface {
	Create(ctx context.Context, audit *domain.InquiryAudit) error
	ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryAudit, error)
	HasEscalationFrom(ctx context.Context, inquiryID, departmentID string) (bool, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, audit *domain.InquiryAudit) error {
	const query = `
        INSERT INTO inquiry_audits (inquiry_id, action, performed_by_user_id, from_department_id, to_department_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		audit.InquiryID,
		audit.Action,
		audit.PerformedByUserID,
		audit.FromDepartmentID,
		audit.ToDepartmentID,
	).Scan(&audit.ID, &audit.CreatedAt)
}

func (r *auditRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryAudit, error) {
	const query = `
        SELECT id, inquiry_id, action, performed_by_user_id, from_department_id, to_department_id, created_at
        FROM inquiry_audits WHERE inquiry_id=$1 ORDER BY created_at DESC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InquiryAudit
	for rows.Next() {
		var audit domain.InquiryAudit
		if err := rows.Scan(
			&audit.ID,
			&audit.InquiryID,
			&audit.Action,
			&audit.PerformedByUserID,
			&audit.FromDepartmentID,
			&audit.ToDepartmentID,
			&audit.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, audit)
	}
	return result, rows.Err()
}

func (r *auditRepository) HasEscalationFrom(ctx context.Context, inquiryID, departmentID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM inquiry_audits
            WHERE inquiry_id=$1 AND action='ESCALATED' AND from_department_id=$2
        )`
	var exists bool
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, inquiryID, departmentID).Scan(&exists)
	return exists, err
}
