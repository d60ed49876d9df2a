package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// TemplateRepository manages quick-reply templates. The backing table may
// not be provisioned yet; callers receive the raw Postgres error and decide
// how to degrade.
type TemplateRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, inquiryType *domain.InquiryType) ([]domain.QuickReplyTemplate, error)
	Create(ctx context.Context, tpl *domain.QuickReplyTemplate) error
	Update(ctx context.Context, tpl *domain.QuickReplyTemplate) error
	Delete(ctx context.Context, id string) error
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository builds the repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM quick_reply_templates`).Scan(&count)
	return count, err
}

func (r *templateRepository) List(ctx context.Context, inquiryType *domain.InquiryType) ([]domain.QuickReplyTemplate, error) {
	query := `
        SELECT id, title, body, type, tags, created_by_user_id, created_at, updated_at
        FROM quick_reply_templates`
	args := []any{}
	if inquiryType != nil {
		// COMMON templates (type NULL) apply to every inquiry type.
		query += ` WHERE type IS NULL OR type=$1`
		args = append(args, *inquiryType)
	}
	query += ` ORDER BY title ASC`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.QuickReplyTemplate
	for rows.Next() {
		var tpl domain.QuickReplyTemplate
		if err := rows.Scan(
			&tpl.ID,
			&tpl.Title,
			&tpl.Body,
			&tpl.Type,
			&tpl.Tags,
			&tpl.CreatedByUserID,
			&tpl.CreatedAt,
			&tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.QuickReplyTemplate) error {
	const query = `
        INSERT INTO quick_reply_templates (title, body, type, tags, created_by_user_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		tpl.Title,
		tpl.Body,
		tpl.Type,
		tpl.Tags,
		tpl.CreatedByUserID,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.QuickReplyTemplate) error {
	const query = `
        UPDATE quick_reply_templates SET title=$1, body=$2, type=$3, tags=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		tpl.Title,
		tpl.Body,
		tpl.Type,
		tpl.Tags,
		tpl.ID,
	).Scan(&tpl.UpdatedAt)
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM quick_reply_templates WHERE id=$1`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
