package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// OutboxRepository persists notification requests. Enqueue always runs
// inside the transaction of the mutation that triggered the notification,
// so a committed mutation implies a durably recorded request.
type OutboxRepository interface {
	Enqueue(ctx context.Context, req *domain.NotificationRequest) error
	ListPending(ctx context.Context, limit int) ([]domain.NotificationRequest, error)
	MarkDispatched(ctx context.Context, ids []string) error
}

type outboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository builds the repository.
func NewOutboxRepository(pool *pgxpool.Pool) OutboxRepository {
	return &outboxRepository{pool: pool}
}

func (r *outboxRepository) Enqueue(ctx context.Context, req *domain.NotificationRequest) error {
	const query = `
        INSERT INTO notification_outbox (user_id, department_id, kind, title, message, link)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		req.UserID,
		req.DepartmentID,
		req.Kind,
		req.Title,
		req.Message,
		req.Link,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]domain.NotificationRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id, user_id, department_id, kind, title, message, link, created_at, dispatched_at
        FROM notification_outbox
        WHERE dispatched_at IS NULL
        ORDER BY created_at ASC
        LIMIT $1`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NotificationRequest
	for rows.Next() {
		var req domain.NotificationRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.DepartmentID,
			&req.Kind,
			&req.Title,
			&req.Message,
			&req.Link,
			&req.CreatedAt,
			&req.DispatchedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE notification_outbox SET dispatched_at=NOW() WHERE id = ANY($1)`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query, ids)
	return err
}
