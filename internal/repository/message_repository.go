package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// MessageRepository manages the customer-visible conversation thread.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.InquiryMessage) error
	ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryMessage, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds the repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.InquiryMessage) error {
	const query = `
        INSERT INTO inquiry_messages (inquiry_id, sender_id, sender_type, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		msg.InquiryID,
		msg.SenderID,
		msg.SenderType,
		msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryMessage, error) {
	const query = `
        SELECT id, inquiry_id, sender_id, sender_type, message, created_at
        FROM inquiry_messages WHERE inquiry_id=$1 ORDER BY created_at ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InquiryMessage
	for rows.Next() {
		var msg domain.InquiryMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.InquiryID,
			&msg.SenderID,
			&msg.SenderType,
			&msg.Message,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
