package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// NoteRepository manages staff-only internal notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.InquiryInternalNote) error
	ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryInternalNote, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository builds the repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.InquiryInternalNote) error {
	const query = `
        INSERT INTO inquiry_internal_notes (inquiry_id, staff_id, note)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query,
		note.InquiryID,
		note.StaffID,
		note.Note,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]domain.InquiryInternalNote, error) {
	const query = `
        SELECT id, inquiry_id, staff_id, note, created_at
        FROM inquiry_internal_notes WHERE inquiry_id=$1 ORDER BY created_at ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InquiryInternalNote
	for rows.Next() {
		var note domain.InquiryInternalNote
		if err := rows.Scan(&note.ID, &note.InquiryID, &note.StaffID, &note.Note, &note.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
