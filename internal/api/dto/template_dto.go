package dto

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// TemplateRequest is the create/update payload.
type TemplateRequest struct {
	Title string              `json:"title"`
	Body  string              `json:"body"`
	Type  *domain.InquiryType `json:"type"`
	Tags  []string            `json:"tags"`
}

// TemplateResponse is the public view of a quick-reply template.
type TemplateResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	Type      *domain.InquiryType `json:"type"`
	Tags      []string            `json:"tags"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TemplateFromDomain maps a template record.
func TemplateFromDomain(tmpl *domain.QuickReplyTemplate) TemplateResponse {
	return TemplateResponse{
		ID:        tmpl.ID,
		Title:     tmpl.Title,
		Body:      tmpl.Body,
		Type:      tmpl.Type,
		Tags:      tmpl.Tags,
		CreatedAt: tmpl.CreatedAt,
		UpdatedAt: tmpl.UpdatedAt,
	}
}
