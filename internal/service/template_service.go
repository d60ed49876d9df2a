package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// TemplateService serves quick-reply templates for staff. The template
// store lives in its own migration and may not be provisioned yet; listing
// degrades to an empty result in that case while mutations surface the
// unavailability to the caller.
type TemplateService struct {
	templates repository.TemplateRepository
	logger    *zap.Logger
}

func NewTemplateService(templates repository.TemplateRepository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templates: templates, logger: logger}
}

// TemplateInput is the create/update payload.
type TemplateInput struct {
	Title string
	Body  string
	Type  *domain.InquiryType
	Tags  []string
}

var defaultTemplates = []domain.QuickReplyTemplate{
	{
		Title: "Greeting",
		Body:  "Hello, thank you for reaching out. I am looking into your inquiry now and will get back to you shortly.",
		Tags:  []string{"greeting"},
	},
	{
		Title: "Need more detail",
		Body:  "Could you share a bit more detail about the issue, including any reference numbers or screenshots you have?",
		Tags:  []string{"follow-up"},
	},
	{
		Title: "Resolved",
		Body:  "Glad we could help. I am marking this inquiry as resolved; reply any time if the issue comes back.",
		Tags:  []string{"closing"},
	},
}

// ListTemplates returns templates matching the optional type filter,
// seeding the defaults on first use. An unprovisioned store yields an
// empty list rather than an error.
func (s *TemplateService) ListTemplates(ctx context.Context, actor accesscontrol.ActorContext, inquiryType *domain.InquiryType) ([]domain.QuickReplyTemplate, error) {
	if !s.canView(actor) {
		return nil, apperrors.NewForbidden("templates restricted to staff")
	}
	if inquiryType != nil && !domain.ValidType(*inquiryType) {
		return nil, apperrors.NewValidationError("unknown inquiry type", map[string]any{"type": *inquiryType})
	}

	count, err := s.templates.Count(ctx)
	if err != nil {
		if apperrors.IsKind(apperrors.MapError(err), apperrors.KindUnavailable) {
			s.logger.Warn("template store unavailable, serving empty list", zap.Error(err))
			return []domain.QuickReplyTemplate{}, nil
		}
		return nil, apperrors.MapError(err)
	}
	if count == 0 {
		if err := s.seedDefaults(ctx); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	items, err := s.templates.List(ctx, inquiryType)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// CreateTemplate adds a template authored by the acting user.
func (s *TemplateService) CreateTemplate(ctx context.Context, actor accesscontrol.ActorContext, input TemplateInput) (*domain.QuickReplyTemplate, error) {
	if !s.canManage(actor) {
		return nil, apperrors.NewForbidden("template management not permitted")
	}
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	userID := actor.UserID
	tmpl := &domain.QuickReplyTemplate{
		Title:           strings.TrimSpace(input.Title),
		Body:            strings.TrimSpace(input.Body),
		Type:            input.Type,
		Tags:            input.Tags,
		CreatedByUserID: &userID,
	}
	if err := s.templates.Create(ctx, tmpl); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tmpl, nil
}

// UpdateTemplate replaces the template's content.
func (s *TemplateService) UpdateTemplate(ctx context.Context, actor accesscontrol.ActorContext, id string, input TemplateInput) (*domain.QuickReplyTemplate, error) {
	if !s.canManage(actor) {
		return nil, apperrors.NewForbidden("template management not permitted")
	}
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	tmpl := &domain.QuickReplyTemplate{
		ID:    id,
		Title: strings.TrimSpace(input.Title),
		Body:  strings.TrimSpace(input.Body),
		Type:  input.Type,
		Tags:  input.Tags,
	}
	if err := s.templates.Update(ctx, tmpl); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return tmpl, nil
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, actor accesscontrol.ActorContext, id string) error {
	if !s.canManage(actor) {
		return apperrors.NewForbidden("template management not permitted")
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("template", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TemplateService) seedDefaults(ctx context.Context) error {
	for i := range defaultTemplates {
		tmpl := defaultTemplates[i]
		if err := s.templates.Create(ctx, &tmpl); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default quick-reply templates", zap.Int("count", len(defaultTemplates)))
	return nil
}

func (s *TemplateService) canView(actor accesscontrol.ActorContext) bool {
	return actor.IsBypass() ||
		actor.Has(accesscontrol.PermTemplatesView) ||
		actor.HasAny(accesscontrol.ReplyClassKeys()...)
}

func (s *TemplateService) canManage(actor accesscontrol.ActorContext) bool {
	return actor.IsBypass() || actor.Has(accesscontrol.PermTemplatesManage)
}

func validateTemplateInput(input TemplateInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return apperrors.NewValidationError("title and body required", nil)
	}
	if input.Type != nil && !domain.ValidType(*input.Type) {
		return apperrors.NewValidationError("unknown inquiry type", map[string]any{"type": *input.Type})
	}
	return nil
}
