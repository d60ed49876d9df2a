package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// TemplatesHandler manages quick-reply template endpoints.
type TemplatesHandler struct {
	service *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{service: templateService}
}

// List GET /templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var typeFilter *domain.InquiryType
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		typ := domain.InquiryType(strings.ToUpper(raw))
		typeFilter = &typ
	}
	items, err := h.service.ListTemplates(c.Context(), actor, typeFilter)
	if err != nil {
		return err
	}
	out := make([]dto.TemplateResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.TemplateFromDomain(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create POST /templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tmpl, err := h.service.CreateTemplate(c.Context(), actor, service.TemplateInput{
		Title: req.Title,
		Body:  req.Body,
		Type:  req.Type,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TemplateFromDomain(tmpl)})
}

// Update PUT /templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tmpl, err := h.service.UpdateTemplate(c.Context(), actor, c.Params("id"), service.TemplateInput{
		Title: req.Title,
		Body:  req.Body,
		Type:  req.Type,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TemplateFromDomain(tmpl)})
}

// Delete DELETE /templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteTemplate(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
