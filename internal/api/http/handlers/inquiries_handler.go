package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// InquiriesHandler manages inquiry lifecycle endpoints.
type InquiriesHandler struct {
	service *service.InquiryService
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(inquiryService *service.InquiryService) *InquiriesHandler {
	return &InquiriesHandler{service: inquiryService}
}

// Create POST /inquiries.
func (h *InquiriesHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inquiry, err := h.service.CreateInquiry(c.Context(), actor, service.InquiryCreateInput{
		Type:     req.Type,
		Subject:  req.Subject,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.InquirySummaryFromDomain(inquiry)})
}

// List GET /inquiries.
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input := parseInquiryListQuery(c)
	page, err := h.service.ListInquiries(c.Context(), actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.InquirySummary, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.InquirySummaryFromDomain(&page.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.InquiryListResponse{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}})
}

// Get GET /inquiries/:id.
func (h *InquiriesHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.service.GetInquiry(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.InquiryDetailResponse{InquirySummary: dto.InquirySummaryFromDomain(&detail.Inquiry)}
	for i := range detail.Messages {
		resp.Messages = append(resp.Messages, dto.MessageFromDomain(&detail.Messages[i]))
	}
	for i := range detail.InternalNotes {
		resp.InternalNotes = append(resp.InternalNotes, dto.NoteFromDomain(&detail.InternalNotes[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// AddMessage POST /inquiries/:id/messages.
func (h *InquiriesHandler) AddMessage(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inquiry, err := h.service.AddMessage(c.Context(), actor, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.InquirySummaryFromDomain(inquiry)})
}

// AddNote POST /inquiries/:id/notes.
func (h *InquiriesHandler) AddNote(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	note, err := h.service.AddInternalNote(c.Context(), actor, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NoteFromDomain(note)})
}

// Assign POST /inquiries/:id/assign.
func (h *InquiriesHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffProfileID == "" {
		return apperrors.NewValidationError("staff_profile_id required", nil)
	}
	inquiry, err := h.service.AssignInquiry(c.Context(), actor, c.Params("id"), req.StaffProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InquirySummaryFromDomain(inquiry)})
}

// Escalate POST /inquiries/:id/escalate.
func (h *InquiriesHandler) Escalate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == "" {
		return apperrors.NewValidationError("department_id required", nil)
	}
	inquiry, err := h.service.EscalateInquiry(c.Context(), actor, c.Params("id"), req.DepartmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InquirySummaryFromDomain(inquiry)})
}

// UpdateStatus PATCH /inquiries/:id/status.
func (h *InquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inquiry, err := h.service.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InquirySummaryFromDomain(inquiry)})
}

// ListAudit GET /inquiries/:id/audit.
func (h *InquiriesHandler) ListAudit(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.service.ListAudit(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.AuditFromDomain(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseInquiryListQuery(c *fiber.Ctx) service.InquiryListInput {
	input := service.InquiryListInput{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 20),
	}
	for _, raw := range splitQuery(c.Query("status")) {
		status := domain.InquiryStatus(strings.ToUpper(raw))
		if domain.ValidStatus(status) {
			input.Statuses = append(input.Statuses, status)
		}
	}
	for _, raw := range splitQuery(c.Query("type")) {
		typ := domain.InquiryType(strings.ToUpper(raw))
		if domain.ValidType(typ) {
			input.Types = append(input.Types, typ)
		}
	}
	for _, raw := range splitQuery(c.Query("priority")) {
		input.Priorities = append(input.Priorities, domain.InquiryPriority(strings.ToUpper(raw)))
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		input.SubjectQuery = &q
	}
	return input
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
