package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/observability"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/pkg/apperrors"
)

// ReportsHandler serves administrator dashboards and debug counters.
type ReportsHandler struct {
	service *service.InquiryService
	metrics *observability.Metrics
}

// NewReportsHandler constructs handler.
func NewReportsHandler(inquiryService *service.InquiryService, metrics *observability.Metrics) *ReportsHandler {
	return &ReportsHandler{service: inquiryService, metrics: metrics}
}

// Overview GET /reports/overview.
func (h *ReportsHandler) Overview(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	days := c.QueryInt("days", 30)
	overview, err := h.service.GetOverview(c.Context(), actor, days)
	if err != nil {
		return err
	}

	resp := dto.OverviewResponse{
		Totals: dto.OverviewTotalsResponse{
			Total:      overview.Totals.Total,
			Unresolved: overview.Totals.Unresolved,
			Solved:     overview.Totals.Solved,
			Unchecked:  overview.Totals.Unchecked,
			InCharge:   overview.Totals.InCharge,
		},
	}
	for _, row := range overview.StaffPerformance {
		resp.StaffPerformance = append(resp.StaffPerformance, dto.StaffPerformanceResponse{
			StaffProfileID: row.StaffProfileID,
			Name:           row.Name,
			Active:         row.Active,
			Solved:         row.Solved,
			InCharge:       row.InCharge,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Counters GET /reports/counters.
func (h *ReportsHandler) Counters(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsBypass() {
		return apperrors.NewForbidden("counters restricted to administrators")
	}
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"requests": requests,
		"errors":   errs,
	}})
}
