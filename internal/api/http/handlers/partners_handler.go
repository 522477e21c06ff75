package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/api/dto"
	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/service"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

// PartnersHandler manages partner records and their activity.
type PartnersHandler struct {
	service *service.PartnerService
}

// NewPartnersHandler constructs handler.
func NewPartnersHandler(partnerService *service.PartnerService) *PartnersHandler {
	return &PartnersHandler{service: partnerService}
}

// GetPartner GET /partners/:id. Ambassadors may only read their own partners.
func (h *PartnersHandler) GetPartner(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !principal.CanActFor(view.Partner.AmbassadorID) {
		return apperrors.NewForbidden("partner belongs to another ambassador")
	}
	return c.JSON(fiber.Map{"data": partnerResponse(view)})
}

// RecordActivity POST /partners/:id/activity.
func (h *PartnersHandler) RecordActivity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.RecordActivity(c.UserContext(), c.Params("id"), req.Level, req.DeltaCount, req.DeltaRevenue, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": partnerResponse(view)})
}

// RecordBulkPurchase POST /partners/:id/bulk-purchases.
func (h *PartnersHandler) RecordBulkPurchase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RecordBulkPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.RecordBulkPurchase(c.UserContext(), c.Params("id"), req.Amount, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": partnerResponse(view)})
}

// UpdateStatus PATCH /partners/:id/status.
func (h *PartnersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdatePartnerStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	view, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": partnerResponse(view)})
}
