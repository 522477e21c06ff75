package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/api/dto"
	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/service"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

// AdminHandler exposes the approval queue and the qualification gate.
type AdminHandler struct {
	qualification *service.QualificationService
	approvals     *service.ApprovalService
	partners      *service.PartnerService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(qualification *service.QualificationService, approvals *service.ApprovalService, partners *service.PartnerService) *AdminHandler {
	return &AdminHandler{qualification: qualification, approvals: approvals, partners: partners}
}

// RegisterAmbassador POST /admin/ambassadors.
func (h *AdminHandler) RegisterAmbassador(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RegisterAmbassadorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ambassador, err := h.qualification.RegisterAmbassador(c.UserContext(), service.RegisterAmbassadorInput{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Tier:  req.Tier,
	}, principal.Actor())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ambassadorResponse(ambassador)})
}

// GetQualification GET /admin/ambassadors/:id/qualification.
func (h *AdminHandler) GetQualification(c *fiber.Ctx) error {
	ambassadorID := c.Params("id")
	qualified, err := h.qualification.IsQualified(c.UserContext(), ambassadorID)
	if err != nil {
		return err
	}
	history, err := h.qualification.History(c.UserContext(), ambassadorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": qualificationResponse(ambassadorID, qualified, history)})
}

// SetQualification PUT /admin/ambassadors/:id/qualification.
func (h *AdminHandler) SetQualification(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SetQualificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Qualified == nil {
		return apperrors.NewValidationError("qualified required", nil)
	}
	ambassador, err := h.qualification.SetQualification(c.UserContext(), c.Params("id"), *req.Qualified, principal.Actor(), req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": qualificationResponse(ambassador.ID, ambassador.Qualified, ambassador.QualificationHistory)})
}

// ListApprovals GET /admin/approvals?q=.
func (h *AdminHandler) ListApprovals(c *fiber.Ctx) error {
	requests, err := h.approvals.ListPending(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalList(requests)})
}

// GetApproval GET /admin/approvals/:id.
func (h *AdminHandler) GetApproval(c *fiber.Ctx) error {
	request, err := h.approvals.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(request)})
}

// Approve POST /admin/approvals/:id/approve.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	partner, err := h.approvals.Approve(c.UserContext(), c.Params("id"), req.DistributionModel, principal.Actor())
	if err != nil {
		return err
	}
	view, err := h.partners.Get(c.UserContext(), partner.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": partnerResponse(view)})
}

// Reject POST /admin/approvals/:id/reject.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	request, err := h.approvals.Reject(c.UserContext(), c.Params("id"), req.Reason, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(request)})
}
