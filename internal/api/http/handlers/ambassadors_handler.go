package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scentwork/partner-console/internal/api/dto"
	"github.com/scentwork/partner-console/internal/auth"
	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/service"
	apperrors "github.com/scentwork/partner-console/pkg/util"
)

// AmbassadorsHandler serves the ambassador dashboard endpoints. Routes are
// guarded so ambassadors only reach their own id.
type AmbassadorsHandler struct {
	qualification *service.QualificationService
	partners      *service.PartnerService
	approvals     *service.ApprovalService
}

// NewAmbassadorsHandler constructs handler.
func NewAmbassadorsHandler(qualification *service.QualificationService, partners *service.PartnerService, approvals *service.ApprovalService) *AmbassadorsHandler {
	return &AmbassadorsHandler{qualification: qualification, partners: partners, approvals: approvals}
}

// GetAmbassador GET /ambassadors/:id.
func (h *AmbassadorsHandler) GetAmbassador(c *fiber.Ctx) error {
	ambassador, err := h.qualification.GetAmbassador(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ambassadorResponse(ambassador)})
}

// ListPartners GET /ambassadors/:id/partners.
func (h *AmbassadorsHandler) ListPartners(c *fiber.Ctx) error {
	views, err := h.partners.ListByAmbassador(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.PartnerResponse, 0, len(views))
	for i := range views {
		items = append(items, partnerResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CommissionSummary GET /ambassadors/:id/commission-summary.
func (h *AmbassadorsHandler) CommissionSummary(c *fiber.Ctx) error {
	ambassadorID := c.Params("id")
	summary, err := h.partners.CommissionSummary(c.UserContext(), ambassadorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commissionSummaryResponse(ambassadorID, summary)})
}

// ListPartnerRequests GET /ambassadors/:id/partner-requests.
func (h *AmbassadorsHandler) ListPartnerRequests(c *fiber.Ctx) error {
	requests, err := h.approvals.ListByAmbassador(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalList(requests)})
}

// SubmitPartnerRequest POST /ambassadors/:id/partner-requests.
func (h *AmbassadorsHandler) SubmitPartnerRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitPartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.SubmitInput{
		Candidate: domain.CandidatePartner{
			Name:    req.Name,
			Website: req.Website,
			Contact: domain.Contact{
				Name:  req.Contact.Name,
				Email: req.Contact.Email,
				Title: req.Contact.Title,
			},
			Region:         req.Region,
			PreferredModel: req.PreferredModel,
		},
		Domain:    req.Domain,
		RiskScore: req.RiskScore,
	}
	request, err := h.approvals.Submit(c.UserContext(), c.Params("id"), input, principal.Actor())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": approvalResponse(request)})
}
