package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/scentwork/partner-console/internal/api/dto"
	"github.com/scentwork/partner-console/internal/commission"
	"github.com/scentwork/partner-console/internal/domain"
	"github.com/scentwork/partner-console/internal/service"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func ambassadorResponse(a *domain.Ambassador) dto.AmbassadorResponse {
	partnerIDs := a.PartnerIDs
	if partnerIDs == nil {
		partnerIDs = []string{}
	}
	return dto.AmbassadorResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Tier:       a.Tier,
		Qualified:  a.Qualified,
		PartnerIDs: partnerIDs,
		CreatedAt:  a.CreatedAt,
	}
}

func qualificationResponse(ambassadorID string, qualified bool, changes []domain.QualificationChange) dto.QualificationResponse {
	history := make([]dto.QualificationChangeResponse, 0, len(changes))
	for _, change := range changes {
		history = append(history, dto.QualificationChangeResponse{
			Qualified: change.Qualified,
			ChangedBy: change.ChangedBy,
			Note:      change.Note,
			ChangedAt: change.ChangedAt,
		})
	}
	return dto.QualificationResponse{AmbassadorID: ambassadorID, Qualified: qualified, History: history}
}

func contactResponse(c domain.Contact) dto.ContactResponse {
	return dto.ContactResponse{Name: c.Name, Email: c.Email, Title: c.Title}
}

func partnerResponse(v *service.PartnerView) dto.PartnerResponse {
	p := v.Partner
	levels := make([]dto.LevelResponse, 0, len(v.Commission.Levels))
	for _, lvl := range v.Commission.Levels {
		levels = append(levels, dto.LevelResponse{
			Level:      lvl.Level,
			Count:      lvl.Count,
			Revenue:    money(lvl.Revenue),
			Rate:       lvl.Rate.String(),
			Commission: money(lvl.Commission),
		})
	}
	return dto.PartnerResponse{
		ID:                   p.ID,
		AmbassadorID:         p.AmbassadorID,
		RequestID:            p.RequestID,
		Name:                 p.Name,
		Website:              p.Website,
		Contact:              contactResponse(p.Contact),
		Region:               p.Region,
		DistributionModel:    p.DistributionModel,
		Status:               p.Status,
		PartnerCode:          p.PartnerCode,
		BulkPurchaseValue:    money(p.BulkPurchaseValue),
		Levels:               levels,
		TotalCommission:      money(v.Commission.Total),
		PartnerLevelOneShare: money(v.Commission.PartnerLevelOneShare),
		CreatedAt:            p.CreatedAt,
		LastActivityAt:       p.LastActivityAt,
	}
}

func commissionSummaryResponse(ambassadorID string, s commission.Summary) dto.CommissionSummaryResponse {
	levels := make([]dto.LevelTotalResponse, 0, len(s.Levels))
	for _, lvl := range s.Levels {
		levels = append(levels, dto.LevelTotalResponse{
			Level:      lvl.Level,
			Count:      lvl.Count,
			Revenue:    money(lvl.Revenue),
			Commission: money(lvl.Commission),
		})
	}
	return dto.CommissionSummaryResponse{
		AmbassadorID:    ambassadorID,
		PartnerCount:    s.PartnerCount,
		Levels:          levels,
		TotalCommission: money(s.Total),
	}
}

func approvalResponse(r *domain.ApprovalRequest) dto.ApprovalRequestResponse {
	return dto.ApprovalRequestResponse{
		ID:              r.ID,
		AmbassadorID:    r.AmbassadorID,
		Name:            r.Candidate.Name,
		Website:         r.Candidate.Website,
		Contact:         contactResponse(r.Candidate.Contact),
		Region:          r.Candidate.Region,
		PreferredModel:  r.Candidate.PreferredModel,
		Domain:          r.Domain,
		RiskScore:       r.RiskScore,
		Status:          r.Status,
		SubmittedAt:     r.SubmittedAt,
		ResolvedAt:      r.ResolvedAt,
		ResolvedBy:      r.ResolvedBy,
		RejectionReason: r.RejectionReason,
		PartnerID:       r.PartnerID,
	}
}

func approvalList(requests []domain.ApprovalRequest) []dto.ApprovalRequestResponse {
	items := make([]dto.ApprovalRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, approvalResponse(&requests[i]))
	}
	return items
}
