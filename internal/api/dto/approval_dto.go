package dto

import (
	"time"

	"github.com/scentwork/partner-console/internal/domain"
)

// ContactRequest is the candidate's primary contact.
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Title string `json:"title"`
}

// SubmitPartnerRequest payload.
type SubmitPartnerRequest struct {
	Name           string                   `json:"name"`
	Website        string                   `json:"website"`
	Contact        ContactRequest           `json:"contact"`
	Region         string                   `json:"region"`
	PreferredModel domain.DistributionModel `json:"preferred_model"`
	Domain         string                   `json:"domain"`
	RiskScore      float64                  `json:"risk_score"`
}

// ApproveRequest payload. An empty model keeps the candidate's preference.
type ApproveRequest struct {
	DistributionModel domain.DistributionModel `json:"distribution_model"`
}

// RejectRequest payload.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ApprovalRequestResponse represents a queue entry.
type ApprovalRequestResponse struct {
	ID              string                   `json:"id"`
	AmbassadorID    string                   `json:"ambassador_id"`
	Name            string                   `json:"name"`
	Website         string                   `json:"website"`
	Contact         ContactResponse          `json:"contact"`
	Region          string                   `json:"region"`
	PreferredModel  domain.DistributionModel `json:"preferred_model"`
	Domain          string                   `json:"domain"`
	RiskScore       float64                  `json:"risk_score"`
	Status          domain.RequestStatus     `json:"status"`
	SubmittedAt     time.Time                `json:"submitted_at"`
	ResolvedAt      *time.Time               `json:"resolved_at"`
	ResolvedBy      string                   `json:"resolved_by,omitempty"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
	PartnerID       string                   `json:"partner_id,omitempty"`
}
