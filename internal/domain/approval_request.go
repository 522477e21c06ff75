package domain

import "time"

// RequestStatus enumerates approval request states.
type RequestStatus string

const (
	RequestStatusAwaitingAdmin RequestStatus = "AWAITING_ADMIN"
	RequestStatusApproved      RequestStatus = "APPROVED"
	RequestStatusRejected      RequestStatus = "REJECTED"
)

// CandidatePartner is the partner data captured before approval.
type CandidatePartner struct {
	Name           string
	Website        string
	Contact        Contact
	Region         string
	PreferredModel DistributionModel
}

// ApprovalRequest stages a candidate partner for admin review.
type ApprovalRequest struct {
	ID              string
	AmbassadorID    string
	Candidate       CandidatePartner
	Domain          string
	RiskScore       float64
	Status          RequestStatus
	SubmittedAt     time.Time
	ResolvedAt      *time.Time
	ResolvedBy      string
	RejectionReason string
	PartnerID       string
}

// Clone returns a copy safe to hand out of a store.
func (r *ApprovalRequest) Clone() *ApprovalRequest {
	if r == nil {
		return nil
	}
	cp := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		cp.ResolvedAt = &t
	}
	return &cp
}
