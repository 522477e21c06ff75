package events

import (
	"time"

	"github.com/scentwork/partner-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAmbassadorRegistered     EventType = "ambassador_registered"
	EventQualificationChanged     EventType = "qualification_changed"
	EventPartnerRequestSubmitted  EventType = "partner_request_submitted"
	EventPartnerRequestApproved   EventType = "partner_request_approved"
	EventPartnerRequestRejected   EventType = "partner_request_rejected"
	EventPartnerCreated           EventType = "partner_created"
	EventPartnerActivityRecorded  EventType = "partner_activity_recorded"
	EventPartnerBulkPurchaseAdded EventType = "partner_bulk_purchase_recorded"
	EventPartnerStatusChanged     EventType = "partner_status_changed"
)

// AllEventTypes lists every type a forwarder should subscribe to.
var AllEventTypes = []EventType{
	EventAmbassadorRegistered,
	EventQualificationChanged,
	EventPartnerRequestSubmitted,
	EventPartnerRequestApproved,
	EventPartnerRequestRejected,
	EventPartnerCreated,
	EventPartnerActivityRecorded,
	EventPartnerBulkPurchaseAdded,
	EventPartnerStatusChanged,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   string      `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// AmbassadorRegisteredPayload payload.
type AmbassadorRegisteredPayload struct {
	Name string                   `json:"name"`
	Tier domain.QualificationTier `json:"tier"`
}

// QualificationChangedPayload payload.
type QualificationChangedPayload struct {
	Previous bool   `json:"previous"`
	Current  bool   `json:"current"`
	Note     string `json:"note,omitempty"`
}

// PartnerRequestSubmittedPayload payload.
type PartnerRequestSubmittedPayload struct {
	AmbassadorID  string                   `json:"ambassador_id"`
	CandidateName string                   `json:"candidate_name"`
	Domain        string                   `json:"domain"`
	RiskScore     float64                  `json:"risk_score"`
	Model         domain.DistributionModel `json:"preferred_model"`
}

// PartnerRequestResolvedPayload payload for approvals and rejections.
type PartnerRequestResolvedPayload struct {
	Status    domain.RequestStatus `json:"status"`
	PartnerID string               `json:"partner_id,omitempty"`
	Reason    string               `json:"reason,omitempty"`
}

// PartnerCreatedPayload payload.
type PartnerCreatedPayload struct {
	AmbassadorID string                   `json:"ambassador_id"`
	RequestID    string                   `json:"request_id"`
	Name         string                   `json:"name"`
	Model        domain.DistributionModel `json:"distribution_model"`
	PartnerCode  string                   `json:"partner_code"`
}

// PartnerActivityRecordedPayload payload. Revenue is a decimal string.
type PartnerActivityRecordedPayload struct {
	Level        int    `json:"level"`
	DeltaCount   int64  `json:"delta_count"`
	DeltaRevenue string `json:"delta_revenue"`
}

// PartnerBulkPurchasePayload payload.
type PartnerBulkPurchasePayload struct {
	Amount string `json:"amount"`
	Total  string `json:"total"`
}

// PartnerStatusChangedPayload payload.
type PartnerStatusChangedPayload struct {
	OldStatus domain.PartnerStatus `json:"old_status"`
	NewStatus domain.PartnerStatus `json:"new_status"`
}
