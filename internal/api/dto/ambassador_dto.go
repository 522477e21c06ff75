package dto

import (
	"time"

	"github.com/scentwork/partner-console/internal/domain"
)

// RegisterAmbassadorRequest payload.
type RegisterAmbassadorRequest struct {
	ID    string                   `json:"id"`
	Name  string                   `json:"name"`
	Email string                   `json:"email"`
	Tier  domain.QualificationTier `json:"tier"`
}

// SetQualificationRequest payload. Qualified is a pointer so an omitted
// field is rejected rather than read as false.
type SetQualificationRequest struct {
	Qualified *bool  `json:"qualified"`
	Note      string `json:"note"`
}

// AmbassadorResponse represents an ambassador profile.
type AmbassadorResponse struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	Tier       domain.QualificationTier `json:"tier"`
	Qualified  bool                     `json:"qualified"`
	PartnerIDs []string                 `json:"partner_ids"`
	CreatedAt  time.Time                `json:"created_at"`
}

// QualificationChangeResponse is one audit entry.
type QualificationChangeResponse struct {
	Qualified bool      `json:"qualified"`
	ChangedBy string    `json:"changed_by"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// QualificationResponse reports the current flag with its history.
type QualificationResponse struct {
	AmbassadorID string                        `json:"ambassador_id"`
	Qualified    bool                          `json:"qualified"`
	History      []QualificationChangeResponse `json:"history"`
}
