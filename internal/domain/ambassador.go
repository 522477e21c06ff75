package domain

import "time"

// QualificationTier enumerates ambassador editions.
type QualificationTier string

const (
	TierStandard  QualificationTier = "STANDARD"
	TierCorporate QualificationTier = "CORPORATE"
)

// Ambassador introduces corporate partners into the program.
type Ambassador struct {
	ID                   string
	Name                 string
	Email                string
	Tier                 QualificationTier
	Qualified            bool
	PartnerIDs           []string
	QualificationHistory []QualificationChange
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// QualificationChange is an audit entry for an admin qualification decision.
type QualificationChange struct {
	Qualified bool
	ChangedBy string
	Note      string
	ChangedAt time.Time
}

// Clone returns a deep copy safe to hand out of a store.
func (a *Ambassador) Clone() *Ambassador {
	if a == nil {
		return nil
	}
	cp := *a
	cp.PartnerIDs = append([]string(nil), a.PartnerIDs...)
	cp.QualificationHistory = append([]QualificationChange(nil), a.QualificationHistory...)
	return &cp
}

// ValidTier reports whether t is a known tier.
func ValidTier(t QualificationTier) bool {
	return t == TierStandard || t == TierCorporate
}
