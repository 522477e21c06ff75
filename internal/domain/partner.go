package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LevelCount is the fixed depth of the sharing chain.
const LevelCount = 5

// DistributionModel enumerates how a partner distributes referral codes.
type DistributionModel string

const (
	ModelPassThrough DistributionModel = "PASS_THROUGH"
	ModelBulkBuy     DistributionModel = "BULK_BUY"
)

// ValidModel reports whether m is a known distribution model.
func ValidModel(m DistributionModel) bool {
	return m == ModelPassThrough || m == ModelBulkBuy
}

// PartnerStatus enumerates approval lifecycle states for partners.
type PartnerStatus string

const (
	PartnerStatusPendingReview    PartnerStatus = "PENDING_REVIEW"
	PartnerStatusApproved         PartnerStatus = "APPROVED"
	PartnerStatusChangesRequested PartnerStatus = "CHANGES_REQUESTED"
	PartnerStatusRejected         PartnerStatus = "REJECTED"
	PartnerStatusPaused           PartnerStatus = "PAUSED"
)

// ValidPartnerStatus reports whether s is a known partner status.
func ValidPartnerStatus(s PartnerStatus) bool {
	switch s {
	case PartnerStatusPendingReview, PartnerStatusApproved, PartnerStatusChangesRequested,
		PartnerStatusRejected, PartnerStatusPaused:
		return true
	}
	return false
}

// Contact is the partner's primary contact person.
type Contact struct {
	Name  string
	Email string
	Title string
}

// LevelActivity is the accumulated activity at one level of the sharing chain.
type LevelActivity struct {
	Count   int64
	Revenue decimal.Decimal
}

// Levels holds activity for levels 1..5 at indexes 0..4.
type Levels [LevelCount]LevelActivity

// Partner is a corporate distributor introduced by an ambassador.
type Partner struct {
	ID                string
	RequestID         string
	AmbassadorID      string
	Name              string
	Website           string
	Contact           Contact
	Region            string
	DistributionModel DistributionModel
	Status            PartnerStatus
	PartnerCode       string
	Levels            Levels
	BulkPurchaseValue decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastActivityAt    *time.Time
}

// Clone returns a copy safe to hand out of a store.
func (p *Partner) Clone() *Partner {
	if p == nil {
		return nil
	}
	cp := *p
	if p.LastActivityAt != nil {
		t := *p.LastActivityAt
		cp.LastActivityAt = &t
	}
	return &cp
}

// NewPartnerCode builds referral codes like PARTNER-ACME-8F29 from the first
// word of the partner name.
func NewPartnerCode(name string) string {
	word := ""
	if fields := strings.Fields(name); len(fields) > 0 {
		word = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToUpper(r)
			}
			return -1
		}, fields[0])
	}
	if word == "" {
		word = "CORP"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "PARTNER-" + word + "-" + suffix
}
