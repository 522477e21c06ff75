package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/scentwork/partner-console/internal/domain"
)

// RecordActivityRequest payload. Level is 1-based; revenue accepts a JSON
// number or a decimal string.
type RecordActivityRequest struct {
	Level        int             `json:"level"`
	DeltaCount   int64           `json:"delta_count"`
	DeltaRevenue decimal.Decimal `json:"delta_revenue"`
}

// RecordBulkPurchaseRequest payload.
type RecordBulkPurchaseRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// UpdatePartnerStatusRequest payload.
type UpdatePartnerStatusRequest struct {
	Status domain.PartnerStatus `json:"status"`
}

// ContactResponse is the partner's primary contact.
type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Title string `json:"title"`
}

// LevelResponse pairs activity with derived commission. Money is rendered
// as fixed two-place strings.
type LevelResponse struct {
	Level      int    `json:"level"`
	Count      int64  `json:"count"`
	Revenue    string `json:"revenue"`
	Rate       string `json:"rate"`
	Commission string `json:"commission"`
}

// PartnerResponse is a partner with its read-time commission breakdown.
type PartnerResponse struct {
	ID                   string                   `json:"id"`
	AmbassadorID         string                   `json:"ambassador_id"`
	RequestID            string                   `json:"request_id,omitempty"`
	Name                 string                   `json:"name"`
	Website              string                   `json:"website"`
	Contact              ContactResponse          `json:"contact"`
	Region               string                   `json:"region"`
	DistributionModel    domain.DistributionModel `json:"distribution_model"`
	Status               domain.PartnerStatus     `json:"status"`
	PartnerCode          string                   `json:"partner_code"`
	BulkPurchaseValue    string                   `json:"bulk_purchase_value"`
	Levels               []LevelResponse          `json:"levels"`
	TotalCommission      string                   `json:"total_commission"`
	PartnerLevelOneShare string                   `json:"partner_level_one_share"`
	CreatedAt            time.Time                `json:"created_at"`
	LastActivityAt       *time.Time               `json:"last_activity_at"`
}

// LevelTotalResponse is one level of a commission rollup.
type LevelTotalResponse struct {
	Level      int    `json:"level"`
	Count      int64  `json:"count"`
	Revenue    string `json:"revenue"`
	Commission string `json:"commission"`
}

// CommissionSummaryResponse rolls up an ambassador's partners.
type CommissionSummaryResponse struct {
	AmbassadorID    string               `json:"ambassador_id"`
	PartnerCount    int                  `json:"partner_count"`
	Levels          []LevelTotalResponse `json:"levels"`
	TotalCommission string               `json:"total_commission"`
}
