// Package commission derives per-level payouts from partner activity.
//
// Commission is never stored. Every read recomputes it from the partner's
// level activity so dashboard totals cannot drift from the underlying counts.
package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/scentwork/partner-console/internal/domain"
)

// minorUnitPlaces is the number of decimal places in the currency's minor unit.
const minorUnitPlaces = 2

var rates = [domain.LevelCount]decimal.Decimal{
	decimal.RequireFromString("0.10"),
	decimal.RequireFromString("0.075"),
	decimal.RequireFromString("0.025"),
	decimal.RequireFromString("0.025"),
	decimal.RequireFromString("0.025"),
}

// LevelCommission is the derived payout for one level.
type LevelCommission struct {
	Level      int
	Count      int64
	Revenue    decimal.Decimal
	Rate       decimal.Decimal
	Commission decimal.Decimal
}

// Breakdown is the full five-level payout for a partner.
type Breakdown struct {
	Model             domain.DistributionModel
	BulkPurchaseValue decimal.Decimal
	Levels            [domain.LevelCount]LevelCommission
	Total             decimal.Decimal
	// PartnerLevelOneShare is the partner's own level-1 earning under
	// PassThrough. It is paid independently and excluded from Total.
	PartnerLevelOneShare decimal.Decimal
}

// Rate returns the commission rate for a 1-based level.
func Rate(level int) (decimal.Decimal, error) {
	if level < 1 || level > domain.LevelCount {
		return decimal.Zero, fmt.Errorf("level %d: %w", level, domain.ErrInvalidLevel)
	}
	return rates[level-1], nil
}

// Rates returns the full schedule, level 1 first.
func Rates() [domain.LevelCount]decimal.Decimal {
	return rates
}

// Compute maps validated level activity to payouts. Input must already be
// non-negative; levels is passed by value and never modified.
func Compute(levels domain.Levels, model domain.DistributionModel, bulkPurchaseValue decimal.Decimal) Breakdown {
	out := Breakdown{
		Model:             model,
		BulkPurchaseValue: bulkPurchaseValue,
		Total:             decimal.Zero,
	}
	for i, activity := range levels {
		base := activity.Revenue
		if i == 0 && model == domain.ModelBulkBuy {
			// level 1 under bulk-buy is paid on the prepaid purchase, not on gift redemptions
			base = bulkPurchaseValue
		}
		amount := round(base.Mul(rates[i]))
		out.Levels[i] = LevelCommission{
			Level:      i + 1,
			Count:      activity.Count,
			Revenue:    activity.Revenue,
			Rate:       rates[i],
			Commission: amount,
		}
		out.Total = out.Total.Add(amount)
	}
	if model == domain.ModelPassThrough {
		out.PartnerLevelOneShare = round(levels[0].Revenue.Mul(rates[0]))
	} else {
		out.PartnerLevelOneShare = decimal.Zero
	}
	return out
}

// ForPartner computes the breakdown for a partner record.
func ForPartner(p *domain.Partner) Breakdown {
	return Compute(p.Levels, p.DistributionModel, p.BulkPurchaseValue)
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnitPlaces)
}
