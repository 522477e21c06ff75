package commission

import (
	"github.com/shopspring/decimal"

	"github.com/scentwork/partner-console/internal/domain"
)

// LevelTotal aggregates one level across partners.
type LevelTotal struct {
	Level      int
	Count      int64
	Revenue    decimal.Decimal
	Commission decimal.Decimal
}

// Summary is a cross-partner rollup of derived commissions.
type Summary struct {
	PartnerCount int
	Levels       [domain.LevelCount]LevelTotal
	Total        decimal.Decimal
}

// Rollup sums breakdowns level by level. The total is the sum of the
// per-level commissions, never a separately tracked figure.
func Rollup(breakdowns ...Breakdown) Summary {
	s := Summary{PartnerCount: len(breakdowns), Total: decimal.Zero}
	for i := range s.Levels {
		s.Levels[i] = LevelTotal{Level: i + 1, Revenue: decimal.Zero, Commission: decimal.Zero}
	}
	for _, b := range breakdowns {
		for i, lvl := range b.Levels {
			s.Levels[i].Count += lvl.Count
			s.Levels[i].Revenue = s.Levels[i].Revenue.Add(lvl.Revenue)
			s.Levels[i].Commission = s.Levels[i].Commission.Add(lvl.Commission)
		}
	}
	for _, lvl := range s.Levels {
		s.Total = s.Total.Add(lvl.Commission)
	}
	return s
}
