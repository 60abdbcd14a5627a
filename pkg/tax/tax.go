// Package tax computes income tax, surcharge and cess on profit before tax for
// the supported regimes. Rates and thresholds are policy, not constants: they
// live in Policy and can be overridden from configuration.
package tax

import (
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/shopspring/decimal"
)

// Slab is one progressive bracket. Upper is exclusive of the next slab; a
// zero Upper marks the open-ended top slab. Rate is a percentage.
type Slab struct {
	Lower float64 `yaml:"lower" json:"lower" mapstructure:"lower"`
	Upper float64 `yaml:"upper" json:"upper" mapstructure:"upper"`
	Rate  float64 `yaml:"rate" json:"rate" mapstructure:"rate"`
}

// FlatRate is a flat regime: rate on profit, surcharge on tax above a
// threshold (0 means always), cess on tax plus surcharge. All in percent.
type FlatRate struct {
	Rate               float64 `yaml:"rate" json:"rate" mapstructure:"rate"`
	SurchargeRate      float64 `yaml:"surcharge_rate" json:"surcharge_rate" mapstructure:"surcharge_rate"`
	SurchargeThreshold float64 `yaml:"surcharge_threshold" json:"surcharge_threshold" mapstructure:"surcharge_threshold"`
	CessRate           float64 `yaml:"cess_rate" json:"cess_rate" mapstructure:"cess_rate"`
}

// Progressive is a slab regime with a full rebate up to RebateLimit.
type Progressive struct {
	Slabs       []Slab  `yaml:"slabs" json:"slabs" mapstructure:"slabs"`
	RebateLimit float64 `yaml:"rebate_limit" json:"rebate_limit" mapstructure:"rebate_limit"`
}

// Policy holds the parameters of every regime.
type Policy struct {
	CorporateFlat         FlatRate    `yaml:"corporate_flat" json:"corporate_flat" mapstructure:"corporate_flat"`
	PartnershipFlat       FlatRate    `yaml:"partnership_flat" json:"partnership_flat" mapstructure:"partnership_flat"`
	LegacyFlat            FlatRate    `yaml:"legacy_flat" json:"legacy_flat" mapstructure:"legacy_flat"`
	IndividualProgressive Progressive `yaml:"individual_progressive" json:"individual_progressive" mapstructure:"individual_progressive"`
}

// Surcharge threshold of one crore rupees.
const oneCrore = 10000000

// DefaultPolicy returns the current rates.
func DefaultPolicy() Policy {
	return Policy{
		CorporateFlat: FlatRate{Rate: 22, SurchargeRate: 10, CessRate: 4},
		PartnershipFlat: FlatRate{
			Rate: 30, SurchargeRate: 12, SurchargeThreshold: oneCrore, CessRate: 4,
		},
		LegacyFlat: FlatRate{
			Rate: 25, SurchargeRate: 7, SurchargeThreshold: oneCrore, CessRate: 4,
		},
		IndividualProgressive: Progressive{
			Slabs: []Slab{
				{Lower: 0, Upper: 300000, Rate: 0},
				{Lower: 300000, Upper: 700000, Rate: 5},
				{Lower: 700000, Upper: 1000000, Rate: 10},
				{Lower: 1000000, Upper: 1200000, Rate: 15},
				{Lower: 1200000, Upper: 1500000, Rate: 20},
				{Lower: 1500000, Upper: 0, Rate: 30},
			},
			RebateLimit: 700000,
		},
	}
}

// Breakdown is the tax due on one year's profit.
type Breakdown struct {
	Tax       float64 `json:"tax"`
	Surcharge float64 `json:"surcharge"`
	Cess      float64 `json:"cess"`
	Total     float64 `json:"total"`
}

var hundred = decimal.NewFromInt(100)

func pct(rate float64) decimal.Decimal {
	return decimal.NewFromFloat(rate).Div(hundred)
}

// Calculate returns the tax breakdown for profit before tax under the regime.
// Unknown regimes use corporate_flat. Profit at or below zero owes nothing.
func Calculate(pbt float64, regime model.TaxRegime, policy Policy) Breakdown {
	if pbt <= 0 {
		return Breakdown{}
	}
	profit := decimal.NewFromFloat(pbt)

	switch regime.Normalize() {
	case model.RegimePartnershipFlat:
		return flat(profit, policy.PartnershipFlat)
	case model.RegimeLegacyFlat:
		return flat(profit, policy.LegacyFlat)
	case model.RegimeIndividualProgressive:
		return progressive(profit, policy.IndividualProgressive)
	default:
		return flat(profit, policy.CorporateFlat)
	}
}

func flat(profit decimal.Decimal, p FlatRate) Breakdown {
	tax := profit.Mul(pct(p.Rate))
	surcharge := decimal.Zero
	if profit.GreaterThan(decimal.NewFromFloat(p.SurchargeThreshold)) {
		surcharge = tax.Mul(pct(p.SurchargeRate))
	}
	cess := tax.Add(surcharge).Mul(pct(p.CessRate))
	return newBreakdown(tax, surcharge, cess)
}

func progressive(profit decimal.Decimal, p Progressive) Breakdown {
	if !profit.GreaterThan(decimal.NewFromFloat(p.RebateLimit)) {
		return Breakdown{}
	}
	tax := decimal.Zero
	for _, slab := range p.Slabs {
		lower := decimal.NewFromFloat(slab.Lower)
		if !profit.GreaterThan(lower) {
			break
		}
		top := profit
		if slab.Upper > 0 {
			top = decimal.Min(profit, decimal.NewFromFloat(slab.Upper))
		}
		tax = tax.Add(top.Sub(lower).Mul(pct(slab.Rate)))
	}
	return newBreakdown(tax, decimal.Zero, decimal.Zero)
}

func newBreakdown(tax, surcharge, cess decimal.Decimal) Breakdown {
	return Breakdown{
		Tax:       tax.InexactFloat64(),
		Surcharge: surcharge.InexactFloat64(),
		Cess:      cess.InexactFloat64(),
		Total:     tax.Add(surcharge).Add(cess).InexactFloat64(),
	}
}
