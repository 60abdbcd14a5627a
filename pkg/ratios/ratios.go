// Package ratios derives the standard lending ratios from one year's
// completed statements. Every ratio is 0 when its denominator is 0.
package ratios

import (
	"github.com/iwvelando/project-report/pkg/mathutil"
)

// Inputs are the statement figures the ratios read.
type Inputs struct {
	FirstYear          bool
	Revenue            float64
	COGS               float64
	PAT                float64
	EBIT               float64
	Depreciation       float64
	TotalInterest      float64
	TermLoanInterest   float64
	LoanPrincipal      float64
	LoanClosing        float64
	WCPrincipal        float64
	NetWorth           float64
	CurrentAssets      float64
	Inventory          float64
	CurrentLiabilities float64
	NetBlock           float64
	TotalAssets        float64
	OpeningRawMaterial float64
	ClosingRawMaterial float64
}

// Ratios for one year. Percent-valued fields are already multiplied by 100.
type Ratios struct {
	DebtEquity         float64 `json:"debt_equity"`
	CurrentRatio       float64 `json:"current_ratio"`
	QuickRatio         float64 `json:"quick_ratio"`
	FixedAssetCoverage float64 `json:"fixed_asset_coverage"`
	InterestCoverage   float64 `json:"interest_coverage"`
	DSCR               float64 `json:"dscr"`
	ROCE               float64 `json:"roce_percent"`
	NetProfitMargin    float64 `json:"net_profit_margin_percent"`
	ReturnOnNetWorth   float64 `json:"return_on_net_worth_percent"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
	FixedAssetTurnover float64 `json:"fixed_asset_turnover"`
	AssetTurnover      float64 `json:"asset_turnover"`
}

// Calculate computes every ratio for one year.
func Calculate(in Inputs) Ratios {
	avgInventory := in.ClosingRawMaterial
	if !in.FirstYear {
		avgInventory = (in.OpeningRawMaterial + in.ClosingRawMaterial) / 2
	}

	return Ratios{
		DebtEquity:         mathutil.SafeDiv(in.LoanClosing+in.WCPrincipal, in.NetWorth),
		CurrentRatio:       mathutil.SafeDiv(in.CurrentAssets, in.CurrentLiabilities),
		QuickRatio:         mathutil.SafeDiv(in.CurrentAssets-in.Inventory, in.CurrentLiabilities),
		FixedAssetCoverage: mathutil.SafeDiv(in.NetBlock, in.LoanClosing),
		InterestCoverage:   mathutil.SafeDiv(in.EBIT, in.TotalInterest),
		DSCR: mathutil.SafeDiv(in.PAT+in.Depreciation+in.TermLoanInterest,
			in.LoanPrincipal+in.TermLoanInterest),
		ROCE:               mathutil.CalculatePercentage(in.EBIT, in.TotalAssets-in.CurrentLiabilities),
		NetProfitMargin:    mathutil.CalculatePercentage(in.PAT, in.Revenue),
		ReturnOnNetWorth:   mathutil.CalculatePercentage(in.PAT, in.NetWorth),
		InventoryTurnover:  mathutil.SafeDiv(in.COGS, avgInventory),
		FixedAssetTurnover: mathutil.SafeDiv(in.Revenue, in.NetBlock),
		AssetTurnover:      mathutil.SafeDiv(in.Revenue, in.TotalAssets),
	}
}

// Summary aggregates debt service ratios over the projection.
type Summary struct {
	AverageDSCR             float64 `json:"average_dscr"`
	MinimumDSCR             float64 `json:"minimum_dscr"`
	AverageInterestCoverage float64 `json:"average_interest_coverage"`
}

// Summarize averages DSCR and interest coverage across years with debt
// service. Years without any debt service are left out.
func Summarize(years []Ratios) Summary {
	var s Summary
	count := 0
	for _, r := range years {
		if r.DSCR == 0 && r.InterestCoverage == 0 {
			continue
		}
		if count == 0 || r.DSCR < s.MinimumDSCR {
			s.MinimumDSCR = r.DSCR
		}
		s.AverageDSCR += r.DSCR
		s.AverageInterestCoverage += r.InterestCoverage
		count++
	}
	if count > 0 {
		s.AverageDSCR /= float64(count)
		s.AverageInterestCoverage /= float64(count)
	}
	return s
}
