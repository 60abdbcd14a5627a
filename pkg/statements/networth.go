package statements

import "github.com/iwvelando/project-report/pkg/model"

// NetWorthInput carries the figures a strategy reads for one year.
type NetWorthInput struct {
	ShareCapital    float64
	OpeningReserves float64
	OtherEquity     float64
	PAT             float64
	RetainedProfit  float64
	Distributions   float64
	Drawings        float64
}

// NetWorth is a strategy's equity position for one year together with the
// equity cash flows it implies.
type NetWorth struct {
	ShareCapital      float64 `json:"share_capital" yaml:"share_capital"`
	Capital           float64 `json:"capital" yaml:"capital"`
	Drawings          float64 `json:"drawings" yaml:"drawings"`
	Reserves          float64 `json:"reserves" yaml:"reserves"`
	OtherEquity       float64 `json:"other_equity" yaml:"other_equity"`
	Total             float64 `json:"total" yaml:"total"`
	CapitalIntroduced float64 `json:"capital_introduced" yaml:"capital_introduced"`
	DrawingsPaid      float64 `json:"drawings_paid" yaml:"drawings_paid"`
	DividendsPaid     float64 `json:"dividends_paid" yaml:"dividends_paid"`
}

// NetWorthStrategy computes equity for one entity type. Consumes names the
// liability roles the strategy owns; those rows never enter the page-wide
// liability sum. Of those, SkipsInScan names the ones whose movement is
// already expressed by the strategy's own cash flows.
type NetWorthStrategy interface {
	Name() string
	ComputeYear0(in NetWorthInput) NetWorth
	ComputeYearN(prev *YearResult, in NetWorthInput) NetWorth
	Consumes(role model.Role) bool
	SkipsInScan(role model.Role) bool
	// OpeningEquity is the equity that year 0 adds to the balance sheet
	// without a matching cash flow.
	OpeningEquity(in NetWorthInput) float64
}

// StrategyFor selects the strategy for a tax regime.
func StrategyFor(regime model.TaxRegime) NetWorthStrategy {
	if regime.Normalize().IsPartnership() {
		return partnershipStrategy{}
	}
	return corporateStrategy{}
}

// corporateStrategy: share capital plus accumulated reserves.
type corporateStrategy struct{}

func (corporateStrategy) Name() string { return "corporate" }

func (corporateStrategy) Consumes(role model.Role) bool {
	return role == model.RoleShareCapital || role == model.RoleReserves
}

func (corporateStrategy) SkipsInScan(role model.Role) bool {
	return role == model.RoleReserves
}

func (corporateStrategy) OpeningEquity(in NetWorthInput) float64 {
	return in.OpeningReserves
}

func (corporateStrategy) ComputeYear0(in NetWorthInput) NetWorth {
	reserves := in.OpeningReserves + in.RetainedProfit
	return NetWorth{
		ShareCapital:  in.ShareCapital,
		Reserves:      reserves,
		Total:         in.ShareCapital + reserves,
		DividendsPaid: in.Distributions,
	}
}

func (corporateStrategy) ComputeYearN(prev *YearResult, in NetWorthInput) NetWorth {
	reserves := prev.NetWorth.Reserves + in.RetainedProfit
	return NetWorth{
		ShareCapital:  in.ShareCapital,
		Reserves:      reserves,
		Total:         in.ShareCapital + reserves,
		DividendsPaid: in.Distributions,
	}
}

// partnershipStrategy: partners' capital rolled forward by profit and
// drawings. Share capital rows give the year 0 capital only.
type partnershipStrategy struct{}

func (partnershipStrategy) Name() string { return "partnership" }

func (partnershipStrategy) Consumes(role model.Role) bool {
	switch role {
	case model.RoleShareCapital, model.RoleDrawings, model.RoleReserves, model.RoleOtherEquity:
		return true
	}
	return false
}

func (partnershipStrategy) SkipsInScan(role model.Role) bool {
	switch role {
	case model.RoleShareCapital, model.RoleDrawings, model.RoleReserves:
		return true
	}
	return false
}

func (partnershipStrategy) OpeningEquity(NetWorthInput) float64 {
	return 0
}

func (partnershipStrategy) ComputeYear0(in NetWorthInput) NetWorth {
	return NetWorth{
		Capital:           in.ShareCapital,
		Drawings:          in.Drawings,
		Reserves:          in.PAT,
		OtherEquity:       in.OtherEquity,
		Total:             in.ShareCapital - in.Drawings + in.PAT + in.OtherEquity,
		CapitalIntroduced: in.ShareCapital,
		DrawingsPaid:      in.Drawings,
	}
}

func (partnershipStrategy) ComputeYearN(prev *YearResult, in NetWorthInput) NetWorth {
	capital := prev.NetWorth.Capital + prev.PAT - prev.NetWorth.Drawings
	return NetWorth{
		Capital:      capital,
		Drawings:     in.Drawings,
		Reserves:     in.PAT,
		OtherEquity:  in.OtherEquity,
		Total:        capital - in.Drawings + in.PAT + in.OtherEquity,
		DrawingsPaid: in.Drawings,
	}
}
