package statements

import (
	"github.com/iwvelando/project-report/pkg/classify"
	"github.com/iwvelando/project-report/pkg/model"
)

// wideSums are the page-wide balance sheet rows summed by placement.
type wideSums struct {
	currentAssets      float64
	capitalWIP         float64
	intangibles        float64
	otherNonCurrent    float64
	currentLiabilities float64
	termLiabilities    float64
	otherLiabilities   float64
}

func (w wideSums) assets() float64 {
	return w.currentAssets + w.capitalWIP + w.intangibles + w.otherNonCurrent
}

func inSection(section model.Section) func(*classify.RowRef) bool {
	return func(ref *classify.RowRef) bool { return ref.Group.Section == section }
}

func nonCurrentWithRole(role model.Role) func(*classify.RowRef) bool {
	return func(ref *classify.RowRef) bool {
		return ref.Group.Section != model.SectionCurrentAssets && ref.Role == role
	}
}

func isOtherNonCurrent(ref *classify.RowRef) bool {
	return ref.Group.Section != model.SectionCurrentAssets &&
		ref.Role != model.RoleCapitalWIP && ref.Role != model.RoleIntangible
}

func isOtherLiability(ref *classify.RowRef) bool {
	return ref.Group.Section != model.SectionCurrentLiabilities &&
		ref.Group.Section != model.SectionTermLiabilities
}

// sumWide sums the rows no dedicated line replaces, split by placement.
func (c *computation) sumWide(r *YearResult) wideSums {
	yearID := r.Year.ID
	prefer := c.prefer[r.Index]
	sum := func(page model.PageType, pred func(*classify.RowRef) bool) float64 {
		return c.idx.SumPageType(yearID, page, c.filter.Where(pred), prefer)
	}

	return wideSums{
		currentAssets:      sum(model.PageAsset, inSection(model.SectionCurrentAssets)),
		capitalWIP:         sum(model.PageAsset, nonCurrentWithRole(model.RoleCapitalWIP)),
		intangibles:        sum(model.PageAsset, nonCurrentWithRole(model.RoleIntangible)),
		otherNonCurrent:    sum(model.PageAsset, isOtherNonCurrent),
		currentLiabilities: sum(model.PageLiability, inSection(model.SectionCurrentLiabilities)),
		termLiabilities:    sum(model.PageLiability, inSection(model.SectionTermLiabilities)),
		otherLiabilities:   sum(model.PageLiability, isOtherLiability),
	}
}

// preferValues snapshots the year's operating statement lines. A balance
// sheet row named after one of them reads the computed figure.
func preferValues(r *YearResult) map[string]float64 {
	prefer := make(map[string]float64, len(ProfitAndLossLabels))
	for _, label := range ProfitAndLossLabels {
		if v, ok := r.Values[label]; ok {
			prefer[label] = v
		}
	}
	return prefer
}

// drawings for the year: the drawings schedule when one is given, else the
// drawings rows.
func (c *computation) drawings(yearID string) float64 {
	if len(c.report.Drawings) > 0 {
		return c.report.DrawingsForYear(yearID)
	}
	return c.idx.SumRole(yearID, model.RoleDrawings)
}

// balanceSheet is phase B. Cash is settled by the cash flow phase, so the
// asset total is completed in finalize.
func (c *computation) balanceSheet(r *YearResult, prev *YearResult) {
	yearID := r.Year.ID
	first := c.years[0].ID

	c.prefer[r.Index] = preferValues(r)

	var existing, additions float64
	if c.hasRegister {
		additions = c.register[yearID].Additions
		existing = c.register[first].ExistingAssets
	} else {
		existing = c.existingBlock
		additions = c.blockAdditions[yearID]
		if additions > 0 {
			r.note("fixed asset rows rose by %.2f in %s, booked as additions", additions, r.Year.Display)
		}
	}

	if prev == nil {
		r.GrossBlock = existing + additions
	} else {
		r.GrossBlock = prev.NetBlock + additions
	}
	r.NetBlock = r.GrossBlock - r.Depreciation
	r.WCPrincipal = c.wcPrincipal

	in := NetWorthInput{
		ShareCapital:   c.idx.SumRole(yearID, model.RoleShareCapital),
		OtherEquity:    c.idx.SumRole(yearID, model.RoleOtherEquity),
		PAT:            r.PAT,
		RetainedProfit: r.PAT - r.Dividends,
		Distributions:  r.Dividends,
	}
	if c.regime.IsPartnership() {
		in.Drawings = c.drawings(yearID)
	}
	if prev == nil {
		in.OpeningReserves = c.idx.SumRole(yearID, model.RoleReserves)
		r.NetWorth = c.strategy.ComputeYear0(in)
		r.Diagnostics.OpeningMismatch = c.openingCash - c.strategy.OpeningEquity(in)
	} else {
		r.NetWorth = c.strategy.ComputeYearN(prev, in)
	}

	w := c.sumWide(r)
	totalFixed := r.NetBlock + w.capitalWIP + w.intangibles
	currentLiab := w.currentLiabilities + r.Tax.Total + r.WCPrincipal
	termLiab := w.termLiabilities + r.LoanClosing
	r.TotalLiab = r.NetWorth.Total + termLiab + currentLiab + w.otherLiabilities
	r.TotalAssets = r.ClosingStock() + r.NetBlock + w.assets()

	if c.hasRegister && prev == nil {
		r.set(LabelExistingAssets, existing)
	}
	if c.hasRegister || additions > 0 {
		r.set(LabelAdditions, additions)
	}
	r.set(LabelInventories, r.ClosingStock())
	r.set(LabelOtherCurrentAssets, w.currentAssets)
	r.set(LabelGrossBlock, r.GrossBlock)
	r.set(LabelNetBlock, r.NetBlock)
	r.set(LabelCapitalWIP, w.capitalWIP)
	r.set(LabelIntangibles, w.intangibles)
	r.set(LabelTotalFixedAssets, totalFixed)
	r.set(LabelOtherNonCurrent, w.otherNonCurrent)

	if c.regime.IsPartnership() {
		r.set(LabelCapital, r.NetWorth.Capital)
		r.set(LabelDrawings, r.NetWorth.Drawings)
		r.set(LabelOtherEquity, r.NetWorth.OtherEquity)
	} else {
		r.set(LabelShareCapital, r.NetWorth.ShareCapital)
	}
	r.set(LabelReserves, r.NetWorth.Reserves)
	r.set(LabelNetWorth, r.NetWorth.Total)
	r.set(LabelTermLoans, r.LoanClosing)
	r.set(LabelOtherTermLiab, w.termLiabilities)
	r.set(LabelTotalTermLiab, termLiab)
	r.set(LabelWCBorrowings, r.WCPrincipal)
	r.set(LabelTaxProvision, r.Tax.Total)
	r.set(LabelOtherCurrentLiab, w.currentLiabilities)
	r.set(LabelTotalCurrentLiab, currentLiab)
	r.set(LabelOtherLiabilities, w.otherLiabilities)
	r.set(LabelTotalLiabilities, r.TotalLiab)
}
