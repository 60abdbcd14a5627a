package statements

import (
	"math"

	"github.com/iwvelando/project-report/pkg/classify"
	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/ratios"
)

type scanTotals struct {
	operating    float64
	investing    float64
	financing    float64
	shareCapital float64
	otherTerm    float64
	captured     map[*classify.RowRef]bool
}

// scan walks the balance sheet rows that reach the cash flow through their
// movement and adds each delta to its bucket. Asset deltas flip sign.
func (c *computation) scan(r *YearResult) scanTotals {
	totals := scanTotals{captured: make(map[*classify.RowRef]bool)}

	for _, row := range c.bsRows {
		if row.treatment == treatExplicit {
			continue
		}
		delta := c.rowValue(row.ref, r.Index) - c.rowValue(row.ref, r.Index-1)
		impact := delta
		if row.ref.IsAsset() {
			impact = -delta
		}

		switch row.bucket {
		case model.BucketOperating:
			totals.operating += impact
		case model.BucketInvesting:
			totals.investing += impact
		case model.BucketFinancing:
			totals.financing += impact
		default:
			continue
		}
		totals.captured[row.ref] = true
		if row.ref.Role == model.RoleShareCapital {
			totals.shareCapital += delta
		}
		if row.treatment == treatWide && row.ref.Group.Section == model.SectionTermLiabilities {
			totals.otherTerm += delta
		}
		if delta != 0 {
			r.Diagnostics.Flows = append(r.Diagnostics.Flows, RowFlow{
				Row:        row.ref.Row.Name,
				Group:      row.ref.Group.Group.Name,
				Bucket:     row.bucket,
				Delta:      delta,
				CashImpact: impact,
			})
		}
	}
	return totals
}

// audit re-walks every balance sheet row no dedicated line replaces and
// reports the ones whose movement no bucket captured.
func (c *computation) audit(r *YearResult, captured map[*classify.RowRef]bool) {
	for _, row := range c.bsRows {
		if row.treatment == treatExplicit || captured[row.ref] {
			continue
		}
		delta := c.rowValue(row.ref, r.Index) - c.rowValue(row.ref, r.Index-1)
		if math.Abs(delta) <= constants.GhostRowTolerance {
			continue
		}
		impact := delta
		if row.ref.IsAsset() {
			impact = -delta
		}
		r.Diagnostics.GhostRows = append(r.Diagnostics.GhostRows, GhostRow{
			Row:        row.ref.Row.Name,
			Group:      row.ref.Group.Group.Name,
			Bucket:     row.bucket,
			Delta:      delta,
			CashImpact: impact,
		})
	}
}

// cashFlow is phase C. It settles the year's closing cash.
func (c *computation) cashFlow(r *YearResult, prev *YearResult) {
	var prevStock, prevTax, prevLoan, prevWC float64
	if prev != nil {
		prevStock = prev.ClosingStock()
		prevTax = prev.Tax.Total
		prevLoan = prev.LoanClosing
		prevWC = prev.WCPrincipal
	}

	s := c.scan(r)
	c.audit(r, s.captured)

	taxChange := r.Tax.Total - prevTax
	stockChange := -(r.ClosingStock() - prevStock)
	operating := r.PAT + r.Depreciation + r.TotalInterest + taxChange + stockChange + s.operating

	capex := r.GrossBlock
	if prev != nil {
		capex = r.NetBlock - prev.NetBlock + r.Depreciation
	}
	investing := -capex + s.investing

	loanChange := r.LoanClosing - prevLoan
	wcChange := r.WCPrincipal - prevWC
	nw := r.NetWorth
	financing := loanChange + wcChange + nw.CapitalIntroduced - nw.DrawingsPaid - nw.DividendsPaid -
		r.TotalInterest + s.financing

	r.NetCashFlow = operating + investing + financing
	if prev == nil {
		r.OpeningCash = c.openingCash
	} else {
		r.OpeningCash = prev.ClosingCash
	}
	r.ClosingCash = r.OpeningCash + r.NetCashFlow

	r.set(LabelCFPAT, r.PAT)
	r.set(LabelCFDepreciation, r.Depreciation)
	r.set(LabelCFInterest, r.TotalInterest)
	r.set(LabelCFTaxProvision, taxChange)
	r.set(LabelCFInventories, stockChange)
	r.set(LabelCFWorkingCapital, s.operating)
	r.set(LabelCFOperating, operating)
	r.set(LabelCFCapex, -capex)
	r.set(LabelCFOtherInvesting, s.investing)
	r.set(LabelCFInvesting, investing)
	r.set(LabelCFTermLoans, loanChange)
	r.set(LabelCFWCBorrowings, wcChange)
	r.set(LabelCFCapitalIntro, nw.CapitalIntroduced)
	r.set(LabelCFDrawings, -nw.DrawingsPaid)
	r.set(LabelCFDividends, -nw.DividendsPaid)
	r.set(LabelCFInterestPaid, -r.TotalInterest)
	r.set(LabelCFOtherFinancing, s.financing)
	r.set(LabelCFFinancing, financing)
	r.set(LabelNetCashFlow, r.NetCashFlow)
	r.set(LabelOpeningCash, r.OpeningCash)
	r.set(LabelClosingCash, r.ClosingCash)
	r.set(LabelMemoShareCapital, s.shareCapital)
	r.set(LabelMemoOtherTermLiab, s.otherTerm)
}

// finalize writes the closing cash into the balance sheet and runs the
// year's checks and ratios.
func (c *computation) finalize(r *YearResult, prev *YearResult) {
	r.TotalAssets += r.ClosingCash
	currentAssets := r.ClosingCash + r.ClosingStock() + r.Value(LabelOtherCurrentAssets)

	r.set(LabelCashBank, r.ClosingCash)
	r.set(LabelTotalCurrentAssets, currentAssets)
	r.set(LabelTotalAssets, r.TotalAssets)

	d := &r.Diagnostics
	d.BalanceCheck = r.TotalAssets - r.TotalLiab
	d.Balanced = mathutil.WithinTolerance(r.TotalAssets, r.TotalLiab, constants.BalanceTolerance)
	impliedCash := r.TotalLiab - (r.TotalAssets - r.ClosingCash)
	d.CashReconciliation = r.ClosingCash - impliedCash
	r.set(LabelBalanceCheck, d.BalanceCheck)

	r.Ratios = ratios.Calculate(ratios.Inputs{
		FirstYear:          prev == nil,
		Revenue:            r.Revenue,
		COGS:               r.COGS,
		PAT:                r.PAT,
		EBIT:               r.EBIT,
		Depreciation:       r.Depreciation,
		TotalInterest:      r.TotalInterest,
		TermLoanInterest:   r.TermLoanInterest,
		LoanPrincipal:      r.LoanPrincipal,
		LoanClosing:        r.LoanClosing,
		WCPrincipal:        r.WCPrincipal,
		NetWorth:           r.NetWorth.Total,
		CurrentAssets:      currentAssets,
		Inventory:          r.ClosingStock(),
		CurrentLiabilities: r.Value(LabelTotalCurrentLiab),
		NetBlock:           r.NetBlock,
		TotalAssets:        r.TotalAssets,
		OpeningRawMaterial: r.Value(LabelOpeningRM),
		ClosingRawMaterial: r.ClosingRM,
	})

	if mathutil.IsZero(r.Revenue) && r.Index == 0 {
		r.note("no revenue entered for %s", r.Year.Display)
	}
}
