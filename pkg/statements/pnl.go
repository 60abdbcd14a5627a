package statements

import (
	"strings"

	"github.com/iwvelando/project-report/pkg/classify"
	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/tax"
)

var sgaExcludes = []string{"Depreciation", "Interest", "Office Equipment"}

const sellingGroup = "selling"

var interestNoise = []string{"total", "aggregate", "coverage", "ratio"}

var cogsRoles = map[model.Role]bool{
	model.RoleRawMaterialOpening: true,
	model.RoleRawMaterialClosing: true,
	model.RolePurchases:          true,
	model.RoleFreightIn:          true,
	model.RoleWIPOpening:         true,
	model.RoleWIPClosing:         true,
	model.RoleFGOpening:          true,
	model.RoleFGClosing:          true,
}

// manufacturingExpenses sums the cost of sales rows that are not a stock,
// purchase or freight line.
func (c *computation) manufacturingExpenses(yearID string) float64 {
	total := 0.0
	for _, g := range c.idx.Groups() {
		if g.Section != model.SectionCostOfSales {
			continue
		}
		for _, ref := range g.Rows {
			if cogsRoles[ref.Role] || !classify.GroupSumIncludes(ref, nil) {
				continue
			}
			total += ref.Value(yearID)
		}
	}
	return total
}

// sellingExpenses sums the selling group when the report has one, else every
// SG&A group.
func (c *computation) sellingExpenses(yearID string) float64 {
	if g := c.idx.FindGroup(sellingGroup); g != nil && g.Section == model.SectionSGA {
		return c.idx.SumGroup(yearID, sellingGroup, sgaExcludes)
	}
	return c.idx.SumSection(yearID, model.SectionSGA, sgaExcludes)
}

// otherInterest sums the operating page interest rows that are neither bank
// borrowing lines nor subtotals.
func (c *computation) otherInterest(yearID string) float64 {
	total := 0.0
	for _, ref := range c.idx.Rows() {
		if ref.Group.Group.PageType != model.PageOperating || !ref.Eligible() {
			continue
		}
		if ref.Role == model.RoleWCInterest || ref.Role == model.RoleTermLoanInterest {
			continue
		}
		if !strings.Contains(ref.NormName, "interest") || strings.HasPrefix(strings.TrimSpace(ref.Row.Name), "=") {
			continue
		}
		noise := false
		for _, n := range interestNoise {
			if strings.Contains(ref.NormName, n) {
				noise = true
				break
			}
		}
		if !noise {
			total += ref.Value(yearID)
		}
	}
	return total
}

type stock struct {
	openRM, closeRM   float64
	openWIP, closeWIP float64
	openFG, closeFG   float64
	purchases         float64
	freight           float64
	manufacturing     float64
}

// cogs is the cost of goods sold implied by the stock movement.
func (s stock) cogs() float64 {
	return s.openRM + s.purchases + s.freight - s.closeRM + s.manufacturing +
		s.openWIP - s.closeWIP + s.openFG - s.closeFG
}

// profitAndLoss is phase P: revenue down to retained profit.
func (c *computation) profitAndLoss(r *YearResult, prev *YearResult) {
	yearID := r.Year.ID
	idx := c.idx

	revenue := idx.SumSectionRows(yearID, model.SectionRevenue)
	s := stock{
		closeRM:       idx.SumRole(yearID, model.RoleRawMaterialClosing),
		closeWIP:      idx.SumRole(yearID, model.RoleWIPClosing),
		closeFG:       idx.SumRole(yearID, model.RoleFGClosing),
		purchases:     idx.SumRole(yearID, model.RolePurchases),
		freight:       idx.SumRole(yearID, model.RoleFreightIn),
		manufacturing: c.manufacturingExpenses(yearID),
	}
	if prev == nil {
		s.openRM = idx.SumRole(yearID, model.RoleRawMaterialOpening)
		s.openWIP = idx.SumRole(yearID, model.RoleWIPOpening)
		s.openFG = idx.SumRole(yearID, model.RoleFGOpening)
	} else {
		s.openRM = prev.ClosingRM
		s.openWIP = prev.ClosingWIP
		s.openFG = prev.ClosingFG
	}

	c.applyTargetGPR(r, prev, revenue, &s)

	cogs := s.cogs()
	grossProfit := revenue - cogs
	sga := c.sellingExpenses(yearID)
	ebitda := grossProfit - sga

	var termLoanInterest, loanPrincipal, loanClosing float64
	for _, l := range c.report.LoansForYear(yearID) {
		termLoanInterest += l.AnnualInterest
		loanPrincipal += l.AnnualPrincipal
		loanClosing += l.ClosingBalance
	}
	otherInterest := c.otherInterest(yearID)
	totalInterest := termLoanInterest + otherInterest + c.wcInterest

	if c.hasRegister {
		r.set(LabelDepreciation, c.register[yearID].Depreciation)
	}
	dep := idx.Lookup(yearID, LabelDepreciation, r.Values)
	if dep == 0 {
		dep = idx.Lookup(yearID, LabelDepreciationAlias, r.Values)
	}

	ebit := ebitda - dep
	pbt := ebit - totalInterest
	taxes := tax.Calculate(pbt, c.regime, c.policy)
	pat := pbt - taxes.Total

	dividend := idx.SumRole(yearID, model.RoleDividend)
	dividendTax := idx.SumRole(yearID, model.RoleDividendTax)
	if c.regime.IsPartnership() {
		dividend, dividendTax = 0, 0
	}

	r.Revenue = revenue
	r.COGS = cogs
	r.ClosingRM = s.closeRM
	r.ClosingWIP = s.closeWIP
	r.ClosingFG = s.closeFG
	r.Depreciation = dep
	r.TermLoanInterest = termLoanInterest
	r.WCInterest = c.wcInterest
	r.TotalInterest = totalInterest
	r.EBIT = ebit
	r.PBT = pbt
	r.Tax = taxes
	r.PAT = pat
	r.Dividends = dividend + dividendTax
	r.LoanPrincipal = loanPrincipal
	r.LoanClosing = loanClosing

	rmConsumed := s.openRM + s.purchases + s.freight - s.closeRM
	grossFactory := rmConsumed + s.manufacturing
	factoryCost := grossFactory + s.openWIP - s.closeWIP

	r.set(LabelRevenue, revenue)
	r.set(LabelOpeningRM, s.openRM)
	r.set(LabelPurchases, s.purchases)
	r.set(LabelFreightIn, s.freight)
	r.set(LabelClosingRM, s.closeRM)
	r.set(LabelRMConsumed, rmConsumed)
	r.set(LabelManufacturing, s.manufacturing)
	r.set(LabelGrossFactoryCost, grossFactory)
	r.set(LabelOpeningWIP, s.openWIP)
	r.set(LabelClosingWIP, s.closeWIP)
	r.set(LabelFactoryCost, factoryCost)
	r.set(LabelOpeningFG, s.openFG)
	r.set(LabelClosingFG, s.closeFG)
	r.set(LabelCOGS, cogs)
	r.set(LabelGrossProfit, grossProfit)
	r.set(LabelGPR, mathutil.CalculatePercentage(grossProfit, revenue))
	if c.report.TargetGPR.Enabled {
		r.set(LabelTargetGPR, r.TargetGPR)
	}
	r.set(LabelSGA, sga)
	r.set(LabelEBITDA, ebitda)
	r.set(LabelDepreciation, dep)
	r.set(LabelEBIT, ebit)
	r.set(LabelTermLoanInterest, termLoanInterest)
	r.set(LabelWCInterest, c.wcInterest)
	r.set(LabelOtherInterest, otherInterest)
	r.set(LabelTotalInterest, totalInterest)
	r.set(LabelPBT, pbt)
	r.set(LabelIncomeTax, taxes.Tax)
	r.set(LabelSurcharge, taxes.Surcharge)
	r.set(LabelCess, taxes.Cess)
	r.set(LabelTotalTax, taxes.Total)
	r.set(LabelPAT, pat)
	r.set(LabelDividend, dividend)
	r.set(LabelDividendTax, dividendTax)
	r.set(LabelRetainedProfit, pat-dividend-dividendTax)
}

// applyTargetGPR replaces the closing raw material stock with the value that
// makes the year's gross profit ratio hit its target. The first year sets the
// baseline from its actual ratio.
func (c *computation) applyTargetGPR(r *YearResult, prev *YearResult, revenue float64, s *stock) {
	cfg := c.report.TargetGPR
	if !cfg.Enabled {
		return
	}
	if prev == nil {
		r.TargetGPR = mathutil.CalculatePercentage(revenue-s.cogs(), revenue)
		return
	}

	increment := cfg.SubsequentIncrement
	if prev.Index == 0 {
		increment = cfg.FirstYearIncrement
	}
	r.TargetGPR = prev.TargetGPR + increment

	if revenue <= 0 {
		r.note("target gross profit ratio skipped: no revenue")
		return
	}
	targetCOGS := revenue * (1 - r.TargetGPR/100)
	closeRM := s.openRM + s.purchases + s.freight + s.manufacturing +
		s.openWIP - s.closeWIP + s.openFG - s.closeFG - targetCOGS
	if closeRM < 0 {
		r.note("target gross profit ratio %.2f%% needs a negative closing raw material stock of %.2f", r.TargetGPR, closeRM)
	}
	s.closeRM = closeRM
}
