// Package statements computes the multi-year operating statement, balance
// sheet and cash flow statement of a report. Years are computed strictly in
// chronological order; each year reads its own inputs and the result of the
// year before it, never a later one.
package statements

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/project-report/pkg/classify"
	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/depreciation"
	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/ratios"
	"github.com/iwvelando/project-report/pkg/tax"
	"go.uber.org/zap"
)

// Engine computes statements for reports under one tax policy. It holds no
// per-report state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	policy tax.Policy
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *zap.Logger, policy tax.Policy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, policy: policy}
}

// treatment is how the balance sheet phase handles a row.
type treatment int

const (
	// treatExplicit rows are replaced by a computed figure.
	treatExplicit treatment = iota
	// treatWide rows enter the page-wide sums as entered.
	treatWide
	// treatScanned rows are owned by the net worth strategy but their
	// movement still reaches the cash flow through the row scan.
	treatScanned
)

type bsRow struct {
	ref       *classify.RowRef
	treatment treatment
	bucket    model.CFBucket
}

// computation is the state of one Compute call.
type computation struct {
	logger   *zap.Logger
	policy   tax.Policy
	report   *model.Report
	idx      *classify.Index
	years    []model.YearSetting
	regime   model.TaxRegime
	strategy NetWorthStrategy
	filter   *classify.PageFilter
	bsRows   []bsRow
	// prefer holds each year's operating statement values; the wide sums and
	// the row scan both read balance sheet rows through it.
	prefer []map[string]float64

	register       map[string]depreciation.YearDepreciation
	hasRegister    bool
	existingBlock  float64
	blockAdditions map[string]float64
	wcInterest     float64
	wcPrincipal    float64
	openingCash    float64
	warnings       []string
}

// Compute runs the waterfall over every year of the report. The report is
// not modified and repeated calls return identical results.
func (e *Engine) Compute(report *model.Report) *Result {
	if report == nil {
		return &Result{}
	}
	logger := e.logger.With(zap.String("run_id", uuid.NewString()))
	c := newComputation(logger, e.policy, report)

	result := &Result{
		Report:   report.Name,
		Regime:   c.regime,
		Strategy: c.strategy.Name(),
		Years:    make([]YearResult, len(c.years)),
		Warnings: c.warnings,
	}

	var prev *YearResult
	yearRatios := make([]ratios.Ratios, 0, len(c.years))
	for i, y := range c.years {
		result.Years[i] = c.computeYear(i, y, prev)
		prev = &result.Years[i]
		yearRatios = append(yearRatios, prev.Ratios)

		if !prev.Diagnostics.Balanced {
			logger.Warn(fmt.Sprintf("balance sheet for %s is off by %.2f", y.Display, prev.Diagnostics.BalanceCheck),
				zap.String("op", "statements.Compute"),
				zap.Int("ghost_rows", len(prev.Diagnostics.GhostRows)),
			)
		}
	}
	result.Summary = ratios.Summarize(yearRatios)

	logger.Debug(fmt.Sprintf("computed %d years for %s", len(result.Years), report.Name),
		zap.String("op", "statements.Compute"),
		zap.String("strategy", result.Strategy),
	)
	return result
}

func newComputation(logger *zap.Logger, policy tax.Policy, report *model.Report) *computation {
	c := &computation{
		logger:   logger,
		policy:   policy,
		report:   report,
		idx:      classify.NewIndex(report),
		years:    model.SortYears(report.Years),
		regime:   report.TaxRegime.Normalize(),
		register: make(map[string]depreciation.YearDepreciation),

		blockAdditions: make(map[string]float64),
	}
	c.prefer = make([]map[string]float64, len(c.years))
	c.strategy = StrategyFor(c.regime)
	c.classifyBalanceSheet()
	c.prepareWorkingCapital()

	if len(report.Assets) > 0 && len(c.years) > 0 {
		schedule, skipped := depreciation.NewScheduler(logger).Schedule(report.Assets, c.years)
		for _, yd := range schedule {
			c.register[yd.YearID] = yd
		}
		c.hasRegister = true
		for _, name := range skipped {
			c.warnings = append(c.warnings, fmt.Sprintf("asset %q has no purchase year inside the report and was skipped", name))
		}
	}

	if len(c.years) > 0 {
		c.existingBlock = c.enteredBlock(c.years[0].ID)
		if !c.hasRegister {
			c.prepareBlockAdditions()
		}
		if report.OpeningCash != nil {
			c.openingCash = *report.OpeningCash
		} else {
			c.openingCash = c.idx.SumRole(c.years[0].ID, model.RoleCashBank)
		}
	}
	return c
}

// classifyBalanceSheet decides once how every balance sheet row is treated.
// The page-wide sums and the cash flow scan both read this table so a row is
// either in both or in neither. Rows replaced by a computed figure leave the
// wide sums one by one; a row elsewhere sharing their name still counts.
func (c *computation) classifyBalanceSheet() {
	c.filter = classify.NewPageFilter(nil, nil)

	for _, ref := range c.idx.Rows() {
		page := ref.Group.Group.PageType
		if page != model.PageAsset && page != model.PageLiability {
			continue
		}
		if !ref.Eligible() || ref.Group.Section == model.SectionTotals {
			continue
		}

		t := treatWide
		switch page {
		case model.PageAsset:
			if ref.Role == model.RoleCashBank || ref.Group.Bucket == model.BucketCashEquivalent ||
				ref.Role.IsInventory() || ref.Role == model.RoleGrossBlock || isBlockRow(ref) {
				t = treatExplicit
			}
		case model.PageLiability:
			switch {
			case ref.Role == model.RoleTaxProvision || ref.Role == model.RoleTermLoan || ref.Role == model.RoleWCBorrowing:
				t = treatExplicit
			case c.strategy.Consumes(ref.Role) && c.strategy.SkipsInScan(ref.Role):
				t = treatExplicit
			case c.strategy.Consumes(ref.Role):
				t = treatScanned
			}
		}
		if t != treatWide {
			c.filter.ExcludeRow(ref)
		}
		c.bsRows = append(c.bsRows, bsRow{
			ref:       ref,
			treatment: t,
			bucket:    classify.Bucket(ref, c.strategy.SkipsInScan),
		})
	}
}

// rowValue is the row's value in year i as the wide sums saw it, 0 before the
// first year.
func (c *computation) rowValue(ref *classify.RowRef, i int) float64 {
	if i < 0 {
		return 0
	}
	return classify.PreferredValue(ref, c.years[i].ID, c.prefer[i])
}

// isBlockRow reports whether a fixed asset row is represented by the computed
// block rather than entered as is. Tagged rows such as investments keep
// their own line.
func isBlockRow(ref *classify.RowRef) bool {
	if ref.Group.Section != model.SectionFixedAssets {
		return false
	}
	if ref.Role == model.RoleCapitalWIP || ref.Role == model.RoleIntangible {
		return false
	}
	_, tagged := classify.TagBucket(ref.Row.SystemTag)
	return !tagged
}

var blockNoise = []string{"depreciation", "net block", "total"}

// enteredBlock is the gross block entered on the balance sheet for the year:
// the gross block rows when any exist, else the plain fixed asset rows.
func (c *computation) enteredBlock(yearID string) float64 {
	if len(c.idx.RowsWithRole(model.RoleGrossBlock)) > 0 {
		return c.idx.SumRoleVisible(yearID, model.RoleGrossBlock)
	}
	total := 0.0
	for _, ref := range c.idx.Rows() {
		if ref.Group.Group.PageType != model.PageAsset || !isBlockRow(ref) || !ref.Eligible() {
			continue
		}
		noise := false
		for _, n := range blockNoise {
			if strings.Contains(ref.NormName, n) {
				noise = true
				break
			}
		}
		if !noise && ref.Role == model.RoleOther {
			total += ref.Value(yearID)
		}
	}
	return total
}

// prepareBlockAdditions books rises in the entered fixed asset rows as
// additions when there is no asset register. A rise is measured against the
// highest block entered in any earlier year.
func (c *computation) prepareBlockAdditions() {
	high := c.existingBlock
	for _, y := range c.years[1:] {
		entered := c.enteredBlock(y.ID)
		if entered > high+constants.GhostRowTolerance {
			c.blockAdditions[y.ID] = entered - high
			high = entered
		}
	}
}

// prepareWorkingCapital resolves the bank limits once. Existing limits only
// count for an enhancement or when they are listed loan by loan.
func (c *computation) prepareWorkingCapital() {
	wc := c.report.WorkingCapital
	switch {
	case len(wc.ExistingLoans) > 0:
		for _, l := range wc.ExistingLoans {
			c.wcPrincipal += l.SanctionedAmount
			c.wcInterest += mathutil.ApplyPercentage(l.SanctionedAmount, l.InterestRate)
		}
	case wc.RequirementType == model.WCEnhancement:
		c.wcPrincipal += wc.ExistingLimit
		c.wcInterest += mathutil.ApplyPercentage(wc.ExistingLimit, wc.ExistingRate)
	}
	c.wcPrincipal += wc.ProposedLimit
	c.wcInterest += mathutil.ApplyPercentage(wc.ProposedLimit, wc.ProposedRate)
}

// computeYear runs the three phases for one year.
func (c *computation) computeYear(i int, y model.YearSetting, prev *YearResult) YearResult {
	r := YearResult{
		Year:   y,
		Index:  i,
		Values: make(map[string]float64, len(ProfitAndLossLabels)+len(BalanceSheetLabels)+len(CashFlowLabels)),
	}

	c.profitAndLoss(&r, prev)
	c.balanceSheet(&r, prev)
	c.cashFlow(&r, prev)
	c.finalize(&r, prev)
	return r
}

func (r *YearResult) note(format string, args ...any) {
	r.Diagnostics.Notes = append(r.Diagnostics.Notes, fmt.Sprintf(format, args...))
}
