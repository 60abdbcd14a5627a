package statements

import (
	"testing"

	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/tax"
	"github.com/iwvelando/project-report/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 0.01

func compute(t *testing.T, report *model.Report) *Result {
	t.Helper()
	result := NewEngine(nil, tax.DefaultPolicy()).Compute(report)
	require.NotNil(t, result)
	require.Len(t, result.Years, len(report.Years))
	return result
}

// simpleCompany has one revenue row, one expense row, one asset and share
// capital. Nothing else moves.
func simpleCompany() *model.Report {
	b := testutil.NewReport("Simple", 2024, 2)
	return b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1200)).
		Group("Administrative Expenses", model.PageOperating, model.SectionSGA, b.Row("Salaries", 300, 300)).
		Group("Share Capital", model.PageLiability, model.SectionNetWorth, b.Row("Equity Share Capital", 500, 500)).
		Asset(model.Asset{Name: "Machine", Amount: 500, DepreciationRate: 10, PurchaseYearID: b.ID(0)}).
		Build()
}

func TestTwoYearCashTieOut(t *testing.T) {
	result := compute(t, simpleCompany())
	y0, y1 := result.Years[0], result.Years[1]

	assert.InDelta(t, 50.0, y0.Depreciation, delta)
	assert.InDelta(t, 163.592, y0.Tax.Total, delta)
	assert.InDelta(t, 486.408, y0.PAT, delta)
	assert.InDelta(t, 700.0, y0.ClosingCash, delta)
	assert.InDelta(t, 1150.0, y0.TotalAssets, delta)
	assert.InDelta(t, 1150.0, y0.TotalLiab, delta)

	assert.InDelta(t, 45.0, y1.Depreciation, delta)
	assert.InDelta(t, 639.8136, y1.PAT, delta)
	assert.InDelta(t, y0.ClosingCash, y1.OpeningCash, delta)
	assert.InDelta(t, 1436.408, y1.ClosingCash, delta)
	assert.InDelta(t, y1.ClosingCash, y1.Value(LabelCashBank), delta)
	assert.InDelta(t, y1.Value(LabelClosingCash), y1.Value(LabelCashBank), delta)
	assert.InDelta(t, y1.TotalAssets, y1.TotalLiab, delta)
	assert.InDelta(t, 1126.2216, y1.NetWorth.Reserves, delta)

	assert.True(t, result.Balanced())
	assert.Empty(t, y1.Diagnostics.GhostRows)
	assert.Equal(t, "corporate", result.Strategy)
}

func TestCashReconciliation(t *testing.T) {
	result := compute(t, simpleCompany())

	for _, id := range []string{"fy2024", "fy2025"} {
		y := result.Year(id)
		require.NotNil(t, y, id)
		assert.InDelta(t, 0.0, y.Diagnostics.CashReconciliation, delta, id)
		assert.InDelta(t, y.Diagnostics.BalanceCheck, y.Diagnostics.CashReconciliation, delta, id)
	}
	assert.Nil(t, result.Year("fy1999"))
}

func TestRowNameSharedAcrossSections(t *testing.T) {
	b := testutil.NewReport("Shared names", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Fixed Assets", model.PageAsset, model.SectionFixedAssets, b.Row("Others", 0, 0)).
		Group("Current Liabilities", model.PageLiability, model.SectionCurrentLiabilities, b.Row("Others", 100, 250)).
		Build()

	result := compute(t, report)
	y0, y1 := result.Year(b.ID(0)), result.Year(b.ID(1))
	require.NotNil(t, y0)
	require.NotNil(t, y1)

	assert.InDelta(t, 100.0, y0.Value(LabelOtherCurrentLiab), delta)
	assert.InDelta(t, 250.0, y1.Value(LabelOtherCurrentLiab), delta)
	assert.InDelta(t, 150.0, y1.Value(LabelCFWorkingCapital), delta)
	require.Len(t, y1.Diagnostics.Flows, 1)
	assert.Equal(t, "Current Liabilities", y1.Diagnostics.Flows[0].Group)
	assert.Empty(t, y1.Diagnostics.GhostRows)
	assert.True(t, result.Balanced())
}

func TestEnteredBlockRiseBookedAsAdditions(t *testing.T) {
	b := testutil.NewReport("Block", 2024, 3)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 0, 0, 0)).
		Group("Fixed Assets", model.PageAsset, model.SectionFixedAssets, b.Row("Plant & Machinery", 1000, 1500, 0)).
		Build()

	result := compute(t, report)
	y0, y1, y2 := result.Years[0], result.Years[1], result.Years[2]

	assert.InDelta(t, 1000.0, y0.GrossBlock, delta)
	assert.InDelta(t, -1000.0, y0.Value(LabelCFCapex), delta)

	assert.InDelta(t, 1500.0, y1.GrossBlock, delta)
	assert.InDelta(t, 500.0, y1.Value(LabelAdditions), delta)
	assert.InDelta(t, -500.0, y1.Value(LabelCFCapex), delta)
	assert.Contains(t, y1.Diagnostics.Notes, "fixed asset rows rose by 500.00 in 2025-26, booked as additions")

	assert.InDelta(t, 1500.0, y2.GrossBlock, delta, "a blank year keeps the carried block")
	assert.InDelta(t, 0.0, y2.Value(LabelCFCapex), delta)
	assert.True(t, result.Balanced())
}

func TestCapexWithoutLoans(t *testing.T) {
	b := testutil.NewReport("Capex", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 0, 0)).
		Asset(model.Asset{Name: "Plant", Amount: 1000, DepreciationRate: 15, PurchaseYearID: b.ID(0)}).
		Asset(model.Asset{Name: "Furniture", Amount: 400, DepreciationRate: 10, PurchaseYearID: b.ID(0), IsSecondHalfPurchase: true}).
		Build()

	result := compute(t, report)
	y0 := result.Years[0]

	assert.InDelta(t, 1400.0, y0.GrossBlock, delta)
	assert.InDelta(t, 170.0, y0.Depreciation, delta)
	assert.InDelta(t, 1230.0, y0.NetBlock, delta)
	assert.InDelta(t, -1400.0, y0.Value(LabelCFCapex), delta)

	y1 := result.Years[1]
	assert.InDelta(t, y0.NetBlock, y1.GrossBlock, delta)
	assert.InDelta(t, 0.0, y1.Value(LabelCFCapex), delta)
	assert.True(t, result.Balanced())
}

func TestStockCarryForward(t *testing.T) {
	b := testutil.NewReport("Stock", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Cost of Goods Sold", model.PageOperating, model.SectionCostOfSales,
			b.Row("Opening Stock", 100, 999),
			b.Row("Purchases", 500, 500),
			b.Row("Closing Stock", 150, 180),
			b.Row("Power & Fuel", 20, 20),
		).
		Build()

	result := compute(t, report)
	y0, y1 := result.Years[0], result.Years[1]

	assert.InDelta(t, 100.0, y0.Value(LabelOpeningRM), delta)
	assert.InDelta(t, 150.0, y1.Value(LabelOpeningRM), delta, "opening stock comes from the prior closing stock")
	assert.InDelta(t, 20.0, y0.Value(LabelManufacturing), delta)
	assert.InDelta(t, 100+500-150+20, y0.COGS, delta)
	assert.InDelta(t, 150+500-180+20, y1.COGS, delta)
	assert.InDelta(t, -30.0, y1.Value(LabelCFInventories), delta)
	assert.True(t, result.Balanced())
}

func TestReconciliationLaw(t *testing.T) {
	b := testutil.NewReport("Law", 2024, 3)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1100, 1200)).
		Group("Current Assets", model.PageAsset, model.SectionCurrentAssets,
			b.Row("Cash & Bank Balance", 100, 0, 0),
			b.Row("Sundry Debtors", 200, 250, 300),
		).
		Group("Suspense", model.PageAsset, model.SectionOther, b.Row("Suspense Account", 0, 40, 40)).
		Group("Reserves and Surplus", model.PageLiability, model.SectionNetWorth, b.Row("General Reserve", 60, 0, 0)).
		Group("Current Liabilities", model.PageLiability, model.SectionCurrentLiabilities, b.Row("Sundry Creditors", 80, 90, 70)).
		Build()

	result := compute(t, report)
	y0 := result.Years[0]
	assert.InDelta(t, 100-60, y0.Diagnostics.OpeningMismatch, delta)
	assert.InDelta(t, 100.0, y0.OpeningCash, delta)

	cumulative := 0.0
	for _, y := range result.Years {
		cumulative += y.Diagnostics.GhostImpact()
		assert.InDelta(t, y0.Diagnostics.OpeningMismatch-cumulative, y.Diagnostics.BalanceCheck, delta, y.Year.ID)
	}

	y1 := result.Years[1]
	require.Len(t, y1.Diagnostics.GhostRows, 1)
	ghost := y1.Diagnostics.GhostRows[0]
	assert.Equal(t, "Suspense Account", ghost.Row)
	assert.InDelta(t, 40.0, ghost.Delta, delta)
	assert.InDelta(t, -40.0, ghost.CashImpact, delta)
	assert.Empty(t, result.Years[2].Diagnostics.GhostRows, "no movement, no ghost")
	assert.False(t, result.Balanced())
}

func TestOperatingDeltasCaptured(t *testing.T) {
	b := testutil.NewReport("Deltas", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Current Assets", model.PageAsset, model.SectionCurrentAssets, b.Row("Sundry Debtors", 200, 260)).
		Group("Current Liabilities", model.PageLiability, model.SectionCurrentLiabilities, b.Row("Sundry Creditors", 80, 100)).
		Group("Investments", model.PageAsset, model.SectionOtherAssets, b.Row("Fixed Deposits", 0, 50)).
		Build()

	result := compute(t, report)
	y1 := result.Years[1]

	assert.InDelta(t, -60+20, y1.Value(LabelCFWorkingCapital), delta)
	assert.InDelta(t, -50.0, y1.Value(LabelCFOtherInvesting), delta)
	assert.Len(t, y1.Diagnostics.Flows, 3)
	assert.Empty(t, y1.Diagnostics.GhostRows)
	assert.True(t, result.Balanced())
}

func TestExplicitRowsReplaced(t *testing.T) {
	b := testutil.NewReport("Loans", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Current Assets", model.PageAsset, model.SectionCurrentAssets,
			b.Row("Cash & Bank Balance", 0, 12345),
			b.Row("Raw Material Stock", 999, 999),
		).
		Group("Term Liabilities", model.PageLiability, model.SectionTermLiabilities, b.Row("Term Loan from Bank", 5000, 4000)).
		Group("Current Liabilities", model.PageLiability, model.SectionCurrentLiabilities, b.Row("Provision for Tax", 77, 77)).
		Loan("Machinery Loan", [3]float64{1000, 100, 200}, [3]float64{800, 80, 200}).
		Build()

	result := compute(t, report)
	y0, y1 := result.Years[0], result.Years[1]

	assert.InDelta(t, 800.0, y0.Value(LabelTermLoans), delta)
	assert.InDelta(t, 0.0, y0.Value(LabelOtherTermLiab), delta)
	assert.InDelta(t, 0.0, y0.Value(LabelInventories), delta)
	assert.InDelta(t, 100.0, y0.TermLoanInterest, delta)
	assert.InDelta(t, 600.0, y1.LoanClosing, delta)
	assert.InDelta(t, -200.0, y1.Value(LabelCFTermLoans), delta)
	assert.InDelta(t, 0.0, y1.Diagnostics.CashReconciliation, delta, "entered cash is replaced, not reconciled against")
	assert.True(t, result.Balanced())
}

func TestPartnershipNetWorth(t *testing.T) {
	b := testutil.NewReport("Firm", 2024, 2)
	report := b.
		Regime(model.RegimePartnershipFlat).
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Partners' Capital", model.PageLiability, model.SectionNetWorth, b.Row("Partners Capital", 1000, 0)).
		Drawing(0, 100).
		Drawing(1, 200).
		Build()

	result := compute(t, report)
	y0, y1 := result.Years[0], result.Years[1]

	assert.Equal(t, "partnership", result.Strategy)
	assert.InDelta(t, 312.0, y0.Tax.Total, delta)
	assert.InDelta(t, 688.0, y0.PAT, delta)
	assert.InDelta(t, 1000.0, y0.NetWorth.Capital, delta)
	assert.InDelta(t, 1588.0, y0.NetWorth.Total, delta)
	assert.InDelta(t, 1000.0, y0.Value(LabelCFCapitalIntro), delta)
	assert.InDelta(t, -100.0, y0.Value(LabelCFDrawings), delta)
	assert.InDelta(t, 1900.0, y0.ClosingCash, delta)

	assert.InDelta(t, 1588.0, y1.NetWorth.Capital, delta)
	assert.InDelta(t, 2076.0, y1.NetWorth.Total, delta)
	assert.InDelta(t, 0.0, y1.Value(LabelCFCapitalIntro), delta)
	assert.InDelta(t, 0.0, y0.Diagnostics.OpeningMismatch, delta)
	assert.True(t, result.Balanced())
}

func TestCorporateDividends(t *testing.T) {
	b := testutil.NewReport("Dividends", 2024, 2)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000)).
		Group("Appropriation", model.PageOperating, model.SectionAppropriation,
			b.Row("Proposed Dividend", 50, 50),
			b.Row("Dividend Tax", 5, 5),
		).
		Build()

	result := compute(t, report)
	y0 := result.Years[0]

	assert.InDelta(t, 55.0, y0.Dividends, delta)
	assert.InDelta(t, y0.PAT-55, y0.NetWorth.Reserves, delta)
	assert.InDelta(t, -55.0, y0.Value(LabelCFDividends), delta)
	assert.True(t, result.Balanced())
}

func TestTargetGPR(t *testing.T) {
	b := testutil.NewReport("Target", 2024, 3)
	report := b.
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 1000, 1000, 1000)).
		Group("Cost of Goods Sold", model.PageOperating, model.SectionCostOfSales,
			b.Row("Opening Stock", 0, 0, 0),
			b.Row("Purchases", 600, 600, 600),
			b.Row("Closing Stock", 0, 0, 0),
		).
		TargetGPR(5, 2).
		Build()

	result := compute(t, report)

	tests := []struct {
		year      int
		target    float64
		closingRM float64
	}{
		{year: 0, target: 40, closingRM: 0},
		{year: 1, target: 45, closingRM: 50},
		{year: 2, target: 47, closingRM: 120},
	}
	for _, tt := range tests {
		y := result.Years[tt.year]
		assert.InDelta(t, tt.target, y.TargetGPR, delta)
		assert.InDelta(t, tt.closingRM, y.ClosingRM, delta)
		assert.InDelta(t, tt.target, y.Value(LabelGPR), delta)
	}
	assert.True(t, result.Balanced())
}

func TestTargetGPRWithoutRevenue(t *testing.T) {
	b := testutil.NewReport("Target", 2024, 2)
	report := b.
		Group("Cost of Goods Sold", model.PageOperating, model.SectionCostOfSales,
			b.Row("Purchases", 600, 600),
			b.Row("Closing Stock", 100, 100),
		).
		TargetGPR(5, 2).
		Build()

	result := compute(t, report)
	y1 := result.Years[1]
	assert.InDelta(t, 100.0, y1.ClosingRM, delta, "entered closing stock kept")
	assert.NotEmpty(t, y1.Diagnostics.Notes)
}

func TestWorkingCapitalInterest(t *testing.T) {
	tests := []struct {
		name      string
		wc        model.WorkingCapital
		interest  float64
		principal float64
	}{
		{
			name:      "new limit ignores existing",
			wc:        model.WorkingCapital{RequirementType: model.WCNew, ExistingLimit: 500, ExistingRate: 10, ProposedLimit: 1000, ProposedRate: 9},
			interest:  90,
			principal: 1000,
		},
		{
			name:      "enhancement adds existing",
			wc:        model.WorkingCapital{RequirementType: model.WCEnhancement, ExistingLimit: 500, ExistingRate: 10, ProposedLimit: 1000, ProposedRate: 9},
			interest:  140,
			principal: 1500,
		},
		{
			name: "itemised existing loans",
			wc: model.WorkingCapital{
				RequirementType: model.WCNew,
				ProposedLimit:   1000,
				ProposedRate:    9,
				ExistingLoans: []model.ExistingWCLoan{
					{LenderName: "Bank A", SanctionedAmount: 200, InterestRate: 10},
					{LenderName: "Bank B", SanctionedAmount: 300, InterestRate: 12},
				},
			},
			interest:  90 + 20 + 36,
			principal: 1500,
		},
		{
			name: "no working capital",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewReport("WC", 2024, 2)
			report := b.
				Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 5000, 5000)).
				WorkingCapital(tt.wc).
				Build()

			result := compute(t, report)
			for _, y := range result.Years {
				assert.InDelta(t, tt.interest, y.WCInterest, delta)
				assert.InDelta(t, tt.principal, y.WCPrincipal, delta)
			}
			assert.InDelta(t, tt.principal, result.Years[0].Value(LabelCFWCBorrowings), delta)
			assert.InDelta(t, 0.0, result.Years[1].Value(LabelCFWCBorrowings), delta)
			assert.True(t, result.Balanced())
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	report := simpleCompany()
	engine := NewEngine(nil, tax.DefaultPolicy())

	first := engine.Compute(report)
	second := engine.Compute(report)
	assert.Equal(t, first, second)
	assert.Equal(t, simpleCompany(), report, "input untouched")
}

func TestUnsortedYears(t *testing.T) {
	report := simpleCompany()
	report.Years[0], report.Years[1] = report.Years[1], report.Years[0]

	result := compute(t, report)
	assert.Equal(t, "fy2024", result.Years[0].Year.ID)
	assert.True(t, result.Balanced())
}

func TestComputeEmpty(t *testing.T) {
	engine := NewEngine(nil, tax.DefaultPolicy())

	assert.Empty(t, engine.Compute(nil).Years)
	result := engine.Compute(&model.Report{})
	assert.Empty(t, result.Years)
	assert.Equal(t, model.RegimeCorporateFlat, result.Regime)
}

func TestSkippedAssetWarning(t *testing.T) {
	report := simpleCompany()
	report.Assets = append(report.Assets, model.Asset{Name: "Orphan", Amount: 100, DepreciationRate: 10, PurchaseYearID: "fy1999"})

	result := compute(t, report)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Orphan")
}

func BenchmarkCompute(b *testing.B) {
	rb := testutil.NewReport("Bench", 2020, 10)
	values := func(base float64) []float64 {
		v := make([]float64, 10)
		for i := range v {
			v[i] = base * float64(i+1)
		}
		return v
	}
	report := rb.
		Group("Revenue", model.PageOperating, model.SectionRevenue, rb.Row("Sales", values(1000)...)).
		Group("Cost of Goods Sold", model.PageOperating, model.SectionCostOfSales,
			rb.Row("Purchases", values(400)...),
			rb.Row("Closing Stock", values(50)...),
		).
		Group("Current Assets", model.PageAsset, model.SectionCurrentAssets, rb.Row("Sundry Debtors", values(100)...)).
		Group("Current Liabilities", model.PageLiability, model.SectionCurrentLiabilities, rb.Row("Sundry Creditors", values(60)...)).
		Asset(model.Asset{Name: "Plant", Amount: 5000, DepreciationRate: 15, PurchaseYearID: rb.ID(0)}).
		Build()

	engine := NewEngine(nil, tax.DefaultPolicy())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Compute(report)
	}
}
