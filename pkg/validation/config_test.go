package validation

import (
	"testing"

	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestValidateLoanHorizon(t *testing.T) {
	tests := []struct {
		name       string
		startYear  int
		tenure     int
		lastYear   int
		expectWarn bool
	}{
		{name: "Loan ends inside the report", startYear: 2024, tenure: 36, lastYear: 2028},
		{name: "Loan ends in the last year", startYear: 2024, tenure: 60, lastYear: 2028},
		{name: "Loan runs past the report", startYear: 2024, tenure: 61, lastYear: 2028, expectWarn: true},
		{name: "No tenure", startYear: 2024, tenure: 0, lastYear: 2024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateLoanHorizon("Machinery", tt.startYear, tt.tenure, tt.lastYear)
			if tt.expectWarn {
				assert.Contains(t, warning, "Loan 'Machinery' runs past the last report year")
			} else {
				assert.Empty(t, warning)
			}
		})
	}
}

func TestValidateAsset(t *testing.T) {
	assert.Empty(t, ValidateAsset(model.Asset{Name: "Plant", Amount: 100, DepreciationRate: 15, PurchaseYearID: "fy2024"}))
	assert.Len(t, ValidateAsset(model.Asset{Name: "Bad", Amount: -1, DepreciationRate: 150}), 3)
	assert.Empty(t, ValidateAsset(model.Asset{Name: "Old", Amount: 100, DepreciationRate: 10, IsExistingAsset: true}))
}

func TestReportValidator(t *testing.T) {
	b := testutil.NewReport("Checks", 2024, 2)
	stray := b.Row("Sales", 100)
	stray.Data = append(stray.Data, model.DataPoint{YearID: "fy2030", Value: 1})
	badRole := b.Row("Mystery")
	badRole.Role = "bogus"

	report := b.
		Regime("sole_trader").
		Group("Revenue", model.PageOperating, model.SectionRevenue, stray, badRole).
		Drawing(0, 10).
		WorkingCapital(model.WorkingCapital{ProposedLimit: 1000}).
		Build()
	report.LoanSummaries = []model.LoanYearSummary{{YearID: "fy1999", LoanName: "Old"}}
	report.Years = append(report.Years, report.Years[0])

	v := ReportValidator{
		Report: report,
		Loans:  []LoanConfig{{Name: "Long", StartYear: 2024, TenureMonths: 120}},
	}
	warnings := v.ValidateAll()

	expected := []string{
		"Year id 'fy2024' is used more than once",
		"Tax regime 'sole_trader' is not recognised, using corporate_flat",
		"Drawings are ignored for a company; they only apply to partnerships and proprietorships",
		"Row 'Sales' in group 'Revenue' has a value for unknown year 'fy2030'",
		"Row 'Mystery' in group 'Revenue' has unknown role 'bogus'",
		"Loan 'Old' has a summary for unknown year 'fy1999'",
		"Working capital limit has no interest rate",
		"Loan 'Long' runs past the last report year (2033 > 2025) - closing balance stays outstanding",
	}
	assert.Equal(t, expected, warnings)
}

func TestReportValidatorExistingLimit(t *testing.T) {
	tests := []struct {
		name string
		wc   model.WorkingCapital
		want []string
	}{
		{
			name: "new requirement drops the existing limit",
			wc:   model.WorkingCapital{RequirementType: model.WCNew, ExistingLimit: 500, ExistingRate: 9},
			want: []string{"Existing working capital limit is ignored for requirement type 'new' - use enhancement or list existing_loans"},
		},
		{
			name: "enhancement keeps the existing limit",
			wc:   model.WorkingCapital{RequirementType: model.WCEnhancement, ExistingLimit: 500, ExistingRate: 9},
		},
		{
			name: "itemised loans take over",
			wc: model.WorkingCapital{
				RequirementType: model.WCNew,
				ExistingLimit:   500,
				ExistingLoans:   []model.ExistingWCLoan{{SanctionedAmount: 500, InterestRate: 9}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewReport("Limits", 2024, 2)
			report := b.
				Regime(model.RegimePartnershipFlat).
				Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 100, 200)).
				WorkingCapital(tt.wc).
				Build()

			v := ReportValidator{Report: report}
			if tt.want == nil {
				assert.Empty(t, v.ValidateAll())
				return
			}
			assert.Equal(t, tt.want, v.ValidateAll())
		})
	}
}

func TestReportValidatorClean(t *testing.T) {
	b := testutil.NewReport("Clean", 2024, 2)
	report := b.
		Regime(model.RegimePartnershipFlat).
		Group("Revenue", model.PageOperating, model.SectionRevenue, b.Row("Sales", 100, 200)).
		Drawing(1, 10).
		Build()

	v := ReportValidator{Report: report}
	assert.Empty(t, v.ValidateAll())
	assert.Equal(t, []string{"Report is empty"}, (&ReportValidator{}).ValidateAll())
}
