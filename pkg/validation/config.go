// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/model"
)

// ValidateLoanHorizon warns when a loan is still outstanding after the last
// report year.
func ValidateLoanHorizon(loanName string, startYear, tenureMonths, lastYear int) string {
	if tenureMonths <= 0 {
		return ""
	}
	endYear := startYear + (tenureMonths-1)/constants.MonthsPerYear
	if endYear > lastYear {
		return fmt.Sprintf("Loan '%s' runs past the last report year (%d > %d) - closing balance stays outstanding",
			loanName, endYear, lastYear)
	}
	return ""
}

// ValidateAsset checks an asset register entry.
func ValidateAsset(a model.Asset) []string {
	var warnings []string
	if a.Amount < 0 {
		warnings = append(warnings, fmt.Sprintf("Asset '%s' has a negative amount (%.2f)", a.Name, a.Amount))
	}
	if a.DepreciationRate < 0 || a.DepreciationRate > 100 {
		warnings = append(warnings, fmt.Sprintf("Asset '%s' has a depreciation rate outside 0-100%% (%.2f)", a.Name, a.DepreciationRate))
	}
	if a.PurchaseYearID == "" && a.PurchaseDate == "" && !a.IsExistingAsset {
		warnings = append(warnings, fmt.Sprintf("Asset '%s' has no purchase year or date", a.Name))
	}
	return warnings
}

// LoanConfig is the part of a term loan the validator reads.
type LoanConfig struct {
	Name         string
	StartYear    int
	TenureMonths int
}

// ReportValidator checks a report and its loans before computation.
type ReportValidator struct {
	Report *model.Report
	Loans  []LoanConfig
}

// ValidateAll validates the entire report and returns warnings
func (rv *ReportValidator) ValidateAll() []string {
	var warnings []string
	r := rv.Report
	if r == nil {
		return []string{"Report is empty"}
	}

	if len(r.Years) == 0 {
		warnings = append(warnings, "Report has no years")
	}
	known := make(map[string]bool, len(r.Years))
	lastYear := 0
	for _, y := range r.Years {
		if known[y.ID] {
			warnings = append(warnings, fmt.Sprintf("Year id '%s' is used more than once", y.ID))
		}
		known[y.ID] = true
		lastYear = max(lastYear, y.SortKey())
	}

	if r.TaxRegime != "" && !r.TaxRegime.IsKnown() {
		warnings = append(warnings, fmt.Sprintf("Tax regime '%s' is not recognised, using %s", r.TaxRegime, r.TaxRegime.Normalize()))
	}
	if len(r.Drawings) > 0 && !r.TaxRegime.IsPartnership() {
		warnings = append(warnings, "Drawings are ignored for a company; they only apply to partnerships and proprietorships")
	}

	for _, g := range r.Groups {
		for _, row := range g.Rows {
			for _, dp := range row.Data {
				if !known[dp.YearID] {
					warnings = append(warnings, fmt.Sprintf("Row '%s' in group '%s' has a value for unknown year '%s'", row.Name, g.Name, dp.YearID))
				}
			}
			if row.Role != model.RoleUnknown && !row.Role.IsValid() {
				warnings = append(warnings, fmt.Sprintf("Row '%s' in group '%s' has unknown role '%s'", row.Name, g.Name, row.Role))
			}
		}
	}

	for _, s := range r.LoanSummaries {
		if !known[s.YearID] {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' has a summary for unknown year '%s'", s.LoanName, s.YearID))
		}
	}
	for _, a := range r.Assets {
		warnings = append(warnings, ValidateAsset(a)...)
	}

	wc := r.WorkingCapital
	if wc.ProposedLimit > 0 && wc.ProposedRate <= 0 {
		warnings = append(warnings, "Working capital limit has no interest rate")
	}
	if wc.ExistingLimit > 0 && wc.RequirementType != model.WCEnhancement && len(wc.ExistingLoans) == 0 {
		warnings = append(warnings, fmt.Sprintf("Existing working capital limit is ignored for requirement type '%s' - use enhancement or list existing_loans", wc.RequirementType))
	}

	for _, loan := range rv.Loans {
		if warning := ValidateLoanHorizon(loan.Name, loan.StartYear, loan.TenureMonths, lastYear); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
