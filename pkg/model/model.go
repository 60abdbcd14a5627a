// Package model defines the in-memory report representation consumed by the
// statement engine: fiscal years, groups of rows with per-year values and the
// collaborator inputs (loan summaries, asset register, drawings).
package model

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
)

// YearType tags a fiscal year as historical or forecast.
type YearType string

const (
	YearActual      YearType = "Actual"
	YearProvisional YearType = "Provisional"
	YearProjected   YearType = "Projected"
)

// YearSetting is one fiscal period. Year is the calendar year in which the
// fiscal period starts.
type YearSetting struct {
	ID      string   `yaml:"id" json:"id" mapstructure:"id"`
	Year    int      `yaml:"year" json:"year" mapstructure:"year"`
	Display string   `yaml:"display" json:"display" mapstructure:"display"`
	Type    YearType `yaml:"type,omitempty" json:"type,omitempty" mapstructure:"type"`
}

var fourDigits = regexp.MustCompile(`\d{4}`)

// SortKey extracts the first 4-digit number of the display label, falling
// back to the numeric Year.
func (y YearSetting) SortKey() int {
	if match := fourDigits.FindString(y.Display); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			return n
		}
	}
	return y.Year
}

// SortYears returns a copy of years in chronological order.
func SortYears(years []YearSetting) []YearSetting {
	sorted := make([]YearSetting, len(years))
	copy(sorted, years)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortKey() < sorted[j].SortKey()
	})
	return sorted
}

// PageType names the statement a group belongs to.
type PageType string

const (
	PageOperating PageType = "operating"
	PageAsset     PageType = "asset"
	PageLiability PageType = "liability"
)

// CFBucket is the cash flow section a balance sheet delta is attributed to.
type CFBucket string

const (
	BucketNone           CFBucket = ""
	BucketOperating      CFBucket = "operating"
	BucketInvesting      CFBucket = "investing"
	BucketFinancing      CFBucket = "financing"
	BucketCashEquivalent CFBucket = "cash_equivalent"
	BucketSkip           CFBucket = "skip"
)

// Nature sets the sign convention of a group's balance sheet deltas.
type Nature string

const (
	NatureAsset      Nature = "asset"
	NatureLiability  Nature = "liability"
	NaturePnLIncome  Nature = "pnl_income"
	NaturePnLExpense Nature = "pnl_expense"
	NaturePnLNonCash Nature = "pnl_noncash"
)

// DataPoint is one row value for one fiscal year.
type DataPoint struct {
	YearID string  `yaml:"year_id" json:"year_id" mapstructure:"year_id"`
	Value  float64 `yaml:"value" json:"value" mapstructure:"value"`
}

// Row is a single line item.
type Row struct {
	ID           string      `yaml:"id,omitempty" json:"id,omitempty" mapstructure:"id"`
	Name         string      `yaml:"name" json:"name" mapstructure:"name"`
	Role         Role        `yaml:"role,omitempty" json:"role,omitempty" mapstructure:"role"`
	SystemTag    string      `yaml:"system_tag,omitempty" json:"system_tag,omitempty" mapstructure:"system_tag"`
	IsHidden     bool        `yaml:"is_hidden,omitempty" json:"is_hidden,omitempty" mapstructure:"is_hidden"`
	IsCalculated bool        `yaml:"is_calculated,omitempty" json:"is_calculated,omitempty" mapstructure:"is_calculated"`
	IsTotalRow   bool        `yaml:"is_total_row,omitempty" json:"is_total_row,omitempty" mapstructure:"is_total_row"`
	Data         []DataPoint `yaml:"data,omitempty" json:"data,omitempty" mapstructure:"data"`
}

// Value returns the row's value for the year, 0 when absent.
func (r Row) Value(yearID string) float64 {
	for _, dp := range r.Data {
		if dp.YearID == yearID {
			return dp.Value
		}
	}
	return 0
}

// SetValue replaces or appends the data point for the year.
func (r *Row) SetValue(yearID string, value float64) {
	for i := range r.Data {
		if r.Data[i].YearID == yearID {
			r.Data[i].Value = value
			return
		}
	}
	r.Data = append(r.Data, DataPoint{YearID: yearID, Value: value})
}

// Group is a named statement section holding ordered rows.
type Group struct {
	ID        string   `yaml:"id,omitempty" json:"id,omitempty" mapstructure:"id"`
	Name      string   `yaml:"name" json:"name" mapstructure:"name"`
	PageType  PageType `yaml:"page_type" json:"page_type" mapstructure:"page_type"`
	Section   Section  `yaml:"section,omitempty" json:"section,omitempty" mapstructure:"section"`
	SystemTag string   `yaml:"system_tag,omitempty" json:"system_tag,omitempty" mapstructure:"system_tag"`
	CFBucket  CFBucket `yaml:"cf_bucket,omitempty" json:"cf_bucket,omitempty" mapstructure:"cf_bucket"`
	Nature    Nature   `yaml:"nature,omitempty" json:"nature,omitempty" mapstructure:"nature"`
	Rows      []Row    `yaml:"rows" json:"rows" mapstructure:"rows"`
}

// IsAssetNature reports whether deltas of this group's rows are sign-flipped
// in the cash flow statement. The page type decides when nature is unset.
func (g Group) IsAssetNature() bool {
	switch g.Nature {
	case NatureAsset:
		return true
	case NatureLiability:
		return false
	}
	return g.PageType == PageAsset
}

// LoanYearSummary is the per-year aggregate of one term loan's schedule.
type LoanYearSummary struct {
	YearID          string  `yaml:"year_id" json:"year_id" mapstructure:"year_id"`
	LoanName        string  `yaml:"loan_name,omitempty" json:"loan_name,omitempty" mapstructure:"loan_name"`
	IsNew           bool    `yaml:"is_new,omitempty" json:"is_new,omitempty" mapstructure:"is_new"`
	OpeningBalance  float64 `yaml:"opening_balance" json:"opening_balance" mapstructure:"opening_balance"`
	AnnualInterest  float64 `yaml:"annual_interest" json:"annual_interest" mapstructure:"annual_interest"`
	AnnualPrincipal float64 `yaml:"annual_principal" json:"annual_principal" mapstructure:"annual_principal"`
	ClosingBalance  float64 `yaml:"closing_balance" json:"closing_balance" mapstructure:"closing_balance"`
	AverageEMI      float64 `yaml:"average_emi,omitempty" json:"average_emi,omitempty" mapstructure:"average_emi"`
}

// WCRequirement distinguishes a fresh working capital limit from an
// enhancement of an existing one.
type WCRequirement string

const (
	WCNew         WCRequirement = "new"
	WCEnhancement WCRequirement = "enhancement"
)

// ExistingWCLoan is one itemised working capital facility already sanctioned.
type ExistingWCLoan struct {
	LenderName       string  `yaml:"lender_name" json:"lender_name" mapstructure:"lender_name"`
	SanctionedAmount float64 `yaml:"sanctioned_amount" json:"sanctioned_amount" mapstructure:"sanctioned_amount"`
	InterestRate     float64 `yaml:"interest_rate" json:"interest_rate" mapstructure:"interest_rate"`
}

// WorkingCapital holds the working capital limits. Rates are annual percentages.
type WorkingCapital struct {
	RequirementType WCRequirement    `yaml:"requirement_type,omitempty" json:"requirement_type,omitempty" mapstructure:"requirement_type"`
	ExistingLimit   float64          `yaml:"existing_limit,omitempty" json:"existing_limit,omitempty" mapstructure:"existing_limit"`
	ExistingRate    float64          `yaml:"existing_rate,omitempty" json:"existing_rate,omitempty" mapstructure:"existing_rate"`
	ProposedLimit   float64          `yaml:"proposed_limit,omitempty" json:"proposed_limit,omitempty" mapstructure:"proposed_limit"`
	ProposedRate    float64          `yaml:"proposed_rate,omitempty" json:"proposed_rate,omitempty" mapstructure:"proposed_rate"`
	ExistingLoans   []ExistingWCLoan `yaml:"existing_loans,omitempty" json:"existing_loans,omitempty" mapstructure:"existing_loans"`
}

// TargetGPR configures gross profit ratio targets in percentage points.
type TargetGPR struct {
	Enabled             bool    `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	FirstYearIncrement  float64 `yaml:"first_year_increment" json:"first_year_increment" mapstructure:"first_year_increment"`
	SubsequentIncrement float64 `yaml:"subsequent_increment" json:"subsequent_increment" mapstructure:"subsequent_increment"`
}

// Asset is one asset register entry. DepreciationRate is an annual WDV
// percentage. PurchaseDate uses constants.DateLayout.
type Asset struct {
	Name                 string  `yaml:"name" json:"name" mapstructure:"name"`
	Amount               float64 `yaml:"amount" json:"amount" mapstructure:"amount"`
	DepreciationRate     float64 `yaml:"depreciation_rate" json:"depreciation_rate" mapstructure:"depreciation_rate"`
	PurchaseYearID       string  `yaml:"purchase_year_id,omitempty" json:"purchase_year_id,omitempty" mapstructure:"purchase_year_id"`
	PurchaseDate         string  `yaml:"purchase_date,omitempty" json:"purchase_date,omitempty" mapstructure:"purchase_date"`
	IsExistingAsset      bool    `yaml:"is_existing_asset,omitempty" json:"is_existing_asset,omitempty" mapstructure:"is_existing_asset"`
	IsSecondHalfPurchase bool    `yaml:"is_second_half_purchase,omitempty" json:"is_second_half_purchase,omitempty" mapstructure:"is_second_half_purchase"`
}

// Drawing is an owner withdrawal booked against a fiscal year.
type Drawing struct {
	YearID string  `yaml:"year_id" json:"year_id" mapstructure:"year_id"`
	Name   string  `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Amount float64 `yaml:"amount" json:"amount" mapstructure:"amount"`
}

// Report is the complete, immutable input of one computation.
type Report struct {
	Name           string            `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Sector         Sector            `yaml:"sector,omitempty" json:"sector,omitempty" mapstructure:"sector"`
	TaxRegime      TaxRegime         `yaml:"tax_regime,omitempty" json:"tax_regime,omitempty" mapstructure:"tax_regime"`
	OpeningCash    *float64          `yaml:"opening_cash,omitempty" json:"opening_cash,omitempty" mapstructure:"opening_cash"`
	Years          []YearSetting     `yaml:"years" json:"years" mapstructure:"years"`
	Groups         []Group           `yaml:"groups" json:"groups" mapstructure:"groups"`
	LoanSummaries  []LoanYearSummary `yaml:"loan_summaries,omitempty" json:"loan_summaries,omitempty" mapstructure:"loan_summaries"`
	Assets         []Asset           `yaml:"assets,omitempty" json:"assets,omitempty" mapstructure:"assets"`
	Drawings       []Drawing         `yaml:"drawings,omitempty" json:"drawings,omitempty" mapstructure:"drawings"`
	WorkingCapital WorkingCapital    `yaml:"working_capital,omitempty" json:"working_capital,omitempty" mapstructure:"working_capital"`
	TargetGPR      TargetGPR         `yaml:"target_gpr,omitempty" json:"target_gpr,omitempty" mapstructure:"target_gpr"`
}

// Clone returns a copy of the report that shares no slices with r, so rows
// of the copy can be filled in without touching the original.
func (r Report) Clone() Report {
	out := r
	if r.OpeningCash != nil {
		cash := *r.OpeningCash
		out.OpeningCash = &cash
	}
	out.Years = slices.Clone(r.Years)
	out.LoanSummaries = slices.Clone(r.LoanSummaries)
	out.Assets = slices.Clone(r.Assets)
	out.Drawings = slices.Clone(r.Drawings)
	out.WorkingCapital.ExistingLoans = slices.Clone(r.WorkingCapital.ExistingLoans)
	if r.Groups != nil {
		out.Groups = make([]Group, len(r.Groups))
		for gi, g := range r.Groups {
			g.Rows = slices.Clone(g.Rows)
			for ri := range g.Rows {
				g.Rows[ri].Data = slices.Clone(g.Rows[ri].Data)
			}
			out.Groups[gi] = g
		}
	}
	return out
}

// LoansForYear returns every loan summary booked against the year.
func (r Report) LoansForYear(yearID string) []LoanYearSummary {
	var out []LoanYearSummary
	for _, s := range r.LoanSummaries {
		if s.YearID == yearID {
			out = append(out, s)
		}
	}
	return out
}

// DrawingsForYear totals the drawing transactions of the year.
func (r Report) DrawingsForYear(yearID string) float64 {
	total := 0.0
	for _, d := range r.Drawings {
		if d.YearID == yearID {
			total += d.Amount
		}
	}
	return total
}
