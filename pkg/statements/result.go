package statements

import (
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/ratios"
	"github.com/iwvelando/project-report/pkg/tax"
)

// GhostRow is a balance sheet row that moved between years but fed no cash
// flow bucket. Its CashImpact is the amount missing from the cash flow.
type GhostRow struct {
	Row        string         `json:"row" yaml:"row"`
	Group      string         `json:"group" yaml:"group"`
	Bucket     model.CFBucket `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Delta      float64        `json:"delta" yaml:"delta"`
	CashImpact float64        `json:"cash_impact" yaml:"cash_impact"`
}

// RowFlow is a balance sheet row delta captured by a cash flow bucket.
type RowFlow struct {
	Row        string         `json:"row" yaml:"row"`
	Group      string         `json:"group" yaml:"group"`
	Bucket     model.CFBucket `json:"bucket" yaml:"bucket"`
	Delta      float64        `json:"delta" yaml:"delta"`
	CashImpact float64        `json:"cash_impact" yaml:"cash_impact"`
}

// Diagnostics carries the consistency checks of one year.
type Diagnostics struct {
	BalanceCheck       float64    `json:"balance_check" yaml:"balance_check"`
	Balanced           bool       `json:"balanced" yaml:"balanced"`
	CashReconciliation float64    `json:"cash_reconciliation" yaml:"cash_reconciliation"`
	OpeningMismatch    float64    `json:"opening_mismatch" yaml:"opening_mismatch"`
	GhostRows          []GhostRow `json:"ghost_rows,omitempty" yaml:"ghost_rows,omitempty"`
	Flows              []RowFlow  `json:"flows,omitempty" yaml:"flows,omitempty"`
	Notes              []string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// GhostImpact sums the cash impact of the year's ghost rows.
func (d Diagnostics) GhostImpact() float64 {
	total := 0.0
	for _, g := range d.GhostRows {
		total += g.CashImpact
	}
	return total
}

// YearResult is the completed statement set for one year. The typed fields
// carry forward into the next year; Values holds every labelled line.
type YearResult struct {
	Year  model.YearSetting `json:"year" yaml:"year"`
	Index int               `json:"index" yaml:"index"`

	Revenue          float64 `json:"revenue" yaml:"revenue"`
	COGS             float64 `json:"cogs" yaml:"cogs"`
	ClosingRM        float64 `json:"closing_raw_material" yaml:"closing_raw_material"`
	ClosingWIP       float64 `json:"closing_wip" yaml:"closing_wip"`
	ClosingFG        float64 `json:"closing_finished_goods" yaml:"closing_finished_goods"`
	TargetGPR        float64 `json:"target_gpr,omitempty" yaml:"target_gpr,omitempty"`
	Depreciation     float64 `json:"depreciation" yaml:"depreciation"`
	TermLoanInterest float64 `json:"term_loan_interest" yaml:"term_loan_interest"`
	WCInterest       float64 `json:"wc_interest" yaml:"wc_interest"`
	TotalInterest    float64 `json:"total_interest" yaml:"total_interest"`
	EBIT             float64 `json:"ebit" yaml:"ebit"`
	PBT              float64 `json:"pbt" yaml:"pbt"`
	PAT              float64 `json:"pat" yaml:"pat"`
	Dividends        float64 `json:"dividends" yaml:"dividends"`

	Tax      tax.Breakdown `json:"tax" yaml:"tax"`
	NetWorth NetWorth      `json:"net_worth" yaml:"net_worth"`

	GrossBlock    float64 `json:"gross_block" yaml:"gross_block"`
	NetBlock      float64 `json:"net_block" yaml:"net_block"`
	LoanClosing   float64 `json:"loan_closing" yaml:"loan_closing"`
	LoanPrincipal float64 `json:"loan_principal" yaml:"loan_principal"`
	WCPrincipal   float64 `json:"wc_principal" yaml:"wc_principal"`
	TotalAssets   float64 `json:"total_assets" yaml:"total_assets"`
	TotalLiab     float64 `json:"total_liabilities" yaml:"total_liabilities"`

	OpeningCash float64 `json:"opening_cash" yaml:"opening_cash"`
	NetCashFlow float64 `json:"net_cash_flow" yaml:"net_cash_flow"`
	ClosingCash float64 `json:"closing_cash" yaml:"closing_cash"`

	Values      map[string]float64 `json:"values" yaml:"values"`
	Ratios      ratios.Ratios      `json:"ratios" yaml:"ratios"`
	Diagnostics Diagnostics        `json:"diagnostics" yaml:"diagnostics"`
}

// ClosingStock is the sum of the three closing inventories.
func (y *YearResult) ClosingStock() float64 {
	return y.ClosingRM + y.ClosingWIP + y.ClosingFG
}

// Value returns the labelled line, 0 when absent.
func (y *YearResult) Value(label string) float64 {
	return y.Values[label]
}

func (y *YearResult) set(label string, v float64) {
	y.Values[label] = v
}

// Result is the output of one computation over a report.
type Result struct {
	Report   string          `json:"report,omitempty" yaml:"report,omitempty"`
	Regime   model.TaxRegime `json:"tax_regime" yaml:"tax_regime"`
	Strategy string          `json:"net_worth_strategy" yaml:"net_worth_strategy"`
	Years    []YearResult    `json:"years" yaml:"years"`
	Summary  ratios.Summary  `json:"summary" yaml:"summary"`
	Warnings []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Year returns the result for the year id, nil when absent.
func (r *Result) Year(id string) *YearResult {
	for i := range r.Years {
		if r.Years[i].Year.ID == id {
			return &r.Years[i]
		}
	}
	return nil
}

// Balanced reports whether every year's balance sheet balances.
func (r *Result) Balanced() bool {
	for _, y := range r.Years {
		if !y.Diagnostics.Balanced {
			return false
		}
	}
	return true
}
