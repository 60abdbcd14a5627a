// Package testutil provides builders for test reports.
package testutil

import (
	"fmt"

	"github.com/iwvelando/project-report/pkg/model"
)

// ReportBuilder assembles a report over consecutive fiscal years. Row values
// are given positionally, one per year.
type ReportBuilder struct {
	report model.Report
}

// NewReport starts a report covering count fiscal years from startYear.
func NewReport(name string, startYear, count int) *ReportBuilder {
	b := &ReportBuilder{report: model.Report{Name: name, Sector: model.SectorIndustry}}
	for i := 0; i < count; i++ {
		y := startYear + i
		b.report.Years = append(b.report.Years, model.YearSetting{
			ID:      YearID(y),
			Year:    y,
			Display: fmt.Sprintf("%d-%02d", y, (y+1)%100),
			Type:    model.YearProjected,
		})
	}
	return b
}

// YearID is the id the builder gives the fiscal year starting in year.
func YearID(year int) string {
	return fmt.Sprintf("fy%d", year)
}

// ID returns the id of the i-th year.
func (b *ReportBuilder) ID(i int) string {
	return b.report.Years[i].ID
}

// Row builds a row carrying one value per year.
func (b *ReportBuilder) Row(name string, values ...float64) model.Row {
	row := model.Row{Name: name}
	for i, v := range values {
		if i >= len(b.report.Years) {
			break
		}
		row.Data = append(row.Data, model.DataPoint{YearID: b.ID(i), Value: v})
	}
	return row
}

// RoleRow builds a row with an explicit semantic role.
func (b *ReportBuilder) RoleRow(name string, role model.Role, values ...float64) model.Row {
	row := b.Row(name, values...)
	row.Role = role
	return row
}

// Group appends a group.
func (b *ReportBuilder) Group(name string, page model.PageType, section model.Section, rows ...model.Row) *ReportBuilder {
	b.report.Groups = append(b.report.Groups, model.Group{
		Name:     name,
		PageType: page,
		Section:  section,
		Rows:     rows,
	})
	return b
}

// BucketGroup appends a group with an explicit cash flow bucket.
func (b *ReportBuilder) BucketGroup(name string, page model.PageType, section model.Section, bucket model.CFBucket, rows ...model.Row) *ReportBuilder {
	b.Group(name, page, section, rows...)
	b.report.Groups[len(b.report.Groups)-1].CFBucket = bucket
	return b
}

// Regime sets the tax regime.
func (b *ReportBuilder) Regime(regime model.TaxRegime) *ReportBuilder {
	b.report.TaxRegime = regime
	return b
}

// OpeningCash sets an explicit opening cash balance.
func (b *ReportBuilder) OpeningCash(v float64) *ReportBuilder {
	b.report.OpeningCash = &v
	return b
}

// Loan adds one loan's yearly summaries. Balances are given per year as
// opening, interest, principal triples; the closing balance is derived.
func (b *ReportBuilder) Loan(name string, rows ...[3]float64) *ReportBuilder {
	for i, r := range rows {
		if i >= len(b.report.Years) {
			break
		}
		b.report.LoanSummaries = append(b.report.LoanSummaries, model.LoanYearSummary{
			YearID:          b.ID(i),
			LoanName:        name,
			OpeningBalance:  r[0],
			AnnualInterest:  r[1],
			AnnualPrincipal: r[2],
			ClosingBalance:  r[0] - r[2],
		})
	}
	return b
}

// Asset adds an asset to the register.
func (b *ReportBuilder) Asset(a model.Asset) *ReportBuilder {
	b.report.Assets = append(b.report.Assets, a)
	return b
}

// Drawing adds a drawings schedule entry for the i-th year.
func (b *ReportBuilder) Drawing(i int, amount float64) *ReportBuilder {
	b.report.Drawings = append(b.report.Drawings, model.Drawing{YearID: b.ID(i), Amount: amount})
	return b
}

// WorkingCapital sets the bank working capital limits.
func (b *ReportBuilder) WorkingCapital(wc model.WorkingCapital) *ReportBuilder {
	b.report.WorkingCapital = wc
	return b
}

// TargetGPR enables the target gross profit ratio mode.
func (b *ReportBuilder) TargetGPR(first, subsequent float64) *ReportBuilder {
	b.report.TargetGPR = model.TargetGPR{Enabled: true, FirstYearIncrement: first, SubsequentIncrement: subsequent}
	return b
}

// Build returns the report.
func (b *ReportBuilder) Build() *model.Report {
	r := b.report
	return &r
}

// FindGroup finds a group by name. Returns nil if not found.
func FindGroup(report *model.Report, name string) *model.Group {
	for i := range report.Groups {
		if report.Groups[i].Name == name {
			return &report.Groups[i]
		}
	}
	return nil
}
