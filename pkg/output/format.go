// Package output renders computed statements for the terminal, spreadsheets
// and other programs.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/format"
	"github.com/iwvelando/project-report/pkg/statements"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Statement is a titled block of labelled lines.
type Statement struct {
	Title  string
	Labels []string
}

// Statements lists the rendered statements in order.
var Statements = []Statement{
	{Title: "Operating Statement", Labels: statements.ProfitAndLossLabels},
	{Title: "Balance Sheet", Labels: statements.BalanceSheetLabels},
	{Title: "Cash Flow Statement", Labels: statements.CashFlowLabels},
}

const labelWidth = 48
const columnWidth = 18

// present reports whether any year carries the label.
func present(result *statements.Result, label string) bool {
	for _, y := range result.Years {
		if _, ok := y.Values[label]; ok {
			return true
		}
	}
	return false
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, result *statements.Result) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "--- Project report %s (%s, %s net worth, %d years) ---\n",
		result.Report, result.Regime, result.Strategy, len(result.Years))

	for _, st := range Statements {
		_, _ = fmt.Fprintf(w, "\n%s\n", st.Title)
		writeHeader(w, result)
		for _, label := range st.Labels {
			if !present(result, label) {
				continue
			}
			_, _ = fmt.Fprintf(w, "%-*s", labelWidth, label)
			for _, y := range result.Years {
				_, _ = fmt.Fprintf(w, " | %*s", columnWidth, format.NumericCurrency(y.Value(label)))
			}
			_, _ = fmt.Fprintln(w)
		}
	}

	_, _ = fmt.Fprintf(w, "\nKey Ratios\n")
	writeHeader(w, result)
	for _, r := range ratioLines {
		_, _ = fmt.Fprintf(w, "%-*s", labelWidth, r.label)
		for _, y := range result.Years {
			_, _ = fmt.Fprintf(w, " | %*s", columnWidth, p.Sprintf("%.2f", r.value(y)))
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = p.Fprintf(w, "Average DSCR %.2f, minimum DSCR %.2f, average interest coverage %.2f\n",
		result.Summary.AverageDSCR, result.Summary.MinimumDSCR, result.Summary.AverageInterestCoverage)

	writeDiagnostics(w, result)
}

func writeHeader(w io.Writer, result *statements.Result) {
	_, _ = fmt.Fprintf(w, "%-*s", labelWidth, "")
	for _, y := range result.Years {
		_, _ = fmt.Fprintf(w, " | %*s", columnWidth, y.Year.Display)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, strings.Repeat("_", labelWidth+len(result.Years)*(columnWidth+3)))
}

type ratioLine struct {
	label string
	value func(statements.YearResult) float64
}

var ratioLines = []ratioLine{
	{"Debt Equity Ratio", func(y statements.YearResult) float64 { return y.Ratios.DebtEquity }},
	{"Current Ratio", func(y statements.YearResult) float64 { return y.Ratios.CurrentRatio }},
	{"Quick Ratio", func(y statements.YearResult) float64 { return y.Ratios.QuickRatio }},
	{"Fixed Asset Coverage", func(y statements.YearResult) float64 { return y.Ratios.FixedAssetCoverage }},
	{"Interest Coverage", func(y statements.YearResult) float64 { return y.Ratios.InterestCoverage }},
	{"DSCR", func(y statements.YearResult) float64 { return y.Ratios.DSCR }},
	{"ROCE (%)", func(y statements.YearResult) float64 { return y.Ratios.ROCE }},
	{"Net Profit Margin (%)", func(y statements.YearResult) float64 { return y.Ratios.NetProfitMargin }},
	{"Return on Net Worth (%)", func(y statements.YearResult) float64 { return y.Ratios.ReturnOnNetWorth }},
	{"Inventory Turnover", func(y statements.YearResult) float64 { return y.Ratios.InventoryTurnover }},
	{"Fixed Asset Turnover", func(y statements.YearResult) float64 { return y.Ratios.FixedAssetTurnover }},
	{"Asset Turnover", func(y statements.YearResult) float64 { return y.Ratios.AssetTurnover }},
}

func writeDiagnostics(w io.Writer, result *statements.Result) {
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	for _, y := range result.Years {
		d := y.Diagnostics
		if d.Balanced && len(d.GhostRows) == 0 && len(d.Notes) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\nDiagnostics for %s\n", y.Year.Display)
		if !d.Balanced {
			_, _ = fmt.Fprintf(w, "  balance sheet differs by %s\n", format.Currency(d.BalanceCheck))
		}
		for _, g := range d.GhostRows {
			_, _ = fmt.Fprintf(w, "  %s / %s moved %s outside the cash flow\n", g.Group, g.Row, format.Currency(g.Delta))
		}
		for _, n := range d.Notes {
			_, _ = fmt.Fprintf(w, "  %s\n", n)
		}
	}
}

// CsvFormat writes one line per statement label with a column per year.
func CsvFormat(w io.Writer, result *statements.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"statement", "line"}
	for _, y := range result.Years {
		header = append(header, y.Year.Display)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, st := range Statements {
		for _, label := range st.Labels {
			if !present(result, label) {
				continue
			}
			record := []string{st.Title, label}
			for _, y := range result.Years {
				record = append(record, strconv.FormatFloat(y.Value(label), 'f', 2, 64))
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv line %s: %w", label, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat writes the full result, diagnostics included.
func JSONFormat(w io.Writer, result *statements.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// Write renders the result in the named format.
func Write(w io.Writer, outputFormat string, result *statements.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	default:
		return fmt.Errorf("unknown output format %s", outputFormat)
	}
	return nil
}
