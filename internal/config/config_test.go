package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/project-report/pkg/loans"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
logging:
  level: info
  format: console
output:
  format: csv
tax:
  corporate_flat:
    rate: 25
report:
  name: Sample Works
  sector: industry
  tax_regime: corporate_flat
  opening_cash: 500
  years:
    - {id: fy2024, year: 2024, display: "2024-2025"}
    - {id: fy2025, year: 2025, display: "2025-2026"}
  groups:
    - name: Revenue
      page_type: operating
      section: revenue
      rows:
        - name: Domestic Sales
          data:
            - {year_id: fy2024, value: 1000}
            - {year_id: fy2025, value: 1200}
loans:
  - name: Machinery Loan
    amount: 1200
    interest_rate: 0
    tenure_months: 24
    start_year_id: fy2024
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Sample config",
			configPath: writeConfig(t, sampleConfig),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, conf)
			assert.Equal(t, "csv", conf.Output.Format)
			assert.Equal(t, "Sample Works", conf.Report.Name)
			assert.Equal(t, model.RegimeCorporateFlat, conf.Report.TaxRegime)
			require.NotNil(t, conf.Report.OpeningCash)
			assert.Equal(t, 500.0, *conf.Report.OpeningCash)
			require.Len(t, conf.Report.Groups, 1)
			assert.Equal(t, 1200.0, conf.Report.Groups[0].Rows[0].Value("fy2025"))
			require.Len(t, conf.Loans, 1)
			assert.Equal(t, 24, conf.Loans[0].TenureMonths)
		})
	}
}

func TestTaxOverridesKeepDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	defaults := tax.DefaultPolicy()
	assert.Equal(t, 25.0, conf.Tax.CorporateFlat.Rate)
	assert.Equal(t, defaults.CorporateFlat.CessRate, conf.Tax.CorporateFlat.CessRate)
	assert.Equal(t, defaults.PartnershipFlat, conf.Tax.PartnershipFlat)
	assert.Equal(t, defaults.IndividualProgressive.Slabs, conf.Tax.IndividualProgressive.Slabs)
}

func TestTaxSlabsReplaced(t *testing.T) {
	content := `
tax:
  individual_progressive:
    slabs:
      - {lower: 0, upper: 500000, rate: 0}
      - {lower: 500000, upper: 0, rate: 20}
report:
  years:
    - {id: fy2024, year: 2024}
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []tax.Slab{
		{Lower: 0, Upper: 500000, Rate: 0},
		{Lower: 500000, Upper: 0, Rate: 20},
	}, conf.Tax.IndividualProgressive.Slabs)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PROJECT_REPORT_LOGGING_LEVEL", "debug")
	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.Logging.Level)
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("report: [unclosed"))
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	report, err := conf.BuildReport(nil)
	require.NoError(t, err)
	require.Len(t, report.LoanSummaries, 2)
	assert.Empty(t, conf.Report.LoanSummaries, "configuration must not be modified")

	first, second := report.LoanSummaries[0], report.LoanSummaries[1]
	assert.Equal(t, "fy2024", first.YearID)
	assert.InDelta(t, 600, first.AnnualPrincipal, 0.01)
	assert.InDelta(t, 600, first.ClosingBalance, 0.01)
	assert.Equal(t, "fy2025", second.YearID)
	assert.InDelta(t, 0, second.ClosingBalance, 0.01)
}

func TestBuildReportBadLoan(t *testing.T) {
	conf := Configuration{
		Report: model.Report{Years: []model.YearSetting{{ID: "fy2024", Year: 2024}}},
		Loans:  []loans.TermLoan{{Name: "Broken", Amount: 100, TenureMonths: 12, StartYearID: "fy1999"}},
	}
	_, err := conf.BuildReport(nil)
	assert.ErrorContains(t, err, "failed to build loan schedule")
}

const projectionConfig = `
carry_opening_stocks: true
projections:
  - {row: domestic sales, base_year: 2024, percentage: 10}
  - {row: Purchases, group: Cost of Goods Sold, base_year: 2023, base_value: 400, percentage: 50}
report:
  years:
    - {id: fy2024, year: 2024}
    - {id: fy2025, year: 2025}
    - {id: fy2026, year: 2026}
  groups:
    - name: Revenue
      page_type: operating
      section: revenue
      rows:
        - name: Domestic Sales
          data:
            - {year_id: fy2024, value: 1000}
            - {year_id: fy2025, value: 5}
    - name: Cost of Goods Sold
      page_type: operating
      section: cost_of_sales
      rows:
        - name: Opening Stock
          data:
            - {year_id: fy2024, value: 50}
        - name: Purchases
        - name: Closing Stock
          data:
            - {year_id: fy2024, value: 80}
            - {year_id: fy2025, value: 90}
            - {year_id: fy2026, value: 100}
        - name: = Cost of Goods Sold
          is_total_row: true
`

func TestBuildReportProjections(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(projectionConfig))
	require.NoError(t, err)
	require.Len(t, conf.Projections, 2)
	require.NotNil(t, conf.Projections[1].BaseValue)
	assert.True(t, conf.CarryOpeningStocks)

	report, err := conf.BuildReport(nil)
	require.NoError(t, err)

	sales := report.Groups[0].Rows[0]
	assert.Equal(t, 1000.0, sales.Value("fy2024"))
	assert.Equal(t, 1100.0, sales.Value("fy2025"))
	assert.Equal(t, 1210.0, sales.Value("fy2026"))
	assert.Equal(t, 5.0, conf.Report.Groups[0].Rows[0].Value("fy2025"), "configuration must not be modified")

	cogs := report.Groups[1].Rows
	tests := []struct {
		name string
		row  int
		want []float64
	}{
		{name: "purchases from explicit base", row: 1, want: []float64{600, 900, 1350}},
		{name: "opening stock carried", row: 0, want: []float64{50, 80, 90}},
		{name: "group total filled", row: 3, want: []float64{570, 890, 1340}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, id := range []string{"fy2024", "fy2025", "fy2026"} {
				assert.InDelta(t, tt.want[i], cogs[tt.row].Value(id), 0.001, id)
			}
		})
	}
	assert.Empty(t, conf.Report.Groups[1].Rows[3].Data, "configuration must not be modified")
}

func TestBuildReportProjectionErrors(t *testing.T) {
	base := model.Report{
		Years: []model.YearSetting{{ID: "fy2024", Year: 2024}, {ID: "fy2025", Year: 2025}},
		Groups: []model.Group{{
			Name:     "Revenue",
			PageType: model.PageOperating,
			Section:  model.SectionRevenue,
			Rows:     []model.Row{{Name: "Sales"}},
		}},
	}

	tests := []struct {
		name       string
		projection Projection
		wantError  string
	}{
		{name: "unknown row", projection: Projection{Row: "Exports", BaseYear: 2024, Percentage: 5}, wantError: `failed to project row "Exports": no such row`},
		{name: "row outside named group", projection: Projection{Row: "Sales", Group: "Other Income", BaseYear: 2024}, wantError: "no such row"},
		{name: "growth wipes out the row", projection: Projection{Row: "Sales", BaseYear: 2024, Percentage: -100}, wantError: `failed to project row "Sales"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Configuration{Report: base, Projections: []Projection{tt.projection}}
			_, err := conf.BuildReport(nil)
			assert.ErrorContains(t, err, tt.wantError)
		})
	}
}

func TestValidateConfigurationProjectionBase(t *testing.T) {
	value := 100.0
	conf := Configuration{
		Report: model.Report{Years: []model.YearSetting{{ID: "fy2024", Year: 2024}}},
		Projections: []Projection{
			{Row: "Sales", BaseYear: 2020, Percentage: 5},
			{Row: "Sales", BaseYear: 2020, BaseValue: &value, Percentage: 5},
			{Row: "Sales", BaseYear: 2024, Percentage: 5},
		},
	}
	assert.Equal(t, []string{
		"Projection of 'Sales' has base year 2020 outside the report and no base_value - base is 0",
	}, conf.ValidateConfiguration())
}

func TestValidateConfiguration(t *testing.T) {
	conf := Configuration{
		Output: OutputConfig{Format: "xml"},
		Report: model.Report{
			Sector: "mining",
			Years:  []model.YearSetting{{ID: "fy2024", Year: 2024, Display: "2024-2025"}},
			WorkingCapital: model.WorkingCapital{
				ProposedLimit: -5,
			},
		},
		Loans: []loans.TermLoan{
			{Name: "Orphan", Amount: 100, TenureMonths: 12, StartYearID: "fy2030"},
			{Name: "Long", Amount: 100, TenureMonths: 36, StartYearID: "fy2024"},
		},
	}

	warnings := conf.ValidateConfiguration()
	assert.Equal(t, []string{
		"expected output format of pretty, csv or json, got xml",
		"Sector 'mining' is not recognised, using industry",
		"Working capital limits must not be negative",
		"Loan 'Orphan' starts in unknown year 'fy2030' and is skipped",
		"Loan 'Long' runs past the last report year (2026 > 2024) - closing balance stays outstanding",
	}, warnings)
}

func TestValidateConfigurationClean(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	assert.Empty(t, conf.ValidateConfiguration())
}

func TestWatchConfiguration(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	changes := make(chan *Configuration, 4)

	require.NoError(t, WatchConfiguration(path, nil, func(c *Configuration) { changes <- c }))
	first := <-changes
	assert.Equal(t, "Sample Works", first.Report.Name)

	updated := strings.Replace(sampleConfig, "Sample Works", "Renamed Works", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Report.Name == "Renamed Works" {
				return
			}
		case <-timeout:
			t.Fatal("configuration change was not picked up")
		}
	}
}

func TestWatchConfigurationMissingFile(t *testing.T) {
	err := WatchConfiguration(filepath.Join(t.TempDir(), "missing.yaml"), nil, func(*Configuration) {})
	assert.Error(t, err)
}
