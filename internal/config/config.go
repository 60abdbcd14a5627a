// Package config defines the configuration file layout and the functions for
// loading it, validating it and turning it into the engine's report.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/loans"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/projection"
	"github.com/iwvelando/project-report/pkg/tax"
	"github.com/iwvelando/project-report/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Configuration holds all configuration for project-report.
type Configuration struct {
	Logging LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
	Tax     tax.Policy       `yaml:"tax,omitempty" mapstructure:"tax"`
	Report  model.Report     `yaml:"report" mapstructure:"report"`
	Loans   []loans.TermLoan `yaml:"loans,omitempty" mapstructure:"loans"`

	Projections        []Projection `yaml:"projections,omitempty" mapstructure:"projections"`
	CarryOpeningStocks bool         `yaml:"carry_opening_stocks,omitempty" mapstructure:"carry_opening_stocks"`
}

// Projection grows a row by a fixed percentage every year after BaseYear.
// The base is the row's own value in BaseYear unless BaseValue is set.
type Projection struct {
	Row        string   `yaml:"row" mapstructure:"row"`
	Group      string   `yaml:"group,omitempty" mapstructure:"group"` // optional, narrows the row lookup
	BaseYear   int      `yaml:"base_year" mapstructure:"base_year"`
	BaseValue  *float64 `yaml:"base_value,omitempty" mapstructure:"base_value"`
	Percentage float64  `yaml:"percentage" mapstructure:"percentage"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return decode(v)
}

// decode unmarshals on top of the default tax policy so a file only needs to
// name the rates it changes. A configured slab list replaces the default one.
func decode(v *viper.Viper) (*Configuration, error) {
	configuration := Configuration{Tax: tax.DefaultPolicy()}
	if v.IsSet("tax.individual_progressive.slabs") {
		configuration.Tax.IndividualProgressive.Slabs = nil
	}
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &configuration, nil
}

// WatchConfiguration loads the file and calls onChange with it, then again
// every time the file is written. Reload failures are logged and skipped.
func WatchConfiguration(configPath string, logger *zap.Logger, onChange func(*Configuration)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	conf, err := decode(v)
	if err != nil {
		return err
	}
	onChange(conf)

	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		logger.Info(fmt.Sprintf("configuration %s changed, recomputing", e.Name),
			zap.String("op", "config.WatchConfiguration"),
		)
		conf, err := decode(v)
		if err != nil {
			logger.Error("failed to reload configuration",
				zap.String("op", "config.WatchConfiguration"),
				zap.Error(err),
			)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if c.Report.Sector != "" && !model.Sector(strings.ToLower(strings.TrimSpace(string(c.Report.Sector)))).IsValid() {
		warnings = append(warnings, fmt.Sprintf("Sector '%s' is not recognised, using %s", c.Report.Sector, model.SectorIndustry))
	}
	if c.Report.WorkingCapital.ProposedLimit < 0 || c.Report.WorkingCapital.ExistingLimit < 0 {
		warnings = append(warnings, "Working capital limits must not be negative")
	}

	startYears := make(map[string]int, len(c.Report.Years))
	for _, y := range c.Report.Years {
		startYears[y.ID] = y.SortKey()
	}
	var loanConfigs []validation.LoanConfig
	for _, loan := range c.Loans {
		start, ok := startYears[loan.StartYearID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' starts in unknown year '%s' and is skipped", loan.Name, loan.StartYearID))
			continue
		}
		loanConfigs = append(loanConfigs, validation.LoanConfig{
			Name:         loan.Name,
			StartYear:    start,
			TenureMonths: loan.TenureMonths,
		})
	}

	for _, p := range c.Projections {
		if p.BaseValue != nil {
			continue
		}
		found := false
		for _, y := range c.Report.Years {
			found = found || y.SortKey() == p.BaseYear
		}
		if !found {
			warnings = append(warnings, fmt.Sprintf("Projection of '%s' has base year %d outside the report and no base_value - base is 0", p.Row, p.BaseYear))
		}
	}

	validator := validation.ReportValidator{Report: &c.Report, Loans: loanConfigs}
	return append(warnings, validator.ValidateAll()...)
}

// BuildReport returns a copy of the configured report with projections
// applied, group subtotals filled and the annual summaries of every
// configured loan appended to its loan summaries.
func (c *Configuration) BuildReport(logger *zap.Logger) (*model.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := c.Report.Clone()

	for _, p := range c.Projections {
		row := findRow(&report, p.Group, p.Row)
		if row == nil {
			return nil, fmt.Errorf("failed to project row %q: no such row", p.Row)
		}
		base := baseValue(row, report.Years, p)
		points, err := projection.Grow(row, report.Years, p.BaseYear, base, p.Percentage)
		if err != nil {
			return nil, fmt.Errorf("failed to project row %q: %w", p.Row, err)
		}
		logger.Debug(fmt.Sprintf("projected %s from %.2f at %.2f%%", row.Name, base, p.Percentage),
			zap.String("op", "config.BuildReport"),
			zap.Int("years", len(points)),
		)
	}
	if c.CarryOpeningStocks {
		copied := projection.CarryOpeningStocks(&report)
		logger.Debug(fmt.Sprintf("carried %d opening stock values", copied),
			zap.String("op", "config.BuildReport"),
		)
	}
	projection.FillGroupTotals(&report)

	if len(c.Loans) == 0 {
		return &report, nil
	}
	generator := loans.NewAmortizationScheduleGenerator(logger)
	years := model.SortYears(report.Years)
	for i := range c.Loans {
		summaries, err := generator.Summaries(&c.Loans[i], years)
		if err != nil {
			return nil, fmt.Errorf("failed to build loan schedule: %w", err)
		}
		report.LoanSummaries = append(report.LoanSummaries, summaries...)
	}
	return &report, nil
}

// findRow looks a row up by name, ignoring case, optionally inside one group.
func findRow(report *model.Report, group, name string) *model.Row {
	for gi := range report.Groups {
		g := &report.Groups[gi]
		if group != "" && !strings.EqualFold(strings.TrimSpace(g.Name), strings.TrimSpace(group)) {
			continue
		}
		for ri := range g.Rows {
			if strings.EqualFold(strings.TrimSpace(g.Rows[ri].Name), strings.TrimSpace(name)) {
				return &g.Rows[ri]
			}
		}
	}
	return nil
}

func baseValue(row *model.Row, years []model.YearSetting, p Projection) float64 {
	if p.BaseValue != nil {
		return *p.BaseValue
	}
	for _, y := range years {
		if y.SortKey() == p.BaseYear {
			return row.Value(y.ID)
		}
	}
	return 0
}
