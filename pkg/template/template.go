// Package template provides the default statement layout of each sector and
// the fiscal year columns of a new report.
package template

import (
	"embed"
	"fmt"
	"time"

	"github.com/iwvelando/project-report/pkg/datetime"
	"github.com/iwvelando/project-report/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed sectors/*.yaml
var sectorFS embed.FS

type layout struct {
	Groups []model.Group `yaml:"groups"`
}

// sectorFiles maps each sector to its layout. Retail shares the wholesale
// layout.
var sectorFiles = map[model.Sector]string{
	model.SectorIndustry:  "sectors/industry.yaml",
	model.SectorService:   "sectors/service.yaml",
	model.SectorWholesale: "sectors/wholesale.yaml",
	model.SectorRetail:    "sectors/wholesale.yaml",
}

// ForSector returns a fresh copy of the sector's default groups. Unknown
// sectors get the industry layout.
func ForSector(sector model.Sector) ([]model.Group, error) {
	path := sectorFiles[sector.Normalize()]
	raw, err := sectorFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	var l layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return l.Groups, nil
}

// FiscalYears builds count fiscal years from startYear. Years before the
// fiscal year containing today are actuals, that year is provisional and
// later years are projected.
func FiscalYears(startYear, count int, today time.Time) []model.YearSetting {
	current := datetime.FiscalYearStart(today)
	years := make([]model.YearSetting, 0, count)
	for i := 0; i < count; i++ {
		year := startYear + i
		yt := model.YearProjected
		switch {
		case year < current:
			yt = model.YearActual
		case year == current:
			yt = model.YearProvisional
		}
		years = append(years, model.YearSetting{
			ID:      fmt.Sprintf("fy%d", year),
			Year:    year,
			Display: datetime.FiscalYearLabel(year),
			Type:    yt,
		})
	}
	return years
}

// NewReport scaffolds an empty report for the sector.
func NewReport(name string, sector model.Sector, regime model.TaxRegime, startYear, count int, today time.Time) (*model.Report, error) {
	groups, err := ForSector(sector)
	if err != nil {
		return nil, err
	}
	return &model.Report{
		Name:      name,
		Sector:    sector.Normalize(),
		TaxRegime: regime.Normalize(),
		Years:     FiscalYears(startYear, count, today),
		Groups:    groups,
	}, nil
}
