// Package depreciation builds the written-down-value schedule of an asset
// register across the fiscal years of a report.
package depreciation

import (
	"fmt"

	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/datetime"
	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
	"go.uber.org/zap"
)

// YearDepreciation aggregates the register for one fiscal year.
type YearDepreciation struct {
	YearID string
	// ExistingAssets is the opening written-down value of assets held before
	// the first year. Only the first year carries it.
	ExistingAssets float64
	Additions      float64
	Depreciation   float64
	ClosingWDV     float64
}

// entryIndex resolves the year an asset enters the register. existing is
// true for assets held before the first year.
func entryIndex(a model.Asset, years []model.YearSetting) (index int, existing, ok bool) {
	if a.IsExistingAsset {
		return 0, true, true
	}
	if a.PurchaseYearID != "" {
		for i, y := range years {
			if y.ID == a.PurchaseYearID {
				return i, false, true
			}
		}
	}
	if a.PurchaseDate != "" {
		t, err := datetime.ParseDate(a.PurchaseDate)
		if err != nil {
			return 0, false, false
		}
		fy := datetime.FiscalYearStart(t)
		if fy < years[0].SortKey() {
			return 0, true, true
		}
		for i, y := range years {
			if y.SortKey() == fy {
				return i, false, true
			}
		}
	}
	return 0, false, false
}

// Scheduler builds depreciation schedules.
type Scheduler struct {
	logger *zap.Logger
}

// NewScheduler creates a scheduler. A nil logger discards output.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger}
}

// Schedule computes per-year additions and WDV depreciation for the register.
// years must be in chronological order. Assets whose purchase year cannot be
// placed inside the report are skipped and their names returned.
func (s *Scheduler) Schedule(assets []model.Asset, years []model.YearSetting) ([]YearDepreciation, []string) {
	out := make([]YearDepreciation, len(years))
	for i, y := range years {
		out[i].YearID = y.ID
	}
	if len(years) == 0 {
		return out, nil
	}

	var skipped []string
	for _, a := range assets {
		entry, existing, ok := entryIndex(a, years)
		if !ok {
			s.logger.Warn(fmt.Sprintf("skipping asset %s, no purchase year inside the report", a.Name),
				zap.String("op", "depreciation.Schedule"),
				zap.String("purchase_year_id", a.PurchaseYearID),
				zap.String("purchase_date", a.PurchaseDate),
			)
			skipped = append(skipped, a.Name)
			continue
		}

		rate := a.DepreciationRate / constants.PercentageMultiplier
		wdv := a.Amount
		for i := entry; i < len(years); i++ {
			dep := wdv * rate
			if i == entry {
				if existing {
					out[i].ExistingAssets += a.Amount
				} else {
					out[i].Additions += a.Amount
					if a.IsSecondHalfPurchase {
						dep *= constants.HalfYearFactor
					}
				}
			}
			wdv -= dep
			out[i].Depreciation += dep
			out[i].ClosingWDV += wdv
		}
	}

	for i := range out {
		out[i].Depreciation = mathutil.Round(out[i].Depreciation)
		out[i].ClosingWDV = mathutil.Round(out[i].ClosingWDV)
	}
	s.logger.Debug(fmt.Sprintf("scheduled %d assets over %d years", len(assets)-len(skipped), len(years)),
		zap.String("op", "depreciation.Schedule"),
	)
	return out, skipped
}
