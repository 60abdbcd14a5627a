// Package projection fills report rows ahead of a computation: compounding
// growth from a base year, opening stock carry-over and group subtotals.
package projection

import (
	"fmt"
	"strings"

	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
)

// Grow compounds baseValue by percent for every year after baseYear and
// writes the rounded results into the row. It returns the written points.
func Grow(row *model.Row, years []model.YearSetting, baseYear int, baseValue, percent float64) ([]model.DataPoint, error) {
	if row == nil {
		return nil, fmt.Errorf("no row to project")
	}
	if percent <= -100 {
		return nil, fmt.Errorf("growth of %.2f%% would make %s negative", percent, row.Name)
	}

	factor := 1 + percent/100
	current := baseValue
	var written []model.DataPoint
	for _, y := range model.SortYears(years) {
		if y.SortKey() <= baseYear {
			continue
		}
		current *= factor
		v := mathutil.Round(current)
		row.SetValue(y.ID, v)
		written = append(written, model.DataPoint{YearID: y.ID, Value: v})
	}
	return written, nil
}

var stockPairs = []struct{ opening, closing model.Role }{
	{model.RoleRawMaterialOpening, model.RoleRawMaterialClosing},
	{model.RoleWIPOpening, model.RoleWIPClosing},
	{model.RoleFGOpening, model.RoleFGClosing},
}

// CarryOpeningStocks copies each year's closing stock into the next year's
// opening stock row within the same group. Rows are matched by role, or by
// name when the role is unset.
func CarryOpeningStocks(report *model.Report) int {
	years := model.SortYears(report.Years)
	copied := 0
	for gi := range report.Groups {
		g := &report.Groups[gi]
		for _, pair := range stockPairs {
			opening := findStockRow(g, pair.opening)
			closing := findStockRow(g, pair.closing)
			if opening == nil || closing == nil {
				continue
			}
			for i := 1; i < len(years); i++ {
				opening.SetValue(years[i].ID, closing.Value(years[i-1].ID))
				copied++
			}
		}
	}
	return copied
}

func findStockRow(g *model.Group, role model.Role) *model.Row {
	for ri := range g.Rows {
		r := &g.Rows[ri]
		if r.Role == role {
			return r
		}
	}
	for ri := range g.Rows {
		r := &g.Rows[ri]
		if r.Role == model.RoleUnknown && stockRoleByName(r.Name) == role {
			return r
		}
	}
	return nil
}

func stockRoleByName(name string) model.Role {
	n := strings.ToLower(name)
	opening := strings.Contains(n, "opening")
	if !opening && !strings.Contains(n, "closing") {
		return model.RoleUnknown
	}
	switch {
	case strings.Contains(n, "work-in-process") || strings.Contains(n, "wip"):
		if opening {
			return model.RoleWIPOpening
		}
		return model.RoleWIPClosing
	case strings.Contains(n, "finished"):
		if opening {
			return model.RoleFGOpening
		}
		return model.RoleFGClosing
	case opening:
		return model.RoleRawMaterialOpening
	}
	return model.RoleRawMaterialClosing
}

// FillGroupTotals writes each group's subtotal rows as the sum of its entered
// rows. In a cost of sales group closing stock rows are subtracted.
func FillGroupTotals(report *model.Report) {
	for gi := range report.Groups {
		g := &report.Groups[gi]
		costOfSales := g.Section == model.SectionCostOfSales
		for ti := range g.Rows {
			total := &g.Rows[ti]
			if !total.IsTotalRow {
				continue
			}
			for _, y := range report.Years {
				sum := 0.0
				for _, item := range g.Rows {
					if item.IsTotalRow || item.IsCalculated || item.IsHidden {
						continue
					}
					v := item.Value(y.ID)
					if costOfSales && isClosing(item) {
						v = -v
					}
					sum += v
				}
				total.SetValue(y.ID, sum)
			}
		}
	}
}

func isClosing(r model.Row) bool {
	switch r.Role {
	case model.RoleRawMaterialClosing, model.RoleWIPClosing, model.RoleFGClosing:
		return true
	case model.RoleUnknown:
		return strings.Contains(strings.ToLower(r.Name), "closing")
	}
	return false
}
