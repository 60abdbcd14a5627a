// Package classify resolves semantic accounting concepts to row values. A
// single pre-pass (NewIndex) assigns every row a semantic role and every group
// a section and cash flow bucket; the resolver operations then read the index.
// Every operation degrades to 0 instead of failing.
package classify

import (
	"strings"

	"github.com/iwvelando/project-report/pkg/model"
)

// GroupRef is an indexed group.
type GroupRef struct {
	Group    *model.Group
	Section  model.Section
	Bucket   model.CFBucket
	NormName string
	NormTag  string
	Rows     []*RowRef
}

// RowRef is an indexed row.
type RowRef struct {
	Group     *GroupRef
	Row       *model.Row
	Role      model.Role
	NormName  string
	AlnumName string
	values    map[string]float64
}

// Value returns the row's stored value for the year, 0 when absent.
func (r *RowRef) Value(yearID string) float64 {
	return r.values[yearID]
}

// Eligible reports whether the row takes part in component sums: it is not
// hidden, not system-calculated and not a subtotal.
func (r *RowRef) Eligible() bool {
	return !r.Row.IsHidden && !r.Row.IsCalculated && !r.Row.IsTotalRow
}

// IsAsset reports whether the row's deltas carry the asset sign convention.
func (r *RowRef) IsAsset() bool {
	return r.Group.Group.IsAssetNature()
}

// Index is the per-computation lookup table over a report.
type Index struct {
	groups []*GroupRef
	rows   []*RowRef
	byName map[string][]*RowRef
	byRole map[model.Role][]*RowRef
}

// NewIndex classifies every group and row of the report once. The report
// must not be modified while the index is in use.
func NewIndex(report *model.Report) *Index {
	idx := &Index{
		byName: make(map[string][]*RowRef),
		byRole: make(map[model.Role][]*RowRef),
	}

	for gi := range report.Groups {
		g := &report.Groups[gi]
		section := InferSection(*g)
		bucket := g.CFBucket
		if bucket == model.BucketNone {
			bucket = DefaultBucket(section)
		}
		gref := &GroupRef{
			Group:    g,
			Section:  section,
			Bucket:   bucket,
			NormName: Normalize(g.Name),
			NormTag:  Normalize(g.SystemTag),
		}
		for ri := range g.Rows {
			row := &g.Rows[ri]
			ref := &RowRef{
				Group:     gref,
				Row:       row,
				Role:      InferRole(section, g.PageType, *row),
				NormName:  Normalize(row.Name),
				AlnumName: Alnum(row.Name),
				values:    make(map[string]float64, len(row.Data)),
			}
			for _, dp := range row.Data {
				ref.values[dp.YearID] = dp.Value
			}
			gref.Rows = append(gref.Rows, ref)
			idx.rows = append(idx.rows, ref)
			idx.byName[ref.NormName] = append(idx.byName[ref.NormName], ref)
		}
		idx.groups = append(idx.groups, gref)
	}

	idx.applyShareCapitalFallback()

	for _, ref := range idx.rows {
		idx.byRole[ref.Role] = append(idx.byRole[ref.Role], ref)
	}
	return idx
}

var nonCapitalFragments = []string{"reserve", "premium", "deferred", "deffered", "revaluation", "surplus", "drawing", "total"}

// applyShareCapitalFallback marks share capital rows when none carry the role:
// the first "shareholders" group, then a "share capital" group, then the net
// worth groups minus reserve-like rows.
func (idx *Index) applyShareCapitalFallback() {
	for _, ref := range idx.rows {
		if ref.Role == model.RoleShareCapital {
			return
		}
	}

	mark := func(g *GroupRef) bool {
		marked := false
		for _, ref := range g.Rows {
			if ref.Role != model.RoleOther || containsAny(ref.NormName, nonCapitalFragments...) {
				continue
			}
			ref.Role = model.RoleShareCapital
			marked = true
		}
		return marked
	}

	for _, fragment := range []string{"shareholders", "share capital"} {
		if g := idx.FindGroup(fragment); g != nil && g.Group.PageType == model.PageLiability {
			if mark(g) {
				return
			}
		}
	}
	for _, g := range idx.groups {
		if g.Section == model.SectionNetWorth {
			mark(g)
		}
	}
}

// Groups returns the indexed groups in input order.
func (idx *Index) Groups() []*GroupRef {
	return idx.groups
}

// Rows returns every indexed row in input order.
func (idx *Index) Rows() []*RowRef {
	return idx.rows
}

// RowsWithRole returns the rows carrying the role, in input order.
func (idx *Index) RowsWithRole(role model.Role) []*RowRef {
	return idx.byRole[role]
}

// FindGroup returns the first group whose normalised name or system tag
// contains the fragment.
func (idx *Index) FindGroup(fragment string) *GroupRef {
	f := Normalize(fragment)
	if f == "" {
		return nil
	}
	for _, g := range idx.groups {
		if strings.Contains(g.NormName, f) || strings.Contains(g.NormTag, f) {
			return g
		}
	}
	return nil
}
