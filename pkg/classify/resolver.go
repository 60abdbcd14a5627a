package classify

import (
	"strings"

	"github.com/iwvelando/project-report/pkg/model"
)

var capitalAliases = []string{"ordinary share capital", "share capital"}

// Lookup resolves a semantic key for the year. A value already present in
// computed under the exact key wins; otherwise the first visible row whose
// normalised name equals the normalised key is used. "Capital" also matches
// the share capital rows. Returns 0 when nothing matches.
func (idx *Index) Lookup(yearID, key string, computed map[string]float64) float64 {
	if v, ok := computed[key]; ok {
		return v
	}

	candidates := []string{Normalize(key)}
	if candidates[0] == "capital" {
		candidates = append(candidates, capitalAliases...)
	}
	for _, name := range candidates {
		for _, ref := range idx.byName[name] {
			if ref.Row.IsHidden {
				continue
			}
			return ref.Value(yearID)
		}
	}
	return 0
}

// GroupSumIncludes applies the generic group-sum exclusions: ineligible rows,
// "=" formula rows, depreciation and interest rows, and rows matching any
// exclusion fragment after stripping non-alphanumeric characters.
func GroupSumIncludes(ref *RowRef, excludes []string) bool {
	if !ref.Eligible() {
		return false
	}
	if strings.HasPrefix(strings.TrimSpace(ref.Row.Name), "=") {
		return false
	}
	n := ref.NormName
	if strings.Contains(n, "depreciation") || strings.HasPrefix(n, "depr") || strings.Contains(n, "interest") {
		return false
	}
	for _, ex := range excludes {
		if frag := Alnum(ex); frag != "" && strings.Contains(ref.AlnumName, frag) {
			return false
		}
	}
	return true
}

// SumGroup sums the first group whose name or system tag contains fragment,
// skipping the generic exclusions and any row matching excludes.
func (idx *Index) SumGroup(yearID, fragment string, excludes []string) float64 {
	g := idx.FindGroup(fragment)
	if g == nil {
		return 0
	}
	total := 0.0
	for _, ref := range g.Rows {
		if GroupSumIncludes(ref, excludes) {
			total += ref.Value(yearID)
		}
	}
	return total
}

// SumSection applies the SumGroup rules across every group of a section.
func (idx *Index) SumSection(yearID string, section model.Section, excludes []string) float64 {
	total := 0.0
	for _, g := range idx.groups {
		if g.Section != section {
			continue
		}
		for _, ref := range g.Rows {
			if GroupSumIncludes(ref, excludes) {
				total += ref.Value(yearID)
			}
		}
	}
	return total
}

// SumSectionRows sums every eligible row of a section with no name-based
// exclusions.
func (idx *Index) SumSectionRows(yearID string, section model.Section) float64 {
	total := 0.0
	for _, g := range idx.groups {
		if g.Section != section {
			continue
		}
		for _, ref := range g.Rows {
			if ref.Eligible() {
				total += ref.Value(yearID)
			}
		}
	}
	return total
}

// SumRole sums the eligible rows carrying the role.
func (idx *Index) SumRole(yearID string, role model.Role) float64 {
	total := 0.0
	for _, ref := range idx.byRole[role] {
		if ref.Eligible() {
			total += ref.Value(yearID)
		}
	}
	return total
}

// SumRoleVisible sums the visible, non-subtotal rows carrying the role,
// system-calculated rows included.
func (idx *Index) SumRoleVisible(yearID string, role model.Role) float64 {
	total := 0.0
	for _, ref := range idx.byRole[role] {
		if !ref.Row.IsHidden && !ref.Row.IsTotalRow {
			total += ref.Value(yearID)
		}
	}
	return total
}

// PageFilter selects the rows of a page-wide sum.
type PageFilter struct {
	excludeTags  map[string]struct{}
	excludeNames map[string]struct{}
	excludeRows  map[*RowRef]struct{}
	where        func(*RowRef) bool
}

// NewPageFilter builds a filter excluding groups by system tag and rows by
// normalised name.
func NewPageFilter(excludeGroupTags, excludeRowNames []string) *PageFilter {
	f := &PageFilter{
		excludeTags:  make(map[string]struct{}, len(excludeGroupTags)),
		excludeNames: make(map[string]struct{}, len(excludeRowNames)),
		excludeRows:  make(map[*RowRef]struct{}),
	}
	for _, t := range excludeGroupTags {
		f.excludeTags[Normalize(t)] = struct{}{}
	}
	for _, n := range excludeRowNames {
		f.excludeNames[Normalize(n)] = struct{}{}
	}
	return f
}

// ExcludeRow drops one indexed row from the sum. Other rows sharing its name
// are unaffected.
func (f *PageFilter) ExcludeRow(ref *RowRef) {
	f.excludeRows[ref] = struct{}{}
}

// Where returns a copy of the filter that also requires pred to hold.
func (f *PageFilter) Where(pred func(*RowRef) bool) *PageFilter {
	narrowed := *f
	narrowed.where = pred
	return &narrowed
}

// Includes reports whether the row belongs to the page-wide sum.
func (f *PageFilter) Includes(ref *RowRef) bool {
	if !ref.Eligible() || ref.Group.Section == model.SectionTotals {
		return false
	}
	if _, ok := f.excludeTags[ref.Group.NormTag]; ok && ref.Group.NormTag != "" {
		return false
	}
	if _, ok := f.excludeNames[ref.NormName]; ok {
		return false
	}
	if _, ok := f.excludeRows[ref]; ok {
		return false
	}
	return f.where == nil || f.where(ref)
}

// SumPageType sums every row of the page type accepted by the filter. When
// prefer holds a value under a row's exact name, that value replaces the
// stored one.
func (idx *Index) SumPageType(yearID string, page model.PageType, filter *PageFilter, prefer map[string]float64) float64 {
	if filter == nil {
		filter = NewPageFilter(nil, nil)
	}
	total := 0.0
	for _, ref := range idx.rows {
		if ref.Group.Group.PageType != page || !filter.Includes(ref) {
			continue
		}
		total += PreferredValue(ref, yearID, prefer)
	}
	return total
}

// PreferredValue returns prefer[row name] when present, else the stored value.
func PreferredValue(ref *RowRef, yearID string, prefer map[string]float64) float64 {
	if v, ok := prefer[ref.Row.Name]; ok {
		return v
	}
	return ref.Value(yearID)
}

// Bucket classifies a balance sheet row into a cash flow bucket by priority:
// cash rows, reserves and any role the caller skips resolve to skip, then
// interest-named rows, then the system tag table, then the group bucket.
func Bucket(ref *RowRef, skipRole func(model.Role) bool) model.CFBucket {
	switch {
	case ref.Role == model.RoleCashBank || ref.Group.Bucket == model.BucketCashEquivalent:
		return model.BucketSkip
	case ref.Role == model.RoleReserves:
		return model.BucketSkip
	case skipRole != nil && skipRole(ref.Role):
		return model.BucketSkip
	case strings.Contains(ref.NormName, "interest"):
		return model.BucketSkip
	}
	if b, ok := TagBucket(ref.Row.SystemTag); ok {
		return b
	}
	return ref.Group.Bucket
}
