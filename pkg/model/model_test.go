package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortYears(t *testing.T) {
	years := []YearSetting{
		{ID: "c", Year: 0, Display: "FY 2026-27"},
		{ID: "a", Year: 2024, Display: "Actual"},
		{ID: "b", Year: 2099, Display: "2025-26"},
	}

	sorted := SortYears(years)
	ids := make([]string, len(sorted))
	for i, y := range sorted {
		ids[i] = y.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids, "display label wins over Year")
	assert.Equal(t, "c", years[0].ID, "input untouched")
}

func TestYearSortKey(t *testing.T) {
	tests := []struct {
		name string
		year YearSetting
		want int
	}{
		{name: "range label", year: YearSetting{Display: "2024-2025"}, want: 2024},
		{name: "prefixed label", year: YearSetting{Display: "FY2023-24", Year: 1}, want: 2023},
		{name: "no digits", year: YearSetting{Display: "Base", Year: 2022}, want: 2022},
		{name: "short digits", year: YearSetting{Display: "Y1", Year: 2021}, want: 2021},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.year.SortKey())
		})
	}
}

func TestRowValues(t *testing.T) {
	var row Row
	assert.Zero(t, row.Value("fy2024"))

	row.SetValue("fy2024", 10)
	row.SetValue("fy2025", 20)
	row.SetValue("fy2024", 15)

	assert.Len(t, row.Data, 2)
	assert.Equal(t, 15.0, row.Value("fy2024"))
	assert.Equal(t, 20.0, row.Value("fy2025"))
}

func TestGroupNature(t *testing.T) {
	assert.True(t, Group{PageType: PageAsset}.IsAssetNature())
	assert.False(t, Group{PageType: PageLiability}.IsAssetNature())
	assert.False(t, Group{PageType: PageAsset, Nature: NatureLiability}.IsAssetNature())
	assert.True(t, Group{PageType: PageLiability, Nature: NatureAsset}.IsAssetNature())
}

func TestReportLookups(t *testing.T) {
	r := Report{
		LoanSummaries: []LoanYearSummary{
			{YearID: "fy2024", LoanName: "A", ClosingBalance: 100},
			{YearID: "fy2024", LoanName: "B", ClosingBalance: 50},
			{YearID: "fy2025", LoanName: "A", ClosingBalance: 80},
		},
		Drawings: []Drawing{
			{YearID: "fy2024", Amount: 10},
			{YearID: "fy2024", Amount: 5},
		},
	}
	assert.Len(t, r.LoansForYear("fy2024"), 2)
	assert.Empty(t, r.LoansForYear("fy2030"))
	assert.Equal(t, 15.0, r.DrawingsForYear("fy2024"))
	assert.Zero(t, r.DrawingsForYear("fy2025"))
}

func TestReportClone(t *testing.T) {
	cash := 100.0
	original := Report{
		OpeningCash: &cash,
		Years:       []YearSetting{{ID: "fy2024", Year: 2024}},
		Groups: []Group{{
			Name: "Revenue",
			Rows: []Row{{Name: "Sales", Data: []DataPoint{{YearID: "fy2024", Value: 10}}}},
		}},
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.Groups[0].Rows[0].SetValue("fy2024", 99)
	clone.Groups[0].Rows[0].SetValue("fy2025", 5)
	clone.Groups[0].Rows = append(clone.Groups[0].Rows, Row{Name: "Other"})
	*clone.OpeningCash = 1

	assert.Equal(t, 10.0, original.Groups[0].Rows[0].Value("fy2024"))
	assert.Len(t, original.Groups[0].Rows[0].Data, 1)
	assert.Len(t, original.Groups[0].Rows, 1)
	assert.Equal(t, 100.0, *original.OpeningCash)
}

func TestTaxRegimeNormalize(t *testing.T) {
	tests := []struct {
		in          TaxRegime
		want        TaxRegime
		partnership bool
	}{
		{in: "corporate_flat", want: RegimeCorporateFlat},
		{in: " Partnership_Flat ", want: RegimePartnershipFlat, partnership: true},
		{in: "domestic_22", want: RegimeCorporateFlat},
		{in: "llp", want: RegimePartnershipFlat, partnership: true},
		{in: "proprietorship", want: RegimeIndividualProgressive, partnership: true},
		{in: "legacy_flat", want: RegimeLegacyFlat},
		{in: "something else", want: RegimeCorporateFlat},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.partnership, got.IsPartnership())
		})
	}
}

func TestSectorNormalize(t *testing.T) {
	assert.Equal(t, SectorService, Sector("Service").Normalize())
	assert.Equal(t, SectorIndustry, Sector("").Normalize())
	assert.Equal(t, SectorIndustry, Sector("mining").Normalize())
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleInventoryWIP.IsInventory())
	assert.False(t, RoleWIPClosing.IsInventory())
	assert.True(t, RoleCashBank.IsValid())
	assert.False(t, Role("bogus").IsValid())
	assert.Equal(t, "unknown", RoleUnknown.String())
	assert.True(t, SectionTotals.IsValid())
	assert.False(t, Section("").IsValid())
}
