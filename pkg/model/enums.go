package model

import "strings"

// Sector selects the default report template.
type Sector string

const (
	SectorIndustry  Sector = "industry"
	SectorService   Sector = "service"
	SectorWholesale Sector = "wholesale"
	SectorRetail    Sector = "retail"
)

// IsValid reports whether the sector is recognised.
func (s Sector) IsValid() bool {
	switch s {
	case SectorIndustry, SectorService, SectorWholesale, SectorRetail:
		return true
	}
	return false
}

// Normalize maps unknown sectors to the industry default.
func (s Sector) Normalize() Sector {
	lowered := Sector(strings.ToLower(strings.TrimSpace(string(s))))
	if lowered.IsValid() {
		return lowered
	}
	return SectorIndustry
}

func (s Sector) String() string {
	return string(s)
}

// TaxRegime selects the tax computation and the net worth treatment.
type TaxRegime string

const (
	RegimeCorporateFlat         TaxRegime = "corporate_flat"
	RegimePartnershipFlat       TaxRegime = "partnership_flat"
	RegimeIndividualProgressive TaxRegime = "individual_progressive"
	RegimeLegacyFlat            TaxRegime = "legacy_flat"
)

var regimeAliases = map[string]TaxRegime{
	"domestic_22":    RegimeCorporateFlat,
	"llp":            RegimePartnershipFlat,
	"partnership":    RegimePartnershipFlat,
	"proprietorship": RegimeIndividualProgressive,
}

// IsValid reports whether the regime is one of the supported values.
func (r TaxRegime) IsValid() bool {
	switch r {
	case RegimeCorporateFlat, RegimePartnershipFlat, RegimeIndividualProgressive, RegimeLegacyFlat:
		return true
	}
	return false
}

// Normalize resolves aliases and maps unknown regimes to corporate_flat.
func (r TaxRegime) Normalize() TaxRegime {
	key := strings.ToLower(strings.TrimSpace(string(r)))
	if TaxRegime(key).IsValid() {
		return TaxRegime(key)
	}
	if alias, ok := regimeAliases[key]; ok {
		return alias
	}
	return RegimeCorporateFlat
}

// IsKnown reports whether the regime is a supported value or alias.
func (r TaxRegime) IsKnown() bool {
	key := strings.ToLower(strings.TrimSpace(string(r)))
	if TaxRegime(key).IsValid() {
		return true
	}
	_, ok := regimeAliases[key]
	return ok
}

// IsPartnership reports whether the regime belongs to a partnership or
// proprietorship, whose equity follows the capital account.
func (r TaxRegime) IsPartnership() bool {
	switch r.Normalize() {
	case RegimePartnershipFlat, RegimeIndividualProgressive:
		return true
	}
	return false
}

func (r TaxRegime) String() string {
	return string(r)
}

// Section is the accounting role of a group.
type Section string

const (
	SectionUnknown            Section = ""
	SectionRevenue            Section = "revenue"
	SectionCostOfSales        Section = "cost_of_sales"
	SectionSGA                Section = "sga"
	SectionAppropriation      Section = "appropriation"
	SectionCurrentAssets      Section = "current_assets"
	SectionFixedAssets        Section = "fixed_assets"
	SectionOtherAssets        Section = "other_assets"
	SectionNetWorth           Section = "net_worth"
	SectionTermLiabilities    Section = "term_liabilities"
	SectionCurrentLiabilities Section = "current_liabilities"
	SectionTotals             Section = "totals"
	SectionOther              Section = "other"
)

// Role is the semantic meaning of a row.
type Role string

const (
	RoleUnknown            Role = ""
	RoleOther              Role = "other"
	RoleRawMaterialOpening Role = "raw_material_opening"
	RoleRawMaterialClosing Role = "raw_material_closing"
	RolePurchases          Role = "purchases"
	RoleFreightIn          Role = "freight_in"
	RoleWIPOpening         Role = "wip_opening"
	RoleWIPClosing         Role = "wip_closing"
	RoleFGOpening          Role = "finished_goods_opening"
	RoleFGClosing          Role = "finished_goods_closing"
	RoleDepreciation       Role = "depreciation"
	RoleInterest           Role = "interest"
	RoleWCInterest         Role = "wc_interest"
	RoleTermLoanInterest   Role = "term_loan_interest"
	RoleDividend           Role = "dividend"
	RoleDividendTax        Role = "dividend_tax"
	RoleTaxProvision       Role = "tax_provision"
	RoleCashBank           Role = "cash_bank"
	RoleDrawings           Role = "drawings"
	RoleShareCapital       Role = "share_capital"
	RoleReserves           Role = "reserves"
	RoleOtherEquity        Role = "other_equity"
	RoleTermLoan           Role = "term_loan"
	RoleWCBorrowing        Role = "wc_borrowing"
	RoleGrossBlock         Role = "gross_block"
	RoleCapitalWIP         Role = "capital_wip"
	RoleIntangible         Role = "intangible"
	RoleInventoryRM        Role = "inventory_raw_material"
	RoleInventoryWIP       Role = "inventory_wip"
	RoleInventoryFG        Role = "inventory_finished_goods"
)

var knownRoles = map[Role]struct{}{
	RoleOther: {}, RoleRawMaterialOpening: {}, RoleRawMaterialClosing: {}, RolePurchases: {},
	RoleFreightIn: {}, RoleWIPOpening: {}, RoleWIPClosing: {}, RoleFGOpening: {}, RoleFGClosing: {},
	RoleDepreciation: {}, RoleInterest: {}, RoleWCInterest: {}, RoleTermLoanInterest: {},
	RoleDividend: {}, RoleDividendTax: {}, RoleTaxProvision: {}, RoleCashBank: {}, RoleDrawings: {},
	RoleShareCapital: {}, RoleReserves: {}, RoleOtherEquity: {}, RoleTermLoan: {}, RoleWCBorrowing: {},
	RoleGrossBlock: {}, RoleCapitalWIP: {}, RoleIntangible: {}, RoleInventoryRM: {}, RoleInventoryWIP: {},
	RoleInventoryFG: {},
}

// IsValid reports whether the role is a known, explicitly assigned role.
func (r Role) IsValid() bool {
	_, ok := knownRoles[r]
	return ok
}

// IsInventory reports whether the role is one of the balance sheet stock lines.
func (r Role) IsInventory() bool {
	return r == RoleInventoryRM || r == RoleInventoryWIP || r == RoleInventoryFG
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

var knownSections = map[Section]struct{}{
	SectionRevenue: {}, SectionCostOfSales: {}, SectionSGA: {}, SectionAppropriation: {},
	SectionCurrentAssets: {}, SectionFixedAssets: {}, SectionOtherAssets: {}, SectionNetWorth: {},
	SectionTermLiabilities: {}, SectionCurrentLiabilities: {}, SectionTotals: {}, SectionOther: {},
}

// IsValid reports whether the section is a known, explicitly assigned section.
func (s Section) IsValid() bool {
	_, ok := knownSections[s]
	return ok
}
