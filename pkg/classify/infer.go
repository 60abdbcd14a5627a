package classify

import (
	"strings"

	"github.com/iwvelando/project-report/pkg/model"
)

// Normalize lowercases and trims a name for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Alnum keeps only lowercase letters and digits, so "Freight-in" and
// "freight in" compare equal.
func Alnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAny(s string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

var sectionTags = map[string]model.Section{
	"revenue":             model.SectionRevenue,
	"cogs":                model.SectionCostOfSales,
	"cost_of_sales":       model.SectionCostOfSales,
	"sga":                 model.SectionSGA,
	"appropriation":       model.SectionAppropriation,
	"current_assets":      model.SectionCurrentAssets,
	"fixed_assets":        model.SectionFixedAssets,
	"other_assets":        model.SectionOtherAssets,
	"net_worth":           model.SectionNetWorth,
	"reserves_surplus":    model.SectionNetWorth,
	"term_liabilities":    model.SectionTermLiabilities,
	"current_liabilities": model.SectionCurrentLiabilities,
}

// InferSection returns the group's accounting section. An explicitly
// assigned section wins; otherwise the system tag and then the name decide.
func InferSection(g model.Group) model.Section {
	if g.Section.IsValid() {
		return g.Section
	}

	tag := Normalize(g.SystemTag)
	if strings.Contains(tag, "total") {
		return model.SectionTotals
	}
	if s, ok := sectionTags[tag]; ok {
		return s
	}

	name := Normalize(g.Name)
	if strings.HasPrefix(name, "total") {
		return model.SectionTotals
	}

	switch g.PageType {
	case model.PageOperating:
		switch {
		case containsAny(name, "cost of goods", "cogs", "cost of sales", "cost of revenue", "manufacturing"):
			return model.SectionCostOfSales
		case containsAny(name, "selling", "administrative", "sg&a", "sga", "overhead"):
			return model.SectionSGA
		case containsAny(name, "appropriation", "tax"):
			return model.SectionAppropriation
		case containsAny(name, "revenue", "sales", "income", "turnover"):
			return model.SectionRevenue
		}
	case model.PageAsset:
		switch {
		case strings.Contains(name, "current"):
			return model.SectionCurrentAssets
		case containsAny(name, "fixed", "non-current", "property"):
			return model.SectionFixedAssets
		default:
			return model.SectionOtherAssets
		}
	case model.PageLiability:
		switch {
		case containsAny(name, "net worth", "equity", "shareholder", "capital", "reserve"):
			return model.SectionNetWorth
		case containsAny(name, "term", "long"):
			return model.SectionTermLiabilities
		case strings.Contains(name, "current"):
			return model.SectionCurrentLiabilities
		}
	}
	return model.SectionOther
}

var roleTags = map[string]model.Role{
	"cash_bank":     model.RoleCashBank,
	"gross_block":   model.RoleGrossBlock,
	"drawings":      model.RoleDrawings,
	"wc_borrowing":  model.RoleWCBorrowing,
	"term_loan":     model.RoleTermLoan,
	"tax_provision": model.RoleTaxProvision,
	"share_capital": model.RoleShareCapital,
	"reserves":      model.RoleReserves,
	"capital_wip":   model.RoleCapitalWIP,
	"intangible":    model.RoleIntangible,
	"depreciation":  model.RoleDepreciation,
}

// InferRole derives a row's semantic role from its tag, its name and the
// section of its group. It is meant for rows entered without a role; an
// explicitly assigned role is returned unchanged.
func InferRole(section model.Section, page model.PageType, row model.Row) model.Role {
	if row.Role.IsValid() {
		return row.Role
	}
	if r, ok := roleTags[Normalize(row.SystemTag)]; ok {
		return r
	}
	if r := model.Role(Normalize(row.SystemTag)); r.IsValid() {
		return r
	}

	name := Normalize(row.Name)

	if strings.Contains(name, "interest") {
		switch {
		case containsAny(name, "working capital", "wc interest", "cash credit"):
			return model.RoleWCInterest
		case strings.Contains(name, "term loan"):
			return model.RoleTermLoanInterest
		}
		return model.RoleInterest
	}
	if page == model.PageOperating && (strings.Contains(name, "depreciation") || strings.HasPrefix(name, "depr")) {
		return model.RoleDepreciation
	}
	if strings.Contains(name, "dividend") {
		switch {
		case containsAny(name, "payable", "rate"):
			return model.RoleOther
		case strings.Contains(name, "tax"):
			return model.RoleDividendTax
		}
		return model.RoleDividend
	}
	if strings.Contains(name, "provision") && strings.Contains(name, "tax") &&
		!containsAny(name, "deferred", "deffered") {
		return model.RoleTaxProvision
	}

	switch section {
	case model.SectionCostOfSales:
		return inferStockRole(name)
	case model.SectionCurrentAssets, model.SectionFixedAssets, model.SectionOtherAssets:
		return inferAssetRole(section, name)
	case model.SectionNetWorth:
		return inferEquityRole(name)
	case model.SectionTermLiabilities:
		if strings.Contains(name, "loan") && !strings.Contains(name, "unsecured") {
			return model.RoleTermLoan
		}
	case model.SectionCurrentLiabilities:
		if containsAny(name, "from applicant bank", "working capital", "cash credit", "overdraft", "wc loan", "wc borrowing") {
			return model.RoleWCBorrowing
		}
	}
	if page == model.PageLiability && strings.Contains(name, "drawing") {
		return model.RoleDrawings
	}
	return model.RoleOther
}

func inferStockRole(name string) model.Role {
	opening := strings.Contains(name, "opening")
	closing := strings.Contains(name, "closing")
	if opening || closing {
		wip := containsAny(name, "work-in", "work in", "process", "wip")
		fg := strings.Contains(name, "finished")
		switch {
		case wip && opening:
			return model.RoleWIPOpening
		case wip:
			return model.RoleWIPClosing
		case fg && opening:
			return model.RoleFGOpening
		case fg:
			return model.RoleFGClosing
		case opening:
			return model.RoleRawMaterialOpening
		default:
			return model.RoleRawMaterialClosing
		}
	}
	switch {
	case strings.Contains(name, "purchase"):
		return model.RolePurchases
	case containsAny(Alnum(name), "freightin", "carriagein", "inwardfreight"):
		return model.RoleFreightIn
	}
	return model.RoleOther
}

func inferAssetRole(section model.Section, name string) model.Role {
	switch {
	case name == "cash" || containsAny(name, "cash & bank", "cash and bank", "bank balance", "cash in hand", "cash-in-hand"):
		return model.RoleCashBank
	case strings.Contains(name, "gross block"):
		return model.RoleGrossBlock
	case containsAny(name, "capital work", "cwip", "capital wip"):
		return model.RoleCapitalWIP
	case strings.Contains(name, "intangible"):
		return model.RoleIntangible
	}
	if section != model.SectionCurrentAssets || strings.Contains(name, "unbilled") {
		return model.RoleOther
	}
	switch {
	case strings.Contains(name, "raw material"):
		return model.RoleInventoryRM
	case containsAny(name, "stock in process", "work-in-process", "work in process", "work-in-progress", "wip"):
		return model.RoleInventoryWIP
	case strings.Contains(name, "finished goods"):
		return model.RoleInventoryFG
	case name == "inventory" || name == "inventories" || containsAny(name, "stock-in-trade", "stock in trade", "closing stock"):
		return model.RoleInventoryRM
	}
	return model.RoleOther
}

func inferEquityRole(name string) model.Role {
	switch {
	case strings.Contains(name, "drawing"):
		return model.RoleDrawings
	case containsAny(name, "premium", "revaluation"):
		return model.RoleOtherEquity
	case containsAny(name, "reserve", "surplus", "retained"):
		return model.RoleReserves
	case containsAny(name, "deferred", "deffered"):
		return model.RoleOther
	case strings.Contains(name, "capital"):
		return model.RoleShareCapital
	}
	return model.RoleOther
}

var tagBuckets = map[string]model.CFBucket{
	"cash_bank":                model.BucketSkip,
	"gross_block":              model.BucketSkip,
	"net_block":                model.BucketSkip,
	"accumulated_depreciation": model.BucketSkip,
	"tax_provision":            model.BucketSkip,
	"inventory":                model.BucketSkip,
	"drawings":                 model.BucketFinancing,
	"share_capital":            model.BucketFinancing,
	"share_premium":            model.BucketFinancing,
	"wc_borrowing":             model.BucketFinancing,
	"term_loan":                model.BucketFinancing,
	"unsecured_loan":           model.BucketFinancing,
	"capital_wip":              model.BucketInvesting,
	"intangible":               model.BucketInvesting,
	"investment":               model.BucketInvesting,
	"investments":              model.BucketInvesting,
	"long_term_deposit":        model.BucketInvesting,
	"deferred_tax":             model.BucketOperating,
	"receivables":              model.BucketOperating,
	"payables":                 model.BucketOperating,
}

// TagBucket returns the fixed cash flow bucket of a row system tag.
func TagBucket(tag string) (model.CFBucket, bool) {
	b, ok := tagBuckets[Normalize(tag)]
	return b, ok
}

// DefaultBucket is the cash flow bucket of a group without an explicit
// cf_bucket.
func DefaultBucket(section model.Section) model.CFBucket {
	switch section {
	case model.SectionCurrentAssets, model.SectionCurrentLiabilities:
		return model.BucketOperating
	case model.SectionFixedAssets, model.SectionOtherAssets:
		return model.BucketInvesting
	case model.SectionNetWorth, model.SectionTermLiabilities:
		return model.BucketFinancing
	case model.SectionTotals:
		return model.BucketSkip
	}
	return model.BucketNone
}
