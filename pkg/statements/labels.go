package statements

// Labels of the per-year value map. The ordered slices drive rendering.
const (
	LabelRevenue            = "Revenue"
	LabelOpeningRM          = "Opening Stock (Raw Materials)"
	LabelPurchases          = "Purchases"
	LabelFreightIn          = "Freight-in"
	LabelClosingRM          = "Closing Stock (Raw Materials)"
	LabelRMConsumed         = "Raw Material Consumed"
	LabelManufacturing      = "Manufacturing Expenses"
	LabelGrossFactoryCost   = "Gross Factory Cost"
	LabelOpeningWIP         = "Opening Stock (Work-in-Process)"
	LabelClosingWIP         = "Closing Stock (Work-in-Process)"
	LabelFactoryCost        = "Factory Cost of Production"
	LabelOpeningFG          = "Opening Stock (Finished Goods)"
	LabelClosingFG          = "Closing Stock (Finished Goods)"
	LabelCOGS               = "Cost of Goods Sold"
	LabelGrossProfit        = "Gross Profit"
	LabelGPR                = "Gross Profit Ratio (%)"
	LabelTargetGPR          = "Target Gross Profit Ratio (%)"
	LabelSGA                = "Selling, General & Administrative Expenses"
	LabelEBITDA             = "EBITDA"
	LabelDepreciation       = "Depreciation"
	LabelDepreciationAlias  = "Depreciation (Office Equipment)"
	LabelEBIT               = "EBIT"
	LabelTermLoanInterest   = "Term Loan Interest"
	LabelWCInterest         = "Working Capital Interest"
	LabelOtherInterest      = "Other Interest"
	LabelTotalInterest      = "Total Interest"
	LabelPBT                = "Profit Before Tax"
	LabelIncomeTax          = "Income Tax"
	LabelSurcharge          = "Surcharge"
	LabelCess               = "Cess"
	LabelTotalTax           = "Total Tax"
	LabelPAT                = "Profit After Tax"
	LabelDividend           = "Dividend Paid"
	LabelDividendTax        = "Dividend Tax"
	LabelRetainedProfit     = "Retained Profit"
	LabelCashBank           = "Cash & Bank Balance"
	LabelInventories        = "Inventories"
	LabelOtherCurrentAssets = "Other Current Assets"
	LabelTotalCurrentAssets = "Total Current Assets"
	LabelExistingAssets     = "Existing Assets"
	LabelAdditions          = "Additions to Fixed Assets"
	LabelGrossBlock         = "Gross Block"
	LabelNetBlock           = "Net Block"
	LabelCapitalWIP         = "Capital Work in Progress"
	LabelIntangibles        = "Intangible Assets"
	LabelTotalFixedAssets   = "Total Fixed Assets"
	LabelOtherNonCurrent    = "Other Non-Current Assets"
	LabelTotalAssets        = "Total Assets"
	LabelShareCapital       = "Share Capital"
	LabelCapital            = "Capital"
	LabelDrawings           = "Drawings"
	LabelReserves           = "Reserves & Surplus"
	LabelOtherEquity        = "Other Equity"
	LabelNetWorth           = "Net Worth"
	LabelTermLoans          = "Term Loans"
	LabelOtherTermLiab      = "Other Term Liabilities"
	LabelTotalTermLiab      = "Total Term Liabilities"
	LabelWCBorrowings       = "Working Capital Borrowings"
	LabelTaxProvision       = "Provision for Taxes"
	LabelOtherCurrentLiab   = "Other Current Liabilities"
	LabelTotalCurrentLiab   = "Total Current Liabilities"
	LabelOtherLiabilities   = "Other Liabilities"
	LabelTotalLiabilities   = "Total Liabilities and Net Worth"
	LabelBalanceCheck       = "Balance Sheet Check"
	LabelCFPAT              = "Net Profit After Tax"
	LabelCFDepreciation     = "Add: Depreciation"
	LabelCFInterest         = "Add: Interest Expense"
	LabelCFTaxProvision     = "Increase in Tax Provision"
	LabelCFInventories      = "(Increase)/Decrease in Inventories"
	LabelCFWorkingCapital   = "Changes in Other Operating Items"
	LabelCFOperating        = "Net Cash from Operating Activities"
	LabelCFCapex            = "Purchase of Fixed Assets (Capex)"
	LabelCFOtherInvesting   = "Other Investing Flows"
	LabelCFInvesting        = "Net Cash from Investing Activities"
	LabelCFTermLoans        = "Term Loan Proceeds/(Repayment)"
	LabelCFWCBorrowings     = "Working Capital Borrowings Change"
	LabelCFCapitalIntro     = "Capital Introduced"
	LabelCFDrawings         = "Drawings Paid"
	LabelCFDividends        = "Dividend Paid (incl. tax)"
	LabelCFInterestPaid     = "Interest Paid"
	LabelCFOtherFinancing   = "Other Financing Flows"
	LabelCFFinancing        = "Net Cash from Financing Activities"
	LabelNetCashFlow        = "Net Cash Flow During the Year"
	LabelOpeningCash        = "Opening Cash Balance"
	LabelClosingCash        = "Closing Cash Balance"
	LabelMemoShareCapital   = "Change in Share Capital"
	LabelMemoOtherTermLiab  = "Other Term Liabilities Change"
)

// ProfitAndLossLabels lists the operating statement lines in display order.
var ProfitAndLossLabels = []string{
	LabelRevenue, LabelOpeningRM, LabelPurchases, LabelFreightIn, LabelClosingRM, LabelRMConsumed,
	LabelManufacturing, LabelGrossFactoryCost, LabelOpeningWIP, LabelClosingWIP, LabelFactoryCost,
	LabelOpeningFG, LabelClosingFG, LabelCOGS, LabelGrossProfit, LabelGPR, LabelTargetGPR, LabelSGA,
	LabelEBITDA, LabelDepreciation, LabelEBIT, LabelTermLoanInterest, LabelWCInterest, LabelOtherInterest,
	LabelTotalInterest, LabelPBT, LabelIncomeTax, LabelSurcharge, LabelCess, LabelTotalTax, LabelPAT,
	LabelDividend, LabelDividendTax, LabelRetainedProfit,
}

// BalanceSheetLabels lists the balance sheet lines in display order.
var BalanceSheetLabels = []string{
	LabelCashBank, LabelInventories, LabelOtherCurrentAssets, LabelTotalCurrentAssets,
	LabelExistingAssets, LabelAdditions, LabelGrossBlock, LabelNetBlock, LabelCapitalWIP, LabelIntangibles,
	LabelTotalFixedAssets, LabelOtherNonCurrent, LabelTotalAssets,
	LabelShareCapital, LabelCapital, LabelDrawings, LabelReserves, LabelOtherEquity, LabelNetWorth,
	LabelTermLoans, LabelOtherTermLiab, LabelTotalTermLiab,
	LabelWCBorrowings, LabelTaxProvision, LabelOtherCurrentLiab, LabelTotalCurrentLiab,
	LabelOtherLiabilities, LabelTotalLiabilities, LabelBalanceCheck,
}

// CashFlowLabels lists the cash flow statement lines in display order.
var CashFlowLabels = []string{
	LabelCFPAT, LabelCFDepreciation, LabelCFInterest, LabelCFTaxProvision, LabelCFInventories,
	LabelCFWorkingCapital, LabelCFOperating,
	LabelCFCapex, LabelCFOtherInvesting, LabelCFInvesting,
	LabelCFTermLoans, LabelCFWCBorrowings, LabelCFCapitalIntro, LabelCFDrawings, LabelCFDividends,
	LabelCFInterestPaid, LabelCFOtherFinancing, LabelCFFinancing,
	LabelNetCashFlow, LabelOpeningCash, LabelClosingCash,
	LabelMemoShareCapital, LabelMemoOtherTermLiab,
}
