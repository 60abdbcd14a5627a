// Package loans generates term loan repayment schedules and aggregates them
// into fiscal year summaries for the statement engine.
package loans

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/datetime"
	"github.com/iwvelando/project-report/pkg/mathutil"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RepaymentMethod selects how principal is repaid after the moratorium.
type RepaymentMethod string

const (
	RepaymentEMI    RepaymentMethod = "EMI"
	RepaymentBullet RepaymentMethod = "BULLET"
)

// Payment holds the values for one month of a schedule.
type Payment struct {
	Period    int
	Opening   float64
	Payment   float64
	Principal float64
	Interest  float64
	Closing   float64
}

// TermLoan represents loan configuration parameters. InterestRate is an
// annual percentage.
type TermLoan struct {
	Name             string          `yaml:"name" json:"name" mapstructure:"name"`
	Amount           float64         `yaml:"amount" json:"amount" mapstructure:"amount"`
	InterestRate     float64         `yaml:"interest_rate" json:"interest_rate" mapstructure:"interest_rate"`
	TenureMonths     int             `yaml:"tenure_months" json:"tenure_months" mapstructure:"tenure_months"`
	MoratoriumMonths int             `yaml:"moratorium_months,omitempty" json:"moratorium_months,omitempty" mapstructure:"moratorium_months"`
	RepaymentMethod  RepaymentMethod `yaml:"repayment_method,omitempty" json:"repayment_method,omitempty" mapstructure:"repayment_method"`
	StartYearID      string          `yaml:"start_year_id" json:"start_year_id" mapstructure:"start_year_id"`
	StartDate        string          `yaml:"start_date,omitempty" json:"start_date,omitempty" mapstructure:"start_date"`
	IsNew            bool            `yaml:"is_new,omitempty" json:"is_new,omitempty" mapstructure:"is_new"`
}

// CalculateMonthlyPayment calculates the EMI for a loan using the standard
// amortization formula P·r·(1+r)^n / ((1+r)^n − 1).
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return principal * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

func (l *TermLoan) method() RepaymentMethod {
	if RepaymentMethod(strings.ToUpper(string(l.RepaymentMethod))) == RepaymentBullet {
		return RepaymentBullet
	}
	return RepaymentEMI
}

// GenerateSchedule creates the month-by-month schedule. Moratorium months pay
// interest only; BULLET loans repay all principal in the final month.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan *TermLoan) ([]Payment, error) {
	if loan.TenureMonths <= 0 {
		return nil, fmt.Errorf("loan %s: tenure must be positive, got %d months", loan.Name, loan.TenureMonths)
	}
	if loan.Amount < 0 {
		return nil, fmt.Errorf("loan %s: amount must not be negative", loan.Name)
	}
	if loan.MoratoriumMonths < 0 || loan.MoratoriumMonths > loan.TenureMonths {
		return nil, fmt.Errorf("loan %s: moratorium of %d months does not fit tenure of %d months",
			loan.Name, loan.MoratoriumMonths, loan.TenureMonths)
	}

	method := loan.method()
	repaymentMonths := loan.TenureMonths - loan.MoratoriumMonths
	emi := CalculateMonthlyPayment(loan.Amount, loan.InterestRate, repaymentMonths)

	g.logger.Debug(fmt.Sprintf("generating %s schedule for loan %s with EMI %.2f", method, loan.Name, emi),
		zap.String("op", "loans.GenerateSchedule"),
	)

	schedule := make([]Payment, 0, loan.TenureMonths)
	opening := loan.Amount
	for period := 1; period <= loan.TenureMonths; period++ {
		p := Payment{Period: period, Opening: opening}
		p.Interest = CalculateInterestPayment(opening, loan.InterestRate)

		switch {
		case period <= loan.MoratoriumMonths:
			p.Payment = p.Interest
		case method == RepaymentBullet:
			if period == loan.TenureMonths {
				p.Principal = opening
			}
			p.Payment = p.Interest + p.Principal
		default:
			p.Principal = emi - p.Interest
			p.Payment = emi
		}

		p.Closing = opening - p.Principal
		if period == loan.TenureMonths && mathutil.IsZero(p.Closing) {
			// We will get machine error otherwise so just set to 0.
			p.Closing = 0
		}
		schedule = append(schedule, p)
		opening = p.Closing
	}
	return schedule, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// AnnualSummaries aggregates a monthly schedule into fiscal years. The loan
// starts in the year StartYearID, StartDate months into that fiscal year; the
// first year takes the remaining months and later years twelve. Years after
// repayment get zero entries. years must be in chronological order.
func (g *AmortizationScheduleGenerator) AnnualSummaries(loan *TermLoan, schedule []Payment, years []model.YearSetting) ([]model.LoanYearSummary, error) {
	startIndex := -1
	for i, y := range years {
		if y.ID == loan.StartYearID {
			startIndex = i
			break
		}
	}
	if startIndex < 0 {
		return nil, fmt.Errorf("loan %s: start year %q is not a report year", loan.Name, loan.StartYearID)
	}

	offset := 0
	if loan.StartDate != "" {
		start, err := datetime.ParseDate(loan.StartDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		offset = datetime.MonthsIntoFiscalYear(years[startIndex].SortKey(), start)
	}

	var summaries []model.LoanYearSummary
	next := 0
	for i := startIndex; i < len(years); i++ {
		summary := model.LoanYearSummary{YearID: years[i].ID, LoanName: loan.Name, IsNew: loan.IsNew}

		months := constants.MonthsPerYear
		if i == startIndex {
			months = max(0, constants.MonthsPerYear-offset)
		}
		months = min(months, len(schedule)-next)

		if months > 0 {
			slice := schedule[next : next+months]
			var interest, principal, paid float64
			for _, p := range slice {
				interest += p.Interest
				principal += p.Principal
				paid += p.Payment
			}
			summary.OpeningBalance = round2(slice[0].Opening)
			summary.AnnualInterest = round2(interest)
			summary.AnnualPrincipal = round2(principal)
			summary.ClosingBalance = round2(slice[len(slice)-1].Closing)
			summary.AverageEMI = round2(paid / float64(months))
			next += months
		}
		summaries = append(summaries, summary)
	}

	g.logger.Debug(fmt.Sprintf("aggregated loan %s into %d fiscal years", loan.Name, len(summaries)),
		zap.String("op", "loans.AnnualSummaries"),
	)
	return summaries, nil
}

// Summaries generates the schedule of a loan and aggregates it.
func (g *AmortizationScheduleGenerator) Summaries(loan *TermLoan, years []model.YearSetting) ([]model.LoanYearSummary, error) {
	schedule, err := g.GenerateSchedule(loan)
	if err != nil {
		return nil, err
	}
	return g.AnnualSummaries(loan, schedule, years)
}
