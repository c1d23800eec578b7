// Package loans provides the amortization simulator used for repayment
// schedules and cash-flow coverage.
//
// All functions are pure and total over finite inputs: out-of-range terms,
// grace periods and rates are clamped rather than rejected. NaN and infinite
// inputs are out of contract.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/datetime"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
	"go.uber.org/zap"
)

// SimulationPoint holds the values for one month of a schedule.
type SimulationPoint struct {
	Month              int     `json:"month" yaml:"month"`
	Date               string  `json:"date,omitempty" yaml:"date,omitempty"`
	Payment            float64 `json:"payment" yaml:"payment"`
	Interest           float64 `json:"interest" yaml:"interest"`
	Principal          float64 `json:"principal" yaml:"principal"`
	RemainingPrincipal float64 `json:"remainingPrincipal" yaml:"remainingPrincipal"`
	NetCashFlow        float64 `json:"netCashFlow" yaml:"netCashFlow"`
	Cumulative         float64 `json:"cumulative" yaml:"cumulative"`
}

// Result is the schedule and summary statistics of one simulation.
type Result struct {
	Schedule            []SimulationPoint `json:"schedule" yaml:"schedule"`
	MonthlyPayment      float64           `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalInterest       float64           `json:"totalInterest" yaml:"totalInterest"`
	TotalPayment        float64           `json:"totalPayment" yaml:"totalPayment"`
	MinCashFlow         float64           `json:"minCashFlow" yaml:"minCashFlow"`
	NegativeMonths      int               `json:"negativeMonths" yaml:"negativeMonths"`
	AdjustedOperatingCF float64           `json:"adjustedOperatingCashFlow" yaml:"adjustedOperatingCashFlow"`
	AppliedInterestRate float64           `json:"appliedInterestRate" yaml:"appliedInterestRate"`
}

// NegativeMonthList returns the 1-based months whose net cash flow is negative.
func (r Result) NegativeMonthList() []int {
	var months []int
	for _, point := range r.Schedule {
		if point.NetCashFlow < 0 {
			months = append(months, point.Month)
		}
	}
	return months
}

// Label sets each point's Date to the calendar month offset from startDate
// (YYYY-MM). An empty startDate leaves the schedule unlabelled.
func (r *Result) Label(startDate string) error {
	if startDate == "" {
		return nil
	}
	for i := range r.Schedule {
		date, err := datetime.OffsetDate(startDate, datetime.DateTimeLayout, i)
		if err != nil {
			return fmt.Errorf("invalid schedule start date %q: %w", startDate, err)
		}
		r.Schedule[i].Date = date
	}
	return nil
}

// MonthlyRate converts an annual percentage rate into a periodic monthly rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the level payment that amortizes
// principal over termMonths using the standard annuity formula. Terms below
// one month are treated as one month.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	return levelPayment(principal, MonthlyRate(annualInterestRate), max(termMonths, 1))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

func levelPayment(principal, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(months)))
}

// NormalizeTerm returns the effective term and grace period: the term is at
// least one month and grace is clamped to [0, term-1].
func NormalizeTerm(termMonths, gracePeriodMonths int) (term, grace int) {
	term = max(termMonths, 1)
	grace = mathutil.ClampInt(gracePeriodMonths, 0, max(term-1, 0))
	return term, grace
}

// Simulate walks a level-payment schedule with an interest-only grace period
// and measures it against a constant monthly operating cash flow.
func Simulate(principal float64, termMonths, gracePeriodMonths int, annualInterestRate, monthlyOperatingCashFlow float64) Result {
	term, grace := NormalizeTerm(termMonths, gracePeriodMonths)
	repaymentMonths := max(term-grace, 1)
	monthlyRate := MonthlyRate(annualInterestRate)
	amortizedPayment := levelPayment(principal, monthlyRate, repaymentMonths)

	result := Result{
		Schedule:            make([]SimulationPoint, 0, term),
		MonthlyPayment:      amortizedPayment,
		MinCashFlow:         math.Inf(1),
		AdjustedOperatingCF: monthlyOperatingCashFlow,
		AppliedInterestRate: annualInterestRate,
	}

	balance := principal
	cumulative := 0.0
	for month := 1; month <= term; month++ {
		interest := CalculateInterestPayment(balance, annualInterestRate)
		payment := interest
		principalPaid := 0.0

		if month > grace {
			payment = amortizedPayment
			principalPaid = payment - interest
			if principalPaid > balance || month == term {
				// Clamp on overshoot, and also settle the final month so
				// floating-point drift never leaves a residual balance.
				principalPaid = balance
				payment = interest + principalPaid
			}
			balance = math.Max(balance-principalPaid, 0)
		}

		netCashFlow := monthlyOperatingCashFlow - payment
		cumulative += netCashFlow

		result.Schedule = append(result.Schedule, SimulationPoint{
			Month:              month,
			Payment:            payment,
			Interest:           interest,
			Principal:          principalPaid,
			RemainingPrincipal: balance,
			NetCashFlow:        netCashFlow,
			Cumulative:         cumulative,
		})

		result.TotalPayment += payment
		result.TotalInterest += interest
		if netCashFlow < result.MinCashFlow {
			result.MinCashFlow = netCashFlow
		}
		if netCashFlow < 0 {
			result.NegativeMonths++
		}
	}

	return result
}

// Parameters are the simulator inputs for one run.
type Parameters struct {
	Principal                float64
	TermMonths               int
	GracePeriodMonths        int
	AnnualInterestRate       float64
	MonthlyOperatingCashFlow float64
	// StartDate optionally labels each month (YYYY-MM); month 1 is
	// StartDate itself.
	StartDate string
}

// ScheduleGenerator wraps Simulate with logging and calendar labels.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate runs the simulator for params and labels the schedule when a
// start date is set. Only an unparseable start date produces an error.
func (g *ScheduleGenerator) Generate(params Parameters) (Result, error) {
	term, grace := NormalizeTerm(params.TermMonths, params.GracePeriodMonths)
	if term != params.TermMonths || grace != params.GracePeriodMonths {
		g.logger.Debug("normalized loan term",
			zap.String("op", "loans.Generate"),
			zap.Int("requestedTerm", params.TermMonths),
			zap.Int("term", term),
			zap.Int("requestedGrace", params.GracePeriodMonths),
			zap.Int("grace", grace),
		)
	}

	result := Simulate(params.Principal, term, grace, params.AnnualInterestRate, params.MonthlyOperatingCashFlow)

	if err := result.Label(params.StartDate); err != nil {
		return Result{}, err
	}

	g.logger.Debug(fmt.Sprintf("simulated %d months at %.3f%%", term, params.AnnualInterestRate),
		zap.String("op", "loans.Generate"),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
		zap.Float64("minCashFlow", result.MinCashFlow),
		zap.Int("negativeMonths", result.NegativeMonths),
	)

	return result, nil
}
