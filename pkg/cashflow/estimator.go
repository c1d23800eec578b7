// Package cashflow estimates the monthly operating cash flow available to
// service a loan.
package cashflow

import (
	"math"

	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
)

// Source names the strategy that produced an estimate.
type Source string

// Estimate sources in priority order.
const (
	SourceStatements      Source = "statements"
	SourceOperatingProfit Source = "operatingProfit"
	SourceNetIncome       Source = "netIncome"
	SourceRevenueMargin   Source = "revenueMargin"
	SourceFallback        Source = "fallback"
)

// Inputs are the records an estimate is derived from. Metrics may be nil.
type Inputs struct {
	Statements  []finance.FinancialStatement
	Metrics     *finance.FinancialMetrics
	Application finance.LoanApplication
}

// Strategy is one candidate rule. Annual returns an annual figure and
// whether the rule applied.
type Strategy struct {
	Source Source
	Annual func(Inputs) (float64, bool)
}

// FallbackPolicy parameterizes the last-resort heuristic: annual capacity is
// max(loanAmount*PrincipalRatio, AnnualFloor). Nil fields take the built-in
// defaults, so the zero value is the default policy.
type FallbackPolicy struct {
	PrincipalRatio *float64 `mapstructure:"principalRatio" yaml:"principalRatio,omitempty"`
	AnnualFloor    *float64 `mapstructure:"annualFloor" yaml:"annualFloor,omitempty"`
}

// DefaultFallbackPolicy returns the built-in fallback constants.
func DefaultFallbackPolicy() FallbackPolicy {
	ratio := constants.DefaultFallbackPrincipalRatio
	floor := constants.DefaultFallbackAnnualFloor
	return FallbackPolicy{PrincipalRatio: &ratio, AnnualFloor: &floor}
}

// Ratio returns the effective principal ratio.
func (p FallbackPolicy) Ratio() float64 {
	if p.PrincipalRatio == nil {
		return constants.DefaultFallbackPrincipalRatio
	}
	return *p.PrincipalRatio
}

// Floor returns the effective annual floor.
func (p FallbackPolicy) Floor() float64 {
	if p.AnnualFloor == nil {
		return constants.DefaultFallbackAnnualFloor
	}
	return *p.AnnualFloor
}

// Estimator applies strategies in order and falls back to its policy.
type Estimator struct {
	strategies []Strategy
	ratio      float64
	floor      float64
}

// NewEstimator builds an estimator with the standard strategy order. Unset
// policy fields take the defaults.
func NewEstimator(policy FallbackPolicy) *Estimator {
	return &Estimator{
		strategies: DefaultStrategies(),
		ratio:      policy.Ratio(),
		floor:      policy.Floor(),
	}
}

// DefaultStrategies returns the candidate rules in priority order, excluding
// the fallback which always applies.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Source: SourceStatements, Annual: statementAverage},
		{Source: SourceOperatingProfit, Annual: metricsOperatingProfit},
		{Source: SourceNetIncome, Annual: metricsNetIncome},
		{Source: SourceRevenueMargin, Annual: metricsRevenueMargin},
	}
}

// Estimate returns the monthly operating cash flow for in.
func (e *Estimator) Estimate(in Inputs) float64 {
	monthly, _ := e.EstimateWithSource(in)
	return monthly
}

// EstimateWithSource returns the monthly operating cash flow and the rule
// that produced it. The first applicable rule wins; rules are never blended.
func (e *Estimator) EstimateWithSource(in Inputs) (float64, Source) {
	for _, strategy := range e.strategies {
		if annual, ok := strategy.Annual(in); ok {
			return annual / constants.MonthsPerYear, strategy.Source
		}
	}
	return e.fallbackAnnual(in.Application) / constants.MonthsPerYear, SourceFallback
}

func (e *Estimator) fallbackAnnual(app finance.LoanApplication) float64 {
	return math.Max(float64(app.LoanAmount)*e.ratio, e.floor)
}

// Estimate derives the monthly operating cash flow with the default policy.
func Estimate(statements []finance.FinancialStatement, metrics *finance.FinancialMetrics, application finance.LoanApplication) float64 {
	return NewEstimator(DefaultFallbackPolicy()).Estimate(Inputs{
		Statements:  statements,
		Metrics:     metrics,
		Application: application,
	})
}

func statementAverage(in Inputs) (float64, bool) {
	sum := 0.0
	count := 0
	for _, statement := range in.Statements {
		if statement.OperatingCashFlow == nil {
			continue
		}
		sum += *statement.OperatingCashFlow
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func metricsOperatingProfit(in Inputs) (float64, bool) {
	if in.Metrics == nil || in.Metrics.OperatingProfit == nil {
		return 0, false
	}
	return *in.Metrics.OperatingProfit, true
}

func metricsNetIncome(in Inputs) (float64, bool) {
	if in.Metrics == nil || in.Metrics.NetIncome == nil {
		return 0, false
	}
	return *in.Metrics.NetIncome, true
}

func metricsRevenueMargin(in Inputs) (float64, bool) {
	if in.Metrics == nil || in.Metrics.Revenue == nil || in.Metrics.OperatingMargin == nil {
		return 0, false
	}
	return mathutil.ApplyPercentage(*in.Metrics.Revenue, *in.Metrics.OperatingMargin), true
}
