// Package simulation resolves simulator inputs from an application and user
// overrides, estimates operating cash flow and runs every stress scenario.
package simulation

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-sim/pkg/cashflow"
	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/datetime"
	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/iwvelando/loan-sim/pkg/loans"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
	"github.com/iwvelando/loan-sim/pkg/risk"
	"github.com/iwvelando/loan-sim/pkg/scenario"
	"go.uber.org/zap"
)

// Overrides are user-adjustable simulation parameters, independent of the
// application record. Nil fields fall back to the application.
type Overrides struct {
	// LoanAmountMan is the principal in units of 10,000; values below one
	// unit are raised to one.
	LoanAmountMan *int64   `mapstructure:"loanAmountMan" yaml:"loanAmountMan,omitempty"`
	LoanPeriod    *int     `mapstructure:"loanPeriod" yaml:"loanPeriod,omitempty"`
	InterestRate  *float64 `mapstructure:"interestRate" yaml:"interestRate,omitempty"`
	GracePeriod   int      `mapstructure:"gracePeriod" yaml:"gracePeriod,omitempty"`
	// StartDate labels schedule months (YYYY-MM) when set.
	StartDate string `mapstructure:"startDate" yaml:"startDate,omitempty"`
}

// Inputs are everything one recompute needs.
type Inputs struct {
	Application finance.LoanApplication
	Statements  []finance.FinancialStatement
	Metrics     *finance.FinancialMetrics
	Overrides   Overrides
	// Catalog defaults to scenario.DefaultCatalog when empty.
	Catalog  scenario.Catalog
	Fallback cashflow.FallbackPolicy
	// Parallel evaluates scenarios concurrently.
	Parallel bool
}

// Parameters are the resolved simulator inputs shared by all scenarios.
type Parameters struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
	GracePeriodMonths int     `json:"gracePeriodMonths" yaml:"gracePeriodMonths"`
	InterestRate      float64 `json:"interestRate" yaml:"interestRate"`
	StartDate         string  `json:"startDate,omitempty" yaml:"startDate,omitempty"`
}

// ScenarioReport is one scenario's result and classification.
type ScenarioReport struct {
	Scenario   scenario.Config `json:"scenario" yaml:"scenario"`
	Result     loans.Result    `json:"result" yaml:"result"`
	Assessment risk.Assessment `json:"assessment" yaml:"assessment"`
}

// Result holds all information related to one recompute.
type Result struct {
	RunID          string            `json:"runId" yaml:"runId"`
	Parameters     Parameters        `json:"parameters" yaml:"parameters"`
	BaseCashFlow   float64           `json:"baseCashFlow" yaml:"baseCashFlow"`
	CashFlowSource cashflow.Source   `json:"cashFlowSource" yaml:"cashFlowSource"`
	Scenarios      []ScenarioReport  `json:"scenarios" yaml:"scenarios"`
	Alerts         []string          `json:"alerts,omitempty" yaml:"alerts,omitempty"`
	Comparisons    []risk.Comparison `json:"comparisons,omitempty" yaml:"comparisons,omitempty"`
}

// Find returns the report for a scenario id.
func (r *Result) Find(id string) (*ScenarioReport, bool) {
	for i := range r.Scenarios {
		if r.Scenarios[i].Scenario.ID == id {
			return &r.Scenarios[i], true
		}
	}
	return nil, false
}

// Base returns the base scenario's report.
func (r *Result) Base() *ScenarioReport {
	report, _ := r.Find(scenario.BaseID)
	return report
}

// Catalog returns the scenarios that were evaluated, in order.
func (r *Result) Catalog() scenario.Catalog {
	catalog := make(scenario.Catalog, len(r.Scenarios))
	for i, report := range r.Scenarios {
		catalog[i] = report.Scenario
	}
	return catalog
}

// ResolveParameters applies overrides over the application record.
func ResolveParameters(in Inputs) (Parameters, error) {
	units := int64(math.Round(float64(in.Application.LoanAmount) / float64(constants.LoanAmountUnit)))
	if in.Overrides.LoanAmountMan != nil {
		units = *in.Overrides.LoanAmountMan
	}
	principal := float64(max(units, 1) * constants.LoanAmountUnit)

	term := in.Application.EffectiveLoanPeriod()
	if in.Overrides.LoanPeriod != nil {
		term = *in.Overrides.LoanPeriod
	}

	rate := in.Application.EffectiveInterestRate()
	if in.Overrides.InterestRate != nil {
		rate = *in.Overrides.InterestRate
	}
	if !mathutil.IsFinite(rate) {
		return Parameters{}, fmt.Errorf("interest rate must be finite, got %v", rate)
	}

	if err := datetime.ValidateMonth(in.Overrides.StartDate); err != nil {
		return Parameters{}, fmt.Errorf("invalid start date: %w", err)
	}

	term, grace := loans.NormalizeTerm(term, in.Overrides.GracePeriod)
	return Parameters{
		Principal:         principal,
		TermMonths:        term,
		GracePeriodMonths: grace,
		InterestRate:      rate,
		StartDate:         in.Overrides.StartDate,
	}, nil
}

// Recompute resolves parameters, estimates the base cash flow and evaluates
// every scenario. It is safe to call on every input change; nothing is
// cached between calls.
func Recompute(ctx context.Context, logger *zap.Logger, in Inputs) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("runId", runID))

	params, err := ResolveParameters(in)
	if err != nil {
		return nil, err
	}

	if err := checkFinite(in); err != nil {
		return nil, err
	}

	catalog := in.Catalog
	if len(catalog) == 0 {
		catalog = scenario.DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario catalog: %w", err)
	}

	estimator := cashflow.NewEstimator(in.Fallback)
	baseCashFlow, source := estimator.EstimateWithSource(cashflow.Inputs{
		Statements:  in.Statements,
		Metrics:     in.Metrics,
		Application: in.Application,
	})
	logger.Debug("estimated operating cash flow",
		zap.String("op", "simulation.Recompute"),
		zap.String("source", string(source)),
		zap.Float64("monthly", baseCashFlow),
	)

	shared := scenario.Inputs{
		Principal:         params.Principal,
		TermMonths:        params.TermMonths,
		GracePeriodMonths: params.GracePeriodMonths,
		BaseInterestRate:  params.InterestRate,
		BaseCashFlow:      baseCashFlow,
		StartDate:         params.StartDate,
	}

	evaluator := scenario.NewEvaluator(logger)
	var outcomes []scenario.Outcome
	if in.Parallel {
		outcomes, err = evaluator.EvaluateParallel(ctx, shared, catalog)
	} else {
		outcomes, err = evaluator.Evaluate(shared, catalog)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario evaluation failed: %w", err)
	}

	result := &Result{
		RunID:          runID,
		Parameters:     params,
		BaseCashFlow:   baseCashFlow,
		CashFlowSource: source,
		Scenarios:      make([]ScenarioReport, 0, len(outcomes)),
		Alerts:         risk.Alerts(in.Metrics),
		Comparisons:    risk.CompareToIndustry(in.Metrics),
	}

	for _, outcome := range outcomes {
		assessment := risk.Classify(outcome.Result)
		if assessment.Verdict == risk.AtRisk {
			logger.Debug(fmt.Sprintf("scenario %s has %d cash-flow negative months",
				outcome.Scenario.ID, outcome.Result.NegativeMonths),
				zap.String("op", "simulation.Recompute"),
			)
		}
		result.Scenarios = append(result.Scenarios, ScenarioReport{
			Scenario:   outcome.Scenario,
			Result:     outcome.Result,
			Assessment: assessment,
		})
	}

	logger.Info("simulation computed",
		zap.String("op", "simulation.Recompute"),
		zap.Int("scenarios", len(result.Scenarios)),
		zap.Float64("principal", params.Principal),
		zap.Int("termMonths", params.TermMonths),
		zap.Int("gracePeriodMonths", params.GracePeriodMonths),
		zap.Float64("interestRate", params.InterestRate),
	)

	return result, nil
}

func checkFinite(in Inputs) error {
	for _, statement := range in.Statements {
		if statement.OperatingCashFlow != nil && !mathutil.IsFinite(*statement.OperatingCashFlow) {
			return fmt.Errorf("fiscal year %d: operating cash flow must be finite", statement.FiscalYear)
		}
	}
	if m := in.Metrics; m != nil {
		for name, v := range map[string]*float64{
			"operatingProfit": m.OperatingProfit,
			"netIncome":       m.NetIncome,
			"revenue":         m.Revenue,
			"operatingMargin": m.OperatingMargin,
		} {
			if v != nil && !mathutil.IsFinite(*v) {
				return fmt.Errorf("metric %s must be finite", name)
			}
		}
	}
	for _, cfg := range in.Catalog {
		for _, s := range cfg.Shocks {
			if !mathutil.IsFinite(s.Magnitude) {
				return fmt.Errorf("scenario %q: shock magnitude must be finite", cfg.ID)
			}
		}
	}
	return nil
}
