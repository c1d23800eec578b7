package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/loans"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Inputs are shared by every scenario of one evaluation.
type Inputs struct {
	Principal         float64
	TermMonths        int
	GracePeriodMonths int
	BaseInterestRate  float64
	BaseCashFlow      float64
	// StartDate labels schedule months (YYYY-MM) when set.
	StartDate string
}

// Outcome pairs a scenario with its simulation result.
type Outcome struct {
	Scenario Config       `yaml:"scenario"`
	Result   loans.Result `yaml:"result"`
}

// Adjust applies the scenario's revenue and cost shocks to a monthly cash
// flow. Absent shocks are identity.
func Adjust(baseCashFlow float64, cfg Config) float64 {
	cf := baseCashFlow
	if pct, ok := cfg.RevenueChangePct(); ok {
		cf *= 1 + pct/constants.PercentageMultiplier
	}
	if pct, ok := cfg.CostChangePct(); ok {
		cf *= 1 - pct/constants.PercentageMultiplier
	}
	return cf
}

// AppliedRate returns the scenario's annual rate, never below zero.
func AppliedRate(baseRate float64, cfg Config) float64 {
	delta, _ := cfg.InterestRateDelta()
	return mathutil.Clamp(baseRate+delta, 0, math.MaxFloat64)
}

// Parameters returns the simulator inputs for one scenario.
func (in Inputs) Parameters(cfg Config) loans.Parameters {
	return loans.Parameters{
		Principal:                in.Principal,
		TermMonths:               in.TermMonths,
		GracePeriodMonths:        in.GracePeriodMonths,
		AnnualInterestRate:       AppliedRate(in.BaseInterestRate, cfg),
		MonthlyOperatingCashFlow: Adjust(in.BaseCashFlow, cfg),
		StartDate:                in.StartDate,
	}
}

// Run simulates one scenario without calendar labels.
func Run(in Inputs, cfg Config) loans.Result {
	params := in.Parameters(cfg)
	return loans.Simulate(
		params.Principal,
		params.TermMonths,
		params.GracePeriodMonths,
		params.AnnualInterestRate,
		params.MonthlyOperatingCashFlow,
	)
}

// Evaluator runs catalogs through a schedule generator.
type Evaluator struct {
	generator *loans.ScheduleGenerator
}

// NewEvaluator creates a new evaluator instance
func NewEvaluator(logger *zap.Logger) *Evaluator {
	return &Evaluator{generator: loans.NewScheduleGenerator(logger)}
}

// Run simulates and labels one scenario.
func (e *Evaluator) Run(in Inputs, cfg Config) (Outcome, error) {
	result, err := e.generator.Generate(in.Parameters(cfg))
	if err != nil {
		return Outcome{}, fmt.Errorf("scenario %q: %w", cfg.ID, err)
	}
	return Outcome{Scenario: cfg, Result: result}, nil
}

// Evaluate runs every scenario of the catalog in catalog order.
func (e *Evaluator) Evaluate(in Inputs, catalog Catalog) ([]Outcome, error) {
	outcomes := make([]Outcome, len(catalog))
	for i, cfg := range catalog {
		outcome, err := e.Run(in, cfg)
		if err != nil {
			return nil, err
		}
		outcomes[i] = outcome
	}
	return outcomes, nil
}

// EvaluateParallel runs every scenario concurrently. The outcomes are the
// same as Evaluate's and keep catalog order.
func (e *Evaluator) EvaluateParallel(ctx context.Context, in Inputs, catalog Catalog) ([]Outcome, error) {
	outcomes := make([]Outcome, len(catalog))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range catalog {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := e.Run(in, cfg)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
