// Package capacity searches for the loan size and term a scenario can carry
// without its net cash flow dropping below a floor.
package capacity

import (
	"fmt"

	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/format"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
	"github.com/iwvelando/loan-sim/pkg/optimization"
	"github.com/iwvelando/loan-sim/pkg/scenario"
	"go.uber.org/zap"
)

// Capacity search fields.
const (
	FieldPrincipal  = "principal"
	FieldTermMonths = "termMonths"
)

// Settings bound the capacity search. Zero values take defaults.
type Settings struct {
	// Floor is the lowest acceptable monthly net cash flow.
	Floor float64 `mapstructure:"floor" yaml:"floor"`
	// MinPrincipalMan and MaxPrincipalMan bound the principal search in
	// units of 10,000. MaxPrincipalMan defaults to ten times the current
	// principal.
	MinPrincipalMan int64 `mapstructure:"minPrincipalMan" yaml:"minPrincipalMan,omitempty"`
	MaxPrincipalMan int64 `mapstructure:"maxPrincipalMan" yaml:"maxPrincipalMan,omitempty"`
	MinTerm         int   `mapstructure:"minTerm" yaml:"minTerm,omitempty"`
	MaxTerm         int   `mapstructure:"maxTerm" yaml:"maxTerm,omitempty"`
	MaxIterations   int   `mapstructure:"maxIterations" yaml:"maxIterations,omitempty"`
}

// Validate checks that the bounds are ordered.
func (s Settings) Validate() error {
	if s.MinPrincipalMan < 0 || s.MaxPrincipalMan < 0 {
		return fmt.Errorf("capacity principal bounds cannot be negative")
	}
	if s.MaxPrincipalMan > 0 && s.MinPrincipalMan > s.MaxPrincipalMan {
		return fmt.Errorf("capacity minPrincipalMan %d exceeds maxPrincipalMan %d", s.MinPrincipalMan, s.MaxPrincipalMan)
	}
	if s.MinTerm < 0 || s.MaxTerm < 0 {
		return fmt.Errorf("capacity term bounds cannot be negative")
	}
	if s.MaxTerm > 0 && s.MinTerm > s.MaxTerm {
		return fmt.Errorf("capacity minTerm %d exceeds maxTerm %d", s.MinTerm, s.MaxTerm)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("capacity maxIterations cannot be negative")
	}
	if !mathutil.IsFinite(s.Floor) {
		return fmt.Errorf("capacity floor must be finite")
	}
	return nil
}

func (s Settings) withDefaults(params simulation.Parameters) Settings {
	if s.MinPrincipalMan <= 0 {
		s.MinPrincipalMan = 1
	}
	if s.MaxPrincipalMan <= 0 {
		s.MaxPrincipalMan = max(int64(params.Principal)/constants.LoanAmountUnit*10, s.MinPrincipalMan)
	}
	if s.MinTerm <= 0 {
		s.MinTerm = 1
	}
	if s.MaxTerm <= 0 {
		s.MaxTerm = max(constants.DefaultCapacityMaxTerm, s.MinTerm)
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = constants.DefaultCapacityMaxIterations
	}
	return s
}

// Runner evaluates capacity for the scenarios of a computed simulation.
type Runner struct {
	logger   *zap.Logger
	result   *simulation.Result
	settings Settings
}

type evaluation struct {
	value   float64
	minCash float64
	floor   float64
}

// feasible allows the minimum cash flow to miss the floor by less than one yen.
func (e evaluation) feasible() bool {
	return !mathutil.IsNegative(e.headroom())
}

func (e evaluation) headroom() float64 {
	return e.minCash - e.floor
}

// NewRunner constructs a Runner for a computed simulation.
func NewRunner(logger *zap.Logger, result *simulation.Result, settings Settings) (*Runner, error) {
	if result == nil {
		return nil, fmt.Errorf("simulation result cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		logger:   logger,
		result:   result,
		settings: settings.withDefaults(result.Parameters),
	}, nil
}

func (r *Runner) scenario(id string) (scenario.Config, error) {
	report, ok := r.result.Find(id)
	if !ok {
		return scenario.Config{}, fmt.Errorf("unknown scenario %q", id)
	}
	return report.Scenario, nil
}

func (r *Runner) evaluate(cfg scenario.Config, principal float64, term int) evaluation {
	params := r.result.Parameters
	result := scenario.Run(scenario.Inputs{
		Principal:         principal,
		TermMonths:        term,
		GracePeriodMonths: params.GracePeriodMonths,
		BaseInterestRate:  params.InterestRate,
		BaseCashFlow:      r.result.BaseCashFlow,
	}, cfg)
	return evaluation{minCash: result.MinCashFlow, floor: r.settings.Floor}
}

// MaxPrincipal finds the largest principal, in whole units of 10,000, for
// which the scenario's minimum net cash flow stays at or above the floor.
// Failing to find one within bounds is reported in the summary, not as an
// error.
func (r *Runner) MaxPrincipal(scenarioID string) (optimization.Summary, error) {
	cfg, err := r.scenario(scenarioID)
	if err != nil {
		return optimization.Summary{}, err
	}

	term := r.result.Parameters.TermMonths
	evalAt := func(units int64) evaluation {
		e := r.evaluate(cfg, float64(units*constants.LoanAmountUnit), term)
		e.value = float64(units * constants.LoanAmountUnit)
		return e
	}

	lower, upper := r.settings.MinPrincipalMan, r.settings.MaxPrincipalMan
	lowerEval, upperEval := evalAt(lower), evalAt(upper)
	summary := r.newSummary(cfg, FieldPrincipal, r.result.Parameters.Principal, format.Currency(r.result.Parameters.Principal))

	switch {
	case !lowerEval.feasible():
		summary.Notes = []string{fmt.Sprintf("unable to keep net cash flow above %s within bounds %s to %s",
			format.Currency(r.settings.Floor), format.Currency(lowerEval.value), format.Currency(upperEval.value))}
		return r.finish(summary, lowerEval, 0, false), nil
	case upperEval.feasible():
		summary.Notes = []string{fmt.Sprintf("upper bound %s is still affordable", format.Currency(upperEval.value))}
		return r.finish(summary, upperEval, 0, true), nil
	}

	best := lowerEval
	iterations := 0
	for iterations < r.settings.MaxIterations && upper-lower > 1 {
		mid := lower + (upper-lower)/2
		midEval := evalAt(mid)
		iterations++
		if midEval.feasible() {
			best = midEval
			lower = mid
		} else {
			upper = mid
		}
	}

	converged := upper-lower <= 1
	if !converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations", iterations)}
	}
	return r.finish(summary, best, iterations, converged), nil
}

// MinTerm finds the shortest term, in months, for which the scenario's
// minimum net cash flow stays at or above the floor.
func (r *Runner) MinTerm(scenarioID string) (optimization.Summary, error) {
	cfg, err := r.scenario(scenarioID)
	if err != nil {
		return optimization.Summary{}, err
	}

	principal := r.result.Parameters.Principal
	evalAt := func(term int) evaluation {
		e := r.evaluate(cfg, principal, term)
		e.value = float64(term)
		return e
	}

	lower, upper := r.settings.MinTerm, r.settings.MaxTerm
	lowerEval, upperEval := evalAt(lower), evalAt(upper)
	original := float64(r.result.Parameters.TermMonths)
	summary := r.newSummary(cfg, FieldTermMonths, original, termDisplay(original))

	switch {
	case lowerEval.feasible():
		summary.Notes = []string{fmt.Sprintf("lower bound %s is already affordable", termDisplay(lowerEval.value))}
		return r.finish(summary, lowerEval, 0, true), nil
	case !upperEval.feasible():
		summary.Notes = []string{fmt.Sprintf("unable to keep net cash flow above %s within bounds %s to %s",
			format.Currency(r.settings.Floor), termDisplay(lowerEval.value), termDisplay(upperEval.value))}
		return r.finish(summary, upperEval, 0, false), nil
	}

	best := upperEval
	iterations := 0
	for iterations < r.settings.MaxIterations && upper-lower > 1 {
		mid := lower + (upper-lower)/2
		midEval := evalAt(mid)
		iterations++
		if midEval.feasible() {
			best = midEval
			upper = mid
		} else {
			lower = mid
		}
	}

	converged := upper-lower <= 1
	if !converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations", iterations)}
	}
	return r.finish(summary, best, iterations, converged), nil
}

// Run searches both fields for each scenario id, or every scenario when ids
// is empty.
func (r *Runner) Run(ids ...string) ([]optimization.Summary, error) {
	if len(ids) == 0 {
		for _, report := range r.result.Scenarios {
			ids = append(ids, report.Scenario.ID)
		}
	}

	summaries := make([]optimization.Summary, 0, 2*len(ids))
	for _, id := range ids {
		principal, err := r.MaxPrincipal(id)
		if err != nil {
			return nil, err
		}
		term, err := r.MinTerm(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, principal, term)
	}
	return summaries, nil
}

func (r *Runner) newSummary(cfg scenario.Config, field string, original float64, display string) optimization.Summary {
	return optimization.Summary{
		Scope:           cfg.ID,
		TargetName:      cfg.Label,
		Field:           field,
		Original:        original,
		OriginalDisplay: display,
		Floor:           r.settings.Floor,
	}
}

func (r *Runner) finish(summary optimization.Summary, best evaluation, iterations int, converged bool) optimization.Summary {
	summary.Value = best.value
	summary.MinimumCash = best.minCash
	summary.Headroom = best.headroom()
	summary.Iterations = iterations
	summary.Converged = converged && best.feasible()
	if summary.Field == FieldPrincipal {
		summary.ValueDisplay = format.Currency(best.value)
	} else {
		summary.ValueDisplay = termDisplay(best.value)
	}

	r.logger.Info("capacity search finished",
		zap.String("op", "capacity.Runner"),
		zap.String("scenario", summary.Scope),
		zap.String("field", summary.Field),
		zap.String("originalDisplay", summary.OriginalDisplay),
		zap.String("valueDisplay", summary.ValueDisplay),
		zap.Float64("floor", summary.Floor),
		zap.Float64("minCash", summary.MinimumCash),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary
}

func termDisplay(months float64) string {
	return fmt.Sprintf("%d months", int(months))
}
