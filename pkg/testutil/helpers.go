// Package testutil provides common utility functions for testing.
package testutil

import (
	"context"
	"testing"

	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/finance"
	"go.uber.org/zap"
)

// SampleInputs returns a 10,000,000 yen, 60 month, 3% loan backed by
// 400,000 yen of monthly operating cash flow.
func SampleInputs() simulation.Inputs {
	return simulation.Inputs{
		Application: finance.LoanApplication{
			CompanyName:  "Sample Manufacturing",
			LoanAmount:   10_000_000,
			LoanPeriod:   60,
			InterestRate: finance.Float(3.0),
		},
		Statements: []finance.FinancialStatement{
			{FiscalYear: 2023, OperatingCashFlow: finance.Float(4_500_000)},
			{FiscalYear: 2024, OperatingCashFlow: finance.Float(5_100_000)},
		},
	}
}

// MustRecompute runs the simulation and fails the test on error.
func MustRecompute(tb testing.TB, in simulation.Inputs) *simulation.Result {
	tb.Helper()
	result, err := simulation.Recompute(context.Background(), zap.NewNop(), in)
	if err != nil {
		tb.Fatalf("Recompute() error = %v", err)
	}
	return result
}

// FindScenario finds a scenario report by id.
// Returns a pointer to the report if found, nil otherwise.
func FindScenario(reports []simulation.ScenarioReport, id string) *simulation.ScenarioReport {
	for i := range reports {
		if reports[i].Scenario.ID == id {
			return &reports[i]
		}
	}
	return nil
}
