package cashflow

import (
	"testing"

	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatePriority(t *testing.T) {
	app := finance.LoanApplication{LoanAmount: 10_000_000, LoanPeriod: 60}
	fullMetrics := &finance.FinancialMetrics{
		OperatingProfit: finance.Float(24_000_000),
		NetIncome:       finance.Float(3_600_000),
		Revenue:         finance.Float(120_000_000),
		OperatingMargin: finance.Float(5),
	}

	tests := []struct {
		name       string
		statements []finance.FinancialStatement
		metrics    *finance.FinancialMetrics
		app        finance.LoanApplication
		expected   float64
		source     Source
	}{
		{
			name: "statements win over metrics",
			statements: []finance.FinancialStatement{
				{FiscalYear: 2023, OperatingCashFlow: finance.Float(14_400_000)},
				{FiscalYear: 2024, OperatingCashFlow: finance.Float(28_800_000)},
				{FiscalYear: 2022},
			},
			metrics:  fullMetrics,
			app:      app,
			expected: 1_800_000,
			source:   SourceStatements,
		},
		{
			name:       "statements without cash flow are skipped",
			statements: []finance.FinancialStatement{{FiscalYear: 2024, Revenue: finance.Float(1)}},
			metrics:    fullMetrics,
			app:        app,
			expected:   2_000_000,
			source:     SourceOperatingProfit,
		},
		{
			name:     "net income when operating profit is absent",
			metrics:  &finance.FinancialMetrics{NetIncome: finance.Float(3_600_000)},
			app:      app,
			expected: 300_000,
			source:   SourceNetIncome,
		},
		{
			name:     "revenue times margin",
			metrics:  &finance.FinancialMetrics{Revenue: finance.Float(120_000_000), OperatingMargin: finance.Float(5)},
			app:      app,
			expected: 500_000,
			source:   SourceRevenueMargin,
		},
		{
			name:     "revenue without margin falls back",
			metrics:  &finance.FinancialMetrics{Revenue: finance.Float(120_000_000)},
			app:      app,
			expected: 500_000,
			source:   SourceFallback,
		},
		{
			name:     "fallback floor",
			app:      app,
			expected: 500_000,
			source:   SourceFallback,
		},
		{
			name:     "fallback principal ratio above floor",
			app:      finance.LoanApplication{LoanAmount: 40_000_000},
			expected: 10_000_000.0 / 12,
			source:   SourceFallback,
		},
		{
			name:     "negative operating profit is still a figure",
			metrics:  &finance.FinancialMetrics{OperatingProfit: finance.Float(-1_200_000)},
			app:      app,
			expected: -100_000,
			source:   SourceOperatingProfit,
		},
	}

	estimator := NewEstimator(DefaultFallbackPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthly, source := estimator.EstimateWithSource(Inputs{
				Statements:  tt.statements,
				Metrics:     tt.metrics,
				Application: tt.app,
			})
			assert.InDelta(t, tt.expected, monthly, 1e-6)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestEstimateNetIncomeOnly(t *testing.T) {
	got := Estimate(nil, &finance.FinancialMetrics{NetIncome: finance.Float(3_600_000)}, finance.LoanApplication{})
	assert.Equal(t, 300_000.0, got)
}

func TestEstimateConfigurablePolicy(t *testing.T) {
	estimator := NewEstimator(FallbackPolicy{PrincipalRatio: finance.Float(0.5), AnnualFloor: finance.Float(1_200_000)})

	monthly, source := estimator.EstimateWithSource(Inputs{
		Application: finance.LoanApplication{LoanAmount: 24_000_000},
	})
	require.Equal(t, SourceFallback, source)
	assert.Equal(t, 1_000_000.0, monthly)

	monthly = estimator.Estimate(Inputs{Application: finance.LoanApplication{LoanAmount: 100}})
	assert.Equal(t, 100_000.0, monthly)
}

func TestEstimateZeroPolicyUsesDefaults(t *testing.T) {
	app := finance.LoanApplication{LoanAmount: 10_000_000}

	monthly, source := NewEstimator(FallbackPolicy{}).EstimateWithSource(Inputs{Application: app})
	require.Equal(t, SourceFallback, source)
	assert.Equal(t, 500_000.0, monthly)

	large := finance.LoanApplication{LoanAmount: 48_000_000}
	assert.Equal(t, 1_000_000.0, NewEstimator(FallbackPolicy{}).Estimate(Inputs{Application: large}))
}

func TestEstimatePartialPolicy(t *testing.T) {
	app := finance.LoanApplication{LoanAmount: 12_000_000}

	// An explicit zero floor is honoured rather than treated as unset.
	estimator := NewEstimator(FallbackPolicy{AnnualFloor: finance.Float(0)})
	assert.Equal(t, 250_000.0, estimator.Estimate(Inputs{Application: app}))

	estimator = NewEstimator(FallbackPolicy{PrincipalRatio: finance.Float(0)})
	assert.Equal(t, 500_000.0, estimator.Estimate(Inputs{Application: app}))
}

func TestFallbackPolicyAccessors(t *testing.T) {
	defaults := DefaultFallbackPolicy()
	assert.Equal(t, FallbackPolicy{}.Ratio(), defaults.Ratio())
	assert.Equal(t, FallbackPolicy{}.Floor(), defaults.Floor())
}

func TestDefaultStrategiesOrder(t *testing.T) {
	strategies := DefaultStrategies()
	require.Len(t, strategies, 4)

	var sources []Source
	for _, strategy := range strategies {
		sources = append(sources, strategy.Source)
	}
	assert.Equal(t, []Source{SourceStatements, SourceOperatingProfit, SourceNetIncome, SourceRevenueMargin}, sources)

	for _, strategy := range strategies {
		_, ok := strategy.Annual(Inputs{})
		assert.False(t, ok, "strategy %s should not apply to empty inputs", strategy.Source)
	}
}
