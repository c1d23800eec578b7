// Package risk classifies simulation results and flags weak financial
// metrics.
package risk

import (
	"fmt"

	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/iwvelando/loan-sim/pkg/loans"
)

// Verdict is the qualitative outcome of one scenario.
type Verdict string

// Verdicts.
const (
	Sound  Verdict = "sound"
	AtRisk Verdict = "at risk"
)

// Advisory messages shown with a verdict.
const (
	MessageAtRisk = "The repayment plan is at risk. Consider revising the loan amount or repayment period."
	MessageSound  = "The repayment plan is sound. Cash flow stays positive for the whole term."
)

// Assessment is the classification of one result.
type Assessment struct {
	Verdict        Verdict `json:"verdict" yaml:"verdict"`
	Message        string  `json:"message" yaml:"message"`
	NegativeMonths []int   `json:"negativeMonths,omitempty" yaml:"negativeMonths,omitempty"`
}

// Classify returns AtRisk when any month has negative net cash flow and
// Sound otherwise.
func Classify(result loans.Result) Assessment {
	if result.NegativeMonths > 0 {
		return Assessment{
			Verdict:        AtRisk,
			Message:        MessageAtRisk,
			NegativeMonths: result.NegativeMonthList(),
		}
	}
	return Assessment{Verdict: Sound, Message: MessageSound}
}

// Alert thresholds, in percent.
const (
	MinEquityRatio  = 10.0
	MinCurrentRatio = 100.0
)

// Alerts returns human-readable warnings for weak metrics: thin equity,
// low liquidity, insolvency and operating losses.
func Alerts(metrics *finance.FinancialMetrics) []string {
	if metrics == nil {
		return nil
	}

	var alerts []string
	if metrics.EquityRatio != nil && *metrics.EquityRatio < MinEquityRatio {
		alerts = append(alerts, fmt.Sprintf("Equity ratio is %.1f%% (below %.0f%% requires attention).",
			*metrics.EquityRatio, MinEquityRatio))
	}
	if metrics.CurrentRatio != nil && *metrics.CurrentRatio < MinCurrentRatio {
		alerts = append(alerts, fmt.Sprintf("Current ratio is %.1f%% (below %.0f%% signals short-term liquidity concerns).",
			*metrics.CurrentRatio, MinCurrentRatio))
	}
	if metrics.TotalAssets != nil && metrics.TotalLiabilities != nil && *metrics.TotalLiabilities > *metrics.TotalAssets {
		alerts = append(alerts, "Liabilities exceed assets (insolvent balance sheet).")
	}
	if metrics.OperatingProfit != nil && *metrics.OperatingProfit < 0 {
		alerts = append(alerts, "Operating profit is negative.")
	}
	return alerts
}

// Standing compares a metric to its industry average.
type Standing string

// Standings.
const (
	Above   Standing = "above"
	Below   Standing = "below"
	Neutral Standing = "neutral"
)

// Comparison is one metric against its industry average.
type Comparison struct {
	Metric         string   `json:"metric" yaml:"metric"`
	Value          float64  `json:"value" yaml:"value"`
	IndustryAvg    *float64 `json:"industryAvg,omitempty" yaml:"industryAvg,omitempty"`
	HigherIsBetter bool     `json:"higherIsBetter" yaml:"higherIsBetter"`
	Standing       Standing `json:"standing" yaml:"standing"`
}

func compare(value float64, avg *float64, higherIsBetter bool) Standing {
	if avg == nil {
		return Neutral
	}
	better := value >= *avg
	if !higherIsBetter {
		better = *avg >= value
	}
	if better {
		return Above
	}
	return Below
}

// CompareToIndustry lists each reported ratio with its standing against the
// industry average. Metrics without a value are omitted.
func CompareToIndustry(metrics *finance.FinancialMetrics) []Comparison {
	if metrics == nil {
		return nil
	}

	candidates := []struct {
		name           string
		value          *float64
		avg            *float64
		higherIsBetter bool
	}{
		{"roe", metrics.ROE, metrics.IndustryAvgROE, true},
		{"roa", metrics.ROA, metrics.IndustryAvgROA, true},
		{"operatingMargin", metrics.OperatingMargin, metrics.IndustryAvgOperatingMargin, true},
		{"currentRatio", metrics.CurrentRatio, metrics.IndustryAvgCurrentRatio, true},
		{"equityRatio", metrics.EquityRatio, metrics.IndustryAvgEquityRatio, true},
		{"debtEquityRatio", metrics.DebtEquityRatio, nil, false},
	}

	var comparisons []Comparison
	for _, c := range candidates {
		if c.value == nil {
			continue
		}
		comparisons = append(comparisons, Comparison{
			Metric:         c.name,
			Value:          *c.value,
			IndustryAvg:    c.avg,
			HigherIsBetter: c.higherIsBetter,
			Standing:       compare(*c.value, c.avg, c.higherIsBetter),
		})
	}
	return comparisons
}
