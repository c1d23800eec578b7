package finance

import (
	"testing"

	"github.com/iwvelando/loan-sim/pkg/constants"
)

func TestEffectiveInterestRate(t *testing.T) {
	tests := []struct {
		name     string
		rate     *float64
		expected float64
	}{
		{"Absent rate uses default", nil, constants.DefaultInterestRate},
		{"Explicit rate", Float(1.75), 1.75},
		{"Explicit zero rate is kept", Float(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := LoanApplication{InterestRate: tt.rate}
			if got := app.EffectiveInterestRate(); got != tt.expected {
				t.Errorf("EffectiveInterestRate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEffectiveLoanPeriod(t *testing.T) {
	if got := (LoanApplication{LoanPeriod: 84}).EffectiveLoanPeriod(); got != 84 {
		t.Errorf("EffectiveLoanPeriod() = %d, expected 84", got)
	}
	if got := (LoanApplication{}).EffectiveLoanPeriod(); got != constants.DefaultLoanPeriod {
		t.Errorf("EffectiveLoanPeriod() = %d, expected %d", got, constants.DefaultLoanPeriod)
	}
}
