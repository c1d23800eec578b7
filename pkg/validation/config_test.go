package validation

import (
	"strings"
	"testing"
)

func TestValidateMaturity(t *testing.T) {
	tests := []struct {
		name        string
		startDate   string
		horizon     string
		termMonths  int
		expectWarn  bool
		expectError bool
	}{
		{
			name:       "Loan matures before horizon",
			startDate:  "2025-01",
			horizon:    "2030-01",
			termMonths: 36,
		},
		{
			name:       "Loan matures after horizon",
			startDate:  "2025-01",
			horizon:    "2028-01",
			termMonths: 60, // last payment 2029-12
			expectWarn: true,
		},
		{
			name:       "Last payment in horizon month",
			startDate:  "2025-01",
			horizon:    "2029-12",
			termMonths: 60,
		},
		{
			name:       "No horizon",
			startDate:  "2025-01",
			termMonths: 600,
		},
		{
			name:        "Invalid start date",
			startDate:   "invalid-date",
			horizon:     "2030-01",
			termMonths:  60,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, err := ValidateMaturity(tt.startDate, tt.horizon, tt.termMonths)

			if tt.expectError {
				if err == nil {
					t.Errorf("ValidateMaturity() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateMaturity() unexpected error = %v", err)
				return
			}
			if hasWarning := warning != ""; hasWarning != tt.expectWarn {
				t.Errorf("ValidateMaturity() warning = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateGracePeriod(t *testing.T) {
	tests := []struct {
		name       string
		term       int
		grace      int
		expectWarn bool
	}{
		{"Grace within term", 60, 6, false},
		{"No grace", 60, 0, false},
		{"Grace equals term", 12, 12, true},
		{"Negative grace", 24, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateGracePeriod(tt.term, tt.grace)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateGracePeriod(%d, %d) = %q, expectWarn %v", tt.term, tt.grace, warning, tt.expectWarn)
			}
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestValidateLoanAmount(t *testing.T) {
	tests := []struct {
		name       string
		loanAmount int64
		want       string
	}{
		{"Whole units", 30_000_000, ""},
		{"Rounded up", 12_345_678, "rounded to 12350000"},
		{"Rounded down", 10_004_000, "rounded to 10000000"},
		{"Below one unit", 4_999, "rounded to 10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLoanAmount(tt.loanAmount)
			if tt.want == "" {
				if got != "" {
					t.Errorf("ValidateLoanAmount(%d) = %q, expected no warning", tt.loanAmount, got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ValidateLoanAmount(%d) = %q, expected to contain %q", tt.loanAmount, got, tt.want)
			}
		})
	}
}

func TestConfigValidatorValidateAll(t *testing.T) {
	zero := int64(0)

	tests := []struct {
		name      string
		validator ConfigValidator
		contains  []string
	}{
		{
			name:      "Clean inputs",
			validator: ConfigValidator{LoanAmount: 10_000_000, TermMonths: 60, GracePeriod: 6, InterestRate: 3, StartDate: "2025-04"},
		},
		{
			name:      "Override below minimum",
			validator: ConfigValidator{LoanAmount: 10_000_000, LoanAmountMan: &zero, TermMonths: 60},
			contains:  []string{"raised to the minimum"},
		},
		{
			name:      "Missing loan amount",
			validator: ConfigValidator{TermMonths: 60},
			contains:  []string{"no loan amount"},
		},
		{
			name:      "Loan amount off the unit grid",
			validator: ConfigValidator{LoanAmount: 12_345_678, TermMonths: 60},
			contains:  []string{"rounded to 12350000"},
		},
		{
			name:      "Override skips rounding check",
			validator: ConfigValidator{LoanAmount: 12_345_678, LoanAmountMan: int64Ptr(1234), TermMonths: 60},
		},
		{
			name:      "Clamped grace and bad date",
			validator: ConfigValidator{LoanAmount: 10_000_000, TermMonths: 12, GracePeriod: 12, StartDate: "04/2025"},
			contains:  []string{"adjusted to 11", "is invalid"},
		},
		{
			name:      "Negative rate and horizon",
			validator: ConfigValidator{LoanAmount: 10_000_000, TermMonths: 120, InterestRate: -1, StartDate: "2025-01", Horizon: "2030-01"},
			contains:  []string{"negative", "planning horizon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.validator.ValidateAll()
			if len(warnings) != len(tt.contains) {
				t.Fatalf("ValidateAll() = %v, expected %d warnings", warnings, len(tt.contains))
			}
			for i, want := range tt.contains {
				if !strings.Contains(warnings[i], want) {
					t.Errorf("warning %d = %q, expected to contain %q", i, warnings[i], want)
				}
			}
		})
	}
}
