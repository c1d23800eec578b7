package validation

import (
	"fmt"

	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/datetime"
	"github.com/iwvelando/loan-sim/pkg/loans"
	"github.com/iwvelando/loan-sim/pkg/mathutil"
)

// ValidateGracePeriod warns when a grace period will be clamped by the
// simulator.
func ValidateGracePeriod(termMonths, gracePeriodMonths int) string {
	term, grace := loans.NormalizeTerm(termMonths, gracePeriodMonths)
	if grace != gracePeriodMonths {
		return fmt.Sprintf("Grace period of %d months adjusted to %d for a %d month term",
			gracePeriodMonths, grace, term)
	}
	return ""
}

// ValidateLoanAmount warns when an application amount is not a whole number
// of 10,000 units and will be rounded.
func ValidateLoanAmount(loanAmount int64) string {
	unit := float64(constants.LoanAmountUnit)
	amount := float64(loanAmount)
	rounded := max(mathutil.Round(amount/unit), 1) * unit
	if mathutil.IsZero(rounded - amount) {
		return ""
	}
	return fmt.Sprintf("Loan amount of %d rounded to %.0f", loanAmount, rounded)
}

// ValidateMaturity warns when a loan starting at startDate matures after
// horizon. Both dates are YYYY-MM; an empty horizon disables the check.
func ValidateMaturity(startDate, horizon string, termMonths int) (string, error) {
	if startDate == "" || horizon == "" {
		return "", nil
	}
	maturityDate, err := datetime.OffsetDate(startDate, datetime.DateTimeLayout, termMonths-1)
	if err != nil {
		return "", err
	}

	if maturityDate > horizon {
		return fmt.Sprintf("Loan matures after the planning horizon (%s > %s)", maturityDate, horizon), nil
	}
	return "", nil
}

// ConfigValidator collects non-fatal warnings about simulation inputs.
type ConfigValidator struct {
	LoanAmount    int64
	LoanAmountMan *int64
	TermMonths    int
	GracePeriod   int
	InterestRate  float64
	StartDate     string
	Horizon       string
}

// ValidateAll validates the inputs and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.LoanAmountMan != nil && *cv.LoanAmountMan < 1 {
		warnings = append(warnings, fmt.Sprintf("Loan amount override of %d raised to the minimum of 1", *cv.LoanAmountMan))
	}
	if cv.LoanAmountMan == nil {
		if cv.LoanAmount <= 0 {
			warnings = append(warnings, "Application has no loan amount; using the minimum principal")
		} else if warning := ValidateLoanAmount(cv.LoanAmount); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	if cv.TermMonths <= 0 {
		warnings = append(warnings, fmt.Sprintf("Loan period of %d months is not positive; using a one month term", cv.TermMonths))
	}
	if warning := ValidateGracePeriod(cv.TermMonths, cv.GracePeriod); warning != "" {
		warnings = append(warnings, warning)
	}
	if cv.InterestRate < 0 {
		warnings = append(warnings, fmt.Sprintf("Interest rate of %.3f%% is negative", cv.InterestRate))
	}

	if cv.StartDate != "" {
		if err := datetime.ValidateMonth(cv.StartDate); err != nil {
			warnings = append(warnings, fmt.Sprintf("Start date %q is invalid: %v", cv.StartDate, err))
		} else if warning, err := ValidateMaturity(cv.StartDate, cv.Horizon, max(cv.TermMonths, 1)); err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
