// Package finance defines the underwriting records consumed by the simulator:
// loan applications, historical financial statements and summary metrics.
//
// Optional figures are pointers; nil means the figure was not reported.
package finance

import (
	"github.com/iwvelando/loan-sim/pkg/constants"
)

// ApplicationStatus is the workflow state of a loan application.
type ApplicationStatus string

// Application statuses.
const (
	StatusDraft     ApplicationStatus = "draft"
	StatusAnalyzing ApplicationStatus = "analyzing"
	StatusCompleted ApplicationStatus = "completed"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
)

// RiskLevel is the analyst's risk classification of an application.
type RiskLevel string

// Risk levels.
const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// LoanApplication holds the requested loan terms.
type LoanApplication struct {
	ID              string            `mapstructure:"id" yaml:"id,omitempty"`
	CompanyName     string            `mapstructure:"companyName" yaml:"companyName,omitempty"`
	Industry        string            `mapstructure:"industry" yaml:"industry,omitempty"`
	EstablishedYear int               `mapstructure:"establishedYear" yaml:"establishedYear,omitempty"`
	EmployeeCount   int               `mapstructure:"employeeCount" yaml:"employeeCount,omitempty"`
	FundingPurpose  string            `mapstructure:"fundingPurpose" yaml:"fundingPurpose,omitempty"`
	LoanAmount      int64             `mapstructure:"loanAmount" yaml:"loanAmount"`
	LoanPeriod      int               `mapstructure:"loanPeriod" yaml:"loanPeriod"`
	InterestRate    *float64          `mapstructure:"interestRate" yaml:"interestRate,omitempty"`
	Status          ApplicationStatus `mapstructure:"status" yaml:"status,omitempty"`
	RiskLevel       RiskLevel         `mapstructure:"riskLevel" yaml:"riskLevel,omitempty"`
}

// EffectiveInterestRate returns the application's annual rate in percent, or
// the default rate when none was requested.
func (a LoanApplication) EffectiveInterestRate() float64 {
	if a.InterestRate == nil {
		return constants.DefaultInterestRate
	}
	return *a.InterestRate
}

// EffectiveLoanPeriod returns the requested term, or the default term when
// the application carries none.
func (a LoanApplication) EffectiveLoanPeriod() int {
	if a.LoanPeriod <= 0 {
		return constants.DefaultLoanPeriod
	}
	return a.LoanPeriod
}

// FinancialStatement is one fiscal year of reported figures.
type FinancialStatement struct {
	FiscalYear        int      `mapstructure:"fiscalYear" yaml:"fiscalYear"`
	Revenue           *float64 `mapstructure:"revenue" yaml:"revenue,omitempty"`
	OperatingProfit   *float64 `mapstructure:"operatingProfit" yaml:"operatingProfit,omitempty"`
	OrdinaryProfit    *float64 `mapstructure:"ordinaryProfit" yaml:"ordinaryProfit,omitempty"`
	NetIncome         *float64 `mapstructure:"netIncome" yaml:"netIncome,omitempty"`
	TotalAssets       *float64 `mapstructure:"totalAssets" yaml:"totalAssets,omitempty"`
	TotalLiabilities  *float64 `mapstructure:"totalLiabilities" yaml:"totalLiabilities,omitempty"`
	NetAssets         *float64 `mapstructure:"netAssets" yaml:"netAssets,omitempty"`
	OperatingCashFlow *float64 `mapstructure:"operatingCashFlow" yaml:"operatingCashFlow,omitempty"`
}

// FinancialMetrics are the summary ratios and absolute figures of an
// application. Ratios are percentages.
type FinancialMetrics struct {
	ROE             *float64 `mapstructure:"roe" yaml:"roe,omitempty"`
	ROA             *float64 `mapstructure:"roa" yaml:"roa,omitempty"`
	OperatingMargin *float64 `mapstructure:"operatingMargin" yaml:"operatingMargin,omitempty"`
	CurrentRatio    *float64 `mapstructure:"currentRatio" yaml:"currentRatio,omitempty"`
	EquityRatio     *float64 `mapstructure:"equityRatio" yaml:"equityRatio,omitempty"`
	DebtEquityRatio *float64 `mapstructure:"debtEquityRatio" yaml:"debtEquityRatio,omitempty"`

	Revenue          *float64 `mapstructure:"revenue" yaml:"revenue,omitempty"`
	OperatingProfit  *float64 `mapstructure:"operatingProfit" yaml:"operatingProfit,omitempty"`
	NetIncome        *float64 `mapstructure:"netIncome" yaml:"netIncome,omitempty"`
	TotalAssets      *float64 `mapstructure:"totalAssets" yaml:"totalAssets,omitempty"`
	TotalLiabilities *float64 `mapstructure:"totalLiabilities" yaml:"totalLiabilities,omitempty"`

	IndustryAvgROE             *float64 `mapstructure:"industryAvgRoe" yaml:"industryAvgRoe,omitempty"`
	IndustryAvgROA             *float64 `mapstructure:"industryAvgRoa" yaml:"industryAvgRoa,omitempty"`
	IndustryAvgOperatingMargin *float64 `mapstructure:"industryAvgOperatingMargin" yaml:"industryAvgOperatingMargin,omitempty"`
	IndustryAvgCurrentRatio    *float64 `mapstructure:"industryAvgCurrentRatio" yaml:"industryAvgCurrentRatio,omitempty"`
	IndustryAvgEquityRatio     *float64 `mapstructure:"industryAvgEquityRatio" yaml:"industryAvgEquityRatio,omitempty"`
}

// Float returns a pointer to v, for building optional figures.
func Float(v float64) *float64 {
	return &v
}
