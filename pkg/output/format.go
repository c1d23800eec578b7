// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/format"
	"github.com/iwvelando/loan-sim/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything one CLI run writes out.
type Report struct {
	Simulation *simulation.Result     `yaml:"simulation"`
	Capacity   []optimization.Summary `yaml:"capacity,omitempty"`
	Warnings   []string               `yaml:"warnings,omitempty"`
	// ScenarioIDs limits schedule output to these scenarios; empty means all.
	ScenarioIDs []string `yaml:"-"`
}

// Schedules returns the scenario reports selected for schedule output.
func (r Report) Schedules() []simulation.ScenarioReport {
	if len(r.ScenarioIDs) == 0 {
		return r.Simulation.Scenarios
	}
	var selected []simulation.ScenarioReport
	for _, report := range r.Simulation.Scenarios {
		if slices.Contains(r.ScenarioIDs, report.Scenario.ID) {
			selected = append(selected, report)
		}
	}
	return selected
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report Report) {
	p := message.NewPrinter(language.English)
	sim := report.Simulation
	params := sim.Parameters

	fmt.Fprintf(w, "--- Loan simulation %s ---\n", sim.RunID)
	fmt.Fprintf(w, "Principal:      %s\n", format.Currency(params.Principal))
	fmt.Fprintf(w, "Term:           %d months (grace %d)\n", params.TermMonths, params.GracePeriodMonths)
	fmt.Fprintf(w, "Interest rate:  %s\n", format.Percent(params.InterestRate))
	if params.StartDate != "" {
		fmt.Fprintf(w, "Start:          %s\n", params.StartDate)
	}
	fmt.Fprintf(w, "Cash flow:      %s / month (%s)\n", format.Currency(sim.BaseCashFlow), sim.CashFlowSource)

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	fmt.Fprintf(w, "\n--- Scenario summary ---\n")
	fmt.Fprintf(w, "Scenario     | Rate   | Cash flow    | Payment      | Min net      | Negative | Verdict\n")
	fmt.Fprintf(w, "________     | ____   | _________    | _______      | _______      | ________ | _______\n")
	order, members := sim.Catalog().Groups()
	for _, group := range order {
		fmt.Fprintf(w, "[%s]\n", group)
		for _, id := range members[group] {
			s, _ := sim.Find(id)
			r := s.Result
			_, _ = p.Fprintf(w, "%-12s | %.3f%% | ¥%.0f | ¥%.0f | ¥%.0f | %d | %s\n",
				s.Scenario.ID, r.AppliedInterestRate, r.AdjustedOperatingCF, r.MonthlyPayment,
				r.MinCashFlow, r.NegativeMonths, s.Assessment.Verdict)
		}
	}

	if base := sim.Base(); base != nil {
		fmt.Fprintf(w, "\n%s\n", base.Assessment.Message)
	}

	if len(sim.Alerts) > 0 {
		fmt.Fprintf(w, "\n--- Alerts ---\n")
		for _, alert := range sim.Alerts {
			fmt.Fprintf(w, "- %s\n", alert)
		}
	}

	if len(sim.Comparisons) > 0 {
		fmt.Fprintf(w, "\n--- Industry comparison ---\n")
		for _, c := range sim.Comparisons {
			avg := "n/a"
			if c.IndustryAvg != nil {
				avg = format.Percent(*c.IndustryAvg)
			}
			fmt.Fprintf(w, "%-16s %10s (industry %s) %s\n", c.Metric, format.Percent(c.Value), avg, c.Standing)
		}
	}

	for _, s := range report.Schedules() {
		fmt.Fprintf(w, "\n--- Schedule for scenario %s (%s) ---\n", s.Scenario.ID, s.Scenario.Label)
		fmt.Fprintf(w, "Month | Date    | Payment | Interest | Principal | Remaining | Net cash flow | Cumulative\n")
		fmt.Fprintf(w, "_____ | ____    | _______ | ________ | _________ | _________ | _____________ | __________\n")
		for _, point := range s.Result.Schedule {
			date := point.Date
			if date == "" {
				date = "-"
			}
			_, _ = p.Fprintf(w, "%5d | %-7s | ¥%.0f | ¥%.0f | ¥%.0f | ¥%.0f | ¥%.0f | ¥%.0f\n",
				point.Month, date, point.Payment, point.Interest, point.Principal,
				point.RemainingPrincipal, point.NetCashFlow, point.Cumulative)
		}
		_, _ = p.Fprintf(w, "Total payment ¥%.0f, total interest ¥%.0f\n", s.Result.TotalPayment, s.Result.TotalInterest)
	}

	if len(report.Capacity) > 0 {
		fmt.Fprintf(w, "\n--- Capacity ---\n")
		for _, summary := range report.Capacity {
			fmt.Fprintf(w, "%s %s: %s -> %s (min net %s, converged %t)\n",
				summary.Scope, summary.Field, summary.OriginalDisplay, summary.ValueDisplay,
				format.Currency(summary.MinimumCash), summary.Converged)
			for _, note := range summary.Notes {
				fmt.Fprintf(w, "  note: %s\n", note)
			}
		}
	}
}

// csvHeader is the column layout of CsvFormat.
var csvHeader = []string{
	"scenario", "month", "date", "payment", "interest", "principal",
	"remainingPrincipal", "netCashFlow", "cumulative",
}

// CsvFormat outputs one row per scenario month in comma-separated value format.
func CsvFormat(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range report.Schedules() {
		for _, point := range s.Result.Schedule {
			record := []string{
				s.Scenario.ID,
				strconv.Itoa(point.Month),
				point.Date,
				format.RoundYen(point.Payment).String(),
				format.RoundYen(point.Interest).String(),
				format.RoundYen(point.Principal).String(),
				format.RoundYen(point.RemainingPrincipal).String(),
				format.RoundYen(point.NetCashFlow).String(),
				format.RoundYen(point.Cumulative).String(),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString renders CsvFormat into a string.
func CsvString(report Report) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}
