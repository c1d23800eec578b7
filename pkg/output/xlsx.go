package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	maxSheetNameLen = 31
)

var summaryHeader = []string{
	"Scenario", "Label", "Group", "Rate (%)", "Cash flow", "Monthly payment",
	"Total interest", "Total payment", "Min net cash flow", "Negative months", "Verdict",
}

var scheduleHeader = []string{
	"Month", "Date", "Payment", "Interest", "Principal", "Remaining principal",
	"Net cash flow", "Cumulative",
}

// sheetName strips characters Excel rejects in sheet names.
func sheetName(id string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, id)
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

// Workbook builds a workbook with a summary sheet and one schedule sheet per
// selected scenario.
func Workbook(report Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeSummary(f, report, headerStyle, amountStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	for _, s := range report.Schedules() {
		name := sheetName(s.Scenario.ID)
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("scenario %s: %w", s.Scenario.ID, err)
		}
		if err := setRow(f, name, 1, toRow(scheduleHeader)); err != nil {
			_ = f.Close()
			return nil, err
		}
		for i, point := range s.Result.Schedule {
			row := []interface{}{
				point.Month, point.Date, point.Payment, point.Interest, point.Principal,
				point.RemainingPrincipal, point.NetCashFlow, point.Cumulative,
			}
			if err := setRow(f, name, i+2, row); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
		_ = f.SetRowStyle(name, 1, 1, headerStyle)
		if last := len(s.Result.Schedule) + 1; last > 1 {
			_ = f.SetCellStyle(name, "C2", fmt.Sprintf("H%d", last), amountStyle)
		}
		_ = f.SetColWidth(name, "A", "B", 10)
		_ = f.SetColWidth(name, "C", "H", 18)
	}

	return f, nil
}

func writeSummary(f *excelize.File, report Report, headerStyle, amountStyle int) error {
	sim := report.Simulation
	params := sim.Parameters

	rows := [][]interface{}{
		{"Run ID", sim.RunID},
		{"Principal", params.Principal},
		{"Term (months)", params.TermMonths},
		{"Grace period (months)", params.GracePeriodMonths},
		{"Interest rate (%)", params.InterestRate},
		{"Start date", params.StartDate},
		{"Monthly cash flow", sim.BaseCashFlow},
		{"Cash flow source", string(sim.CashFlowSource)},
		{},
		toRow(summaryHeader),
	}
	headerRow := len(rows)
	for _, s := range sim.Scenarios {
		r := s.Result
		rows = append(rows, []interface{}{
			s.Scenario.ID, s.Scenario.Label, s.Scenario.Group, r.AppliedInterestRate,
			r.AdjustedOperatingCF, r.MonthlyPayment, r.TotalInterest, r.TotalPayment,
			r.MinCashFlow, r.NegativeMonths, string(s.Assessment.Verdict),
		})
	}
	for _, alert := range sim.Alerts {
		rows = append(rows, []interface{}{"Alert", alert})
	}
	for _, summary := range report.Capacity {
		rows = append(rows, []interface{}{
			"Capacity", summary.Scope, summary.Field, summary.Original, summary.Value,
			summary.MinimumCash, summary.Converged,
		})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	_ = f.SetRowStyle(summarySheet, headerRow, headerRow, headerStyle)
	if len(sim.Scenarios) > 0 {
		_ = f.SetCellStyle(summarySheet, fmt.Sprintf("E%d", headerRow+1),
			fmt.Sprintf("I%d", headerRow+len(sim.Scenarios)), amountStyle)
	}
	_ = f.SetColWidth(summarySheet, "A", "C", 22)
	_ = f.SetColWidth(summarySheet, "D", "K", 18)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// XLSXFormat writes the workbook to w.
func XLSXFormat(w io.Writer, report Report) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}
