package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/iwvelando/loan-sim/pkg/optimization"
	"github.com/iwvelando/loan-sim/pkg/testutil"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func testReport(t *testing.T) Report {
	t.Helper()
	in := testutil.SampleInputs()
	in.Application.LoanPeriod = 12
	in.Metrics = &finance.FinancialMetrics{
		EquityRatio:            finance.Float(8),
		IndustryAvgEquityRatio: finance.Float(30),
	}
	in.Overrides = simulation.Overrides{StartDate: "2025-04"}
	result := testutil.MustRecompute(t, in)
	return Report{
		Simulation: result,
		Capacity: []optimization.Summary{{
			Scope: "base", Field: "principal", OriginalDisplay: "¥10,000,000",
			ValueDisplay: "¥4,720,000", Converged: true,
		}},
		Warnings: []string{"Grace period adjusted"},
	}
}

func TestPrettyFormat(t *testing.T) {
	report := testReport(t)
	var buf bytes.Buffer
	PrettyFormat(&buf, report)
	output := buf.String()

	for _, want := range []string{
		"--- Loan simulation " + report.Simulation.RunID + " ---",
		"Principal:      ¥10,000,000",
		"Term:           12 months (grace 0)",
		"Cash flow:      ¥400,000 / month (statements)",
		"Warning: Grace period adjusted",
		"--- Scenario summary ---",
		"[revenueDecline]",
		"revenue-30",
		"--- Alerts ---",
		"Equity ratio is 8.0%",
		"--- Industry comparison ---",
		"--- Schedule for scenario base (Base case) ---",
		"2025-04",
		"2026-03",
		"--- Capacity ---",
		"base principal: ¥10,000,000 -> ¥4,720,000",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestPrettyFormatSelectedScenario(t *testing.T) {
	report := testReport(t)
	report.ScenarioIDs = []string{"rate+1.0"}

	var buf bytes.Buffer
	PrettyFormat(&buf, report)
	output := buf.String()

	if !strings.Contains(output, "--- Schedule for scenario rate+1.0") {
		t.Error("selected scenario schedule missing")
	}
	if strings.Contains(output, "--- Schedule for scenario base") {
		t.Error("unselected scenario schedule should be omitted")
	}
}

func TestCsvFormat(t *testing.T) {
	report := testReport(t)
	report.ScenarioIDs = []string{"base"}

	output, err := CsvString(report)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 13 {
		t.Fatalf("CSV has %d lines, expected header plus 12 months", len(lines))
	}
	if lines[0] != strings.Join(csvHeader, ",") {
		t.Errorf("CSV header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "base,1,2025-04,") {
		t.Errorf("first CSV row = %q", lines[1])
	}
	if fields := strings.Split(lines[12], ","); fields[6] != "0" {
		t.Errorf("final row should have zero remaining principal: %q", lines[12])
	}
}

func TestXLSXFormat(t *testing.T) {
	report := testReport(t)

	var buf bytes.Buffer
	if err := XLSXFormat(&buf, report); err != nil {
		t.Fatalf("XLSXFormat() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 1+len(report.Simulation.Scenarios) {
		t.Fatalf("workbook has sheets %v, expected summary plus one per scenario", sheets)
	}
	if sheets[0] != summarySheet {
		t.Errorf("first sheet = %s, expected %s", sheets[0], summarySheet)
	}

	runID, err := f.GetCellValue(summarySheet, "B1")
	if err != nil || runID != report.Simulation.RunID {
		t.Errorf("summary run id = %q (%v), expected %q", runID, err, report.Simulation.RunID)
	}
	date, err := f.GetCellValue("base", "B13")
	if err != nil || date != "2026-03" {
		t.Errorf("base sheet B13 = %q (%v), expected 2026-03", date, err)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("a/b:c"); got != "a_b_c" {
		t.Errorf("sheetName() = %q, expected a_b_c", got)
	}
	if got := sheetName(strings.Repeat("x", 40)); len(got) != maxSheetNameLen {
		t.Errorf("sheetName() length = %d, expected %d", len(got), maxSheetNameLen)
	}
}

func TestYAMLFormat(t *testing.T) {
	report := testReport(t)

	var buf bytes.Buffer
	if err := YAMLFormat(&buf, report); err != nil {
		t.Fatalf("YAMLFormat() error = %v", err)
	}

	var decoded struct {
		Simulation struct {
			RunID      string `yaml:"runId"`
			Parameters struct {
				TermMonths int `yaml:"termMonths"`
			} `yaml:"parameters"`
			Scenarios []struct {
				Scenario struct {
					ID string `yaml:"id"`
				} `yaml:"scenario"`
			} `yaml:"scenarios"`
		} `yaml:"simulation"`
		Capacity []optimization.Summary `yaml:"capacity"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if decoded.Simulation.RunID != report.Simulation.RunID || decoded.Simulation.Parameters.TermMonths != 12 {
		t.Errorf("decoded simulation = %+v", decoded.Simulation)
	}
	if len(decoded.Simulation.Scenarios) != len(report.Simulation.Scenarios) || len(decoded.Capacity) != 1 {
		t.Error("YAML output should include every scenario and capacity summary")
	}
}

func TestWrite(t *testing.T) {
	report := testReport(t)
	for _, format := range []string{"pretty", "csv", "xlsx", "yaml"} {
		var buf bytes.Buffer
		if err := Write(&buf, format, report); err != nil {
			t.Errorf("Write(%s) error = %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) produced no output", format)
		}
	}

	if err := Write(&bytes.Buffer{}, "json", report); err == nil {
		t.Error("Write() should reject an unknown format")
	}
	if err := Write(&bytes.Buffer{}, "pretty", Report{}); err == nil {
		t.Error("Write() should reject a report without results")
	}
}
