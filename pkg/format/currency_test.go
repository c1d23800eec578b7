package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "¥0"},
		{"Small", 999, "¥999"},
		{"Thousands", 1000, "¥1,000"},
		{"Monthly payment", 179686.9066, "¥179,687"},
		{"Millions", 10_000_000, "¥10,000,000"},
		{"Negative", -20313.09, "-¥20,313"},
		{"Half rounds away from zero", 2.5, "¥3"},
		{"Negative rounding to zero", -0.4, "¥0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %s, expected %s", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-1234567.2); got != "-1,234,567" {
		t.Errorf("NumericCurrency() = %s, expected -1,234,567", got)
	}
}

func TestPercent(t *testing.T) {
	tests := map[float64]string{
		3:     "3%",
		3.5:   "3.5%",
		0.125: "0.125%",
	}
	for rate, expected := range tests {
		if got := Percent(rate); got != expected {
			t.Errorf("Percent(%v) = %s, expected %s", rate, got, expected)
		}
	}
}
