package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 179686.5, 179687},
		{"Round down below midpoint", 179686.4, 179686},
		{"No rounding needed", 400000, 400000},
		{"Negative number round away", -1.5, -2},
		{"Zero", 0.0, 0.0},
		{"Very small negative", -0.001, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if result != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Sub-unit positive", 0.4, true},
		{"Sub-unit negative", -0.4, true},
		{"Exactly tolerance", 1.0, true},
		{"Just above tolerance", 1.01, false},
		{"Large negative", -500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZero(tt.input); got != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsNegative(t *testing.T) {
	if IsNegative(-0.5) {
		t.Error("IsNegative(-0.5) should be false within tolerance")
	}
	if !IsNegative(-2) {
		t.Error("IsNegative(-2) should be true")
	}
	if IsNegative(3) {
		t.Error("IsNegative(3) should be false")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi int
		expected  int
	}{
		{"Inside", 5, 0, 10, 5},
		{"Below", -3, 0, 10, 0},
		{"Above", 12, 0, 11, 11},
		{"Inverted bounds favour lo", 4, 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInt(tt.v, tt.lo, tt.hi); got != tt.expected {
				t.Errorf("ClampInt(%d, %d, %d) = %d, expected %d", tt.v, tt.lo, tt.hi, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-0.5, 0, math.MaxFloat64); got != 0 {
		t.Errorf("Clamp(-0.5) = %v, expected 0", got)
	}
	if got := Clamp(3.5, 0, math.MaxFloat64); got != 3.5 {
		t.Errorf("Clamp(3.5) = %v, expected 3.5", got)
	}
}

func TestApplyPercentage(t *testing.T) {
	if got := ApplyPercentage(1_000_000, 25); got != 250_000 {
		t.Errorf("ApplyPercentage() = %v, expected 250000", got)
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("IsFinite should reject NaN and infinities")
	}
	if !IsFinite(0) || !IsFinite(-1e12) {
		t.Error("IsFinite should accept ordinary values")
	}
}
