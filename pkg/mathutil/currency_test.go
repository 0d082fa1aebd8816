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
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Partner exempt income", 22356.00 * 1.43, 31969.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundWhole(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Below half", 1234.49, 1234},
		{"Above half", 1234.51, 1235},
		{"Half to even down", 2.5, 2},
		{"Half to even up", 3.5, 4},
		{"Negative", -10.6, -11},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RoundWhole(tt.input); result != tt.expected {
				t.Errorf("RoundWhole(%v) = %v, expected %v", tt.input, result, tt.expected)
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
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(10.0, 10.5, 1.0) {
		t.Errorf("WithinTolerance(10.0, 10.5, 1.0) = false, expected true")
	}
	if WithinTolerance(10.0, 12.0, 1.0) {
		t.Errorf("WithinTolerance(10.0, 12.0, 1.0) = true, expected false")
	}
}

func TestMinMax(t *testing.T) {
	if Min(47.62, 120.0) != 47.62 {
		t.Errorf("Min returned wrong value")
	}
	if Min(0, 47.62) != 0 {
		t.Errorf("Min with zero returned wrong value")
	}
	if Max(-1, 3) != 3 {
		t.Errorf("Max returned wrong value")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"No values", nil, 0},
		{"Single", []float64{50000}, 50000},
		{"Three years", []float64{40000, 50000, 60000}, 50000},
		{"Uneven", []float64{0, 0, 50000}, 50000.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Mean(tt.values...); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Mean(%v) = %v, expected %v", tt.values, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"Full loan-to-value", 400000, 100, 400000},
		{"Ninety percent", 400000, 90, 360000},
		{"Zero percent", 400000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ApplyPercentage(tt.value, tt.percentage); math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v", tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}
