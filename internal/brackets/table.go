// Package brackets holds the affordability percentage table: rows keyed by
// test income, columns keyed by test interest rate.
package brackets

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/hypotheek/pkg/validation"
)

// Axis names the dimension of a lookup that fell outside the table.
type Axis string

const (
	// AxisIncome is the row dimension.
	AxisIncome Axis = "income"
	// AxisRate is the column dimension.
	AxisRate Axis = "interest rate"
)

// OutOfRangeError is returned when a lookup value lies below the lowest
// tabulated threshold of its axis.
type OutOfRangeError struct {
	Axis   Axis
	Value  float64
	Lowest float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %.2f is below the lowest tabulated threshold %.3f", e.Axis, e.Value, e.Lowest)
}

// Table is an immutable affordability table. The zero value is empty and
// every lookup on it fails.
type Table struct {
	version     string
	incomes     []float64
	rates       []float64
	percentages [][]float64 // [income row][rate column]
}

// New builds a Table from thresholds and a value grid. Rows and columns are
// sorted ascending; duplicate thresholds are rejected.
func New(version string, incomes, rates []float64, percentages [][]float64) (*Table, error) {
	if len(incomes) == 0 || len(rates) == 0 {
		return nil, fmt.Errorf("bracket table %q needs at least one income row and one rate column", version)
	}
	if len(percentages) != len(incomes) {
		return nil, fmt.Errorf("bracket table %q has %d income thresholds but %d rows", version, len(incomes), len(percentages))
	}
	if err := checkFinite(AxisIncome, incomes); err != nil {
		return nil, fmt.Errorf("bracket table %q: %w", version, err)
	}
	if err := checkFinite(AxisRate, rates); err != nil {
		return nil, fmt.Errorf("bracket table %q: %w", version, err)
	}
	for i, row := range percentages {
		if len(row) != len(rates) {
			return nil, fmt.Errorf("bracket table %q row %.0f has %d values, expected %d",
				version, incomes[i], len(row), len(rates))
		}
		for _, v := range row {
			if !(v >= 0 && v <= 1) {
				return nil, fmt.Errorf("bracket table %q row %.0f holds percentage %v outside [0, 1]", version, incomes[i], v)
			}
		}
	}

	rowOrder := order(incomes)
	colOrder := order(rates)

	t := &Table{
		version:     version,
		incomes:     make([]float64, len(incomes)),
		rates:       make([]float64, len(rates)),
		percentages: make([][]float64, len(incomes)),
	}
	for i, src := range rowOrder {
		t.incomes[i] = incomes[src]
		t.percentages[i] = make([]float64, len(rates))
		for j, srcCol := range colOrder {
			t.percentages[i][j] = percentages[src][srcCol]
		}
	}
	for j, src := range colOrder {
		t.rates[j] = rates[src]
	}

	if err := checkStrictlyIncreasing(AxisIncome, t.incomes); err != nil {
		return nil, fmt.Errorf("bracket table %q: %w", version, err)
	}
	if err := checkStrictlyIncreasing(AxisRate, t.rates); err != nil {
		return nil, fmt.Errorf("bracket table %q: %w", version, err)
	}
	return t, nil
}

// Lookup returns the affordability percentage (as a fraction) for the
// greatest income threshold <= testIncome and the greatest rate threshold
// <= testRate.
func (t *Table) Lookup(testIncome, testRate float64) (float64, error) {
	if t == nil || len(t.incomes) == 0 {
		return 0, fmt.Errorf("bracket table is empty")
	}
	row, err := floor(AxisIncome, t.incomes, testIncome)
	if err != nil {
		return 0, err
	}
	col, err := floor(AxisRate, t.rates, testRate)
	if err != nil {
		return 0, err
	}
	return t.percentages[row][col], nil
}

// Version identifies the regulatory snapshot the table was loaded from.
func (t *Table) Version() string {
	return t.version
}

// IncomeThresholds returns a copy of the row thresholds.
func (t *Table) IncomeThresholds() []float64 {
	return append([]float64(nil), t.incomes...)
}

// RateThresholds returns a copy of the column thresholds.
func (t *Table) RateThresholds() []float64 {
	return append([]float64(nil), t.rates...)
}

// floor returns the index of the greatest threshold <= value. Non-finite
// values never match a row or column.
func floor(axis Axis, thresholds []float64, value float64) (int, error) {
	if !isFinite(value) {
		return 0, &validation.InvalidInputError{Field: string(axis), Value: value, Reason: "must be a finite number"}
	}
	// First index whose threshold exceeds value; the one before it is the floor.
	idx := sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > value })
	if idx == 0 {
		return 0, &OutOfRangeError{Axis: axis, Value: value, Lowest: thresholds[0]}
	}
	return idx - 1, nil
}

func order(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	return idx
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFinite(axis Axis, values []float64) error {
	for _, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("%s threshold %v is not a finite number", axis, v)
		}
	}
	return nil
}

func checkStrictlyIncreasing(axis Axis, values []float64) error {
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			return fmt.Errorf("duplicate %s threshold %v", axis, values[i])
		}
	}
	return nil
}
