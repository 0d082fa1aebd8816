package brackets

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultVersion names the table embedded in the binary.
const DefaultVersion = "nibud-2024"

//go:embed data/financieringslast_2024.csv
var embedded embed.FS

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded 2024 table. It is parsed once and shared;
// the returned Table is read-only.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		f, err := embedded.Open("data/financieringslast_2024.csv")
		if err != nil {
			defaultErr = fmt.Errorf("failed to open embedded bracket table: %w", err)
			return
		}
		defer f.Close()
		defaultTable, defaultErr = Load(f, DefaultVersion)
	})
	return defaultTable, defaultErr
}

// LoadFile reads a table from a CSV file. The version is the file name
// without extension.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bracket table %s: %w", path, err)
	}
	defer f.Close()

	version := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(f, version)
}

// Load parses a CSV table. The header row holds a label followed by the
// rate thresholds; Dutch decimal commas ("3,501") are accepted. Every
// following row holds an income threshold and one percentage per column.
func Load(r io.Reader, version string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read bracket table header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("bracket table header needs at least one rate column, got %d fields", len(header))
	}

	rates := make([]float64, 0, len(header)-1)
	for _, field := range header[1:] {
		rate, err := parseNumber(field)
		if err != nil {
			return nil, fmt.Errorf("invalid rate threshold %q: %w", field, err)
		}
		rates = append(rates, rate)
	}

	var incomes []float64
	var percentages [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bracket table line %d: %w", line, err)
		}
		income, err := parseNumber(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid income threshold %q on line %d: %w", record[0], line, err)
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			pct, err := parseNumber(field)
			if err != nil {
				return nil, fmt.Errorf("invalid percentage %q on line %d: %w", field, line, err)
			}
			row = append(row, pct)
		}
		incomes = append(incomes, income)
		percentages = append(percentages, row)
	}

	return New(version, incomes, rates, percentages)
}

func parseNumber(field string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(field), ",", "."), 64)
}
