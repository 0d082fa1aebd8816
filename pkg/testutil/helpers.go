// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/hypotheek/internal/brackets"
)

// TableCSV is a small affordability table with three income rows and three
// rate columns.
const TableCSV = `"Inkomen","0,000","2,001","3,501"
30000,0.200,0.210,0.220
50000,0.230,0.240,0.250
70000,0.260,0.270,0.280
`

// TableVersion is the version Table assigns.
const TableVersion = "test"

// Table parses TableCSV, failing the test on error.
func Table(t testing.TB) *brackets.Table {
	t.Helper()
	table, err := brackets.Load(strings.NewReader(TableCSV), TableVersion)
	if err != nil {
		t.Fatalf("failed to load test table: %v", err)
	}
	return table
}

// WriteTable writes TableCSV to name inside dir and returns the path.
func WriteTable(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(TableCSV), 0600); err != nil {
		t.Fatalf("failed to write test table: %v", err)
	}
	return path
}
