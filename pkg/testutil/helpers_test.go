package testutil

import (
	"testing"

	"github.com/iwvelando/hypotheek/internal/brackets"
)

func TestTable(t *testing.T) {
	table := Table(t)

	if table.Version() != TableVersion {
		t.Errorf("Version() = %s, expected %s", table.Version(), TableVersion)
	}
	if len(table.IncomeThresholds()) != 3 || len(table.RateThresholds()) != 3 {
		t.Errorf("expected a 3x3 table, got %d incomes and %d rates",
			len(table.IncomeThresholds()), len(table.RateThresholds()))
	}
	if p, err := table.Lookup(66666.67, 3.5); err != nil || p != 0.25 {
		t.Errorf("Lookup(66666.67, 3.5) = (%v, %v), expected 0.25", p, err)
	}
}

func TestWriteTable(t *testing.T) {
	path := WriteTable(t, t.TempDir(), "written.csv")

	table, err := brackets.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if table.Version() != "written" {
		t.Errorf("Version() = %s, expected written", table.Version())
	}
	if p, err := table.Lookup(30000, 0); err != nil || p != 0.2 {
		t.Errorf("Lookup(30000, 0) = (%v, %v), expected 0.2", p, err)
	}
}
