package domain

import (
	"fmt"
	"strings"
)

// BuildingType distinguishes existing houses from new construction.
type BuildingType int

const (
	BuildingExisting BuildingType = iota
	BuildingNew
)

// ParseBuildingType accepts "Bestaande bouw", "Bestaande_bouw", "existing",
// "Nieuwbouw" and "new". Empty means existing.
func ParseBuildingType(s string) (BuildingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bestaande bouw", "bestaande_bouw", "existing":
		return BuildingExisting, nil
	case "nieuwbouw", "new":
		return BuildingNew, nil
	}
	return BuildingExisting, fmt.Errorf("unknown building type %q", s)
}

func (b BuildingType) String() string {
	if b == BuildingNew {
		return "Nieuwbouw"
	}
	return "Bestaande bouw"
}

// IsNew reports whether the building is new construction.
func (b BuildingType) IsNew() bool {
	return b == BuildingNew
}

// MarshalText implements encoding.TextMarshaler.
func (b BuildingType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BuildingType) UnmarshalText(text []byte) error {
	parsed, err := ParseBuildingType(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
