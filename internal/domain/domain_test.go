package domain

import "testing"

func TestEnergyLabelBonus(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"G", 0},
		{"F", 0},
		{"E", 0},
		{"D", 5000},
		{"C", 5000},
		{"B", 10000},
		{"A", 10000},
		{"A+", 20000},
		{"A++", 20000},
		{"A+++", 30000},
		{"A++++", 40000},
		{"A++++ met garantie", 50000},
		{"", 0},
		{"Z", 0},
		{"A+++++", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			label, _ := ParseEnergyLabel(tt.input)
			if bonus := label.Bonus(); bonus != tt.expected {
				t.Errorf("bonus for %q = %v, expected %v", tt.input, bonus, tt.expected)
			}
		})
	}
}

func TestParseEnergyLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected EnergyLabel
		ok       bool
	}{
		{"A++", LabelA2Plus, true},
		{"APP", LabelA2Plus, true},
		{"app", LabelA2Plus, true},
		{" c ", LabelC, true},
		{"APPPP", LabelA4Plus, true},
		{"A++++ met garantie", LabelA4PlusGuarantee, true},
		{"none", LabelNone, true},
		{"", LabelNone, true},
		{"unknown", LabelNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			label, ok := ParseEnergyLabel(tt.input)
			if label != tt.expected || ok != tt.ok {
				t.Errorf("ParseEnergyLabel(%q) = (%v, %v), expected (%v, %v)", tt.input, label, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestEnergyLabelRoundTrip(t *testing.T) {
	for _, label := range EnergyLabels() {
		parsed, ok := ParseEnergyLabel(label.String())
		if !ok || parsed != label {
			t.Errorf("round trip of %q gave %v", label.String(), parsed)
		}
	}
}

func TestEnergyLabelProviderCode(t *testing.T) {
	if LabelA4PlusGuarantee.ProviderCode() != "APPPP" || LabelA4Plus.ProviderCode() != "APPPP" {
		t.Errorf("both A++++ variants should encode as APPPP")
	}
	if LabelNone.ProviderCode() != "" {
		t.Errorf("LabelNone should encode as empty")
	}
	if LabelAPlus.ProviderCode() != "AP" {
		t.Errorf("A+ should encode as AP, got %s", LabelAPlus.ProviderCode())
	}
}

func TestEnergyLabelUnmarshalText(t *testing.T) {
	var label EnergyLabel
	if err := label.UnmarshalText([]byte("A+++")); err != nil || label != LabelA3Plus {
		t.Errorf("UnmarshalText(A+++) = %v, %v", label, err)
	}
	if err := label.UnmarshalText([]byte("bogus")); err != nil || label != LabelNone {
		t.Errorf("UnmarshalText(bogus) = %v, %v", label, err)
	}
}

func TestParseBuildingType(t *testing.T) {
	tests := []struct {
		input     string
		expected  BuildingType
		expectErr bool
	}{
		{"Bestaande bouw", BuildingExisting, false},
		{"Bestaande_bouw", BuildingExisting, false},
		{"", BuildingExisting, false},
		{"Nieuwbouw", BuildingNew, false},
		{"new", BuildingNew, false},
		{"castle", BuildingExisting, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseBuildingType(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParseBuildingType(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseBuildingType(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestBandForLTV(t *testing.T) {
	tests := []struct {
		ltv      float64
		expected LTVBand
	}{
		{50, BandUpTo60},
		{60, BandUpTo60},
		{61, BandUpTo70},
		{80, BandUpTo80},
		{90, BandUpTo90},
		{100, BandUpTo100},
		{101, BandAbove},
	}

	for _, tt := range tests {
		if band := BandForLTV(tt.ltv); band != tt.expected {
			t.Errorf("BandForLTV(%v) = %s, expected %s", tt.ltv, band, tt.expected)
		}
	}
}
