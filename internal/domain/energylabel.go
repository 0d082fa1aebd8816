// Package domain defines the closed sets of categories used by the
// calculator and the translation from the strings used by users and by the
// market rate provider.
package domain

import "strings"

// EnergyLabel is the energy performance category of a house.
type EnergyLabel int

// Energy labels from worst to best. LabelNone means unknown or not given.
const (
	LabelNone EnergyLabel = iota
	LabelG
	LabelF
	LabelE
	LabelD
	LabelC
	LabelB
	LabelA
	LabelAPlus
	LabelA2Plus
	LabelA3Plus
	LabelA4Plus
	LabelA4PlusGuarantee
)

var energyLabelNames = map[EnergyLabel]string{
	LabelNone:            "",
	LabelG:               "G",
	LabelF:               "F",
	LabelE:               "E",
	LabelD:               "D",
	LabelC:               "C",
	LabelB:               "B",
	LabelA:               "A",
	LabelAPlus:           "A+",
	LabelA2Plus:          "A++",
	LabelA3Plus:          "A+++",
	LabelA4Plus:          "A++++",
	LabelA4PlusGuarantee: "A++++ met garantie",
}

// The provider has no separate code for the guaranteed variant.
var energyLabelCodes = map[EnergyLabel]string{
	LabelNone:            "",
	LabelG:               "G",
	LabelF:               "F",
	LabelE:               "E",
	LabelD:               "D",
	LabelC:               "C",
	LabelB:               "B",
	LabelA:               "A",
	LabelAPlus:           "AP",
	LabelA2Plus:          "APP",
	LabelA3Plus:          "APPP",
	LabelA4Plus:          "APPPP",
	LabelA4PlusGuarantee: "APPPP",
}

// Borrowing capacity added for energy efficient houses.
var energyLabelBonus = map[EnergyLabel]float64{
	LabelC:               5000,
	LabelD:               5000,
	LabelA:               10000,
	LabelB:               10000,
	LabelAPlus:           20000,
	LabelA2Plus:          20000,
	LabelA3Plus:          30000,
	LabelA4Plus:          40000,
	LabelA4PlusGuarantee: 50000,
}

// EnergyLabels lists every label, best first, as offered to users.
func EnergyLabels() []EnergyLabel {
	return []EnergyLabel{
		LabelNone, LabelA4PlusGuarantee, LabelA4Plus, LabelA3Plus, LabelA2Plus, LabelAPlus,
		LabelA, LabelB, LabelC, LabelD, LabelE, LabelF, LabelG,
	}
}

// ParseEnergyLabel accepts display names ("A++", "A++++ met garantie") and
// provider codes ("APP"). It reports false for anything it does not know,
// returning LabelNone.
func ParseEnergyLabel(s string) (EnergyLabel, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return LabelNone, true
	}
	for label, name := range energyLabelNames {
		if label != LabelNone && strings.EqualFold(trimmed, name) {
			return label, true
		}
	}
	upper := strings.ToUpper(trimmed)
	for _, label := range EnergyLabels() {
		// APPPP resolves to the plain variant, never the guaranteed one.
		if label != LabelNone && label != LabelA4PlusGuarantee && energyLabelCodes[label] == upper {
			return label, true
		}
	}
	return LabelNone, false
}

// String returns the display name; LabelNone is the empty string.
func (l EnergyLabel) String() string {
	return energyLabelNames[l]
}

// ProviderCode returns the market rate provider's encoding.
func (l EnergyLabel) ProviderCode() string {
	return energyLabelCodes[l]
}

// Bonus returns the borrowing capacity added for the label.
func (l EnergyLabel) Bonus() float64 {
	return energyLabelBonus[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l EnergyLabel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels decode
// to LabelNone.
func (l *EnergyLabel) UnmarshalText(text []byte) error {
	*l, _ = ParseEnergyLabel(string(text))
	return nil
}
