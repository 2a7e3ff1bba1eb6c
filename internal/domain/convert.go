package domain

const kgToLb = 2.2046226218

// Supported weight units.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// ValidUnit reports whether unit is one of the supported weight units.
func ValidUnit(unit string) bool {
	return unit == UnitKg || unit == UnitLb
}

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	switch {
	case from == to:
		return v
	case from == UnitKg && to == UnitLb:
		return v * kgToLb
	case from == UnitLb && to == UnitKg:
		return v / kgToLb
	}
	return v
}
