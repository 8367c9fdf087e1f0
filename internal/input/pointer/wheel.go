package pointer

import "github.com/dshills/scrawl/internal/input/key"

// WheelDelta returns the signed raw delta for one wheel tick.
func WheelDelta(b Button, mods key.Modifier, config Config) float64 {
	units := config.WheelUnits
	if mods.HasShift() {
		units = config.WheelUnitsFine
	}
	switch b {
	case ButtonWheelUp:
		return units
	case ButtonWheelDown:
		return -units
	case ButtonWheelRight:
		return config.WheelUnitsFine
	case ButtonWheelLeft:
		return -config.WheelUnitsFine
	default:
		return 0
	}
}
