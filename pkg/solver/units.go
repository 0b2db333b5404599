package solver

// Conversion factors from the solver's internal US customary units to SI.
const (
	cubicFeetToCubicMeters   = 0.0283168466 // ft³ -> m³, cfs -> cms
	squareFeetToSquareMeters = 0.09290304   // ft² -> m²
	feetToMeters             = 0.3048       // ft -> m
	inchesToMillimeters      = 25.4         // in/hr -> mm/hr
)

// siFactor returns the multiplier converting attr from US to SI.
// Dimensionless attributes have factor 1.
func siFactor(attr Attribute) float64 {
	switch attr {
	case Depth:
		return feetToMeters
	case Volume, Flow, Inflow, Flooding, Runoff:
		return cubicFeetToCubicMeters
	case LinkArea:
		return squareFeetToSquareMeters
	case Precipitation:
		return inchesToMillimeters
	default:
		return 1
	}
}

// Convert expresses v, measured in the from unit system, in the to system.
func Convert(attr Attribute, v float64, from, to Units) float64 {
	if from == to {
		return v
	}
	f := siFactor(attr)
	if to == SI {
		return v * f
	}
	return v / f
}
