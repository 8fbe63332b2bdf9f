// Package units converts between the metric and imperial inputs accepted by the calculator.
// Inputs are assumed to be validated upstream.
package units

import "math"

const (
	MetersPerInch      = 0.0254
	CentimetersPerInch = 2.54
	LbsPerKg           = 2.20462
	InchesPerFoot      = 12
)

func InchesToMeters(inches float64) float64 {
	return inches * MetersPerInch
}

func InchesToCm(inches float64) float64 {
	return inches * CentimetersPerInch
}

func MetersToCm(meters float64) float64 {
	return meters * 100
}

func KgToLbs(kg float64) float64 {
	return kg * LbsPerKg
}

func LbsToKg(lbs float64) float64 {
	return lbs / LbsPerKg
}

// FeetInchesToInches returns total inches. Imperial heights are always carried as total inches.
func FeetInchesToInches(feet, inches float64) float64 {
	return feet*InchesPerFoot + inches
}

// SplitInches splits total inches into whole feet and rounded remaining inches.
func SplitInches(total float64) (feet int, inches int) {
	feet = int(math.Floor(total / InchesPerFoot))
	inches = int(math.Round(math.Mod(total, InchesPerFoot)))
	return feet, inches
}
