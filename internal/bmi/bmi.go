// Package bmi computes and classifies Body Mass Index values.
package bmi

import (
	"fmt"
	"strings"

	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/units"
)

// ErrInvalidInput is shared with form validation.
var ErrInvalidInput = profiles.ErrInvalidInput

const (
	MinNormal     = 18.5
	MaxNormal     = 24.9
	OverweightMin = 25.0
	ObesityMin    = 30.0

	SevereLow  = 16.0
	SevereHigh = 35.0

	imperialFactor = 703
)

// Calculate returns weight/height². Imperial height is total inches
// (feet*12 + inches) and the result is scaled by 703.
func Calculate(weight, height float64, unit profiles.Unit) (float64, error) {
	if height <= 0 || weight <= 0 {
		return 0, fmt.Errorf("%w: weight and height must be positive", ErrInvalidInput)
	}
	bmi := weight / (height * height)
	if unit == profiles.UnitImperial {
		bmi *= imperialFactor
	}
	return bmi, nil
}

// Assessment is the categorizer output.
type Assessment struct {
	Category        profiles.Category `json:"category"`
	Severe          bool              `json:"severe"`
	ColorToken      string            `json:"color"`
	BackgroundToken string            `json:"background"`
	Warning         string            `json:"warning"`
	Benefit         string            `json:"benefit"`
}

const (
	severeColor      = "#FF4500"
	severeBackground = "#FFCDD2"
)

type categoryStyle struct {
	color, background string
	warning, benefit  string
}

var styles = map[profiles.Category]categoryStyle{
	profiles.CategoryUnderweight: {
		color:      "#1E90FF",
		background: "#E3F2FD",
		warning:    "Possible risks: Weakened immune system, anemia, osteoporosis, and fertility issues. Consult a professional.",
		benefit:    "Benefits of reaching normal weight: Improved energy, stronger bones, and better immune function. Focus on nutrient-dense calories.",
	},
	profiles.CategoryNormal: {
		color:      "#4CAF50",
		background: "#E8F5E9",
		// gender and age are filled in by Categorize
		warning: "Maintain healthy habits. As a %s, ensure adequate protein intake, especially after age 40 (for %d year old).",
		benefit: "Benefits: Lowest risk of major chronic diseases, better mobility, and higher life expectancy.",
	},
	profiles.CategoryOverweight: {
		color:      "#FFD700",
		background: "#FFFDE7",
		warning:    "Increased risk of: Type 2 diabetes, high blood pressure, and joint problems. Prioritize consistent calorie deficit and activity.",
		benefit:    "Benefits of losing weight: Lower blood pressure, better sleep quality, improved energy levels, and reduced joint strain.",
	},
	profiles.CategoryObesity: {
		color:      "#FF4500",
		background: "#FFEBEE",
		warning:    "High risk of: Severe cardiovascular disease, stroke, sleep apnea, and reduced mobility. Start with low-impact activity immediately.",
		benefit:    "Benefits of weight management: Dramatic reduction in disease risk, increased mobility, and improved overall mental health.",
	},
}

// CategoryOf applies the thresholds; lower bounds are inclusive.
func CategoryOf(bmi float64) profiles.Category {
	switch {
	case bmi < MinNormal:
		return profiles.CategoryUnderweight
	case bmi < OverweightMin:
		return profiles.CategoryNormal
	case bmi < ObesityMin:
		return profiles.CategoryOverweight
	default:
		return profiles.CategoryObesity
	}
}

// IsSevere reports whether the value is far enough outside the norm to escalate.
func IsSevere(bmi float64) bool {
	return bmi < SevereLow || bmi > SevereHigh
}

// SevereAlert is prepended to the warning of severe results.
func SevereAlert(bmi float64) string {
	return fmt.Sprintf("‼️ **SEVERE HEALTH RISK INDICATOR:** Your BMI is %.2f. **This tool suggests your value is critically outside the norm.** Seek immediate medical guidance. ", bmi)
}

// Categorize maps a BMI to its category and narrative. Severity changes the
// styling tokens and the warning, never the category label.
func Categorize(bmi float64, gender profiles.Gender, age int) Assessment {
	category := CategoryOf(bmi)
	style := styles[category]

	warning := style.warning
	if category == profiles.CategoryNormal {
		warning = fmt.Sprintf(style.warning, strings.ToLower(string(gender)), age)
	}

	a := Assessment{
		Category:        category,
		ColorToken:      style.color,
		BackgroundToken: style.background,
		Warning:         warning,
		Benefit:         style.benefit,
	}

	if IsSevere(bmi) {
		a.Severe = true
		a.ColorToken = severeColor
		a.BackgroundToken = severeBackground
		a.Warning = SevereAlert(bmi) + a.Warning
	}

	return a
}

// IdealRange is the healthy weight band in the unit system of the input.
type IdealRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

func (r IdealRange) String() string {
	return fmt.Sprintf("%.1f - %.1f %s", r.Min, r.Max, r.Unit)
}

// IdealWeight derives the range from the normal band. Height is metres for
// metric, total inches for imperial.
func IdealWeight(height float64, unit profiles.Unit) IdealRange {
	heightM := height
	if unit == profiles.UnitImperial {
		heightM = units.InchesToMeters(height)
	}

	minKg := MinNormal * heightM * heightM
	maxKg := MaxNormal * heightM * heightM

	if unit == profiles.UnitImperial {
		return IdealRange{Min: units.KgToLbs(minKg), Max: units.KgToLbs(maxKg), Unit: "lbs"}
	}
	return IdealRange{Min: minKg, Max: maxKg, Unit: "kg"}
}
