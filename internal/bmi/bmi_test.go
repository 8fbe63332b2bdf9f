package bmi

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

/* ─── Calculate ─── */

func TestCalculateMetric(t *testing.T) {
	got, err := Calculate(70, 1.75, profiles.UnitMetric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 70 / (1.75 * 1.75); !approx(got, want, 1e-9) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCalculateImperialUsesTotalInches(t *testing.T) {
	// 5 ft 9 in = 69 in
	got, err := Calculate(160, 69, profiles.UnitImperial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 160 / (69.0 * 69.0) * 703; !approx(got, want, 1e-9) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !approx(got, 23.63, 0.01) {
		t.Fatalf("expected ≈23.63, got %v", got)
	}
}

func TestCalculateRejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ w, h float64 }{{70, 0}, {70, -1.7}, {0, 1.7}} {
		if _, err := Calculate(tc.w, tc.h, profiles.UnitMetric); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("w=%v h=%v: expected ErrInvalidInput, got %v", tc.w, tc.h, err)
		}
	}
}

/* ─── Categorize ─── */

func TestCategoryBoundaries(t *testing.T) {
	tests := []struct {
		bmi  float64
		want profiles.Category
	}{
		{18.4999, profiles.CategoryUnderweight},
		{18.5, profiles.CategoryNormal},
		{24.9999, profiles.CategoryNormal},
		{25.0, profiles.CategoryOverweight},
		{29.9999, profiles.CategoryOverweight},
		{30.0, profiles.CategoryObesity},
		{45, profiles.CategoryObesity},
	}

	for _, tt := range tests {
		if got := CategoryOf(tt.bmi); got != tt.want {
			t.Fatalf("bmi=%v: expected %s, got %s", tt.bmi, tt.want, got)
		}
	}
}

func TestSevereFlagIndependentOfCategory(t *testing.T) {
	tests := []struct {
		bmi    float64
		severe bool
	}{
		{15.99, true},
		{16.0, false},
		{17, false},
		{35.0, false},
		{35.01, true},
	}

	for _, tt := range tests {
		a := Categorize(tt.bmi, profiles.GenderFemale, 30)
		if a.Severe != tt.severe {
			t.Fatalf("bmi=%v: expected severe=%v, got %v", tt.bmi, tt.severe, a.Severe)
		}
		if a.Category != CategoryOf(tt.bmi) {
			t.Fatalf("bmi=%v: severity must not change category, got %s", tt.bmi, a.Category)
		}
	}
}

func TestSevereOverridesStyleAndPrependsAlert(t *testing.T) {
	a := Categorize(15.2, profiles.GenderMale, 25)

	if a.Category != profiles.CategoryUnderweight {
		t.Fatalf("expected Underweight, got %s", a.Category)
	}
	if a.ColorToken != "#FF4500" || a.BackgroundToken != "#FFCDD2" {
		t.Fatalf("expected danger styling, got %s/%s", a.ColorToken, a.BackgroundToken)
	}
	if !strings.HasPrefix(a.Warning, "‼️ **SEVERE HEALTH RISK INDICATOR:** Your BMI is 15.20.") {
		t.Fatalf("expected severe alert prefix, got %q", a.Warning)
	}
	if !strings.HasSuffix(a.Warning, "Consult a professional.") {
		t.Fatalf("expected underweight warning after alert, got %q", a.Warning)
	}
}

func TestNormalWarningMentionsGenderAndAge(t *testing.T) {
	a := Categorize(22, profiles.GenderFemale, 44)
	want := "Maintain healthy habits. As a female, ensure adequate protein intake, especially after age 40 (for 44 year old)."
	if a.Warning != want {
		t.Fatalf("expected %q, got %q", want, a.Warning)
	}
	if a.ColorToken != "#4CAF50" || a.BackgroundToken != "#E8F5E9" {
		t.Fatalf("unexpected tokens %s/%s", a.ColorToken, a.BackgroundToken)
	}
}

/* ─── IdealWeight ─── */

func TestIdealWeightMetric(t *testing.T) {
	r := IdealWeight(1.70, profiles.UnitMetric)
	if !approx(r.Min, 53.5, 0.1) || !approx(r.Max, 71.97, 0.1) {
		t.Fatalf("expected 53.5-71.97, got %.2f-%.2f", r.Min, r.Max)
	}
	if r.String() != "53.5 - 72.0 kg" {
		t.Fatalf("unexpected display %q", r.String())
	}
}

func TestIdealWeightImperial(t *testing.T) {
	r := IdealWeight(69, profiles.UnitImperial)
	heightM := 69 * 0.0254
	if !approx(r.Min, 18.5*heightM*heightM*2.20462, 1e-6) {
		t.Fatalf("unexpected min %v", r.Min)
	}
	if r.Unit != "lbs" {
		t.Fatalf("expected lbs, got %s", r.Unit)
	}
}
