package profiles

import (
	"encoding/json"
	"errors"
	"testing"
)

func metricForm() FormInput {
	return FormInput{
		Name:   "Alex",
		Unit:   "metric",
		Weight: "70",
		Height: "1.75",
		Age:    "30",
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	p, err := Validate(metricForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Gender != GenderMale || p.ActivityLevel != ModeratelyActive || p.Goal != GoalMaintainWeight || p.Diet != DietOmnivore {
		t.Fatalf("expected form defaults, got %+v", p)
	}
	if p.Unit != UnitMetric || p.Weight != 70 || p.Height != 1.75 || p.Age != 30 {
		t.Fatalf("unexpected numeric fields: %+v", p)
	}
}

func TestValidateImperialTotalInches(t *testing.T) {
	in := FormInput{Name: "Sam", Unit: "imperial", Weight: "160", HeightFeet: "5", HeightInches: "9", Age: "45"}
	p, err := Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Height != 69 {
		t.Fatalf("expected 69 total inches, got %v", p.Height)
	}

	in.HeightInches = ""
	p, err = Validate(in)
	if err != nil {
		t.Fatalf("unexpected error with blank inches: %v", err)
	}
	if p.Height != 60 {
		t.Fatalf("expected blank inches to count as 0, got %v", p.Height)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormInput)
		want   string
	}{
		{"empty name", func(f *FormInput) { f.Name = "  " }, MsgNameRequired},
		{"non-numeric weight", func(f *FormInput) { f.Weight = "seventy" }, MsgNotNumeric},
		{"non-numeric height", func(f *FormInput) { f.Height = "" }, MsgNotNumeric},
		{"fractional age", func(f *FormInput) { f.Age = "30.5" }, MsgNotNumeric},
		{"NaN weight", func(f *FormInput) { f.Weight = "NaN" }, MsgNotNumeric},
		{"infinite height", func(f *FormInput) { f.Height = "Inf" }, MsgNotNumeric},
		{"overflowing weight", func(f *FormInput) { f.Weight = "1e999" }, MsgNotNumeric},
		{"zero weight", func(f *FormInput) { f.Weight = "0" }, MsgNotPositive},
		{"negative height", func(f *FormInput) { f.Height = "-1.7" }, MsgNotPositive},
		{"age too low", func(f *FormInput) { f.Age = "15" }, MsgAgeOutOfRange},
		{"age too high", func(f *FormInput) { f.Age = "121" }, MsgAgeOutOfRange},
		{"name checked first", func(f *FormInput) { f.Name = ""; f.Weight = "x" }, MsgNameRequired},
		{"numbers before range", func(f *FormInput) { f.Weight = "-5"; f.Age = "abc" }, MsgNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := metricForm()
			tt.mutate(&in)

			_, err := Validate(in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if err.Error() != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidateAgeBoundsInclusive(t *testing.T) {
	for _, age := range []Field{"16", "120"} {
		in := metricForm()
		in.Age = age
		if _, err := Validate(in); err != nil {
			t.Fatalf("age %s: unexpected error %v", age, err)
		}
	}
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	in := metricForm()
	in.Diet = "Carnivore"
	if _, err := Validate(in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown diet, got %v", err)
	}
}

func TestFieldAcceptsNumbersAndStrings(t *testing.T) {
	var in FormInput
	body := `{"name":"Alex","weight":70.5,"height":"1.8","age":30,"height_inches":null}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Weight != "70.5" || in.Height != "1.8" || in.Age != "30" || in.HeightInches != "" {
		t.Fatalf("unexpected fields: %+v", in)
	}
}

func TestActivityLevelMultipliers(t *testing.T) {
	want := map[ActivityLevel]float64{
		Sedentary:        1.2,
		LightlyActive:    1.375,
		ModeratelyActive: 1.55,
		VeryActive:       1.725,
		ExtraActive:      1.9,
	}
	for level, m := range want {
		if got := level.Multiplier(); got != m {
			t.Fatalf("%s: expected %v, got %v", level, m, got)
		}
		if level.Explanation() == "" {
			t.Fatalf("%s: expected explanation", level)
		}
	}
	if got := ActivityLevel("Couch").Multiplier(); got != DefaultActivityMultiplier {
		t.Fatalf("expected fallback multiplier, got %v", got)
	}
}
