package profiles

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/fdg312/bmi-planner/internal/units"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	MinAge = 16
	MaxAge = 120
)

const (
	MsgNameRequired  = "Please enter your name to personalize the plan."
	MsgNotNumeric    = "Invalid input: Please ensure all fields contain valid numbers."
	MsgNotPositive   = "Weight and Height must be positive numbers."
	MsgAgeOutOfRange = "Age must be between 16 and 120 years."
)

// ValidationError carries the user-facing message for a rejected form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Validate turns the raw form into a HealthProfile without derived fields.
// Checks run in a fixed order and the first failure is returned.
func Validate(in FormInput) (HealthProfile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return HealthProfile{}, invalid("name", MsgNameRequired)
	}

	unit, err := parseUnit(in.Unit)
	if err != nil {
		return HealthProfile{}, err
	}

	weight, err := parseNumber(in.Weight, false)
	if err != nil {
		return HealthProfile{}, invalid("weight", MsgNotNumeric)
	}

	var height float64
	if unit == UnitImperial {
		feet, err := parseNumber(in.HeightFeet, true)
		if err != nil {
			return HealthProfile{}, invalid("height_feet", MsgNotNumeric)
		}
		inches, err := parseNumber(in.HeightInches, true)
		if err != nil {
			return HealthProfile{}, invalid("height_inches", MsgNotNumeric)
		}
		height = units.FeetInchesToInches(feet, inches)
	} else {
		height, err = parseNumber(in.Height, false)
		if err != nil {
			return HealthProfile{}, invalid("height", MsgNotNumeric)
		}
	}

	age, err := strconv.Atoi(in.Age.String())
	if err != nil {
		return HealthProfile{}, invalid("age", MsgNotNumeric)
	}

	if weight <= 0 || height <= 0 {
		return HealthProfile{}, invalid("weight", MsgNotPositive)
	}
	if age < MinAge || age > MaxAge {
		return HealthProfile{}, invalid("age", MsgAgeOutOfRange)
	}

	gender, err := parseGender(in.Gender)
	if err != nil {
		return HealthProfile{}, err
	}
	activity, err := parseActivity(in.ActivityLevel)
	if err != nil {
		return HealthProfile{}, err
	}
	goal, err := parseGoal(in.Goal)
	if err != nil {
		return HealthProfile{}, err
	}
	diet, err := parseDiet(in.Diet)
	if err != nil {
		return HealthProfile{}, err
	}

	return HealthProfile{
		Name:          name,
		Weight:        weight,
		Height:        height,
		Unit:          unit,
		Age:           age,
		Gender:        gender,
		ActivityLevel: activity,
		Goal:          goal,
		Diet:          diet,
	}, nil
}

// parseNumber treats an empty optional field as 0 (blank inches on an imperial form).
func parseNumber(f Field, optional bool) (float64, error) {
	s := f.String()
	if s == "" && optional {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidInput
	}
	return v, nil
}

func parseUnit(raw string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(raw))) {
	case "", UnitMetric:
		return UnitMetric, nil
	case UnitImperial:
		return UnitImperial, nil
	}
	return "", invalid("unit", "Unit must be metric or imperial.")
}

func parseGender(raw string) (Gender, error) {
	switch {
	case strings.TrimSpace(raw) == "":
		return GenderMale, nil
	case strings.EqualFold(strings.TrimSpace(raw), string(GenderMale)):
		return GenderMale, nil
	case strings.EqualFold(strings.TrimSpace(raw), string(GenderFemale)):
		return GenderFemale, nil
	}
	return "", invalid("gender", "Gender must be Male or Female.")
}

func parseActivity(raw string) (ActivityLevel, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ModeratelyActive, nil
	}
	for _, level := range ActivityLevels() {
		if strings.EqualFold(raw, string(level)) {
			return level, nil
		}
	}
	return "", invalid("activity_level", "Unknown activity level: "+raw)
}

func parseGoal(raw string) (Goal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GoalMaintainWeight, nil
	}
	for _, g := range []Goal{GoalLoseWeight, GoalMaintainWeight, GoalGainMuscle} {
		if strings.EqualFold(raw, string(g)) {
			return g, nil
		}
	}
	return "", invalid("goal", "Unknown goal: "+raw)
}

func parseDiet(raw string) (Diet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DietOmnivore, nil
	}
	for _, d := range []Diet{DietOmnivore, DietVegetarian, DietVegan} {
		if strings.EqualFold(raw, string(d)) {
			return d, nil
		}
	}
	return "", invalid("diet", "Unknown diet preference: "+raw)
}
