package profiles

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "Sedentary"
	LightlyActive    ActivityLevel = "Lightly Active"
	ModeratelyActive ActivityLevel = "Moderately Active"
	VeryActive       ActivityLevel = "Very Active"
	ExtraActive      ActivityLevel = "Extra Active"
)

// DefaultActivityMultiplier is applied to levels outside the known set.
const DefaultActivityMultiplier = 1.55

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtraActive:      1.9,
}

var activityExplanations = map[ActivityLevel]string{
	Sedentary:        "Little or no exercise (desk job, reading).",
	LightlyActive:    "Light exercise/sports 1-3 days/week.",
	ModeratelyActive: "Moderate exercise/sports 3-5 days/week (most gym-goers).",
	VeryActive:       "Hard exercise/sports 6-7 days/week.",
	ExtraActive:      "Very hard exercise/physical job or 2x/day training.",
}

// ActivityLevels lists the levels from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtraActive}
}

func (a ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

func (a ActivityLevel) Explanation() string {
	return activityExplanations[a]
}

func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

type Goal string

const (
	GoalLoseWeight     Goal = "Lose Weight"
	GoalMaintainWeight Goal = "Maintain Weight"
	GoalGainMuscle     Goal = "Gain Muscle"
)

type Diet string

const (
	DietOmnivore   Diet = "Omnivore"
	DietVegetarian Diet = "Vegetarian"
	DietVegan      Diet = "Vegan"
)

type Category string

const (
	CategoryUnderweight Category = "Underweight"
	CategoryNormal      Category = "Normal Weight"
	CategoryOverweight  Category = "Overweight"
	CategoryObesity     Category = "Obesity"
)

// HealthProfile is the validated form plus the derived BMI fields.
// Height is metres for metric and total inches for imperial.
type HealthProfile struct {
	Name          string        `json:"name"`
	Weight        float64       `json:"weight"`
	Height        float64       `json:"height"`
	Unit          Unit          `json:"unit"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	Diet          Diet          `json:"diet"`
	BMI           float64       `json:"bmi"`
	Category      Category      `json:"category"`
	CalculatedAt  time.Time     `json:"calculated_at"`
}

// Field holds a raw form value. It accepts JSON numbers and strings so that
// non-numeric input reaches validation instead of failing at decode time.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	*f = Field(data)
	return nil
}

func (f Field) String() string {
	return strings.TrimSpace(string(f))
}

// FormInput is the raw calculator form. Metric uses Height (metres);
// imperial uses HeightFeet and HeightInches.
type FormInput struct {
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Weight        Field  `json:"weight"`
	Height        Field  `json:"height"`
	HeightFeet    Field  `json:"height_feet"`
	HeightInches  Field  `json:"height_inches"`
	Age           Field  `json:"age"`
	Gender        string `json:"gender"`
	ActivityLevel string `json:"activity_level"`
	Goal          string `json:"goal"`
	Diet          string `json:"diet"`
}

// ActivityLevelDTO — элемент ответа GET /v1/activity-levels
type ActivityLevelDTO struct {
	Name        ActivityLevel `json:"name"`
	Multiplier  float64       `json:"multiplier"`
	Explanation string        `json:"explanation"`
}

type ActivityLevelsResponse struct {
	Levels []ActivityLevelDTO `json:"levels"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
