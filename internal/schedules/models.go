package schedules

import "github.com/fdg312/bmi-planner/internal/profiles"

// Window of the composed day, in hours on a 24h scale.
const (
	DayStartHour    = 8.0
	DayEndHour      = 22.0
	// MarkerStepHours spaces the hour markers renderers draw on the timeline.
	MarkerStepHours = 2
)

// Emphasis tokens for the activity block.
const (
	EmphasisBlue   = "blue"
	EmphasisGreen  = "green"
	EmphasisDanger = "danger"
)

// Activity focus labels.
const (
	FocusStrength = "Strength/Mass Training"
	FocusMixed    = "Mixed Cardio & Strength"
	FocusCardio   = "Cardio/Walking Focus"
)

type Interval struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Activity struct {
	Interval
	Focus    string `json:"focus"`
	Emphasis string `json:"emphasis"`
}

// DaySchedule is the composed timeline. Times are fractional hours (12.5 = 12:30).
type DaySchedule struct {
	Start       float64    `json:"start"`
	End         float64    `json:"end"`
	Meals       []Interval `json:"meals"`
	Activity    Activity   `json:"activity"`
	WaterCues   []float64  `json:"water_cues"`
	HourMarkers []int      `json:"hour_markers"`
	Footer      string     `json:"footer"`
}

type GetScheduleResponse struct {
	Category profiles.Category `json:"category"`
	Goal     profiles.Goal     `json:"goal"`
	Schedule DaySchedule       `json:"schedule"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
