package schedules

import (
	"fmt"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

var (
	meals = []Interval{
		{Label: "Breakfast", Start: 8, End: 9},
		{Label: "Lunch", Start: 12.5, End: 13.5},
		{Label: "Dinner", Start: 19, End: 20},
	}
	waterCues = []float64{9.5, 11, 14.5, 16, 21}
)

// Focus picks the activity label and emphasis. Category and goal are
// checked together at each step, strength first.
func Focus(category profiles.Category, goal profiles.Goal) (label, emphasis string) {
	switch {
	case category == profiles.CategoryUnderweight || goal == profiles.GoalGainMuscle:
		return FocusStrength, EmphasisBlue
	case category == profiles.CategoryNormal || goal == profiles.GoalMaintainWeight:
		return FocusMixed, EmphasisGreen
	default:
		return FocusCardio, EmphasisDanger
	}
}

// Compose builds the fixed daily timeline for a profile.
func Compose(category profiles.Category, goal profiles.Goal) DaySchedule {
	label, emphasis := Focus(category, goal)

	markers := make([]int, 0, 8)
	for h := int(DayStartHour); h <= int(DayEndHour); h += MarkerStepHours {
		markers = append(markers, h)
	}

	return DaySchedule{
		Start: DayStartHour,
		End:   DayEndHour,
		Meals: append([]Interval(nil), meals...),
		Activity: Activity{
			Interval: Interval{Label: "Activity", Start: 17, End: 18},
			Focus:    label,
			Emphasis: emphasis,
		},
		WaterCues:   append([]float64(nil), waterCues...),
		HourMarkers: markers,
		Footer:      fmt.Sprintf("Focus: %s | Water Cues: %d times daily", label, len(waterCues)),
	}
}
