package mealplans

import "github.com/fdg312/bmi-planner/internal/profiles"

type Slot string

const (
	SlotBreakfast Slot = "Breakfast"
	SlotLunch     Slot = "Lunch"
	SlotDinner    Slot = "Dinner"
)

// Slots in serving order.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner}

// Goal suffixes appended to every suggestion.
const (
	SuffixLoseWeight = " (Focus on smaller portion size)"
	SuffixGainMuscle = " (Add a source of healthy fats/protein)"
)

type MealSlotDTO struct {
	Slot  Slot     `json:"slot"`
	Items []string `json:"items"`
}

type GetMealsResponse struct {
	Diet  profiles.Diet `json:"diet"`
	Goal  profiles.Goal `json:"goal"`
	Slots []MealSlotDTO `json:"slots"`
	Text  string        `json:"text"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
