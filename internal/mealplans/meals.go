package mealplans

import (
	"fmt"
	"strings"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

var baseMeals = map[profiles.Diet]map[Slot][]string{
	profiles.DietOmnivore: {
		SlotBreakfast: {"Scrambled Eggs with Spinach and Whole-Grain Toast.", "Oatmeal with Berries and Nuts."},
		SlotLunch:     {"Grilled Chicken Salad with Olive Oil Vinaigrette.", "Tuna sandwich on whole wheat."},
		SlotDinner:    {"Baked Salmon with Quinoa and Roasted Asparagus.", "Lean Beef Stir-fry with Brown Rice."},
	},
	profiles.DietVegetarian: {
		SlotBreakfast: {"Greek Yogurt with Granola and Honey.", "Tofu Scramble with Bell Peppers."},
		SlotLunch:     {"Lentil Soup and a Side Salad.", "Cheese and Veggie Wrap."},
		SlotDinner:    {"Black Bean Burgers on Whole Wheat Buns.", "Chickpea Curry with Brown Rice."},
	},
	profiles.DietVegan: {
		SlotBreakfast: {"Tofu Scramble with Nutritional Yeast and Veggies.", "Chia Seed Pudding with Fruit."},
		SlotLunch:     {"Large Quinoa Salad with Roasted Vegetables and Hummus.", "Vegetable and Bean Chili."},
		SlotDinner:    {"Lentil Shepherd's Pie.", "Pad Thai with Peanut Sauce and Tofu."},
	},
}

func suffixFor(goal profiles.Goal) string {
	switch goal {
	case profiles.GoalLoseWeight:
		return SuffixLoseWeight
	case profiles.GoalGainMuscle:
		return SuffixGainMuscle
	default:
		return ""
	}
}

// Suggest returns the meal candidates per slot. Unknown diets use the Omnivore track.
func Suggest(diet profiles.Diet, goal profiles.Goal) []MealSlotDTO {
	table, ok := baseMeals[diet]
	if !ok {
		table = baseMeals[profiles.DietOmnivore]
	}
	suffix := suffixFor(goal)

	out := make([]MealSlotDTO, 0, len(Slots))
	for _, slot := range Slots {
		items := make([]string, 0, len(table[slot]))
		for _, item := range table[slot] {
			items = append(items, item+suffix)
		}
		out = append(out, MealSlotDTO{Slot: slot, Items: items})
	}
	return out
}

// RenderMeals renders the suggestions as the plain-text block shown next to the plan.
func RenderMeals(diet profiles.Diet, goal profiles.Goal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meal Suggestions for: **%s** Diet (%s)\n", diet, goal)
	for _, s := range Suggest(diet, goal) {
		fmt.Fprintf(&b, "\n-- %s --\n", s.Slot)
		for _, item := range s.Items {
			fmt.Fprintf(&b, "* %s\n", item)
		}
	}
	return b.String()
}
