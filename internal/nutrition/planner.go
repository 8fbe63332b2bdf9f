package nutrition

import (
	"fmt"
	"math"
	"strings"

	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/units"
)

// Calorie offsets applied to TDEE per goal.
const (
	LoseWeightDeficitKcal = 500
	GainMuscleSurplusKcal = 300
)

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// MacroSplit is the fraction of calories per macronutrient.
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Macros holds the daily gram targets.
type Macros struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// Kcal returns the energy the grams add up to.
func (m Macros) Kcal() int {
	return m.ProteinG*kcalPerGramProtein + m.CarbsG*kcalPerGramCarbs + m.FatG*kcalPerGramFat
}

type goalRule struct {
	offset float64
	split  MacroSplit
	advice string
}

var goalRules = map[profiles.Goal]goalRule{
	profiles.GoalLoseWeight: {
		offset: -LoseWeightDeficitKcal,
		split:  MacroSplit{Protein: 0.35, Carbs: 0.40, Fat: 0.25},
		advice: "Targeting a calorie deficit of ~500 kcal/day for safe weight loss.",
	},
	profiles.GoalGainMuscle: {
		offset: GainMuscleSurplusKcal,
		split:  MacroSplit{Protein: 0.30, Carbs: 0.50, Fat: 0.20},
		advice: "Targeting a calorie surplus of ~300 kcal/day, focusing heavily on protein.",
	},
	profiles.GoalMaintainWeight: {
		split:  MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30},
		advice: "Targeting maintenance calories (TDEE) for a balanced lifestyle.",
	},
}

func ruleFor(goal profiles.Goal) goalRule {
	if r, ok := goalRules[goal]; ok {
		return r
	}
	return goalRules[profiles.GoalMaintainWeight]
}

const (
	ReminderBoneHealth = "👵👴 Health Tip: Prioritize calcium and Vitamin D intake for bone health. Daily low-impact exercise is key!"
	ReminderHydration  = "💧 Hydration Tip: Drink a large glass of water before every meal to aid digestion and satiety."
	ReminderRecovery   = "💤 Recovery Tip: Ensure 7-9 hours of quality sleep nightly to repair muscle tissue."
	ReminderWellness   = "🧘 Wellness Tip: Manage stress through mindfulness or short breaks. Focus on whole foods, fiber, and consistency."
)

// Plan is the computed energy plan for one profile.
type Plan struct {
	WeightKg      float64    `json:"weight_kg"`
	HeightCm      float64    `json:"height_cm"`
	BMR           float64    `json:"bmr"`
	TDEE          float64    `json:"tdee"`
	CalorieTarget float64    `json:"calorie_target"`
	GoalAdvice    string     `json:"goal_advice"`
	Split         MacroSplit `json:"split"`
	Macros        Macros     `json:"macros"`
	Reminder      string     `json:"reminder"`
}

// Standardize converts the profile's body metrics to kilograms and centimetres.
func Standardize(p profiles.HealthProfile) (weightKg, heightCm float64) {
	if p.Unit == profiles.UnitImperial {
		return units.LbsToKg(p.Weight), units.InchesToCm(p.Height)
	}
	return p.Weight, units.MetersToCm(p.Height)
}

// BMR uses the revised Harris-Benedict equation.
func BMR(gender profiles.Gender, weightKg, heightCm float64, age int) float64 {
	if gender == profiles.GenderMale {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*float64(age)
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*float64(age)
}

func TDEE(bmr float64, level profiles.ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// CalorieTarget shifts TDEE by the goal offset.
func CalorieTarget(tdee float64, goal profiles.Goal) float64 {
	return tdee + ruleFor(goal).offset
}

// MacroGrams splits the target into grams, rounding half to even.
func MacroGrams(target float64, split MacroSplit) Macros {
	return Macros{
		ProteinG: int(math.RoundToEven(target * split.Protein / kcalPerGramProtein)),
		CarbsG:   int(math.RoundToEven(target * split.Carbs / kcalPerGramCarbs)),
		FatG:     int(math.RoundToEven(target * split.Fat / kcalPerGramFat)),
	}
}

// Reminder picks one tip. Priority: age over 50, then excess weight,
// then Extra Active, then the generic tip.
func Reminder(age int, category profiles.Category, level profiles.ActivityLevel) string {
	switch {
	case age > 50:
		return ReminderBoneHealth
	case category == profiles.CategoryOverweight || category == profiles.CategoryObesity:
		return ReminderHydration
	case level == profiles.ExtraActive:
		return ReminderRecovery
	default:
		return ReminderWellness
	}
}

// NewPlan computes the full energy plan.
func NewPlan(p profiles.HealthProfile) Plan {
	kg, cm := Standardize(p)
	bmr := BMR(p.Gender, kg, cm, p.Age)
	tdee := TDEE(bmr, p.ActivityLevel)
	rule := ruleFor(p.Goal)
	target := tdee + rule.offset

	return Plan{
		WeightKg:      kg,
		HeightCm:      cm,
		BMR:           bmr,
		TDEE:          tdee,
		CalorieTarget: target,
		GoalAdvice:    rule.advice,
		Split:         rule.split,
		Macros:        MacroGrams(target, rule.split),
		Reminder:      Reminder(p.Age, p.Category, p.ActivityLevel),
	}
}

// Guidance returns the category section header and body.
func Guidance(p profiles.HealthProfile) (header, body string) {
	switch p.Category {
	case profiles.CategoryUnderweight:
		return "Addressing the **Underweight** Issue (Focus: Safe Gain)",
			"**Diet Focus (Caloric Surplus):** Focus on maximizing nutrient density in every meal. Choose whole grains, healthy oils (avocado, coconut), nuts, and seeds. Liquid calories like smoothies with protein powder are excellent.\n" +
				"**Activity Focus:** Prioritize **Resistance Training** (Strength) 4 days/week to build muscle mass (muscle weighs more than fat). Limit excessive steady-state cardio to conserve energy."
	case profiles.CategoryOverweight, profiles.CategoryObesity:
		return fmt.Sprintf("Addressing the **%s** Issue (Focus: Sustainable Loss)", p.Category),
			"**Diet Focus (Caloric Deficit):** Must adhere strictly to the calorie target. Prioritize high-fiber foods (vegetables, legumes) and lean protein sources to maximize satiety. Avoid all high-sugar drinks and refined carbohydrates.\n" +
				"**Activity Focus:** Start with daily **Low-Impact Cardio** (e.g., brisk walking, swimming) for 30-60 mins, 5 days/week. Add **Strength Training** (2 days/week) to boost metabolism and preserve muscle mass."
	default:
		goal := strings.ToLower(string(p.Goal))
		return "Addressing **Normal Weight** (Focus: Optimization)",
			fmt.Sprintf("**Diet Focus (Balanced Macros):** Rotate your protein and vegetable sources frequently for diverse micronutrients. Adjust %s calories weekly based on performance and scale trends. Stay consistent with your **%s** preference.\n", goal, p.Diet) +
				fmt.Sprintf("**Activity Focus:** Ideal is a mix of **Cardio and Strength Training** (4-6 total sessions/week) to maintain health and %s.\n", goal) +
				"Sample Meal Tip: Rotate your protein and vegetable sources to ensure a wide spectrum of essential vitamins and minerals. Plan your meals ahead."
	}
}

// RenderPlan produces the plain-text personalized plan.
func RenderPlan(p profiles.HealthProfile, plan Plan) string {
	name := p.Name
	if name == "" {
		name = "User"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s's Personalized Health Plan**\n\n", name)
	b.WriteString("**Current Status Summary:**\n")
	fmt.Fprintf(&b, "  - BMI: %.2f (%s)\n", p.BMI, p.Category)
	fmt.Fprintf(&b, "  - Age / Gender: %d / %s\n", p.Age, p.Gender)
	fmt.Fprintf(&b, "  - Activity Level: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "  - Diet Preference: **%s**\n", p.Diet)
	fmt.Fprintf(&b, "  - Health Goal: **%s**\n\n", p.Goal)
	b.WriteString("**DAILY NUTRITION TARGETS:**\n")
	fmt.Fprintf(&b, "  - Calorie Intake: **%.0f kcal** (TDEE: %.0f) | %s\n", plan.CalorieTarget, plan.TDEE, plan.GoalAdvice)
	b.WriteString("  - Macros Breakdown:\n")
	fmt.Fprintf(&b, "    - Protein: %dg (%.0f%%)\n", plan.Macros.ProteinG, plan.Split.Protein*100)
	fmt.Fprintf(&b, "    - Carbs: %dg (%.0f%%)\n", plan.Macros.CarbsG, plan.Split.Carbs*100)
	fmt.Fprintf(&b, "    - Fats: %dg (%.0f%%)\n\n", plan.Macros.FatG, plan.Split.Fat*100)
	fmt.Fprintf(&b, "*%s*\n", plan.Reminder)
	b.WriteString("----------------------------------------------\n")

	header, body := Guidance(p)
	fmt.Fprintf(&b, "**%s**\n\n%s", header, body)
	return b.String()
}
