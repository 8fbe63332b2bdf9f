package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fdg312/bmi-planner/internal/intakes"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/units"
)

// MedicalDisclaimer is prepended to every answer touching a medical topic.
const MedicalDisclaimer = "⚠️ Disclaimer: I am an AI assistant, not a doctor. **Always consult a qualified healthcare professional** for medical diagnosis or treatment."

// MsgNoMetrics is the health report body when no calculation exists yet.
const MsgNoMetrics = "No recent health metrics are available. Please calculate your BMI first."

// Rule names, in evaluation order.
const (
	RuleWater        = "water"
	RulePlan         = "plan"
	RuleReport       = "report"
	RuleDisclaimer   = "disclaimer"
	RuleMedication   = "medication"
	RuleDiabetes     = "diabetes"
	RuleCardio       = "cardio"
	RuleAllergy      = "allergy"
	RuleBMIInfo      = "bmi_info"
	RuleWeightFoods  = "weight_loss_foods"
	RuleExercise     = "exercise"
	RuleBalancedDiet = "balanced_diet"
	RuleGreeting     = "greeting"
	RuleFallback     = "fallback"
)

// Input is everything a rule may read. Profile is nil until the first calculation.
type Input struct {
	Query     string
	Profile   *profiles.HealthProfile
	Hydration intakes.HydrationState
}

// Rule pairs a predicate over the lowercased query with its answer.
type Rule struct {
	Name    string
	Matches func(q string) bool
	Respond func(in Input) string
}

var (
	wordGreeting = regexp.MustCompile(`\b(hi|hey)\b`)
	wordHydrate  = regexp.MustCompile(`\bhydrate\b`)
)

func containsAny(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if strings.Contains(q, k) {
				return true
			}
		}
		return false
	}
}

func static(text string) func(Input) string {
	return func(Input) string { return text }
}

func withDisclaimer(body string) func(Input) string {
	return func(Input) string { return MedicalDisclaimer + "\n\n" + body }
}

// First match wins.
var rules = []Rule{
	{
		Name:    RuleWater,
		Matches: func(q string) bool {
			return containsAny("water", "hydration")(q) || wordHydrate.MatchString(q)
		},
		Respond: waterStatus,
	},
	{
		Name:    RulePlan,
		Matches: containsAny("diet plan", "my diet", "my plan", "my goals", "meal plan"),
		Respond: planAdvice,
	},
	{
		Name:    RuleReport,
		Matches: containsAny("health report", "my metrics"),
		Respond: func(in Input) string {
			return "Here is your latest summary:\n" + HealthReport(in.Profile, in.Hydration)
		},
	},
	{
		Name:    RuleDisclaimer,
		Matches: containsAny("disclaimer"),
		Respond: withDisclaimer("I repeat this for all sensitive health queries. Your safety is paramount. How else can I assist with general health information?"),
	},
	{
		Name:    RuleMedication,
		Matches: containsAny("medication", "drug", "supplement"),
		Respond: withDisclaimer("I can suggest general benefits of common vitamins, but for advice regarding specific **medication or supplements**, you must speak with your pharmacist or prescribing doctor. Do you want to know about general health benefits of Vitamin D?"),
	},
	{
		Name:    RuleDiabetes,
		Matches: containsAny("diabetes", "blood sugar"),
		Respond: withDisclaimer("Managing blood sugar requires a personalized approach. General tips include: prioritizing low-glycemic index foods, daily moderate exercise, and consistent meal timings. Speak to a doctor or dietitian for a custom plan."),
	},
	{
		Name:    RuleCardio,
		Matches: containsAny("heart disease", "heart", "cardio", "blood pressure"),
		Respond: withDisclaimer("To promote cardiovascular health, focus on a diet low in sodium and saturated fats (like the DASH diet), engage in regular aerobic exercise, and quit smoking. If you have high blood pressure, consult your physician immediately."),
	},
	{
		Name:    RuleAllergy,
		Matches: containsAny("allerg", "intolerance"),
		Respond: func(in Input) string {
			diet := profiles.DietOmnivore
			if in.Profile != nil && in.Profile.Diet != "" {
				diet = in.Profile.Diet
			}
			return fmt.Sprintf("%s\n\nIf you suspect food allergies or intolerances, you should consult an allergist. In the meantime, strict avoidance of suspected triggers is necessary. Make sure to communicate your %s diet preference to me for safe meal suggestions.", MedicalDisclaimer, diet)
		},
	},
	{
		Name:    RuleBMIInfo,
		Matches: containsAny("what is bmi", "healthy bmi"),
		Respond: static("A healthy BMI range is typically **18.5 to 24.9**. While BMI is a quick screening tool, it's essential to consider muscle mass and body fat percentage for a complete picture. Do you want to know the ideal weight range for your height?"),
	},
	{
		Name: RuleWeightFoods,
		Matches: func(q string) bool {
			return strings.Contains(q, "food") && containsAny("weight loss", "lose weight")(q)
		},
		Respond: static("To achieve sustainable weight loss, prioritize **whole, unprocessed foods**. Focus on lean proteins (like chicken, beans, and fish), high-fiber vegetables, and whole grains. Avoid liquid calories and excessive sugar."),
	},
	{
		Name:    RuleExercise,
		Matches: containsAny("exercise", "workout"),
		Respond: static("For general health, the CDC recommends at least 150 minutes of moderate-intensity activity (e.g., brisk walking) per week, plus muscle-strengthening activities two days a week. We can help you integrate that into your Planner!"),
	},
	{
		Name:    RuleBalancedDiet,
		Matches: containsAny("balanced diet"),
		Respond: static("A truly balanced diet requires hitting your **macro-nutrient targets** (protein, carbs, fats) while consuming a wide variety of **micronutrients** (vitamins, minerals). Aim for a colorful plate to ensure diversity."),
	},
	{
		Name: RuleGreeting,
		Matches: func(q string) bool {
			return strings.Contains(q, "hello") || wordGreeting.MatchString(q)
		},
		Respond: static("Hello! I'm your Smart Health Assistant, powered by AI. I can answer your wellness questions, but remember I am not a doctor. What health topic can I assist with?"),
	},
	{
		Name:    RuleFallback,
		Matches: func(string) bool { return true },
		Respond: static("I'm generating an informed response for your query. As an AI assistant, I can provide general health information, but please consult a healthcare professional for specific medical advice."),
	},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}

// Answer runs the rule table against the query and returns the answer
// together with the name of the rule that produced it.
func Answer(query string, profile *profiles.HealthProfile, hydration intakes.HydrationState) (string, string) {
	in := Input{Query: query, Profile: profile, Hydration: hydration}
	q := strings.ToLower(query)
	for _, r := range rules {
		if r.Matches(q) {
			return r.Respond(in), r.Name
		}
	}
	// unreachable: fallback always matches
	return "", RuleFallback
}

func waterStatus(in Input) string {
	current, goal := in.Hydration.CurrentMl, in.Hydration.GoalMl
	if current >= goal {
		return fmt.Sprintf("Fantastic! You've logged **%dml** which meets your daily goal of **%dml**! Stay consistent. You're doing great!", current, goal)
	}
	return fmt.Sprintf("You've logged **%dml** so far against a goal of **%dml**. That means you need about **%dml** more today. Keep sipping!", current, goal, goal-current)
}

func planAdvice(in Input) string {
	if in.Profile == nil {
		return "I need your personal metrics first! Please go to the 'BMI Calculator' tab, calculate your BMI, and then check the 'Health Planner' tab. Once that's done, I can give you personalized advice!"
	}

	goal, diet := in.Profile.Goal, in.Profile.Diet
	if goal == "" {
		goal = profiles.GoalMaintainWeight
	}
	if diet == "" {
		diet = profiles.DietOmnivore
	}

	var advice string
	switch goal {
	case profiles.GoalLoseWeight:
		advice = fmt.Sprintf("Your current goal is **Weight Loss**. Focus on a calorie deficit and high-volume, satiating foods. With your **%s** preference, ensure plenty of lean protein and fiber to manage hunger and preserve muscle.", diet)
	case profiles.GoalGainMuscle:
		advice = fmt.Sprintf("Your current goal is **Muscle Gain**. Focus on a slight calorie surplus and prioritize high-quality protein (aim for ~1.6g per kg of body weight). Make sure your **%s** choice supports enough protein.", diet)
	default:
		advice = fmt.Sprintf("Your current goal is to **Maintain Weight**. The key is balance and consistency. Continue following a diverse **%s** diet and keeping up your current activity level.", diet)
	}

	return fmt.Sprintf("Based on your latest inputs:\n- Health Goal: **%s**\n- Diet Preference: **%s**\n\n%s", goal, diet, advice)
}

// HealthReport renders the snapshot block used by the report rule.
// Weight and height stay in the unit the user entered.
func HealthReport(p *profiles.HealthProfile, hydration intakes.HydrationState) string {
	if p == nil {
		return MsgNoMetrics
	}

	weight := strconv.FormatFloat(p.Weight, 'f', -1, 64)
	var weightStr, heightStr string
	if p.Unit == profiles.UnitImperial {
		ft, in := units.SplitInches(p.Height)
		weightStr = weight + " lbs"
		heightStr = fmt.Sprintf("%d ft %d in", ft, in)
	} else {
		weightStr = weight + " kg"
		heightStr = strconv.FormatFloat(p.Height, 'f', -1, 64) + " m"
	}

	var b strings.Builder
	b.WriteString("--- User Health Snapshot ---\n")
	fmt.Fprintf(&b, "BMI: %.2f (%s)\n", p.BMI, p.Category)
	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "Activity: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "Diet: %s\n", p.Diet)
	fmt.Fprintf(&b, "Age/Gender: %d / %s\n", p.Age, p.Gender)
	fmt.Fprintf(&b, "Weight/Height: %s / %s\n", weightStr, heightStr)
	fmt.Fprintf(&b, "Water Intake Today: %dml\n", hydration.CurrentMl)
	b.WriteString("--------------------------\n")
	return b.String()
}
