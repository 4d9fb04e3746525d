package main

import (
	"fmt"
	"math"
	"strings"
)

/* ─── Policy tables ──────────────────────────────────────────────────── */

// proteinPerKG is the per-kilogram protein coefficient by goal. Muscle gain
// needs the most; cutting keeps protein high to spare lean mass.
var proteinPerKG = map[string]float64{
	"weight_loss": 1.8,
	"muscle_gain": 2.2,
	"maintenance": 1.6,
	"endurance":   1.6,
}

// carbShareOfRemaining is the fraction of non-protein calories assigned to
// carbs by goal; the rest goes to fats. Endurance skews carb-heavy for
// glycogen replenishment.
var carbShareOfRemaining = map[string]float64{
	"weight_loss": 0.50,
	"muscle_gain": 0.55,
	"maintenance": 0.55,
	"endurance":   0.65,
}

// Caloric density per gram of each macro.
const (
	calPerGramProtein = 4
	calPerGramCarbs   = 4
	calPerGramFat     = 9
)

// mealSlots in serving order, with each slot's share of the daily calorie
// target and the food categories it draws from.
var mealSlots = []struct {
	Name       string
	Share      float64
	Categories []string
}{
	{"breakfast", 0.25, []string{"protein", "carbs", "fruits"}},
	{"lunch", 0.35, []string{"protein", "carbs", "vegetables"}},
	{"dinner", 0.30, []string{"protein", "vegetables", "fats"}},
	{"snack", 0.10, []string{"protein", "fruits"}},
}

/* ─── Value objects ──────────────────────────────────────────────────── */

// macroSplit reports grams and percentages for the three macros. Percentages
// are back-computed from the calorie allocation and sum to 100 within ±1.
type macroSplit struct {
	ProteinG   int     `json:"protein_g"`
	CarbsG     int     `json:"carbs_g"`
	FatsG      int     `json:"fats_g"`
	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatsPct    float64 `json:"fats_pct"`
}

// mealItem is one food in a meal slot, quantity in the given unit.
type mealItem struct {
	Food     string  `json:"food"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// decisionFactor is one rule-based rationale record: which input factor was
// considered, its value, the direction of its effect, and why.
type decisionFactor struct {
	Factor      string `json:"factor"`
	Value       string `json:"value"`
	Impact      string `json:"impact"`
	Explanation string `json:"explanation"`
}

// dietPlan is the Diet Engine output. CalorieExplanation is ordered:
// index 0 is the TDEE basis, index 1 the goal offset rationale, index 2 the
// canonical one-line deficit/surplus summary that external callers index.
type dietPlan struct {
	CalorieTarget      int                   `json:"calorie_target"`
	Macros             macroSplit            `json:"macros"`
	MealPlan           map[string][]mealItem `json:"meal_plan"`
	CalorieExplanation []string              `json:"calorie_explanation"`
	DecisionFactors    []decisionFactor      `json:"decision_factors"`
}

/* ─── Engine ─────────────────────────────────────────────────────────── */

// generateDietPlan derives the calorie target, macro split, meal plan, and
// rule-based explanations for a profile. The profile's derived metrics must
// be current (deriveMetrics has run).
func generateDietPlan(p *userProfile, foods *foodStore) (dietPlan, error) {
	goal := p.primaryGoal()
	offset, ok := goalAdjustments[goal]
	if !ok {
		return dietPlan{}, fmt.Errorf("%w: %q", errUnsupportedGoal, goal)
	}

	target := int(math.Round(p.TDEE + offset))
	macros := splitMacros(target, goal, p.WeightKG)

	mealPlan, err := buildMealPlan(target, p.DietaryRestrictions, foods)
	if err != nil {
		return dietPlan{}, err
	}

	return dietPlan{
		CalorieTarget:      target,
		Macros:             macros,
		MealPlan:           mealPlan,
		CalorieExplanation: explainCalorieTarget(p, goal, offset, target),
		DecisionFactors:    dietDecisionFactors(p),
	}, nil
}

// splitMacros allocates target calories across the macros: protein from the
// per-kg coefficient, the remainder between carbs and fats by the goal's
// fixed share, grams by caloric density.
func splitMacros(target int, goal string, weightKG float64) macroSplit {
	proteinG := proteinPerKG[goal] * weightKG
	proteinCal := proteinG * calPerGramProtein

	remaining := float64(target) - proteinCal
	if remaining < 0 {
		remaining = 0
	}
	carbsCal := remaining * carbShareOfRemaining[goal]
	fatsCal := remaining - carbsCal

	t := float64(target)
	return macroSplit{
		ProteinG:   int(math.Round(proteinG)),
		CarbsG:     int(math.Round(carbsCal / calPerGramCarbs)),
		FatsG:      int(math.Round(fatsCal / calPerGramFat)),
		ProteinPct: roundTo(proteinCal/t*100, 1),
		CarbsPct:   roundTo(carbsCal/t*100, 1),
		FatsPct:    roundTo(fatsCal/t*100, 1),
	}
}

// buildMealPlan assembles each slot from the lookup provider, excluding foods
// that carry a restricted tag and scaling quantities to the slot's calorie
// allocation. Fails with errNoEligibleFood rather than substituting a
// forbidden item when a required category has no candidates left.
func buildMealPlan(target int, restrictions []string, foods *foodStore) (map[string][]mealItem, error) {
	excluded := excludedTags(restrictions)
	plan := make(map[string][]mealItem, len(mealSlots))

	for _, slot := range mealSlots {
		slotCal := float64(target) * slot.Share
		perCategory := slotCal / float64(len(slot.Categories))

		items := make([]mealItem, 0, len(slot.Categories))
		for _, category := range slot.Categories {
			candidates := foods.byCategory(category, excluded)
			if len(candidates) == 0 {
				return nil, fmt.Errorf("%w: %s for %s", errNoEligibleFood, category, slot.Name)
			}
			// Dataset order is stable, so the pick is deterministic per profile.
			chosen := candidates[0]
			grams := perCategory / chosen.Calories * 100
			// Round to 5 g steps; floor at 5 g so very low targets still plate something.
			grams = math.Max(5, math.Round(grams/5)*5)
			items = append(items, mealItem{
				Food:     chosen.Name,
				Quantity: grams,
				Unit:     "g",
			})
		}
		plan[slot.Name] = items
	}
	return plan, nil
}

// explainCalorieTarget renders the ordered calorie rationale. Index 2 is the
// canonical one-line summary and must stay deterministically indexable.
func explainCalorieTarget(p *userProfile, goal string, offset float64, target int) []string {
	bmr := int(math.Round(p.BMR))
	tdee := int(math.Round(p.TDEE))
	activity := strings.ReplaceAll(p.ActivityLevel, "_", " ")

	lines := make([]string, 0, 3)
	lines = append(lines, fmt.Sprintf(
		"Your TDEE is %d calories: a BMR of %d (Mifflin-St Jeor) scaled by your %s activity level.",
		tdee, bmr, activity))

	switch goal {
	case "weight_loss":
		lines = append(lines, fmt.Sprintf(
			"A %d calorie daily deficit was applied for weight loss — large enough to drive steady fat loss, small enough to stay in the safe 0.5–1 kg/week band.", int(-offset)))
		lines = append(lines, fmt.Sprintf(
			"Daily target: %d calories, %d below your maintenance of %d.", target, tdee-target, tdee))
	case "muscle_gain":
		lines = append(lines, fmt.Sprintf(
			"A %d calorie daily surplus was applied for muscle gain — enough to fuel growth without excessive fat accumulation.", int(offset)))
		lines = append(lines, fmt.Sprintf(
			"Daily target: %d calories, %d above your maintenance of %d.", target, target-tdee, tdee))
	case "endurance":
		lines = append(lines, fmt.Sprintf(
			"A %d calorie daily surplus was applied for endurance training — covering the extra fuel long sessions demand.", int(offset)))
		lines = append(lines, fmt.Sprintf(
			"Daily target: %d calories, %d above your maintenance of %d.", target, target-tdee, tdee))
	default: // maintenance
		lines = append(lines, "No adjustment was applied: for maintenance, intake matches expenditure.")
		lines = append(lines, fmt.Sprintf(
			"Daily target: %d calories, matching your maintenance of %d.", target, tdee))
	}
	return lines
}

// dietDecisionFactors lists the rule-based inputs behind the calorie number:
// activity level, BMI category, and age bracket at minimum.
func dietDecisionFactors(p *userProfile) []decisionFactor {
	activity := strings.ReplaceAll(p.ActivityLevel, "_", " ")
	mult := activityMultipliers[p.ActivityLevel]

	activityImpact := "increases calorie needs"
	if mult <= 1.2 {
		activityImpact = "keeps calorie needs near baseline"
	}

	category := bmiCategory(p.BMI)
	bmiImpact := "neutral"
	bmiExplanation := "Your BMI is in the normal range; no additional adjustment is needed."
	switch category {
	case "underweight":
		bmiImpact = "favors a calorie surplus"
		bmiExplanation = "An underweight BMI means restoring healthy body mass takes priority over any deficit."
	case "overweight", "obese":
		bmiImpact = "supports a calorie deficit"
		bmiExplanation = "An elevated BMI means a moderate deficit carries a favorable risk/benefit balance."
	}

	bracket := "18-29"
	ageImpact := "higher metabolic rate"
	ageExplanation := "Younger adults typically sustain a higher resting metabolic rate."
	switch {
	case p.Age >= 50:
		bracket = "50+"
		ageImpact = "lower metabolic rate"
		ageExplanation = "BMR declines roughly 5 calories per year of age; targets shrink accordingly."
	case p.Age >= 30:
		bracket = "30-49"
		ageImpact = "gradually declining metabolic rate"
		ageExplanation = "Each year of age lowers BMR by about 5 calories in the Mifflin-St Jeor model."
	}

	return []decisionFactor{
		{
			Factor:      "activity_level",
			Value:       activity,
			Impact:      activityImpact,
			Explanation: fmt.Sprintf("Your %s lifestyle multiplies BMR by %.3g to estimate total expenditure.", activity, mult),
		},
		{
			Factor:      "bmi_category",
			Value:       fmt.Sprintf("%s (%.1f)", category, p.bmiDisplay()),
			Impact:      bmiImpact,
			Explanation: bmiExplanation,
		},
		{
			Factor:      "age_bracket",
			Value:       bracket,
			Impact:      ageImpact,
			Explanation: ageExplanation,
		},
	}
}
