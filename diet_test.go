package main

import (
	"errors"
	"math"
	"strings"
	"testing"
)

/* ─── Macro split tests ──────────────────────────────────────────────── */

// TestSplitMacros_CaloriesReconcile verifies the macro grams convert back to
// within 1% of the calorie target for every goal (rounding to whole grams is
// the only source of drift).
func TestSplitMacros_CaloriesReconcile(t *testing.T) {
	for goal := range goalAdjustments {
		t.Run(goal, func(t *testing.T) {
			target := 2400
			m := splitMacros(target, goal, 80)
			calories := float64(m.ProteinG*calPerGramProtein + m.CarbsG*calPerGramCarbs + m.FatsG*calPerGramFat)
			if diff := math.Abs(calories - float64(target)); diff > float64(target)*0.01 {
				t.Errorf("macros reconstruct to %g calories, target %d (diff %g)", calories, target, diff)
			}
		})
	}
}

// TestSplitMacros_PercentagesSumToHundred verifies the reported percentages
// sum to 100 within ±1 for every goal.
func TestSplitMacros_PercentagesSumToHundred(t *testing.T) {
	for goal := range goalAdjustments {
		m := splitMacros(2200, goal, 70)
		sum := m.ProteinPct + m.CarbsPct + m.FatsPct
		if math.Abs(sum-100) > 1 {
			t.Errorf("%s: percentages sum to %g, want 100±1", goal, sum)
		}
	}
}

// TestSplitMacros_ProteinCoefficient verifies protein grams follow the per-kg
// coefficient: muscle gain trains at 2.2 g/kg, cutting at 1.8 g/kg.
func TestSplitMacros_ProteinCoefficient(t *testing.T) {
	gain := splitMacros(2800, "muscle_gain", 80)
	if want := int(math.Round(2.2 * 80)); gain.ProteinG != want {
		t.Errorf("muscle_gain protein = %dg, want %dg", gain.ProteinG, want)
	}
	loss := splitMacros(2000, "weight_loss", 80)
	if want := int(math.Round(1.8 * 80)); loss.ProteinG != want {
		t.Errorf("weight_loss protein = %dg, want %dg", loss.ProteinG, want)
	}
}

/* ─── Plan generation tests ──────────────────────────────────────────── */

// TestGenerateDietPlan_CalorieTarget verifies the target is TDEE plus the
// goal offset, rounded to a whole calorie.
func TestGenerateDietPlan_CalorieTarget(t *testing.T) {
	foods := newFoodStore()
	p := makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{"weight_loss"}, nil)

	plan, err := generateDietPlan(p, foods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := int(math.Round(p.TDEE - 500))
	if plan.CalorieTarget != want {
		t.Errorf("calorie target = %d, want %d", plan.CalorieTarget, want)
	}
}

// TestGenerateDietPlan_AllFourMealSlots verifies every slot is present and
// non-empty with positive quantities.
func TestGenerateDietPlan_AllFourMealSlots(t *testing.T) {
	foods := newFoodStore()
	p := makeProfile(t, 28, "female", 62, 168, "lightly_active", []string{"maintenance"}, nil)

	plan, err := generateDietPlan(p, foods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, slot := range []string{"breakfast", "lunch", "dinner", "snack"} {
		items, ok := plan.MealPlan[slot]
		if !ok || len(items) == 0 {
			t.Errorf("meal slot %q missing or empty", slot)
			continue
		}
		for _, item := range items {
			if item.Quantity <= 0 {
				t.Errorf("%s: %s has non-positive quantity %g", slot, item.Food, item.Quantity)
			}
		}
	}
}

// TestGenerateDietPlan_VeganExcludesAnimalFoods verifies no selected food
// carries a meat, fish, dairy, or eggs tag under a vegan restriction.
func TestGenerateDietPlan_VeganExcludesAnimalFoods(t *testing.T) {
	foods := newFoodStore()
	p := makeProfile(t, 30, "female", 60, 165, "moderately_active", []string{"maintenance"}, []string{"vegan"})

	plan, err := generateDietPlan(p, foods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	banned := map[string]bool{"meat": true, "fish": true, "dairy": true, "eggs": true}
	byName := make(map[string]food)
	for _, f := range foods.foods {
		byName[f.Name] = f
	}
	for slot, items := range plan.MealPlan {
		for _, item := range items {
			for _, tag := range byName[item.Food].Tags {
				if banned[tag] {
					t.Errorf("%s: %s carries excluded tag %q", slot, item.Food, tag)
				}
			}
		}
	}
}

// TestGenerateDietPlan_Deterministic verifies two runs over the same profile
// produce identical meal plans.
func TestGenerateDietPlan_Deterministic(t *testing.T) {
	foods := newFoodStore()
	p := makeProfile(t, 45, "male", 85, 180, "very_active", []string{"endurance"}, []string{"vegetarian"})

	a, err := generateDietPlan(p, foods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := generateDietPlan(p, foods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for slot := range a.MealPlan {
		if len(a.MealPlan[slot]) != len(b.MealPlan[slot]) {
			t.Fatalf("%s: item counts differ between runs", slot)
		}
		for i := range a.MealPlan[slot] {
			if a.MealPlan[slot][i] != b.MealPlan[slot][i] {
				t.Errorf("%s[%d]: %v != %v", slot, i, a.MealPlan[slot][i], b.MealPlan[slot][i])
			}
		}
	}
}

// TestBuildMealPlan_NoEligibleFood verifies the engine fails with
// errNoEligibleFood instead of substituting a forbidden item when a required
// category has no candidates left after filtering. Uses a one-food-per-slot
// store whose only protein is meat, so a vegetarian restriction empties it.
func TestBuildMealPlan_NoEligibleFood(t *testing.T) {
	store := &foodStore{foods: []food{
		{Name: "chicken_breast", Calories: 165, Category: "protein", Tags: []string{"meat"}},
		{Name: "brown_rice", Calories: 111, Category: "carbs"},
		{Name: "banana", Calories: 89, Category: "fruits"},
		{Name: "broccoli", Calories: 34, Category: "vegetables"},
		{Name: "olive_oil", Calories: 884, Category: "fats"},
	}}
	_, err := buildMealPlan(2000, []string{"vegetarian"}, store)
	if !errors.Is(err, errNoEligibleFood) {
		t.Errorf("expected errNoEligibleFood, got %v", err)
	}
}

// TestExcludedTags_UnknownRestrictionMatchesDirectly verifies a restriction
// outside the known set is treated as a literal tag to exclude.
func TestExcludedTags_UnknownRestrictionMatchesDirectly(t *testing.T) {
	excluded := excludedTags([]string{"soy"})
	if !excluded["soy"] {
		t.Error("expected direct tag match for unknown restriction 'soy'")
	}
	foods := newFoodStore()
	for _, f := range foods.byCategory("protein", excluded) {
		if f.Name == "tofu" {
			t.Error("tofu should be excluded by the soy tag")
		}
	}
}

/* ─── Explanation tests ──────────────────────────────────────────────── */

// TestExplainCalorieTarget_CanonicalThirdLine verifies the explanation has
// exactly three lines and index 2 carries the one-line target summary that
// external callers index into.
func TestExplainCalorieTarget_CanonicalThirdLine(t *testing.T) {
	foods := newFoodStore()
	for goal, phrase := range map[string]string{
		"weight_loss": "below your maintenance",
		"muscle_gain": "above your maintenance",
		"endurance":   "above your maintenance",
		"maintenance": "matching your maintenance",
	} {
		t.Run(goal, func(t *testing.T) {
			p := makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{goal}, nil)
			plan, err := generateDietPlan(p, foods)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(plan.CalorieExplanation) != 3 {
				t.Fatalf("expected 3 explanation lines, got %d", len(plan.CalorieExplanation))
			}
			if !strings.Contains(plan.CalorieExplanation[2], phrase) {
				t.Errorf("line 2 = %q, want it to contain %q", plan.CalorieExplanation[2], phrase)
			}
			if !strings.Contains(plan.CalorieExplanation[0], "TDEE") {
				t.Errorf("line 0 = %q, want the TDEE basis", plan.CalorieExplanation[0])
			}
		})
	}
}

// TestDietDecisionFactors_CoversRequiredFactors verifies activity level, BMI
// category, and age bracket are all present with non-empty explanations.
func TestDietDecisionFactors_CoversRequiredFactors(t *testing.T) {
	p := makeProfile(t, 52, "female", 88, 160, "sedentary", []string{"weight_loss"}, nil)
	factors := dietDecisionFactors(p)

	got := map[string]decisionFactor{}
	for _, f := range factors {
		got[f.Factor] = f
	}
	for _, want := range []string{"activity_level", "bmi_category", "age_bracket"} {
		f, ok := got[want]
		if !ok {
			t.Errorf("missing decision factor %q", want)
			continue
		}
		if f.Value == "" || f.Impact == "" || f.Explanation == "" {
			t.Errorf("factor %q has empty fields: %+v", want, f)
		}
	}
	if got["age_bracket"].Value != "50+" {
		t.Errorf("age bracket = %q, want 50+", got["age_bracket"].Value)
	}
	if !strings.Contains(got["bmi_category"].Value, "obese") {
		t.Errorf("bmi category = %q, want obese", got["bmi_category"].Value)
	}
}

// TestGenerateDietPlan_UnsupportedGoal verifies a goal outside the table is
// rejected with errUnsupportedGoal.
func TestGenerateDietPlan_UnsupportedGoal(t *testing.T) {
	p := &userProfile{
		Age: 30, Gender: "male", WeightKG: 80, HeightCM: 180,
		ActivityLevel: "sedentary",
		FitnessGoals:  []string{"triathlon_prep"},
		TDEE:          2200,
	}
	_, err := generateDietPlan(p, newFoodStore())
	if !errors.Is(err, errUnsupportedGoal) {
		t.Errorf("expected errUnsupportedGoal, got %v", err)
	}
}
