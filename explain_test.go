package main

import (
	"math"
	"strings"
	"testing"
)

// explainerProfile is the standing fixture for attribution tests. Explainer
// training is lazy and cached, so the package-level instance keeps the suite
// from retraining the forest per test.
var testExplainer = newCalorieExplainer()

func explainerProfile(t *testing.T) *userProfile {
	t.Helper()
	return makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{"weight_loss"}, nil)
}

/* ─── Attribution contract tests ─────────────────────────────────────── */

// TestExplain_EfficiencyHolds verifies the defining Shapley property: the
// contributions sum to prediction minus base value, within 1e-3. Exact
// enumeration of every coalition makes this hold regardless of how well the
// forest fits.
func TestExplain_EfficiencyHolds(t *testing.T) {
	result, err := testExplainer.explain(explainerProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, v := range result.Contributions {
		sum += v
	}
	if diff := math.Abs(sum - (result.Prediction - result.BaseValue)); diff > 1e-3 {
		t.Errorf("contributions sum to %g, prediction-base is %g (diff %g)",
			sum, result.Prediction-result.BaseValue, diff)
	}
}

// TestExplain_AllFeaturesPresent verifies every feature appears in both the
// contribution and importance maps.
func TestExplain_AllFeaturesPresent(t *testing.T) {
	result, err := testExplainer.explain(explainerProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range featureNames {
		if _, ok := result.Contributions[name]; !ok {
			t.Errorf("missing contribution for %q", name)
		}
		if _, ok := result.Importance[name]; !ok {
			t.Errorf("missing importance for %q", name)
		}
	}
}

// TestExplain_ImportanceNormalized verifies importances are non-negative and
// sum to 1 within 1e-6.
func TestExplain_ImportanceNormalized(t *testing.T) {
	result, err := testExplainer.explain(explainerProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum float64
	for name, v := range result.Importance {
		if v < 0 {
			t.Errorf("importance[%q] = %g, want non-negative", name, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("importances sum to %g, want 1", sum)
	}
}

// TestExplain_Deterministic verifies repeated calls over the same profile
// return identical attributions: same trained model, no sampling in the
// coalition enumeration.
func TestExplain_Deterministic(t *testing.T) {
	p := explainerProfile(t)
	a, err := testExplainer.explain(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := testExplainer.explain(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Prediction != b.Prediction || a.BaseValue != b.BaseValue {
		t.Errorf("prediction/base diverged: %g/%g vs %g/%g",
			a.Prediction, a.BaseValue, b.Prediction, b.BaseValue)
	}
	for _, name := range featureNames {
		if a.Contributions[name] != b.Contributions[name] {
			t.Errorf("contribution[%q] diverged: %g vs %g", name, a.Contributions[name], b.Contributions[name])
		}
	}
}

// TestExplain_PredictionNearFormula verifies the surrogate tracks the real
// calorie arithmetic within 10% for a profile inside the training ranges.
func TestExplain_PredictionNearFormula(t *testing.T) {
	p := explainerProfile(t)
	result, err := testExplainer.explain(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	truth := p.TDEE + goalAdjustments[p.primaryGoal()]
	if diff := math.Abs(result.Prediction - truth); diff > truth*0.10 {
		t.Errorf("prediction %g is %g away from formula value %g", result.Prediction, diff, truth)
	}
}

/* ─── Rendering tests ────────────────────────────────────────────────── */

// TestRenderExplanations_TopThreeMaterial verifies at most three sentences
// come back and each names a direction word.
func TestRenderExplanations_TopThreeMaterial(t *testing.T) {
	result, err := testExplainer.explain(explainerProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Explanation) > maxExplanations {
		t.Fatalf("got %d explanations, want at most %d", len(result.Explanation), maxExplanations)
	}
	if len(result.Explanation) == 0 {
		t.Fatal("expected at least one material explanation for this profile")
	}
	for _, line := range result.Explanation {
		if !strings.Contains(line, "increases") && !strings.Contains(line, "decreases") {
			t.Errorf("explanation %q has no direction word", line)
		}
	}
}

// TestRenderExplanations_MaterialityThreshold verifies contributions under
// the threshold are never phrased.
func TestRenderExplanations_MaterialityThreshold(t *testing.T) {
	p := explainerProfile(t)
	contributions := map[string]float64{
		"age":            4,    // immaterial
		"weight":         250,  // material
		"height":         -9.9, // immaterial
		"bmi":            0,
		"gender":         0,
		"activity_level": -80, // material
		"goal":           3,
	}
	lines := renderExplanations(contributions, p)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "weight") {
		t.Errorf("largest contribution should lead: %q", lines[0])
	}
}

// TestNormalizeImportance_AllZero verifies an all-zero contribution map
// yields all-zero importances instead of NaN.
func TestNormalizeImportance_AllZero(t *testing.T) {
	importance := normalizeImportance(map[string]float64{"a": 0, "b": 0})
	for k, v := range importance {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("importance[%q] = %g, want 0", k, v)
		}
	}
}

/* ─── Coalition weight tests ─────────────────────────────────────────── */

// TestCoalitionWeights_SumOverSubsets verifies the weights are a valid
// Shapley kernel: summing w[|S|] over all subsets S of the other n-1
// features equals 1 for any feature.
func TestCoalitionWeights_SumOverSubsets(t *testing.T) {
	n := 7
	w := coalitionWeights(n)

	binomial := func(n, k int) float64 {
		b := 1.0
		for i := 0; i < k; i++ {
			b = b * float64(n-i) / float64(i+1)
		}
		return b
	}
	var sum float64
	for s := 0; s < n; s++ {
		sum += binomial(n-1, s) * w[s]
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel weights sum to %g over all subsets, want 1", sum)
	}
}
