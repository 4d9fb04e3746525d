package main

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// errExplainerUnavailable means the surrogate model failed to initialize.
// Callers degrade gracefully: drop the attribution, keep the rule-based
// explanation.
var errExplainerUnavailable = errors.New("attribution explainer unavailable")

// featureNames fixes the order of the 7-dimensional feature vector used for
// training, prediction, and attribution. Index positions matter everywhere.
var featureNames = []string{"age", "weight", "height", "bmi", "gender", "activity_level", "goal"}

const (
	trainingSamples = 2000
	backgroundSize  = 100
	explainerSeed   = 42

	// Contributions under 10 calories aren't worth a sentence.
	materialityThreshold = 10
	maxExplanations      = 3
)

// attributionResult decomposes a calorie prediction into signed per-feature
// contributions. Contributions sum to Prediction − BaseValue; Importance is
// the absolute contributions normalized to 1 (all zero when every
// contribution is exactly zero).
type attributionResult struct {
	Prediction    float64            `json:"ml_prediction"`
	BaseValue     float64            `json:"base_value"`
	Contributions map[string]float64 `json:"shap_values"`
	Importance    map[string]float64 `json:"feature_importance"`
	Explanation   []string           `json:"explanation"`
}

/* ─── Explainer ──────────────────────────────────────────────────────── */

// calorieExplainer owns the surrogate model. It is constructed explicitly and
// handed to the Handler — no package-level mutable state. Training runs at
// most once regardless of how many requests race into it: sync.Once is the
// initialization guard, and every caller then observes the same model.
type calorieExplainer struct {
	once       sync.Once
	model      *regressionForest
	background [][]float64
	baseValue  float64
	trainErr   error
}

func newCalorieExplainer() *calorieExplainer {
	return &calorieExplainer{}
}

// ensureTrained lazily trains the ensemble on synthetic data generated from
// the same BMR/TDEE formulas the explainer decomposes. The fixed seed makes
// repeated process starts bit-for-bit reproducible.
func (e *calorieExplainer) ensureTrained() error {
	e.once.Do(func() {
		X, y := syntheticTrainingData(trainingSamples, explainerSeed)

		model, err := trainForest(X, y,
			forestConfig{trees: 60, maxDepth: 10, minLeaf: 5},
			rand.New(rand.NewSource(explainerSeed)))
		if err != nil {
			e.trainErr = fmt.Errorf("%w: %v", errExplainerUnavailable, err)
			return
		}

		e.model = model
		e.background = X[:backgroundSize]
		var sum float64
		for _, b := range e.background {
			sum += model.predict(b)
		}
		e.baseValue = sum / float64(len(e.background))
	})
	return e.trainErr
}

// syntheticTrainingData samples profiles from fixed ranges and labels each
// with its target calories via the identical Mifflin-St Jeor/TDEE/goal
// arithmetic the planning engines use. The surrogate therefore approximates a
// known function, and its attributions are a statistical decomposition of
// that function rather than a model of real-world outcomes.
func syntheticTrainingData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))

	multipliers := []float64{1.2, 1.375, 1.55, 1.725, 1.9}
	goalOffsets := []float64{-500, 0, 300}

	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		age := 18 + rng.Intn(52) // 18–69
		weight := 50 + rng.Float64()*70
		height := 150 + rng.Float64()*50
		gender := float64(rng.Intn(2)) // 0=female, 1=male
		mult := multipliers[rng.Intn(len(multipliers))]
		goal := goalOffsets[rng.Intn(len(goalOffsets))]

		heightM := height / 100
		bmi := weight / (heightM * heightM)
		bmr := mifflinStJeor(weight, height, age, gender == 1)

		X[i] = []float64{float64(age), weight, height, bmi, gender, mult, goal}
		y[i] = bmr*mult + goal
	}
	return X, y
}

// featureVector encodes a validated profile into the model's feature order.
func featureVector(p *userProfile) []float64 {
	gender := 0.0
	if p.Gender == "male" {
		gender = 1.0
	}
	return []float64{
		float64(p.Age),
		p.WeightKG,
		p.HeightCM,
		p.BMI,
		gender,
		activityMultipliers[p.ActivityLevel],
		goalAdjustments[p.primaryGoal()],
	}
}

// explain trains the model if needed and returns the full attribution for
// the profile's predicted calorie target.
func (e *calorieExplainer) explain(p *userProfile) (attributionResult, error) {
	if err := e.ensureTrained(); err != nil {
		return attributionResult{}, err
	}

	x := featureVector(p)
	phi := e.shapleyValues(x)
	prediction := e.model.predict(x)

	contributions := make(map[string]float64, len(featureNames))
	for i, name := range featureNames {
		contributions[name] = phi[i]
	}

	return attributionResult{
		Prediction:    prediction,
		BaseValue:     e.baseValue,
		Contributions: contributions,
		Importance:    normalizeImportance(contributions),
		Explanation:   renderExplanations(contributions, p),
	}, nil
}

/* ─── Shapley attribution ────────────────────────────────────────────── */

// shapleyValues computes exact interventional Shapley values for x against
// the background sample. With 7 features, all 2^7 coalition values are
// evaluated directly: v(S) is the model's mean prediction with features in S
// taken from x and the rest marginalized over the background. Efficiency
// (sum of values = v(full) − v(empty)) holds exactly for any value function,
// which is the contract tests pin down.
func (e *calorieExplainer) shapleyValues(x []float64) []float64 {
	n := len(x)
	masks := 1 << n

	v := make([]float64, masks)
	z := make([]float64, n)
	for mask := 0; mask < masks; mask++ {
		var sum float64
		for _, b := range e.background {
			for j := 0; j < n; j++ {
				if mask&(1<<j) != 0 {
					z[j] = x[j]
				} else {
					z[j] = b[j]
				}
			}
			sum += e.model.predict(z)
		}
		v[mask] = sum / float64(len(e.background))
	}

	weights := coalitionWeights(n)
	phi := make([]float64, n)
	for j := 0; j < n; j++ {
		bit := 1 << j
		for mask := 0; mask < masks; mask++ {
			if mask&bit != 0 {
				continue
			}
			size := bits.OnesCount(uint(mask))
			phi[j] += weights[size] * (v[mask|bit] - v[mask])
		}
	}
	return phi
}

// coalitionWeights returns w[s] = s!(n−1−s)!/n! for s = 0..n−1.
func coalitionWeights(n int) []float64 {
	factorial := func(k int) float64 {
		f := 1.0
		for i := 2; i <= k; i++ {
			f *= float64(i)
		}
		return f
	}
	w := make([]float64, n)
	for s := 0; s < n; s++ {
		w[s] = factorial(s) * factorial(n-1-s) / factorial(n)
	}
	return w
}

// normalizeImportance converts signed contributions into absolute shares
// summing to 1. All-zero contributions yield all-zero importance rather than
// a division failure.
func normalizeImportance(contributions map[string]float64) map[string]float64 {
	var total float64
	for _, v := range contributions {
		total += math.Abs(v)
	}

	importance := make(map[string]float64, len(contributions))
	if total == 0 {
		for k := range contributions {
			importance[k] = 0
		}
		return importance
	}
	for k, v := range contributions {
		importance[k] = math.Abs(v) / total
	}
	return importance
}

/* ─── Human rendering ────────────────────────────────────────────────── */

// renderExplanations ranks features by absolute contribution, keeps the top
// three above the materiality threshold, and phrases each with its
// domain-specific framing and a direction word from the contribution's sign.
func renderExplanations(contributions map[string]float64, p *userProfile) []string {
	type ranked struct {
		name  string
		value float64
	}
	features := make([]ranked, 0, len(contributions))
	for name, v := range contributions {
		features = append(features, ranked{name, v})
	}
	sort.Slice(features, func(a, b int) bool {
		return math.Abs(features[a].value) > math.Abs(features[b].value)
	})

	out := make([]string, 0, maxExplanations)
	for _, f := range features {
		if len(out) == maxExplanations {
			break
		}
		impact := math.Abs(f.value)
		if impact < materialityThreshold {
			continue
		}
		direction := "increases"
		if f.value < 0 {
			direction = "decreases"
		}

		switch f.name {
		case "age":
			tail := "Metabolism naturally slows with age."
			if f.value > 0 {
				tail = "Younger individuals generally have higher metabolic rates."
			}
			out = append(out, fmt.Sprintf(
				"Your age (%d years) %s calorie needs by %.0f calories. %s",
				p.Age, direction, impact, tail))
		case "weight":
			out = append(out, fmt.Sprintf(
				"Your weight (%.0fkg) %s calorie needs by %.0f calories. Heavier bodies require more energy to maintain.",
				p.WeightKG, direction, impact))
		case "height":
			out = append(out, fmt.Sprintf(
				"Your height (%.0fcm) %s calorie needs by %.0f calories. Taller individuals have larger body surface area and higher energy requirements.",
				p.HeightCM, direction, impact))
		case "bmi":
			out = append(out, fmt.Sprintf(
				"Your BMI (%.1f) %s calorie recommendations by %.0f calories. This reflects your body composition's impact on metabolism.",
				p.bmiDisplay(), direction, impact))
		case "activity_level":
			out = append(out, fmt.Sprintf(
				"Your %s lifestyle %s calorie needs by %.0f calories. Physical activity significantly impacts daily energy expenditure.",
				strings.ReplaceAll(p.ActivityLevel, "_", " "), direction, impact))
		case "goal":
			out = append(out, fmt.Sprintf(
				"Your %s goal %s calorie target by %.0f calories. This adjustment helps you achieve your desired outcome.",
				strings.ReplaceAll(p.primaryGoal(), "_", " "), direction, impact))
		}
	}
	return out
}
