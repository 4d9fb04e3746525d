package main

import (
	"errors"
	"fmt"
	"math"
)

/* ─── Errors ─────────────────────────────────────────────────────────── */

// errInvalidInput covers malformed or missing profile fields, including an
// unrecognized gender. Never defaulted around: a silently-assumed gender
// corrupts every downstream number with no visible signal.
var errInvalidInput = errors.New("invalid input")

// errUnsupportedGoal is returned when the primary fitness goal is outside
// the enumerated set.
var errUnsupportedGoal = errors.New("unsupported fitness goal")

/* ─── Policy tables ──────────────────────────────────────────────────── */

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used
// for input validation in profile handlers and for synthetic training data.
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extra_active":      1.9,
}

// goalAdjustments maps each fitness goal to its daily calorie offset from
// TDEE. The weight_loss deficit and muscle_gain surplus sit inside the safe
// ~0.5–1 lb/week band (3500 cal ≈ 1 lb fat).
var goalAdjustments = map[string]float64{
	"weight_loss": -500,
	"muscle_gain": 300,
	"maintenance": 0,
	"endurance":   200,
}

/* ─── Calculator ─────────────────────────────────────────────────────── */

// bodyMetrics holds the derived numbers every planning engine works from.
// BMI/BMR/TDEE are kept at full precision; rounding happens at display time.
type bodyMetrics struct {
	BMI  float64 `json:"bmi"`
	BMR  float64 `json:"bmr"`
	TDEE float64 `json:"tdee"`
}

// mifflinStJeor computes BMR in kcal/day. The gender constant is the only
// branch: +5 for male, -161 for female.
func mifflinStJeor(weightKG, heightCM float64, age int, male bool) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if male {
		return bmr + 5
	}
	return bmr - 161
}

// computeBodyMetrics derives BMI, BMR (Mifflin-St Jeor), and TDEE.
// Gender must be exactly "male" or "female" — anything else is rejected
// rather than silently falling into the female formula.
func computeBodyMetrics(age int, gender string, weightKG, heightCM float64, activityLevel string) (bodyMetrics, error) {
	if age <= 0 || age > 130 {
		return bodyMetrics{}, fmt.Errorf("%w: age must be between 1 and 130, got %d", errInvalidInput, age)
	}
	if weightKG <= 0 {
		return bodyMetrics{}, fmt.Errorf("%w: weight_kg must be positive, got %g", errInvalidInput, weightKG)
	}
	if heightCM <= 0 {
		return bodyMetrics{}, fmt.Errorf("%w: height_cm must be positive, got %g", errInvalidInput, heightCM)
	}
	if gender != "male" && gender != "female" {
		return bodyMetrics{}, fmt.Errorf("%w: gender must be male or female, got %q", errInvalidInput, gender)
	}
	mult, found := activityMultipliers[activityLevel]
	if !found {
		return bodyMetrics{}, fmt.Errorf("%w: activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extra_active", errInvalidInput)
	}

	heightM := heightCM / 100
	bmi := weightKG / (heightM * heightM)
	bmr := mifflinStJeor(weightKG, heightCM, age, gender == "male")
	return bodyMetrics{BMI: bmi, BMR: bmr, TDEE: bmr * mult}, nil
}

// bmiCategory classifies a BMI value. Lower bounds are inclusive: exactly
// 18.5 is normal, exactly 25.0 is overweight, exactly 30.0 is obese.
func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// roundTo rounds v to the given number of decimal places, for display fields.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
