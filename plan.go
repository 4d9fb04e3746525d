package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

/* ─── Value objects ──────────────────────────────────────────────────── */

// keyMetrics is the headline-number block of the overall summary.
type keyMetrics struct {
	BMI                float64 `json:"bmi"`
	BMICategory        string  `json:"bmi_category"`
	BMR                int     `json:"bmr"`
	TDEE               int     `json:"tdee"`
	DailyCalorieTarget int     `json:"daily_calorie_target"`
	WeeklyCalorieBurn  float64 `json:"weekly_calorie_burn"`
}

// overallSummary ties the plan together for the consumer-facing narrative.
type overallSummary struct {
	Overview         string            `json:"overview"`
	KeyMetrics       keyMetrics        `json:"key_metrics"`
	ExpectedOutcomes outcomeProjection `json:"expected_outcomes"`
	SuccessFactors   []string          `json:"success_factors"`
	WhyThisWorks     []string          `json:"why_this_works"`
}

// completePlan is the composed response: profile snapshot plus both plans
// plus the outcome summary. All value objects are produced fresh per request;
// the attribution result is requested separately and merged by the caller.
type completePlan struct {
	UserProfile    userProfile    `json:"user_profile"`
	DietPlan       dietPlan       `json:"diet_plan"`
	ExercisePlan   exercisePlan   `json:"exercise_plan"`
	OverallSummary overallSummary `json:"overall_summary"`
	AIAdvice       string         `json:"ai_advice,omitempty"`
}

/* ─── Compiler ───────────────────────────────────────────────────────── */

// compilePlan runs the diet and exercise engines and the outcome predictor
// over one immutable profile snapshot and composes the result. This is the
// only place the three outputs are merged.
func compilePlan(p *userProfile, foods *foodStore, exercises *exerciseStore) (completePlan, error) {
	diet, err := generateDietPlan(p, foods)
	if err != nil {
		return completePlan{}, err
	}
	workout, err := generateExercisePlan(p, exercises)
	if err != nil {
		return completePlan{}, err
	}
	outcome := predictOutcome(p, diet, workout)

	return completePlan{
		UserProfile:    *p,
		DietPlan:       diet,
		ExercisePlan:   workout,
		OverallSummary: buildOverallSummary(p, diet, workout, outcome),
	}, nil
}

func buildOverallSummary(p *userProfile, diet dietPlan, workout exercisePlan, outcome outcomeProjection) overallSummary {
	goal := strings.ReplaceAll(p.primaryGoal(), "_", " ")
	activity := strings.ReplaceAll(p.ActivityLevel, "_", " ")

	return overallSummary{
		Overview: fmt.Sprintf("Personalized %s plan for %s", goal, p.Name),
		KeyMetrics: keyMetrics{
			BMI:                p.bmiDisplay(),
			BMICategory:        bmiCategory(p.BMI),
			BMR:                int(math.Round(p.BMR)),
			TDEE:               int(math.Round(p.TDEE)),
			DailyCalorieTarget: diet.CalorieTarget,
			WeeklyCalorieBurn:  workout.ExpectedWeeklyBurn,
		},
		ExpectedOutcomes: outcome,
		SuccessFactors: []string{
			"Consistency in following the meal plan",
			"Adherence to exercise schedule",
			"Adequate sleep (7-9 hours)",
			"Stress management",
			"Regular progress tracking",
		},
		WhyThisWorks: []string{
			fmt.Sprintf("Personalized approach: tailored to your age (%d), current weight (%.0fkg), height (%.0fcm), and %s lifestyle.",
				p.Age, p.WeightKG, p.HeightCM, activity),
			fmt.Sprintf("Science-based calculations: using the Mifflin-St Jeor equation, your BMR is %d calories; combined with your activity level, your TDEE is %d calories — the foundation of the plan.",
				int(math.Round(p.BMR)), int(math.Round(p.TDEE))),
			fmt.Sprintf("Balanced macronutrients: the macro distribution is optimized for %s, ensuring adequate protein for muscle, carbs for energy, and fats for hormones.", goal),
			"Progressive exercise plan: the workout split balances training types, allowing adequate recovery while maximizing results.",
			"Sustainable and safe: the calorie deficit/surplus stays within safe limits, promoting long-term success rather than quick fixes.",
		},
	}
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getPlan generates the complete plan for the authenticated user's profile.
// GET /api/plan. With ?advice=1 the Gemini collaborator is consulted; its
// failure never blocks the plan — fallback text is merged instead.
func (h *Handler) getPlan(c *gin.Context) {
	p, err := h.loadProfile(c)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	plan, err := compilePlan(&p, h.foods, h.exercises)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, errUnsupportedGoal), errors.Is(err, errInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, errNoEligibleFood), errors.Is(err, errEmptySchedule):
			status = http.StatusUnprocessableEntity
		}
		apiError(c, status, err.Error())
		return
	}

	if c.Query("advice") == "1" {
		plan.AIAdvice = h.advice.personalizedAdvice(c.Request.Context(), &p, plan)
	}

	c.JSON(http.StatusOK, plan)
}

// getPlanExplanation returns the Shapley attribution for the profile's
// predicted calorie target. GET /api/plan/explain. A 503 means the surrogate
// model failed to train; the caller keeps the rule-based explanation alone.
func (h *Handler) getPlanExplanation(c *gin.Context) {
	p, err := h.loadProfile(c)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	result, err := h.explainer.explain(&p)
	if err != nil {
		log.Printf("[explain] %v", err)
		apiError(c, http.StatusServiceUnavailable, "attribution explainer unavailable")
		return
	}

	c.JSON(http.StatusOK, result)
}
