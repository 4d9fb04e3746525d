package main

import (
	"fmt"
	"math"
)

// kcalPerKG is the fixed energy equivalent of one kilogram of body fat.
const kcalPerKG = 7700

// outcomeProjection is the 4-week trajectory projected from the diet and
// exercise plans. Single-pass: it never feeds back into plan adjustment.
type outcomeProjection struct {
	Timeframe            string  `json:"timeframe"`
	ExpectedWeightChange string  `json:"expected_weight_change"`
	WeeklyChangeKG       float64 `json:"weekly_change_kg"`
	MonthlyChangeKG      float64 `json:"monthly_change_kg"`
	Explanation          string  `json:"explanation"`
	Confidence           string  `json:"confidence"`
	Notes                string  `json:"notes"`
}

// predictOutcome projects weight change from the daily energy balance:
// intake minus (TDEE plus averaged exercise burn), converted at 7700 kcal/kg.
func predictOutcome(p *userProfile, diet dietPlan, workout exercisePlan) outcomeProjection {
	dailyBalance := float64(diet.CalorieTarget) - (p.TDEE + workout.dailyExerciseBurn())
	weeklyBalance := dailyBalance * 7

	switch p.primaryGoal() {
	case "weight_loss":
		weeklyChange := -(weeklyBalance / kcalPerKG)
		monthlyChange := weeklyChange * 4
		confidence := "Medium"
		// The 0.5–1 kg/week band is where projections track reality best.
		if abs := math.Abs(weeklyChange); abs >= 0.5 && abs <= 1.0 {
			confidence = "High"
		}
		return outcomeProjection{
			Timeframe:            "4 weeks",
			ExpectedWeightChange: fmt.Sprintf("%.1f kg loss", monthlyChange),
			WeeklyChangeKG:       roundTo(weeklyChange, 2),
			MonthlyChangeKG:      roundTo(monthlyChange, 1),
			Explanation: fmt.Sprintf(
				"With a daily deficit of %.0f calories (diet + exercise), you'll lose approximately %.2f kg/week safely.",
				math.Abs(dailyBalance), weeklyChange),
			Confidence: confidence,
			Notes:      "Results may vary based on adherence, genetics, and other factors.",
		}

	case "muscle_gain":
		weeklyChange := weeklyBalance / kcalPerKG
		monthlyChange := weeklyChange * 4
		return outcomeProjection{
			Timeframe:            "4 weeks",
			ExpectedWeightChange: fmt.Sprintf("%.1f kg gain", monthlyChange),
			WeeklyChangeKG:       roundTo(weeklyChange, 2),
			MonthlyChangeKG:      roundTo(monthlyChange, 1),
			Explanation: fmt.Sprintf(
				"With a daily surplus of %.0f calories and strength training, you'll gain approximately %.2f kg/week.",
				dailyBalance, weeklyChange),
			// Always Medium: how much of the gain is muscle vs fat is uncertain.
			Confidence: "Medium",
			Notes:      "Muscle gain requires time; some weight gain will be muscle, some fat.",
		}

	default: // maintenance, endurance
		return outcomeProjection{
			Timeframe:            "4 weeks",
			ExpectedWeightChange: "Maintenance (±0.5 kg)",
			WeeklyChangeKG:       0,
			MonthlyChangeKG:      0,
			Explanation:          "Your calorie intake matches expenditure, maintaining current weight while improving fitness.",
			Confidence:           "High",
			Notes:                "Body composition may improve (more muscle, less fat) even at stable weight.",
		}
	}
}
