package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

/* ─── Prompt ─────────────────────────────────────────────────────────── */

// advicePromptTemplate frames the request for the generative collaborator.
// Placeholders: age, goal, activity level, restrictions, plan context.
const advicePromptTemplate = `You are a certified health and fitness coach with expertise in personalized nutrition and exercise science.

ANALYZE THIS USER PROFILE FOR PERSONALIZED ADVICE:
- Age: %d years
- Primary Goal: %s
- Activity Level: %s
- Dietary Restrictions: %s
- Current Plan Context: %s

PROVIDE EXPERT ADVICE COVERING:
- Key priorities for their goal (2-3 items)
- Nutrition tips: specific food swaps, meal timing, hydration
- Exercise optimization: form, recovery, progressive overload
- Common mistakes to avoid for this goal
- Three quick wins they can start this week
- What-if scenarios: outcomes of following vs. not following the plan, with corrective actions

IMPORTANT GUIDELINES:
- Be specific with numbers (portions, reps, sets, times)
- Respect dietary restrictions completely
- Use encouraging, motivational language
- Keep total response under 600 words
- Provide evidence-based recommendations`

/* ─── Service ────────────────────────────────────────────────────────── */

// adviceService wraps the Gemini client. A nil client (no API key, or client
// construction failed) is valid: every call then returns the deterministic
// fallback, so plan generation never depends on the external service.
type adviceService struct {
	client *genai.Client
	model  string
}

// newAdviceService builds the Gemini-backed advice service from
// GOOGLE_API_KEY. Returns a fallback-only service when the key is absent.
func newAdviceService(ctx context.Context) *adviceService {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Printf("[advice] GOOGLE_API_KEY not set, using fallback advice only")
		return &adviceService{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("[advice] failed to create Gemini client: %v", err)
		return &adviceService{}
	}
	return &adviceService{client: client, model: "gemini-2.5-flash"}
}

// personalizedAdvice consults Gemini with a summary of the compiled plan.
// Any failure — missing client, transport error, empty response — degrades to
// the fallback text rather than surfacing an error: advice is a garnish on
// the plan, never a gate.
func (a *adviceService) personalizedAdvice(ctx context.Context, p *userProfile, plan completePlan) string {
	if a.client == nil {
		return fallbackAdvice(p)
	}

	prompt := a.buildPrompt(p, plan)
	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("[advice] Gemini error: %v", err)
		return fallbackAdvice(p)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		log.Printf("[advice] Gemini returned empty response")
		return fallbackAdvice(p)
	}
	return text
}

// buildPrompt condenses the plan into the short plain-text summary the
// collaborator consumes: goal, calorie target, workout frequency, dietary focus.
func (a *adviceService) buildPrompt(p *userProfile, plan completePlan) string {
	goal := strings.ReplaceAll(p.primaryGoal(), "_", " ")
	activity := strings.ReplaceAll(p.ActivityLevel, "_", " ")

	restrictions := "None"
	if len(p.DietaryRestrictions) > 0 {
		restrictions = strings.Join(p.DietaryRestrictions, ", ")
	}

	planContext := fmt.Sprintf(
		"%d calories/day (%.0f%% protein, %.0f%% carbs, %.0f%% fats), %d workouts/week, expected weekly burn %.0f calories",
		plan.DietPlan.CalorieTarget,
		plan.DietPlan.Macros.ProteinPct,
		plan.DietPlan.Macros.CarbsPct,
		plan.DietPlan.Macros.FatsPct,
		plan.ExercisePlan.sessionsPerWeek(),
		plan.ExercisePlan.ExpectedWeeklyBurn)

	return fmt.Sprintf(advicePromptTemplate, p.Age, goal, activity, restrictions, planContext)
}

// fallbackAdvice is the deterministic stand-in when the AI service is
// unreachable. General but safe for every goal.
func fallbackAdvice(p *userProfile) string {
	goal := strings.ReplaceAll(p.primaryGoal(), "_", " ")
	return fmt.Sprintf(`AI advice is currently unavailable. General guidance for %s:
- Stay hydrated with at least 8 glasses of water daily
- Include protein in every meal
- Aim for 7-9 hours of quality sleep
- Move your body for at least 30 minutes daily
Try again later for personalized advice.`, goal)
}
