package main

import "fmt"

/* ─── Policy tables ──────────────────────────────────────────────────── */

// workoutSplit is the cardio/strength/flexibility percentage split; always
// sums to exactly 100.
type workoutSplit struct {
	CardioPct      int `json:"cardio_pct"`
	StrengthPct    int `json:"strength_pct"`
	FlexibilityPct int `json:"flexibility_pct"`
}

// splitPolicy keys the training split by primary goal.
var splitPolicy = map[string]workoutSplit{
	"weight_loss": {CardioPct: 60, StrengthPct: 30, FlexibilityPct: 10},
	"muscle_gain": {CardioPct: 20, StrengthPct: 70, FlexibilityPct: 10},
	"maintenance": {CardioPct: 40, StrengthPct: 40, FlexibilityPct: 20},
	"endurance":   {CardioPct: 60, StrengthPct: 25, FlexibilityPct: 15},
}

// trainingDaysByActivity maps activity tier to non-rest days per week.
var trainingDaysByActivity = map[string]int{
	"sedentary":         3,
	"lightly_active":    4,
	"moderately_active": 5,
	"very_active":       6,
	"extra_active":      6,
}

// trainingDayPattern spreads n training days across the week with recovery
// gaps where possible.
var trainingDayPattern = map[int][]int{
	3: {0, 2, 4},          // Mon Wed Fri
	4: {0, 1, 3, 5},       // Mon Tue Thu Sat
	5: {0, 1, 2, 4, 5},    // Mon Tue Wed Fri Sat
	6: {0, 1, 2, 3, 4, 5}, // Mon–Sat
}

var weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// difficultyCeiling caps exercise difficulty by activity tier: low tiers stay
// at beginner movements.
func difficultyCeiling(activityLevel string) string {
	switch activityLevel {
	case "sedentary", "lightly_active":
		return "beginner"
	case "moderately_active":
		return "intermediate"
	default:
		return "advanced"
	}
}

// strengthRotation cycles muscle-group emphasis across strength days so the
// same groups aren't hit on consecutive sessions.
var strengthRotation = [][]string{
	{"chest", "shoulders", "triceps"},
	{"legs", "glutes"},
	{"back", "biceps", "core"},
}

/* ─── Value objects ──────────────────────────────────────────────────── */

// scheduledExercise is one exercise in a day's session. Strength entries
// carry sets/reps; cardio and flexibility entries are duration-only.
type scheduledExercise struct {
	Name          string  `json:"name"`
	Sets          int     `json:"sets,omitempty"`
	Reps          int     `json:"reps,omitempty"`
	DurationMin   int     `json:"duration_min"`
	EstimatedBurn float64 `json:"estimated_burn"`
}

// workoutDay is one day of the weekly plan. Rest days have focus "rest" and
// no exercises.
type workoutDay struct {
	Day           string              `json:"day"`
	Focus         string              `json:"focus"`
	DurationMin   int                 `json:"duration_min"`
	Exercises     []scheduledExercise `json:"exercises"`
	EstimatedBurn float64             `json:"estimated_burn"`
}

// exercisePlan is the Exercise Engine output.
type exercisePlan struct {
	Split              workoutSplit `json:"split"`
	WeeklyPlan         []workoutDay `json:"weekly_plan"`
	ExpectedWeeklyBurn float64      `json:"expected_weekly_calorie_burn"`
}

/* ─── Engine ─────────────────────────────────────────────────────────── */

// generateExercisePlan builds the weekly schedule: focus days per the goal's
// split, day count per activity tier, exercises from the provider filtered by
// muscle group and difficulty ceiling, and MET-based burn estimates.
func generateExercisePlan(p *userProfile, store *exerciseStore) (exercisePlan, error) {
	goal := p.primaryGoal()
	split, ok := splitPolicy[goal]
	if !ok {
		return exercisePlan{}, fmt.Errorf("%w: %q", errUnsupportedGoal, goal)
	}

	days := trainingDaysByActivity[p.ActivityLevel]
	ceiling := difficultyCeiling(p.ActivityLevel)
	focuses := allocateFocuses(split, days)
	pattern := trainingDayPattern[days]

	weekly := make([]workoutDay, 0, 7)
	var weeklyBurn float64
	trainingIdx := 0
	strengthIdx := 0

	for dayIdx, dayName := range weekDays {
		if trainingIdx >= len(pattern) || pattern[trainingIdx] != dayIdx {
			weekly = append(weekly, workoutDay{Day: dayName, Focus: "rest", Exercises: []scheduledExercise{}})
			continue
		}
		focus := focuses[trainingIdx]
		trainingIdx++

		var day workoutDay
		var err error
		switch focus {
		case "strength":
			day, err = buildStrengthDay(dayName, strengthRotation[strengthIdx%len(strengthRotation)], ceiling, goal, store)
			strengthIdx++
		case "cardio":
			day, err = buildSessionDay(dayName, "cardio", ceiling, goal, dayIdx, store)
		default:
			day, err = buildSessionDay(dayName, "flexibility", ceiling, goal, dayIdx, store)
		}
		if err != nil {
			return exercisePlan{}, err
		}
		weeklyBurn += day.EstimatedBurn
		weekly = append(weekly, day)
	}

	return exercisePlan{
		Split:              split,
		WeeklyPlan:         weekly,
		ExpectedWeeklyBurn: roundTo(weeklyBurn, 1),
	}, nil
}

// allocateFocuses turns the percentage split into an ordered focus list of
// length n using largest-remainder apportionment, interleaving cardio and
// strength so back-to-back sessions alternate stimulus.
func allocateFocuses(split workoutSplit, n int) []string {
	type share struct {
		name  string
		exact float64
		count int
	}
	shares := []share{
		{"cardio", float64(n) * float64(split.CardioPct) / 100, 0},
		{"strength", float64(n) * float64(split.StrengthPct) / 100, 0},
		{"flexibility", float64(n) * float64(split.FlexibilityPct) / 100, 0},
	}
	total := 0
	for i := range shares {
		shares[i].count = int(shares[i].exact)
		total += shares[i].count
	}
	// Hand out the leftover days by largest fractional remainder.
	for total < n {
		best := -1
		bestRem := -1.0
		for i := range shares {
			rem := shares[i].exact - float64(shares[i].count)
			if rem > bestRem {
				bestRem = rem
				best = i
			}
		}
		shares[best].count++
		shares[best].exact = float64(shares[best].count) // consume the remainder
		total++
	}

	focuses := make([]string, 0, n)
	remaining := map[string]int{}
	for _, s := range shares {
		remaining[s.name] = s.count
	}
	order := []string{"cardio", "strength", "flexibility"}
	for len(focuses) < n {
		for _, name := range order {
			if remaining[name] > 0 {
				focuses = append(focuses, name)
				remaining[name]--
			}
		}
	}
	return focuses
}

// buildStrengthDay selects up to three movements hitting the day's muscle
// groups. Muscle gain trains heavier (4x8) than the other goals (3x12).
func buildStrengthDay(dayName string, muscleGroups []string, ceiling, goal string, store *exerciseStore) (workoutDay, error) {
	candidates := store.byType("strength", ceiling, muscleGroups)
	if len(candidates) == 0 {
		return workoutDay{}, fmt.Errorf("%w: strength day targeting %v at %s difficulty", errEmptySchedule, muscleGroups, ceiling)
	}

	sets, reps := 3, 12
	if goal == "muscle_gain" {
		sets, reps = 4, 8
	}

	count := len(candidates)
	if count > 3 {
		count = 3
	}
	exercises := make([]scheduledExercise, 0, count)
	var burn float64
	duration := 0
	for i := 0; i < count; i++ {
		ex := candidates[i]
		const perExerciseMin = 10
		exBurn := ex.CaloriesPerMin * perExerciseMin
		exercises = append(exercises, scheduledExercise{
			Name:          ex.Name,
			Sets:          sets,
			Reps:          reps,
			DurationMin:   perExerciseMin,
			EstimatedBurn: exBurn,
		})
		burn += exBurn
		duration += perExerciseMin
	}

	return workoutDay{
		Day:           dayName,
		Focus:         "strength",
		DurationMin:   duration,
		Exercises:     exercises,
		EstimatedBurn: burn,
	}, nil
}

// buildSessionDay builds a cardio or flexibility day. The rotation offset
// varies picks across the week while staying deterministic per profile.
func buildSessionDay(dayName, focus, ceiling, goal string, rotation int, store *exerciseStore) (workoutDay, error) {
	candidates := store.byType(focus, ceiling, nil)
	if len(candidates) == 0 {
		return workoutDay{}, fmt.Errorf("%w: %s day at %s difficulty", errEmptySchedule, focus, ceiling)
	}

	var durations []int
	switch {
	case focus == "flexibility":
		durations = []int{20}
	case goal == "weight_loss" || goal == "endurance":
		durations = []int{25, 20}
	default:
		durations = []int{20, 15}
	}

	exercises := make([]scheduledExercise, 0, len(durations))
	var burn float64
	duration := 0
	for i, d := range durations {
		ex := candidates[(rotation+i)%len(candidates)]
		exBurn := ex.CaloriesPerMin * float64(d)
		exercises = append(exercises, scheduledExercise{
			Name:          ex.Name,
			DurationMin:   d,
			EstimatedBurn: exBurn,
		})
		burn += exBurn
		duration += d
	}

	return workoutDay{
		Day:           dayName,
		Focus:         focus,
		DurationMin:   duration,
		Exercises:     exercises,
		EstimatedBurn: burn,
	}, nil
}

// sessionsPerWeek counts non-rest days; used in summaries and the advice prompt.
func (ep *exercisePlan) sessionsPerWeek() int {
	n := 0
	for _, d := range ep.WeeklyPlan {
		if d.Focus != "rest" {
			n++
		}
	}
	return n
}

// dailyExerciseBurn is the weekly burn averaged per day, for energy-balance math.
func (ep *exercisePlan) dailyExerciseBurn() float64 {
	return ep.ExpectedWeeklyBurn / 7
}
