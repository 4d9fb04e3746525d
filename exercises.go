package main

import "errors"

// errEmptySchedule is returned when no exercise satisfies the muscle-group
// and difficulty filter for a scheduled focus day.
var errEmptySchedule = errors.New("no exercises available for scheduled focus")

// exercise is one row of the read-only exercise dataset (MET compendium
// values). CaloriesPerMin is a per-minute burn estimate for an average adult;
// MET is kept for reference and for callers that scale by body weight.
type exercise struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"` // cardio, strength, flexibility
	MuscleGroups   []string `json:"muscle_groups"`
	Difficulty     string   `json:"difficulty"` // beginner, intermediate, advanced
	CaloriesPerMin float64  `json:"calories_per_min"`
	MET            float64  `json:"met"`
}

// difficultyRank orders difficulty levels so a ceiling can be applied with a
// simple comparison.
var difficultyRank = map[string]int{
	"beginner":     1,
	"intermediate": 2,
	"advanced":     3,
}

// exerciseStore is the read-only exercise lookup provider.
type exerciseStore struct {
	exercises []exercise
}

// byType returns exercises of the given type at or below the difficulty
// ceiling, optionally restricted to those hitting one of the muscle groups.
// An empty muscleGroups slice means any muscle group qualifies.
func (s *exerciseStore) byType(exType, maxDifficulty string, muscleGroups []string) []exercise {
	ceiling := difficultyRank[maxDifficulty]
	var out []exercise
	for _, ex := range s.exercises {
		if ex.Type != exType || difficultyRank[ex.Difficulty] > ceiling {
			continue
		}
		if len(muscleGroups) > 0 && !hitsAny(ex.MuscleGroups, muscleGroups) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func hitsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// newExerciseStore loads the bundled exercise dataset.
func newExerciseStore() *exerciseStore {
	return &exerciseStore{exercises: []exercise{
		// Strength
		{Name: "push_ups", Type: "strength", MuscleGroups: []string{"chest", "triceps", "shoulders"}, Difficulty: "beginner", CaloriesPerMin: 7, MET: 3.8},
		{Name: "pull_ups", Type: "strength", MuscleGroups: []string{"back", "biceps"}, Difficulty: "intermediate", CaloriesPerMin: 8, MET: 8.0},
		{Name: "squats", Type: "strength", MuscleGroups: []string{"legs", "glutes"}, Difficulty: "beginner", CaloriesPerMin: 8, MET: 5.0},
		{Name: "deadlifts", Type: "strength", MuscleGroups: []string{"back", "legs", "core"}, Difficulty: "intermediate", CaloriesPerMin: 9, MET: 6.0},
		{Name: "bench_press", Type: "strength", MuscleGroups: []string{"chest", "triceps", "shoulders"}, Difficulty: "intermediate", CaloriesPerMin: 7, MET: 5.0},
		{Name: "shoulder_press", Type: "strength", MuscleGroups: []string{"shoulders", "triceps"}, Difficulty: "beginner", CaloriesPerMin: 6, MET: 4.0},
		{Name: "lunges", Type: "strength", MuscleGroups: []string{"legs", "glutes"}, Difficulty: "beginner", CaloriesPerMin: 7, MET: 4.0},
		{Name: "planks", Type: "strength", MuscleGroups: []string{"core"}, Difficulty: "beginner", CaloriesPerMin: 4, MET: 3.0},
		{Name: "dumbbell_curls", Type: "strength", MuscleGroups: []string{"biceps"}, Difficulty: "beginner", CaloriesPerMin: 5, MET: 3.5},
		{Name: "leg_press", Type: "strength", MuscleGroups: []string{"legs"}, Difficulty: "intermediate", CaloriesPerMin: 8, MET: 5.5},

		// Cardio
		{Name: "running", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 11, MET: 9.0},
		{Name: "jogging", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 7, MET: 7.0},
		{Name: "cycling", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 9, MET: 8.0},
		{Name: "swimming", Type: "cardio", MuscleGroups: []string{"full_body", "cardiovascular"}, Difficulty: "intermediate", CaloriesPerMin: 10, MET: 8.0},
		{Name: "jump_rope", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "intermediate", CaloriesPerMin: 12, MET: 12.0},
		{Name: "rowing", Type: "cardio", MuscleGroups: []string{"back", "legs", "cardiovascular"}, Difficulty: "intermediate", CaloriesPerMin: 10, MET: 12.0},
		{Name: "elliptical", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 8, MET: 5.0},
		{Name: "walking", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 4, MET: 3.5},
		{Name: "hiking", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "intermediate", CaloriesPerMin: 6, MET: 6.0},
		{Name: "stair_climbing", Type: "cardio", MuscleGroups: []string{"legs", "cardiovascular"}, Difficulty: "intermediate", CaloriesPerMin: 9, MET: 8.0},
		{Name: "dancing", Type: "cardio", MuscleGroups: []string{"full_body", "cardiovascular"}, Difficulty: "beginner", CaloriesPerMin: 6, MET: 4.5},
		{Name: "boxing", Type: "cardio", MuscleGroups: []string{"full_body", "cardiovascular"}, Difficulty: "advanced", CaloriesPerMin: 13, MET: 12.0},

		// Flexibility
		{Name: "yoga", Type: "flexibility", MuscleGroups: []string{"full_body"}, Difficulty: "beginner", CaloriesPerMin: 4, MET: 2.5},
		{Name: "stretching", Type: "flexibility", MuscleGroups: []string{"full_body"}, Difficulty: "beginner", CaloriesPerMin: 3, MET: 2.3},
		{Name: "pilates", Type: "flexibility", MuscleGroups: []string{"core", "full_body"}, Difficulty: "beginner", CaloriesPerMin: 5, MET: 3.0},
		{Name: "tai_chi", Type: "flexibility", MuscleGroups: []string{"full_body"}, Difficulty: "beginner", CaloriesPerMin: 4, MET: 3.0},
	}}
}
