package main

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// Daily goal constants for the progress summary.
const (
	stepsGoal      = 10000
	waterGoalML    = 2000
	mealSlotsTotal = 4
)

// validMealSlots is the set of meal names that can be marked completed.
// Reject unknown values with 400 rather than letting garbage accumulate.
var validMealSlots = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// todayKey returns today's date in the tracker's canonical format.
func todayKey() string {
	return time.Now().UTC().Format("2006-01-02")
}

// loadOrCreateDay upserts an empty row for (user, date) and returns it, so
// every tracker endpoint operates on an existing row.
func (h *Handler) loadOrCreateDay(c *gin.Context, userID int, date string) (trackerDay, error) {
	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date) VALUES (@userID, @date)
		 ON CONFLICT (user_id, date) DO NOTHING`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return trackerDay{}, err
	}
	return queryOne[trackerDay](h.db, c,
		"SELECT * FROM tracker_days WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date})
}

// getTrackerToday returns today's tracking row, creating it if absent.
// GET /api/tracker/today.
func (h *Handler) getTrackerToday(c *gin.Context) {
	day, err := h.loadOrCreateDay(c, c.GetInt("user_id"), todayKey())
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load tracker")
		return
	}
	c.JSON(http.StatusOK, day)
}

// putTrackerSteps sets today's step count (absolute, not additive — step
// counters report totals). PUT /api/tracker/steps. Body: {"steps": 8500}.
func (h *Handler) putTrackerSteps(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Steps int `json:"steps"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Steps < 0 || body.Steps > 200000 {
		apiError(c, http.StatusBadRequest, "steps must be between 0 and 200000")
		return
	}

	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date, steps) VALUES (@userID, @date, @steps)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET steps = EXCLUDED.steps, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "steps": body.Steps})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update steps")
		return
	}
	h.respondWithToday(c, userID)
}

// postTrackerWater adds to today's water intake (additive — each glass is
// logged as it's drunk). POST /api/tracker/water. Body: {"ml": 250}.
func (h *Handler) postTrackerWater(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		ML int `json:"ml"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ML <= 0 || body.ML > 5000 {
		apiError(c, http.StatusBadRequest, "ml must be between 1 and 5000")
		return
	}

	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date, water_ml) VALUES (@userID, @date, @ml)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET water_ml = tracker_days.water_ml + EXCLUDED.water_ml, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "ml": body.ML})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update water")
		return
	}
	h.respondWithToday(c, userID)
}

// putTrackerSleep sets last night's sleep hours. PUT /api/tracker/sleep.
// Body: {"hours": 7.5}.
func (h *Handler) putTrackerSleep(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Hours float64 `json:"hours"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Hours < 0 || body.Hours > 24 {
		apiError(c, http.StatusBadRequest, "hours must be between 0 and 24")
		return
	}

	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date, sleep_hours) VALUES (@userID, @date, @hours)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET sleep_hours = EXCLUDED.sleep_hours, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "hours": body.Hours})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update sleep")
		return
	}
	h.respondWithToday(c, userID)
}

// postTrackerMeal marks a meal slot completed for today (idempotent).
// POST /api/tracker/meals. Body: {"meal": "breakfast"}.
func (h *Handler) postTrackerMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Meal string `json:"meal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validMealSlots[body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}

	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date, meals_completed)
		 VALUES (@userID, @date, ARRAY[@meal]::text[])
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET meals_completed = CASE
			WHEN @meal = ANY(tracker_days.meals_completed) THEN tracker_days.meals_completed
			ELSE array_append(tracker_days.meals_completed, @meal)
		 END, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "meal": body.Meal})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update meals")
		return
	}
	h.respondWithToday(c, userID)
}

// deleteTrackerMeal unmarks a meal slot. DELETE /api/tracker/meals/:meal.
func (h *Handler) deleteTrackerMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	meal := c.Param("meal")
	if !validMealSlots[meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}

	_, err := h.db.Exec(c,
		`UPDATE tracker_days
		 SET meals_completed = array_remove(meals_completed, @meal), updated_at = now()
		 WHERE user_id = @userID AND date = @date`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "meal": meal})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update meals")
		return
	}
	h.respondWithToday(c, userID)
}

// postTrackerExercise marks a scheduled exercise completed for today,
// keyed "day_exercise" (e.g. "monday_running") so the same movement on two
// days tracks separately. POST /api/tracker/exercises.
func (h *Handler) postTrackerExercise(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Exercise string `json:"exercise"`
		Day      string `json:"day"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Exercise == "" {
		apiError(c, http.StatusBadRequest, "exercise is required")
		return
	}
	key := body.Exercise
	if body.Day != "" {
		key = body.Day + "_" + body.Exercise
	}

	_, err := h.db.Exec(c,
		`INSERT INTO tracker_days (user_id, date, exercises_completed)
		 VALUES (@userID, @date, ARRAY[@key]::text[])
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET exercises_completed = CASE
			WHEN @key = ANY(tracker_days.exercises_completed) THEN tracker_days.exercises_completed
			ELSE array_append(tracker_days.exercises_completed, @key)
		 END, updated_at = now()`,
		pgx.NamedArgs{"userID": userID, "date": todayKey(), "key": key})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update exercises")
		return
	}
	h.respondWithToday(c, userID)
}

// getTrackerSummary returns today's goal progress and 7-day averages.
// GET /api/tracker/summary.
func (h *Handler) getTrackerSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	today, err := h.loadOrCreateDay(c, userID, todayKey())
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load tracker")
		return
	}

	weekStart := time.Now().UTC().AddDate(0, 0, -6).Format("2006-01-02")
	week, err := queryMany[trackerDay](h.db, c,
		`SELECT * FROM tracker_days
		 WHERE user_id = @userID AND date >= @weekStart
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "weekStart": weekStart})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load weekly data")
		return
	}

	var progress trackerProgress
	progress.Today.Steps = today.Steps
	progress.Today.StepsGoal = stepsGoal
	progress.Today.StepsProgress = goalProgress(float64(today.Steps), stepsGoal)
	progress.Today.WaterML = today.WaterML
	progress.Today.WaterGoal = waterGoalML
	progress.Today.WaterProgress = goalProgress(float64(today.WaterML), waterGoalML)
	progress.Today.SleepHours = today.SleepHours
	progress.Today.MealsCompleted = len(today.MealsCompleted)
	progress.Today.MealsTotal = mealSlotsTotal
	progress.Today.MealsProgress = roundTo(float64(len(today.MealsCompleted))/mealSlotsTotal*100, 1)
	progress.Today.ExercisesCompleted = len(today.ExercisesCompleted)

	// Averages are over a fixed 7-day window, counting missing days as zero —
	// an untracked day is a zero day, not a skipped one.
	var sumSteps, sumWater int
	var sumSleep float64
	for _, d := range week {
		sumSteps += d.Steps
		sumWater += d.WaterML
		sumSleep += d.SleepHours
	}
	progress.Weekly.AvgSteps = int(math.Round(float64(sumSteps) / 7))
	progress.Weekly.AvgWater = int(math.Round(float64(sumWater) / 7))
	progress.Weekly.AvgSleep = roundTo(sumSleep/7, 1)
	progress.Weekly.TotalDays = len(week)

	c.JSON(http.StatusOK, progress)
}

// goalProgress is percent-of-goal capped at 100.
func goalProgress(value, goal float64) float64 {
	return roundTo(math.Min(100, value/goal*100), 1)
}

// respondWithToday re-reads today's row and returns it, so every mutation
// endpoint responds with the full current state.
func (h *Handler) respondWithToday(c *gin.Context, userID int) {
	day, err := queryOne[trackerDay](h.db, c,
		"SELECT * FROM tracker_days WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": todayKey()})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to load tracker")
		return
	}
	c.JSON(http.StatusOK, day)
}
