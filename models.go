package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

/// trackerDay maps to tracker_days: one row per user per date, upserted in
// place as the day's activity accumulates.
type trackerDay struct {
	ID                 int        `json:"id" db:"id"`
	UserID             int        `json:"user_id" db:"user_id"`
	Date               DateOnly   `json:"date" db:"date"`
	Steps              int        `json:"steps" db:"steps"`
	WaterML            int        `json:"water_ml" db:"water_ml"`
	SleepHours         float64    `json:"sleep_hours" db:"sleep_hours"`
	MealsCompleted     []string   `json:"meals_completed" db:"meals_completed"`
	ExercisesCompleted []string   `json:"exercises_completed" db:"exercises_completed"`
	Notes              string     `json:"notes" db:"notes"`
	CreatedAt          *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at" db:"updated_at"`
}

// trackerProgress is the response shape for GET /api/tracker/summary:
// today's goal percentages plus rolling 7-day averages.
type trackerProgress struct {
	Today struct {
		Steps              int     `json:"steps"`
		StepsGoal          int     `json:"steps_goal"`
		StepsProgress      float64 `json:"steps_progress"`
		WaterML            int     `json:"water_ml"`
		WaterGoal          int     `json:"water_goal"`
		WaterProgress      float64 `json:"water_progress"`
		SleepHours         float64 `json:"sleep_hours"`
		MealsCompleted     int     `json:"meals_completed"`
		MealsTotal         int     `json:"meals_total"`
		MealsProgress      float64 `json:"meals_progress"`
		ExercisesCompleted int     `json:"exercises_completed"`
	} `json:"today"`
	Weekly struct {
		AvgSteps  int     `json:"avg_steps"`
		AvgWater  int     `json:"avg_water"`
		AvgSleep  float64 `json:"avg_sleep"`
		TotalDays int     `json:"total_days"`
	} `json:"weekly"`
}
