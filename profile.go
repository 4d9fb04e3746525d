package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Domain type ────────────────────────────────────────────────────── */

// userProfile maps to the profiles table plus derived metrics. Derived
// fields carry db:"-" so RowToStructByName skips them during scanning;
// they are recomputed from the stored fields after every load and mutation,
// never persisted, so they can't drift out of sync.
type userProfile struct {
	UserID              int      `json:"user_id" db:"user_id"`
	Name                string   `json:"name" db:"name"`
	Age                 int      `json:"age" db:"age"`
	Gender              string   `json:"gender" db:"gender"`
	WeightKG            float64  `json:"weight" db:"weight_kg"`
	HeightCM            float64  `json:"height" db:"height_cm"`
	ActivityLevel       string   `json:"activity_level" db:"activity_level"`
	FitnessGoals        []string `json:"fitness_goals" db:"fitness_goals"`
	DietaryRestrictions []string `json:"dietary_restrictions" db:"dietary_restrictions"`
	MedicalConditions   []string `json:"medical_conditions" db:"medical_conditions"`

	CreatedAt *time.Time `json:"-" db:"created_at"`
	UpdatedAt *time.Time `json:"-" db:"updated_at"`

	// Derived — always recomputed, full precision.
	BMI  float64 `json:"bmi" db:"-"`
	BMR  float64 `json:"bmr" db:"-"`
	TDEE float64 `json:"tdee" db:"-"`
}

// deriveMetrics recomputes BMI/BMR/TDEE from the stored fields and validates
// the goal list. Must run after construction and after every mutation before
// the profile is handed to any planning engine.
func (p *userProfile) deriveMetrics() error {
	m, err := computeBodyMetrics(p.Age, p.Gender, p.WeightKG, p.HeightCM, p.ActivityLevel)
	if err != nil {
		return err
	}
	for _, g := range p.FitnessGoals {
		if _, ok := goalAdjustments[g]; !ok {
			return fmt.Errorf("%w: %q", errUnsupportedGoal, g)
		}
	}
	p.BMI = m.BMI
	p.BMR = m.BMR
	p.TDEE = m.TDEE
	return nil
}

// primaryGoal returns the first fitness goal, defaulting to maintenance when
// none are set.
func (p *userProfile) primaryGoal() string {
	if len(p.FitnessGoals) == 0 {
		return "maintenance"
	}
	return p.FitnessGoals[0]
}

// bmiDisplay is the 1-decimal BMI used in rendered text.
func (p *userProfile) bmiDisplay() float64 {
	return roundTo(p.BMI, 1)
}

/* ─── Typed partial update ───────────────────────────────────────────── */

// profileUpdate lists only the mutable profile fields, all as pointers so
// "not provided" is distinguishable from a zero value. Derived fields are
// deliberately absent: they can only change via recompute.
type profileUpdate struct {
	Name                *string   `json:"name"`
	Age                 *int      `json:"age"`
	Gender              *string   `json:"gender"`
	WeightKG            *float64  `json:"weight"`
	HeightCM            *float64  `json:"height"`
	ActivityLevel       *string   `json:"activity_level"`
	FitnessGoals        *[]string `json:"fitness_goals"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	MedicalConditions   *[]string `json:"medical_conditions"`
}

// applyUpdate copies non-nil fields onto a copy of p, recomputes the derived
// metrics, and returns the result. The original is untouched on error, so a
// rejected update never leaves a profile with stale derived fields.
func (p userProfile) applyUpdate(u profileUpdate) (userProfile, error) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.WeightKG != nil {
		p.WeightKG = *u.WeightKG
	}
	if u.HeightCM != nil {
		p.HeightCM = *u.HeightCM
	}
	if u.ActivityLevel != nil {
		p.ActivityLevel = *u.ActivityLevel
	}
	if u.FitnessGoals != nil {
		p.FitnessGoals = *u.FitnessGoals
	}
	if u.DietaryRestrictions != nil {
		p.DietaryRestrictions = *u.DietaryRestrictions
	}
	if u.MedicalConditions != nil {
		p.MedicalConditions = *u.MedicalConditions
	}
	if err := p.deriveMetrics(); err != nil {
		return userProfile{}, err
	}
	return p, nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// profileRequest is the request body for PUT /api/profile.
type profileRequest struct {
	Name                string   `json:"name"`
	Age                 int      `json:"age"`
	Gender              string   `json:"gender"`
	WeightKG            float64  `json:"weight"`
	HeightCM            float64  `json:"height"`
	ActivityLevel       string   `json:"activity_level"`
	FitnessGoals        []string `json:"fitness_goals"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	MedicalConditions   []string `json:"medical_conditions"`
}

// loadProfile fetches the authenticated user's profile and recomputes its
// derived metrics. Every handler that needs a profile goes through here.
func (h *Handler) loadProfile(c *gin.Context) (userProfile, error) {
	userID := c.GetInt("user_id")
	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return userProfile{}, err
	}
	if err := p.deriveMetrics(); err != nil {
		return userProfile{}, err
	}
	return p, nil
}

// getProfile returns the profile with derived BMI/BMR/TDEE and BMI category.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.loadProfile(c)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":      p,
		"bmi_category": bmiCategory(p.BMI),
	})
}

// putProfile creates or replaces the authenticated user's profile.
// PUT /api/profile. The ON CONFLICT clause makes re-submitting idempotent.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}

	p := userProfile{
		UserID:              userID,
		Name:                strings.TrimSpace(body.Name),
		Age:                 body.Age,
		Gender:              body.Gender,
		WeightKG:            body.WeightKG,
		HeightCM:            body.HeightCM,
		ActivityLevel:       body.ActivityLevel,
		FitnessGoals:        body.FitnessGoals,
		DietaryRestrictions: body.DietaryRestrictions,
		MedicalConditions:   body.MedicalConditions,
	}
	if err := p.deriveMetrics(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.db.Exec(c, `
		INSERT INTO profiles (user_id, name, age, gender, weight_kg, height_cm,
			activity_level, fitness_goals, dietary_restrictions, medical_conditions)
		VALUES (@userID, @name, @age, @gender, @weightKG, @heightCM,
			@activityLevel, @fitnessGoals, @dietaryRestrictions, @medicalConditions)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, age = EXCLUDED.age, gender = EXCLUDED.gender,
			weight_kg = EXCLUDED.weight_kg, height_cm = EXCLUDED.height_cm,
			activity_level = EXCLUDED.activity_level,
			fitness_goals = EXCLUDED.fitness_goals,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			medical_conditions = EXCLUDED.medical_conditions,
			updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "name": p.Name, "age": p.Age, "gender": p.Gender,
			"weightKG": p.WeightKG, "heightCM": p.HeightCM,
			"activityLevel": p.ActivityLevel, "fitnessGoals": p.FitnessGoals,
			"dietaryRestrictions": p.DietaryRestrictions,
			"medicalConditions":   p.MedicalConditions,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      p,
		"bmi_category": bmiCategory(p.BMI),
	})
}

// patchProfile applies a typed partial update. Only provided fields change;
// the whole update is rejected (and nothing saved) if the result fails
// validation, so stored fields and derived metrics stay consistent.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	current, err := h.loadProfile(c)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	var body profileUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := current.applyUpdate(body)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.db.Exec(c, `
		UPDATE profiles SET name = @name, age = @age, gender = @gender,
			weight_kg = @weightKG, height_cm = @heightCM,
			activity_level = @activityLevel, fitness_goals = @fitnessGoals,
			dietary_restrictions = @dietaryRestrictions,
			medical_conditions = @medicalConditions, updated_at = now()
		WHERE user_id = @userID`,
		pgx.NamedArgs{
			"userID": updated.UserID, "name": updated.Name, "age": updated.Age,
			"gender": updated.Gender, "weightKG": updated.WeightKG,
			"heightCM": updated.HeightCM, "activityLevel": updated.ActivityLevel,
			"fitnessGoals":        updated.FitnessGoals,
			"dietaryRestrictions": updated.DietaryRestrictions,
			"medicalConditions":   updated.MedicalConditions,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      updated,
		"bmi_category": bmiCategory(updated.BMI),
	})
}
