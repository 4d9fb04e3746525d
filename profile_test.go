package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// makeProfile builds a validated profile with derived metrics for engine
// tests. Fails the test immediately if the inputs don't validate.
func makeProfile(t *testing.T, age int, gender string, weightKG, heightCM float64, activityLevel string, goals, restrictions []string) *userProfile {
	t.Helper()
	p := &userProfile{
		UserID:              1,
		Name:                "Test User",
		Age:                 age,
		Gender:              gender,
		WeightKG:            weightKG,
		HeightCM:            heightCM,
		ActivityLevel:       activityLevel,
		FitnessGoals:        goals,
		DietaryRestrictions: restrictions,
	}
	if err := p.deriveMetrics(); err != nil {
		t.Fatalf("makeProfile: %v", err)
	}
	return p
}

/* ─── Derived metrics tests ──────────────────────────────────────────── */

// TestDeriveMetrics_PopulatesAllThree verifies BMI, BMR, and TDEE are all
// set after a successful derive.
func TestDeriveMetrics_PopulatesAllThree(t *testing.T) {
	p := makeProfile(t, 28, "female", 62, 168, "lightly_active", []string{"maintenance"}, nil)
	if p.BMI == 0 || p.BMR == 0 || p.TDEE == 0 {
		t.Errorf("derived metrics not populated: BMI=%f BMR=%f TDEE=%f", p.BMI, p.BMR, p.TDEE)
	}
}

// TestDeriveMetrics_RejectsUnknownGoal verifies an unrecognized entry in the
// goals list fails with errUnsupportedGoal.
func TestDeriveMetrics_RejectsUnknownGoal(t *testing.T) {
	p := userProfile{
		Age: 30, Gender: "male", WeightKG: 80, HeightCM: 180,
		ActivityLevel: "sedentary",
		FitnessGoals:  []string{"get_shredded"},
	}
	err := p.deriveMetrics()
	if !errors.Is(err, errUnsupportedGoal) {
		t.Errorf("expected errUnsupportedGoal, got %v", err)
	}
}

// TestPrimaryGoal_DefaultsToMaintenance verifies an empty goal list falls
// back to maintenance, and a populated list uses its first entry.
func TestPrimaryGoal_DefaultsToMaintenance(t *testing.T) {
	empty := userProfile{}
	if got := empty.primaryGoal(); got != "maintenance" {
		t.Errorf("empty goals: primaryGoal() = %q, want maintenance", got)
	}
	multi := userProfile{FitnessGoals: []string{"weight_loss", "endurance"}}
	if got := multi.primaryGoal(); got != "weight_loss" {
		t.Errorf("multi goals: primaryGoal() = %q, want weight_loss", got)
	}
}

/* ─── Partial update tests ───────────────────────────────────────────── */

// TestApplyUpdate_OnlyProvidedFieldsChange verifies nil fields are left
// untouched and the derived metrics are recomputed from the new values.
func TestApplyUpdate_OnlyProvidedFieldsChange(t *testing.T) {
	p := makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{"weight_loss"}, nil)
	oldTDEE := p.TDEE

	newWeight := 90.0
	updated, err := p.applyUpdate(profileUpdate{WeightKG: &newWeight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.WeightKG != 90 {
		t.Errorf("weight = %f, want 90", updated.WeightKG)
	}
	if updated.Age != 35 || updated.Gender != "male" || updated.HeightCM != 175 {
		t.Error("fields not in the update were modified")
	}
	if updated.TDEE >= oldTDEE {
		t.Errorf("TDEE should drop with weight: old %f, new %f", oldTDEE, updated.TDEE)
	}
}

// TestApplyUpdate_RejectedUpdateLeavesOriginalUntouched verifies an invalid
// update returns an error and the caller's profile keeps its old values and
// consistent derived metrics.
func TestApplyUpdate_RejectedUpdateLeavesOriginalUntouched(t *testing.T) {
	p := makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{"weight_loss"}, nil)
	oldBMI := p.BMI

	badGender := "unspecified"
	_, err := p.applyUpdate(profileUpdate{Gender: &badGender})
	if !errors.Is(err, errInvalidInput) {
		t.Fatalf("expected errInvalidInput, got %v", err)
	}
	if p.Gender != "male" || p.BMI != oldBMI {
		t.Error("original profile was modified by a rejected update")
	}
}

// TestApplyUpdate_GoalChange verifies swapping the goal list validates each
// entry and sticks on success.
func TestApplyUpdate_GoalChange(t *testing.T) {
	p := makeProfile(t, 35, "male", 95, 175, "moderately_active", []string{"weight_loss"}, nil)

	goals := []string{"muscle_gain"}
	updated, err := p.applyUpdate(profileUpdate{FitnessGoals: &goals})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.primaryGoal() != "muscle_gain" {
		t.Errorf("primaryGoal() = %q, want muscle_gain", updated.primaryGoal())
	}

	bad := []string{"bulk_forever"}
	if _, err := p.applyUpdate(profileUpdate{FitnessGoals: &bad}); !errors.Is(err, errUnsupportedGoal) {
		t.Errorf("expected errUnsupportedGoal, got %v", err)
	}
}

/* ─── Handler validation tests (no DB) ───────────────────────────────── */

// setupProfileTest wires the profile routes with a stubbed auth step. Only
// validation paths that reject before touching the pool are exercised here.
func setupProfileTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	router.PUT("/api/profile", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.putProfile)
	return router
}

func doProfilePut(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PUT", "/api/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestPutProfile_MalformedJSON verifies a non-JSON body is rejected with 400.
func TestPutProfile_MalformedJSON(t *testing.T) {
	w := doProfilePut(setupProfileTest(), `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestPutProfile_MissingName verifies an empty name is rejected with 400.
func TestPutProfile_MissingName(t *testing.T) {
	w := doProfilePut(setupProfileTest(),
		`{"name":"  ","age":30,"gender":"male","weight":80,"height":180,"activity_level":"sedentary"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestPutProfile_InvalidGender verifies the strict gender enum reaches the
// HTTP surface as a 400 with a descriptive message.
func TestPutProfile_InvalidGender(t *testing.T) {
	w := doProfilePut(setupProfileTest(),
		`{"name":"Sam","age":30,"gender":"x","weight":80,"height":180,"activity_level":"sedentary"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "gender") {
		t.Errorf("expected gender mentioned in error, got %s", w.Body.String())
	}
}
