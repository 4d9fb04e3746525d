package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Helper tests ───────────────────────────────────────────────────── */

// TestGoalProgress_CapsAtHundred verifies the percentage is capped at 100
// and rounded to one decimal.
func TestGoalProgress_CapsAtHundred(t *testing.T) {
	cases := []struct {
		value, goal, want float64
	}{
		{0, 10000, 0},
		{5000, 10000, 50},
		{10000, 10000, 100},
		{14000, 10000, 100},
		{333, 2000, 16.7},
	}
	for _, tc := range cases {
		if got := goalProgress(tc.value, tc.goal); got != tc.want {
			t.Errorf("goalProgress(%g, %g) = %g, want %g", tc.value, tc.goal, got, tc.want)
		}
	}
}

// TestTodayKey_Format verifies the canonical date key parses back as a UTC
// calendar date.
func TestTodayKey_Format(t *testing.T) {
	key := todayKey()
	parsed, err := time.Parse("2006-01-02", key)
	if err != nil {
		t.Fatalf("todayKey() = %q, not a YYYY-MM-DD date: %v", key, err)
	}
	if parsed.Format("2006-01-02") != key {
		t.Errorf("round trip mismatch: %q", key)
	}
}

/* ─── DateOnly serialization tests ───────────────────────────────────── */

// TestDateOnly_JSONRoundTrip verifies DateOnly serializes as a bare
// YYYY-MM-DD string and parses back to the same date.
func TestDateOnly_JSONRoundTrip(t *testing.T) {
	d := DateOnly{time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-08-10"` {
		t.Errorf("marshaled to %s, want \"2026-08-10\"", b)
	}

	var back DateOnly
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Time.Equal(d.Time) {
		t.Errorf("round trip changed the date: %v != %v", back.Time, d.Time)
	}
}

/* ─── Handler validation tests (no DB) ───────────────────────────────── */

// setupTrackerTest wires the tracker mutation routes with a stubbed auth
// step. Only validation rejections that fire before the pool is touched are
// exercised here.
func setupTrackerTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	router := gin.New()
	auth := func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}
	router.PUT("/api/tracker/steps", auth, h.putTrackerSteps)
	router.POST("/api/tracker/water", auth, h.postTrackerWater)
	router.PUT("/api/tracker/sleep", auth, h.putTrackerSleep)
	router.POST("/api/tracker/meals", auth, h.postTrackerMeal)
	return router
}

func doTrackerRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestTrackerMutations_RejectInvalidBodies verifies each mutation endpoint
// rejects out-of-range or malformed input with 400.
func TestTrackerMutations_RejectInvalidBodies(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"negative steps", "PUT", "/api/tracker/steps", `{"steps":-100}`},
		{"steps malformed", "PUT", "/api/tracker/steps", `{oops`},
		{"non-positive water", "POST", "/api/tracker/water", `{"ml":0}`},
		{"negative sleep", "PUT", "/api/tracker/sleep", `{"hours":-1}`},
		{"absurd sleep", "PUT", "/api/tracker/sleep", `{"hours":25}`},
		{"unknown meal slot", "POST", "/api/tracker/meals", `{"meal":"brunch"}`},
	}
	router := setupTrackerTest()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doTrackerRequest(router, tc.method, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
