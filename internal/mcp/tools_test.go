package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymtrack/internal/analytics"
	"github.com/meltforce/gymtrack/internal/models"
)

type fakeSource struct {
	workouts []models.Workout
	routines []models.Routine
	err      error
}

func (f fakeSource) Workouts(context.Context) ([]models.Workout, error) { return f.workouts, f.err }
func (f fakeSource) Routines(context.Context) ([]models.Routine, error) { return f.routines, f.err }

func workout(id, date, exercise string, weight float64, reps int) models.Workout {
	return models.Workout{
		ID:   id,
		Date: date,
		Name: "Entrenamiento",
		Exercises: []models.Exercise{{
			Name: exercise,
			Sets: []models.SetData{{Weight: weight, Reps: reps}},
		}},
	}
}

// testSource holds three bench workouts, newest first, plus one squat day.
func testSource() fakeSource {
	return fakeSource{
		workouts: []models.Workout{
			workout("w4", "2026-03-09T10:00:00Z", "Sentadillas", 100, 5),
			workout("w3", "2026-03-06T10:00:00Z", "Press Banca", 85, 3),
			workout("w2", "2026-03-04T10:00:00Z", "Press Banca", 80, 5),
			workout("w1", "2026-03-02T10:00:00Z", "Press Banca", 75, 8),
		},
		routines: []models.Routine{{
			ID:        "r1",
			Name:      "Empuje",
			Exercises: []models.RoutineExercise{{Name: "Press Banca"}},
		}},
	}
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText returns the text of the first content item.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content type = %T, want text", res.Content[0])
	}
	return tc.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return v
}

// TestGetBestSet verifies the heaviest bench set is reported.
func TestGetBestSet(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getBestSet(context.Background(), callRequest(map[string]any{"exercise": "Press Banca"}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[struct {
		Best    analytics.BestSet `json:"best"`
		Display string            `json:"display"`
	}](t, res)
	if got.Best.Weight != 85 || got.Best.Reps != 3 {
		t.Errorf("best = %+v, want 85x3", got.Best)
	}
	if got.Display != "85kg x 3" {
		t.Errorf("display = %q, want %q", got.Display, "85kg x 3")
	}
}

// TestGetBestSetMissingArg verifies a missing exercise is a tool error, not a
// protocol error.
func TestGetBestSetMissingArg(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getBestSet(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing exercise")
	}
}

// TestGetBestSetUnknown verifies an exercise with no history returns a note.
func TestGetBestSetUnknown(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getBestSet(context.Background(), callRequest(map[string]any{"exercise": "Remo"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatal("unexpected tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "Remo") {
		t.Errorf("text = %q, want it to name the exercise", text)
	}
}

// TestGetExerciseProgress verifies the series is chronological.
func TestGetExerciseProgress(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getExerciseProgress(context.Background(), callRequest(map[string]any{"exercise": "Press Banca"}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[analytics.ExerciseSeries](t, res)
	if len(got.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(got.Points))
	}
	if got.Points[0].Weight != 75 || got.Points[2].Weight != 85 {
		t.Errorf("points = %+v, want oldest first", got.Points)
	}
}

// TestGetProgressGroups verifies the min_points filter drops single-point exercises.
func TestGetProgressGroups(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getProgressGroups(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	groups := decodeResult[[]analytics.ChartGroup](t, res)
	if len(groups) != 1 || groups[0].Name != "Empuje" {
		t.Fatalf("groups = %+v, want only Empuje", groups)
	}

	res, err = h.getProgressGroups(context.Background(), callRequest(map[string]any{"min_points": 1}))
	if err != nil {
		t.Fatal(err)
	}
	groups = decodeResult[[]analytics.ChartGroup](t, res)
	if len(groups) != 2 {
		t.Errorf("groups = %d, want 2 with min_points=1", len(groups))
	}
}

// TestGetWorkoutsByDay verifies day lookup and date validation.
func TestGetWorkoutsByDay(t *testing.T) {
	h := newHandlers(testSource())

	res, err := h.getWorkoutsByDay(context.Background(), callRequest(map[string]any{"day": "2026-03-04"}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[[]models.Workout](t, res)
	if len(got) != 1 || got[0].ID != "w2" {
		t.Errorf("workouts = %+v, want w2", got)
	}

	res, err = h.getWorkoutsByDay(context.Background(), callRequest(map[string]any{"day": "2026-03-05"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := decodeResult[[]models.Workout](t, res); len(got) != 0 {
		t.Errorf("workouts = %d, want 0", len(got))
	}

	res, err = h.getWorkoutsByDay(context.Background(), callRequest(map[string]any{"day": "04/03/2026"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error for malformed day")
	}
}

// TestListWorkoutsLimit verifies the newest workouts come first and the limit applies.
func TestListWorkoutsLimit(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.listWorkouts(context.Background(), callRequest(map[string]any{"limit": 2}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[[]models.Workout](t, res)
	if len(got) != 2 || got[0].ID != "w4" {
		t.Errorf("workouts = %+v, want w4 first, 2 total", got)
	}
}

// TestGetRecentPRs verifies PRs from the latest bench date are reported.
func TestGetRecentPRs(t *testing.T) {
	h := newHandlers(testSource())
	res, err := h.getRecentPRs(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	prs := decodeResult[[]analytics.RecentPR](t, res)
	found := false
	for _, pr := range prs {
		if pr.ExerciseName == "Press Banca" && pr.Weight == 85 {
			found = true
		}
	}
	if !found {
		t.Errorf("prs = %+v, want Press Banca 85", prs)
	}
}

// TestDataSourceError verifies storage failures surface as tool errors.
func TestDataSourceError(t *testing.T) {
	h := newHandlers(fakeSource{err: errors.New("disk gone")})
	res, err := h.listWorkouts(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestRecentWorkoutsResource verifies the resource returns JSON capped at ten workouts.
func TestRecentWorkoutsResource(t *testing.T) {
	var src fakeSource
	for i := 0; i < 12; i++ {
		src.workouts = append(src.workouts, workout("w", "2026-03-01T10:00:00Z", "Remo", 50, 10))
	}
	h := newHandlers(src)

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymtrack://recent_workouts"
	contents, err := h.recentWorkouts(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T", contents[0])
	}
	var got []models.Workout
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != recentWorkoutLimit {
		t.Errorf("workouts = %d, want %d", len(got), recentWorkoutLimit)
	}
}

// TestNewRegistersTools verifies the server builds with the local repository type.
func TestNewRegistersTools(t *testing.T) {
	s := New(testSource(), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
}

// TestRecentPRsDescription verifies the tool description states the reps
// rule and the cap that RecentPRs applies.
func TestRecentPRsDescription(t *testing.T) {
	desc := toolGetRecentPRs.Description
	for _, want := range []string{"more reps", fmt.Sprintf("at most %d", analytics.MaxRecentPRs), "each exercise"} {
		if !strings.Contains(desc, want) {
			t.Errorf("description %q missing %q", desc, want)
		}
	}
}
