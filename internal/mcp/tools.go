package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/gymtrack/internal/analytics"
	"github.com/meltforce/gymtrack/internal/models"
)

// --- Tool definitions ---

var toolGetRecentPRs = mcp.NewTool("get_recent_prs",
	mcp.WithDescription("The newest personal record of each exercise, newest first, at most 5 entries. A PR is a weighted set heavier than every earlier set of the same exercise, or equal to the best weight with more reps. The first weighted set of an exercise is its baseline, not a PR."),
)

var toolGetBestSet = mcp.NewTool("get_best_set",
	mcp.WithDescription("The heaviest set ever logged for an exercise, ties broken by reps."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. 'Press Banca'")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Per-workout top set of one exercise in chronological order (date, weight, reps)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
)

var toolGetProgressGroups = mcp.NewTool("get_progress_groups",
	mcp.WithDescription("Exercises grouped by routine, with their progress series. Exercises outside every routine are grouped under 'Otros Ejercicios'."),
	mcp.WithNumber("min_points", mcp.Description("Minimum data points for an exercise to be included (default 2)")),
)

var toolGetWorkoutsByDay = mcp.NewTool("get_workouts_by_day",
	mcp.WithDescription("All workouts logged on a calendar day."),
	mcp.WithString("day", mcp.Required(), mcp.Description("Day as YYYY-MM-DD")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("Most recent workouts, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum workouts to return (default 20)")),
)

// --- Tool handlers ---

func (h *handlers) getRecentPRs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_prs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(analytics.RecentPRs(workouts))
}

func (h *handlers) getBestSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_best_set", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	best, ok := analytics.BestSetFor(name, workouts)
	if !ok {
		return mcp.NewToolResultText("no weighted sets logged for " + name), nil
	}
	return jsonResult(map[string]any{
		"exercise": name,
		"best":     best,
		"display":  best.String(),
	})
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(analytics.ExerciseSeries{
		Exercise: name,
		Points:   analytics.SeriesFor(name, workouts),
	})
}

func (h *handlers) getProgressGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minPoints := req.GetInt("min_points", analytics.MinChartPoints)
	if minPoints < 0 {
		return mcp.NewToolResultError("min_points must be non-negative"), nil
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_progress_groups", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	routines, err := h.ds.Routines(ctx)
	if err != nil {
		h.log.Error("mcp get_progress_groups routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(analytics.Progress(routines, workouts, minPoints))
}

func (h *handlers) getWorkoutsByDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_workouts_by_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	matched := analytics.IndexByDate(workouts)[day]
	if matched == nil {
		matched = []models.Workout{}
	}
	return jsonResult(matched)
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return jsonResult(workouts)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
