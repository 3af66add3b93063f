package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymTrack training log. Query personal records, best sets, per-exercise progress and the workout calendar. Weights are in kilograms."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetRecentPRs, Handler: h.getRecentPRs},
		server.ServerTool{Tool: toolGetBestSet, Handler: h.getBestSet},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolGetProgressGroups, Handler: h.getProgressGroups},
		server.ServerTool{Tool: toolGetWorkoutsByDay, Handler: h.getWorkoutsByDay},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resRecentWorkouts = mcp.NewResource(
	"gymtrack://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The ten most recent workouts with their exercises and sets"),
	mcp.WithMIMEType("application/json"),
)
