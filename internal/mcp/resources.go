package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const recentWorkoutLimit = 10

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	if len(workouts) > recentWorkoutLimit {
		workouts = workouts[:recentWorkoutLimit]
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
