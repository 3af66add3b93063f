// Package generator produces training routines from a short description of
// the user's goal using a remote language model.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/meltforce/gymtrack/internal/models"
)

// ErrUnavailable is reported when no generator backend is configured.
var ErrUnavailable = errors.New("routine generator not configured")

var validate = validator.New()

// Request describes the plan to generate.
type Request struct {
	Goal        string `json:"goal" validate:"required"`
	Level       string `json:"level" validate:"required"`
	DaysPerWeek int    `json:"days_per_week" validate:"min=1,max=7"`
}

// Validate checks the request fields.
func (r Request) Validate() error {
	return validate.Struct(r)
}

// GenerationResult is either Success or Failure.
type GenerationResult interface {
	generationResult()
}

// Success carries the generated routines, one per training day.
type Success struct {
	Name     string           `json:"name"`
	Routines []models.Routine `json:"routines"`
}

// Failure explains why nothing was generated.
type Failure struct {
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (Success) generationResult() {}
func (Failure) generationResult() {}

func (f Failure) Error() string {
	if f.Err != nil {
		return f.Reason + ": " + f.Err.Error()
	}
	return f.Reason
}

func (f Failure) Unwrap() error { return f.Err }

// Generator creates routines.
type Generator interface {
	Generate(ctx context.Context, req Request) GenerationResult
}

// Disabled is the Generator used when no backend is configured.
type Disabled struct{}

// Generate always fails with ErrUnavailable.
func (Disabled) Generate(context.Context, Request) GenerationResult {
	return Failure{Reason: "generator disabled", Err: ErrUnavailable}
}

// Plan is the structured document the model must return.
type Plan struct {
	RoutineName string    `json:"routineName" validate:"required"`
	Days        []PlanDay `json:"days" validate:"required,min=1,dive"`
}

// PlanDay is one training day of a plan.
type PlanDay struct {
	DayName   string         `json:"dayName" validate:"required"`
	Exercises []PlanExercise `json:"exercises" validate:"required,min=1,dive"`
}

// PlanExercise is one prescribed exercise. Sets and Reps are free text
// such as "4" and "8-12"; only Name is kept in the routine.
type PlanExercise struct {
	Name string `json:"name" validate:"required"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
}

// ParsePlan decodes and validates a model response.
func ParsePlan(content string) (*Plan, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var p Plan
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	trimPlan(&p)
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("validating plan: %w", err)
	}
	return &p, nil
}

func trimPlan(p *Plan) {
	p.RoutineName = strings.TrimSpace(p.RoutineName)
	for i := range p.Days {
		d := &p.Days[i]
		d.DayName = strings.TrimSpace(d.DayName)
		for j := range d.Exercises {
			d.Exercises[j].Name = strings.TrimSpace(d.Exercises[j].Name)
		}
	}
}

// Routines converts the plan into routines with fresh ids, one per day.
func (p *Plan) Routines() []models.Routine {
	out := make([]models.Routine, 0, len(p.Days))
	for _, d := range p.Days {
		rt := models.Routine{
			ID:        uuid.NewString(),
			Name:      d.DayName,
			Exercises: make([]models.RoutineExercise, 0, len(d.Exercises)),
		}
		for _, ex := range d.Exercises {
			rt.Exercises = append(rt.Exercises, models.RoutineExercise{Name: ex.Name})
		}
		out = append(out, rt)
	}
	return out
}
