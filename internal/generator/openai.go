package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "Eres un entrenador personal experto. Respondes siempre con JSON válido."

// chatCompleter is the subset of *openai.Client the generator uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator asks an OpenAI-compatible chat endpoint for a plan using
// a JSON-schema constrained response.
type OpenAIGenerator struct {
	client chatCompleter
	model  string
	log    *slog.Logger
}

// NewOpenAI creates a generator. baseURL may be empty for the public API.
func NewOpenAI(apiKey, model, baseURL string, log *slog.Logger) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) GenerationResult {
	if err := req.Validate(); err != nil {
		return Failure{Reason: "invalid request", Err: err}
	}

	g.log.Info("generating routine", "model", g.model, "goal", req.Goal, "days", req.DaysPerWeek)
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "routine_plan",
				Schema: &planSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		g.log.Error("routine generation failed", "error", err)
		return Failure{Reason: "model request failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return Failure{Reason: "model returned no choices"}
	}

	plan, err := ParsePlan(resp.Choices[0].Message.Content)
	if err != nil {
		g.log.Warn("unexpected routine format", "error", err)
		return Failure{Reason: "unexpected response format", Err: err}
	}
	routines := plan.Routines()
	g.log.Info("routine generated", "name", plan.RoutineName, "routines", len(routines))
	return Success{Name: plan.RoutineName, Routines: routines}
}

func buildPrompt(req Request) string {
	return fmt.Sprintf(`Genera un plan de entrenamiento de gimnasio en español.

Mis detalles:
- Objetivo Principal: %s
- Nivel de Experiencia: %s
- Días por semana: %d

Crea una rutina separada para cada día de entrenamiento: si son %d días, genera %d rutinas distintas.
Los nombres de los ejercicios deben ser comunes y en español.
El nombre general de la rutina debe ser inspirador.`,
		req.Goal, req.Level, req.DaysPerWeek, req.DaysPerWeek, req.DaysPerWeek)
}

var planSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"routineName": {
			Type:        jsonschema.String,
			Description: "Nombre creativo y motivador para el plan, por ejemplo 'Proyecto Titán'.",
		},
		"days": {
			Type:        jsonschema.Array,
			Description: "Un objeto por día de entrenamiento.",
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"dayName": {
						Type:        jsonschema.String,
						Description: "Nombre del día con los grupos musculares, por ejemplo 'Día 1: Pecho y Tríceps'.",
					},
					"exercises": {
						Type: jsonschema.Array,
						Items: &jsonschema.Definition{
							Type: jsonschema.Object,
							Properties: map[string]jsonschema.Definition{
								"name": {Type: jsonschema.String, Description: "Nombre del ejercicio en español."},
								"sets": {Type: jsonschema.String, Description: "Número de series, por ejemplo '4'."},
								"reps": {Type: jsonschema.String, Description: "Rango de repeticiones, por ejemplo '8-12'."},
							},
							Required:             []string{"name", "sets", "reps"},
							AdditionalProperties: false,
						},
					},
				},
				Required:             []string{"dayName", "exercises"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"routineName", "days"},
	AdditionalProperties: false,
}
