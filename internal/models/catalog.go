package models

import "sort"

// builtinExercises is the stock exercise catalogue offered by the logging form.
var builtinExercises = []string{
	// Chest
	"Press de Banca con Barra",
	"Press de Banca con Mancuernas",
	"Press Inclinado con Barra",
	"Press Inclinado con Mancuernas",
	"Aperturas con Mancuernas",
	"Flexiones",
	"Fondos en Paralelas",
	"Cruce de Poleas",
	// Back
	"Dominadas",
	"Jalón al Pecho",
	"Remo con Barra",
	"Remo con Mancuerna",
	"Remo en Punta (T-Bar)",
	"Peso Muerto",
	"Face Pulls",
	// Legs
	"Sentadillas",
	"Prensa de Piernas",
	"Zancadas",
	"Extensiones de Cuádriceps",
	"Curl Femoral",
	"Elevación de Talones",
	"Peso Muerto Rumano",
	// Shoulders
	"Press Militar con Barra",
	"Press de Hombros con Mancuernas",
	"Elevaciones Laterales",
	"Elevaciones Frontales",
	"Pájaro (Bent-Over Dumbbell Raise)",
	"Encogimientos de Hombros",
	// Arms
	"Curl de Bíceps con Barra",
	"Curl de Bíceps con Mancuernas",
	"Curl Martillo",
	"Press Francés",
	"Extensiones de Tríceps en Polea",
	"Fondos de Tríceps",
	// Core
	"Plancha",
	"Crunches",
	"Elevaciones de Piernas",
	"Russian Twists",
}

// ExerciseCatalog merges the built-in catalogue with user-defined names,
// dropping duplicates, and returns them sorted.
func ExerciseCatalog(custom []string) []string {
	seen := make(map[string]bool, len(builtinExercises)+len(custom))
	out := make([]string, 0, len(builtinExercises)+len(custom))
	for _, list := range [][]string{builtinExercises, custom} {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// IsBuiltinExercise reports whether name is part of the stock catalogue.
func IsBuiltinExercise(name string) bool {
	for _, n := range builtinExercises {
		if n == name {
			return true
		}
	}
	return false
}
