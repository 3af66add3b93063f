// Package alpha imports Alpha Progression CSV exports as workouts.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Session is one workout as exported by Alpha Progression.
type Session struct {
	Name      string
	Date      time.Time // wall-clock time of the session, no zone
	Duration  string    // e.g. "1:02 hr"
	Exercises []ExerciseBlock
}

// ExerciseBlock is one exercise within a session.
type ExerciseBlock struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Modifiers  string // e.g. "2 dropsets"
	Sets       []Set
}

// Set is a working or warmup set. For bodyweight exercises WeightKg is the
// added load only.
type Set struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmup info"]
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setDataRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupRe = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)

	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

// parser accumulates sessions line by line.
type parser struct {
	sessions []Session
	current  *Session
	exercise *ExerciseBlock
}

func (p *parser) flushExercise() {
	if p.current != nil && p.exercise != nil {
		p.current.Exercises = append(p.current.Exercises, *p.exercise)
	}
	p.exercise = nil
}

func (p *parser) flushSession() {
	p.flushExercise()
	if p.current != nil {
		p.sessions = append(p.sessions, *p.current)
	}
	p.current = nil
}

// Parse reads an Alpha Progression CSV export. Sessions are separated by
// blank lines; unknown lines are ignored.
func Parse(r io.Reader) ([]Session, error) {
	var p parser
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			p.flushSession()

		case columnHeaderRe.MatchString(line):

		case sessionHeaderRe.MatchString(line):
			m := sessionHeaderRe.FindStringSubmatch(line)
			p.flushSession()
			date, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			p.current = &Session{Name: m[1], Date: date, Duration: m[3]}

		case exerciseHeaderRe.MatchString(line):
			m := exerciseHeaderRe.FindStringSubmatch(line)
			if p.current == nil {
				return nil, fmt.Errorf("line %d: exercise without session", lineNo)
			}
			p.flushExercise()
			num, _ := strconv.Atoi(m[1])
			target, _ := strconv.Atoi(m[4])
			p.exercise = &ExerciseBlock{
				Number:     num,
				Name:       strings.TrimSpace(m[2]),
				Equipment:  strings.TrimSpace(m[3]),
				TargetReps: target,
				Modifiers:  strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(m[5]), "·")),
			}
			if m[6] != "" {
				p.exercise.Sets = append(p.exercise.Sets, parseWarmups(m[6])...)
			}

		case setDataRe.MatchString(line):
			m := setDataRe.FindStringSubmatch(line)
			if p.exercise == nil {
				return nil, fmt.Errorf("line %d: set data without exercise", lineNo)
			}
			num, _ := strconv.Atoi(m[1])
			weight, bw := parseWeight(m[2])
			reps, _ := strconv.Atoi(m[3])
			p.exercise.Sets = append(p.exercise.Sets, Set{
				Number:           num,
				WeightKg:         weight,
				IsBodyweightPlus: bw,
				Reps:             reps,
				RIR:              parseEuropeanFloat(m[4]),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	p.flushSession()
	return p.sessions, nil
}

// parseSessionDate accepts "2026-02-19 4:54" and "2026-02-19 16:54".
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse session date %q", s)
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) []Set {
	var sets []Set
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, Set{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: bw,
			Reps:             reps,
			IsWarmup:         true,
		})
	}
	return sets
}

// parseWeight handles "+35" (bodyweight plus 35 kg) and "102,5".
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return parseEuropeanFloat(rest), true
	}
	return parseEuropeanFloat(s), false
}

// parseEuropeanFloat reads comma decimals; "0,5" is 0.5. Garbage is 0.
func parseEuropeanFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}

// parseDuration reads "1:02 hr" or "45 min" into seconds. Unknown formats are 0.
func parseDuration(s string) int {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutSuffix(s, "hr"); ok {
		h, m, found := strings.Cut(strings.TrimSpace(rest), ":")
		hours, err1 := strconv.Atoi(h)
		mins, err2 := strconv.Atoi(m)
		if !found || err1 != nil || err2 != nil {
			return 0
		}
		return hours*3600 + mins*60
	}
	if rest, ok := strings.CutSuffix(s, "min"); ok {
		mins, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return 0
		}
		return mins * 60
	}
	return 0
}
