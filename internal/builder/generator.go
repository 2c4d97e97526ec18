// Package builder is the authoritative source of program calculations.
// The preview side mirrors these calculations for responsiveness, but the
// server always regenerates from raw inputs on save.
package builder

import (
	"fmt"
	"strings"

	"github.com/claude/ironcoach/internal/models"
)

// Session cadence within a week: heavy, light, heavy, light. Light sessions
// run at 80% of the heavy weight.
const lightSessionFactor = 0.8

// suggestedDays maps session number to a suggested weekday.
var suggestedDays = map[int]string{
	1: "Monday",
	2: "Wednesday",
	3: "Friday",
	4: "Saturday",
}

var weekNames = map[int]string{
	1: "Foundation Phase",
	2: "Building Phase - Week 2",
	3: "Building Phase - Week 3",
	4: "Building Phase - Week 4",
	5: "Building Phase - Week 5",
	6: "Intensification Phase",
	7: "Peak Phase",
	8: "Testing Week",
}

// Generate runs the full deterministic transformation from validated inputs
// and a constants snapshot to a program preview. It is pure: no I/O, no
// shared state, identical output for identical inputs and constants version.
// The snapshot's version is stamped into the result even if newer constants
// are published mid-computation.
func Generate(inputs models.ProgramInputs, constants *Constants) (*models.ProgramPreview, error) {
	if constants == nil {
		return nil, fmt.Errorf("generate: %w", ErrUnsupportedBuilderType)
	}
	if err := ValidateInputs(&inputs); err != nil {
		return nil, err
	}
	inputs = applyDefaults(inputs)
	if inputs.BuilderType != constants.BuilderType {
		return nil, fmt.Errorf("generate: %w: %s (constants are for %s)",
			ErrUnsupportedBuilderType, inputs.BuilderType, constants.BuilderType)
	}

	calculated := CalculateMovementData(inputs.Movements, constants)

	weeks := make([]models.WeekDetail, 0, inputs.DurationWeeks)
	for weekNum := 1; weekNum <= inputs.DurationWeeks; weekNum++ {
		weeks = append(weeks, generateWeek(weekNum, inputs, calculated, constants))
	}

	return &models.ProgramPreview{
		AlgorithmVersion: constants.Version,
		InputData:        inputs,
		CalculatedData:   calculated,
		Weeks:            weeks,
	}, nil
}

// CalculateMovementData derives the per-movement progression scalars. This is
// the projection the preview protocol compares field-by-field, keyed by
// movement name. Movements never interact.
func CalculateMovementData(movements []models.MovementInput, constants *Constants) map[string]models.MovementCalculations {
	result := make(map[string]models.MovementCalculations, len(movements))
	for _, m := range movements {
		jumpPct := constants.WeeklyJumpPercent(m.MaxRepsAt80Percent)
		rampPct := constants.RampUpPercent(m.MaxRepsAt80Percent)
		result[m.Name] = models.MovementCalculations{
			Name:              m.Name,
			EightyPercentLbs:  Round(m.OneRepMax * 0.80),
			WeeklyJumpPercent: jumpPct,
			WeeklyJumpLbs:     Round(m.OneRepMax * float64(jumpPct) / 100),
			RampUpPercent:     rampPct,
			RampUpBaseLbs:     Round(m.OneRepMax * float64(rampPct) / 100),
		}
	}
	return result
}

func generateWeek(weekNum int, inputs models.ProgramInputs, calculated map[string]models.MovementCalculations, constants *Constants) models.WeekDetail {
	name, ok := weekNames[weekNum]
	if !ok {
		name = fmt.Sprintf("Week %d", weekNum)
	}

	var days []models.DayDetail
	if weekNum == inputs.DurationWeeks {
		// Testing week: a single 1RM re-test session.
		days = []models.DayDetail{generateTestDay(inputs)}
	} else {
		protocol := constants.ProtocolByWeek[weekNum]
		days = make([]models.DayDetail, 0, inputs.DaysPerWeek)
		for dayNum := 1; dayNum <= inputs.DaysPerWeek; dayNum++ {
			isHeavy := dayNum%2 == 1
			days = append(days, generateDay(dayNum, weekNum, inputs, calculated, protocol, isHeavy))
		}
	}

	return models.WeekDetail{
		WeekNumber: weekNum,
		Name:       name,
		Days:       days,
	}
}

func generateDay(dayNum, weekNum int, inputs models.ProgramInputs, calculated map[string]models.MovementCalculations, protocol Protocol, isHeavy bool) models.DayDetail {
	intensity := "Light"
	if isHeavy {
		intensity = "Heavy"
	}

	exercises := make([]models.ExerciseDetail, 0, len(inputs.Movements))
	for _, m := range inputs.Movements {
		exercises = append(exercises, calculateExercise(m, weekNum, calculated[m.Name], protocol, isHeavy))
	}

	return models.DayDetail{
		DayNumber:          dayNum,
		Name:               fmt.Sprintf("Session %d - %s Day", dayNum, intensity),
		SuggestedDayOfWeek: suggestedDays[dayNum],
		Exercises:          exercises,
	}
}

// calculateExercise derives one movement's prescription for one session.
//
// Weeks 1-5 build linearly to the coach-confirmed target weight: week 5 heavy
// equals TargetWeight exactly, earlier weeks subtract one weekly jump per
// week. The ramp-up base from CalculateMovementData is diagnostic for the
// guided ramp test and never feeds these weights. Week 6 is target plus one
// jump, week 7 target plus two.
func calculateExercise(m models.MovementInput, weekNum int, calc models.MovementCalculations, protocol Protocol, isHeavy bool) models.ExerciseDetail {
	var heavyWeight int
	switch {
	case weekNum <= 5:
		heavyWeight = Round(m.TargetWeight) - (5-weekNum)*calc.WeeklyJumpLbs
	case weekNum == 6:
		heavyWeight = Round(m.TargetWeight) + calc.WeeklyJumpLbs
	default: // week 7
		heavyWeight = Round(m.TargetWeight) + 2*calc.WeeklyJumpLbs
	}

	weight := heavyWeight
	if !isHeavy {
		weight = Round(float64(heavyWeight) * lightSessionFactor)
	}

	name := strings.ToLower(m.Name)
	if isHeavy {
		name = strings.ToUpper(m.Name)
	}

	// Degenerate inputs can drive early weeks to zero or below; the computed
	// value is returned as-is. Sanity checks belong to the presentation layer.
	detail := models.ExerciseDetail{
		ExerciseName: name,
		Sets:         protocol.Sets,
		Reps:         protocol.Reps,
		WeightLbs:    &weight,
	}
	if weight > 0 {
		// Percentage of 1RM is display-only: derived from the rounded weight,
		// never fed back into later weeks, so rounding error cannot compound.
		pct := Round(float64(weight) / m.OneRepMax * 100)
		detail.Percentage1RM = &pct
	}
	return detail
}

func generateTestDay(inputs models.ProgramInputs) models.DayDetail {
	exercises := make([]models.ExerciseDetail, 0, len(inputs.Movements))
	for _, m := range inputs.Movements {
		pct := 100
		exercises = append(exercises, models.ExerciseDetail{
			ExerciseName:  strings.ToUpper(m.Name),
			Sets:          1,
			Reps:          1,
			Percentage1RM: &pct,
			Notes:         fmt.Sprintf("Test new 1RM. Previous: %g lbs", m.OneRepMax),
		})
	}
	return models.DayDetail{
		DayNumber:          1,
		Name:               "1RM Test Day",
		SuggestedDayOfWeek: "Wednesday",
		Exercises:          exercises,
	}
}
