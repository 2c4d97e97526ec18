package models

import (
	"time"

	"github.com/google/uuid"
)

// MovementInput is one tested movement supplied by the coach. All numeric
// fields must be positive before a program can be generated; TargetWeight is
// the coach-confirmed week-5 working weight from the ramp-up test, not a
// derived value.
type MovementInput struct {
	Name               string  `json:"name"`
	OneRepMax          float64 `json:"one_rm"`
	MaxRepsAt80Percent int     `json:"max_reps_at_80_percent"`
	TargetWeight       float64 `json:"target_weight"`
}

// ProgramInputs is the raw generation request. Persistence requests carry
// only this shape: the server recomputes everything from it.
type ProgramInputs struct {
	BuilderType   string          `json:"builder_type"`
	Name          string          `json:"name,omitempty"`
	Description   string          `json:"description,omitempty"`
	Movements     []MovementInput `json:"movements"`
	DurationWeeks int             `json:"duration_weeks,omitempty"`
	DaysPerWeek   int             `json:"days_per_week,omitempty"`
}

// MovementCalculations holds the derived per-movement scalars. These are the
// values the preview protocol compares field-by-field; they are never
// independently editable.
type MovementCalculations struct {
	Name              string `json:"name"`
	EightyPercentLbs  int    `json:"eighty_percent_lbs"`
	WeeklyJumpPercent int    `json:"weekly_jump_percent"`
	WeeklyJumpLbs     int    `json:"weekly_jump_lbs"`
	RampUpPercent     int    `json:"ramp_up_percent"`
	RampUpBaseLbs     int    `json:"ramp_up_base_lbs"`
}

// ExerciseDetail is one movement's prescription within a training day.
// WeightLbs and Percentage1RM are nil for the testing week.
type ExerciseDetail struct {
	ExerciseName  string `json:"exercise_name"`
	Sets          int    `json:"sets"`
	Reps          int    `json:"reps"`
	WeightLbs     *int   `json:"weight_lbs"`
	Percentage1RM *int   `json:"percentage_1rm"`
	Notes         string `json:"notes"`
}

// DayDetail is a single training session.
type DayDetail struct {
	DayNumber          int              `json:"day_number"`
	Name               string           `json:"name"`
	SuggestedDayOfWeek string           `json:"suggested_day_of_week,omitempty"`
	Exercises          []ExerciseDetail `json:"exercises"`
}

// WeekDetail is one week of sessions.
type WeekDetail struct {
	WeekNumber int         `json:"week_number"`
	Name       string      `json:"name"`
	Days       []DayDetail `json:"days"`
}

// ProgramPreview is the full generation result before persistence. The
// AlgorithmVersion is stamped from the exact constants snapshot used.
type ProgramPreview struct {
	AlgorithmVersion string                          `json:"algorithm_version"`
	InputData        ProgramInputs                   `json:"input_data"`
	CalculatedData   map[string]MovementCalculations `json:"calculated_data"`
	Weeks            []WeekDetail                    `json:"weeks"`
}

// ProgramRow is a persisted program. Immutable once stored, except through
// the explicit regenerate operation, which restamps AlgorithmVersion.
type ProgramRow struct {
	ID               uuid.UUID                       `json:"id"`
	Name             string                          `json:"name"`
	Description      string                          `json:"description,omitempty"`
	BuilderType      string                          `json:"builder_type"`
	AlgorithmVersion string                          `json:"algorithm_version"`
	DurationWeeks    int                             `json:"duration_weeks"`
	DaysPerWeek      int                             `json:"days_per_week"`
	InputData        ProgramInputs                   `json:"input_data"`
	CalculatedData   map[string]MovementCalculations `json:"calculated_data"`
	Weeks            []WeekDetail                    `json:"weeks"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

// ProgramSummary is the listing projection of a stored program.
type ProgramSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	BuilderType      string    `json:"builder_type"`
	AlgorithmVersion string    `json:"algorithm_version"`
	DurationWeeks    int       `json:"duration_weeks"`
	DaysPerWeek      int       `json:"days_per_week"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
