package builder

import (
	"fmt"

	"github.com/claude/ironcoach/internal/models"
)

// MaxMovements is the most movements a single program can train.
const MaxMovements = 4

// Program shape defaults applied when the request leaves them zero.
const (
	DefaultDurationWeeks = 8
	DefaultDaysPerWeek   = 4
)

// ValidationError reports a rejected input field. Recoverable: the caller
// fixes the input and resubmits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// ValidateInputs checks a generation request before any arithmetic runs.
// The engine trusts inputs past this boundary.
func ValidateInputs(inputs *models.ProgramInputs) error {
	if len(inputs.Movements) == 0 {
		return &ValidationError{Field: "movements", Reason: "at least one movement is required"}
	}
	if len(inputs.Movements) > MaxMovements {
		return &ValidationError{
			Field:  "movements",
			Reason: fmt.Sprintf("at most %d movements allowed, got %d", MaxMovements, len(inputs.Movements)),
		}
	}

	seen := make(map[string]bool, len(inputs.Movements))
	for i, m := range inputs.Movements {
		field := fmt.Sprintf("movements[%d]", i)
		if m.Name == "" {
			return &ValidationError{Field: field + ".name", Reason: "name is required"}
		}
		if seen[m.Name] {
			return &ValidationError{Field: field + ".name", Reason: fmt.Sprintf("duplicate movement %q", m.Name)}
		}
		seen[m.Name] = true
		if m.OneRepMax <= 0 {
			return &ValidationError{Field: field + ".one_rm", Reason: "must be positive"}
		}
		if m.MaxRepsAt80Percent < 1 || m.MaxRepsAt80Percent > 20 {
			return &ValidationError{
				Field:  field + ".max_reps_at_80_percent",
				Reason: fmt.Sprintf("must be between 1 and 20, got %d", m.MaxRepsAt80Percent),
			}
		}
		if m.TargetWeight <= 0 {
			return &ValidationError{Field: field + ".target_weight", Reason: "must be positive"}
		}
	}
	return nil
}

// applyDefaults fills the program shape fields on a copy of the request.
func applyDefaults(inputs models.ProgramInputs) models.ProgramInputs {
	if inputs.BuilderType == "" {
		inputs.BuilderType = BuilderTypeStrengthLinear5x5
	}
	if inputs.DurationWeeks == 0 {
		inputs.DurationWeeks = DefaultDurationWeeks
	}
	if inputs.DaysPerWeek == 0 {
		inputs.DaysPerWeek = DefaultDaysPerWeek
	}
	return inputs
}
