package preview

import (
	"testing"

	"github.com/claude/ironcoach/internal/models"
)

func calc(name string, jumpPct, jumpLbs, rampPct, rampLbs int) models.MovementCalculations {
	return models.MovementCalculations{
		Name:              name,
		EightyPercentLbs:  252,
		WeeklyJumpPercent: jumpPct,
		WeeklyJumpLbs:     jumpLbs,
		RampUpPercent:     rampPct,
		RampUpBaseLbs:     rampLbs,
	}
}

// TestCompareCalculationsAgreement verifies identical maps produce no
// discrepancies.
func TestCompareCalculationsAgreement(t *testing.T) {
	local := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 3, 9, 62, 195),
	}
	authoritative := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 3, 9, 62, 195),
	}
	if got := CompareCalculations(local, authoritative); len(got) != 0 {
		t.Errorf("unexpected discrepancies: %v", got)
	}
}

// TestCompareCalculationsMismatch verifies each diverging field is reported
// with both values, never silently resolved.
func TestCompareCalculationsMismatch(t *testing.T) {
	local := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 3, 9, 62, 195),
	}
	authoritative := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 4, 13, 62, 195),
	}

	got := CompareCalculations(local, authoritative)
	if len(got) != 2 {
		t.Fatalf("discrepancies = %d, want 2: %v", len(got), got)
	}
	if got[0].Field != "weekly_jump_percent" || got[0].Local != 3 || got[0].Authoritative != 4 {
		t.Errorf("first discrepancy = %+v", got[0])
	}
	if got[1].Field != "weekly_jump_lbs" || got[1].Local != 9 || got[1].Authoritative != 13 {
		t.Errorf("second discrepancy = %+v", got[1])
	}
}

// TestCompareCalculationsMissingMovement verifies one-sided movements are
// surfaced rather than skipped.
func TestCompareCalculationsMissingMovement(t *testing.T) {
	local := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 3, 9, 62, 195),
	}
	authoritative := map[string]models.MovementCalculations{
		"Squat": calc("Squat", 3, 9, 62, 195),
		"Bench": calc("Bench", 4, 9, 60, 135),
	}

	got := CompareCalculations(local, authoritative)
	if len(got) == 0 {
		t.Fatal("expected discrepancies for movement missing locally")
	}
	for _, d := range got {
		if d.Movement != "Bench" {
			t.Errorf("unexpected movement in discrepancy: %+v", d)
		}
		if d.Local != 0 {
			t.Errorf("missing local side should compare as zero: %+v", d)
		}
	}
}

// TestValidationResultClean covers the fallback taint: matching numbers with
// a suffixed local version are not clean.
func TestValidationResultClean(t *testing.T) {
	r := &ValidationResult{
		LocalVersion:         "v1.0.0" + FallbackVersionSuffix,
		AuthoritativeVersion: "v1.0.0",
	}
	if r.Clean() {
		t.Error("fallback-tainted result must not be clean")
	}

	r = &ValidationResult{LocalVersion: "v1.0.0", AuthoritativeVersion: "v1.0.0"}
	if !r.Clean() {
		t.Error("matching versions with no discrepancies should be clean")
	}

	r = &ValidationResult{
		LocalVersion:         "v1.0.0",
		AuthoritativeVersion: "v1.0.0",
		Discrepancies:        []Discrepancy{{Movement: "Squat", Field: "weekly_jump_lbs", Local: 9, Authoritative: 13}},
	}
	if r.Clean() {
		t.Error("result with discrepancies must not be clean")
	}
}
