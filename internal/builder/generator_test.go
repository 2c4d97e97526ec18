package builder

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/claude/ironcoach/internal/models"
)

func testInputs() models.ProgramInputs {
	return models.ProgramInputs{
		BuilderType: BuilderTypeStrengthLinear5x5,
		Movements: []models.MovementInput{
			{Name: "Squat", OneRepMax: 315, MaxRepsAt80Percent: 12, TargetWeight: 275},
			{Name: "Bench Press", OneRepMax: 225, MaxRepsAt80Percent: 10, TargetWeight: 185},
		},
	}
}

// TestGenerateConcreteScenario verifies the documented 315/12/275 squat
// scenario end to end: 80% weight, table-driven jump, week-by-week heavy
// weights and protocols.
func TestGenerateConcreteScenario(t *testing.T) {
	preview, err := Generate(testInputs(), DefaultConstants())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc, ok := preview.CalculatedData["Squat"]
	if !ok {
		t.Fatal("missing calculated data for Squat")
	}
	if calc.EightyPercentLbs != 252 {
		t.Errorf("eighty percent = %d, want 252", calc.EightyPercentLbs)
	}
	if calc.WeeklyJumpPercent != 3 {
		t.Errorf("weekly jump percent = %d, want 3 (table entry for 12 reps)", calc.WeeklyJumpPercent)
	}
	if calc.WeeklyJumpLbs != 9 {
		t.Errorf("weekly jump lbs = %d, want 9 (round(315*3/100))", calc.WeeklyJumpLbs)
	}
	if calc.RampUpPercent != 62 {
		t.Errorf("ramp up percent = %d, want 62", calc.RampUpPercent)
	}
	if calc.RampUpBaseLbs != 195 {
		t.Errorf("ramp up base = %d, want 195 (round(315*62/100))", calc.RampUpBaseLbs)
	}

	wantHeavy := map[int]int{1: 239, 2: 248, 3: 257, 4: 266, 5: 275, 6: 284, 7: 293}
	for week, want := range wantHeavy {
		got := heavyWeightFor(t, preview, week, "SQUAT")
		if got != want {
			t.Errorf("week %d heavy weight = %d, want %d", week, got, want)
		}
	}

	// Protocols: 5x5 weeks 1-5, 3x3 week 6, 2x2 week 7.
	ex := firstExercise(t, preview, 6, 1)
	if ex.Sets != 3 || ex.Reps != 3 {
		t.Errorf("week 6 protocol = %dx%d, want 3x3", ex.Sets, ex.Reps)
	}
	ex = firstExercise(t, preview, 7, 1)
	if ex.Sets != 2 || ex.Reps != 2 {
		t.Errorf("week 7 protocol = %dx%d, want 2x2", ex.Sets, ex.Reps)
	}
}

// TestGenerateDeterminism generates random valid inputs twice against the
// same constants and asserts byte-identical JSON output. This is the central
// correctness property of the whole subsystem.
func TestGenerateDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	constants := DefaultConstants()

	for i := 0; i < 50; i++ {
		inputs := models.ProgramInputs{
			BuilderType: BuilderTypeStrengthLinear5x5,
			Movements: []models.MovementInput{{
				Name:               "Deadlift",
				OneRepMax:          float64(100 + rng.Intn(500)),
				MaxRepsAt80Percent: 1 + rng.Intn(20),
				TargetWeight:       float64(80 + rng.Intn(400)),
			}},
		}

		first, err := Generate(inputs, constants)
		if err != nil {
			t.Fatalf("generate #%d: %v", i, err)
		}
		second, err := Generate(inputs, constants)
		if err != nil {
			t.Fatalf("regenerate #%d: %v", i, err)
		}

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			t.Fatalf("outputs differ for inputs %+v", inputs.Movements[0])
		}
	}
}

// TestWeek5Anchor verifies the week-5 heavy weight equals the coach-confirmed
// target weight exactly, never a value derived from the ramp-up base.
func TestWeek5Anchor(t *testing.T) {
	cases := []models.MovementInput{
		{Name: "Squat", OneRepMax: 315, MaxRepsAt80Percent: 12, TargetWeight: 275},
		{Name: "Press", OneRepMax: 135, MaxRepsAt80Percent: 20, TargetWeight: 105},
		{Name: "Row", OneRepMax: 200, MaxRepsAt80Percent: 1, TargetWeight: 180},
	}
	for _, m := range cases {
		inputs := models.ProgramInputs{Movements: []models.MovementInput{m}}
		preview, err := Generate(inputs, DefaultConstants())
		if err != nil {
			t.Fatalf("%s: %v", m.Name, err)
		}
		got := heavyWeightFor(t, preview, 5, "")
		if got != int(m.TargetWeight) {
			t.Errorf("%s: week 5 heavy = %d, want %d", m.Name, got, int(m.TargetWeight))
		}
	}
}

// TestLightSessionRatio verifies light sessions run at round(heavy*0.8) in
// every non-testing week, under the shared rounding rule.
func TestLightSessionRatio(t *testing.T) {
	preview, err := Generate(testInputs(), DefaultConstants())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, week := range preview.Weeks {
		if week.WeekNumber == 8 {
			continue
		}
		if len(week.Days) != 4 {
			t.Fatalf("week %d has %d days, want 4", week.WeekNumber, len(week.Days))
		}
		for pair := 0; pair < 2; pair++ {
			heavy := week.Days[pair*2].Exercises[0]
			light := week.Days[pair*2+1].Exercises[0]
			if heavy.WeightLbs == nil || light.WeightLbs == nil {
				t.Fatalf("week %d: missing weights", week.WeekNumber)
			}
			want := Round(float64(*heavy.WeightLbs) * 0.8)
			if *light.WeightLbs != want {
				t.Errorf("week %d day %d: light = %d, want %d (80%% of %d)",
					week.WeekNumber, pair*2+2, *light.WeightLbs, want, *heavy.WeightLbs)
			}
		}
	}
}

// TestVersionStamping verifies the generated program records the version of
// the constants snapshot passed in, even after the registry moves on.
func TestVersionStamping(t *testing.T) {
	reg := NewRegistry()
	snapshot, err := reg.Active(BuilderTypeStrengthLinear5x5)
	if err != nil {
		t.Fatal(err)
	}

	next := DefaultConstants()
	next.Version = "v1.1.0"
	if err := reg.Publish(next); err != nil {
		t.Fatalf("publish: %v", err)
	}

	preview, err := Generate(testInputs(), snapshot)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if preview.AlgorithmVersion != "v1.0.0" {
		t.Errorf("algorithm version = %q, want v1.0.0 (pre-swap snapshot)", preview.AlgorithmVersion)
	}

	active, err := reg.Active(BuilderTypeStrengthLinear5x5)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := Generate(testInputs(), active)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if fresh.AlgorithmVersion != "v1.1.0" {
		t.Errorf("algorithm version = %q, want v1.1.0", fresh.AlgorithmVersion)
	}
}

// TestTestingWeek verifies week 8 is a single 1RM test day with no
// prescribed weight and 100% intensity markers.
func TestTestingWeek(t *testing.T) {
	preview, err := Generate(testInputs(), DefaultConstants())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	week8 := preview.Weeks[7]
	if week8.Name != "Testing Week" {
		t.Errorf("week 8 name = %q, want %q", week8.Name, "Testing Week")
	}
	if len(week8.Days) != 1 {
		t.Fatalf("week 8 has %d days, want 1", len(week8.Days))
	}
	for _, ex := range week8.Days[0].Exercises {
		if ex.WeightLbs != nil {
			t.Errorf("%s: test day has prescribed weight %d", ex.ExerciseName, *ex.WeightLbs)
		}
		if ex.Percentage1RM == nil || *ex.Percentage1RM != 100 {
			t.Errorf("%s: test day percentage != 100", ex.ExerciseName)
		}
		if ex.Sets != 1 || ex.Reps != 1 {
			t.Errorf("%s: test day protocol = %dx%d, want 1x1", ex.ExerciseName, ex.Sets, ex.Reps)
		}
	}
}

// TestDegenerateInputsStillGenerate verifies the engine returns computed
// output for physically implausible but mathematically valid inputs instead
// of rejecting them; sanity checks are a presentation concern.
func TestDegenerateInputsStillGenerate(t *testing.T) {
	// Tiny target with a large jump drives early weeks negative.
	inputs := models.ProgramInputs{
		Movements: []models.MovementInput{
			{Name: "Curl", OneRepMax: 500, MaxRepsAt80Percent: 1, TargetWeight: 20},
		},
	}
	preview, err := Generate(inputs, DefaultConstants())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preview.Weeks) != 8 {
		t.Fatalf("weeks = %d, want 8", len(preview.Weeks))
	}
	// Week 1 heavy = 20 - 4*25 = -80: returned as computed, with no
	// percentage marker.
	got := heavyWeightFor(t, preview, 1, "CURL")
	if got != -80 {
		t.Errorf("week 1 heavy = %d, want -80", got)
	}
	if ex := firstExercise(t, preview, 1, 1); ex.Percentage1RM != nil {
		t.Errorf("nonpositive weight should carry no percentage, got %d", *ex.Percentage1RM)
	}
}

// TestValidationErrors verifies bad inputs are rejected before computation.
func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ProgramInputs)
	}{
		{"no movements", func(in *models.ProgramInputs) { in.Movements = nil }},
		{"too many movements", func(in *models.ProgramInputs) {
			in.Movements = append(in.Movements,
				models.MovementInput{Name: "A", OneRepMax: 100, MaxRepsAt80Percent: 5, TargetWeight: 90},
				models.MovementInput{Name: "B", OneRepMax: 100, MaxRepsAt80Percent: 5, TargetWeight: 90},
				models.MovementInput{Name: "C", OneRepMax: 100, MaxRepsAt80Percent: 5, TargetWeight: 90},
			)
		}},
		{"missing name", func(in *models.ProgramInputs) { in.Movements[0].Name = "" }},
		{"duplicate name", func(in *models.ProgramInputs) { in.Movements[1].Name = in.Movements[0].Name }},
		{"zero one rm", func(in *models.ProgramInputs) { in.Movements[0].OneRepMax = 0 }},
		{"negative one rm", func(in *models.ProgramInputs) { in.Movements[0].OneRepMax = -315 }},
		{"reps too low", func(in *models.ProgramInputs) { in.Movements[0].MaxRepsAt80Percent = 0 }},
		{"reps too high", func(in *models.ProgramInputs) { in.Movements[0].MaxRepsAt80Percent = 21 }},
		{"zero target", func(in *models.ProgramInputs) { in.Movements[0].TargetWeight = 0 }},
	}

	for _, tc := range cases {
		inputs := testInputs()
		tc.mutate(&inputs)
		if _, err := Generate(inputs, DefaultConstants()); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

// TestBuilderTypeMismatch verifies constants for a different builder type
// are rejected rather than silently applied.
func TestBuilderTypeMismatch(t *testing.T) {
	inputs := testInputs()
	inputs.BuilderType = "hypertrophy_block"
	if _, err := Generate(inputs, DefaultConstants()); err == nil {
		t.Error("expected unsupported builder type error")
	}
}

func heavyWeightFor(t *testing.T, preview *models.ProgramPreview, weekNum int, exerciseName string) int {
	t.Helper()
	for _, week := range preview.Weeks {
		if week.WeekNumber != weekNum {
			continue
		}
		for _, ex := range week.Days[0].Exercises {
			if exerciseName == "" || ex.ExerciseName == exerciseName {
				if ex.WeightLbs == nil {
					t.Fatalf("week %d %s: no weight", weekNum, ex.ExerciseName)
				}
				return *ex.WeightLbs
			}
		}
	}
	t.Fatalf("week %d exercise %q not found", weekNum, exerciseName)
	return 0
}

func firstExercise(t *testing.T, preview *models.ProgramPreview, weekNum, dayNum int) models.ExerciseDetail {
	t.Helper()
	for _, week := range preview.Weeks {
		if week.WeekNumber == weekNum {
			return week.Days[dayNum-1].Exercises[0]
		}
	}
	t.Fatalf("week %d not found", weekNum)
	return models.ExerciseDetail{}
}
