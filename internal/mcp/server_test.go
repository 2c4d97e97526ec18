package mcp

import (
	"context"
	"testing"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
)

// TestLocalActiveConstants verifies the in-process data source serves the
// registry's active tables.
func TestLocalActiveConstants(t *testing.T) {
	ds := &Local{Registry: builder.NewRegistry()}

	constants, err := ds.ActiveConstants(context.Background(), builder.BuilderTypeStrengthLinear5x5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if constants.Version != "v1.0.0" {
		t.Errorf("version = %q, want v1.0.0", constants.Version)
	}

	if _, err := ds.ActiveConstants(context.Background(), "yoga_flow"); err == nil {
		t.Error("expected error for unknown builder type")
	}
}

// TestLocalPreviewProgram verifies the in-process data source runs the engine
// against the active constants and stamps the version.
func TestLocalPreviewProgram(t *testing.T) {
	ds := &Local{Registry: builder.NewRegistry()}

	inputs := models.ProgramInputs{
		Movements: []models.MovementInput{
			{Name: "Squat", OneRepMax: 315, MaxRepsAt80Percent: 12, TargetWeight: 275},
		},
	}
	preview, err := ds.PreviewProgram(context.Background(), inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preview.AlgorithmVersion != "v1.0.0" {
		t.Errorf("algorithm version = %q, want v1.0.0", preview.AlgorithmVersion)
	}
	if got := preview.CalculatedData["Squat"].WeeklyJumpLbs; got != 9 {
		t.Errorf("weekly jump = %d, want 9", got)
	}
}
