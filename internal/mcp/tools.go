package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetConstants = mcp.NewTool("get_calculation_constants",
	mcp.WithDescription("Get the active calculation constants (weekly jump table, ramp-up table, sets/reps protocol by week) for a program builder type. These tables drive all program weight calculations."),
	mcp.WithString("builder_type", mcp.Description("Builder type identifier. Defaults to strength_linear_5x5."), mcp.Enum("strength_linear_5x5")),
)

var toolPreviewProgram = mcp.NewTool("preview_program",
	mcp.WithDescription("Generate an 8-week progressive-overload program preview from movement test results, without saving. Each movement needs name, one_rm (tested 1RM in lbs), max_reps_at_80_percent (1-20), and target_weight (coach-confirmed week-5 5x5 weight in lbs)."),
	mcp.WithString("movements", mcp.Required(), mcp.Description(`JSON array of movement test inputs, e.g. [{"name":"Squat","one_rm":315,"max_reps_at_80_percent":12,"target_weight":275}]. At most 4 movements.`)),
	mcp.WithString("builder_type", mcp.Description("Builder type identifier. Defaults to strength_linear_5x5.")),
)

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List stored programs with their builder type, algorithm version, and shape (duration, sessions per week)."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Get a stored program's full detail: raw test inputs, derived per-movement calculations, and the complete week/day/exercise structure."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Program UUID")),
)

// --- Tool handlers ---

func (h *handlers) getConstants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	builderType := req.GetString("builder_type", builder.BuilderTypeStrengthLinear5x5)

	constants, err := h.ds.ActiveConstants(ctx, builderType)
	if err != nil {
		h.log.Error("mcp get_calculation_constants", "error", err)
		return mcp.NewToolResultError("constants lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(constants)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	movementsJSON, err := req.RequireString("movements")
	if err != nil {
		return mcp.NewToolResultError("movements parameter is required"), nil
	}

	var movements []models.MovementInput
	if err := json.Unmarshal([]byte(movementsJSON), &movements); err != nil {
		return mcp.NewToolResultError("movements must be a JSON array: " + err.Error()), nil
	}

	inputs := models.ProgramInputs{
		BuilderType: req.GetString("builder_type", builder.BuilderTypeStrengthLinear5x5),
		Movements:   movements,
	}

	preview, err := h.ds.PreviewProgram(ctx, inputs)
	if err != nil {
		h.log.Error("mcp preview_program", "error", err)
		return mcp.NewToolResultError("preview failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(preview)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("id must be a valid UUID"), nil
	}

	row, err := h.ds.GetProgram(ctx, id)
	if err != nil {
		h.log.Error("mcp get_program", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
