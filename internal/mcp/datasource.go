package mcp

import (
	"context"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
	"github.com/claude/ironcoach/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the program API for MCP tools. Local (in-process
// registry + database) and HTTPClient (remote via REST API) both satisfy it.
type DataSource interface {
	ActiveConstants(ctx context.Context, builderType string) (*builder.Constants, error)
	PreviewProgram(ctx context.Context, inputs models.ProgramInputs) (*models.ProgramPreview, error)
	ListPrograms(ctx context.Context) ([]models.ProgramSummary, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.ProgramRow, error)
}

// Local serves MCP tools straight from the in-process registry and database.
type Local struct {
	Registry *builder.Registry
	DB       *storage.DB
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func (l *Local) ActiveConstants(ctx context.Context, builderType string) (*builder.Constants, error) {
	return l.Registry.Active(builderType)
}

func (l *Local) PreviewProgram(ctx context.Context, inputs models.ProgramInputs) (*models.ProgramPreview, error) {
	builderType := inputs.BuilderType
	if builderType == "" {
		builderType = builder.BuilderTypeStrengthLinear5x5
	}
	constants, err := l.Registry.Active(builderType)
	if err != nil {
		return nil, err
	}
	return builder.Generate(inputs, constants)
}

func (l *Local) ListPrograms(ctx context.Context) ([]models.ProgramSummary, error) {
	return l.DB.ListPrograms(ctx)
}

func (l *Local) GetProgram(ctx context.Context, id uuid.UUID) (*models.ProgramRow, error) {
	return l.DB.GetProgram(ctx, id)
}
