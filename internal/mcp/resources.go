package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) activeConstants(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	constants, err := h.ds.ActiveConstants(ctx, builder.BuilderTypeStrengthLinear5x5)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, constants)
}

func (h *handlers) programCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summaries, err := h.ds.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, summaries)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
