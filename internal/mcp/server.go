package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronCoach strength program server. Inspect calculation constants, preview progressive-overload programs from movement test results, and browse stored programs. Previews are stateless; persisted programs are immutable and version-stamped."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetConstants, Handler: h.getConstants},
		server.ServerTool{Tool: toolPreviewProgram, Handler: h.previewProgram},
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActiveConstants, Handler: h.activeConstants},
		server.ServerResource{Resource: resProgramCatalog, Handler: h.programCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveConstants = mcp.NewResource(
	"ironcoach://active_constants",
	"Active Calculation Constants",
	mcp.WithResourceDescription("The currently active lookup tables (weekly jump, ramp-up, weekly protocol) for the strength_linear_5x5 builder"),
	mcp.WithMIMEType("application/json"),
)

var resProgramCatalog = mcp.NewResource(
	"ironcoach://program_catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All stored programs with builder type, algorithm version, and shape"),
	mcp.WithMIMEType("application/json"),
)
