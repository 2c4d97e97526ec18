package preview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
)

// FallbackVersionSuffix marks output computed from compiled-in tables rather
// than a server snapshot. A later validation pass can detect and warn about
// possible divergence.
const FallbackVersionSuffix = "-fallback"

// Mirror runs the engine locally against a cached constants snapshot. It is
// advisory: everything it produces is a preview until the server recomputes
// at save time.
type Mirror struct {
	client *Client
	cache  *Cache
	log    *slog.Logger
}

// NewMirror creates a mirror backed by the given server client and snapshot
// cache. Either may be nil: without a client the mirror works offline from
// the cache, and without a cache it falls back to compiled-in tables.
func NewMirror(client *Client, cache *Cache, log *slog.Logger) *Mirror {
	return &Mirror{client: client, cache: cache, log: log}
}

// Constants resolves the snapshot to compute with: server first (refreshing
// the cache), then cache, then the compiled-in tables with the version
// flagged by the fallback suffix.
func (m *Mirror) Constants(ctx context.Context, builderType string) (*builder.Constants, error) {
	if m.client != nil {
		constants, err := m.client.FetchConstants(ctx, builderType)
		if err == nil {
			if m.cache != nil {
				if cacheErr := m.cache.Put(constants); cacheErr != nil {
					m.log.Warn("caching constants snapshot failed", "error", cacheErr)
				}
			}
			return constants, nil
		}
		m.log.Warn("constants fetch failed, trying cache", "error", err)
	}

	if m.cache != nil {
		constants, err := m.cache.Get(builderType)
		if err != nil {
			m.log.Warn("constants cache read failed", "error", err)
		} else if constants != nil {
			return constants, nil
		}
	}

	if builderType != builder.BuilderTypeStrengthLinear5x5 {
		return nil, fmt.Errorf("%w: %s (no snapshot and no fallback)", builder.ErrUnsupportedBuilderType, builderType)
	}

	// Degraded mode: compiled-in tables. The suffixed version taints every
	// downstream preview so it can never be mistaken for a validated one.
	constants := builder.DefaultConstants()
	constants.Version += FallbackVersionSuffix
	m.log.Warn("using compiled-in fallback constants", "version", constants.Version)
	return constants, nil
}

// Generate computes a local preview from the best available snapshot.
func (m *Mirror) Generate(ctx context.Context, inputs models.ProgramInputs) (*models.ProgramPreview, error) {
	builderType := inputs.BuilderType
	if builderType == "" {
		builderType = builder.BuilderTypeStrengthLinear5x5
	}
	constants, err := m.Constants(ctx, builderType)
	if err != nil {
		return nil, err
	}
	// The engine matches on builder type; strip nothing, the snapshot's
	// (possibly suffixed) version flows into the output as-is.
	inputs.BuilderType = constants.BuilderType
	return builder.Generate(inputs, constants)
}

// Validate computes locally, asks the server for the authoritative preview,
// and compares the derived per-movement values field by field. Mismatches are
// returned for a human to inspect, never resolved silently; the authoritative
// result always wins regardless.
func (m *Mirror) Validate(ctx context.Context, inputs models.ProgramInputs) (*ValidationResult, error) {
	if m.client == nil {
		return nil, fmt.Errorf("validate: no server client configured")
	}

	local, err := m.Generate(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("local preview: %w", err)
	}
	authoritative, err := m.client.Preview(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("authoritative preview: %w", err)
	}

	return &ValidationResult{
		LocalVersion:         local.AlgorithmVersion,
		AuthoritativeVersion: authoritative.AlgorithmVersion,
		Authoritative:        authoritative,
		Discrepancies:        CompareCalculations(local.CalculatedData, authoritative.CalculatedData),
	}, nil
}
