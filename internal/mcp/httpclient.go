package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the IronCoach REST API. Used
// for remote MCP mode where the binary runs locally (stdio) but the server
// is elsewhere (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) ActiveConstants(ctx context.Context, builderType string) (*builder.Constants, error) {
	var constants builder.Constants
	path := fmt.Sprintf("/api/v1/programs/algorithms/%s/constants", builderType)
	if err := c.get(ctx, path, &constants); err != nil {
		return nil, err
	}
	return &constants, nil
}

func (c *HTTPClient) PreviewProgram(ctx context.Context, inputs models.ProgramInputs) (*models.ProgramPreview, error) {
	data, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("httpclient: marshal inputs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/programs/preview", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("httpclient: preview returned %d: %s", resp.StatusCode, body)
	}

	var preview models.ProgramPreview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		return nil, fmt.Errorf("httpclient: decode preview: %w", err)
	}
	return &preview, nil
}

func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.ProgramSummary, error) {
	var summaries []models.ProgramSummary
	if err := c.get(ctx, "/api/v1/programs", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *HTTPClient) GetProgram(ctx context.Context, id uuid.UUID) (*models.ProgramRow, error) {
	var row models.ProgramRow
	if err := c.get(ctx, "/api/v1/programs/"+id.String(), &row); err != nil {
		return nil, err
	}
	return &row, nil
}
