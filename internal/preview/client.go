// Package preview is the non-authoritative side of the program calculation
// contract. It mirrors the builder engine over a cached constants snapshot so
// a coach-facing surface can recompute instantly, and validates its derived
// values against the server before anything is persisted. The server remains
// the only source of truth: persistence requests carry raw inputs only.
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
)

// Client talks to the IronCoach server's program API.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the IronCoach server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchConstants retrieves the active calculation constants for a builder
// type. Called once at session start; the result is cached locally.
func (c *Client) FetchConstants(ctx context.Context, builderType string) (*builder.Constants, error) {
	url := fmt.Sprintf("%s/api/v1/programs/algorithms/%s/constants", c.serverURL, builderType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating constants request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching constants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("constants request failed (status %d): %s", resp.StatusCode, body)
	}

	var constants builder.Constants
	if err := json.NewDecoder(resp.Body).Decode(&constants); err != nil {
		return nil, fmt.Errorf("decoding constants: %w", err)
	}
	return &constants, nil
}

// Preview POSTs raw inputs to the server's stateless preview endpoint and
// returns the authoritative computation.
func (c *Client) Preview(ctx context.Context, inputs models.ProgramInputs) (*models.ProgramPreview, error) {
	data, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("marshaling inputs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.serverURL+"/api/v1/programs/preview", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating preview request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("preview request failed (status %d): %s", resp.StatusCode, body)
	}

	var preview models.ProgramPreview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		return nil, fmt.Errorf("decoding preview: %w", err)
	}
	return &preview, nil
}
