// Package hfapi is a minimal Hugging Face Hub client that reports model metadata
// (parameter totals and repository files) for the resolver.
package hfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// DefaultBaseURL is the public Hugging Face Hub.
const DefaultBaseURL = "https://huggingface.co"

// maxResponseBytes bounds the model info payload we are willing to decode.
const maxResponseBytes = 32 << 20

// ModelInfo is the subset of GET /api/models/{id} we decode.
type ModelInfo struct {
	ID          string        `json:"id"`
	ModelID     string        `json:"modelId"`
	Tags        []string      `json:"tags"`
	Safetensors *ParamSummary `json:"safetensors,omitempty"`
	GGUF        *ParamSummary `json:"gguf,omitempty"`
	Siblings    []Sibling     `json:"siblings"`
}

// ParamSummary carries the reported parameter total for a weight format.
type ParamSummary struct {
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Total      float64            `json:"total"`
}

// Sibling is one file in the model repository.
type Sibling struct {
	RFilename string `json:"rfilename"`
}

// Client talks to the Hugging Face REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets a bearer token for gated or private models.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient creates a client against DefaultBaseURL.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBaseURL sets a new base URL (useful for testing).
func (c *Client) SetBaseURL(u string) {
	if u == "" {
		u = DefaultBaseURL
	}
	c.baseURL = strings.TrimSuffix(u, "/")
}

// GetModel fetches raw model info for repoID (e.g. "meta-llama/Llama-2-7b-hf").
func (c *Client) GetModel(ctx context.Context, repoID string) (ModelInfo, error) {
	var info ModelInfo
	repoID = strings.Trim(strings.TrimSpace(repoID), "/")
	if repoID == "" {
		return info, fmt.Errorf("empty model id")
	}
	endpoint := c.baseURL + "/api/models/" + escapeRepoID(repoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return info, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return info, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("model", repoID).Int("status", resp.StatusCode).Msg("hf model info")
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return info, &StatusError{Model: repoID, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return info, fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return info, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return info, nil
}

// FetchModel implements resolver.Provider.
func (c *Client) FetchModel(ctx context.Context, id string) (types.ModelMetadata, error) {
	info, err := c.GetModel(ctx, id)
	if err != nil {
		return types.ModelMetadata{}, err
	}
	return info.Metadata(), nil
}

// Metadata converts registry info into provider-neutral metadata. safetensors
// totals take precedence over gguf totals; non-positive totals are dropped.
func (m ModelInfo) Metadata() types.ModelMetadata {
	var md types.ModelMetadata
	for _, s := range []*ParamSummary{m.Safetensors, m.GGUF} {
		if s != nil && s.Total > 0 {
			total := s.Total
			md.Parameters = &total
			break
		}
	}
	for _, sib := range m.Siblings {
		if sib.RFilename == "" {
			continue
		}
		md.Files = append(md.Files, types.NewFileDescriptor(sib.RFilename))
	}
	return md
}

// StatusError reports a non-200 response from the Hub.
type StatusError struct {
	Model string
	Code  int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch model %s. Status code: %d", e.Model, e.Code)
}

func escapeRepoID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
