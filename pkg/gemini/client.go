// Package gemini is a thin client for the Google Generative Language API.
// It sends a prompt and extracts a single text candidate from the response,
// degrading to a fallback string when no candidate comes back.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"
const defaultModel = "gemini-1.5-flash"

// FallbackText is returned when the upstream produced no usable candidate.
const FallbackText = "No additional info available."

// ErrNoAPIKey indicates the client was constructed without a credential.
var ErrNoAPIKey = errors.New("gemini: api key not configured")

// Client calls the generateContent endpoint of a single model.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient returns a client using the default model and endpoint. The key
// may be empty; calls will then fail with ErrNoAPIKey.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
	}
}

// NewClientWithHTTP is NewClient with an injected http.Client and base URL,
// for tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      defaultModel,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends the prompt and returns the first text candidate. When
// the response body parses but holds no candidate (including upstream error
// bodies), it returns FallbackText rather than an error; only transport and
// decode failures are surfaced.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decoding response: %w", err)
	}
	return extractText(out), nil
}

// extractText pulls the first candidate's first part, falling back to
// FallbackText when the structure is incomplete.
func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return FallbackText
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return FallbackText
	}
	return parts[0].Text
}
