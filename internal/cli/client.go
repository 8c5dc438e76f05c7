package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// JSONPatchContentType is the media type of RFC 6902 documents
const JSONPatchContentType = "application/json-patch+json"

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client that logs each exchange at debug level
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FieldError is a single validation failure reported by the API
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an error response from the API
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	s := fmt.Sprintf("%s (%s)", e.Message, e.Code)
	for _, f := range e.Fields {
		s += fmt.Sprintf("\n  %s: %s", f.Field, f.Message)
	}
	return s
}

// Do performs an HTTP request with a JSON body and returns the response headers
func (c *Client) Do(method, path string, body, result any) (http.Header, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.DoRaw(method, path, "application/json", data, result)
}

// DoRaw performs an HTTP request with a pre-encoded body
func (c *Client) DoRaw(method, path, contentType string, body []byte, result any) (http.Header, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return resp.Header, fmt.Errorf("%s", errResp.Error.String())
		}
		return resp.Header, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.Header, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.Header, nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	_, err := c.Do(http.MethodGet, path, nil, result)
	return err
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	_, err := c.Do(http.MethodPost, path, body, result)
	return err
}

// Put performs a PUT request and returns the response headers
func (c *Client) Put(path string, body, result any) (http.Header, error) {
	return c.Do(http.MethodPut, path, body, result)
}

// Patch sends a JSON-Patch document
func (c *Client) Patch(path string, patch []byte) error {
	_, err := c.DoRaw(http.MethodPatch, path, JSONPatchContentType, patch, nil)
	return err
}

// Delete performs a DELETE request
func (c *Client) Delete(path string) error {
	_, err := c.Do(http.MethodDelete, path, nil, nil)
	return err
}
