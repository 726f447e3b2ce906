package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Client executes requests against ESI. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
}

// response is a successfully decoded API response.
type response struct {
	value  any
	header http.Header
}

// NewClient creates a new ESI client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Apply defaults
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ESI client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = cfg.NewHTTPClient()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger.Named("esi-client"),
	}, nil
}

// Run validates and executes req and returns the decoded JSON response body.
// Exactly one HTTP call is made, none if validation fails.
func (c *Client) Run(ctx context.Context, req Request) (any, error) {
	resp, err := c.do(ctx, c.logger.With("request_id", uuid.NewString()), req)
	if err != nil {
		return nil, err
	}
	return resp.value, nil
}

// do executes req and returns the decoded body along with the response
// headers.
func (c *Client) do(ctx context.Context, logger hclog.Logger, req Request) (*response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query, body, err := req.encodeOptions()
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + req.Path() + query

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Verb()), endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Debug("sending request", "method", req.Verb(), "url", endpoint)
	startTime := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", "method", req.Verb(), "url", endpoint, "error", err)
		return nil, transportError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		logger.Warn("failed to read response", "method", req.Verb(), "url", endpoint, "error", err)
		return nil, transportError(err)
	}

	logger.Debug("received response",
		"status", httpResp.StatusCode,
		"bytes", len(respBody),
		"duration", time.Since(startTime),
	)

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		var value any
		if err := json.Unmarshal(respBody, &value); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return &response{value: value, header: httpResp.Header}, nil

	case httpResp.StatusCode == http.StatusNotFound:
		var apiErr struct {
			Error *string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != nil {
			return nil, &UpstreamError{StatusCode: httpResp.StatusCode, Message: *apiErr.Error}
		}
		return nil, &HTTPStatusError{StatusCode: httpResp.StatusCode}

	default:
		return nil, &HTTPStatusError{StatusCode: httpResp.StatusCode}
	}
}

// transportError classifies a failure to obtain a response.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Err: err}
	}
	return &RequestError{Err: err}
}
