package esi

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultBaseURL is the public ESI endpoint, latest routes.
	DefaultBaseURL = "https://esi.evetech.net/latest"

	// DefaultTimeout bounds every single HTTP call.
	DefaultTimeout = 30 * time.Second

	// PageCountHeader carries the total number of pages of a paginated query.
	PageCountHeader = "X-Pages"

	// DefaultMaxPage is the last page fetched when the page count is unknown.
	DefaultMaxPage = 1000
)

// Config contains configuration for the ESI client.
type Config struct {
	// BaseURL is prepended to every request path.
	// Default: "https://esi.evetech.net/latest"
	BaseURL string

	// Timeout for a single API call.
	// Default: 30 seconds
	Timeout time.Duration

	// HTTPClient is used instead of building one from the config when set.
	// Its own timeout applies.
	HTTPClient *http.Client

	// Logger (optional)
	Logger hclog.Logger
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	return nil
}

// NewHTTPClient creates the HTTP client used for API calls. Redirects are
// followed with the net/http defaults.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
