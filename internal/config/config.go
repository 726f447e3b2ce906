package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/ajaxify/esi/pkg/esi"
)

// Config is the CLI configuration, read from an HCL file.
//
// Example configuration:
//
//	base_url   = "https://esi.evetech.net/latest"
//	timeout    = "30s"
//	datasource = "tranquility"
//	user_agent = env("ESI_USER_AGENT")
//	log_level  = "info"
//	endpoints  = "extra-endpoints.yaml"
type Config struct {
	// BaseURL is prepended to every request path.
	BaseURL string `hcl:"base_url,optional" json:"base_url"`

	// Timeout for a single API call, as a Go duration string.
	Timeout string `hcl:"timeout,optional" json:"timeout"`

	// Datasource is sent with every request when set: "tranquility" or
	// "singularity".
	Datasource string `hcl:"datasource,optional" json:"datasource"`

	// UserAgent is sent with every request when set.
	UserAgent string `hcl:"user_agent,optional" json:"user_agent"`

	// LogLevel is one of trace, debug, info, warn, error, off.
	LogLevel string `hcl:"log_level,optional" json:"log_level"`

	// Endpoints is an optional YAML endpoint table merged over the built-in
	// one.
	Endpoints string `hcl:"endpoints,optional" json:"endpoints"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  esi.DefaultBaseURL,
		Timeout:  esi.DefaultTimeout.String(),
		LogLevel: "warn",
	}
}

// envFunc exposes environment variables to configuration files as env("NAME").
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// Load parses the configuration file at path on fs. Unset fields take their
// default value. An empty path returns the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var fileCfg Config
	evalCtx := &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
	if err := hclsimple.Decode(path, src, evalCtx, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	// Set defaults
	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if fileCfg.Timeout != "" {
		cfg.Timeout = fileCfg.Timeout
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	cfg.Datasource = fileCfg.Datasource
	cfg.UserAgent = fileCfg.UserAgent
	cfg.Endpoints = fileCfg.Endpoints

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(isHTTPURL)),
		validation.Field(&c.Timeout, validation.Required, validation.By(isPositiveDuration)),
		validation.Field(&c.Datasource, validation.In("tranquility", "singularity")),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "off")),
	)
}

func isHTTPURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme")
	}
	return nil
}

func isPositiveDuration(value interface{}) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("must be a duration such as \"30s\"")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// TimeoutDuration returns the parsed timeout, the client default when unset
// or invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return esi.DefaultTimeout
	}
	return d
}

// Level returns the configured log level.
func (c *Config) Level() hclog.Level {
	if c.LogLevel == "" {
		return hclog.Warn
	}
	return hclog.LevelFromString(c.LogLevel)
}

// ClientConfig returns the ESI client configuration.
func (c *Config) ClientConfig(logger hclog.Logger) *esi.Config {
	return &esi.Config{
		BaseURL: c.BaseURL,
		Timeout: c.TimeoutDuration(),
		Logger:  logger,
	}
}

// RequestOptions returns the options added to every request.
func (c *Config) RequestOptions() map[string]any {
	opts := map[string]any{}
	if c.Datasource != "" {
		opts[esi.DatasourceOption] = c.Datasource
	}
	if c.UserAgent != "" {
		opts[esi.UserAgentOption] = c.UserAgent
	}
	return opts
}
