package esi

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Verb is the HTTP method of a request.
type Verb string

const (
	Get    Verb = http.MethodGet
	Post   Verb = http.MethodPost
	Put    Verb = http.MethodPut
	Delete Verb = http.MethodDelete
)

// ParseVerb parses a case-insensitive HTTP method name.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(strings.ToUpper(strings.TrimSpace(s))); v {
	case Get, Post, Put, Delete:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported verb %q", s)
	}
}

// Location is where an option is serialized.
type Location string

const (
	InQuery Location = "query"
	InBody  Location = "body"
)

// Requirement tells whether an option must be supplied.
type Requirement string

const (
	Optional Requirement = "optional"
	Required Requirement = "required"
)

// Option declares a single option accepted by an endpoint. The zero value is
// an optional query option.
type Option struct {
	In          Location
	Requirement Requirement
}

// Required reports whether the option must be supplied.
func (o Option) Required() bool {
	return o.Requirement == Required
}

// location returns the effective location of the option.
func (o Option) location() Location {
	if o.In == "" {
		return InQuery
	}
	return o.In
}

// Schema maps option names to their declaration.
type Schema map[string]Option

// PageOption is the option whose presence in a schema marks the endpoint as
// paginated.
const PageOption = "page"

// Reserved options accepted by every endpoint.
const (
	DatasourceOption = "datasource"
	UserAgentOption  = "user_agent"
)

var reservedOptions = Schema{
	DatasourceOption: {In: InQuery, Requirement: Optional},
	UserAgentOption:  {In: InQuery, Requirement: Optional},
}

// lookup returns the declaration for name, falling back to the reserved
// options.
func (s Schema) lookup(name string) (Option, bool) {
	if o, ok := s[name]; ok {
		return o, true
	}
	o, ok := reservedOptions[name]
	return o, ok
}

// Request describes a single API call. Requests are immutable: Options returns
// a new Request and never modifies the receiver.
type Request struct {
	verb    Verb
	path    string
	schema  Schema
	options map[string]any
}

// NewRequest creates a request for the given verb and interpolated path,
// accepting the options declared by schema.
func NewRequest(verb Verb, path string, schema Schema) Request {
	return Request{
		verb:    verb,
		path:    path,
		schema:  maps.Clone(schema),
		options: map[string]any{},
	}
}

// Options returns a copy of the request with opts merged into its options.
// Values in opts replace values already present under the same key.
func (r Request) Options(opts map[string]any) Request {
	merged := make(map[string]any, len(r.options)+len(opts))
	maps.Copy(merged, r.options)
	maps.Copy(merged, opts)
	r.options = merged
	return r
}

// Verb returns the HTTP method of the request.
func (r Request) Verb() Verb {
	return r.verb
}

// Path returns the request path relative to the base URL.
func (r Request) Path() string {
	return r.path
}

// Schema returns a copy of the option schema.
func (r Request) Schema() Schema {
	return maps.Clone(r.schema)
}

// Option returns the value supplied for name.
func (r Request) Option(name string) (any, bool) {
	v, ok := r.options[name]
	return v, ok
}

// OptionNames returns the names of the supplied options, sorted.
func (r Request) OptionNames() []string {
	return slices.Sorted(maps.Keys(r.options))
}

// Paginated reports whether the endpoint declares a page option.
func (r Request) Paginated() bool {
	_, ok := r.schema[PageOption]
	return ok
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s", r.verb, r.path)
}
