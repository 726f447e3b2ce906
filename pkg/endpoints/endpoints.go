// Package endpoints holds the static description of the ESI endpoints: verb,
// path template and accepted options. Endpoints are data, not code; a table is
// loaded from YAML and turned into esi.Request values on demand.
package endpoints

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ajaxify/esi/pkg/esi"
)

//go:embed endpoints.yaml
var defaultTableYAML []byte

var placeholderRE = regexp.MustCompile(`\{([^{}/]+)\}`)

// Endpoint describes a single API endpoint.
type Endpoint struct {
	Name        string
	Verb        esi.Verb
	Path        string
	Description string
	Options     esi.Schema
}

// PathParams returns the names of the path placeholders, in order.
func (e Endpoint) PathParams() []string {
	matches := placeholderRE.FindAllStringSubmatch(e.Path, -1)
	params := make([]string, len(matches))
	for i, m := range matches {
		params[i] = m[1]
	}
	return params
}

// Paginated reports whether the endpoint accepts a page option.
func (e Endpoint) Paginated() bool {
	_, ok := e.Options[esi.PageOption]
	return ok
}

// Request interpolates args into the path placeholders, in order, and returns
// a request for the endpoint.
func (e Endpoint) Request(args ...any) (esi.Request, error) {
	params := e.PathParams()
	if len(args) != len(params) {
		return esi.Request{}, fmt.Errorf(
			"endpoint %s expects %d path argument(s) (%s), got %d",
			e.Name, len(params), strings.Join(params, ", "), len(args))
	}

	i := 0
	path := placeholderRE.ReplaceAllStringFunc(e.Path, func(string) string {
		s := url.PathEscape(formatPathArg(args[i]))
		i++
		return s
	})

	return esi.NewRequest(e.Verb, path, e.Options), nil
}

func formatPathArg(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		if vv == math.Trunc(vv) {
			return strconv.FormatInt(int64(vv), 10)
		}
		return strconv.FormatFloat(vv, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Table is an ordered set of endpoints indexed by name.
type Table struct {
	endpoints []Endpoint
	byName    map[string]int
}

// NewTable creates a table from endpoints. Later endpoints replace earlier
// ones with the same name in lookups; Validate reports such duplicates.
func NewTable(endpoints []Endpoint) *Table {
	t := &Table{
		endpoints: slices.Clone(endpoints),
		byName:    make(map[string]int, len(endpoints)),
	}
	for i, e := range t.endpoints {
		t.byName[e.Name] = i
	}
	return t
}

// Endpoints returns the endpoints of the table sorted by name.
func (t *Table) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(t.byName))
	for _, i := range t.byName {
		out = append(out, t.endpoints[i])
	}
	slices.SortFunc(out, func(a, b Endpoint) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Len returns the number of distinct endpoint names.
func (t *Table) Len() int {
	return len(t.byName)
}

// Lookup finds an endpoint by name. Names are also matched in snake case, so
// "WarsWarKillmails" and "wars-war-killmails" both find "wars_war_killmails".
func (t *Table) Lookup(name string) (Endpoint, bool) {
	if i, ok := t.byName[name]; ok {
		return t.endpoints[i], true
	}
	if i, ok := t.byName[strcase.ToSnake(name)]; ok {
		return t.endpoints[i], true
	}
	return Endpoint{}, false
}

// Merge returns a new table holding the endpoints of t and other. Endpoints
// of other replace those of t with the same name.
func (t *Table) Merge(other *Table) *Table {
	merged := make([]Endpoint, 0, t.Len()+other.Len())
	for _, e := range t.Endpoints() {
		if _, ok := other.byName[e.Name]; !ok {
			merged = append(merged, e)
		}
	}
	merged = append(merged, other.Endpoints()...)
	return NewTable(merged)
}

// Validate reports every problem of the table.
func (t *Table) Validate() error {
	var result *multierror.Error

	seen := make(map[string]bool, len(t.endpoints))
	for i, e := range t.endpoints {
		if e.Name == "" {
			result = multierror.Append(result, fmt.Errorf("endpoint #%d: name is required", i))
		} else if seen[e.Name] {
			result = multierror.Append(result, fmt.Errorf("endpoint %s: duplicate name", e.Name))
		}
		seen[e.Name] = true

		if _, err := esi.ParseVerb(string(e.Verb)); err != nil {
			result = multierror.Append(result, fmt.Errorf("endpoint %s: %w", e.Name, err))
		}

		if !strings.HasPrefix(e.Path, "/") {
			result = multierror.Append(result,
				fmt.Errorf("endpoint %s: path %q must start with /", e.Name, e.Path))
		}
		stripped := placeholderRE.ReplaceAllString(e.Path, "")
		if strings.ContainsAny(stripped, "{}") {
			result = multierror.Append(result,
				fmt.Errorf("endpoint %s: path %q has unbalanced placeholders", e.Name, e.Path))
		}

		for _, name := range slices.Sorted(maps.Keys(e.Options)) {
			switch e.Options[name].In {
			case esi.InQuery, esi.InBody:
			default:
				result = multierror.Append(result,
					fmt.Errorf("endpoint %s: option %s: unknown location %q", e.Name, name, e.Options[name].In))
			}
		}
	}

	return result.ErrorOrNil()
}

type tableFile []endpointEntry

type endpointEntry struct {
	Name        string                 `yaml:"name"`
	Verb        string                 `yaml:"verb"`
	Path        string                 `yaml:"path"`
	Description string                 `yaml:"description"`
	Options     map[string]optionEntry `yaml:"options"`
}

type optionEntry struct {
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

// Load reads a YAML endpoint table and validates it.
func Load(r io.Reader) (*Table, error) {
	var file tableFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse endpoint table: %w", err)
	}

	endpoints := make([]Endpoint, 0, len(file))
	for _, entry := range file {
		endpoints = append(endpoints, entry.endpoint())
	}

	t := NewTable(endpoints)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid endpoint table: %w", err)
	}
	return t, nil
}

// LoadFile reads a YAML endpoint table from fs.
func LoadFile(fs afero.Fs, path string) (*Table, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint table: %w", err)
	}
	return Load(bytes.NewReader(b))
}

func (e endpointEntry) endpoint() Endpoint {
	schema := make(esi.Schema, len(e.Options))
	for name, o := range e.Options {
		opt := esi.Option{
			In:          esi.Location(strings.ToLower(o.In)),
			Requirement: esi.Optional,
		}
		if opt.In == "" {
			opt.In = esi.InQuery
		}
		if o.Required {
			opt.Requirement = esi.Required
		}
		schema[name] = opt
	}

	return Endpoint{
		Name:        e.Name,
		Verb:        esi.Verb(strings.ToUpper(e.Verb)),
		Path:        e.Path,
		Description: e.Description,
		Options:     schema,
	}
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(bytes.NewReader(defaultTableYAML))
	if err != nil {
		panic(fmt.Sprintf("endpoints: embedded table: %v", err))
	}
	return t
})

// Default returns the built-in endpoint table.
func Default() *Table {
	return defaultTable()
}
