package esi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// encodeOptions splits the supplied options into the query string and the
// request body according to the schema. Options missing from the schema are
// dropped.
//
// The query string is empty or starts with "?". The body is nil when no body
// option was supplied, the JSON encoding of the value when exactly one was,
// and a JSON object keyed by option name otherwise.
func (r Request) encodeOptions() (string, []byte, error) {
	query := url.Values{}
	body := map[string]any{}

	for name, value := range r.options {
		o, ok := r.schema.lookup(name)
		if !ok {
			continue
		}
		switch o.location() {
		case InBody:
			body[name] = value
		default:
			query.Set(name, formatQueryValue(value))
		}
	}

	var qs string
	if len(query) > 0 {
		qs = "?" + query.Encode()
	}

	var payload any
	switch len(body) {
	case 0:
		return qs, nil, nil
	case 1:
		for _, v := range body {
			payload = v
		}
	default:
		payload = body
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return qs, b, nil
}

// formatQueryValue renders a single option value for the query string. Lists
// are comma separated.
func formatQueryValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		return formatFloat(vv)
	case float32:
		return formatFloat(float64(vv))
	case json.Number:
		return vv.String()
	case fmt.Stringer:
		return vv.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = formatQueryValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
