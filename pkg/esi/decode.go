package esi

import (
	"fmt"
	"reflect"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

// Decode converts a value returned by Run or Stream into T. Struct fields are
// matched on their json tag, and timestamp strings are parsed into
// time.Time fields.
//
//	type War struct {
//		ID       int       `json:"id"`
//		Declared time.Time `json:"declared"`
//		Mutual   bool      `json:"mutual"`
//	}
//
//	war, err := esi.Decode[War](value)
func Decode[T any](v any) (T, error) {
	var out T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToTimeHook,
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v); err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}

var timeType = reflect.TypeOf(time.Time{})

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}
