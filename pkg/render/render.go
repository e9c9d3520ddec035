package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatText   Format = "text"
	FormatPretty Format = "pretty"
)

var ValidFormats = []Format{FormatJSON, FormatText, FormatPretty}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, valid := range ValidFormats {
		if f == valid {
			return f, nil
		}
	}
	names := make([]string, len(ValidFormats))
	for i, valid := range ValidFormats {
		names[i] = string(valid)
	}
	return "", fmt.Errorf("invalid format: %s (valid: %s)", s, strings.Join(names, ", "))
}

// Renderer renders a list of items, one text line per item.
type Renderer[T any] struct {
	Data         []T
	TextFormat   func(T) string
	PrettyFormat func([]T) string
}

func (r Renderer[T]) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return marshal(r.Data)
	case FormatPretty:
		if r.PrettyFormat == nil {
			return "", fmt.Errorf("pretty format not defined for this type")
		}
		return r.PrettyFormat(r.Data), nil
	case FormatText:
		if r.TextFormat == nil {
			return "", fmt.Errorf("text format not defined for this type")
		}
		lines := make([]string, 0, len(r.Data))
		for _, item := range r.Data {
			lines = append(lines, r.TextFormat(item))
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Value renders a single result such as a built document or a validation
// report. PrettyFormat falls back to TextFormat when unset.
type Value[T any] struct {
	Data         T
	TextFormat   func(T) string
	PrettyFormat func(T) string
}

func (v Value[T]) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return marshal(v.Data)
	case FormatPretty:
		if v.PrettyFormat != nil {
			return v.PrettyFormat(v.Data), nil
		}
		fallthrough
	case FormatText:
		if v.TextFormat == nil {
			return "", fmt.Errorf("text format not defined for this type")
		}
		return v.TextFormat(v.Data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func marshal(data any) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
