package dmmf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the description format from a file name.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes an external schema description and normalizes it.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding schema description: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding schema description: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown schema description format: %s", format)
	}
	normalize(&doc)
	return &doc, nil
}

// normalize converts an external description to the internal shape.
func normalize(doc *Document) {
	for _, m := range doc.Datamodel.Models {
		for _, f := range m.Fields {
			if f.Kind == RelationKind {
				f.Kind = ObjectKind
			}
		}
	}

	for _, t := range doc.Schema.OutputTypes {
		for _, f := range t.Fields {
			if f.OutputType != nil && f.OutputType.Kind == RelationKind {
				f.OutputType.Kind = ObjectKind
			}
			for _, arg := range f.Args {
				fixOrderByKind(arg)
			}
		}
	}

	if doc.Schema.RootQueryType == "" {
		doc.Schema.RootQueryType = "Query"
	}
	if doc.Schema.RootMutationType == "" {
		doc.Schema.RootMutationType = "Mutation"
	}

	for i := range doc.Mappings {
		if doc.Mappings[i].Plural == "" {
			doc.Mappings[i].Plural = inflect.Pluralize(lowerFirst(doc.Mappings[i].Model))
		}
	}
}

// fixOrderByKind marks order arguments as object-typed: the description
// still declares them as enums, but they are expanded into input types.
func fixOrderByKind(arg *SchemaArg) {
	if arg.Name != "orderBy" || len(arg.InputType) != 1 {
		return
	}
	if strings.HasSuffix(arg.InputType[0].Type.Name, "OrderByInput") {
		arg.InputType[0].Kind = ObjectKind
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// LoadBytes parses, expands and indexes a description.
func LoadBytes(data []byte, format Format) (*Index, error) {
	doc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return NewIndex(Expand(doc)), nil
}

// Load reads a description file and returns its index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data, FormatFor(path))
}
