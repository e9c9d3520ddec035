package query

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

// InferType names the wire type of a selection value. Lists become
// "List<A | B>" over their distinct element types. Strings are checked for
// UUIDs, then for values of the potential enum, then for RFC 3339 timestamps.
func InferType(value any, potential dmmf.TypeRef) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case []any:
		var types []string
		for _, item := range v {
			t := InferType(item, potential)
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}
		return "List<" + strings.Join(types, " | ") + ">"
	case float64:
		if !math.IsInf(v, 0) && v == math.Trunc(v) {
			return "Int"
		}
		return "Float"
	case time.Time:
		return "DateTime"
	case string:
		if isUUID(v) {
			return "UUID"
		}
		if potential.Enum != nil && potential.Enum.HasValue(v) {
			return potential.Enum.Name
		}
		if _, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return "DateTime"
		}
		return "String"
	case bool:
		return "Boolean"
	case *selection.Object:
		return "Json"
	}
	return "Json"
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() >= 1 && u.Version() <= 5 && u.Variant() == uuid.RFC4122
}

func wrapWithList(name string, isList bool) string {
	if isList {
		return "List<" + name + ">"
	}
	return name
}

// scalarCompatibility lists the declared types a more specific inferred type
// also satisfies.
var scalarCompatibility = map[string][]string{
	"DateTime":       {"String", "ID"},
	"UUID":           {"String", "ID"},
	"String":         {"ID"},
	"Int":            {"Float", "Long"},
	"List<DateTime>": {"List<String>", "List<ID>"},
	"List<UUID>":     {"List<String>", "List<ID>"},
	"List<String>":   {"List<ID>"},
	"List<Int>":      {"List<Float>", "List<Long>"},
}

func hasCorrectScalarType(value any, t *dmmf.InputTypeRef) bool {
	expected := wrapWithList(t.Type.Name, t.IsList)
	got := InferType(value, t.Type)

	switch {
	case got == expected:
		return true
	case t.IsList && got == "List<>":
		return true
	case t.Type.Name == "Json" && !t.IsList:
		return true
	case slices.Contains(scalarCompatibility[got], expected):
		return true
	}
	return !t.IsRequired && value == nil
}
