package query

import (
	"testing"
	"time"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/stretchr/testify/assert"
)

func TestInferType(t *testing.T) {
	role := &dmmf.Enum{Name: "Role", Values: []string{"USER", "ADMIN"}}

	tests := []struct {
		name      string
		value     any
		potential dmmf.TypeRef
		expected  string
	}{
		{"null", nil, dmmf.TypeRef{}, "null"},
		{"int", 1.0, dmmf.TypeRef{}, "Int"},
		{"float", 1.5, dmmf.TypeRef{}, "Float"},
		{"string", "x", dmmf.TypeRef{}, "String"},
		{"boolean", true, dmmf.TypeRef{}, "Boolean"},
		{"time", time.Now(), dmmf.TypeRef{}, "DateTime"},
		{"iso string", "2019-10-17T09:56:37.690Z", dmmf.TypeRef{}, "DateTime"},
		{"uuid", "5d4a9c2e-8e0f-4b1a-9c1d-2f3e4a5b6c7d", dmmf.TypeRef{}, "UUID"},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", dmmf.TypeRef{}, "String"},
		{"enum value", "USER", dmmf.TypeRef{Name: "Role", Enum: role}, "Role"},
		{"not an enum value", "BOSS", dmmf.TypeRef{Name: "Role", Enum: role}, "String"},
		{"object", selection.Of("a", 1.0), dmmf.TypeRef{}, "Json"},
		{"mixed list", []any{1.0, "a", 2.0}, dmmf.TypeRef{}, "List<Int | String>"},
		{"empty list", []any{}, dmmf.TypeRef{}, "List<>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferType(tt.value, tt.potential))
		})
	}
}

func TestHasCorrectScalarType(t *testing.T) {
	ref := func(name string, isList, isRequired bool) *dmmf.InputTypeRef {
		return &dmmf.InputTypeRef{Type: dmmf.Named(name), Kind: dmmf.ScalarKind, IsList: isList, IsRequired: isRequired}
	}

	tests := []struct {
		name     string
		value    any
		ref      *dmmf.InputTypeRef
		expected bool
	}{
		{"exact", "x", ref("String", false, true), true},
		{"int as float", 3.0, ref("Float", false, true), true},
		{"float as int", 3.5, ref("Int", false, true), false},
		{"string as id", "abc", ref("ID", false, true), true},
		{"uuid as string", "5d4a9c2e-8e0f-4b1a-9c1d-2f3e4a5b6c7d", ref("String", false, true), true},
		{"date string as string", "2019-10-17T09:56:37.690Z", ref("String", false, true), true},
		{"string as date", "tomorrow", ref("DateTime", false, true), false},
		{"json accepts anything", selection.Of("a", []any{1.0}), ref("Json", false, false), true},
		{"empty list", []any{}, ref("Int", true, false), true},
		{"int list as float list", []any{1.0, 2.0}, ref("Float", true, false), true},
		{"mixed list", []any{1.0, "a"}, ref("Int", true, false), false},
		{"null optional", nil, ref("String", false, false), true},
		{"null required", nil, ref("String", false, true), false},
		{"null candidate", nil, ref("null", false, false), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasCorrectScalarType(tt.value, tt.ref))
		})
	}
}
