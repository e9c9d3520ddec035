// Package dmmf holds the schema description the query builder works against:
// the datamodel (models, fields, enums), the input and output types of the
// generated API and the per-model action mappings.
//
// A description is loaded with Parse, enriched with Expand and then frozen
// into an Index, where every type reference points at a shared type object.
package dmmf

// FieldKind discriminates what a type reference points at.
type FieldKind string

const (
	ScalarKind FieldKind = "scalar"
	EnumKind   FieldKind = "enum"
	ObjectKind FieldKind = "object"
	// RelationKind only appears in external descriptions and is normalized
	// to ObjectKind on load.
	RelationKind FieldKind = "relation"
)

// Document is a complete schema description.
type Document struct {
	Datamodel Datamodel `json:"datamodel" yaml:"datamodel"`
	Schema    Schema    `json:"schema" yaml:"schema"`
	Mappings  []Mapping `json:"mappings" yaml:"mappings"`
}

type Datamodel struct {
	Models []*Model `json:"models" yaml:"models"`
	Enums  []*Enum  `json:"enums" yaml:"enums"`
}

// Model is a persisted entity. Embedded models are stored inside their parent
// record and are selected along with it by default.
type Model struct {
	Name       string        `json:"name" yaml:"name"`
	IsEmbedded bool          `json:"isEmbedded" yaml:"isEmbedded"`
	Fields     []*ModelField `json:"fields" yaml:"fields"`
}

type ModelField struct {
	Name       string        `json:"name" yaml:"name"`
	Kind       FieldKind     `json:"kind" yaml:"kind"`
	Type       string        `json:"type" yaml:"type"`
	IsList     bool          `json:"isList" yaml:"isList"`
	IsRequired bool          `json:"isRequired" yaml:"isRequired"`
	IsID       bool          `json:"isId,omitempty" yaml:"isId,omitempty"`
	IsUnique   bool          `json:"isUnique,omitempty" yaml:"isUnique,omitempty"`
	Default    *FieldDefault `json:"default,omitempty" yaml:"default,omitempty"`
}

// FieldDefault describes a generated default such as uuid() or now().
type FieldDefault struct {
	Name string `json:"name" yaml:"name"`
	Args []any  `json:"args,omitempty" yaml:"args,omitempty"`
}

type Enum struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

func (e *Enum) HasValue(v string) bool {
	for _, value := range e.Values {
		if value == v {
			return true
		}
	}
	return false
}

type Schema struct {
	RootQueryType    string        `json:"rootQueryType" yaml:"rootQueryType"`
	RootMutationType string        `json:"rootMutationType" yaml:"rootMutationType"`
	InputTypes       []*InputType  `json:"inputTypes" yaml:"inputTypes"`
	OutputTypes      []*OutputType `json:"outputTypes" yaml:"outputTypes"`
	Enums            []*Enum       `json:"enums" yaml:"enums"`
}

// InputType is an argument object. The cardinality flags constrain how many
// of its fields a caller may supply at once.
type InputType struct {
	Name        string       `json:"name" yaml:"name"`
	Fields      []*SchemaArg `json:"fields" yaml:"fields"`
	AtLeastOne  bool         `json:"atLeastOne,omitempty" yaml:"atLeastOne,omitempty"`
	AtMostOne   bool         `json:"atMostOne,omitempty" yaml:"atMostOne,omitempty"`
	IsWhereType bool         `json:"isWhereType,omitempty" yaml:"isWhereType,omitempty"`
	IsOrderType bool         `json:"isOrderType,omitempty" yaml:"isOrderType,omitempty"`
}

func (t *InputType) Field(name string) *SchemaArg {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *InputType) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

type OutputType struct {
	Name       string         `json:"name" yaml:"name"`
	Fields     []*SchemaField `json:"fields" yaml:"fields"`
	IsEmbedded bool           `json:"isEmbedded,omitempty" yaml:"isEmbedded,omitempty"`
}

func (t *OutputType) Field(name string) *SchemaField {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *OutputType) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// SchemaArg is an argument of an output field or a field of an input type.
// InputType lists every shape the argument accepts, in preference order.
type SchemaArg struct {
	Name             string        `json:"name" yaml:"name"`
	InputType        InputTypeRefs `json:"inputType" yaml:"inputType"`
	IsRelationFilter bool          `json:"isRelationFilter,omitempty" yaml:"isRelationFilter,omitempty"`
}

// IsRequired reports whether every candidate type is required.
func (a *SchemaArg) IsRequired() bool {
	if len(a.InputType) == 0 {
		return false
	}
	for _, t := range a.InputType {
		if !t.IsRequired {
			return false
		}
	}
	return true
}

type SchemaField struct {
	Name       string         `json:"name" yaml:"name"`
	OutputType *OutputTypeRef `json:"outputType" yaml:"outputType"`
	Args       []*SchemaArg   `json:"args" yaml:"args"`
}

// InputTypeRef is one candidate shape of an argument.
type InputTypeRef struct {
	Type       TypeRef   `json:"type" yaml:"type"`
	Kind       FieldKind `json:"kind" yaml:"kind"`
	IsList     bool      `json:"isList" yaml:"isList"`
	IsRequired bool      `json:"isRequired" yaml:"isRequired"`
}

type OutputTypeRef struct {
	Type       TypeRef   `json:"type" yaml:"type"`
	Kind       FieldKind `json:"kind" yaml:"kind"`
	IsList     bool      `json:"isList" yaml:"isList"`
	IsRequired bool      `json:"isRequired" yaml:"isRequired"`
}

// TypeRef names a type and, once indexed, points at it. At most one of Input,
// Output and Enum is set. A reference with none set is a scalar (or a name the
// index could not resolve, which is treated the same way).
type TypeRef struct {
	Name   string
	Input  *InputType
	Output *OutputType
	Enum   *Enum
}

func Named(name string) TypeRef {
	return TypeRef{Name: name}
}

func (r TypeRef) IsScalar() bool {
	return r.Input == nil && r.Output == nil && r.Enum == nil
}

func (r TypeRef) String() string {
	return r.Name
}

// Mapping ties a model to the root fields implementing its actions.
type Mapping struct {
	Model      string `json:"model" yaml:"model"`
	Plural     string `json:"plural" yaml:"plural"`
	FindOne    string `json:"findOne,omitempty" yaml:"findOne,omitempty"`
	FindMany   string `json:"findMany,omitempty" yaml:"findMany,omitempty"`
	Create     string `json:"create,omitempty" yaml:"create,omitempty"`
	Update     string `json:"update,omitempty" yaml:"update,omitempty"`
	UpdateMany string `json:"updateMany,omitempty" yaml:"updateMany,omitempty"`
	Upsert     string `json:"upsert,omitempty" yaml:"upsert,omitempty"`
	Delete     string `json:"delete,omitempty" yaml:"delete,omitempty"`
	DeleteMany string `json:"deleteMany,omitempty" yaml:"deleteMany,omitempty"`
	Aggregate  string `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
}

// Action returns the root field name for an action such as "findMany".
func (m Mapping) Action(action string) string {
	switch action {
	case "findOne":
		return m.FindOne
	case "findMany":
		return m.FindMany
	case "create":
		return m.Create
	case "update":
		return m.Update
	case "updateMany":
		return m.UpdateMany
	case "upsert":
		return m.Upsert
	case "delete":
		return m.Delete
	case "deleteMany":
		return m.DeleteMany
	case "aggregate":
		return m.Aggregate
	}
	return ""
}

// Actions lists the action names in display order.
var Actions = []string{"findOne", "findMany", "create", "update", "updateMany", "upsert", "delete", "deleteMany", "aggregate"}
