package dmmf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypeRef serializes as its name, which keeps cyclic indexes encodable.

func (r TypeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Name)
}

func (r *TypeRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("type reference must be a string: %w", err)
	}
	*r = TypeRef{Name: name}
	return nil
}

func (r TypeRef) MarshalYAML() (any, error) {
	return r.Name, nil
}

func (r *TypeRef) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("line %d: type reference must be a string: %w", value.Line, err)
	}
	*r = TypeRef{Name: name}
	return nil
}

// InputTypeRefs accepts both a single candidate object and a list of them,
// since external descriptions use the former for plain arguments.
type InputTypeRefs []*InputTypeRef

func (r *InputTypeRefs) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []*InputTypeRef
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*r = list
		return nil
	}
	var single InputTypeRef
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*r = InputTypeRefs{&single}
	return nil
}

func (r *InputTypeRefs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var list []*InputTypeRef
		if err := value.Decode(&list); err != nil {
			return err
		}
		*r = list
		return nil
	}
	var single InputTypeRef
	if err := value.Decode(&single); err != nil {
		return err
	}
	*r = InputTypeRefs{&single}
	return nil
}

// externalMapping carries the action names under both their current and
// their older spellings.
type externalMapping struct {
	Model        string `json:"model" yaml:"model"`
	Plural       string `json:"plural" yaml:"plural"`
	FindOne      string `json:"findOne" yaml:"findOne"`
	FindSingle   string `json:"findSingle" yaml:"findSingle"`
	FindMany     string `json:"findMany" yaml:"findMany"`
	Create       string `json:"create" yaml:"create"`
	CreateOne    string `json:"createOne" yaml:"createOne"`
	CreateSingle string `json:"createSingle" yaml:"createSingle"`
	Update       string `json:"update" yaml:"update"`
	UpdateOne    string `json:"updateOne" yaml:"updateOne"`
	UpdateSingle string `json:"updateSingle" yaml:"updateSingle"`
	UpdateMany   string `json:"updateMany" yaml:"updateMany"`
	Upsert       string `json:"upsert" yaml:"upsert"`
	UpsertOne    string `json:"upsertOne" yaml:"upsertOne"`
	UpsertSingle string `json:"upsertSingle" yaml:"upsertSingle"`
	Delete       string `json:"delete" yaml:"delete"`
	DeleteOne    string `json:"deleteOne" yaml:"deleteOne"`
	DeleteSingle string `json:"deleteSingle" yaml:"deleteSingle"`
	DeleteMany   string `json:"deleteMany" yaml:"deleteMany"`
	Aggregate    string `json:"aggregate" yaml:"aggregate"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (e externalMapping) mapping() Mapping {
	return Mapping{
		Model:      e.Model,
		Plural:     e.Plural,
		FindOne:    firstNonEmpty(e.FindOne, e.FindSingle),
		FindMany:   e.FindMany,
		Create:     firstNonEmpty(e.Create, e.CreateOne, e.CreateSingle),
		Update:     firstNonEmpty(e.Update, e.UpdateOne, e.UpdateSingle),
		UpdateMany: e.UpdateMany,
		Upsert:     firstNonEmpty(e.Upsert, e.UpsertOne, e.UpsertSingle),
		Delete:     firstNonEmpty(e.Delete, e.DeleteOne, e.DeleteSingle),
		DeleteMany: e.DeleteMany,
		Aggregate:  e.Aggregate,
	}
}

func (m *Mapping) UnmarshalJSON(data []byte) error {
	var ext externalMapping
	if err := json.Unmarshal(data, &ext); err != nil {
		return err
	}
	*m = ext.mapping()
	return nil
}

func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	var ext externalMapping
	if err := value.Decode(&ext); err != nil {
		return err
	}
	*m = ext.mapping()
	return nil
}
