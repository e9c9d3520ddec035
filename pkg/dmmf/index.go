package dmmf

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownRootType is returned for operations other than query and mutation.
var ErrUnknownRootType = errors.New("unknown root operation type")

// Index is a cross-referenced, read-only view of a schema description. Type
// references inside it point at the shared type objects held here, so cyclic
// schemas are represented without duplication.
type Index struct {
	Document *Document

	Models      map[string]*Model
	Enums       map[string]*Enum
	InputTypes  map[string]*InputType
	OutputTypes map[string]*OutputType
	Mappings    map[string]Mapping

	QueryType    *OutputType
	MutationType *OutputType
}

// NewIndex resolves every type reference of a copy of doc. Names matching no
// type or enum stay unresolved and are treated as scalars.
func NewIndex(doc *Document) *Index {
	d := doc.Clone()
	idx := &Index{
		Document:    d,
		Models:      make(map[string]*Model, len(d.Datamodel.Models)),
		Enums:       make(map[string]*Enum),
		InputTypes:  make(map[string]*InputType, len(d.Schema.InputTypes)),
		OutputTypes: make(map[string]*OutputType, len(d.Schema.OutputTypes)),
		Mappings:    make(map[string]Mapping, len(d.Mappings)),
	}

	for _, m := range d.Datamodel.Models {
		idx.Models[m.Name] = m
	}
	for _, e := range d.Datamodel.Enums {
		idx.Enums[e.Name] = e
	}
	// Schema enums win over datamodel enums of the same name.
	for _, e := range d.Schema.Enums {
		idx.Enums[e.Name] = e
	}
	for _, t := range d.Schema.InputTypes {
		idx.InputTypes[t.Name] = t
	}
	for _, t := range d.Schema.OutputTypes {
		if m := idx.Models[t.Name]; m != nil {
			t.IsEmbedded = m.IsEmbedded
		}
		idx.OutputTypes[t.Name] = t
	}
	for _, m := range d.Mappings {
		idx.Mappings[m.Model] = m
	}

	for _, t := range d.Schema.OutputTypes {
		for _, f := range t.Fields {
			if f.OutputType != nil {
				idx.resolveOutput(&f.OutputType.Type, t.Name+"."+f.Name)
			}
			for _, arg := range f.Args {
				idx.resolveArg(arg, t.Name+"."+f.Name+"("+arg.Name+")")
			}
		}
	}
	for _, t := range d.Schema.InputTypes {
		for _, f := range t.Fields {
			idx.resolveArg(f, t.Name+"."+f.Name)
		}
	}

	idx.QueryType = idx.OutputTypes[d.Schema.RootQueryType]
	idx.MutationType = idx.OutputTypes[d.Schema.RootMutationType]
	return idx
}

func (idx *Index) resolveOutput(ref *TypeRef, where string) {
	if t := idx.OutputTypes[ref.Name]; t != nil {
		ref.Output = t
		return
	}
	if e := idx.Enums[ref.Name]; e != nil {
		ref.Enum = e
		return
	}
	logUnresolved(ref.Name, where)
}

func (idx *Index) resolveArg(arg *SchemaArg, where string) {
	for _, candidate := range arg.InputType {
		ref := &candidate.Type
		if t := idx.InputTypes[ref.Name]; t != nil {
			ref.Input = t
			continue
		}
		if e := idx.Enums[ref.Name]; e != nil {
			ref.Enum = e
			continue
		}
		if candidate.Kind != ScalarKind {
			logUnresolved(ref.Name, where)
		}
	}
}

func logUnresolved(name, where string) {
	if isBuiltinScalar(name) {
		return
	}
	slog.Debug("unresolved type reference, treating as scalar", "type", name, "at", where)
}

var builtinScalars = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
	"UUID": true, "DateTime": true, "Json": true, "Long": true, "null": true,
}

func isBuiltinScalar(name string) bool {
	return builtinScalars[name]
}

// RootType returns the output type behind "query" or "mutation".
func (idx *Index) RootType(operation string) (*OutputType, error) {
	var t *OutputType
	switch operation {
	case "query":
		t = idx.QueryType
	case "mutation":
		t = idx.MutationType
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRootType, operation)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: schema has no %s type", ErrUnknownRootType, operation)
	}
	return t, nil
}

// RootField finds a field on the query type, then on the mutation type, and
// reports which operation it belongs to.
func (idx *Index) RootField(name string) (*SchemaField, string) {
	if idx.QueryType != nil {
		if f := idx.QueryType.Field(name); f != nil {
			return f, "query"
		}
	}
	if idx.MutationType != nil {
		if f := idx.MutationType.Field(name); f != nil {
			return f, "mutation"
		}
	}
	return nil, ""
}

// MappingFor returns the root field implementing action on model.
func (idx *Index) MappingFor(model, action string) (string, bool) {
	m, ok := idx.Mappings[model]
	if !ok {
		return "", false
	}
	field := m.Action(action)
	return field, field != ""
}

// InputTypeList returns input types in declaration order.
func (idx *Index) InputTypeList() []*InputType {
	return idx.Document.Schema.InputTypes
}

// OutputTypeList returns output types in declaration order.
func (idx *Index) OutputTypeList() []*OutputType {
	return idx.Document.Schema.OutputTypes
}

// EnumList returns schema enums in declaration order followed by datamodel
// enums not redeclared by the schema.
func (idx *Index) EnumList() []*Enum {
	seen := map[string]bool{}
	var out []*Enum
	for _, e := range idx.Document.Schema.Enums {
		seen[e.Name] = true
		out = append(out, e)
	}
	for _, e := range idx.Document.Datamodel.Enums {
		if !seen[e.Name] {
			out = append(out, e)
		}
	}
	return out
}
