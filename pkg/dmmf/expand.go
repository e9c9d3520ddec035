package dmmf

import (
	"log/slog"
	"strings"
)

// OrderByArgEnum is the shared direction enum accepted by every order field.
const OrderByArgEnum = "OrderByArg"

const (
	whereInputSuffix       = "WhereInput"
	scalarWhereInputSuffix = "ScalarWhereInput"
	whereUniqueInputSuffix = "WhereUniqueInput"
	orderByInputSuffix     = "OrderByInput"
)

// Expand returns a copy of doc with filter and order input types synthesized:
//
//   - every *WhereInput type is rebuilt from its model, one entry per
//     filterable field accepting the bare value, a filter object or null;
//   - every *OrderByInput enum becomes an input type with one optional
//     OrderByArg field per sortable field;
//   - every *WhereUniqueInput type requires at least one key.
//
// Types are deduplicated by name, the last definition winning.
func Expand(doc *Document) *Document {
	out := doc.Clone()
	models := make(map[string]*Model, len(out.Datamodel.Models))
	for _, m := range out.Datamodel.Models {
		models[m.Name] = m
	}

	filters := &filterSet{byName: map[string]bool{}}
	inputTypes := make([]*InputType, 0, len(out.Schema.InputTypes))
	for _, t := range out.Schema.InputTypes {
		inputTypes = append(inputTypes, expandWhereType(t, models, filters))
	}
	inputTypes = append(inputTypes, filters.types...)

	orderTypes, enums := expandOrderTypes(out.Schema.Enums)
	inputTypes = append(inputTypes, orderTypes...)

	inputTypes = uniqBy(inputTypes, func(t *InputType) string { return t.Name })
	for _, t := range inputTypes {
		if strings.HasSuffix(t.Name, whereUniqueInputSuffix) {
			t.AtLeastOne = true
		}
	}

	out.Schema.InputTypes = inputTypes
	out.Schema.Enums = uniqBy(enums, func(e *Enum) string { return e.Name })
	out.Schema.OutputTypes = uniqBy(out.Schema.OutputTypes, func(t *OutputType) string { return t.Name })

	slog.Debug("expanded schema description",
		"inputTypes", len(out.Schema.InputTypes),
		"filterTypes", len(filters.types),
		"orderTypes", len(orderTypes))
	return out
}

func modelForWhereType(name string, models map[string]*Model) *Model {
	if !strings.HasSuffix(name, whereInputSuffix) {
		return nil
	}
	if m := models[strings.TrimSuffix(name, whereInputSuffix)]; m != nil {
		return m
	}
	if strings.HasSuffix(name, scalarWhereInputSuffix) {
		return models[strings.TrimSuffix(name, scalarWhereInputSuffix)]
	}
	return nil
}

func expandWhereType(t *InputType, models map[string]*Model, filters *filterSet) *InputType {
	model := modelForWhereType(t.Name, models)
	if model == nil {
		return t
	}

	allowed := map[string]bool{"AND": true, "OR": true, "NOT": true}
	for _, f := range model.Fields {
		if f.Kind == ObjectKind && !f.IsList {
			allowed[f.Name] = true
		}
	}

	var fields []*SchemaArg
	for _, f := range model.Fields {
		if f.Kind == ObjectKind && !f.IsList {
			continue
		}
		if f.Kind != ObjectKind && f.IsList {
			continue
		}
		typeName := filterBaseType(f)
		isRequired := f.IsRequired || f.Kind == ObjectKind
		name := filterName(typeName, isRequired)
		filters.add(name, func() *InputType {
			return makeFilterType(typeName, isRequired, f.Kind)
		})
		fields = append(fields, &SchemaArg{Name: f.Name, InputType: filterCandidates(f, typeName, name)})
	}

	for _, f := range t.Fields {
		if !allowed[f.Name] {
			continue
		}
		kept := f.clone()
		kept.IsRelationFilter = true
		fields = append(fields, kept)
	}

	return &InputType{Name: t.Name, Fields: fields, IsWhereType: true}
}

func filterCandidates(f *ModelField, typeName, filter string) InputTypeRefs {
	var refs InputTypeRefs
	if f.Kind != ObjectKind {
		refs = append(refs, &InputTypeRef{Type: Named(typeName), Kind: f.Kind, IsList: f.IsList})
	}
	refs = append(refs, &InputTypeRef{Type: Named(filter), Kind: ObjectKind})
	if !f.IsRequired && f.Kind != ObjectKind {
		refs = append(refs, &InputTypeRef{Type: Named("null"), Kind: ScalarKind})
	}
	return refs
}

// filterBaseType is the scalar a field is filtered by. Fields defaulting to
// uuid() are filtered as UUID.
func filterBaseType(f *ModelField) string {
	if f.Default != nil && f.Default.Name == "uuid" {
		return "UUID"
	}
	return f.Type
}

func filterName(typeName string, isRequired bool) string {
	if isRequired {
		return typeName + "Filter"
	}
	return "Nullable" + typeName + "Filter"
}

type filterSet struct {
	byName map[string]bool
	types  []*InputType
}

func (s *filterSet) add(name string, build func() *InputType) {
	if s.byName[name] {
		return
	}
	s.byName[name] = true
	s.types = append(s.types, build())
}

func makeFilterType(typeName string, isRequired bool, kind FieldKind) *InputType {
	var fields []*SchemaArg
	if kind == ObjectKind {
		fields = relationFilterArgs(typeName)
	} else {
		fields = scalarFilterArgs(typeName, isRequired, kind)
	}
	return &InputType{
		Name:       filterName(typeName, isRequired),
		Fields:     fields,
		AtLeastOne: true,
	}
}

func scalarFilterArgs(typeName string, isRequired bool, kind FieldKind) []*SchemaArg {
	if kind == EnumKind {
		return concat(baseFilters(typeName, isRequired, kind), inclusionFilters(typeName, kind))
	}
	switch typeName {
	case "String", "ID", "UUID":
		return concat(
			baseFilters(typeName, isRequired, kind),
			inclusionFilters(typeName, kind),
			ordinalFilters(typeName),
			stringFilters(typeName),
		)
	case "Int", "Float", "DateTime":
		return concat(
			baseFilters(typeName, isRequired, kind),
			inclusionFilters(typeName, kind),
			ordinalFilters(typeName),
		)
	default:
		return baseFilters(typeName, isRequired, kind)
	}
}

func baseFilters(typeName string, isRequired bool, kind FieldKind) []*SchemaArg {
	equals := InputTypeRefs{{Type: Named(typeName), Kind: kind}}
	not := InputTypeRefs{{Type: Named(typeName), Kind: kind}}
	if !isRequired {
		equals = append(equals, &InputTypeRef{Type: Named("null"), Kind: ScalarKind})
		not = append(not, &InputTypeRef{Type: Named("null"), Kind: ScalarKind})
	}
	not = append(not, &InputTypeRef{Type: Named(filterName(typeName, isRequired)), Kind: ObjectKind})
	return []*SchemaArg{
		{Name: "equals", InputType: equals},
		{Name: "not", InputType: not},
	}
}

func inclusionFilters(typeName string, kind FieldKind) []*SchemaArg {
	return []*SchemaArg{
		{Name: "in", InputType: InputTypeRefs{{Type: Named(typeName), Kind: kind, IsList: true}}},
		{Name: "notIn", InputType: InputTypeRefs{{Type: Named(typeName), Kind: kind, IsList: true}}},
	}
}

func ordinalFilters(typeName string) []*SchemaArg {
	return singleScalarFilters(typeName, "lt", "lte", "gt", "gte")
}

func stringFilters(typeName string) []*SchemaArg {
	return singleScalarFilters(typeName, "contains", "startsWith", "endsWith")
}

func singleScalarFilters(typeName string, names ...string) []*SchemaArg {
	out := make([]*SchemaArg, len(names))
	for i, name := range names {
		out[i] = &SchemaArg{Name: name, InputType: InputTypeRefs{{Type: Named(typeName), Kind: ScalarKind}}}
	}
	return out
}

func relationFilterArgs(typeName string) []*SchemaArg {
	names := []string{"every", "some", "none"}
	out := make([]*SchemaArg, len(names))
	for i, name := range names {
		out[i] = &SchemaArg{
			Name:             name,
			InputType:        InputTypeRefs{{Type: Named(typeName + whereInputSuffix), Kind: ObjectKind}},
			IsRelationFilter: true,
		}
	}
	return out
}

func concat(groups ...[]*SchemaArg) []*SchemaArg {
	var out []*SchemaArg
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// expandOrderTypes turns *OrderByInput enums into order input types and
// returns them together with the remaining enums.
func expandOrderTypes(enums []*Enum) ([]*InputType, []*Enum) {
	remaining := []*Enum{{Name: OrderByArgEnum, Values: []string{"asc", "desc"}}}
	var orderTypes []*InputType
	for _, e := range enums {
		if !strings.HasSuffix(e.Name, orderByInputSuffix) {
			remaining = append(remaining, e)
			continue
		}
		t := &InputType{Name: e.Name, AtLeastOne: true, AtMostOne: true, IsOrderType: true}
		for _, value := range e.Values {
			if !strings.HasSuffix(value, "_ASC") {
				continue
			}
			t.Fields = append(t.Fields, &SchemaArg{
				Name:      strings.TrimSuffix(value, "_ASC"),
				InputType: InputTypeRefs{{Type: Named(OrderByArgEnum), Kind: EnumKind}},
			})
		}
		orderTypes = append(orderTypes, t)
	}
	return orderTypes, remaining
}

// uniqBy keeps the first position of every key and the last value for it.
func uniqBy[T any](items []T, key func(T) string) []T {
	positions := make(map[string]int, len(items))
	var out []T
	for _, item := range items {
		k := key(item)
		if i, ok := positions[k]; ok {
			out[i] = item
			continue
		}
		positions[k] = len(out)
		out = append(out, item)
	}
	return out
}
