package dmmf

// Clone returns a deep copy of the description. Resolved type references are
// reset to bare names, so a clone of an indexed document can be indexed again.
func (d *Document) Clone() *Document {
	out := &Document{
		Datamodel: Datamodel{
			Models: make([]*Model, len(d.Datamodel.Models)),
			Enums:  cloneEnums(d.Datamodel.Enums),
		},
		Schema: Schema{
			RootQueryType:    d.Schema.RootQueryType,
			RootMutationType: d.Schema.RootMutationType,
			InputTypes:       make([]*InputType, len(d.Schema.InputTypes)),
			OutputTypes:      make([]*OutputType, len(d.Schema.OutputTypes)),
			Enums:            cloneEnums(d.Schema.Enums),
		},
		Mappings: append([]Mapping(nil), d.Mappings...),
	}
	for i, m := range d.Datamodel.Models {
		out.Datamodel.Models[i] = m.clone()
	}
	for i, t := range d.Schema.InputTypes {
		out.Schema.InputTypes[i] = t.clone()
	}
	for i, t := range d.Schema.OutputTypes {
		out.Schema.OutputTypes[i] = t.clone()
	}
	return out
}

func cloneEnums(enums []*Enum) []*Enum {
	out := make([]*Enum, len(enums))
	for i, e := range enums {
		out[i] = &Enum{Name: e.Name, Values: append([]string(nil), e.Values...)}
	}
	return out
}

func (m *Model) clone() *Model {
	out := &Model{Name: m.Name, IsEmbedded: m.IsEmbedded, Fields: make([]*ModelField, len(m.Fields))}
	for i, f := range m.Fields {
		field := *f
		if f.Default != nil {
			def := *f.Default
			def.Args = append([]any(nil), f.Default.Args...)
			field.Default = &def
		}
		out.Fields[i] = &field
	}
	return out
}

func (t *InputType) clone() *InputType {
	out := *t
	out.Fields = make([]*SchemaArg, len(t.Fields))
	for i, f := range t.Fields {
		out.Fields[i] = f.clone()
	}
	return &out
}

func (a *SchemaArg) clone() *SchemaArg {
	out := &SchemaArg{Name: a.Name, IsRelationFilter: a.IsRelationFilter, InputType: make(InputTypeRefs, len(a.InputType))}
	for i, ref := range a.InputType {
		out.InputType[i] = &InputTypeRef{
			Type:       Named(ref.Type.Name),
			Kind:       ref.Kind,
			IsList:     ref.IsList,
			IsRequired: ref.IsRequired,
		}
	}
	return out
}

func (t *OutputType) clone() *OutputType {
	out := &OutputType{Name: t.Name, IsEmbedded: t.IsEmbedded, Fields: make([]*SchemaField, len(t.Fields))}
	for i, f := range t.Fields {
		field := &SchemaField{Name: f.Name, Args: make([]*SchemaArg, len(f.Args))}
		if f.OutputType != nil {
			field.OutputType = &OutputTypeRef{
				Type:       Named(f.OutputType.Type.Name),
				Kind:       f.OutputType.Kind,
				IsList:     f.OutputType.IsList,
				IsRequired: f.OutputType.IsRequired,
			}
		}
		for j, arg := range f.Args {
			field.Args[j] = arg.clone()
		}
		out.Fields[i] = field
	}
	return out
}
