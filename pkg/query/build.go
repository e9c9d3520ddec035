package query

import (
	"fmt"
	"slices"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

// MakeDocument builds the document for calling rootField of the "query" or
// "mutation" root type with sel. Invalid selections still produce a complete
// document with errors attached to the offending nodes; an error is returned
// only for an unknown operation or an unsupported schema.
func MakeDocument(idx *dmmf.Index, op, rootField string, sel *selection.Object) (*Document, error) {
	rootType, err := idx.RootType(op)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		sel = selection.New()
	}

	root := &dmmf.SchemaField{
		Name: rootType.Name,
		OutputType: &dmmf.OutputTypeRef{
			Type: dmmf.TypeRef{Name: rootType.Name, Output: rootType},
			Kind: dmmf.ObjectKind,
		},
	}

	b := &builder{}
	children := b.selectionToFields(selection.Of(rootField, sel), root)
	if b.err != nil {
		return nil, b.err
	}
	return &Document{Type: op, Children: children}, nil
}

// builder keeps the first unrecoverable error. Everything else is recorded
// on the tree.
type builder struct {
	err error
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *builder) selectionToFields(sel *selection.Object, parent *dmmf.SchemaField) []*Field {
	outputType := parent.OutputType.Type.Output
	fields := []*Field{}

	for _, e := range sel.Entries() {
		name, value := e.Key, e.Value

		field := outputType.Field(name)
		if field == nil {
			fields = append(fields, NewField(Field{
				Name: name,
				Error: &FieldError{
					Kind:         InvalidFieldName,
					ModelName:    outputType.Name,
					ProvidedName: name,
					DidYouMean:   diagnostic.Suggest(name, outputType.FieldNames()),
					OutputType:   outputType,
				},
			}))
			continue
		}

		flag, isBool := value.(bool)
		if !isBool && acceptsOnlyFlags(field) {
			fields = append(fields, NewField(Field{
				Name: name,
				Error: &FieldError{
					Kind:          InvalidFieldType,
					ModelName:     outputType.Name,
					FieldName:     name,
					ProvidedValue: value,
				},
			}))
			continue
		}
		if isBool && !flag {
			continue
		}

		if f := b.buildField(name, value, field); f != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// acceptsOnlyFlags reports whether a field may only be selected with true or
// false.
func acceptsOnlyFlags(field *dmmf.SchemaField) bool {
	switch field.OutputType.Kind {
	case dmmf.EnumKind:
		return true
	case dmmf.ScalarKind:
		return field.OutputType.Type.Name != "Json"
	}
	return false
}

func (b *builder) buildField(name string, value any, field *dmmf.SchemaField) *Field {
	target := field.OutputType.Type.Output
	isRelation := field.OutputType.Kind == dmmf.ObjectKind && target != nil

	obj, isObject := value.(*selection.Object)
	var args *Args
	var selectValue, includeValue any
	if isObject {
		pseudo := &dmmf.InputType{Name: field.Name, Fields: field.Args}
		args = b.objectToArgs(obj.Without("select", "include"), pseudo, target)
		selectValue, _ = obj.Get("select")
		includeValue, _ = obj.Get("include")
	}

	statementError := func(statement string, kind FieldErrorKind) *Field {
		return NewField(Field{
			Name:     name,
			Args:     args,
			Children: []*Field{NewField(Field{Name: statement, Error: &FieldError{Kind: kind, Field: field}})},
		})
	}

	switch {
	case selection.Truthy(selectValue) && selection.Truthy(includeValue):
		return statementError("include", IncludeAndSelect)

	case selection.Truthy(includeValue):
		include, ok := includeValue.(*selection.Object)
		if !ok || include.Len() == 0 {
			return statementError("include", EmptyInclude)
		}
		if isRelation {
			if invalid := invalidIncludes(include, target); len(invalid) > 0 {
				return NewField(Field{Name: name, Statement: "include", Children: invalid})
			}
		}

	case selection.Truthy(selectValue):
		sel, ok := selectValue.(*selection.Object)
		if !ok || sel.Len() == 0 {
			return statementError("select", EmptySelect)
		}
		if !anyTruthy(sel) {
			return statementError("select", NoTrueSelect)
		}
	}

	var children []*Field
	statement := ""
	if isRelation {
		childSelection := defaultSelection(target)
		if sel, ok := selectValue.(*selection.Object); ok {
			childSelection = sel
			statement = "select"
		} else if include, ok := includeValue.(*selection.Object); ok {
			childSelection = selection.DeepExtend(childSelection, include)
			statement = "include"
		}
		children = b.selectionToFields(childSelection, field)
	}

	return NewField(Field{
		Name:        name,
		Args:        args,
		Children:    children,
		Statement:   statement,
		SchemaField: field,
	})
}

// invalidIncludes returns an error field for every include key that is not
// a relation of target.
func invalidIncludes(include *selection.Object, target *dmmf.OutputType) []*Field {
	var relations []string
	for _, f := range target.Fields {
		if f.OutputType.Kind == dmmf.ObjectKind {
			relations = append(relations, f.Name)
		}
	}

	var invalid []*Field
	for _, key := range include.Keys() {
		if slices.Contains(relations, key) {
			continue
		}
		invalid = append(invalid, NewField(Field{
			Name: key,
			Error: &FieldError{
				Kind:            InvalidFieldName,
				ModelName:       target.Name,
				ProvidedName:    key,
				DidYouMean:      diagnostic.Suggest(key, relations),
				IsInclude:       true,
				IsIncludeScalar: target.Field(key) != nil,
				OutputType:      target,
			},
		}))
	}
	return invalid
}

func anyTruthy(o *selection.Object) bool {
	for _, e := range o.Entries() {
		if selection.Truthy(e.Value) {
			return true
		}
	}
	return false
}

// defaultSelection selects every scalar and enum field of t. Embedded types
// are selected along with their parent, recursively.
func defaultSelection(t *dmmf.OutputType) *selection.Object {
	return defaultSelectionOf(t, map[string]bool{})
}

func defaultSelectionOf(t *dmmf.OutputType, visiting map[string]bool) *selection.Object {
	visiting[t.Name] = true
	defer delete(visiting, t.Name)

	sel := selection.New()
	for _, f := range t.Fields {
		switch f.OutputType.Kind {
		case dmmf.ScalarKind, dmmf.EnumKind:
			sel.Set(f.Name, true)
		default:
			nested := f.OutputType.Type.Output
			if nested != nil && nested.IsEmbedded && !visiting[nested.Name] {
				sel.Set(f.Name, selection.Of("select", defaultSelectionOf(nested, visiting)))
			}
		}
	}
	return sel
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnsupportedSchema}, args...)...)
}
