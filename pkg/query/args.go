package query

import (
	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

type argEntry struct {
	key     string
	value   any
	present bool
}

// objectToArgs checks obj against the fields of inputType. Required fields
// the caller left out are reported as missing. outputType, when set, is the
// type of the field the arguments belong to and is only used for hints.
func (b *builder) objectToArgs(obj *selection.Object, inputType *dmmf.InputType, outputType *dmmf.OutputType) *Args {
	var entries []argEntry
	for _, e := range obj.Entries() {
		entries = append(entries, argEntry{key: e.Key, value: e.Value, present: true})
	}
	for _, f := range inputType.Fields {
		if f.IsRequired() && !obj.Has(f.Name) {
			entries = append(entries, argEntry{key: f.Name})
		}
	}

	var args []*Arg
	hasMissing := false
	for _, e := range entries {
		schemaArg := inputType.Field(e.key)
		if schemaArg == nil {
			args = append(args, unknownArg(e, inputType, outputType))
			continue
		}
		arg := b.valueToArg(e.key, e.value, e.present, schemaArg)
		if arg == nil {
			continue
		}
		if arg.Error != nil && arg.Error.Kind == MissingArg {
			hasMissing = true
		}
		args = append(args, arg)
	}

	// Once something is missing, list the optional fields as well so the
	// report can show every option.
	if (obj.Len() == 0 && inputType.AtLeastOne) || hasMissing {
		for _, f := range inputType.Fields {
			if obj.Has(f.Name) || f.IsRequired() {
				continue
			}
			var argType dmmf.TypeRef
			if len(f.InputType) > 0 {
				argType = f.InputType[0].Type
			}
			args = append(args, NewArg(Arg{
				Key:     f.Name,
				Value:   undefined,
				ArgType: argType,
				Error: &ArgError{
					Kind:        MissingArg,
					MissingName: f.Name,
					MissingArg:  f,
					AtLeastOne:  inputType.AtLeastOne,
					AtMostOne:   inputType.AtMostOne,
				},
			}))
		}
	}
	return NewArgs(args)
}

func unknownArg(e argEntry, inputType *dmmf.InputType, outputType *dmmf.OutputType) *Arg {
	err := &ArgError{
		Kind:          InvalidName,
		ProvidedName:  e.key,
		ProvidedValue: e.value,
		OriginalType:  inputType,
		OutputType:    outputType,
	}
	if _, isBool := e.value.(bool); isBool && outputType != nil && outputType.Field(e.key) != nil {
		err.DidYouMeanField = e.key
	} else {
		err.DidYouMeanArg = diagnostic.Suggest(e.key, append(inputType.FieldNames(), "select"))
	}
	return NewArg(Arg{Key: e.key, Value: e.value, Error: err})
}

// valueToArg checks a supplied (or missing) value against one schema
// argument. It returns nil for an optional argument that was not supplied.
func (b *builder) valueToArg(key string, value any, present bool, arg *dmmf.SchemaArg) *Arg {
	if !present {
		if !arg.IsRequired() {
			return nil
		}
		return NewArg(Arg{
			Key:       key,
			Value:     undefined,
			IsEnum:    len(arg.InputType) > 0 && arg.InputType[0].Kind == dmmf.EnumKind,
			SchemaArg: arg,
			Error: &ArgError{
				Kind:        MissingArg,
				ArgName:     key,
				MissingName: key,
				MissingArg:  arg,
			},
		})
	}

	if len(arg.InputType) == 0 {
		return NewArg(Arg{Key: key, Value: value, SchemaArg: arg})
	}
	if !arg.InputType[0].IsList {
		return b.unionToArg(key, value, arg)
	}
	if len(arg.InputType) > 1 {
		b.fail(unsupported("list argument %q has %d candidate types", key, len(arg.InputType)))
		return nil
	}
	return b.listToArg(key, value, arg)
}

// unionToArg tries every candidate type of arg. The first candidate without
// errors wins. Otherwise candidates whose shape matches the value are
// preferred, and among those the one with the fewest errors.
func (b *builder) unionToArg(key string, value any, arg *dmmf.SchemaArg) *Arg {
	candidates := make([]*Arg, len(arg.InputType))
	for i, t := range arg.InputType {
		candidates[i] = b.candidateToArg(key, value, arg, t)
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, c := range candidates {
		if !c.HasError() {
			return c
		}
	}

	var sameKind []*Arg
	for i, c := range candidates {
		if hasSameKind(value, arg.InputType[i]) {
			sameKind = append(sameKind, c)
		}
	}
	if len(sameKind) == 0 {
		sameKind = candidates
	}

	best := sameKind[0]
	bestCount := len(best.collectErrors())
	for _, c := range sameKind[1:] {
		if n := len(c.collectErrors()); n < bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// hasSameKind reports whether an object value meets an input object
// candidate, or a plain value meets a scalar or enum candidate. Null meets
// every candidate.
func hasSameKind(value any, t *dmmf.InputTypeRef) bool {
	if value == nil {
		return true
	}
	return (t.Type.Input != nil) == selection.IsObjectLike(value)
}

func (b *builder) candidateToArg(key string, value any, arg *dmmf.SchemaArg, t *dmmf.InputTypeRef) *Arg {
	input := t.Type.Input
	if input == nil {
		return scalarToArg(key, value, arg, t)
	}

	obj, isObject := value.(*selection.Object)
	if !isObject && value != nil {
		return NewArg(Arg{
			Key:       key,
			Value:     value,
			ArgType:   t.Type,
			SchemaArg: arg,
			Error:     invalidTypeError(key, value, arg, t),
		})
	}

	var argErr *ArgError
	keys := obj.Keys()
	if len(keys) == 0 && input.AtLeastOne {
		argErr = &ArgError{Kind: NeedsAtLeastOne, ArgName: key, TypeName: input.Name, InputType: input}
	}
	if len(keys) > 1 && input.AtMostOne {
		argErr = &ArgError{Kind: NeedsAtMostOne, ArgName: key, TypeName: input.Name, InputType: input, ProvidedKeys: keys}
	}

	var nested any
	if obj != nil {
		nested = b.objectToArgs(obj, input, nil)
	}
	return NewArg(Arg{
		Key:       key,
		Value:     nested,
		ArgType:   t.Type,
		SchemaArg: arg,
		Error:     argErr,
	})
}

// listToArg handles arguments taking a list. A single value is treated as a
// list of one.
func (b *builder) listToArg(key string, value any, arg *dmmf.SchemaArg) *Arg {
	t := arg.InputType[0]
	if value == nil && !t.IsRequired {
		return NewArg(Arg{Key: key, Value: nil, ArgType: t.Type, SchemaArg: arg})
	}

	list, ok := value.([]any)
	if !ok {
		list = []any{value}
	}

	input := t.Type.Input
	if input == nil {
		return scalarToArg(key, list, arg, t)
	}

	elems := make([]any, len(list))
	needsKeys := false
	for i, item := range list {
		obj, isObject := item.(*selection.Object)
		if !isObject {
			elems[i] = NewArg(Arg{Key: key, Value: item, Error: invalidTypeError(key, item, arg, t)})
			continue
		}
		if input.AtLeastOne && obj.Len() == 0 {
			needsKeys = true
		}
		elems[i] = b.objectToArgs(obj, input, nil)
	}

	var argErr *ArgError
	if needsKeys {
		argErr = &ArgError{Kind: NeedsAtLeastOne, ArgName: key, TypeName: input.Name, InputType: input}
	}
	return NewArg(Arg{
		Key:       key,
		Value:     elems,
		ArgType:   t.Type,
		SchemaArg: arg,
		Error:     argErr,
	})
}

func scalarToArg(key string, value any, arg *dmmf.SchemaArg, t *dmmf.InputTypeRef) *Arg {
	a := Arg{
		Key:       key,
		Value:     value,
		ArgType:   t.Type,
		IsEnum:    t.Kind == dmmf.EnumKind || t.Type.Enum != nil,
		SchemaArg: arg,
	}
	if !hasCorrectScalarType(value, t) {
		a.Error = invalidTypeError(key, value, arg, t)
	}
	return NewArg(a)
}

func invalidTypeError(key string, value any, arg *dmmf.SchemaArg, t *dmmf.InputTypeRef) *ArgError {
	return &ArgError{
		Kind:          InvalidType,
		ArgName:       key,
		ProvidedValue: value,
		RequiredType:  &RequiredType{InputType: arg.InputType, BestFitting: t},
	}
}
