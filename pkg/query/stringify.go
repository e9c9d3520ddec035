package query

import (
	"strings"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

// stringifyInputType renders an input type as a type block. Optional fields
// are dimmed.
func stringifyInputType(t *dmmf.InputType, greenKeys bool) string {
	lines := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		required := len(f.InputType) > 0 && f.InputType[0].IsRequired
		key := f.Name
		if greenKeys {
			key = diagnostic.Green(key)
		}
		if !required {
			key += "?"
		}
		line := key + ": " + candidateNames(f.InputType)
		if !required {
			line = diagnostic.Dim(line)
		}
		lines = append(lines, line)
	}
	return diagnostic.Dim("type") + " " + diagnostic.Bold(t.Name) + " " + diagnostic.Dim("{") + "\n" +
		diagnostic.Indent(strings.Join(lines, "\n"), tab) + "\n" +
		diagnostic.Dim("}")
}

func candidateNames(refs dmmf.InputTypeRefs) string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = wrapWithList(ref.Type.Name, ref.IsList)
	}
	return strings.Join(names, " | ")
}

// missingType is what the diagnostic echo shows for a missing argument: the
// field skeleton of a single input object, or the candidate names.
func missingType(arg *dmmf.SchemaArg, path string) any {
	if len(arg.InputType) == 1 {
		return inputTypeToJSON(arg.InputType[0], strings.Count(path, "where.") == 1)
	}
	return diagnostic.Raw(candidateNames(arg.InputType))
}

// inputTypeToJSON describes a candidate type as a literal: an object of
// field names to type names for input objects, the value list for enums and
// the type name otherwise. nameOnly collapses input objects to their name.
func inputTypeToJSON(ref *dmmf.InputTypeRef, nameOnly bool) any {
	switch {
	case ref.Type.Enum != nil:
		return diagnostic.Raw(strings.Join(ref.Type.Enum.Values, " | "))
	case ref.Type.Input == nil:
		return diagnostic.Raw(ref.Type.Name)
	case nameOnly:
		return diagnostic.Raw(ref.Type.Input.Name)
	}

	out := selection.New()
	for _, f := range ref.Type.Input.Fields {
		if len(f.InputType) == 0 {
			continue
		}
		first := f.InputType[0]
		key := f.Name
		if !first.IsRequired {
			key += "?"
		}
		out.Set(key, inputTypeToJSON(first, true))
	}
	return out
}
