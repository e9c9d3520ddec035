package query

import (
	"strings"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

// ValidateOptions controls how validation errors are reported.
type ValidateOptions struct {
	// TopLevel keeps the root field name at the head of every path and in
	// the echoed selection.
	TopLevel bool
	// Method names the invocation in the report header. It defaults to the
	// root field name.
	Method string
	// Callsite, when set, is shown below the header.
	Callsite *diagnostic.Callsite
}

// ValidationError is returned by Validate. Message is the rendered report.
type ValidationError struct {
	Message     string            `json:"message"`
	FieldErrors []FieldErrorEntry `json:"fieldErrors"`
	ArgErrors   []ArgErrorEntry   `json:"argErrors"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Collect gathers every error attached to the document. Unless topLevel is
// set the root field name is dropped from the paths.
func (d *Document) Collect(topLevel bool) ([]FieldErrorEntry, []ArgErrorEntry) {
	var fieldErrors []FieldErrorEntry
	var argErrors []ArgErrorEntry
	for _, child := range d.Children {
		if child.isValid() {
			continue
		}
		fe, ae := child.collectErrors()
		fieldErrors = append(fieldErrors, fe...)
		argErrors = append(argErrors, ae...)
	}
	if !topLevel {
		for i := range fieldErrors {
			fieldErrors[i].Path = fieldErrors[i].Path[1:]
		}
		for i := range argErrors {
			argErrors[i].Path = argErrors[i].Path[1:]
		}
	}
	return fieldErrors, argErrors
}

// Validate returns nil when the document has no errors, and a
// *ValidationError describing all of them otherwise. sel is the selection
// the document was built from; it is echoed in the report.
func (d *Document) Validate(sel *selection.Object, opts ValidateOptions) error {
	fieldErrors, argErrors := d.Collect(opts.TopLevel)
	if len(fieldErrors) == 0 && len(argErrors) == 0 {
		return nil
	}

	if sel == nil {
		sel = selection.New()
	}
	rootName := ""
	if len(d.Children) > 0 {
		rootName = d.Children[0].Name
	}
	echo := sel
	if opts.TopLevel {
		echo = selection.Of(rootName, sel)
	}
	method := opts.Method
	if method == "" {
		method = rootName
	}

	r := &reporter{echo: echo, method: method}
	marks := r.marks(fieldErrors, argErrors)
	return &ValidationError{
		Message:     r.render(fieldErrors, argErrors, marks, opts.Callsite),
		FieldErrors: fieldErrors,
		ArgErrors:   argErrors,
	}
}

type reporter struct {
	echo   *selection.Object
	method string
}

// normalize turns an error path into a path through the echoed selection.
// Index 0 is dropped where the selection held a single value that was
// treated as a list of one.
func (r *reporter) normalize(path []string) []string {
	var out []string
	var pointer any = r.echo
	for _, key := range path {
		if _, isList := pointer.([]any); !isList && key == "0" {
			if obj, ok := pointer.(*selection.Object); !ok || !obj.Has(key) {
				continue
			}
		}
		if next, ok := selection.Lookup(pointer, []string{key}); ok && next != nil {
			pointer = next
		}
		out = append(out, key)
	}
	return out
}

func joinPath(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}

func (r *reporter) marks(fieldErrors []FieldErrorEntry, argErrors []ArgErrorEntry) diagnostic.Marks {
	var marks diagnostic.Marks
	trueValue := diagnostic.Raw("true")

	for _, fe := range fieldErrors {
		path := r.normalize(fe.Path)
		joined := strings.Join(path, ".")
		parent := ""
		if len(path) > 0 {
			parent = strings.Join(path[:len(path)-1], ".")
		}

		switch fe.Error.Kind {
		case InvalidFieldName:
			marks.KeyPaths = append(marks.KeyPaths, joined)
			for _, f := range fe.Error.OutputType.Fields {
				if fe.Error.IsInclude && f.OutputType.Kind != dmmf.ObjectKind {
					continue
				}
				marks.Missing = append(marks.Missing, diagnostic.MissingItem{Path: joinPath(parent, f.Name), Type: trueValue})
			}
		case IncludeAndSelect:
			marks.KeyPaths = append(marks.KeyPaths, joinPath(parent, "select"), joinPath(parent, "include"))
		case EmptySelect, NoTrueSelect, EmptyInclude:
			for _, f := range statementFields(fe.Error) {
				marks.Missing = append(marks.Missing, diagnostic.MissingItem{Path: joinPath(joined, f.Name), Type: trueValue})
			}
		default:
			marks.ValuePaths = append(marks.ValuePaths, joined)
		}
	}

	for _, ae := range argErrors {
		joined := strings.Join(r.normalize(ae.Path), ".")
		switch ae.Error.Kind {
		case InvalidName:
			marks.KeyPaths = append(marks.KeyPaths, joined)
		case MissingArg:
			marks.Missing = append(marks.Missing, diagnostic.MissingItem{
				Path:       joined,
				Type:       missingType(ae.Error.MissingArg, joined),
				IsRequired: ae.Error.MissingArg.IsRequired(),
			})
		case NeedsAtLeastOne:
		default:
			marks.ValuePaths = append(marks.ValuePaths, joined)
		}
	}
	return marks
}

// statementFields lists what an empty or falsy select (or include) could
// have selected.
func statementFields(err *FieldError) []*dmmf.SchemaField {
	if err.Field == nil || err.Field.OutputType.Type.Output == nil {
		return nil
	}
	var out []*dmmf.SchemaField
	for _, f := range err.Field.OutputType.Type.Output.Fields {
		if err.Kind == EmptyInclude && f.OutputType.Kind != dmmf.ObjectKind {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (r *reporter) render(fieldErrors []FieldErrorEntry, argErrors []ArgErrorEntry, marks diagnostic.Marks, callsite *diagnostic.Callsite) string {
	hasRequiredMissing, hasOptionalMissing := false, false
	for _, ae := range argErrors {
		if ae.Error.Kind != MissingArg {
			continue
		}
		if ae.Error.MissingArg.IsRequired() {
			hasRequiredMissing = true
		} else {
			hasOptionalMissing = true
		}
	}
	hasMissing := hasRequiredMissing || hasOptionalMissing

	var messages []string
	for _, ae := range argErrors {
		if ae.Error.Kind == MissingArg && !ae.Error.MissingArg.IsRequired() {
			continue
		}
		messages = append(messages, r.argMessage(ae, hasMissing))
	}
	for _, fe := range fieldErrors {
		messages = append(messages, r.fieldMessage(fe))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(diagnostic.Red("Invalid `") + diagnostic.RedBold(r.method+"()") + diagnostic.Red("` invocation"))
	if callsite != nil {
		b.WriteString(diagnostic.Red(" in") + "\n" + callsite.Render() + "\n")
	} else {
		b.WriteString(diagnostic.Red(":") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(diagnostic.PrintWithMarks(r.echo, marks))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(messages, "\n"))
	b.WriteString(missingLegend(hasRequiredMissing, hasOptionalMissing))
	b.WriteString("\n")
	return b.String()
}

func missingLegend(required, optional bool) string {
	legend := ""
	if required {
		legend = "\n" + diagnostic.Dim("Note: Lines with ") + diagnostic.Green("+") + " " + diagnostic.Dim("are required")
	}
	if optional {
		if required {
			legend += diagnostic.Dim(", lines with ") + diagnostic.Green("?") + diagnostic.Dim(" are optional")
		} else {
			legend = "\n" + diagnostic.Dim("Note: Lines with ") + diagnostic.Green("?") + diagnostic.Dim(" are optional")
		}
	}
	if legend != "" {
		legend += diagnostic.Dim(".")
	}
	return legend
}

func (r *reporter) fieldMessage(fe FieldErrorEntry) string {
	err := fe.Error
	green := diagnostic.Dim(diagnostic.Green("green"))

	switch err.Kind {
	case InvalidFieldName:
		statement, wording := "select", "Unknown"
		if err.IsInclude {
			statement = "include"
		}
		if err.IsIncludeScalar {
			wording = "Invalid scalar"
		}
		msg := wording + " field " + diagnostic.Red("`"+err.ProvidedName+"`") +
			" for " + diagnostic.Bold(statement) + " statement on model " + diagnostic.Bold(err.ModelName) +
			". Available options are listed in " + green + "."
		if err.DidYouMean != "" {
			msg += " Did you mean " + diagnostic.Green("`"+err.DidYouMean+"`") + "?"
		}
		if err.IsIncludeScalar {
			msg += "\nNote, that " + diagnostic.Bold("include") + " statements only accept relation fields."
		}
		return msg

	case InvalidFieldType:
		return "Invalid value " + diagnostic.Red(diagnostic.Stringify(err.ProvidedValue)) +
			" of type " + diagnostic.Red(InferType(err.ProvidedValue, dmmf.TypeRef{})) +
			" for field " + diagnostic.Bold(err.FieldName) + " on model " + diagnostic.Bold(err.ModelName) +
			". Expected either " + diagnostic.Green("true") + " or " + diagnostic.Green("false") + "."

	case EmptySelect:
		return "The " + diagnostic.Red("`select`") + " statement for type " + diagnostic.Bold(statementTypeName(err)) +
			" must not be empty. Available options are listed in " + green + "."

	case EmptyInclude:
		if len(statementFields(err)) == 0 {
			return diagnostic.Bold(statementTypeName(err)) + " does not have any relation and therefore can't have an " +
				diagnostic.Red("`include`") + " statement."
		}
		return "The " + diagnostic.Red("`include`") + " statement for type " + diagnostic.Bold(statementTypeName(err)) +
			" must not be empty. Available options are listed in " + green + "."

	case NoTrueSelect:
		return "The " + diagnostic.Red("`select`") + " statement for type " + diagnostic.Bold(statementTypeName(err)) +
			" needs " + diagnostic.Bold("at least one truthy value") + "."

	case IncludeAndSelect:
		return "Please " + diagnostic.Bold("either") + " use " + diagnostic.Green("`include`") + " or " +
			diagnostic.Green("`select`") + ", but " + diagnostic.Red("not both") + " at the same time."
	}
	return ""
}

func statementTypeName(err *FieldError) string {
	if err.Field == nil {
		return ""
	}
	return err.Field.OutputType.Type.Name
}

func (r *reporter) argMessage(ae ArgErrorEntry, hasMissing bool) string {
	err := ae.Error
	path := strings.Join(ae.Path, ".")

	switch err.Kind {
	case InvalidName:
		typeName := ""
		if err.OutputType != nil {
			typeName = err.OutputType.Name
		} else if err.OriginalType != nil {
			typeName = err.OriginalType.Name
		}
		msg := "Unknown arg " + diagnostic.Red("`"+err.ProvidedName+"`") + " in " + diagnostic.Bold(path) +
			" for type " + diagnostic.Bold(typeName) + "."
		switch {
		case err.DidYouMeanField != "":
			example := "{ select: { " + err.ProvidedName + ": " + diagnostic.Stringify(err.ProvidedValue) + " } }"
			msg += "\n→ Did you forget to wrap it with `" + diagnostic.Green("select") + "`? " +
				diagnostic.Dim("e.g. ") + diagnostic.Green(example)
		case err.DidYouMeanArg != "":
			msg += " Did you mean `" + diagnostic.Green(err.DidYouMeanArg) + "`?"
			if !hasMissing && err.OriginalType != nil {
				msg += " " + diagnostic.Dim("Available args:") + "\n" + stringifyInputType(err.OriginalType, true)
			}
		case err.OriginalType != nil && len(err.OriginalType.Fields) == 0:
			msg += " The field " + diagnostic.Bold(err.OriginalType.Name) + " has no arguments."
		case !hasMissing && err.OriginalType != nil:
			msg += " Available args:\n\n" + stringifyInputType(err.OriginalType, true)
		}
		return msg

	case InvalidType:
		return r.invalidTypeMessage(err)

	case MissingArg:
		forPath := ""
		if !(len(ae.Path) == 1 && ae.Path[0] == err.MissingName) {
			forPath = " for " + diagnostic.Bold(path)
		}
		return "Argument " + diagnostic.Green(err.MissingName) + forPath + " is missing."

	case NeedsAtLeastOne:
		return "Argument " + diagnostic.Bold(path) + " of type " + diagnostic.Bold(err.TypeName) +
			" needs " + diagnostic.Green("at least one") + " argument. Available args are listed in " +
			diagnostic.Dim(diagnostic.Green("green")) + "."

	case NeedsAtMostOne:
		provided := make([]string, len(err.ProvidedKeys))
		for i, k := range err.ProvidedKeys {
			provided[i] = diagnostic.Red(k)
		}
		msg := "Argument " + diagnostic.Bold(path) + " of type " + diagnostic.Bold(err.TypeName) +
			" needs " + diagnostic.Green("exactly one") + " argument, but you provided " +
			strings.Join(provided, " and ") + "."
		if err.InputType != nil {
			msg += " Please choose one. " + diagnostic.Dim("Available args:") + "\n" + stringifyInputType(err.InputType, true)
		}
		return msg
	}
	return ""
}

func (r *reporter) invalidTypeMessage(err *ArgError) string {
	value := diagnostic.Stringify(err.ProvidedValue)
	separator := " "
	if strings.Contains(value, "\n") {
		value = "\n" + value + "\n"
		separator = ""
	}
	provided := InferType(err.ProvidedValue, dmmf.TypeRef{})
	best := err.RequiredType.BestFitting

	if best.Type.Enum != nil {
		values := make([]string, len(best.Type.Enum.Values))
		for i, v := range best.Type.Enum.Values {
			values[i] = diagnostic.Green(best.Type.Enum.Name + "." + v)
		}
		return "Argument " + diagnostic.Bold(err.ArgName) + ": Provided value " + diagnostic.Red(value) + separator +
			"of type " + diagnostic.Red(provided) + " on " + diagnostic.Bold(r.method) + " is not a " +
			diagnostic.Green(wrapWithList(best.Type.Name, best.IsList)) + ".\n→ Possible values: " +
			strings.Join(values, ", ")
	}

	expected := make([]string, len(err.RequiredType.InputType))
	var inputCandidate *dmmf.InputType
	for i, t := range err.RequiredType.InputType {
		expected[i] = diagnostic.Green(wrapWithList(t.Type.Name, best.IsList))
		if t.Type.Input != nil {
			inputCandidate = t.Type.Input
		}
	}
	expectation := strings.Join(expected, " or ")
	if best.Type.Input != nil {
		expectation += ":\n" + stringifyInputType(best.Type.Input, false)
	} else {
		expectation += "."
		if len(err.RequiredType.InputType) == 2 && inputCandidate != nil {
			expectation += "\n" + stringifyInputType(inputCandidate, true)
		}
	}

	return "Argument " + diagnostic.Bold(err.ArgName) + ": Got invalid value " + diagnostic.Red(value) + separator +
		"on " + diagnostic.Bold(r.method) + ". Provided " + diagnostic.Red(provided) + ", expected " + expectation
}
