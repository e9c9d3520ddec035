// Package query builds documents from selection objects, validates them
// against a schema index, rewrites them into their wire form and unpacks
// responses.
//
// A Document is a tree of Fields. Fields carry Args, and an Arg's value is
// a scalar, a nested *Args, a list of scalars, or a list of *Args. Problems
// found while building are attached to the offending node as FieldError or
// ArgError values instead of aborting the build, so the whole tree can be
// reported at once by Validate.
package query

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
)

const tab = 2

// undefinedValue marks an argument that was never supplied. It is only used
// for missing arguments and is left out of the rendered document.
type undefinedValue struct{}

func (undefinedValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

var undefined = undefinedValue{}

func isUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Document is the root of a built operation.
type Document struct {
	Type     string   `json:"type"`
	Children []*Field `json:"children"`
}

func (d *Document) String() string {
	children := make([]string, len(d.Children))
	for i, c := range d.Children {
		children[i] = c.String()
	}
	return d.Type + " {\n" + diagnostic.Indent(strings.Join(children, "\n"), tab) + "\n}"
}

// Field is a selected field. Children is nil for scalars and non-nil for
// relations. Statement records whether the children came from a "select" or
// an "include" statement.
type Field struct {
	Name        string            `json:"name"`
	Args        *Args             `json:"args,omitempty"`
	Children    []*Field          `json:"children,omitempty"`
	Error       *FieldError       `json:"error,omitempty"`
	Statement   string            `json:"statement,omitempty"`
	SchemaField *dmmf.SchemaField `json:"-"`

	hasInvalidChild bool
	hasInvalidArg   bool
}

// NewField returns a copy of f with its validity flags computed.
func NewField(f Field) *Field {
	for _, c := range f.Children {
		if c.Error != nil || c.hasInvalidChild || c.hasInvalidArg {
			f.hasInvalidChild = true
			break
		}
	}
	f.hasInvalidArg = f.Args != nil && f.Args.hasInvalidArg
	return &f
}

func (f *Field) HasInvalidChild() bool { return f.hasInvalidChild }
func (f *Field) HasInvalidArg() bool   { return f.hasInvalidArg }

func (f *Field) isValid() bool {
	return f.Error == nil && !f.hasInvalidChild && !f.hasInvalidArg
}

func (f *Field) String() string {
	str := f.Name
	if f.Error != nil {
		return str + " # INVALID_FIELD"
	}

	if f.Args != nil {
		rendered := f.Args.rendered()
		switch len(rendered) {
		case 0:
		case 1:
			str += "(" + rendered[0] + ")"
		default:
			str += "(\n" + diagnostic.Indent(strings.Join(rendered, "\n"), tab) + "\n)"
		}
	}

	if f.Children != nil {
		children := make([]string, len(f.Children))
		for i, c := range f.Children {
			children[i] = c.String()
		}
		str += " {\n" + diagnostic.Indent(strings.Join(children, "\n"), tab) + "\n}"
	}
	return str
}

func (f *Field) collectErrors() ([]FieldErrorEntry, []ArgErrorEntry) {
	var fieldErrors []FieldErrorEntry
	var argErrors []ArgErrorEntry

	if f.Error != nil {
		fieldErrors = append(fieldErrors, FieldErrorEntry{Path: []string{f.Name}, Error: f.Error})
	}

	prefix := []string{f.Name}
	if f.Statement != "" {
		prefix = append(prefix, f.Statement)
	}
	for _, child := range f.Children {
		if child.isValid() {
			continue
		}
		fe, ae := child.collectErrors()
		fieldErrors = append(fieldErrors, prefixFieldErrors(prefix, fe)...)
		argErrors = append(argErrors, prefixArgErrors(prefix, ae)...)
	}

	if f.Args != nil {
		argErrors = append(argErrors, prefixArgErrors([]string{f.Name}, f.Args.collectErrors())...)
	}
	return fieldErrors, argErrors
}

// Args is an ordered argument list.
type Args struct {
	Args []*Arg `json:"args"`

	hasInvalidArg bool
}

func NewArgs(args []*Arg) *Args {
	a := &Args{Args: args}
	if a.Args == nil {
		a.Args = []*Arg{}
	}
	for _, arg := range a.Args {
		if arg.hasError {
			a.hasInvalidArg = true
			break
		}
	}
	return a
}

func (a *Args) HasInvalidArg() bool { return a.hasInvalidArg }

// Get returns the argument with the given key.
func (a *Args) Get(key string) *Arg {
	for _, arg := range a.Args {
		if arg.Key == key {
			return arg
		}
	}
	return nil
}

func (a *Args) rendered() []string {
	var out []string
	for _, arg := range a.Args {
		if s := arg.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (a *Args) String() string {
	return strings.Join(a.rendered(), "\n")
}

func (a *Args) collectErrors() []ArgErrorEntry {
	var out []ArgErrorEntry
	for _, arg := range a.Args {
		out = append(out, arg.collectErrors()...)
	}
	return out
}

// Arg is a single argument. Value is a scalar, *Args, or a []any holding
// scalars, *Args or invalid *Arg elements.
type Arg struct {
	Key       string          `json:"key"`
	Value     any             `json:"value"`
	ArgType   dmmf.TypeRef    `json:"argType"`
	IsEnum    bool            `json:"isEnum,omitempty"`
	Error     *ArgError       `json:"error,omitempty"`
	SchemaArg *dmmf.SchemaArg `json:"-"`

	hasError bool
}

// NewArg returns a copy of a with its validity flag computed.
func NewArg(a Arg) *Arg {
	a.hasError = a.Error != nil
	switch v := a.Value.(type) {
	case *Args:
		a.hasError = a.hasError || v.hasInvalidArg
	case []any:
		for _, item := range v {
			switch elem := item.(type) {
			case *Args:
				a.hasError = a.hasError || elem.hasInvalidArg
			case *Arg:
				a.hasError = a.hasError || elem.hasError
			}
		}
	}
	return &a
}

func (a *Arg) HasError() bool { return a.hasError }

func (a *Arg) String() string {
	if isUndefined(a.Value) {
		return ""
	}
	return a.Key + ": " + a.valueString(a.Value)
}

func (a *Arg) valueString(value any) string {
	switch v := value.(type) {
	case *Args:
		return "{\n" + diagnostic.Indent(v.String(), tab) + "\n}"
	case *Arg:
		return a.valueString(v.Value)
	case []any:
		items := make([]string, len(v))
		scalarList := true
		for i, item := range v {
			switch item.(type) {
			case *Args, *Arg, *selection.Object, []any:
				scalarList = false
			}
			items[i] = a.valueString(item)
		}
		if scalarList {
			return "[" + strings.Join(items, ", ") + "]"
		}
		return "[\n" + diagnostic.Indent(strings.Join(items, ",\n"), tab) + "\n]"
	default:
		return literal(value, a.IsEnum)
	}
}

func literal(value any, isEnum bool) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		if isEnum {
			return v
		}
		return jsonString(v)
	case time.Time:
		return jsonString(v.UTC().Format(selection.ISOLayout))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "null"
		}
		return string(b)
	}
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (a *Arg) collectErrors() []ArgErrorEntry {
	if !a.hasError {
		return nil
	}
	var out []ArgErrorEntry
	if a.Error != nil {
		out = append(out, ArgErrorEntry{Path: []string{a.Key}, Error: a.Error})
	}
	switch v := a.Value.(type) {
	case *Args:
		out = append(out, prefixArgErrors([]string{a.Key}, v.collectErrors())...)
	case []any:
		for i, item := range v {
			index := strconv.Itoa(i)
			switch elem := item.(type) {
			case *Args:
				out = append(out, prefixArgErrors([]string{a.Key, index}, elem.collectErrors())...)
			case *Arg:
				if elem.Error != nil {
					out = append(out, ArgErrorEntry{Path: []string{a.Key, index}, Error: elem.Error})
				}
			}
		}
	}
	return out
}
