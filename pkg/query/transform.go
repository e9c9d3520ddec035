package query

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Transform rewrites a document into its wire form:
//
//   - an order argument {field: "asc"} becomes the enum token field_ASC;
//   - filter objects inside where arguments are flattened, so
//     {email: {startsWith: "x"}} becomes email_starts_with: "x".
//
// The rewrite is applied whether or not the document is valid. Only the
// first entry of an order object is used.
func Transform(doc *Document) *Document {
	return Visit(doc, transformArg)
}

func transformArg(arg *Arg) (*Arg, bool) {
	input := arg.ArgType.Input
	if input == nil {
		return nil, false
	}

	if input.IsOrderType {
		args, ok := arg.Value.(*Args)
		if !ok || len(args.Args) == 0 {
			return nil, false
		}
		first := args.Args[0]
		direction, ok := first.Value.(string)
		if !ok {
			return nil, false
		}
		return NewArg(Arg{
			Key:       arg.Key,
			Value:     first.Key + "_" + strings.ToUpper(direction),
			IsEnum:    true,
			ArgType:   arg.ArgType,
			SchemaArg: arg.SchemaArg,
			Error:     arg.Error,
		}), true
	}

	if input.IsWhereType && arg.SchemaArg != nil {
		out := *arg
		out.IsEnum = false
		switch v := arg.Value.(type) {
		case *Args:
			out.Value = transformWhereArgs(v)
		case []any:
			out.Value = mapArgsList(v, transformWhereArgs)
		}
		return NewArg(out), true
	}
	return nil, false
}

// transformWhereArgs flattens the filter objects of a where input. Relation
// filters and combinator lists are descended into but kept as they are.
func transformWhereArgs(args *Args) *Args {
	var out []*Arg
	for _, arg := range args.Args {
		switch v := arg.Value.(type) {
		case []any:
			a := *arg
			a.Value = mapArgsList(v, transformWhereArgs)
			out = append(out, NewArg(a))
		case *Args:
			if arg.SchemaArg != nil && !arg.SchemaArg.IsRelationFilter {
				for _, op := range v.Args {
					out = append(out, flattenFilter(arg, op))
				}
				continue
			}
			a := *arg
			a.Value = transformWhereArgs(v)
			out = append(out, NewArg(a))
		default:
			out = append(out, arg)
		}
	}
	return NewArgs(out)
}

func flattenFilter(field, op *Arg) *Arg {
	flat := Arg{
		Key:       filterArgName(field.Key, op.Key),
		Value:     op.Value,
		ArgType:   op.ArgType,
		IsEnum:    op.IsEnum,
		SchemaArg: op.SchemaArg,
		Error:     op.Error,
	}
	switch v := op.Value.(type) {
	case *Args:
		if op.SchemaArg != nil && op.SchemaArg.IsRelationFilter {
			flat.Value = transformWhereArgs(v)
		}
	case []any:
		flat.Value = mapArgsList(v, transformWhereArgs)
	}
	return NewArg(flat)
}

// filterArgName names a flattened filter: the field itself for equals, and
// field_operator in snake case otherwise.
func filterArgName(field, operator string) string {
	if operator == "equals" {
		return field
	}
	return field + "_" + inflect.Underscore(operator)
}

func mapArgsList(items []any, fn func(*Args) *Args) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if args, ok := item.(*Args); ok {
			out[i] = fn(args)
			continue
		}
		out[i] = item
	}
	return out
}
