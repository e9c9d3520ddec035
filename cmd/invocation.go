package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/query"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/spf13/cobra"
)

// invocationOptions names the root field a selection is passed to, either
// directly or through a model action, and how problems are reported.
type invocationOptions struct {
	root     string
	model    string
	action   string
	mutation bool

	topLevel bool
	callsite string
}

func (o *invocationOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.root, "root", "", "Root field to invoke, such as findManyUser")
	cmd.Flags().StringVar(&o.model, "model", "", "Model to invoke an action on (requires --action)")
	cmd.Flags().StringVar(&o.action, "action", "", "Action to invoke on --model: "+strings.Join(dmmf.Actions, ", "))
	cmd.Flags().BoolVar(&o.mutation, "mutation", false, "Build a mutation even if the root field exists on the query type")

	_ = cmd.RegisterFlagCompletionFunc("root", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		idx, err := loadSchema()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return completeNames(rootFieldNames(idx), toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		idx, err := loadSchema()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return completeNames(mappedModels(idx), toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func (o *invocationOptions) addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.topLevel, "top-level", false, "Keep the root field in error paths and in the echoed selection")
	cmd.Flags().StringVar(&o.callsite, "callsite", "", "Source location of the invocation, as file:line[:column]")
}

type invocation struct {
	op        string
	rootField string
	// method names the invocation in reports, such as "users.findMany".
	method string
}

func rootFieldNames(idx *dmmf.Index) []string {
	var names []string
	for _, t := range []*dmmf.OutputType{idx.QueryType, idx.MutationType} {
		if t != nil {
			names = append(names, t.FieldNames()...)
		}
	}
	return names
}

func mappedModels(idx *dmmf.Index) []string {
	names := make([]string, 0, len(idx.Mappings))
	for name := range idx.Mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *invocationOptions) resolve(idx *dmmf.Index) (*invocation, error) {
	inv := &invocation{}

	switch {
	case o.root != "" && o.model != "":
		return nil, fmt.Errorf("--root and --model cannot be used together")
	case o.model != "":
		mapping, ok := idx.Mappings[o.model]
		if !ok {
			return nil, notFound("model", o.model, mappedModels(idx))
		}
		if o.action == "" {
			return nil, fmt.Errorf("--action is required with --model")
		}
		if !slices.Contains(dmmf.Actions, o.action) {
			if suggestion := findClosest(o.action, dmmf.Actions); suggestion != "" {
				return nil, fmt.Errorf("action '%s' is not valid, did you mean '%s'?", o.action, suggestion)
			}
			return nil, fmt.Errorf("action '%s' is not valid (valid: %s)", o.action, strings.Join(dmmf.Actions, ", "))
		}
		field, ok := idx.MappingFor(o.model, o.action)
		if !ok {
			return nil, fmt.Errorf("model '%s' has no %s action", o.model, o.action)
		}
		inv.rootField = field
		inv.method = mapping.Plural + "." + o.action
	case o.root != "":
		if o.action != "" {
			return nil, fmt.Errorf("--action requires --model")
		}
		inv.rootField = o.root
		inv.method = o.root
	default:
		return nil, fmt.Errorf("a root field is required: use --root, or --model with --action")
	}

	field, op := idx.RootField(inv.rootField)
	if field == nil {
		return nil, notFound("root field", inv.rootField, rootFieldNames(idx))
	}
	inv.op = op
	if o.mutation {
		inv.op = "mutation"
	}
	if clientName != "" {
		inv.method = clientName + "." + inv.method
	}
	return inv, nil
}

func (o *invocationOptions) validateOptions(inv *invocation) (query.ValidateOptions, error) {
	opts := query.ValidateOptions{TopLevel: o.topLevel, Method: inv.method}
	if o.callsite != "" {
		callsite, err := parseCallsite(o.callsite)
		if err != nil {
			return opts, err
		}
		opts.Callsite = callsite
	}
	return opts, nil
}

// parseCallsite reads "file:line[:column]". The source line is loaded from
// the file when it can be read.
func parseCallsite(value string) (*diagnostic.Callsite, error) {
	parts := strings.Split(value, ":")
	n := len(parts)
	callsite := &diagnostic.Callsite{Column: 1}

	if n >= 3 {
		line, lineErr := strconv.Atoi(parts[n-2])
		column, colErr := strconv.Atoi(parts[n-1])
		if lineErr == nil && colErr == nil {
			callsite.File = strings.Join(parts[:n-2], ":")
			callsite.Line = line
			callsite.Column = column
		}
	}
	if callsite.Line == 0 && n >= 2 {
		if line, err := strconv.Atoi(parts[n-1]); err == nil {
			callsite.File = strings.Join(parts[:n-1], ":")
			callsite.Line = line
		}
	}
	if callsite.File == "" || callsite.Line < 1 || callsite.Column < 1 {
		return nil, fmt.Errorf("invalid callsite '%s': expected file:line[:column]", value)
	}

	if data, err := os.ReadFile(callsite.File); err == nil {
		lines := strings.Split(string(data), "\n")
		if callsite.Line <= len(lines) {
			callsite.Source = strings.TrimRight(lines[callsite.Line-1], "\r")
		}
	}
	return callsite, nil
}

// parseSelection parses a selection read from name. Blank input is an empty
// selection.
func parseSelection(name string, data []byte) (*selection.Object, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return selection.New(), nil
	}
	return selection.Parse(data, name)
}

// formatSelectionError renders a parse error with the offending line when
// the position is known.
func formatSelectionError(name string, data []byte, err error) string {
	var syntaxErr *selection.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err.Error()
	}
	out := diagnostic.RenderLocation(name, syntaxErr.Line, syntaxErr.Column)
	lines := strings.Split(string(data), "\n")
	if syntaxErr.Line >= 1 && syntaxErr.Line <= len(lines) {
		out += "\n" + diagnostic.RenderSnippet(lines[syntaxErr.Line-1], syntaxErr.Line, syntaxErr.Column, 1, syntaxErr.Msg)
	} else {
		out += "\n  " + syntaxErr.Msg
	}
	return out
}
