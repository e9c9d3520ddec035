/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type argsOptions struct {
	typeFilter string
	required   bool
	nullable   bool
	name       string
	nameRegex  string
}

func matchesArgFilters(arg *dmmf.SchemaArg, opts *argsOptions, nameRegex *regexp.Regexp) bool {
	if opts.typeFilter != "" && !acceptsType(arg.InputType, opts.typeFilter) {
		return false
	}
	if opts.required && !arg.IsRequired() {
		return false
	}
	if opts.nullable && arg.IsRequired() {
		return false
	}
	if opts.name != "" {
		if matched, _ := filepath.Match(opts.name, arg.Name); !matched {
			return false
		}
	}
	if nameRegex != nil && !nameRegex.MatchString(arg.Name) {
		return false
	}
	return true
}

func formatArgName(arg ArgInfo) string {
	if arg.TypeName != "" && arg.FieldName != "" {
		return fmt.Sprintf("%s.%s.%s", arg.TypeName, arg.FieldName, arg.Name)
	}
	return arg.Name
}

func formatArgText(arg ArgInfo) string {
	return fmt.Sprintf("%s: %s", formatArgName(arg), arg.Type)
}

func formatArgsPretty(args []ArgInfo) string {
	t := makeTable()

	for _, arg := range args {
		required := ""
		if arg.Required {
			required = "required"
		}
		t.Row(formatArgName(arg), arg.Type, required)
	}
	t.Headers("argument", "type", "required")

	return t.String()
}

func argToInfo(arg *dmmf.SchemaArg) ArgInfo {
	return ArgInfo{
		Name:     arg.Name,
		Type:     inputTypeString(arg.InputType),
		Required: arg.IsRequired(),
	}
}

// lookupField resolves "Type.field", or a bare root field name.
func lookupField(idx *dmmf.Index, name string) (typeName string, field *dmmf.SchemaField, err error) {
	typeName, fieldName, ok := strings.Cut(name, ".")
	if !ok {
		field, op := idx.RootField(name)
		if field == nil {
			return "", nil, notFound("root field", name, rootFieldNames(idx))
		}
		root, _ := idx.RootType(op)
		return root.Name, field, nil
	}

	t := idx.OutputTypes[typeName]
	if t == nil {
		var names []string
		for _, o := range idx.OutputTypeList() {
			names = append(names, o.Name)
		}
		return "", nil, notFound("type", typeName, names)
	}
	field = t.Field(fieldName)
	if field == nil {
		if suggestion := findClosest(fieldName, t.FieldNames()); suggestion != "" {
			return "", nil, fmt.Errorf("field '%s' does not exist on type '%s', did you mean '%s'?", fieldName, typeName, suggestion)
		}
		return "", nil, fmt.Errorf("field '%s' does not exist on type '%s'", fieldName, typeName)
	}
	return typeName, field, nil
}

func NewArgsCmd() *cobra.Command {
	opts := &argsOptions{}

	cmd := &cobra.Command{
		Use:   "args [field]",
		Short: "Lists arguments on fields.",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}

			var names []string
			for _, t := range idx.OutputTypeList() {
				for _, field := range t.Fields {
					if len(field.Args) > 0 {
						names = append(names, t.Name+"."+field.Name)
					}
				}
			}
			return completeNames(names, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		Args: cobra.MaximumNArgs(1),
		Long: `Lists arguments on fields in the schema.

If a field is specified (as Type.field, or as a bare root field name such as
findManyUser), only arguments for that field are shown.
If no field is specified, all arguments for all fields are shown.

An argument is required when every type it accepts is required.`,
		Example: `  # Arguments of a root field
  querydoc args findManyUser

  # Arguments of a relation field
  querydoc args User.posts

  # Required arguments across the schema
  querydoc args --required`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArgs(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.typeFilter, "type", "", "Filter to arguments accepting the given type")
	cmd.Flags().BoolVar(&opts.required, "required", false, "Filter to only show required arguments")
	cmd.Flags().BoolVar(&opts.nullable, "nullable", false, "Filter to only show optional arguments")
	cmd.Flags().StringVar(&opts.name, "name", "", "Filter arguments by name using a glob pattern (e.g., *Id, first*)")
	cmd.Flags().StringVar(&opts.nameRegex, "name-regex", "", "Filter arguments by name using a regex pattern")

	return cmd
}

func runArgs(cmd *cobra.Command, args []string, opts *argsOptions) error {
	if opts.required && opts.nullable {
		return fmt.Errorf("--required and --nullable cannot be used together")
	}

	var nameRegex *regexp.Regexp
	if opts.nameRegex != "" {
		var err error
		nameRegex, err = regexp.Compile(opts.nameRegex)
		if err != nil {
			return fmt.Errorf("invalid regex pattern for --name-regex: %w", err)
		}
	}

	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	var argInfos []ArgInfo

	if len(args) == 0 {
		for _, t := range idx.OutputTypeList() {
			for _, field := range t.Fields {
				for _, arg := range field.Args {
					if !matchesArgFilters(arg, opts, nameRegex) {
						continue
					}
					info := argToInfo(arg)
					info.TypeName = t.Name
					info.FieldName = field.Name
					argInfos = append(argInfos, info)
				}
			}
		}
	} else {
		_, field, err := lookupField(idx, args[0])
		if err != nil {
			return err
		}
		for _, arg := range field.Args {
			if matchesArgFilters(arg, opts, nameRegex) {
				argInfos = append(argInfos, argToInfo(arg))
			}
		}
	}

	if len(argInfos) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No arguments found that match the filters.")
	}

	renderer := render.Renderer[ArgInfo]{
		Data:         argInfos,
		TextFormat:   formatArgText,
		PrettyFormat: formatArgsPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
