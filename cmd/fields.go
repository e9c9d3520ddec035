/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type fieldsOptions struct {
	hasArg    []string
	returns   string
	required  bool
	nullable  bool
	list      bool
	name      string
	nameRegex string
}

// fieldRow is a field of an output or input type with what the filters look at.
type fieldRow struct {
	info     FieldInfo
	args     []string
	returns  []string
	required bool
	list     bool
}

func outputFieldRow(field *dmmf.SchemaField) fieldRow {
	var args []ArgumentInfo
	var argNames []string
	for _, arg := range field.Args {
		args = append(args, ArgumentInfo{Name: arg.Name, Type: inputTypeString(arg.InputType)})
		argNames = append(argNames, arg.Name)
	}
	return fieldRow{
		info: FieldInfo{
			Name:      field.Name,
			Arguments: args,
			Type:      outputTypeString(field.OutputType),
		},
		args:     argNames,
		returns:  []string{field.OutputType.Type.Name},
		required: field.OutputType.IsRequired,
		list:     field.OutputType.IsList,
	}
}

func inputFieldRow(field *dmmf.SchemaArg) fieldRow {
	list := false
	for _, ref := range field.InputType {
		list = list || ref.IsList
	}
	return fieldRow{
		info: FieldInfo{
			Name: field.Name,
			Type: inputTypeString(field.InputType),
		},
		returns:  inputBaseNames(field.InputType),
		required: field.IsRequired(),
		list:     list,
	}
}

// typeFieldRows returns the fields of an output or input type.
func typeFieldRows(idx *dmmf.Index, typeName string) []fieldRow {
	var rows []fieldRow
	if t := idx.OutputTypes[typeName]; t != nil {
		for _, f := range t.Fields {
			rows = append(rows, outputFieldRow(f))
		}
	}
	if t := idx.InputTypes[typeName]; t != nil {
		for _, f := range t.Fields {
			rows = append(rows, inputFieldRow(f))
		}
	}
	return rows
}

func formatFieldName(field FieldInfo, format render.Format) string {
	name := field.Name
	if field.TypeName != "" {
		name = field.TypeName + "." + field.Name
	}

	if len(field.Arguments) == 0 {
		return name
	}

	var args []string
	for _, arg := range field.Arguments {
		args = append(args, fmt.Sprintf("%s: %s", arg.Name, arg.Type))
	}

	if format == render.FormatPretty {
		return fmt.Sprintf("%s(\n\t\t%s\n\t)", name, strings.Join(args, ",\n\t\t"))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}

func formatFieldText(field FieldInfo) string {
	return fmt.Sprintf("%s: %s", formatFieldName(field, render.FormatText), field.Type)
}

func formatFieldsPretty(fields []FieldInfo) string {
	t := makeTable()

	for _, field := range fields {
		t.Row(formatFieldName(field, render.FormatPretty), field.Type)
	}
	t.Headers("field", "type")

	return t.String()
}

func (o *fieldsOptions) matches(row fieldRow, nameRegex *regexp.Regexp) bool {
	for _, argName := range o.hasArg {
		if !slices.Contains(row.args, argName) {
			return false
		}
	}
	if o.returns != "" && !slices.Contains(row.returns, o.returns) {
		return false
	}
	if o.required && !row.required {
		return false
	}
	if o.nullable && row.required {
		return false
	}
	if o.list && !row.list {
		return false
	}
	if o.name != "" {
		if matched, _ := filepath.Match(o.name, row.info.Name); !matched {
			return false
		}
	}
	if nameRegex != nil && !nameRegex.MatchString(row.info.Name) {
		return false
	}
	return true
}

func NewFieldsCmd() *cobra.Command {
	opts := &fieldsOptions{}

	cmd := &cobra.Command{
		Use:   "fields [type]",
		Short: "Lists fields on a type or across all types",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var names []string
			for _, t := range idx.OutputTypeList() {
				names = append(names, t.Name)
			}
			for _, t := range idx.InputTypeList() {
				names = append(names, t.Name)
			}
			return completeNames(names, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		Args: cobra.MaximumNArgs(1),
		Long: `Lists fields on an output or input type, or across all types.

If a type is specified, shows fields for that type only.
If no type is specified, shows all fields prefixed with their type (User.id, Post.title, etc).

Input type fields show every type they accept, separated by "|", in the
order the builder tries them: "email: String | StringFilter".

Output formats:
  text    "posts(where: PostWhereInput, first: Int): [Post]", etc. (default when piping)
  json    [{"name": "id", "type": "String!"}, ...]
  pretty  Formatted table with columns (default in terminal)

Multiple filters can be combined and are applied with AND logic.`,
		Example: `  # See all fields on a type
  querydoc fields User

  # The accepted shapes of every where field
  querydoc fields UserWhereInput

  # Fields with pagination arguments
  querydoc fields --has-arg skip --has-arg first

  # Fields accepting a string filter
  querydoc fields --returns StringFilter

  # Fields starting with "find"
  querydoc fields --name "find*"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.hasArg, "has-arg", nil, "Filter to fields that have the given argument (can be specified multiple times)")
	cmd.Flags().StringVar(&opts.returns, "returns", "", "Filter to fields that return or accept the given type")
	cmd.Flags().BoolVar(&opts.required, "required", false, "Filter to only show required fields")
	cmd.Flags().BoolVar(&opts.nullable, "nullable", false, "Filter to only show optional fields")
	cmd.Flags().BoolVar(&opts.list, "list", false, "Filter to only show list fields")
	cmd.Flags().StringVar(&opts.name, "name", "", "Filter fields by name using a glob pattern (e.g., *Id, find*)")
	cmd.Flags().StringVar(&opts.nameRegex, "name-regex", "", "Filter fields by name using a regex pattern")

	return cmd
}

func runFields(cmd *cobra.Command, args []string, opts *fieldsOptions) error {
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

	var fields []FieldInfo

	if len(args) == 0 {
		var typeNames []string
		for _, t := range idx.OutputTypeList() {
			typeNames = append(typeNames, t.Name)
		}
		for _, t := range idx.InputTypeList() {
			typeNames = append(typeNames, t.Name)
		}
		for _, typeName := range typeNames {
			for _, row := range typeFieldRows(idx, typeName) {
				if !opts.matches(row, nameRegex) {
					continue
				}
				info := row.info
				info.TypeName = typeName
				fields = append(fields, info)
			}
		}
	} else {
		typeName := args[0]
		if idx.Enums[typeName] != nil {
			return fmt.Errorf("'%s' is an enum, use `querydoc values %s` to list its values", typeName, typeName)
		}
		if err := validateTypeExists(idx, typeName, "type"); err != nil {
			return err
		}
		for _, row := range typeFieldRows(idx, typeName) {
			if opts.matches(row, nameRegex) {
				fields = append(fields, row.info)
			}
		}
	}

	if len(fields) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No fields found that match the filters.")
	}

	renderer := render.Renderer[FieldInfo]{
		Data:         fields,
		TextFormat:   formatFieldText,
		PrettyFormat: formatFieldsPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
