/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type valuesOptions struct {
	name string
}

func formatValueName(v ValueInfo) string {
	if v.EnumName != "" {
		return v.EnumName + "." + v.Name
	}
	return v.Name
}

func formatValueText(v ValueInfo) string {
	return formatValueName(v)
}

func formatValuesPretty(values []ValueInfo) string {
	t := makeTable()

	for _, v := range values {
		t.Row(formatValueName(v))
	}
	t.Headers("value")

	return t.String()
}

func enumNames(idx *dmmf.Index) []string {
	var names []string
	for _, e := range idx.EnumList() {
		names = append(names, e.Name)
	}
	return names
}

func NewValuesCmd() *cobra.Command {
	opts := &valuesOptions{}

	cmd := &cobra.Command{
		Use:   "values [enum]",
		Short: "Lists values of an enum type.",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return completeNames(enumNames(idx), toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		Args: cobra.MaximumNArgs(1),
		Long: `Lists values of an enum type in the schema.

If an enum is specified, only values for that enum are shown.
If no enum is specified, all enum values for all enums are shown, including
the OrderByArg direction enum shared by every orderBy field.`,
		Example: `  # Values of one enum
  querydoc values Role

  # Every value ending in ADMIN
  querydoc values --name "*ADMIN"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Filter values by name using a glob pattern")

	return cmd
}

func runValues(cmd *cobra.Command, args []string, opts *valuesOptions) error {
	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	enums := idx.EnumList()
	if len(args) == 1 {
		enumName := args[0]
		e := idx.Enums[enumName]
		if e == nil {
			if typeExists(idx, enumName) {
				return fmt.Errorf("'%s' is not an enum", enumName)
			}
			return notFound("enum", enumName, enumNames(idx))
		}
		enums = []*dmmf.Enum{e}
	}

	var values []ValueInfo
	for _, e := range enums {
		for _, value := range e.Values {
			if opts.name != "" {
				if matched, _ := filepath.Match(opts.name, value); !matched {
					continue
				}
			}
			info := ValueInfo{Name: value}
			if len(args) == 0 {
				info.EnumName = e.Name
			}
			values = append(values, info)
		}
	}

	if len(values) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No values found that match the filters.")
	}

	renderer := render.Renderer[ValueInfo]{
		Data:         values,
		TextFormat:   formatValueText,
		PrettyFormat: formatValuesPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
