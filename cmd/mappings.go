/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"slices"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type mappingsOptions struct {
	action string
}

func formatMappingText(m MappingInfo) string {
	return fmt.Sprintf("%s.%s: %s", m.Plural, m.Action, m.Field)
}

func formatMappingsPretty(mappings []MappingInfo) string {
	t := makeTable()

	for _, m := range mappings {
		t.Row(m.Model, m.Plural+"."+m.Action, m.Field)
	}
	t.Headers("model", "method", "root field")

	return t.String()
}

func mappingRows(m dmmf.Mapping) []MappingInfo {
	var rows []MappingInfo
	for _, action := range dmmf.Actions {
		field := m.Action(action)
		if field == "" {
			continue
		}
		rows = append(rows, MappingInfo{Model: m.Model, Plural: m.Plural, Action: action, Field: field})
	}
	return rows
}

func NewMappingsCmd() *cobra.Command {
	opts := &mappingsOptions{}

	cmd := &cobra.Command{
		Use:   "mappings [model]",
		Short: "Lists the root fields behind each model action",
		Long: `Lists which root field implements each action of a model, as used by
--model and --action.

If a model is specified, only its actions are shown.

Output formats:
  text    "users.findMany: findManyUser" (default when piping)
  json    [{"model": "User", "plural": "users", "action": "findMany", "field": "findManyUser"}, ...]
  pretty  Formatted table with columns (default in terminal)`,
		Example: `  # All mappings
  querydoc mappings

  # The root field deleting many posts
  querydoc mappings Post --action deleteMany`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return completeNames(mappedModels(idx), toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappings(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.action, "action", "", "Only show the given action")

	return cmd
}

func runMappings(cmd *cobra.Command, args []string, opts *mappingsOptions) error {
	if opts.action != "" && !slices.Contains(dmmf.Actions, opts.action) {
		if suggestion := findClosest(opts.action, dmmf.Actions); suggestion != "" {
			return fmt.Errorf("action '%s' is not valid, did you mean '%s'?", opts.action, suggestion)
		}
		return fmt.Errorf("action '%s' is not valid", opts.action)
	}

	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	models := mappedModels(idx)
	if len(args) == 1 {
		if _, ok := idx.Mappings[args[0]]; !ok {
			return notFound("model", args[0], models)
		}
		models = []string{args[0]}
	}

	var rows []MappingInfo
	for _, model := range models {
		rows = append(rows, mappingRows(idx.Mappings[model])...)
	}
	if opts.action != "" {
		rows = filterSlice(rows, func(m MappingInfo) bool { return m.Action == opts.action })
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No mappings found that match the filters.")
	}

	renderer := render.Renderer[MappingInfo]{
		Data:         rows,
		TextFormat:   formatMappingText,
		PrettyFormat: formatMappingsPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
