/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

var referenceKinds = []string{"field", "argument", "input"}

type referencesOptions struct {
	kind   string
	inType string
}

func formatReferenceText(ref ReferenceInfo) string {
	return fmt.Sprintf("%s: %s", ref.Location, ref.Type)
}

func formatReferencesPretty(refs []ReferenceInfo) string {
	t := makeTable()

	for _, ref := range refs {
		t.Row(ref.Location, ref.Kind, ref.Type)
	}
	t.Headers("location", "kind", "type")

	return t.String()
}

func NewReferencesCmd() *cobra.Command {
	opts := &referencesOptions{}

	cmd := &cobra.Command{
		Use:   "references <type>",
		Short: "Shows where a type is used in the schema",
		Long: `Shows where a given type is used in the schema: which fields return it,
which arguments accept it and which input type fields accept it.

This is useful for finding every entry point to a type, or every filter
that reuses a synthesized filter type.

Output formats:
  text    "Query.findManyUser: [User]", "Query.findManyUser.where: UserWhereInput", etc. (default when piping)
  json    [{"location": "Query.findManyUser", "kind": "field", "type": "[User]"}, ...]
  pretty  Formatted table with columns (default in terminal)`,
		Example: `  # Find all references to the User type
  querydoc references User

  # Find only fields that return User
  querydoc references User --kind field

  # Where fields filtered by strings
  querydoc references StringFilter --kind input

  # Find references to User only within the Query type
  querydoc references User --in Query`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return completeNames(schemaTypeNames(idx), toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReferences(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "Filter by reference kind: "+strings.Join(referenceKinds, ", "))
	cmd.Flags().StringVar(&opts.inType, "in", "", "Only show references from the specified type")

	return cmd
}

func runReferences(cmd *cobra.Command, args []string, opts *referencesOptions) error {
	targetType := args[0]

	if opts.kind != "" && !slices.Contains(referenceKinds, opts.kind) {
		return fmt.Errorf("--kind must be one of %s, got '%s'", strings.Join(referenceKinds, ", "), opts.kind)
	}

	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	if err := validateTypeExists(idx, targetType, "type"); err != nil {
		return err
	}
	if opts.inType != "" {
		if err := validateTypeExists(idx, opts.inType, "type"); err != nil {
			return err
		}
	}

	var refs []ReferenceInfo
	add := func(ref ReferenceInfo) {
		if opts.kind == "" || opts.kind == ref.Kind {
			refs = append(refs, ref)
		}
	}

	for _, t := range idx.OutputTypeList() {
		if opts.inType != "" && t.Name != opts.inType {
			continue
		}
		for _, field := range t.Fields {
			if field.OutputType.Type.Name == targetType {
				add(ReferenceInfo{
					Location: t.Name + "." + field.Name,
					Kind:     "field",
					Type:     outputTypeString(field.OutputType),
				})
			}
			for _, arg := range field.Args {
				if acceptsType(arg.InputType, targetType) {
					add(ReferenceInfo{
						Location: t.Name + "." + field.Name + "." + arg.Name,
						Kind:     "argument",
						Type:     inputTypeString(arg.InputType),
					})
				}
			}
		}
	}

	for _, t := range idx.InputTypeList() {
		if opts.inType != "" && t.Name != opts.inType {
			continue
		}
		for _, field := range t.Fields {
			if acceptsType(field.InputType, targetType) {
				add(ReferenceInfo{
					Location: t.Name + "." + field.Name,
					Kind:     "input",
					Type:     inputTypeString(field.InputType),
				})
			}
		}
	}

	if len(refs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No references found.")
	}

	renderer := render.Renderer[ReferenceInfo]{
		Data:         refs,
		TextFormat:   formatReferenceText,
		PrettyFormat: formatReferencesPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
