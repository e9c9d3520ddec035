/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

var validKinds = []string{"input", "output", "enum"}

type typesOptions struct {
	kind         []string
	hasField     []string
	where        bool
	order        bool
	filter       bool
	usedBy       []string
	usedByAny    []string
	notUsedBy    []string
	notUsedByAll []string
}

func formatTypeText(t TypeInfo) string {
	if len(t.Flags) > 0 {
		return fmt.Sprintf("%s %s # %s", t.Kind, t.Name, strings.Join(t.Flags, ", "))
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Name)
}

func formatTypesPretty(types []TypeInfo) string {
	tbl := makeTable()

	for _, t := range types {
		tbl.Row(t.Kind, t.Name, strings.Join(t.Flags, ", "))
	}
	tbl.Headers("kind", "name", "flags")

	return tbl.String()
}

// isFilterType reports whether t is a synthesized scalar or relation filter.
func isFilterType(t *dmmf.InputType) bool {
	return !t.IsWhereType && strings.HasSuffix(t.Name, "Filter")
}

func inputTypeFlags(t *dmmf.InputType) []string {
	var flags []string
	if t.IsWhereType {
		flags = append(flags, "where")
	}
	if t.IsOrderType {
		flags = append(flags, "order")
	}
	if isFilterType(t) {
		flags = append(flags, "filter")
	}
	if t.AtLeastOne {
		flags = append(flags, "atLeastOne")
	}
	if t.AtMostOne {
		flags = append(flags, "atMostOne")
	}
	return flags
}

func outputTypeFlags(idx *dmmf.Index, t *dmmf.OutputType) []string {
	var flags []string
	switch t {
	case idx.QueryType:
		flags = append(flags, "query")
	case idx.MutationType:
		flags = append(flags, "mutation")
	}
	if idx.Models[t.Name] != nil {
		flags = append(flags, "model")
	}
	if t.IsEmbedded {
		flags = append(flags, "embedded")
	}
	return flags
}

// allTypes lists every type of the index: inputs, outputs, then enums.
func allTypes(idx *dmmf.Index) []TypeInfo {
	var types []TypeInfo
	for _, t := range idx.InputTypeList() {
		types = append(types, TypeInfo{Name: t.Name, Kind: "input", Flags: inputTypeFlags(t)})
	}
	for _, t := range idx.OutputTypeList() {
		types = append(types, TypeInfo{Name: t.Name, Kind: "output", Flags: outputTypeFlags(idx, t)})
	}
	for _, e := range idx.EnumList() {
		types = append(types, TypeInfo{Name: e.Name, Kind: "enum"})
	}
	return types
}

func typeFieldNames(idx *dmmf.Index, name string) []string {
	if t := idx.InputTypes[name]; t != nil {
		return t.FieldNames()
	}
	if t := idx.OutputTypes[name]; t != nil {
		return t.FieldNames()
	}
	return nil
}

// getTypesUsedBy collects the types a type refers to through its fields and
// their arguments.
func getTypesUsedBy(idx *dmmf.Index, typeName string) map[string]bool {
	usedTypes := make(map[string]bool)

	if t := idx.OutputTypes[typeName]; t != nil {
		for _, field := range t.Fields {
			usedTypes[field.OutputType.Type.Name] = true
			for _, arg := range field.Args {
				for _, name := range inputBaseNames(arg.InputType) {
					usedTypes[name] = true
				}
			}
		}
	}
	if t := idx.InputTypes[typeName]; t != nil {
		for _, field := range t.Fields {
			for _, name := range inputBaseNames(field.InputType) {
				usedTypes[name] = true
			}
		}
	}

	return usedTypes
}

func (o *typesOptions) matches(idx *dmmf.Index, t TypeInfo) bool {
	if len(o.kind) > 0 && !slices.Contains(o.kind, t.Kind) {
		return false
	}
	if o.where && !slices.Contains(t.Flags, "where") {
		return false
	}
	if o.order && !slices.Contains(t.Flags, "order") {
		return false
	}
	if o.filter && !slices.Contains(t.Flags, "filter") {
		return false
	}
	fields := typeFieldNames(idx, t.Name)
	for _, name := range o.hasField {
		if !slices.Contains(fields, name) {
			return false
		}
	}
	return true
}

func NewTypesCmd() *cobra.Command {
	opts := &typesOptions{}

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Lists all types in the expanded schema",
		Long: `Lists all types in the schema after filter and order expansion.

Shows the type's kind (input, output, enum), its name and its flags:
where, order and filter for synthesized input types, atLeastOne and
atMostOne for cardinality constraints, query, mutation, model and embedded
for output types.

Output formats:
  text    "input UserWhereInput # where", "enum Role", etc. (default when piping)
  json    [{"name": "User", "kind": "output", "flags": ["model"]}, ...]
  pretty  Formatted table with columns (default in terminal)

Multiple filters can be combined and are applied with AND logic.`,
		Example: `  # All synthesized filter types
  querydoc types --filter

  # Input types used by the User where type
  querydoc types --kind input --used-by UserWhereInput

  # Types used by both Query AND Mutation
  querydoc types --used-by Query --used-by Mutation

  # Types used by Query OR Mutation
  querydoc types --used-by-any Query --used-by-any Mutation

  # Pipe to other tools
  querydoc types --kind enum -f json | jq '.[].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.kind, "kind", nil, "Filter to types of the given kind: input, output, enum (OR logic when specified multiple times)")
	cmd.Flags().StringArrayVar(&opts.hasField, "has-field", nil, "Filter to types that have the given field (can be specified multiple times)")
	cmd.Flags().BoolVar(&opts.where, "where", false, "Filter to where input types")
	cmd.Flags().BoolVar(&opts.order, "order", false, "Filter to orderBy input types")
	cmd.Flags().BoolVar(&opts.filter, "filter", false, "Filter to synthesized scalar and relation filter types")
	cmd.Flags().StringArrayVar(&opts.usedBy, "used-by", nil, "Filter to types used by the given type (AND logic when specified multiple times)")
	cmd.Flags().StringArrayVar(&opts.usedByAny, "used-by-any", nil, "Filter to types used by any of the given types (OR logic)")
	cmd.Flags().StringArrayVar(&opts.notUsedBy, "not-used-by", nil, "Exclude types used by any of the given types")
	cmd.Flags().StringArrayVar(&opts.notUsedByAll, "not-used-by-all", nil, "Exclude types only if used by all of the given types")

	return cmd
}

func runTypes(cmd *cobra.Command, opts *typesOptions) error {
	for _, k := range opts.kind {
		if !slices.Contains(validKinds, k) {
			return fmt.Errorf("invalid kind: %s (valid: %s)", k, strings.Join(validKinds, ", "))
		}
	}

	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	collect := func(names []string) ([]map[string]bool, error) {
		var sets []map[string]bool
		for _, name := range names {
			if err := validateTypeExists(idx, name, "type"); err != nil {
				return nil, err
			}
			sets = append(sets, getTypesUsedBy(idx, name))
		}
		return sets, nil
	}

	usedBySets, err := collect(opts.usedBy)
	if err != nil {
		return err
	}
	usedByAnySets, err := collect(opts.usedByAny)
	if err != nil {
		return err
	}
	notUsedBySets, err := collect(opts.notUsedBy)
	if err != nil {
		return err
	}
	notUsedByAllSets, err := collect(opts.notUsedByAll)
	if err != nil {
		return err
	}

	usedByAll := func(sets []map[string]bool, name string) bool {
		for _, set := range sets {
			if !set[name] {
				return false
			}
		}
		return true
	}
	usedByAny := func(sets []map[string]bool, name string) bool {
		for _, set := range sets {
			if set[name] {
				return true
			}
		}
		return false
	}

	types := filterSlice(allTypes(idx), func(t TypeInfo) bool {
		if !opts.matches(idx, t) {
			return false
		}
		// --used-by (AND): must be used by ALL specified types
		if len(usedBySets) > 0 && !usedByAll(usedBySets, t.Name) {
			return false
		}
		// --used-by-any (OR): must be used by ANY of the specified types
		if len(usedByAnySets) > 0 && !usedByAny(usedByAnySets, t.Name) {
			return false
		}
		// --not-used-by: must NOT be used by ANY of the specified types
		if len(notUsedBySets) > 0 && usedByAny(notUsedBySets, t.Name) {
			return false
		}
		// --not-used-by-all: exclude only if used by ALL specified types
		if len(notUsedByAllSets) > 0 && usedByAll(notUsedByAllSets, t.Name) {
			return false
		}
		return true
	})

	if len(types) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No types found that match the filters.")
	}

	renderer := render.Renderer[TypeInfo]{
		Data:         types,
		TextFormat:   formatTypeText,
		PrettyFormat: formatTypesPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
