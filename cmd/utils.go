package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/spf13/cobra"
)

var tableStyle = lipgloss.NewStyle().PaddingRight(1)

func makeTable() *table.Table {
	return table.New().
		Width(120).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return tableStyle
		})
}

func findClosest(input string, candidates []string) string {
	return diagnostic.Suggest(input, candidates)
}

// notFound builds the "does not exist" error shared by every command, with a
// suggestion when one of the candidates is close enough.
func notFound(context, name string, candidates []string) error {
	if suggestion := findClosest(name, candidates); suggestion != "" {
		return fmt.Errorf("%s '%s' does not exist in schema, did you mean '%s'?", context, name, suggestion)
	}
	return fmt.Errorf("%s '%s' does not exist in schema", context, name)
}

// schemaTypeNames lists input types, output types and enums in that order.
func schemaTypeNames(idx *dmmf.Index) []string {
	var names []string
	for _, t := range idx.InputTypeList() {
		names = append(names, t.Name)
	}
	for _, t := range idx.OutputTypeList() {
		names = append(names, t.Name)
	}
	for _, e := range idx.EnumList() {
		names = append(names, e.Name)
	}
	return names
}

func typeExists(idx *dmmf.Index, name string) bool {
	return idx.InputTypes[name] != nil || idx.OutputTypes[name] != nil || idx.Enums[name] != nil
}

// validateTypeExists checks if a type exists in the schema and returns a helpful
// error with a "did you mean" suggestion if it doesn't.
func validateTypeExists(idx *dmmf.Index, typeName, context string) error {
	if typeExists(idx, typeName) {
		return nil
	}
	return notFound(context, typeName, schemaTypeNames(idx))
}

// outputTypeString renders an output reference as "User", "[Post]" or "Int!".
func outputTypeString(ref *dmmf.OutputTypeRef) string {
	return wrapTypeName(ref.Type.Name, ref.IsList, ref.IsRequired)
}

// inputTypeString renders every candidate of an argument, separated by "|".
func inputTypeString(refs dmmf.InputTypeRefs) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = wrapTypeName(ref.Type.Name, ref.IsList, ref.IsRequired)
	}
	return strings.Join(parts, " | ")
}

func wrapTypeName(name string, isList, isRequired bool) string {
	if isList {
		name = "[" + name + "]"
	}
	if isRequired {
		name += "!"
	}
	return name
}

func inputBaseNames(refs dmmf.InputTypeRefs) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Type.Name
	}
	return names
}

func acceptsType(refs dmmf.InputTypeRefs, name string) bool {
	return slices.Contains(inputBaseNames(refs), name)
}

// filterSlice returns a new slice containing only the elements that satisfy the predicate.
func filterSlice[T any](items []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range items {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

// completeNames returns the sorted names containing toComplete, ignoring case.
func completeNames(names []string, toComplete string) []string {
	out := []string{}
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func loadSchema() (*dmmf.Index, error) {
	return schemaLoader.Load(schemaFilePath)
}

func loadCliForSchema() (*dmmf.Index, error) {
	idx, err := loadSchema()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("schema file does not exist: %s", schemaFilePath)
		}
		return nil, fmt.Errorf("schema description parsing error: %w", err)
	}
	return idx, nil
}

// readInput reads the file named by the first argument, or stdin when there
// is none. The returned name is "stdin" in the latter case.
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", nil, fmt.Errorf("failed to read file: %w", err)
		}
		return args[0], data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return "stdin", data, nil
}
