/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type pathsOptions struct {
	maxDepth int
	from     string
	shortest bool
	through  string
}

type PathInfo struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

type pathStep struct {
	typeName  string
	fieldName string
	hasArgs   bool
}

func formatPathStep(step pathStep) string {
	if step.hasArgs {
		return fmt.Sprintf("%s.%s(...)", step.typeName, step.fieldName)
	}
	return fmt.Sprintf("%s.%s", step.typeName, step.fieldName)
}

func formatPath(steps []pathStep, targetType string) string {
	parts := make([]string, len(steps))
	for i, step := range steps {
		parts[i] = formatPathStep(step)
	}
	return strings.Join(append(parts, targetType), " -> ")
}

func formatPathText(p PathInfo) string {
	return p.Path
}

func formatPathsPretty(paths []PathInfo) string {
	t := makeTable()

	for _, p := range paths {
		t.Row(p.Path)
	}
	t.Headers("path")

	return t.String()
}

// findPaths walks output fields breadth first from fromType and records every
// route ending at targetType. A type is not entered twice on one route.
func findPaths(idx *dmmf.Index, fromType string, targetType string, maxDepth int) []PathInfo {
	var results []PathInfo

	type searchState struct {
		typeName string
		steps    []pathStep
		visited  map[string]bool
	}

	queue := []searchState{{
		typeName: fromType,
		visited:  map[string]bool{fromType: true},
	}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		currentType := idx.OutputTypes[current.typeName]
		if currentType == nil {
			continue
		}

		for _, field := range currentType.Fields {
			returnType := field.OutputType.Type.Name

			steps := make([]pathStep, len(current.steps)+1)
			copy(steps, current.steps)
			steps[len(current.steps)] = pathStep{
				typeName:  current.typeName,
				fieldName: field.Name,
				hasArgs:   len(field.Args) > 0,
			}

			if returnType == targetType {
				results = append(results, PathInfo{Path: formatPath(steps, targetType), Depth: len(steps)})
			}

			next := idx.OutputTypes[returnType]
			if current.visited[returnType] || len(steps) >= maxDepth || next == nil || len(next.Fields) == 0 {
				continue
			}
			visited := maps.Clone(current.visited)
			visited[returnType] = true
			queue = append(queue, searchState{typeName: returnType, steps: steps, visited: visited})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results
}

func NewPathsCmd() *cobra.Command {
	opts := &pathsOptions{}

	cmd := &cobra.Command{
		Use:   "paths <type>",
		Short: "Lists all paths from Query to a given type.",
		Args:  cobra.ExactArgs(1),
		Long: `Lists all possible paths from a root type to reach a given output type,
following relation fields.

By default, searches from Query. Use --from to start from a different type.
Use --shortest to only show the shortest path(s).

For example, Post can be reached via Query.findManyPost(...) or via
Query.findOneUser(...) -> User.posts(...), and both paths will be shown.`,
		Example: `  # Every way to select a post
  querydoc paths Post

  # From mutations only
  querydoc paths User --from Mutation --shortest

  # Paths to a post that go through User
  querydoc paths Post --through User`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			idx, err := loadSchema()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var names []string
			for _, t := range idx.OutputTypeList() {
				names = append(names, t.Name)
			}
			return completeNames(names, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 5, "Maximum depth to search for paths")
	cmd.Flags().StringVar(&opts.from, "from", "", "Type to start searching from (default: the query type)")
	cmd.Flags().BoolVar(&opts.shortest, "shortest", false, "Only show the shortest path(s)")
	cmd.Flags().StringVar(&opts.through, "through", "", "Only show paths that pass through the given type")

	return cmd
}

func runPaths(cmd *cobra.Command, args []string, opts *pathsOptions) error {
	targetType := args[0]

	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}

	var outputNames []string
	for _, t := range idx.OutputTypeList() {
		outputNames = append(outputNames, t.Name)
	}
	checkOutputType := func(name string) error {
		if idx.OutputTypes[name] == nil {
			return notFound("type", name, outputNames)
		}
		return nil
	}

	if err := checkOutputType(targetType); err != nil {
		return err
	}

	fromType := opts.from
	if fromType == "" {
		if idx.QueryType == nil {
			return fmt.Errorf("schema has no query type, use --from")
		}
		fromType = idx.QueryType.Name
	}
	if err := checkOutputType(fromType); err != nil {
		return err
	}
	if opts.through != "" {
		if err := checkOutputType(opts.through); err != nil {
			return err
		}
	}

	paths := findPaths(idx, fromType, targetType, opts.maxDepth)

	if opts.through != "" {
		paths = filterSlice(paths, func(p PathInfo) bool {
			return strings.Contains(p.Path, opts.through+".")
		})
	}

	if opts.shortest && len(paths) > 0 {
		minDepth := paths[0].Depth
		for _, p := range paths {
			minDepth = min(minDepth, p.Depth)
		}
		paths = filterSlice(paths, func(p PathInfo) bool { return p.Depth == minDepth })
	}

	if len(paths) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No paths found.")
	}

	renderer := render.Renderer[PathInfo]{
		Data:         paths,
		TextFormat:   formatPathText,
		PrettyFormat: formatPathsPretty,
	}

	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
