/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samwightt/querydoc/pkg/query"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	invocationOptions
	transform bool
}

func formatDocumentText(doc *query.Document) string {
	return doc.String()
}

func formatDocumentPretty(doc *query.Document) string {
	out, err := doc.Format()
	if err != nil {
		slog.Debug("document could not be formatted", "error", err)
		return doc.String()
	}
	return strings.TrimRight(out, "\n")
}

func NewBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [selection]",
		Short: "Build the query document for a selection",
		Long: `Builds the query document a client would send for a selection.

The selection is validated first. If it has problems, the report is printed
to stderr and nothing is built.

With --transform, filters are flattened into the legacy wire form
(email: {startsWith: "a"} becomes email_starts_with: "a") and orderBy objects
become enum values (email_ASC).

Output formats:
  text    The document as rendered for the engine
  pretty  The document passed through the GraphQL formatter
  json    The document tree, with arguments and schema types`,
		Example: `  # Default selection of every scalar field
  echo '{}' | querydoc build --root findManyUser

  # Include a relation
  querydoc build selection.json --model Post --action findOne

  # Flattened filters
  querydoc build selection.json --root findManyUser --transform`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBuild(cmd, args, opts)
			if err != nil && !errors.Is(err, ErrValidationFailed) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
			return err
		},
	}

	opts.addFlags(cmd)
	opts.addReportFlags(cmd)
	cmd.Flags().BoolVar(&opts.transform, "transform", false, "Flatten filters and orderBy into the legacy wire form")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, opts *buildOptions) error {
	idx, err := loadCliForSchema()
	if err != nil {
		return err
	}
	inv, err := opts.resolve(idx)
	if err != nil {
		return err
	}
	validateOpts, err := opts.validateOptions(inv)
	if err != nil {
		return err
	}

	source, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	sel, err := parseSelection(source, data)
	if err != nil {
		return fmt.Errorf("selection parsing error:\n%s", formatSelectionError(source, data, err))
	}

	doc, err := query.MakeDocument(idx, inv.op, inv.rootField, sel)
	if err != nil {
		return err
	}
	if err := doc.Validate(sel, validateOpts); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), err.Error())
		return ErrValidationFailed
	}
	if opts.transform {
		doc = query.Transform(doc)
	}

	renderer := render.Value[*query.Document]{
		Data:         doc,
		TextFormat:   formatDocumentText,
		PrettyFormat: formatDocumentPretty,
	}
	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
