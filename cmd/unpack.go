/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samwightt/querydoc/pkg/diagnostic"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/query"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/spf13/cobra"
)

type unpackOptions struct {
	invocationOptions
	selectionFile string
	path          string
}

// leaf is one scalar of an unpacked result, addressed by its dotted path.
type leaf struct {
	path  string
	value any
}

func flattenLeaves(prefix string, v any) []leaf {
	switch val := v.(type) {
	case *selection.Object:
		var out []leaf
		for _, e := range val.Entries() {
			out = append(out, flattenLeaves(joinKey(prefix, e.Key), e.Value)...)
		}
		return out
	case []any:
		var out []leaf
		for i, item := range val {
			out = append(out, flattenLeaves(joinKey(prefix, strconv.Itoa(i)), item)...)
		}
		return out
	}
	return []leaf{{path: prefix, value: v}}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func formatUnpackedText(root string) func(any) string {
	return func(v any) string {
		leaves := flattenLeaves(root, v)
		lines := make([]string, len(leaves))
		for i, l := range leaves {
			lines[i] = l.path + " = " + diagnostic.Stringify(l.value)
		}
		return strings.Join(lines, "\n")
	}
}

func formatUnpackedPretty(root string) func(any) string {
	return func(v any) string {
		t := makeTable()
		for _, l := range flattenLeaves(root, v) {
			value := diagnostic.Stringify(l.value)
			if ts, ok := l.value.(time.Time); ok {
				value = ts.UTC().Format(selection.ISOLayout)
			}
			t.Row(l.path, query.InferType(l.value, dmmf.TypeRef{}), value)
		}
		t.Headers("path", "type", "value")
		return t.String()
	}
}

func NewUnpackCmd() *cobra.Command {
	opts := &unpackOptions{}

	cmd := &cobra.Command{
		Use:   "unpack [response]",
		Short: "Convert the DateTime fields of a response",
		Long: `Unpacks the result of a root field from a raw response, converting every
DateTime field the selection asked for into a date.

The response is read from the file argument or stdin. A top-level "data" key
is unwrapped. The selection the request was built from is given with
--selection; without it, the default selection (all scalar fields) is assumed.

--path descends into the result, starting at the root field.

Output formats:
  text    One "path = value" line per scalar, dates shown as new Date(...)
  pretty  A table of paths, inferred types and values
  json    The unpacked result`,
		Example: `  # Unpack a findMany response
  querydoc unpack response.json --root findManyUser

  # Only the author of a post
  querydoc unpack response.json --model Post --action findOne --selection sel.json --path author`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runUnpack(cmd, args, opts)
			if err != nil && !errors.Is(err, ErrValidationFailed) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			}
			return err
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.selectionFile, "selection", "", "Selection file the request was built from")
	cmd.Flags().StringVar(&opts.path, "path", "", "Dotted path below the root field to unpack, such as posts")

	return cmd
}

func runUnpack(cmd *cobra.Command, args []string, opts *unpackOptions) error {
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

	sel := selection.New()
	if opts.selectionFile != "" {
		data, err := os.ReadFile(opts.selectionFile)
		if err != nil {
			return fmt.Errorf("failed to read selection: %w", err)
		}
		sel, err = parseSelection(opts.selectionFile, data)
		if err != nil {
			return fmt.Errorf("selection parsing error:\n%s", formatSelectionError(opts.selectionFile, data, err))
		}
	}

	doc, err := query.MakeDocument(idx, inv.op, inv.rootField, sel)
	if err != nil {
		return err
	}
	if err := doc.Validate(sel, validateOpts); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), err.Error())
		return ErrValidationFailed
	}

	source, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	response, err := selection.ParseValue(data)
	if err != nil {
		return fmt.Errorf("response parsing error:\n%s", formatSelectionError(source, data, err))
	}
	if obj, ok := response.(*selection.Object); ok && !obj.Has(inv.rootField) {
		if inner, ok := obj.Get("data"); ok {
			response = inner
		}
	}

	path := []string{inv.rootField}
	if opts.path != "" {
		path = append(path, strings.Split(opts.path, ".")...)
	}
	result, err := query.Unpack(doc, path, response)
	if err != nil {
		return err
	}

	root := strings.Join(path, ".")
	renderer := render.Value[any]{
		Data:         result,
		TextFormat:   formatUnpackedText(root),
		PrettyFormat: formatUnpackedPretty(root),
	}
	output, err := renderer.Render(outputFormat)
	if err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
