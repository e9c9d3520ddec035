/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/samwightt/querydoc/pkg/query"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when a selection fails validation.
// This is a sentinel error that indicates the selection is invalid,
// not that the command itself failed.
var ErrValidationFailed = errors.New("validation failed")

type ValidationResult struct {
	Valid       bool                    `json:"valid"`
	Message     string                  `json:"message,omitempty"`
	FieldErrors []query.FieldErrorEntry `json:"fieldErrors,omitempty"`
	ArgErrors   []query.ArgErrorEntry   `json:"argErrors,omitempty"`

	parseError bool
}

func (r *ValidationResult) errorCount() int {
	return len(r.FieldErrors) + len(r.ArgErrors)
}

func formatValidationResultText(result *ValidationResult) string {
	switch {
	case result.Valid:
		return "✓ Selection is valid"
	case result.parseError:
		return "✗ Selection could not be parsed:\n" + result.Message
	case result.errorCount() == 1:
		return "✗ Selection has 1 error:\n" + result.Message
	default:
		return fmt.Sprintf("✗ Selection has %d errors:\n", result.errorCount()) + result.Message
	}
}

func NewValidateCmd() *cobra.Command {
	opts := &invocationOptions{}

	cmd := &cobra.Command{
		Use:   "validate [selection]",
		Short: "Check a selection against the schema",
		Long: `Builds the document for a selection and reports every problem in it.

The selection is a JSON or YAML object, as passed to a generated client
method. It can be provided as a file path argument or piped via stdin.

The root field is given with --root, or as a model action with --model and
--action, in which case the report names the client method (users.findMany).

Exit codes:
  0 - Selection is valid
  1 - Selection is invalid or could not be parsed

Output formats:
  text    The report, with the selection echoed and the problems underlined
  json    {"valid": bool, "message": "...", "fieldErrors": [...], "argErrors": [...]}`,
		Example: `  # Validate from a file
  querydoc validate selection.json --root findOneUser

  # Validate from stdin through a model action
  echo '{"where": {"emial": "x"}}' | querydoc validate --model User --action findMany

  # Point the report at the calling code
  querydoc validate selection.json --root findManyUser --callsite src/users.ts:12:9

  # JSON output for CI integration
  querydoc validate selection.json --root findManyUser -f json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	opts.addFlags(cmd)
	opts.addReportFlags(cmd)

	return cmd
}

func validateSelection(cmd *cobra.Command, args []string, opts *invocationOptions) (*ValidationResult, error) {
	idx, err := loadCliForSchema()
	if err != nil {
		return nil, err
	}
	inv, err := opts.resolve(idx)
	if err != nil {
		return nil, err
	}
	validateOpts, err := opts.validateOptions(inv)
	if err != nil {
		return nil, err
	}

	source, data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	sel, err := parseSelection(source, data)
	if err != nil {
		// Parse errors are also validation failures
		return &ValidationResult{Message: formatSelectionError(source, data, err), parseError: true}, nil
	}

	doc, err := query.MakeDocument(idx, inv.op, inv.rootField, sel)
	if err != nil {
		return nil, err
	}

	err = doc.Validate(sel, validateOpts)
	var validationErr *query.ValidationError
	if errors.As(err, &validationErr) {
		return &ValidationResult{
			Message:     validationErr.Message,
			FieldErrors: validationErr.FieldErrors,
			ArgErrors:   validationErr.ArgErrors,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ValidationResult{Valid: true}, nil
}

func runValidate(cmd *cobra.Command, args []string, opts *invocationOptions) error {
	result, err := validateSelection(cmd, args, opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return err
	}

	renderer := render.Value[*ValidationResult]{
		Data:       result,
		TextFormat: formatValidationResultText,
	}
	output, err := renderer.Render(outputFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)

	// Return error if validation failed (causes exit code 1)
	if !result.Valid {
		return ErrValidationFailed
	}
	return nil
}
