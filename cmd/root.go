/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/samwightt/querydoc/internal/config"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	schemaFilePath string
	outputFormat   render.Format
	clientName     string

	// Indexes are cached by content, so repeated runs in one process
	// (tests, completion) expand a schema only once.
	schemaLoader = dmmf.NewLoader()
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatFlag() string {
	if isTerminal(os.Stdout) {
		return string(render.FormatPretty)
	}
	return string(render.FormatText)
}

func applyColor(mode string, out io.Writer) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		if isTerminal(out) {
			lipgloss.SetColorProfile(termenv.EnvColorProfile())
		} else {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

// NewRootCmd creates and returns the root command with all subcommands attached.
// This function creates a fresh command tree, ensuring no state leaks between invocations.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "querydoc",
		Short: "Build, validate and explore ORM query documents against a schema description",
		Long: `querydoc turns selection objects (the JSON arguments passed to a generated
client, such as {"where": {"email": "a@b.c"}, "select": {"id": true}}) into
query documents, and checks them against a schema description first.

Invalid selections are reported the way a client would report them: the
selection is echoed with the offending parts underlined, and every problem
comes with a hint or a did-you-mean suggestion.

The explorer commands (types, fields, args, values, references, paths,
mappings) list the expanded schema, including the synthesized filter and
order input types.

By default, querydoc reads ./schema.json. A different description (JSON or
YAML) can be given with -s, or in querydoc.toml.

Output can be formatted as pretty tables (default in terminals), plain text
(default when piping), or JSON for integration with other tools.`,
		Example: `  # Build the document for a findMany call
  echo '{"where": {"email": {"contains": "@"}}}' | querydoc build --model User --action findMany

  # Validate a selection and print the report
  querydoc validate selection.json --root findOneUser

  # Build the flattened wire form
  querydoc build selection.json --root findManyUser --transform

  # Convert dates in a response
  querydoc unpack response.json --selection selection.json --root findManyUser -f json

  # List the filter types generated for the schema
  querydoc types --filter`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&schemaFilePath, "schema", "s", "schema.json", "File path of the schema description (JSON or YAML)")

	var formatStr, colorMode, configPath string
	var verbose bool
	cmd.PersistentFlags().StringVarP(&formatStr, "format", "f", formatFlag(), "Output format: json, text, pretty (default: pretty if interactive, text otherwise)")
	cmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize diagnostics: auto, always, never")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, ".")
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("schema") {
			schemaFilePath = cfg.Schema
		}
		if !flags.Changed("format") && cfg.Format != "" {
			formatStr = cfg.Format
		}
		if flags.Changed("color") {
			cfg.Color = colorMode
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		clientName = cfg.Client

		level, err := cfg.Level()
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		applyColor(cfg.Color, cmd.OutOrStdout())

		outputFormat, err = render.ParseFormat(formatStr)
		return err
	}

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewUnpackCmd())
	cmd.AddCommand(NewTypesCmd())
	cmd.AddCommand(NewFieldsCmd())
	cmd.AddCommand(NewArgsCmd())
	cmd.AddCommand(NewValuesCmd())
	cmd.AddCommand(NewReferencesCmd())
	cmd.AddCommand(NewPathsCmd())
	cmd.AddCommand(NewMappingsCmd())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the CLI with the given arguments and returns stdout, stderr, and any error.
// This is useful for testing.
func ExecuteWithArgs(args []string) (stdout string, stderr string, err error) {
	return ExecuteWithArgsAndStdin(args, nil)
}

// ExecuteWithArgsAndStdin runs the CLI with the given arguments and stdin, returns stdout, stderr, and any error.
// This is useful for testing commands that read from stdin.
func ExecuteWithArgsAndStdin(args []string, stdin *bytes.Buffer) (stdout string, stderr string, err error) {
	cmd := NewRootCmd()

	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)

	cmd.SetOut(stdoutBuf)
	cmd.SetErr(stderrBuf)
	cmd.SetArgs(args)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(new(bytes.Buffer))
	}

	err = cmd.Execute()

	return stdoutBuf.String(), stderrBuf.String(), err
}
