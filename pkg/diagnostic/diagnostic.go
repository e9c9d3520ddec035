// Package diagnostic renders error reports: colored text fragments, source
// snippets with underlines, did-you-mean suggestions and a JavaScript-literal
// echo of a selection with the offending parts marked.
package diagnostic

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	caretStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	addStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	underline     = lipgloss.NewStyle().Underline(true)
	highlightKeys = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// paint applies a style line by line. Rendering a multi-line string in one go
// would pad every line to the same width.
func paint(style lipgloss.Style, s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func Red(s string) string       { return paint(errorStyle, s) }
func Green(s string) string     { return paint(addStyle, s) }
func Dim(s string) string       { return paint(dimStyle, s) }
func Bold(s string) string      { return paint(boldStyle, s) }
func Underline(s string) string { return paint(underline, s) }

// RedBold marks offending names inside messages.
func RedBold(s string) string { return paint(highlightKeys, s) }

// RenderSnippet renders a source line with line number, gutter, and underline caret.
// Returns something like:
//
//	3 | users({ where: {} })
//	  |         ^^^^ error message here
func RenderSnippet(source string, lineNum int, column int, length int, message string) string {
	if length < 1 {
		length = 1
	}
	if column < 1 {
		column = 1
	}

	numStr := strconv.Itoa(lineNum)
	emptyGutter := strings.Repeat(" ", len(numStr))
	pipe := gutterStyle.Render("|")

	codeLine := gutterStyle.Render(numStr) + " " + pipe + " " + source

	carets := caretStyle.Render(strings.Repeat("^", length))
	msgRendered := ""
	if message != "" {
		msgRendered = " " + messageStyle.Render(message)
	}
	underLine := emptyGutter + " " + pipe + " " + strings.Repeat(" ", column-1) + carets + msgRendered

	return codeLine + "\n" + underLine
}

// RenderLocation renders a location header like "--> main.go:3:9".
func RenderLocation(filename string, line int, column int) string {
	loc := filename + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(column)
	return gutterStyle.Render("-->") + " " + loc
}

// Callsite points at the code that issued an invocation.
type Callsite struct {
	File   string
	Line   int
	Column int
	// Source is the text of the line, rendered as a snippet when present.
	Source string
}

// Render returns the location header and, when Source is set, the snippet
// underlining the invocation from Column to the end of the line.
func (c *Callsite) Render() string {
	out := RenderLocation(c.File, c.Line, c.Column)
	if c.Source == "" {
		return out
	}
	length := len(strings.TrimRight(c.Source, " \t")) - (c.Column - 1)
	return out + "\n" + RenderSnippet(c.Source, c.Line, c.Column, length, "")
}

// Indent prefixes every non-blank line of s with n spaces.
func Indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
