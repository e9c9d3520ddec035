package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"pretty", FormatPretty},
		{"PRETTY", FormatPretty},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestParseFormat_Invalid(t *testing.T) {
	for _, input := range []string{"invalid", ""} {
		_, err := ParseFormat(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
		assert.Contains(t, err.Error(), "json, text, pretty")
	}
}

type mappingRow struct {
	Model  string `json:"model"`
	Action string `json:"action"`
}

func rowText(r mappingRow) string { return r.Model + "." + r.Action }

func TestRenderer_JSON(t *testing.T) {
	renderer := Renderer[mappingRow]{
		Data: []mappingRow{{"User", "findMany"}, {"Post", "create"}},
	}

	output, err := renderer.Render(FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"model":"User","action":"findMany"},{"model":"Post","action":"create"}]`, output)
	assert.Contains(t, output, "\n  {")
}

func TestRenderer_JSONEmptyAndNil(t *testing.T) {
	output, err := Renderer[mappingRow]{Data: []mappingRow{}}.Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", output)

	output, err = Renderer[mappingRow]{}.Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "null", output)
}

func TestRenderer_Text(t *testing.T) {
	tests := []struct {
		name     string
		data     []mappingRow
		expected string
	}{
		{"many", []mappingRow{{"User", "findMany"}, {"Post", "create"}}, "User.findMany\nPost.create"},
		{"single", []mappingRow{{"User", "delete"}}, "User.delete"},
		{"empty", []mappingRow{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := Renderer[mappingRow]{Data: tt.data, TextFormat: rowText}.Render(FormatText)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}

func TestRenderer_Pretty(t *testing.T) {
	renderer := Renderer[mappingRow]{
		Data: []mappingRow{{"User", "findMany"}, {"Post", "create"}},
		PrettyFormat: func(rows []mappingRow) string {
			return fmt.Sprintf("%d mappings", len(rows))
		},
	}

	output, err := renderer.Render(FormatPretty)
	require.NoError(t, err)
	assert.Equal(t, "2 mappings", output)
}

func TestRenderer_MissingFormatters(t *testing.T) {
	renderer := Renderer[mappingRow]{Data: []mappingRow{{"User", "findMany"}}}

	_, err := renderer.Render(FormatText)
	assert.ErrorContains(t, err, "text format not defined")

	_, err = renderer.Render(FormatPretty)
	assert.ErrorContains(t, err, "pretty format not defined")

	_, err = renderer.Render(Format("unknown"))
	assert.ErrorContains(t, err, "unsupported format")
}

type report struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func TestValue_Render(t *testing.T) {
	value := Value[report]{
		Data: report{Valid: false, Errors: []string{"Argument where is missing."}},
		TextFormat: func(r report) string {
			return strings.Join(r.Errors, "\n")
		},
	}

	output, err := value.Render(FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false,"errors":["Argument where is missing."]}`, output)

	output, err = value.Render(FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Argument where is missing.", output)
}

func TestValue_PrettyFallsBackToText(t *testing.T) {
	value := Value[report]{
		Data:       report{Valid: true},
		TextFormat: func(r report) string { return "plain" },
	}

	output, err := value.Render(FormatPretty)
	require.NoError(t, err)
	assert.Equal(t, "plain", output)

	value.PrettyFormat = func(r report) string { return "fancy" }
	output, err = value.Render(FormatPretty)
	require.NoError(t, err)
	assert.Equal(t, "fancy", output)
}

func TestValue_MissingFormatters(t *testing.T) {
	value := Value[report]{}

	_, err := value.Render(FormatText)
	assert.ErrorContains(t, err, "text format not defined")

	_, err = value.Render(FormatPretty)
	assert.ErrorContains(t, err, "text format not defined")

	_, err = value.Render(Format("yaml"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestValidFormats(t *testing.T) {
	assert.Equal(t, []Format{FormatJSON, FormatText, FormatPretty}, ValidFormats)
}
