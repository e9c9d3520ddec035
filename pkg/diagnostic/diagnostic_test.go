package diagnostic

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestRenderSnippet_Basic(t *testing.T) {
	result := RenderSnippet("client.users({ where: {} })", 3, 8, 5, "")

	assert.Contains(t, result, "client.users({ where: {} })")
	assert.Contains(t, result, "^^^^^")
	assert.Contains(t, result, "3 |")
}

func TestRenderSnippet_WithMessage(t *testing.T) {
	result := RenderSnippet("users()", 3, 1, 5, "invalid invocation")

	assert.Contains(t, result, "^^^^^ invalid invocation")
}

func TestRenderSnippet_ZeroLengthAndColumnDefaultToOne(t *testing.T) {
	result := RenderSnippet("test", 1, 0, 0, "")

	lines := strings.Split(result, "\n")
	assert.Equal(t, "  | ^", lines[1])
}

func TestRenderSnippet_CaretAlignment(t *testing.T) {
	result := RenderSnippet("ab cde fgh", 5, 4, 3, "")

	lines := strings.Split(result, "\n")
	assert.Equal(t, "5 | ab cde fgh", lines[0])
	assert.Equal(t, "  |    ^^^", lines[1])
}

func TestRenderLocation(t *testing.T) {
	assert.Equal(t, "--> main.go:12:5", RenderLocation("main.go", 12, 5))
}

func TestCallsite_Render(t *testing.T) {
	site := &Callsite{File: "main.go", Line: 12, Column: 5, Source: "    client.users(q)"}

	result := site.Render()
	assert.Contains(t, result, "--> main.go:12:5")
	assert.Contains(t, result, "12 |     client.users(q)")
	assert.Contains(t, result, "^^^^^^^^^^^^^^^")
}

func TestCallsite_RenderWithoutSource(t *testing.T) {
	site := &Callsite{File: "query.json", Line: 1, Column: 1}

	assert.Equal(t, "--> query.json:1:1", site.Render())
}

func TestIndent_SkipsBlankLines(t *testing.T) {
	assert.Equal(t, "  a {\n\n  }", Indent("a {\n\n}", 2))
	assert.Equal(t, "x", Indent("x", 0))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "author", Suggest("mauthor", []string{"id", "author", "title"}))
	assert.Equal(t, "email", Suggest("emial", []string{"email", "name"}))
}

func TestSuggest_TooDifferent(t *testing.T) {
	assert.Empty(t, Suggest("xyz", []string{"author"}))
	assert.Empty(t, Suggest("anything", nil))
}

func TestSuggest_ShortCandidatesLimitThreshold(t *testing.T) {
	// "id" caps the threshold at 6, so a distance of 6 is rejected.
	assert.Empty(t, Suggest("abcdefgh", []string{"id", "abzzzzzz"}))
}

func TestStringify(t *testing.T) {
	value := selection.Of("a", "it's", "b", []any{1, nil}, "c d", selection.New())

	expected := strings.Join([]string{
		"{",
		"  a: 'it\\'s',",
		"  b: [",
		"    1,",
		"    null",
		"  ],",
		"  'c d': {}",
		"}",
	}, "\n")
	assert.Equal(t, expected, Stringify(value))
}

func TestStringify_Scalars(t *testing.T) {
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "'x'", Stringify("x"))
	assert.Equal(t, "String", Stringify(Raw("String")))
}

func TestPrintWithMarks_ValuePath(t *testing.T) {
	obj := selection.Of("orderBy", selection.Of("email", "asc", "id", "asc"))

	expected := strings.Join([]string{
		"{",
		"  orderBy: {",
		"    email: 'asc',",
		"    id: 'asc'",
		"  }",
		"  ~~~~~~~~~~~~~~~",
		"}",
	}, "\n")
	assert.Equal(t, expected, PrintWithMarks(obj, Marks{ValuePaths: []string{"orderBy"}}))
}

func TestPrintWithMarks_KeyPathAndMissing(t *testing.T) {
	obj := selection.Of("include", selection.Of("mauthor", true))

	marks := Marks{
		KeyPaths: []string{"include.mauthor"},
		Missing:  []MissingItem{{Path: "include.author", Type: Raw("true")}},
	}
	expected := strings.Join([]string{
		"{",
		"  include: {",
		"    mauthor: true,",
		"    ~~~~~~~",
		"?   author?: true",
		"  }",
		"}",
	}, "\n")
	assert.Equal(t, expected, PrintWithMarks(obj, marks))
}

func TestPrintWithMarks_RequiredMissingObject(t *testing.T) {
	obj := selection.Of("select", selection.Of("id", true))

	marks := Marks{
		Missing: []MissingItem{
			{Path: "data", IsRequired: true, Type: selection.Of("email", Raw("String"), "name?", Raw("String"))},
		},
	}
	expected := strings.Join([]string{
		"{",
		"  select: {",
		"    id: true",
		"  },",
		"+ data: {",
		"+   email: String,",
		"+   name?: String",
		"+ }",
		"}",
	}, "\n")
	assert.Equal(t, expected, PrintWithMarks(obj, marks))
}

func TestPrintWithMarks_SkipsPresentKeys(t *testing.T) {
	obj := selection.Of("where", selection.Of("id", "1"))

	marks := Marks{Missing: []MissingItem{{Path: "where.id", Type: Raw("String")}}}
	assert.NotContains(t, PrintWithMarks(obj, marks), "id?")
}

func TestPrintWithMarks_ListElement(t *testing.T) {
	obj := selection.Of("tags", []any{"a", 5})

	expected := strings.Join([]string{
		"{",
		"  tags: [",
		"    'a',",
		"    5",
		"    ~",
		"  ]",
		"}",
	}, "\n")
	assert.Equal(t, expected, PrintWithMarks(obj, Marks{ValuePaths: []string{"tags.1"}}))
}
