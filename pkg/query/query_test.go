package query

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

const blogPath = "../dmmf/testdata/blog.json"

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func loadIndex(t *testing.T) *dmmf.Index {
	t.Helper()
	idx, err := dmmf.Load(blogPath)
	require.NoError(t, err)
	return idx
}

func build(t *testing.T, op, rootField string, sel *selection.Object) *Document {
	t.Helper()
	doc, err := MakeDocument(loadIndex(t), op, rootField, sel)
	require.NoError(t, err)
	return doc
}

func parseSelection(t *testing.T, src string) *selection.Object {
	t.Helper()
	sel, err := selection.ParseJSON([]byte(src))
	require.NoError(t, err)
	return sel
}

func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}
