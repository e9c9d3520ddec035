package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/samwightt/querydoc/pkg/dmmf"
	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestMakeDocument_DefaultSelection(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())

	require.Len(t, doc.Children, 1)
	root := doc.Children[0]
	assert.Equal(t, "findManyUser", root.Name)
	assert.Equal(t, []string{"id", "email", "name", "role", "createdAt", "location"}, childNames(root.Children))

	location := root.Children[5]
	assert.Equal(t, "select", location.Statement)
	assert.Equal(t, []string{"lat", "lng"}, childNames(location.Children))

	assertGolden(t, "findManyUser_default", doc.String())
}

func TestMakeDocument_NilSelection(t *testing.T) {
	doc := build(t, "query", "findManyPost", nil)

	assert.Equal(t, []string{"id", "createdAt", "updatedAt", "published", "title", "content", "views"}, childNames(doc.Children[0].Children))
}

func TestMakeDocument_UnknownOperation(t *testing.T) {
	_, err := MakeDocument(loadIndex(t), "subscription", "findManyUser", nil)

	assert.ErrorIs(t, err, dmmf.ErrUnknownRootType)
}

func TestMakeDocument_SelectFalseOmitsField(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"select": {"id": true, "email": false}}`))

	root := doc.Children[0]
	assert.Equal(t, "select", root.Statement)
	assert.Equal(t, []string{"id"}, childNames(root.Children))
}

func TestMakeDocument_IncludeExtendsDefaultSelection(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"include": {"posts": true}}`))

	root := doc.Children[0]
	assert.Equal(t, "include", root.Statement)
	assert.Equal(t, []string{"id", "email", "name", "role", "createdAt", "location", "posts"}, childNames(root.Children))
	assert.Nil(t, doc.Validate(nil, ValidateOptions{}))
}

func TestMakeDocument_RelationSelect(t *testing.T) {
	sel := parseSelection(t, `{"select": {"posts": {"select": {"title": true}, "first": 2}}}`)
	doc := build(t, "query", "findManyUser", sel)

	posts := doc.Children[0].Children[0]
	assert.Equal(t, "posts", posts.Name)
	assert.Equal(t, []string{"title"}, childNames(posts.Children))
	require.Len(t, posts.Args.Args, 1)
	assert.Equal(t, "first", posts.Args.Args[0].Key)
	assert.Equal(t, 2.0, posts.Args.Args[0].Value)
	assert.Contains(t, doc.String(), "posts(first: 2) {\n      title\n    }")
}

func TestMakeDocument_UnknownFieldSuggests(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"select": {"emial": true}}`))

	root := doc.Children[0]
	assert.True(t, root.HasInvalidChild())
	require.Len(t, root.Children, 1)
	err := root.Children[0].Error
	require.NotNil(t, err)
	assert.Equal(t, InvalidFieldName, err.Kind)
	assert.Equal(t, "User", err.ModelName)
	assert.Equal(t, "email", err.DidYouMean)
	assert.Contains(t, doc.String(), "emial # INVALID_FIELD")
}

func TestMakeDocument_ScalarFieldWithObject(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"select": {"email": {"select": {}}}}`))

	err := doc.Children[0].Children[0].Error
	require.NotNil(t, err)
	assert.Equal(t, InvalidFieldType, err.Kind)
	assert.Equal(t, "email", err.FieldName)
}

func TestMakeDocument_StatementErrors(t *testing.T) {
	tests := []struct {
		name      string
		sel       string
		statement string
		kind      FieldErrorKind
	}{
		{"empty select", `{"select": {}}`, "select", EmptySelect},
		{"no true select", `{"select": {"id": false}}`, "select", NoTrueSelect},
		{"empty include", `{"include": {}}`, "include", EmptyInclude},
		{"include and select", `{"select": {"id": true}, "include": {"posts": true}}`, "include", IncludeAndSelect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := build(t, "query", "findManyUser", parseSelection(t, tt.sel))

			root := doc.Children[0]
			require.Len(t, root.Children, 1)
			assert.Equal(t, tt.statement, root.Children[0].Name)
			require.NotNil(t, root.Children[0].Error)
			assert.Equal(t, tt.kind, root.Children[0].Error.Kind)
		})
	}
}

func TestMakeDocument_IncludeScalar(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"include": {"email": true}}`))

	root := doc.Children[0]
	assert.Equal(t, "include", root.Statement)
	err := root.Children[0].Error
	require.NotNil(t, err)
	assert.True(t, err.IsInclude)
	assert.True(t, err.IsIncludeScalar)
}

func TestMakeDocument_OrderBy(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"orderBy": {"email": "asc"}}`))

	orderBy := doc.Children[0].Args.Get("orderBy")
	require.NotNil(t, orderBy)
	assert.False(t, orderBy.HasError())
	assert.Contains(t, doc.String(), "findManyUser(orderBy: {\n    email: asc\n  }) {")
}

func TestMakeDocument_UnionPicksFilterObject(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"where": {"email": {"startsWith": "x"}}}`))

	where := doc.Children[0].Args.Get("where")
	require.NotNil(t, where)
	email := where.Value.(*Args).Get("email")
	require.NotNil(t, email)
	assert.False(t, email.HasError())
	assert.Equal(t, "StringFilter", email.ArgType.Name)
}

func TestMakeDocument_UnionPicksScalar(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"where": {"email": "a@b.c"}}`))

	email := doc.Children[0].Args.Get("where").Value.(*Args).Get("email")
	assert.False(t, email.HasError())
	assert.Equal(t, "String", email.ArgType.Name)
}

func TestMakeDocument_UnionPrefersSameKind(t *testing.T) {
	doc := build(t, "query", "findManyPost", parseSelection(t, `{"where": {"id": "not-a-uuid"}}`))

	id := doc.Children[0].Args.Get("where").Value.(*Args).Get("id")
	require.NotNil(t, id.Error)
	assert.Equal(t, InvalidType, id.Error.Kind)
	assert.Equal(t, "UUID", id.Error.RequiredType.BestFitting.Type.Name)
}

func TestMakeDocument_UUIDFilter(t *testing.T) {
	doc := build(t, "query", "findManyPost", parseSelection(t, `{"where": {"id": "5d4a9c2e-8e0f-4b1a-9c1d-2f3e4a5b6c7d"}}`))

	assert.NoError(t, doc.Validate(nil, ValidateOptions{}))
}

func TestMakeDocument_ListWrapsSingleValue(t *testing.T) {
	sel := parseSelection(t, `{"data": {"title": "Hello", "tags": "7", "published": true}, "select": {"id": true, "title": true}}`)
	doc := build(t, "mutation", "createOnePost", sel)

	tags := doc.Children[0].Args.Get("data").Value.(*Args).Get("tags")
	require.NotNil(t, tags)
	assert.Equal(t, []any{"7"}, tags.Value)
	assert.False(t, tags.HasError())

	assertGolden(t, "createOnePost_tags", doc.String())
}

func TestMakeDocument_ListElementType(t *testing.T) {
	doc := build(t, "mutation", "createOnePost", parseSelection(t, `{"data": {"title": "Hello", "tags": [1]}}`))

	tags := doc.Children[0].Args.Get("data").Value.(*Args).Get("tags")
	require.NotNil(t, tags.Error)
	assert.Equal(t, InvalidType, tags.Error.Kind)
}

func TestMakeDocument_CombinatorList(t *testing.T) {
	sel := parseSelection(t, `{"where": {"AND": [{"email": "a"}, {"name": {"contains": "b"}}]}}`)
	doc := build(t, "query", "findManyUser", sel)

	and := doc.Children[0].Args.Get("where").Value.(*Args).Get("AND")
	require.NotNil(t, and)
	items, ok := and.Value.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.IsType(t, &Args{}, items[0])
	assert.False(t, and.HasError())
}

func TestMakeDocument_CombinatorListRejectsScalars(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"where": {"AND": ["nope"]}}`))

	and := doc.Children[0].Args.Get("where").Value.(*Args).Get("AND")
	assert.True(t, and.HasError())
	_, argErrors := doc.Collect(false)
	require.Len(t, argErrors, 1)
	assert.Equal(t, []string{"where", "AND", "0"}, argErrors[0].Path)
	assert.Equal(t, InvalidType, argErrors[0].Error.Kind)
}

func TestMakeDocument_RequiredArgIsMissing(t *testing.T) {
	doc := build(t, "query", "findOneUser", selection.New())

	where := doc.Children[0].Args.Get("where")
	require.NotNil(t, where)
	require.NotNil(t, where.Error)
	assert.Equal(t, MissingArg, where.Error.Kind)
	assert.NotContains(t, doc.String(), "where")
}

func TestMakeDocument_UnknownArg(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"wher": {}}`))

	arg := doc.Children[0].Args.Get("wher")
	require.NotNil(t, arg.Error)
	assert.Equal(t, InvalidName, arg.Error.Kind)
	assert.Equal(t, "where", arg.Error.DidYouMeanArg)
	assert.Empty(t, arg.Error.DidYouMeanField)
}

func TestMakeDocument_UnknownArgMatchingField(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"email": true}`))

	arg := doc.Children[0].Args.Get("email")
	require.NotNil(t, arg.Error)
	assert.Equal(t, "email", arg.Error.DidYouMeanField)
}

func TestMakeDocument_UnsupportedListUnion(t *testing.T) {
	doc := &dmmf.Document{
		Schema: dmmf.Schema{
			RootQueryType: "Query",
			OutputTypes: []*dmmf.OutputType{
				{Name: "Query", Fields: []*dmmf.SchemaField{{
					Name:       "things",
					OutputType: &dmmf.OutputTypeRef{Type: dmmf.Named("Thing"), Kind: dmmf.ObjectKind, IsList: true},
					Args: []*dmmf.SchemaArg{{
						Name: "ids",
						InputType: dmmf.InputTypeRefs{
							{Type: dmmf.Named("String"), Kind: dmmf.ScalarKind, IsList: true},
							{Type: dmmf.Named("Int"), Kind: dmmf.ScalarKind, IsList: true},
						},
					}},
				}}},
				{Name: "Thing", Fields: []*dmmf.SchemaField{{
					Name:       "id",
					OutputType: &dmmf.OutputTypeRef{Type: dmmf.Named("String"), Kind: dmmf.ScalarKind},
				}}},
			},
		},
	}

	_, err := MakeDocument(dmmf.NewIndex(doc), "query", "things", selection.Of("ids", []any{"a"}))

	assert.True(t, errors.Is(err, ErrUnsupportedSchema))
}

func TestMakeDocument_NullMatchesEveryCandidate(t *testing.T) {
	doc := &dmmf.Document{
		Schema: dmmf.Schema{
			RootQueryType: "Query",
			InputTypes: []*dmmf.InputType{{
				Name:       "ThingWhereInput",
				AtLeastOne: true,
				Fields: []*dmmf.SchemaArg{{
					Name:      "id",
					InputType: dmmf.InputTypeRefs{{Type: dmmf.Named("String"), Kind: dmmf.ScalarKind}},
				}},
			}},
			OutputTypes: []*dmmf.OutputType{
				{Name: "Query", Fields: []*dmmf.SchemaField{{
					Name:       "things",
					OutputType: &dmmf.OutputTypeRef{Type: dmmf.Named("Thing"), Kind: dmmf.ObjectKind, IsList: true},
					Args: []*dmmf.SchemaArg{{
						Name: "where",
						InputType: dmmf.InputTypeRefs{
							{Type: dmmf.Named("String"), Kind: dmmf.ScalarKind, IsRequired: true},
							{Type: dmmf.Named("ThingWhereInput"), Kind: dmmf.ObjectKind},
						},
					}},
				}}},
				{Name: "Thing", Fields: []*dmmf.SchemaField{{
					Name:       "id",
					OutputType: &dmmf.OutputTypeRef{Type: dmmf.Named("String"), Kind: dmmf.ScalarKind},
				}}},
			},
		},
	}

	built, err := MakeDocument(dmmf.NewIndex(doc), "query", "things", selection.Of("where", nil))
	require.NoError(t, err)

	where := built.Children[0].Args.Get("where")
	require.NotNil(t, where.Error)
	assert.Equal(t, InvalidType, where.Error.Kind)
	assert.Equal(t, "String", where.Error.RequiredType.BestFitting.Type.Name)
}

func TestNewField_PropagatesFlags(t *testing.T) {
	bad := NewArg(Arg{Key: "x", Error: &ArgError{Kind: InvalidName}})
	nested := NewArg(Arg{Key: "where", Value: NewArgs([]*Arg{bad})})
	leaf := NewField(Field{Name: "posts", Args: NewArgs([]*Arg{nested})})
	root := NewField(Field{Name: "user", Children: []*Field{leaf}})

	assert.True(t, nested.HasError())
	assert.True(t, leaf.HasInvalidArg())
	assert.False(t, leaf.HasInvalidChild())
	assert.True(t, root.HasInvalidChild())
	assert.False(t, root.HasInvalidArg())
}

func TestDocument_JSON(t *testing.T) {
	doc := build(t, "query", "findManyUser", parseSelection(t, `{"select": {"id": true}, "first": 1}`))

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "query",
		"children": [{
			"name": "findManyUser",
			"statement": "select",
			"args": {"args": [{"key": "first", "value": 1, "argType": "Int"}]},
			"children": [{"name": "id"}]
		}]
	}`, string(b))
}
