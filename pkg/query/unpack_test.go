package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samwightt/querydoc/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseData(t *testing.T, src string) any {
	t.Helper()
	v, err := selection.ParseValue([]byte(src))
	require.NoError(t, err)
	return v
}

func TestUnpack_ConvertsDates(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())
	data := parseData(t, `{"findManyUser": [
		{"id": "1", "createdAt": "2019-10-17T09:56:37.690Z", "location": {"lat": 1, "lng": 2}},
		{"id": "2", "createdAt": null}
	]}`)

	result, err := Unpack(doc, []string{"findManyUser"}, data)
	require.NoError(t, err)

	users, ok := result.([]any)
	require.True(t, ok)
	require.Len(t, users, 2)

	createdAt, _ := users[0].(*selection.Object).Get("createdAt")
	expected := time.Date(2019, 10, 17, 9, 56, 37, 690_000_000, time.UTC)
	require.IsType(t, time.Time{}, createdAt)
	assert.True(t, expected.Equal(createdAt.(time.Time)))

	missing, _ := users[1].(*selection.Object).Get("createdAt")
	assert.Nil(t, missing)

	original, _ := selection.Lookup(data, []string{"findManyUser"})
	want, err := json.Marshal(original)
	require.NoError(t, err)
	got, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestUnpack_DoesNotModifyInput(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())
	data := parseData(t, `{"findManyUser": [{"createdAt": "2019-10-17T09:56:37.690Z"}]}`)

	_, err := Unpack(doc, []string{"findManyUser"}, data)
	require.NoError(t, err)

	users, _ := selection.Lookup(data, []string{"findManyUser"})
	createdAt, _ := users.([]any)[0].(*selection.Object).Get("createdAt")
	assert.Equal(t, "2019-10-17T09:56:37.690Z", createdAt)
}

func TestUnpack_NestedRelation(t *testing.T) {
	doc := build(t, "query", "findOnePost", parseSelection(t, `{"where": {"id": "p"}, "include": {"author": true}}`))
	data := parseData(t, `{"findOnePost": {
		"title": "Hello",
		"createdAt": "2020-01-02T03:04:05.000Z",
		"author": {"createdAt": "2019-10-17T09:56:37.690Z"}
	}}`)

	result, err := Unpack(doc, []string{"findOnePost"}, data)
	require.NoError(t, err)

	post := result.(*selection.Object)
	title, _ := post.Get("title")
	assert.Equal(t, "Hello", title)
	createdAt, _ := post.Get("createdAt")
	assert.IsType(t, time.Time{}, createdAt)

	author, _ := post.Get("author")
	authorCreatedAt, _ := author.(*selection.Object).Get("createdAt")
	assert.IsType(t, time.Time{}, authorCreatedAt)
}

func TestUnpack_InvalidDateKeepsValue(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())
	data := parseData(t, `{"findManyUser": {"createdAt": "yesterday"}}`)

	result, err := Unpack(doc, []string{"findManyUser"}, data)
	require.NoError(t, err)

	createdAt, _ := result.(*selection.Object).Get("createdAt")
	assert.Equal(t, "yesterday", createdAt)
}

func TestUnpack_MissingOrScalarResult(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())

	result, err := Unpack(doc, []string{"findManyUser"}, parseData(t, `{"other": 1}`))
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Unpack(doc, []string{"findManyUser"}, parseData(t, `{"findManyUser": null}`))
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Unpack(doc, []string{"findManyUser"}, parseData(t, `{"findManyUser": 5}`))
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestUnpack_UnknownPath(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())

	_, err := Unpack(doc, []string{"findManyUser", "posts"}, parseData(t, `{"findManyUser": {"posts": []}}`))

	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestGetField(t *testing.T) {
	doc := build(t, "query", "findManyUser", selection.New())

	field, err := GetField(doc, []string{"findManyUser", "location", "lat"})
	require.NoError(t, err)
	assert.Equal(t, "lat", field.Name)

	tests := []struct {
		name    string
		path    []string
		message string
	}{
		{"empty", nil, "empty path"},
		{"unknown root", []string{"findOneUser"}, "could not find field findOneUser in document"},
		{"scalar parent", []string{"findManyUser", "id", "x"}, "can't get children for field id with child x"},
		{"unknown child", []string{"findManyUser", "nope"}, "can't find child nope of field findManyUser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetField(doc, tt.path)
			require.ErrorIs(t, err, ErrFieldNotFound)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
