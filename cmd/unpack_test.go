package cmd_test

import (
	"testing"

	"github.com/samwightt/querydoc/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersResponse = `{"data": {"findManyUser": [
	{"id": "1", "name": null, "createdAt": "2019-10-17T09:56:37.690Z"},
	{"id": "2", "name": "Bob", "createdAt": "2020-01-02T03:04:05Z"}
]}}`

func TestUnpack_TextConvertsDates(t *testing.T) {
	stdout, _, err := runWithStdin(t, usersResponse, "unpack", "--root", "findManyUser", "-s", blogSchema, "-f", "text")
	require.NoError(t, err)

	expected := "findManyUser.0.id = '1'\n" +
		"findManyUser.0.name = null\n" +
		"findManyUser.0.createdAt = new Date('2019-10-17T09:56:37.690Z')\n" +
		"findManyUser.1.id = '2'\n" +
		"findManyUser.1.name = 'Bob'\n" +
		"findManyUser.1.createdAt = new Date('2020-01-02T03:04:05.000Z')\n"
	assert.Equal(t, expected, stdout)
}

func TestUnpack_WithoutDataWrapper(t *testing.T) {
	stdout, _, err := runWithStdin(t, `{"findManyUser": [{"createdAt": "2019-10-17T09:56:37.690Z"}]}`,
		"unpack", "--root", "findManyUser", "-s", blogSchema, "-f", "text")
	require.NoError(t, err)
	assert.Equal(t, "findManyUser.0.createdAt = new Date('2019-10-17T09:56:37.690Z')\n", stdout)
}

func TestUnpack_JSONOutput(t *testing.T) {
	stdout, _, err := runWithStdin(t, usersResponse, "unpack", "--root", "findManyUser", "-s", blogSchema, "-f", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id": "1", "name": null, "createdAt": "2019-10-17T09:56:37.690Z"},
		{"id": "2", "name": "Bob", "createdAt": "2020-01-02T03:04:05.000Z"}
	]`, stdout)
}

func TestUnpack_PrettyOutput(t *testing.T) {
	stdout, _, err := runWithStdin(t, usersResponse, "unpack", "--root", "findManyUser", "-s", blogSchema, "-f", "pretty", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "findManyUser.0.createdAt")
	assert.Contains(t, stdout, "DateTime")
	assert.Contains(t, stdout, "2019-10-17T09:56:37.690Z")
}

func TestUnpack_Path(t *testing.T) {
	selPath := writeFile(t, "selection.json", `{"where": {"id": "p1"}, "include": {"author": true}}`)
	response := `{"data": {"findOnePost": {
		"title": "Hello",
		"createdAt": "2019-10-17T09:56:37.690Z",
		"author": {"email": "a@b.c", "createdAt": "2018-01-01T00:00:00.000Z"}
	}}}`

	stdout, _, err := runWithStdin(t, response,
		"unpack", "--model", "Post", "--action", "findOne", "--selection", selPath, "--path", "author", "-s", blogSchema, "-f", "text")
	require.NoError(t, err)
	assert.Equal(t, "findOnePost.author.email = 'a@b.c'\n"+
		"findOnePost.author.createdAt = new Date('2018-01-01T00:00:00.000Z')\n", stdout)
}

func TestUnpack_UnselectedDatesStayStrings(t *testing.T) {
	selPath := writeFile(t, "selection.json", `{"select": {"id": true}}`)

	stdout, _, err := runWithStdin(t, `{"findManyUser": [{"id": "1", "createdAt": "2019-10-17T09:56:37.690Z"}]}`,
		"unpack", "--root", "findManyUser", "--selection", selPath, "-s", blogSchema, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "findManyUser.0.createdAt = '2019-10-17T09:56:37.690Z'")
}

func TestUnpack_InvalidSelection(t *testing.T) {
	selPath := writeFile(t, "selection.json", `{"select": {"emial": true}}`)

	_, stderr, err := runWithStdin(t, `{}`,
		"unpack", "--root", "findManyUser", "--selection", selPath, "-s", blogSchema, "-f", "text")
	assert.ErrorIs(t, err, cmd.ErrValidationFailed)
	assert.Contains(t, stderr, "Unknown field `emial`")
}

func TestUnpack_InvalidResponse(t *testing.T) {
	_, stderr, err := runWithStdin(t, `{"data": [}`,
		"unpack", "--root", "findManyUser", "-s", blogSchema, "-f", "text")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: response parsing error:")
}

func TestUnpack_InvalidCallsite(t *testing.T) {
	stdout, stderr, err := runWithStdin(t, usersResponse,
		"unpack", "--root", "findManyUser", "--callsite", "main.ts", "-s", blogSchema, "-f", "text")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid callsite 'main.ts'")
}
