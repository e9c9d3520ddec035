package cmd_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/samwightt/querydoc/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFields(t *testing.T, args ...string) []string {
	t.Helper()
	stdout, _, err := cmd.ExecuteWithArgs(append([]string{"fields", "-s", blogSchema, "-f", "text"}, args...))
	require.NoError(t, err)
	return outputLines(stdout)
}

// fieldNames cuts each text line down to its qualified field name.
func fieldNames(lines []string) []string {
	names := make([]string, len(lines))
	for i, line := range lines {
		name, _, _ := strings.Cut(line, ":")
		name, _, _ = strings.Cut(name, "(")
		names[i] = name
	}
	return names
}

func TestFields_OutputType(t *testing.T) {
	assert.Equal(t, []string{
		"id: String!",
		"email: String!",
		"name: String",
		"role: Role!",
		"createdAt: DateTime!",
		"location: Location",
		"posts(where: PostWhereInput, orderBy: PostOrderByInput, skip: Int, first: Int): [Post]",
	}, runFields(t, "User"))
}

func TestFields_RootType(t *testing.T) {
	lines := runFields(t, "Query")

	assert.Contains(t, lines, "findOneUser(where: UserWhereUniqueInput!): User")
	assert.Contains(t, lines, "findManyUser(where: UserWhereInput, orderBy: UserOrderByInput, skip: Int, first: Int, last: Int): [User]!")
}

func TestFields_WhereInputShowsCandidates(t *testing.T) {
	lines := runFields(t, "UserWhereInput")

	assert.Equal(t, []string{"id", "email", "name", "role", "createdAt", "posts", "AND", "OR", "NOT"}, fieldNames(lines))
	assert.Contains(t, lines, "id: String | StringFilter")
	assert.Contains(t, lines, "name: String | NullableStringFilter | null")
	assert.Contains(t, lines, "posts: PostFilter")
	assert.Contains(t, lines, "AND: [UserWhereInput]")
}

func TestFields_FilterType(t *testing.T) {
	assert.Equal(t, []string{"every", "some", "none"}, fieldNames(runFields(t, "PostFilter")))
}

func TestFields_AllTypesArePrefixed(t *testing.T) {
	lines := runFields(t, "--name", "createdAt")

	assert.Equal(t, []string{
		"User.createdAt",
		"Post.createdAt",
		"UserWhereInput.createdAt",
		"PostWhereInput.createdAt",
		"UserOrderByInput.createdAt",
		"PostOrderByInput.createdAt",
	}, fieldNames(lines))
}

func TestFields_HasArg(t *testing.T) {
	lines := runFields(t, "--has-arg", "skip", "--has-arg", "first")

	assert.Equal(t, []string{"Query.findManyUser", "Query.findManyPost", "User.posts"}, fieldNames(lines))
}

func TestFields_Returns(t *testing.T) {
	lines := runFields(t, "--returns", "StringFilter")

	assert.Equal(t, []string{
		"UserWhereInput.id",
		"UserWhereInput.email",
		"PostWhereInput.title",
		"StringFilter.not",
	}, fieldNames(lines))
}

func TestFields_ReturnsOutputType(t *testing.T) {
	lines := runFields(t, "Mutation", "--returns", "Post")
	assert.Equal(t, []string{"createOnePost(data: PostCreateInput!): Post!"}, lines)
}

func TestFields_RequiredAndNullable(t *testing.T) {
	assert.Equal(t, []string{"id", "email", "role", "createdAt"}, fieldNames(runFields(t, "User", "--required")))
	assert.Equal(t, []string{"name", "location", "posts"}, fieldNames(runFields(t, "User", "--nullable")))
}

func TestFields_RequiredNullableConflict(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"fields", "-s", blogSchema, "--required", "--nullable"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--required and --nullable cannot be used together")
}

func TestFields_List(t *testing.T) {
	assert.Equal(t, []string{"posts"}, fieldNames(runFields(t, "User", "--list")))
}

func TestFields_NameGlob(t *testing.T) {
	assert.Equal(t, []string{"createdAt", "updatedAt"}, fieldNames(runFields(t, "Post", "--name", "*At")))
}

func TestFields_NameRegex(t *testing.T) {
	assert.Equal(t, []string{"findManyUser", "findManyPost"}, fieldNames(runFields(t, "Query", "--name-regex", "^findMany")))
}

func TestFields_InvalidRegex(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"fields", "-s", blogSchema, "--name-regex", "[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern for --name-regex")
}

func TestFields_Enum(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"fields", "Role", "-s", blogSchema})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'Role' is an enum, use `querydoc values Role`")
}

func TestFields_UnknownType(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"fields", "Usr", "-s", blogSchema})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type 'Usr' does not exist in schema, did you mean 'User'?")
}

func TestFields_JSONOutput(t *testing.T) {
	stdout, _, err := cmd.ExecuteWithArgs([]string{"fields", "User", "-s", blogSchema, "-f", "json", "--list"})
	require.NoError(t, err)

	var fields []cmd.FieldInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &fields))
	require.Len(t, fields, 1)
	assert.Equal(t, "posts", fields[0].Name)
	assert.Equal(t, "[Post]", fields[0].Type)
	assert.Equal(t, []cmd.ArgumentInfo{
		{Name: "where", Type: "PostWhereInput"},
		{Name: "orderBy", Type: "PostOrderByInput"},
		{Name: "skip", Type: "Int"},
		{Name: "first", Type: "Int"},
	}, fields[0].Arguments)
}

func TestFields_PrettyOutput(t *testing.T) {
	stdout, _, err := cmd.ExecuteWithArgs([]string{"fields", "User", "-s", blogSchema, "-f", "pretty", "--color", "never"})
	require.NoError(t, err)
	assert.Contains(t, stdout, "field")
	assert.Contains(t, stdout, "DateTime!")
}
