package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndMatch(t *testing.T) {
	tmpl, err := Compile("file:///{path}")
	require.NoError(t, err)
	assert.Equal(t, []string{"path"}, tmpl.Vars)

	bindings, ok := tmpl.Match("file:///home/user/notes.txt")
	require.True(t, ok)
	assert.Equal(t, "home", bindings["path"])
}

func TestMatchNoSlashCrossing(t *testing.T) {
	tmpl, err := Compile("db://{table}/{id}")
	require.NoError(t, err)

	bindings, ok := tmpl.Match("db://users/42")
	require.True(t, ok)
	assert.Equal(t, "users", bindings["table"])
	assert.Equal(t, "42", bindings["id"])

	_, ok = tmpl.Match("db://users")
	assert.False(t, ok)
}

func TestCompileRejectsNoVariables(t *testing.T) {
	_, err := Compile("file:///static/readme.txt")
	assert.Error(t, err)
}

func TestMatchCaseSensitive(t *testing.T) {
	tmpl, err := Compile("mem://{Key}")
	require.NoError(t, err)

	_, ok := tmpl.Match("MEM://abc")
	assert.False(t, ok)
}
