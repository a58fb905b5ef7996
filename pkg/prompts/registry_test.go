package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return &Registry{baseDir: t.TempDir()}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	p := StoredPrompt{
		Description: "greets someone",
		Content:     "Hello {{name}}, welcome to {{place}}.",
	}
	result := p.Render(map[string]string{"name": "Ada", "place": "London"})
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "user", result.Messages[0].Role)
	assert.Equal(t, "Hello Ada, welcome to London.", result.Messages[0].Content.Text)
}

func TestRenderLeavesUnmatchedPlaceholdersIntact(t *testing.T) {
	p := StoredPrompt{Content: "Hello {{name}}."}
	result := p.Render(map[string]string{})
	assert.Equal(t, "Hello {{name}}.", result.Messages[0].Content.Text)
}

func TestToProtocolPromptMapsVariablesToArguments(t *testing.T) {
	p := StoredPrompt{
		ID:          "greet",
		Description: "says hello",
		Variables: map[string]VariableSpec{
			"name": {Description: "who to greet", Required: true},
		},
	}
	proto := p.ToProtocolPrompt()
	assert.Equal(t, "greet", proto.Name)
	require.Len(t, proto.Arguments, 1)
	assert.Equal(t, "name", proto.Arguments[0].Name)
	assert.True(t, proto.Arguments[0].Required)
}

func TestSaveGetDeleteRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)

	p := &StoredPrompt{ID: "test-prompt", Description: "a test", Content: "hi {{x}}"}
	require.NoError(t, reg.SavePrompt(p))

	fetched, err := reg.GetPrompt("test-prompt")
	require.NoError(t, err)
	assert.Equal(t, "a test", fetched.Description)

	require.NoError(t, reg.DeletePrompt("test-prompt"))
	_, err = reg.GetPrompt("test-prompt")
	assert.Error(t, err)
}

func TestSavePromptRejectsEmptyID(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.SavePrompt(&StoredPrompt{Content: "x"})
	assert.Error(t, err)
}

func TestGetPromptPathRejectsTraversal(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.GetPromptPath("../escape")
	assert.Error(t, err)
}

func TestListPromptsReturnsAllSaved(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.SavePrompt(&StoredPrompt{ID: "one", Content: "1"}))
	require.NoError(t, reg.SavePrompt(&StoredPrompt{ID: "two", Content: "2"}))

	list, err := reg.ListPrompts()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
