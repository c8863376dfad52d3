package conversation

import (
	"testing"

	"github.com/Cyclone1070/aiterm/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushUser(t *testing.T) {
	c := New()
	c.PushUser("hello")

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, provider.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	c := New()
	c.PushUser("a")

	msgs := c.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "a", c.Messages()[0].Content)
}

func TestVisibleToolUseIDs(t *testing.T) {
	c := New()
	assert.Empty(t, c.VisibleToolUseIDs())

	c.PushUser("read things")
	c.Append(provider.Message{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{
		{ID: "t1", Name: "read_file"},
		{ID: "t2", Name: "read_directory"},
	}})
	c.Append(provider.Message{Role: provider.RoleTool, ToolResults: []provider.ToolResult{
		{ToolCallID: "t1"}, {ToolCallID: "t2"},
	}})
	c.Append(provider.Message{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{{ID: "t3"}}})

	assert.Equal(t, []string{"t1", "t2", "t3"}, c.VisibleToolUseIDs())
	assert.Equal(t, 4, c.Len())
}
