// Package conversation keeps the in-memory message log of a session.
package conversation

import (
	"slices"
	"sync"

	"github.com/Cyclone1070/aiterm/internal/provider"
)

// Conversation is an ordered, append-only list of messages.
type Conversation struct {
	mu       sync.RWMutex
	messages []provider.Message
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// PushUser appends a user text message.
func (c *Conversation) PushUser(text string) {
	c.Append(provider.Message{Role: provider.RoleUser, Content: text})
}

// Append adds msg to the end of the log.
func (c *Conversation) Append(msg provider.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []provider.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.messages)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// VisibleToolUseIDs returns the ids of every tool call present in the log,
// in order of appearance.
func (c *Conversation) VisibleToolUseIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ids []string
	for _, msg := range c.messages {
		for _, tc := range msg.ToolCalls {
			ids = append(ids, tc.ID)
		}
	}
	return ids
}
