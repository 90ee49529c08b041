package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	m := New(map[string][]string{
		"draft":      {"registered", "cancelled"},
		"registered": {"archived"},
		"archived":   {},
	})

	assert.True(t, m.CanTransition("draft", "registered"))
	assert.True(t, m.CanTransition("draft", "cancelled"))
	assert.False(t, m.CanTransition("draft", "archived"))
	assert.False(t, m.CanTransition("archived", "draft"))
	assert.False(t, m.CanTransition("unknown", "draft"))
}

func TestAllowedTransitions(t *testing.T) {
	m := New(map[string][]string{"draft": {"registered"}})

	assert.Equal(t, []string{"registered"}, m.AllowedTransitions("draft"))
	assert.Empty(t, m.AllowedTransitions("unknown"))
}
