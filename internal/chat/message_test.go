package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartClassifiers(t *testing.T) {
	text := Part{Type: "text", Text: "hello"}
	reasoning := Part{Type: "reasoning", Text: "thinking"}
	file := Part{Type: "file"}
	tool := Part{Type: "tool-show-call-list", State: ToolStateInputAvailable}

	assert.True(t, text.IsText())
	assert.False(t, text.IsToolPart())

	assert.True(t, reasoning.IsReasoning())
	assert.False(t, reasoning.IsText())

	assert.True(t, file.IsFile())

	assert.True(t, tool.IsToolPart())
	assert.False(t, tool.IsText())
	assert.False(t, tool.IsReasoning())
}

func TestUnknownPartTypeMatchesNoPredicate(t *testing.T) {
	part := Part{Type: "source-url"}

	assert.False(t, part.IsText())
	assert.False(t, part.IsReasoning())
	assert.False(t, part.IsFile())
	assert.False(t, part.IsToolPart())
	assert.Equal(t, "", part.ToolID())
}

func TestToolIDStripsPrefix(t *testing.T) {
	part := Part{Type: "tool-suggest-follow-ups"}
	assert.Equal(t, "suggest-follow-ups", part.ToolID())

	// A tool id that itself contains the word "tool" only loses the prefix.
	nested := Part{Type: "tool-tool-inspector"}
	assert.Equal(t, "tool-inspector", nested.ToolID())
}

func TestTextPartsPreserveOrder(t *testing.T) {
	message := Message{
		ID:   "m1",
		Role: RoleAssistant,
		Parts: []Part{
			{Type: "text", Text: "first"},
			{Type: "tool-list-calls", State: ToolStateOutputAvailable},
			{Type: "text", Text: "second"},
			{Type: "reasoning", Text: "why"},
		},
	}

	parts := message.TextParts()
	if len(parts) != 2 {
		t.Fatalf("expected 2 text parts, got %d", len(parts))
	}
	assert.Equal(t, "first", parts[0].Text)
	assert.Equal(t, "second", parts[1].Text)

	reasoning := message.ReasoningParts()
	if len(reasoning) != 1 {
		t.Fatalf("expected 1 reasoning part, got %d", len(reasoning))
	}
	assert.Equal(t, "why", reasoning[0].Text)
}
