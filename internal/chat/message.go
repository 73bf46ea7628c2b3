package chat

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolState tracks the lifecycle of a tool-call part as the agent runtime
// streams it: input arrives first, then either an output or an error.
type ToolState string

const (
	ToolStateInputStreaming  ToolState = "input-streaming"
	ToolStateInputAvailable  ToolState = "input-available"
	ToolStateOutputAvailable ToolState = "output-available"
	ToolStateOutputError     ToolState = "output-error"
)

// Part is one typed fragment of a streamed message. The Type tag
// disambiguates the variants: "text", "reasoning", "file", or "tool-<id>"
// for tool calls. Unknown tags are tolerated and simply match none of the
// classifier predicates, so new part kinds degrade to "not rendered"
// instead of failing.
type Part struct {
	Type string `json:"type"`

	// Text carries the payload for text and reasoning parts.
	Text string `json:"text,omitempty"`

	// Tool-call fields, populated only for "tool-*" parts.
	State     ToolState       `json:"state,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
	ErrorText string          `json:"errorText,omitempty"`
}

// Message is one ordered unit of a conversation. Parts preserve the order
// they were produced by the agent runtime.
type Message struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

const toolPartPrefix = "tool-"

// IsText reports whether the part is a plain text fragment.
func (p Part) IsText() bool {
	return p.Type == "text"
}

// IsReasoning reports whether the part is a visible chain-of-thought fragment.
func (p Part) IsReasoning() bool {
	return p.Type == "reasoning"
}

// IsFile reports whether the part is a file attachment.
func (p Part) IsFile() bool {
	return p.Type == "file"
}

// IsToolPart reports whether the part is a tool call.
func (p Part) IsToolPart() bool {
	return strings.HasPrefix(p.Type, toolPartPrefix)
}

// ToolID extracts the bare tool identifier from a tool part's type tag
// (e.g. "tool-show-call-list" -> "show-call-list"). It returns "" for
// non-tool parts.
func (p Part) ToolID() string {
	if !p.IsToolPart() {
		return ""
	}
	return strings.TrimPrefix(p.Type, toolPartPrefix)
}

// TextParts returns the message's text parts in order.
func (m Message) TextParts() []Part {
	var parts []Part
	for _, part := range m.Parts {
		if part.IsText() {
			parts = append(parts, part)
		}
	}
	return parts
}

// ReasoningParts returns the message's reasoning parts in order.
func (m Message) ReasoningParts() []Part {
	var parts []Part
	for _, part := range m.Parts {
		if part.IsReasoning() {
			parts = append(parts, part)
		}
	}
	return parts
}
