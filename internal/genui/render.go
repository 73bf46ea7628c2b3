package genui

import (
	"encoding/json"
	"fmt"
	"strings"

	"glycall/internal/chat"
)

// RenderKind says what a part should surface as.
type RenderKind int

const (
	// RenderNone hides the part entirely.
	RenderNone RenderKind = iota
	// RenderSkeleton shows a placeholder while a client tool's input is
	// still streaming in.
	RenderSkeleton
	// RenderStatus shows a server tool's one-line progress label.
	RenderStatus
	// RenderError shows a contained error panel for one tool call.
	RenderError
	// RenderComponent mounts a rich component with a decoded payload.
	RenderComponent
)

func (k RenderKind) String() string {
	switch k {
	case RenderSkeleton:
		return "skeleton"
	case RenderStatus:
		return "status"
	case RenderError:
		return "error"
	case RenderComponent:
		return "component"
	default:
		return "none"
	}
}

// MarshalJSON writes the kind as its wire name.
func (k RenderKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// genericToolError is shown when a tool errored without a usable message.
const genericToolError = "Failed to display content"

// Directive tells the view layer what to mount for one tool-call part.
// Key is stable across re-renders of the same message so incremental
// updates do not remount unchanged components.
type Directive struct {
	Kind      RenderKind `json:"kind"`
	Key       string     `json:"key"`
	Component string     `json:"component,omitempty"`
	Input     any        `json:"input,omitempty"`
	Label     string     `json:"label,omitempty"`
	ErrorText string     `json:"errorText,omitempty"`
}

// Render maps one tool-call part to its render directive. Parts that are
// not tool calls, suggestion-tool calls, and calls of unknown tools all map
// to RenderNone; unknown identifiers are deliberately inert so new tools
// the UI has not been taught degrade silently.
func (r *Registry) Render(part chat.Part, key string) Directive {
	if !part.IsToolPart() {
		return Directive{Kind: RenderNone, Key: key}
	}

	toolID := part.ToolID()
	switch r.Class(toolID) {
	case ToolClassClient:
		return r.renderClient(part, toolID, key)
	case ToolClassServer:
		return r.renderServer(part, toolID, key)
	default:
		// Suggestion and unknown tools never render inline.
		return Directive{Kind: RenderNone, Key: key}
	}
}

// RenderMessage maps every part of a message, preserving part order and
// assigning stable keys derived from the message id and part index.
func (r *Registry) RenderMessage(message chat.Message) []Directive {
	directives := make([]Directive, 0, len(message.Parts))
	for i, part := range message.Parts {
		if !part.IsToolPart() {
			continue
		}
		key := fmt.Sprintf("%s-%d", message.ID, i)
		directives = append(directives, r.Render(part, key))
	}
	return directives
}

func (r *Registry) renderClient(part chat.Part, toolID, key string) Directive {
	if part.State == chat.ToolStateOutputError {
		return Directive{Kind: RenderError, Key: key, Component: toolID, ErrorText: toolErrorText(part)}
	}
	if part.State != chat.ToolStateOutputAvailable {
		return Directive{Kind: RenderSkeleton, Key: key, Component: toolID}
	}

	input, err := decodeToolInput(toolID, part.Input)
	if err != nil {
		// A malformed payload is contained to this one part.
		return Directive{Kind: RenderError, Key: key, Component: toolID, ErrorText: genericToolError}
	}
	return Directive{Kind: RenderComponent, Key: key, Component: toolID, Input: input}
}

func (r *Registry) renderServer(part chat.Part, toolID, key string) Directive {
	labels, ok := r.Labels(toolID)
	if !ok {
		return Directive{Kind: RenderNone, Key: key}
	}
	if part.State != chat.ToolStateOutputAvailable && part.State != chat.ToolStateOutputError {
		return Directive{Kind: RenderStatus, Key: key, Component: toolID, Label: labels.Loading + "..."}
	}
	return Directive{Kind: RenderStatus, Key: key, Component: toolID, Label: labels.Done}
}

func toolErrorText(part chat.Part) string {
	if text := strings.TrimSpace(part.ErrorText); text != "" {
		return text
	}
	return genericToolError
}

func decodeToolInput(toolID string, raw json.RawMessage) (any, error) {
	switch toolID {
	case ToolShowCallList:
		var input ShowCallListInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("decode %s input: %w", toolID, err)
		}
		return input, nil
	case ToolShowCallInfo:
		var input ShowCallInfoInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("decode %s input: %w", toolID, err)
		}
		return input, nil
	case ToolShowTranscript:
		var input ShowTranscriptInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("decode %s input: %w", toolID, err)
		}
		return input, nil
	case ToolShowParticipants:
		var input ShowParticipantsInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("decode %s input: %w", toolID, err)
		}
		return input, nil
	default:
		return nil, fmt.Errorf("no payload decoder for tool %q", toolID)
	}
}
