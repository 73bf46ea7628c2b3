package genui

import (
	"strings"

	"glycall/internal/chat"
)

// VisibleText computes the assistant text shown for a message.
//
// When a message carries more than one text part and at least one
// client-rendered tool that completed (state output-available), only the
// last text part is shown: the model tends to emit a short lead-in, call
// the display tool, then a closing summary, and showing everything would
// duplicate what the rich component already presents. In every other case
// the text parts are concatenated in order. A display tool that errored
// does not count as completed, so the full concatenation is kept.
func (r *Registry) VisibleText(message chat.Message) string {
	textParts := message.TextParts()
	if len(textParts) == 0 {
		return ""
	}

	if len(textParts) > 1 && r.hasCompletedDisplayTool(message) {
		return textParts[len(textParts)-1].Text
	}

	var b strings.Builder
	for _, part := range textParts {
		b.WriteString(part.Text)
	}
	return b.String()
}

func (r *Registry) hasCompletedDisplayTool(message chat.Message) bool {
	for _, part := range message.Parts {
		if !part.IsToolPart() {
			continue
		}
		if r.IsClientTool(part.ToolID()) && part.State == chat.ToolStateOutputAvailable {
			return true
		}
	}
	return false
}
