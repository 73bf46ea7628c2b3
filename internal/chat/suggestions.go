package chat

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// SuggestToolID identifies the tool the agent calls to carry follow-up
// question chips. Its calls are never rendered inline; they exist only to
// feed ExtractSuggestions.
const SuggestToolID = "suggest-follow-ups"

// DefaultSuggestions are shown before the first exchange and whenever no
// suggestion tool output can be found in the history.
var DefaultSuggestions = []string{
	"Get me a list of all calls from the last two weeks",
	"Find all calls with jordan@freetrade.io",
	"Who did adam@glyphic.ai talk to in his last call?",
	"Summarize the calls we had in September",
}

type suggestionsOutput struct {
	Suggestions []string `json:"suggestions"`
}

// ExtractSuggestions derives the chip suggestions beneath the composer from
// the most recent qualifying suggest-follow-ups output in the history.
//
// Messages are scanned newest-first; within an assistant message parts are
// scanned in arrival order and the first qualifying tool output wins. A
// qualifying output has a non-empty suggestions array of strings; anything
// else (missing output, unparseable JSON, empty array) is skipped and the
// scan continues. With no qualifying output the default set is returned.
//
// Pure function of the message list; safe to recompute on every update.
func ExtractSuggestions(messages []Message) []string {
	if len(messages) == 0 {
		return defaultSuggestions()
	}

	for i := len(messages) - 1; i >= 0; i-- {
		message := messages[i]
		if message.Role != RoleAssistant {
			continue
		}
		for _, part := range message.Parts {
			if !part.IsToolPart() || part.ToolID() != SuggestToolID {
				continue
			}
			if !hasOutput(part) {
				continue
			}
			if suggestions, ok := decodeSuggestions(part.Output); ok {
				return suggestions
			}
		}
	}

	return defaultSuggestions()
}

func defaultSuggestions() []string {
	out := make([]string, len(DefaultSuggestions))
	copy(out, DefaultSuggestions)
	return out
}

func hasOutput(part Part) bool {
	return len(part.Output) > 0 && string(part.Output) != "null"
}

// decodeSuggestions accepts the output either as an object or as a
// JSON-encoded string containing the object, mirroring how different agent
// runtimes serialize tool results.
func decodeSuggestions(raw json.RawMessage) ([]string, bool) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return parseSuggestionsJSON(encoded)
	}

	var out suggestionsOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if len(out.Suggestions) == 0 {
		return nil, false
	}
	return out.Suggestions, true
}

func parseSuggestionsJSON(encoded string) ([]string, bool) {
	var out suggestionsOutput
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		// Models occasionally emit almost-JSON; try to repair before
		// giving up on this candidate.
		repaired, repairErr := jsonrepair.JSONRepair(encoded)
		if repairErr != nil {
			return nil, false
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return nil, false
		}
	}
	if len(out.Suggestions) == 0 {
		return nil, false
	}
	return out.Suggestions, true
}
