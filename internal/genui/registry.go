package genui

import "glycall/internal/chat"

// Tool identifiers as the agent runtime reports them in part type tags.
const (
	ToolShowCallList     = "show-call-list"
	ToolShowCallInfo     = "show-call-info"
	ToolShowTranscript   = "show-transcript"
	ToolShowParticipants = "show-participants"

	ToolListCalls   = "list-calls"
	ToolGetCallInfo = "get-call-info"
)

// ToolClass partitions tools by how their calls surface in the transcript.
type ToolClass int

const (
	// ToolClassUnknown marks identifiers the UI has not been taught;
	// their calls render nothing and raise no error.
	ToolClassUnknown ToolClass = iota
	// ToolClassClient tools render a dedicated rich component from their
	// decoded input payload.
	ToolClassClient
	// ToolClassServer tools surface only a one-line loading/done status.
	ToolClassServer
	// ToolClassSuggestion tools feed the follow-up chips and never render
	// inline.
	ToolClassSuggestion
)

// StatusLabels are the human-readable progress strings for a server tool.
type StatusLabels struct {
	Loading string
	Done    string
}

// Registry maps tool identifiers to their rendering classification. It is
// static, process-wide configuration: built once, never mutated, safe for
// concurrent readers without locking.
type Registry struct {
	classes map[string]ToolClass
	labels  map[string]StatusLabels
}

// NewRegistry returns the registry for the Glycall tool set.
func NewRegistry() *Registry {
	return &Registry{
		classes: map[string]ToolClass{
			ToolShowCallList:     ToolClassClient,
			ToolShowCallInfo:     ToolClassClient,
			ToolShowTranscript:   ToolClassClient,
			ToolShowParticipants: ToolClassClient,
			ToolListCalls:        ToolClassServer,
			ToolGetCallInfo:      ToolClassServer,
			chat.SuggestToolID:   ToolClassSuggestion,
		},
		labels: map[string]StatusLabels{
			ToolListCalls:   {Loading: "Searching calls", Done: "Searched calls"},
			ToolGetCallInfo: {Loading: "Retrieving call information", Done: "Retrieved call information"},
		},
	}
}

// Class returns the classification for a tool identifier, ToolClassUnknown
// when the registry has no entry.
func (r *Registry) Class(toolID string) ToolClass {
	return r.classes[toolID]
}

// IsClientTool reports whether the identifier names a client-rendered tool.
func (r *Registry) IsClientTool(toolID string) bool {
	return r.classes[toolID] == ToolClassClient
}

// Labels returns the loading/done labels for a server tool.
func (r *Registry) Labels(toolID string) (StatusLabels, bool) {
	labels, ok := r.labels[toolID]
	return labels, ok
}
