package genui

// Typed input payloads for the client-rendered tools. The agent runtime
// fills these when it calls a display tool; the dispatcher decodes them and
// hands them to the matching presentation component. Field names follow the
// CRM analytics API's wire format.

// CallStatus is the lifecycle code the analytics API reports for a call.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
	CallStatusCancelled  CallStatus = "cancelled"
)

// Participant is one person on a call.
type Participant struct {
	ID    int     `json:"id"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Company is an organization associated with a call.
type Company struct {
	Name   *string `json:"name,omitempty"`
	Domain string  `json:"domain"`
}

// TranscriptTurn is a single utterance in a call transcript.
type TranscriptTurn struct {
	PartyID   int    `json:"party_id"`
	TurnText  string `json:"turn_text"`
	Timestamp string `json:"timestamp"`
}

// CallPreview is the list-level view of a call.
type CallPreview struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	StartTime    string        `json:"start_time"`
	Duration     *float64      `json:"duration,omitempty"`
	Status       StatusWrapper `json:"status"`
	Companies    []Company     `json:"companies,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

// StatusWrapper matches the API's nested status object.
type StatusWrapper struct {
	Code CallStatus `json:"code"`
}

// CallInsight is one extracted insight on a call.
type CallInsight struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// CallDetail extends CallPreview with summary and transcript data.
type CallDetail struct {
	CallPreview
	Summary         *string          `json:"summary,omitempty"`
	URLLink         *string          `json:"url_link,omitempty"`
	TranscriptTurns []TranscriptTurn `json:"transcript_turns,omitempty"`
	Insights        []CallInsight    `json:"insights,omitempty"`
}

// ShowCallListInput is the payload of the show-call-list tool.
type ShowCallListInput struct {
	Calls   []CallPreview `json:"calls"`
	Title   string        `json:"title,omitempty"`
	HasMore bool          `json:"hasMore,omitempty"`
}

// ShowCallInfoInput is the payload of the show-call-info tool.
type ShowCallInfoInput struct {
	Call CallDetail `json:"call"`
}

// ShowTranscriptInput is the payload of the show-transcript tool.
type ShowTranscriptInput struct {
	CallID       string           `json:"callId"`
	CallTitle    string           `json:"callTitle"`
	Turns        []TranscriptTurn `json:"turns"`
	Participants []Participant    `json:"participants"`
	Context      string           `json:"context,omitempty"`
}

// ShowParticipantsInput is the payload of the show-participants tool.
type ShowParticipantsInput struct {
	Participants []Participant `json:"participants"`
	Companies    []Company     `json:"companies,omitempty"`
	Context      string        `json:"context,omitempty"`
}
