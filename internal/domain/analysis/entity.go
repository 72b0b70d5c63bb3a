package analysis

import "time"

// Fixed payloads shown when the remote call returns nothing or fails.
const (
	PlaceholderContent = "No analysis available."
	ErrorContent       = "## Error\nUnable to generate analysis at this time. Please check your API key or try again later."
)

// Request is the resolved input for one remote generation call.
type Request struct {
	Topic             Topic  `json:"topic"`
	Prompt            string `json:"prompt"`
	SystemInstruction string `json:"system_instruction"`
}

// ResultKind tells generated text apart from the fixed fallbacks.
type ResultKind string

const (
	ResultGenerated   ResultKind = "generated"
	ResultPlaceholder ResultKind = "placeholder"
	ResultError       ResultKind = "error"
)

// Result is the markdown produced for a topic selection.
type Result struct {
	Kind       ResultKind `json:"kind"`
	Content    string     `json:"content"`
	Topic      Topic      `json:"topic"`
	Generation uint64     `json:"generation"`
	CreatedAt  time.Time  `json:"created_at"`
}

// State is a read-only snapshot of an orchestrator.
type State struct {
	Topic      Topic   `json:"topic"`
	IsLoading  bool    `json:"is_loading"`
	Result     *Result `json:"result,omitempty"`
	Generation uint64  `json:"generation"`
}

// RecordID identifier type
type RecordID string

// Record is a settled analysis kept for history and auditing.
type Record struct {
	ID         RecordID   `json:"id"`
	SessionID  string     `json:"session_id"`
	Topic      Topic      `json:"topic"`
	Kind       ResultKind `json:"kind"`
	Content    string     `json:"content"`
	Model      string     `json:"model,omitempty"`
	ArchiveURL string     `json:"archive_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
