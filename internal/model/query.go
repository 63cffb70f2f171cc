package model

// ClassifyRequest is the pipeline input
type ClassifyRequest struct {
	Text  string `json:"text"`
	UseAI bool   `json:"useAI"`
}

// ClassifyResponse is the pipeline output, one or more items per fragment in fragment order
type ClassifyResponse struct {
	Items []DetectedItem `json:"items"`
	Took  int64          `json:"took_ms"` // Response time in milliseconds
}

// ReclassifyRequest overrides the kind of a chip
type ReclassifyRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Value string `json:"value,omitempty"`
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// CorrectionExample is an agent-reclassified fragment reused as a few-shot example
type CorrectionExample struct {
	Fragment string  `json:"fragment" db:"fragment"`
	Kind     Kind    `json:"kind" db:"kind"`
	Value    string  `json:"value" db:"value"`
	Distance float64 `json:"distance,omitempty" db:"distance"`
}

// SessionInputRequest submits an utterance to a live session. Live input is
// debounced and answered on the session's event stream.
type SessionInputRequest struct {
	Text  string `json:"text"`
	UseAI bool   `json:"useAI"`
	Live  bool   `json:"live"`
}
