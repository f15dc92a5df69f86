package store

import "time"

// EmbeddingRecord is one pre-embedded document chunk. Rows are written by the
// out-of-band ingestion tooling and are read-only here.
type EmbeddingRecord struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
}

type ChatSession struct {
	ID           string            `json:"id"` // UUID, minted by whoever opens the session
	StartedAt    time.Time         `json:"started_at"`
	LastActivity time.Time         `json:"last_activity"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type ChatMessage struct {
	ID              string    `json:"id"` // UUID
	SessionID       string    `json:"session_id"`
	Role            string    `json:"role"` // "user" or "assistant"
	Content         string    `json:"content"`
	QueryEmbedding  []float32 `json:"-"` // user rows only
	RetrievedSource *string   `json:"retrieved_source,omitempty"`
	RetrievedURL    *string   `json:"retrieved_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type MessageFeedback struct {
	ID        int64     `json:"id"`
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Rating    string    `json:"rating"` // "helpful" or "not_helpful"
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AnalyticsEvent struct {
	EventType string            `json:"event_type"` // session_start, message_sent, feedback_given, error
	SessionID string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
