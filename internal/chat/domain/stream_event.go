package domain

// StreamEventType identifies a server-sent event emitted during a chat stream.
type StreamEventType string

const (
	ConversationStartEvent StreamEventType = "conversation_start"
	EncryptedChunkEvent    StreamEventType = "encrypted_chunk"
	EncryptedDoneEvent     StreamEventType = "encrypted_done"
	ErrorEvent             StreamEventType = "error"
)

// StreamEvent is a single event on the chat SSE stream. Chunk and done events
// carry ciphertext only, error events are sent in the clear so the client can
// always render them.
type StreamEvent struct {
	Type          StreamEventType `json:"type"`
	EncryptedData string          `json:"encrypted_data,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// ChunkPayload is the plaintext encrypted into an encrypted_chunk event.
type ChunkPayload struct {
	Content string `json:"content"`
}

// DonePayload is the plaintext encrypted into the final encrypted_done event.
// Grounding fields are only present when the response used search grounding
// or url context.
type DonePayload struct {
	Type              string             `json:"type"`
	ConversationID    string             `json:"conversation_id"`
	References        []Reference        `json:"references,omitempty"`
	SearchQueries     []string           `json:"search_queries,omitempty"`
	GroundingSupports []GroundingSupport `json:"grounding_supports,omitempty"`
	URLContextURLs    []string           `json:"url_context_urls,omitempty"`
	Grounded          bool               `json:"grounded,omitempty"`
}
