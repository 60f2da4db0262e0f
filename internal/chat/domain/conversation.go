// Package domain defines the core types for conversations and chat turns.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a chat turn.
type MessageRole string

const (
	// UserRole marks a turn authored by the user.
	UserRole MessageRole = "user"

	// AIRole marks a turn authored by the model.
	AIRole MessageRole = "ai"
)

// Reference is a search grounding citation attached to an AI turn.
type Reference struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Domain  string  `json:"domain"`
	Snippet *string `json:"snippet,omitempty"`
}

// GroundingSupport links a span of generated text to the references that
// support it. StartIndex and EndIndex are byte offsets into the text;
// ReferenceIndices are 1-based ids into the reference list.
type GroundingSupport struct {
	StartIndex       int    `json:"start_index"`
	EndIndex         int    `json:"end_index"`
	Text             string `json:"text"`
	ReferenceIndices []int  `json:"reference_indices"`
}

// Message is a single chat turn.
type Message struct {
	ID                uuid.UUID          `json:"message_id"`
	Role              MessageRole        `json:"role"`
	Content           string             `json:"content"`
	References        []Reference        `json:"references,omitempty"`
	SearchQueries     []string           `json:"search_queries,omitempty"`
	GroundingSupports []GroundingSupport `json:"grounding_supports,omitempty"`
	URLContextURLs    []string           `json:"url_context_urls,omitempty"`
	Grounded          bool               `json:"grounded"`
	CreatedAt         time.Time          `json:"created_at"`
}

// NewUserMessage creates a user turn with the given content.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()),
		Role:      UserRole,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAIMessage creates an AI turn carrying the generation result and its
// grounding metadata.
func NewAIMessage(result GenerationResult) Message {
	return Message{
		ID:                uuid.Must(uuid.NewV7()),
		Role:              AIRole,
		Content:           result.Text,
		References:        result.References,
		SearchQueries:     result.SearchQueries,
		GroundingSupports: result.GroundingSupports,
		URLContextURLs:    result.URLContextURLs,
		Grounded:          result.Grounded,
		CreatedAt:         time.Now().UTC(),
	}
}

// GenerationResult is the complete output of a generation call, including
// any grounding metadata.
type GenerationResult struct {
	Text              string
	References        []Reference
	SearchQueries     []string
	GroundingSupports []GroundingSupport
	URLContextURLs    []string
	Grounded          bool
}

// Conversation is an ordered sequence of chat turns.
type Conversation struct {
	ID          uuid.UUID `json:"conversation_id"`
	Title       string    `json:"title"`
	Starred     bool      `json:"starred"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Summary describes a conversation in list responses, without its turns.
type Summary struct {
	ID           uuid.UUID `json:"conversation_id"`
	Title        string    `json:"title"`
	Starred      bool      `json:"starred"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Model describes a selectable generation model.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
