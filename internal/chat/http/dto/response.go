package dto

import (
	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// ConversationListResponse is the paginated conversation listing payload.
type ConversationListResponse struct {
	Conversations []chatDomain.Summary `json:"conversations"`
	Total         int                  `json:"total"`
	HasMore       bool                 `json:"has_more"`
}

// MapSummariesToListResponse builds the listing payload from summaries.
func MapSummariesToListResponse(summaries []chatDomain.Summary, hasMore bool) ConversationListResponse {
	return ConversationListResponse{
		Conversations: summaries,
		Total:         len(summaries),
		HasMore:       hasMore,
	}
}

// APIResponse is the generic success wrapper for mutating conversation
// operations.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
}
