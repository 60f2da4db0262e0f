// Package dto provides data transfer objects for chat HTTP request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/chatapi/internal/validation"
)

// ChatRequest is the decrypted body of a chat stream request.
type ChatRequest struct {
	Message      string   `json:"message"`
	EnableSearch bool     `json:"enable_search"`
	URLContext   []string `json:"url_context"`
	Model        string   `json:"model"`
}

// Validate checks if the chat request is valid.
func (r *ChatRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 4000),
		),
		validation.Field(&r.Model,
			validation.Length(0, 255),
		),
	)
}

// StarRequest is the decrypted body of a star/unstar request. Starred is a
// pointer so a missing field is rejected instead of defaulting to false.
type StarRequest struct {
	Starred *bool `json:"starred"`
}

// Validate checks if the star request is valid.
func (r *StarRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Starred, validation.NotNil),
	)
}

// RenameRequest is the decrypted body of a conversation rename request.
type RenameRequest struct {
	Title string `json:"title"`
}

// Validate checks if the rename request is valid.
func (r *RenameRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
	)
}
