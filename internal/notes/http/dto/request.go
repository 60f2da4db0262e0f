// Package dto provides data transfer objects for note HTTP request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/chatapi/internal/validation"
)

// CreateNoteRequest is the decrypted body of a note creation request.
// Content is a pointer so an empty note body is accepted while a missing
// field is rejected.
type CreateNoteRequest struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

// Validate checks if the create request is valid.
func (r *CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Content, validation.NotNil),
	)
}

// UpdateNoteRequest is the decrypted body of a note update request. Nil
// fields keep their current value.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate checks if the update request is valid.
func (r *UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}
