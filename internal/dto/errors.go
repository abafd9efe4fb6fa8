package dto

import "github.com/shamssarah/Recipe-Recommender/internal/common"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Details []common.FieldError `json:"details,omitempty"`
}
