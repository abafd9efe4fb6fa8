package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/dto"
	"github.com/shamssarah/Recipe-Recommender/internal/validation"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an ErrorResponse with the given title and detail
func WriteErrorResponse(w http.ResponseWriter, status int, title, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: title, Message: message})
}

// WriteValidationError writes a 422 listing the offending fields
func WriteValidationError(w http.ResponseWriter, err error) {
	resp := dto.ErrorResponse{Error: "Invalid input", Message: err.Error()}
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Fields
	}
	WriteJSONResponse(w, http.StatusUnprocessableEntity, resp)
}

// DecodeJSONRequest decodes the body into dst and validates it. On failure
// it writes the error response itself and returns the error.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := validation.DecodeJSON(r.Body, dst); err != nil {
		WriteValidationError(w, err)
		return err
	}
	if err := validation.Struct(dst); err != nil {
		WriteValidationError(w, err)
		return err
	}
	return nil
}
