package handlers

import (
	"errors"
	"net/http"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

// writeError maps a store or service error onto the HTTP error contract.
// Unexpected errors are logged and their detail is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		utils.WriteValidationError(w, err)
	case errors.Is(err, common.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, common.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Already exists", err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid credentials")
	default:
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}
