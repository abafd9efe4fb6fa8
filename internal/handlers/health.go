package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/shamssarah/Recipe-Recommender/internal/dto"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

const (
	ServiceName = "Recipe Recommender"
	Version     = "0.1.0"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	store     store.Pinger
	storeName string
}

// NewHealthHandler creates a new HealthHandler instance. pinger may be nil
// for stores without a backing service.
func NewHealthHandler(pinger store.Pinger, storeName string) *HealthHandler {
	return &HealthHandler{store: pinger, storeName: storeName}
}

// HealthCheck handles basic liveness check (no store access)
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// ReadinessCheck handles readiness check (includes store connectivity)
// @Summary Readiness
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
				Status:  "degraded",
				Details: map[string]any{h.storeName: err.Error()},
			})
			return
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: map[string]any{h.storeName: "ok"},
	})
}

// Root identifies the service on "/" and answers 404 for unknown paths
// @Summary Service info
// @Tags health
// @Produce json
// @Success 200 {object} dto.RootResponse
// @Router / [get]
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "no route for "+r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.RootResponse{Service: ServiceName, Version: Version})
}
