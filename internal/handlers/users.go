package handlers

import (
	"net/http"

	"github.com/shamssarah/Recipe-Recommender/internal/dto"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/services"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

// UsersHandler handles registration, login and account endpoints
type UsersHandler struct {
	users *services.UserService
	log   logging.Logger
}

// NewUsersHandler creates a new UsersHandler instance
func NewUsersHandler(users *services.UserService, log logging.Logger) *UsersHandler {
	return &UsersHandler{users: users, log: log}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with username, email, and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} models.PublicUser "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Username already registered"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/register [post]
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username and password and receive a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/login [post]
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	token, err := h.users.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, token)
}

// Status reports the service state and registered user count
// @Summary User service status
// @Tags users
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /users/status [get]
func (h *UsersHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	status, err := h.users.Status(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, status)
}

// GetProfile returns the current user's profile
// @Summary Get current user
// @Description Get the authenticated user's public profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PublicUser
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	// Set by AuthMiddleware
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, user)
}
