package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/config"
	"github.com/shamssarah/Recipe-Recommender/internal/dto"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

const recipesPrefix = "/recipes"

// RecipesHandler manages recipe endpoints
type RecipesHandler struct {
	recipes         store.RecipeStore
	defaultAuthorID int64
	requireAuth     bool
	log             logging.Logger
}

// NewRecipesHandler creates a new RecipesHandler
func NewRecipesHandler(recipes store.RecipeStore, cfg config.RecipesConfig, log logging.Logger) *RecipesHandler {
	return &RecipesHandler{
		recipes:         recipes,
		defaultAuthorID: cfg.DefaultAuthorID,
		requireAuth:     cfg.RequireAuth,
		log:             log,
	}
}

// Recipes dispatches by path and HTTP method for /recipes
func (h *RecipesHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, recipesPrefix), "/")

	switch rest {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.ListRecipes(w, r)
		case http.MethodPost:
			h.CreateRecipe(w, r)
		default:
			methodNotAllowed(w, "GET, POST")
		}
		return
	case "search":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, "GET")
			return
		}
		h.SearchRecipes(w, r)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		utils.WriteValidationError(w, common.NewValidationError("id", "must be a positive integer"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.GetRecipe(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.UpdateRecipe(w, r, id)
	case http.MethodDelete:
		h.DeleteRecipe(w, r, id)
	default:
		methodNotAllowed(w, "GET, PUT, PATCH, DELETE")
	}
}

// authorize resolves the author of a write. Anonymous callers get the
// configured default author unless authentication is required.
func (h *RecipesHandler) authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return userID, true
	}
	if h.requireAuth {
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
		return 0, false
	}
	return h.defaultAuthorID, true
}

// CreateRecipe handles POST /recipes/
// @Summary Create a recipe
// @Description The author is the authenticated caller, or the configured default author for anonymous requests
// @Tags recipes
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecipeRequest true "Recipe payload"
// @Success 201 {object} models.Recipe
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recipes/ [post]
func (h *RecipesHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req dto.CreateRecipeRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	recipe, err := h.recipes.Create(r.Context(), req.ToRecipe(authorID))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info(r.Context(), "recipe created", "recipe_id", recipe.ID, "author_id", recipe.AuthorID)
	utils.WriteJSONResponse(w, http.StatusCreated, recipe)
}

// GetRecipe handles GET /recipes/{id}
// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /recipes/{id} [get]
func (h *RecipesHandler) GetRecipe(w http.ResponseWriter, r *http.Request, id int64) {
	recipe, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, recipe)
}

// ListRecipes handles GET /recipes/
// @Summary List recipes
// @Description Recipes in creation order, optionally filtered
// @Tags recipes
// @Produce json
// @Param ingredient query string false "Keep recipes with an ingredient containing this text (case-insensitive)"
// @Param tag query string false "Keep recipes carrying this tag"
// @Success 200 {array} models.Recipe
// @Router /recipes/ [get]
func (h *RecipesHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, models.RecipeFilter{
		Ingredient: q.Get("ingredient"),
		Tag:        q.Get("tag"),
	})
}

// SearchRecipes handles GET /recipes/search
// @Summary Search recipes by ingredients
// @Description Keep recipes that use every listed ingredient (exact name, case-insensitive)
// @Tags recipes
// @Produce json
// @Param ingredients query string false "Comma-separated ingredient names"
// @Success 200 {array} models.Recipe
// @Router /recipes/search [get]
func (h *RecipesHandler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RecipeFilter{
		AllIngredients: models.ParseIngredientQuery(r.URL.Query().Get("ingredients")),
	})
}

func (h *RecipesHandler) list(w http.ResponseWriter, r *http.Request, f models.RecipeFilter) {
	recipes, err := h.recipes.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	utils.WriteJSONResponse(w, http.StatusOK, recipes)
}

// UpdateRecipe handles PUT and PATCH /recipes/{id}
// @Summary Update a recipe
// @Description Only the fields present in the body are changed; the merged recipe must still be valid
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param payload body dto.UpdateRecipeRequest true "Fields to change"
// @Success 200 {object} models.Recipe
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /recipes/{id} [put]
func (h *RecipesHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	recipe, err := h.recipes.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info(r.Context(), "recipe updated", "recipe_id", id)
	utils.WriteJSONResponse(w, http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /recipes/{id}
// @Summary Delete a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} dto.DeleteRecipeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /recipes/{id} [delete]
func (h *RecipesHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	deleted, err := h.recipes.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info(r.Context(), "recipe deleted", "recipe_id", deleted)
	utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteRecipeResponse{Deleted: deleted})
}
