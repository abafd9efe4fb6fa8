package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/shamssarah/Recipe-Recommender/internal/handlers"
	"github.com/shamssarah/Recipe-Recommender/internal/middleware"
)

// SetupRoutes configures all application routes on a fresh mux
func SetupRoutes(
	recipesHandler *handlers.RecipesHandler,
	usersHandler *handlers.UsersHandler,
	healthHandler *handlers.HealthHandler,
	tokens *middleware.TokenManager,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("/health", healthHandler.HealthCheck)
	mux.HandleFunc("/livez", healthHandler.HealthCheck)
	mux.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Recipe routes; /recipes and /recipes/ share one handler
	recipes := middleware.OptionalAuthMiddleware(recipesHandler.Recipes, tokens)
	mux.HandleFunc("/recipes", recipes)
	mux.HandleFunc("/recipes/", recipes)

	// User routes
	mux.HandleFunc("/users/register", usersHandler.Register)
	mux.HandleFunc("/users/login", usersHandler.Login)
	mux.HandleFunc("/users/status", usersHandler.Status)
	mux.HandleFunc("/users/me", middleware.AuthMiddleware(usersHandler.GetProfile, tokens))

	// API docs
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", healthHandler.Root)

	return mux
}
