// @title Recipe Recommender API
// @version 0.1.0
// @description Recipe sharing API: users, login and recipe CRUD
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	_ "github.com/shamssarah/Recipe-Recommender/docs" // This is required for swagger
	"github.com/shamssarah/Recipe-Recommender/internal/config"
	"github.com/shamssarah/Recipe-Recommender/internal/handlers"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/middleware"
	"github.com/shamssarah/Recipe-Recommender/internal/routes"
	"github.com/shamssarah/Recipe-Recommender/internal/services"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/store/memory"
	"github.com/shamssarah/Recipe-Recommender/internal/store/postgres"
)

type stores struct {
	recipes store.RecipeStore
	users   store.UserStore
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, logger logging.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info(ctx, "connected to postgres", "host", cfg.Database.Host, "db", cfg.Database.Name)

		return &stores{
			recipes: postgres.NewRecipeStore(pool),
			users:   postgres.NewUserStore(pool),
			close:   pool.Close,
		}, nil
	default:
		return &stores{
			recipes: memory.NewRecipeStore(),
			users:   memory.NewUserStore(),
			close:   func() {},
		}, nil
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer st.close()

	recipes := st.recipes
	if cfg.Recipes.CacheSize > 0 {
		cached, err := store.NewCachedRecipeStore(recipes, cfg.Recipes.CacheSize)
		if err != nil {
			return err
		}
		recipes = cached
	}

	if cfg.Recipes.SeedExamples {
		n, err := store.Seed(ctx, recipes, cfg.Recipes.DefaultAuthorID)
		if err != nil {
			return err
		}
		logger.Info(ctx, "seeded example recipes", "count", n)
	}

	// nil for the memory store, which is always ready
	pinger, _ := recipes.(store.Pinger)

	// --- HTTP Handlers ---
	tokens := middleware.NewTokenManager(cfg.JWT)
	userService := services.NewUserService(st.users, tokens, logger)

	mux := routes.SetupRoutes(
		handlers.NewRecipesHandler(recipes, cfg.Recipes, logger),
		handlers.NewUsersHandler(userService, logger),
		handlers.NewHealthHandler(pinger, cfg.Store.Driver),
		tokens,
	)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	handler := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recover(logger),
		c.Handler,
	)

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
