package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamssarah/Recipe-Recommender/internal/config"
	"github.com/shamssarah/Recipe-Recommender/internal/handlers"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/middleware"
	"github.com/shamssarah/Recipe-Recommender/internal/services"
	"github.com/shamssarah/Recipe-Recommender/internal/store/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logging.Nop()
	tokens := middleware.NewTokenManager(config.JWTConfig{Secret: "s", Issuer: "wisecook", AccessTokenTTL: time.Hour})
	users := services.NewUserService(memory.NewUserStore(), tokens, log)

	mux := SetupRoutes(
		handlers.NewRecipesHandler(memory.NewRecipeStore(), config.RecipesConfig{DefaultAuthorID: 101}, log),
		handlers.NewUsersHandler(users, log),
		handlers.NewHealthHandler(nil, config.StoreMemory),
		tokens,
	)
	srv := httptest.NewServer(middleware.Chain(mux, middleware.RequestID, middleware.Logging(log), middleware.Recover(log)))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRoutes_UserAndRecipeFlow(t *testing.T) {
	srv := newServer(t)

	resp, _ := send(t, http.MethodPost, srv.URL+"/users/register",
		`{"username": "alice", "email": "alice@example.com", "password": "secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, login := send(t, http.MethodPost, srv.URL+"/users/login",
		`{"username": "alice", "password": "secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := login["access_token"].(string)

	resp, me := send(t, http.MethodGet, srv.URL+"/users/me", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", me["username"])

	recipe := `{"title": "Tomato Soup", "description": "", "prepTime": "10m", "cookTime": "20m",
		"servings": 4, "ingredients": [{"item": "tomato", "quantity": "4"}], "instructions": ["Boil"]}`

	resp, created := send(t, http.MethodPost, srv.URL+"/recipes", recipe, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), created["author_id"])

	resp, anon := send(t, http.MethodPost, srv.URL+"/recipes/", recipe, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(101), anon["author_id"])
	assert.Equal(t, float64(2), anon["id"])

	resp, status := send(t, http.MethodGet, srv.URL+"/users/status", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), status["users_registered"])
}

func TestRoutes_HealthAndRoot(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/health", "/livez"} {
		resp, body := send(t, http.MethodGet, srv.URL+path, "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
	}

	resp, body := send(t, http.MethodGet, srv.URL+"/readyz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])

	resp, body = send(t, http.MethodGet, srv.URL+"/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Recipe Recommender", body["service"])

	resp, _ = send(t, http.MethodGet, srv.URL+"/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
