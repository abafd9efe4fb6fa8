package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	c := FromEnv()

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, ":8080", c.Addr())
	assert.Equal(t, 5*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, StoreMemory, c.Store.Driver)
	assert.Equal(t, int64(101), c.Recipes.DefaultAuthorID)
	assert.False(t, c.Recipes.RequireAuth)
	assert.False(t, c.Recipes.SeedExamples)
	assert.Equal(t, 0, c.Recipes.CacheSize)
	assert.Equal(t, 24*time.Hour, c.JWT.AccessTokenTTL)
	assert.Equal(t, "wisecook", c.JWT.Issuer)
	assert.Equal(t, []string{"*"}, c.CORS.AllowedOrigins)
	assert.Equal(t, "info", c.Log.Level)

	require.NoError(t, c.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("DEFAULT_AUTHOR_ID", "7")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("RECIPE_CACHE_SIZE", "256")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://127.0.0.1:5500")

	c := FromEnv()

	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, StorePostgres, c.Store.Driver)
	assert.Equal(t, int32(12), c.Database.MaxConns)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTokenTTL)
	assert.Equal(t, int64(7), c.Recipes.DefaultAuthorID)
	assert.True(t, c.Recipes.RequireAuth)
	assert.Equal(t, 256, c.Recipes.CacheSize)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:5500"}, c.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/wisecook?sslmode=disable&connect_timeout=10", c.GetDSN())

	require.NoError(t, c.Validate())
}

func TestFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("JWT_ACCESS_TTL", "forever")
	t.Setenv("REQUIRE_AUTH", "maybe")

	c := FromEnv()

	assert.Equal(t, int32(5), c.Database.MaxConns)
	assert.Equal(t, 24*time.Hour, c.JWT.AccessTokenTTL)
	assert.False(t, c.Recipes.RequireAuth)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "postgres without password",
			mutate:  func(c *Config) { c.Store.Driver = StorePostgres },
			wantErr: "DB_PASSWORD is required",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mongo" },
			wantErr: "unknown STORE_DRIVER",
		},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "placeholder secret",
			mutate:  func(c *Config) { c.JWT.Secret = placeholderJWTSecret },
			wantErr: "sample placeholder",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.JWT.Secret = "hunter2" },
			wantErr: "at least 32 bytes",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.JWT.AccessTokenTTL = 0 },
			wantErr: "JWT_ACCESS_TTL",
		},
		{
			name:    "no default author and auth optional",
			mutate:  func(c *Config) { c.Recipes.DefaultAuthorID = 0 },
			wantErr: "DEFAULT_AUTHOR_ID",
		},
		{
			name:    "negative cache",
			mutate:  func(c *Config) { c.Recipes.CacheSize = -1 },
			wantErr: "RECIPE_CACHE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			c := FromEnv()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NoDefaultAuthorAllowedWhenAuthRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	c := FromEnv()
	c.Recipes.DefaultAuthorID = 0
	c.Recipes.RequireAuth = true

	assert.NoError(t, c.Validate())
}

func TestValidate_RequiresSecretFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	err := FromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}
