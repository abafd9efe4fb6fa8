package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/config"
	"github.com/shamssarah/Recipe-Recommender/internal/utils"
)

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}
}

// GenerateToken generates a JWT token for the given user and returns it with
// its expiry.
func (m *TokenManager) GenerateToken(userID int64, username string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := JWTClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims. Every failure
// wraps common.ErrUnauthorized.
func (m *TokenManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, jwt.ErrTokenMalformed)
	}
	return claims, nil
}

// bearerToken extracts the token from "Bearer <token>". present is false
// when no Authorization header was sent.
func bearerToken(r *http.Request) (token string, present bool, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false, false
	}
	tokenParts := strings.Fields(authHeader)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return "", true, false
	}
	return tokenParts[1], true, true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", message)
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(next http.HandlerFunc, tokens *TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, present, ok := bearerToken(r)
		if !present {
			writeUnauthorized(w, "Authorization header required")
			return
		}
		if !ok {
			writeUnauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			writeUnauthorized(w, "Invalid token")
			return
		}

		ctx := utils.WithUser(r.Context(), claims.UserID, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuthMiddleware attaches the caller when a bearer token is sent and
// lets anonymous requests through. A token that is sent but invalid is
// still rejected.
func OptionalAuthMiddleware(next http.HandlerFunc, tokens *TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, present, _ := bearerToken(r); !present {
			next.ServeHTTP(w, r)
			return
		}
		AuthMiddleware(next, tokens)(w, r)
	}
}
