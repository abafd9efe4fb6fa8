// Package services holds the user workflows that sit between the HTTP
// handlers and the stores.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/dto"
	"github.com/shamssarah/Recipe-Recommender/internal/logging"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/validation"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID int64, username string) (string, time.Time, error)
}

type UserService struct {
	users  store.UserStore
	tokens TokenIssuer
	log    logging.Logger
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users store.UserStore, tokens TokenIssuer, log logging.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		log:    log,
		cost:   bcrypt.DefaultCost,
	}
}

// Register validates req, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (models.PublicUser, error) {
	if err := validation.Struct(req); err != nil {
		return models.PublicUser{}, err
	}
	// the tag counts runes, bcrypt counts bytes
	if len(req.Password) > maxPasswordBytes {
		return models.PublicUser{}, common.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	// cheap check before paying for bcrypt; the store still enforces it
	if _, taken, err := s.users.FindByUsername(ctx, req.Username); err != nil {
		return models.PublicUser{}, err
	} else if taken {
		return models.PublicUser{}, fmt.Errorf("username %q: %w", req.Username, common.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.PublicUser{}, err
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u.Public(), nil
}

// Login checks the credentials and issues an access token. Unknown users and
// wrong passwords both return common.ErrUnauthorized after a bcrypt compare.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return dto.TokenResponse{}, err
	}

	u, found, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	if !found {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return dto.TokenResponse{}, fmt.Errorf("login %q: %w", req.Username, common.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Warn(ctx, "password compare failed", "user_id", u.ID, "error", err)
		}
		return dto.TokenResponse{}, fmt.Errorf("login %q: %w", req.Username, common.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      u.ID,
		ExpiresAt:   expiresAt,
	}, nil
}

// FindByUsername returns the public view of a user.
func (s *UserService) FindByUsername(ctx context.Context, username string) (models.PublicUser, bool, error) {
	u, found, err := s.users.FindByUsername(ctx, username)
	if err != nil || !found {
		return models.PublicUser{}, found, err
	}
	return u.Public(), true, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (models.PublicUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.Public(), nil
}

func (s *UserService) Status(ctx context.Context) (dto.StatusResponse, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return dto.StatusResponse{}, err
	}
	return dto.StatusResponse{Status: "ok", UsersRegistered: n}, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("wisecook-dummy-password"), s.cost)
	})
	return s.dummyHash
}
