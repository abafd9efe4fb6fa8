package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
)

// UserStore keeps users in the users table. Username uniqueness is enforced
// by the table's UNIQUE constraint.
type UserStore struct {
	db DB
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", u.Username, mapError(err))
	}
	return u, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("find user %q: %w", username, err)
	}
	return u, true, nil
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
