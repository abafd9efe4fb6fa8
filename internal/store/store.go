// Package store declares the persistence contracts for users and recipes.
// Implementations live in the memory and postgres subpackages.
package store

import (
	"context"

	"github.com/shamssarah/Recipe-Recommender/internal/models"
)

// RecipeStore owns recipe records. Ids are assigned by the store, strictly
// increase and are never reused, even after a delete.
type RecipeStore interface {
	// Create validates r, assigns the next id and stores it.
	Create(ctx context.Context, r models.Recipe) (models.Recipe, error)
	// Get returns common.ErrNotFound when id is absent.
	Get(ctx context.Context, id int64) (models.Recipe, error)
	// List returns matching records in insertion order.
	List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error)
	// Update merges p over the stored record, re-validates and stores it.
	Update(ctx context.Context, id int64, p models.RecipePatch) (models.Recipe, error)
	// Delete removes the record and returns its id.
	Delete(ctx context.Context, id int64) (int64, error)
}

// UserStore owns user records. Usernames are unique (exact, case-sensitive).
type UserStore interface {
	// Create assigns the next id; common.ErrConflict when the username is taken.
	Create(ctx context.Context, u models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, bool, error)
	// FindByID returns common.ErrNotFound when id is absent.
	FindByID(ctx context.Context, id int64) (models.User, error)
	Count(ctx context.Context) (int, error)
}

// Pinger is implemented by stores that depend on an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}
