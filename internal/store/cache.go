package store

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/shamssarah/Recipe-Recommender/internal/models"
)

// CachedRecipeStore keeps recently read recipes in an LRU in front of
// another RecipeStore. Writes go through and evict the touched id.
//
// mu is held across a miss-fill and across every write, so a read that
// started before a write can never put its copy back afterwards.
type CachedRecipeStore struct {
	RecipeStore
	cache *lru.Cache
	mu    sync.Mutex
}

var _ RecipeStore = (*CachedRecipeStore)(nil)

// NewCachedRecipeStore wraps next with an LRU holding up to size recipes.
func NewCachedRecipeStore(next RecipeStore, size int) (*CachedRecipeStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("new recipe cache: %w", err)
	}
	return &CachedRecipeStore{RecipeStore: next, cache: cache}, nil
}

func (s *CachedRecipeStore) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.RecipeStore.Create(ctx, r)
	if err != nil {
		return models.Recipe{}, err
	}
	s.cache.Add(created.ID, created.Clone())
	return created, nil
}

func (s *CachedRecipeStore) Get(ctx context.Context, id int64) (models.Recipe, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(models.Recipe).Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache.Get(id); ok {
		return cached.(models.Recipe).Clone(), nil
	}
	r, err := s.RecipeStore.Get(ctx, id)
	if err != nil {
		return models.Recipe{}, err
	}
	s.cache.Add(id, r.Clone())
	return r, nil
}

func (s *CachedRecipeStore) Update(ctx context.Context, id int64, p models.RecipePatch) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.RecipeStore.Update(ctx, id, p)
	if err != nil {
		s.cache.Remove(id)
		return models.Recipe{}, err
	}
	s.cache.Add(id, updated.Clone())
	return updated, nil
}

func (s *CachedRecipeStore) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.RecipeStore.Delete(ctx, id)
	s.cache.Remove(id)
	return deleted, err
}

// Len reports how many recipes are cached.
func (s *CachedRecipeStore) Len() int {
	return s.cache.Len()
}

// Ping forwards to the wrapped store when it has a backing service.
func (s *CachedRecipeStore) Ping(ctx context.Context) error {
	if p, ok := s.RecipeStore.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
