// Package memory implements the store contracts on in-process maps guarded by
// a mutex. Each store owns its map and id counter.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
	"github.com/shamssarah/Recipe-Recommender/internal/validation"
)

type RecipeStore struct {
	mu      sync.RWMutex
	recipes map[int64]models.Recipe
	nextID  int64
	now     func() time.Time
}

var _ store.RecipeStore = (*RecipeStore)(nil)

func NewRecipeStore() *RecipeStore {
	return &RecipeStore{
		recipes: make(map[int64]models.Recipe),
		nextID:  1,
		now:     time.Now,
	}
}

func (s *RecipeStore) Create(_ context.Context, r models.Recipe) (models.Recipe, error) {
	r = r.Clone()
	r.Tags = models.NormalizeTags(r.Tags)
	if err := validation.Struct(r); err != nil {
		return models.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	r.CreatedAt = s.now().UTC()
	r.UpdatedAt = r.CreatedAt
	s.recipes[r.ID] = r

	return r.Clone(), nil
}

func (s *RecipeStore) Get(_ context.Context, id int64) (models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, fmt.Errorf("recipe %d: %w", id, common.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *RecipeStore) List(_ context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if r.Matches(f) {
			out = append(out, r.Clone())
		}
	}
	// ids are handed out in insertion order
	slices.SortFunc(out, func(a, b models.Recipe) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *RecipeStore) Update(_ context.Context, id int64, p models.RecipePatch) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, fmt.Errorf("recipe %d: %w", id, common.ErrNotFound)
	}

	merged := cur.Apply(p)
	if err := validation.Struct(merged); err != nil {
		return models.Recipe{}, fmt.Errorf("update recipe %d: %w", id, err)
	}
	merged.UpdatedAt = s.now().UTC()
	s.recipes[id] = merged

	return merged.Clone(), nil
}

func (s *RecipeStore) Delete(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return 0, fmt.Errorf("recipe %d: %w", id, common.ErrNotFound)
	}
	delete(s.recipes, id)
	return id, nil
}
