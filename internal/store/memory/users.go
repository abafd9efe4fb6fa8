package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
	"github.com/shamssarah/Recipe-Recommender/internal/models"
	"github.com/shamssarah/Recipe-Recommender/internal/store"
)

type UserStore struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	byUsername map[string]int64
	nextID     int64
	now        func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{
		users:      make(map[int64]models.User),
		byUsername: make(map[string]int64),
		nextID:     1,
		now:        time.Now,
	}
}

// Create checks the username and inserts under one lock, so two concurrent
// registrations of the same name cannot both succeed.
func (s *UserStore) Create(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[u.Username]; taken {
		return models.User{}, fmt.Errorf("username %q: %w", u.Username, common.ErrConflict)
	}

	u.ID = s.nextID
	s.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	s.users[u.ID] = u
	s.byUsername[u.Username] = u.ID

	return u, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, false, nil
	}
	return s.users[id], true, nil
}

func (s *UserStore) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", id, common.ErrNotFound)
	}
	return u, nil
}

func (s *UserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), nil
}
