package users

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/postdeck/internal/domain"
)

// Service is the author directory plus the set of users the reader has viewed.
// The directory is filled from the API and cached in the store; the viewed
// set lives only in the store.
type Service struct {
	repo   domain.UserRepository
	store  domain.Store
	logger *slog.Logger

	mu     sync.RWMutex
	byID   map[int]domain.User
	viewed map[int]struct{}
	order  []int // viewed ids in the order they were first marked
	err    error
}

// NewService creates a users service. Cached users, if any, are available
// immediately.
func NewService(repo domain.UserRepository, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		store:  store,
		logger: logger,
		byID:   make(map[int]domain.User),
		viewed: make(map[int]struct{}),
	}
	if cached, ok := store.GetUsers(); ok {
		s.setUsers(cached)
		logger.Debug("loaded cached users", "count", len(cached))
	}
	return s
}

func (s *Service) setUsers(users []domain.User) {
	byID := make(map[int]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	s.byID = byID
}

// FetchAll loads every user from the API and refreshes the cache
func (s *Service) FetchAll(ctx context.Context) error {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		if domain.IsCanceled(err) {
			return nil
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.logger.Error("failed to fetch users", "error", err)
		return fmt.Errorf("fetch users: %w", err)
	}

	s.mu.Lock()
	s.setUsers(users)
	s.err = nil
	s.mu.Unlock()

	if err := s.store.SaveUsers(users); err != nil {
		s.logger.Warn("failed to cache users", "error", err)
	}
	s.logger.Debug("fetched users", "count", len(users))
	return nil
}

// Err returns the error of the last FetchAll, if it failed
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Loaded reports whether the directory holds any users
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID) > 0
}

// Get returns the user with the given id
func (s *Service) Get(id int) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %d", domain.ErrUserNotFound, id)
	}
	return u, nil
}

// AuthorName returns the display name for a user id, or a placeholder while
// the directory does not know it
func (s *Service) AuthorName(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.byID[id]; ok {
		return u.DisplayName()
	}
	return fmt.Sprintf("user #%d", id)
}

// All returns every user ordered by id
func (s *Service) All() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return a.ID - b.ID })
	return users
}

// Filter returns users whose name or username fuzzy-matches query, best first.
// An empty query returns all users.
func (s *Service) Filter(query string) []domain.User {
	all := s.All()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	targets := make([]string, len(all))
	for i, u := range all {
		targets[i] = u.Name + " " + u.Username
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)

	results := make([]domain.User, 0, len(ranks))
	for _, r := range ranks {
		results = append(results, all[r.OriginalIndex])
	}
	return results
}

// === Viewed users ===

// InitViewed restores the viewed set saved by a previous session
func (s *Service) InitViewed() {
	ids, ok := s.store.GetViewedUsers()
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = make(map[int]struct{}, len(ids))
	s.order = s.order[:0]
	for _, id := range ids {
		if _, dup := s.viewed[id]; dup {
			continue
		}
		s.viewed[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// MarkViewed adds id to the viewed set and persists it. Marking twice is a no-op.
func (s *Service) MarkViewed(id int) error {
	s.mu.Lock()
	if _, ok := s.viewed[id]; ok {
		s.mu.Unlock()
		return nil
	}
	s.viewed[id] = struct{}{}
	s.order = append(s.order, id)
	ids := slices.Clone(s.order)
	s.mu.Unlock()

	if err := s.store.SaveViewedUsers(ids); err != nil {
		s.logger.Error("failed to save viewed users", "error", err)
		return fmt.Errorf("save viewed users: %w", err)
	}
	return nil
}

// IsViewed reports whether the user has been viewed
func (s *Service) IsViewed(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.viewed[id]
	return ok
}

// Viewed returns the viewed ids in the order they were marked
func (s *Service) Viewed() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}
