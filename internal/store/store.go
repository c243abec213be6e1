package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPrefs = []byte("prefs")
	bucketCache = []byte("cache")
)

// Keys
const (
	keyTheme       = "app_theme"
	keyViewedUsers = "viewed_users"
	keyUsers       = "users"
)

// PrefsStore implements domain.Store using BoltDB.
// Preferences survive InvalidateAll; cached API data does not.
type PrefsStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewPrefsStore opens (or creates) the database at dbPath.
// An empty path gives a memory-only store.
func NewPrefsStore(dbPath string) (*PrefsStore, error) {
	if dbPath == "" {
		return &PrefsStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPrefs, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PrefsStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *PrefsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *PrefsStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PrefsStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// === Theme ===

func (s *PrefsStore) GetTheme() (string, bool) {
	var theme string
	ok := s.get(bucketPrefs, keyTheme, &theme)
	return theme, ok
}

func (s *PrefsStore) SaveTheme(theme string) error {
	return s.set(bucketPrefs, keyTheme, theme)
}

// === Viewed users ===

func (s *PrefsStore) GetViewedUsers() ([]int, bool) {
	var ids []int
	ok := s.get(bucketPrefs, keyViewedUsers, &ids)
	return ids, ok
}

func (s *PrefsStore) SaveViewedUsers(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	return s.set(bucketPrefs, keyViewedUsers, ids)
}

// === Users cache ===

func (s *PrefsStore) GetUsers() ([]domain.User, bool) {
	var users []domain.User
	ok := s.get(bucketCache, keyUsers, &users)
	return users, ok
}

func (s *PrefsStore) SaveUsers(users []domain.User) error {
	return s.set(bucketCache, keyUsers, users)
}

// InvalidateAll drops every cached API response. Preferences are kept.
func (s *PrefsStore) InvalidateAll() {
	s.mu.Lock()
	prefix := string(bucketCache) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
