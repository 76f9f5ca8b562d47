package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"capicare-backend/internal/model"
	"capicare-backend/internal/webhook"

	"go.uber.org/zap"
)

// FileStore is the always-available fallback backend: an in-memory map keyed
// by normalized email, flushed to a single JSON file as a whole on every
// write. A RWMutex serializes access within the process; it is not safe for
// multiple processes sharing the file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	users  map[string]*model.Purchase
	logger *zap.Logger
}

func NewFileStore(dataDir, fileName string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		path:   filepath.Join(dataDir, fileName),
		users:  make(map[string]*model.Purchase),
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // created on first save
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var users []*model.Purchase
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}

	for _, u := range users {
		s.users[webhook.NormalizeEmail(u.Email)] = u
	}
	s.logger.Info("loaded users from file", zap.Int("count", len(s.users)), zap.String("path", s.path))
	return nil
}

// flush writes the whole collection. Caller must hold the write lock.
func (s *FileStore) flush() error {
	users := make([]*model.Purchase, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Save(record *model.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	cp.Email = webhook.NormalizeEmail(record.Email)
	s.users[cp.Email] = &cp

	return s.flush()
}

func (s *FileStore) Get(email string) (*model.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[webhook.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *FileStore) List() ([]*model.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.Purchase, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (s *FileStore) Delete(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := webhook.NormalizeEmail(email)
	if _, ok := s.users[key]; !ok {
		return false, nil
	}
	delete(s.users, key)

	if err := s.flush(); err != nil {
		return true, err
	}
	return true, nil
}
