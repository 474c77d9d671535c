package storage

import (
	"sync"

	"github.com/julianstephens/chime/internal/models"
)

// MemoryStore keeps the encoded snapshot in memory. Tests set SaveErr to
// simulate a failing backend.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	saves   int
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed replaces the stored raw values, for exercising decode paths.
func (s *MemoryStore) Seed(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
}

func (s *MemoryStore) Open() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Load() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return models.DefaultSnapshot()
	}
	return Decode(s.values)
}

func (s *MemoryStore) Save(snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	values, err := Encode(snap)
	if err != nil {
		return err
	}
	s.values = values
	s.saves++
	return nil
}

func (s *MemoryStore) Revision() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return revisionOf(s.values), nil
}

// Saves counts successful Save calls.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) GetConfigPath() string { return ":memory:" }
func (s *MemoryStore) Backend() string       { return BackendMemory }
