package service

import "sync"

const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)

// SessionStore is a string key-value storage holding the session token and
// the serialised user descriptor.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(keys ...string)
}

type memorySession struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySession() *memorySession {
	return &memorySession{values: make(map[string]string)}
}

func (s *memorySession) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memorySession) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *memorySession) Delete(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
}
