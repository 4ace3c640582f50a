package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is a bounded in-process store. Expired entries are dropped on read; when
// full, a Set of a new key evicts the oldest inserted entry whatever its TTL.
type MemoryStore struct {
	name    string
	maxSize int

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = oldest insertion

	now func() time.Time
}

type memoryItem struct {
	key       string
	value     []byte
	expiresAt time.Time
}

func NewMemoryStore(name string, maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxMemoryEntries
	}
	return &MemoryStore{
		name:    name,
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

func (s *MemoryStore) Name() string {
	return s.name
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	item := elem.Value.(*memoryItem)
	if !s.now().Before(item.expiresAt) {
		s.removeLocked(elem)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores value until now+ttl. A non-positive ttl stores an already-expired entry.
// Overwriting keeps the key's original insertion position.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(ttl)
	if elem, ok := s.items[key]; ok {
		item := elem.Value.(*memoryItem)
		item.value = value
		item.expiresAt = expiresAt
		return nil
	}

	for s.order.Len() >= s.maxSize {
		s.removeLocked(s.order.Front())
	}
	s.items[key] = s.order.PushBack(&memoryItem{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.removeLocked(elem)
	}
	return nil
}

// Close drops every entry.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*list.Element)
	s.order.Init()
	return nil
}

// Len counts stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *MemoryStore) removeLocked(elem *list.Element) {
	item := s.order.Remove(elem).(*memoryItem)
	delete(s.items, item.key)
}
