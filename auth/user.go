package auth

import (
	"strings"
	"sync"
	"time"
)

// User is an account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStore is the in-memory account table keyed by lower-cased email.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]*User)}
}

// Create inserts u, failing with ErrEmailTaken when the email exists.
func (s *UserStore) Create(u *User) error {
	key := normalizeEmail(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return ErrEmailTaken
	}
	u.Email = key
	s.byEmail[key] = u
	return nil
}

func (s *UserStore) GetByEmail(email string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[normalizeEmail(email)]
	return u, ok
}

func (s *UserStore) GetByID(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
