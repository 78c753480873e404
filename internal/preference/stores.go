package preference

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

const cookieMaxAge = 365 * 24 * time.Hour

// CookieStore keeps values in browser cookies, one cookie per key. It is bound to a
// single request/response pair.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	set    map[string]string
}

// NewCookieStore binds a store to the current request. secure marks written cookies Secure.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure, set: map[string]string{}}
}

// Get returns a value written earlier in this request, or the request cookie.
func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	if v, ok := s.set[key]; ok {
		return v, true, nil
	}
	c, err := s.r.Cookie(key)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	return c.Value, true, nil
}

// Set writes a long-lived cookie.
func (s *CookieStore) Set(_ context.Context, key, value string) error {
	s.set[key] = value
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
