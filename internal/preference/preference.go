package preference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Code is a supported UI language.
type Code string

const (
	English Code = "en"
	Russian Code = "ru"
)

// Default is used when no valid preference is stored.
const Default = English

// StorageKey is the key under which the language code is persisted.
const StorageKey = "blog.lang"

// ErrUnsupported is returned by Set for languages outside the supported set.
var ErrUnsupported = errors.New("preference: unsupported language")

// Codes lists the supported languages.
func Codes() []Code { return []Code{English, Russian} }

// Parse normalises s (e.g. "ru-RU", "EN") to a supported Code.
func Parse(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, c := range Codes() {
		if base.String() == string(c) {
			return c, true
		}
	}
	return "", false
}

// Store is a persistent key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Preference reads and writes the active language through a Store and notifies
// subscribers after every successful Set.
type Preference struct {
	store  Store
	logger *zap.Logger

	mu          sync.Mutex
	subscribers []func(Code)
}

// Option customises a Preference.
type Option func(*Preference)

// WithLogger sets the logger used for store read failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Preference) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a preference backed by store.
func New(store Store, opts ...Option) *Preference {
	p := &Preference{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the stored language, or Default when it is absent, unreadable or unknown.
func (p *Preference) Get(ctx context.Context) Code {
	raw, ok, err := p.store.Get(ctx, StorageKey)
	if err != nil {
		p.logger.Warn("preference read failed", zap.Error(err))
		return Default
	}
	if !ok {
		return Default
	}
	code, ok := Parse(raw)
	if !ok {
		return Default
	}
	return code
}

// Set persists c and then notifies subscribers.
func (p *Preference) Set(ctx context.Context, c Code) error {
	code, ok := Parse(string(c))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupported, c)
	}
	if err := p.store.Set(ctx, StorageKey, string(code)); err != nil {
		return fmt.Errorf("preference: persist: %w", err)
	}
	p.mu.Lock()
	subs := make([]func(Code), len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(code)
	}
	return nil
}

// Subscribe registers fn to run after each successful Set.
func (p *Preference) Subscribe(fn func(Code)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}
