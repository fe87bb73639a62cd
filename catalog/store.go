// Package catalog owns the process-wide collections: the baseline catalog
// overlaid with locally persisted fragments.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/storage"
)

// Collections is the full mutable state
type Collections struct {
	Users    []models.User
	Products []models.Product
	Menu     []models.MenuItem
	Orders   []models.Order
}

// Store serializes every read and mutation behind one lock and persists the
// products, menu and orders fragments after each successful Update.
type Store struct {
	mu      sync.RWMutex
	data    Collections
	source  Source
	storage storage.Storage
	log     zerolog.Logger
}

func New(source Source, st storage.Storage, log zerolog.Logger) *Store {
	return &Store{source: source, storage: st, log: log}
}

// Load builds the collections. A baseline fetch failure is not fatal: the
// store falls back to the persisted fragments (or empty collections) and
// Load returns an error wrapping models.ErrFetchFailure.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fetchErr error
	base, err := s.source.Fetch(ctx)
	if err != nil {
		fetchErr = fmt.Errorf("%w: %v", models.ErrFetchFailure, err)
		s.log.Warn().Err(err).Msg("baseline catalog unavailable, using local cache")
		base = &Baseline{}
	}

	s.data = Collections{
		Users:    append([]models.User(nil), base.Users...),
		Products: append([]models.Product(nil), base.Products...),
		Menu:     append([]models.MenuItem(nil), base.Menu...),
	}
	if v, ok := readFragment[[]models.Product](ctx, s, storage.KeyProducts); ok {
		s.data.Products = v
	}
	if v, ok := readFragment[[]models.MenuItem](ctx, s, storage.KeyMenu); ok {
		s.data.Menu = v
	}
	if v, ok := readFragment[[]models.Order](ctx, s, storage.KeyOrders); ok {
		s.data.Orders = v
	}
	if local, ok := readFragment[[]models.User](ctx, s, storage.KeyUsers); ok {
		s.data.Users = mergeUsers(s.data.Users, local)
	}

	s.log.Info().
		Int("users", len(s.data.Users)).
		Int("products", len(s.data.Products)).
		Int("menu", len(s.data.Menu)).
		Int("orders", len(s.data.Orders)).
		Msg("catalog loaded")
	return fetchErr
}

// readFragment reports ok=false for missing or corrupt fragments
func readFragment[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var v T
	raw, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Str("fragment", key).Msg("read fragment")
		}
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Debug().Err(err).Str("fragment", key).Msg("corrupt fragment ignored")
		return v, false
	}
	return v, true
}

// mergeUsers appends local users whose email is not already in base
func mergeUsers(base, local []models.User) []models.User {
	out := base
	for _, lu := range local {
		if !hasEmail(out, lu.Email) {
			out = append(out, lu)
		}
	}
	return out
}

func hasEmail(users []models.User, email string) bool {
	for _, u := range users {
		if u.SameEmail(email) {
			return true
		}
	}
	return false
}

// Persist writes products, menu and orders in full
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	entries := make(map[string][]byte, 3)
	for key, v := range map[string]any{
		storage.KeyProducts: nonNil(s.data.Products),
		storage.KeyMenu:     nonNil(s.data.Menu),
		storage.KeyOrders:   nonNil(s.data.Orders),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}
	if err := s.storage.SetMany(ctx, entries); err != nil {
		s.log.Error().Err(err).Msg("persist fragments")
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Update runs fn under the write lock and persists when fn succeeds. If fn
// or the persist fails, the collections are rolled back to their state
// before the call.
func (s *Store) Update(ctx context.Context, fn func(c *Collections) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cloneLocked()
	if err := fn(&s.data); err != nil {
		s.data = prev
		return err
	}
	if err := s.persistLocked(ctx); err != nil {
		s.data = prev
		return err
	}
	return nil
}

// View runs fn under the read lock. fn must not retain slices from c.
func (s *Store) View(fn func(c *Collections)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Snapshot returns a deep copy of the collections
func (s *Store) Snapshot() Collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

func (s *Store) cloneLocked() Collections {
	out := Collections{
		Users:    append([]models.User(nil), s.data.Users...),
		Products: append([]models.Product(nil), s.data.Products...),
		Menu:     append([]models.MenuItem(nil), s.data.Menu...),
	}
	if s.data.Orders != nil {
		out.Orders = make([]models.Order, len(s.data.Orders))
		for i, o := range s.data.Orders {
			o.Items = append([]models.OrderItem(nil), o.Items...)
			out.Orders[i] = o
		}
	}
	return out
}

// FindUser looks a user up by id and case-folded email
func (s *Store) FindUser(id, email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.Users {
		if u.ID == id && u.SameEmail(email) {
			return u, true
		}
	}
	return models.User{}, false
}

// FindUserByEmail is the signup/login lookup
func (s *Store) FindUserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.Users {
		if u.SameEmail(email) {
			return u, true
		}
	}
	return models.User{}, false
}

// AddUser appends a newly registered user to the collection and to the
// locally registered users fragment. It fails with a validation error if
// the email is already taken.
func (s *Store) AddUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hasEmail(s.data.Users, u.Email) {
		return models.Invalid("email", "Email already registered")
	}

	local, _ := readFragment[[]models.User](ctx, s, storage.KeyUsers)
	local = append(local, u)
	raw, err := json.Marshal(local)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUsers, raw); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	s.data.Users = append(s.data.Users, u)
	return nil
}
