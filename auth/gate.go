// Package auth validates credentials against the user collection, registers
// new accounts and keeps the device session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/storage"
)

const minPasswordLen = 6

// Session is the logged-in user and the token persisted for restore
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type sessionRecord struct {
	Token string `json:"token"`
}

type SignupInput struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type Config struct {
	BcryptCost int
}

// Gate holds at most one session per device. Logging in replaces it.
type Gate struct {
	store   *catalog.Store
	storage storage.Storage
	tokens  *Tokens
	log     zerolog.Logger
	cost    int
	newID   func() string

	mu      sync.Mutex
	current *Session
	hooks   []func(models.User)
}

func NewGate(store *catalog.Store, st storage.Storage, tokens *Tokens, log zerolog.Logger, cfg Config) *Gate {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Gate{
		store:   store,
		storage: st,
		tokens:  tokens,
		log:     log,
		cost:    cost,
		newID:   func() string { return "u-" + uuid.NewString() },
	}
}

// OnLogout registers a cleanup that runs with the user being logged out
func (g *Gate) OnLogout(fn func(models.User)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, fn)
}

// Login does not say whether the email or the password was wrong
func (g *Gate) Login(ctx context.Context, email, password string) (*Session, error) {
	user, ok := g.store.FindUserByEmail(email)
	if !ok || !checkPassword(user.Password, password) {
		return nil, models.ErrInvalidCredentials
	}
	return g.start(ctx, user)
}

func (g *Gate) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := models.NormalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, models.Invalid("name", "Please enter your name")
	case !strings.Contains(email, "@"):
		return nil, models.Invalid("email", "Enter a valid email")
	case utf8.RuneCountInString(in.Password) < minPasswordLen:
		return nil, models.Invalid("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	case !in.Role.Valid():
		return nil, models.Invalid("role", "Role must be student, store_vendor or canteen_vendor")
	}
	if _, taken := g.store.FindUserByEmail(email); taken {
		return nil, models.Invalid("email", "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), g.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		ID:       g.newID(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     in.Role,
		Avatar:   Avatar(name),
	}
	if err := g.store.AddUser(ctx, user); err != nil {
		return nil, err
	}
	g.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	return g.start(ctx, user)
}

func (g *Gate) start(ctx context.Context, user models.User) (*Session, error) {
	token, err := g.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	raw, err := json.Marshal(sessionRecord{Token: token})
	if err != nil {
		return nil, err
	}
	if err := g.storage.Set(ctx, storage.KeySession, raw); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	g.mu.Lock()
	prev := g.current
	g.current = &Session{User: user, Token: token}
	hooks := append(([]func(models.User))(nil), g.hooks...)
	sess := *g.current
	g.mu.Unlock()

	if prev != nil && prev.User.ID != user.ID {
		for _, fn := range hooks {
			fn(prev.User)
		}
	}
	return &sess, nil
}

// Restore re-authenticates from the persisted session token. Any failure
// leaves the device logged out without reporting an error.
func (g *Gate) Restore(ctx context.Context) (*Session, bool) {
	raw, err := g.storage.Get(ctx, storage.KeySession)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Warn().Err(err).Msg("read session")
		}
		return nil, false
	}
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Token == "" {
		return nil, false
	}
	claims, err := g.tokens.Parse(rec.Token)
	if err != nil {
		g.log.Debug().Err(err).Msg("stored session rejected")
		return nil, false
	}
	user, ok := g.store.FindUser(claims.UserID, claims.Email)
	if !ok {
		return nil, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = &Session{User: user, Token: rec.Token}
	sess := *g.current
	g.log.Info().Str("user_id", user.ID).Msg("session restored")
	return &sess, true
}

// Logout clears the persisted session and runs the logout hooks
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	prev := g.current
	g.current = nil
	hooks := append(([]func(models.User))(nil), g.hooks...)
	g.mu.Unlock()

	err := g.storage.Delete(ctx, storage.KeySession)
	if prev != nil {
		for _, fn := range hooks {
			fn(prev.User)
		}
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (g *Gate) Current() (*Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil, false
	}
	sess := *g.current
	return &sess, true
}

// Authenticate resolves a bearer token to the user of the active session
func (g *Gate) Authenticate(token string) (models.User, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return models.User{}, err
	}
	g.mu.Lock()
	active := g.current != nil && g.current.Token == token
	g.mu.Unlock()
	if !active {
		return models.User{}, models.ErrUnauthenticated
	}
	user, ok := g.store.FindUser(claims.UserID, claims.Email)
	if !ok {
		return models.User{}, models.ErrUnauthenticated
	}
	return user, nil
}

// Avatar takes the upper-cased initials of the first two name tokens
func Avatar(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	runes := []rune(strings.ToUpper(b.String()))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}
