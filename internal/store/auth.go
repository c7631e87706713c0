package store

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/platevision/platevision-go/internal/model"
)

// avatarStorageKey is where the locally chosen avatar override lives. The
// override outlives the session state until an explicit logout clears it.
const avatarStorageKey = "userAvatar"

// defaultAvatar is shown when neither the server nor local storage has one.
const defaultAvatar = "/avatar.png"

// API is the adapter port the stores depend on. *client.Client satisfies it.
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// tokenSetter is implemented by adapters that carry a bearer token.
type tokenSetter interface {
	SetToken(token string)
}

// User is the session user as seen by the client.
type User struct {
	ID       string
	Username string
	Name     string
	Avatar   string
	Email    string
}

// AuthStore holds the authentication state. All mutating operations take
// the lock; Login and Logout perform network calls outside of it.
type AuthStore struct {
	api     API
	storage Storage
	logger  *slog.Logger

	mu            sync.Mutex
	authenticated bool
	user          *User
}

func NewAuthStore(api API, storage Storage, logger *slog.Logger) *AuthStore {
	if logger == nil {
		logger = slog.Default()
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &AuthStore{api: api, storage: storage, logger: logger}
}

// Login authenticates against the server. It reports only success or
// failure: bad credentials, transport errors and malformed responses are
// all indistinguishable to the caller.
func (s *AuthStore) Login(ctx context.Context, username, password string) bool {
	var resp model.AuthResponse
	req := model.LoginRequest{Username: username, Password: password}
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		s.logger.Debug("login failed", "error", err)
		return false
	}
	if !resp.Success || resp.User == nil {
		return false
	}

	if ts, ok := s.api.(tokenSetter); ok && resp.Token != "" {
		ts.SetToken(resp.Token)
	}

	s.SetUser(User{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		Name:     resp.User.Name,
		Avatar:   resp.User.Avatar,
		Email:    resp.User.Email,
	})
	return true
}

// Register creates an account. Unlike Login it surfaces the server's
// error so validation messages reach the caller.
func (s *AuthStore) Register(ctx context.Context, username, email, password string) (model.AuthResponse, error) {
	var resp model.AuthResponse
	req := model.RegisterRequest{Username: username, Email: email, Password: password}
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return model.AuthResponse{}, err
	}
	return resp, nil
}

// SetUser installs a session user directly. A stored avatar override wins
// over the supplied avatar; an empty avatar falls back to the default.
func (s *AuthStore) SetUser(u User) {
	if u.Name == "" {
		u.Name = u.Username
	}
	if u.Avatar == "" {
		u.Avatar = defaultAvatar
	}
	if override, ok := s.storage.Get(avatarStorageKey); ok && override != "" {
		u.Avatar = override
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.authenticated = true
}

// UserUpdate carries partial user changes. Empty fields are left as they
// are; Name resolution prefers an explicit name, then an explicit
// username, then the prior name.
type UserUpdate struct {
	Username string
	Name     string
	Avatar   string
	Email    string
}

// UpdateUser merges changes into the current user. No-op when logged out.
func (s *AuthStore) UpdateUser(update UserUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if update.Username != "" {
		s.user.Username = update.Username
	}
	if update.Email != "" {
		s.user.Email = update.Email
	}
	if update.Avatar != "" {
		s.user.Avatar = update.Avatar
	}
	switch {
	case update.Name != "":
		s.user.Name = update.Name
	case update.Username != "":
		s.user.Name = update.Username
	}
}

// UpdateAvatar records a local avatar choice. The override is persisted
// even when no user is logged in, so it applies to the next session too.
func (s *AuthStore) UpdateAvatar(avatar string) {
	if err := s.storage.Set(avatarStorageKey, avatar); err != nil {
		s.logger.Warn("persisting avatar override", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user.Avatar = avatar
	}
}

// Logout clears the session. The server call is best effort: local state
// and the avatar override are dropped regardless of its outcome.
func (s *AuthStore) Logout(ctx context.Context) {
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		s.logger.Debug("logout request failed", "error", err)
	}
	if err := s.storage.Delete(avatarStorageKey); err != nil {
		s.logger.Warn("clearing avatar override", "error", err)
	}
	if ts, ok := s.api.(tokenSetter); ok {
		ts.SetToken("")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
}

// IsAuthenticated reports whether a user is logged in.
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// User returns a copy of the current user, if any.
func (s *AuthStore) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
