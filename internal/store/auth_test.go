package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platevision/platevision-go/internal/model"
)

func loginSuccess(user model.UserPayload, token string) func(method, path string, body, out any) error {
	return func(method, path string, body, out any) error {
		if path == "/api/auth/login" {
			return jsonInto(out, model.AuthResponse{Success: true, Message: "login successful", User: &user, Token: token})
		}
		return nil
	}
}

func TestLogin_Success(t *testing.T) {
	api := &fakeAPI{respond: loginSuccess(model.UserPayload{
		ID: "u1", Username: "alice", Email: "alice@example.com", Avatar: "/avatars/a.png", Name: "Alice",
	}, "tok-1")}
	store := NewAuthStore(api, NewMemoryStorage(), nil)

	require.True(t, store.Login(context.Background(), "alice", "Secret123"))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-1", api.Token())

	user, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "/avatars/a.png", user.Avatar)
}

func TestLogin_NameFallsBackToUsername(t *testing.T) {
	api := &fakeAPI{respond: loginSuccess(model.UserPayload{ID: "u1", Username: "alice"}, "")}
	store := NewAuthStore(api, NewMemoryStorage(), nil)

	// Login by email: the fallback name is the account's username, not
	// whatever identifier the caller typed.
	require.True(t, store.Login(context.Background(), "alice@example.com", "Secret123"))
	user, _ := store.User()
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, defaultAvatar, user.Avatar)
}

// Rejected credentials, transport failures, and garbage responses all look
// the same to the caller: a plain false with no session established.
func TestLogin_FailureUniformity(t *testing.T) {
	responders := map[string]func(method, path string, body, out any) error{
		"rejected": func(method, path string, body, out any) error {
			return jsonInto(out, model.AuthResponse{Success: false, Message: "username or password incorrect"})
		},
		"transport error": func(method, path string, body, out any) error {
			return errors.New("connection refused")
		},
		"empty response": func(method, path string, body, out any) error {
			return nil
		},
	}

	for name, respond := range responders {
		t.Run(name, func(t *testing.T) {
			store := NewAuthStore(&fakeAPI{respond: respond}, NewMemoryStorage(), nil)
			assert.False(t, store.Login(context.Background(), "ghost", "whatever"))
			assert.False(t, store.IsAuthenticated())
			_, ok := store.User()
			assert.False(t, ok)
		})
	}
}

func TestLogin_StoredAvatarOverrideWins(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(avatarStorageKey, "/local/choice.png"))

	api := &fakeAPI{respond: loginSuccess(model.UserPayload{ID: "u1", Username: "alice", Avatar: "/server.png"}, "")}
	store := NewAuthStore(api, storage, nil)

	require.True(t, store.Login(context.Background(), "alice", "Secret123"))
	user, _ := store.User()
	assert.Equal(t, "/local/choice.png", user.Avatar)
}

// A local avatar override must not survive an explicit logout: the next
// session sees whatever the server says.
func TestLogout_ClearsAvatarOverride(t *testing.T) {
	storage := NewMemoryStorage()
	api := &fakeAPI{respond: loginSuccess(model.UserPayload{ID: "u1", Username: "alice", Avatar: "/server-x.png"}, "tok")}
	store := NewAuthStore(api, storage, nil)

	require.True(t, store.Login(context.Background(), "alice", "Secret123"))
	store.UpdateAvatar("/local/override.png")
	user, _ := store.User()
	require.Equal(t, "/local/override.png", user.Avatar)

	store.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, api.Token())
	_, ok := storage.Get(avatarStorageKey)
	assert.False(t, ok)

	store.SetUser(User{ID: "u1", Username: "alice", Avatar: "/server-y.png"})
	user, _ = store.User()
	assert.Equal(t, "/server-y.png", user.Avatar)

	calls := api.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/api/auth/logout", last.path)
}

func TestLogout_LocalStateClearedEvenWhenServerUnreachable(t *testing.T) {
	api := &fakeAPI{respond: loginSuccess(model.UserPayload{ID: "u1", Username: "alice"}, "tok")}
	store := NewAuthStore(api, NewMemoryStorage(), nil)
	require.True(t, store.Login(context.Background(), "alice", "Secret123"))

	api.respond = func(method, path string, body, out any) error {
		return errors.New("connection refused")
	}
	store.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
}

func TestUpdateUser_NameResolution(t *testing.T) {
	store := NewAuthStore(&fakeAPI{}, NewMemoryStorage(), nil)
	store.SetUser(User{ID: "u1", Username: "alice", Name: "Alice"})

	// Explicit name wins over an explicit username.
	store.UpdateUser(UserUpdate{Username: "alicia", Name: "Alicia Q."})
	user, _ := store.User()
	assert.Equal(t, "Alicia Q.", user.Name)
	assert.Equal(t, "alicia", user.Username)

	// Username alone renames the display name too.
	store.UpdateUser(UserUpdate{Username: "al"})
	user, _ = store.User()
	assert.Equal(t, "al", user.Name)

	// Unrelated updates keep the prior name.
	store.UpdateUser(UserUpdate{Email: "al@example.com"})
	user, _ = store.User()
	assert.Equal(t, "al", user.Name)
	assert.Equal(t, "al@example.com", user.Email)
}

func TestUpdateUser_NoopWhenLoggedOut(t *testing.T) {
	store := NewAuthStore(&fakeAPI{}, NewMemoryStorage(), nil)
	store.UpdateUser(UserUpdate{Name: "Nobody"})
	_, ok := store.User()
	assert.False(t, ok)
}

func TestUpdateAvatar_PersistsWithoutSession(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewAuthStore(&fakeAPI{}, storage, nil)

	store.UpdateAvatar("/next-session.png")
	v, ok := storage.Get(avatarStorageKey)
	require.True(t, ok)
	assert.Equal(t, "/next-session.png", v)

	store.SetUser(User{ID: "u1", Username: "alice", Avatar: "/server.png"})
	user, _ := store.User()
	assert.Equal(t, "/next-session.png", user.Avatar)
}

func TestRegister_PassesEnvelopeThrough(t *testing.T) {
	api := &fakeAPI{respond: func(method, path string, body, out any) error {
		require.Equal(t, "/api/auth/register", path)
		return jsonInto(out, model.AuthResponse{Success: true, Message: "registration successful", Storage: "file"})
	}}
	store := NewAuthStore(api, NewMemoryStorage(), nil)

	resp, err := store.Register(context.Background(), "bob", "bob@example.com", "Secret123")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "file", resp.Storage)
}

func TestRegister_SurfacesError(t *testing.T) {
	api := &fakeAPI{respond: func(method, path string, body, out any) error {
		return errors.New("password must contain at least one digit")
	}}
	store := NewAuthStore(api, NewMemoryStorage(), nil)

	_, err := store.Register(context.Background(), "bob", "bob@example.com", "weak")
	assert.Error(t, err)
}
