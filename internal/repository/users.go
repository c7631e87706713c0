package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/platevision/platevision-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository is a flat-file user table backed by a single JSON file.
// Every lookup reads the file, every insert rewrites it atomically. The
// mutex serializes writers within this process; there is no cross-process
// locking.
type UserRepository struct {
	mu   sync.Mutex
	path string
}

// NewUserRepository creates a UserRepository persisting to the given file.
func NewUserRepository(path string) *UserRepository {
	return &UserRepository{path: path}
}

// FindByUsername retrieves a user by username.
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

// FindByEmail retrieves a user by email address.
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

// FindByUsernameOrEmail retrieves a user by either identifier.
func (r *UserRepository) FindByUsernameOrEmail(identifier string) (*model.User, error) {
	return r.find(func(u model.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

// Add inserts a new user, assigning its ID and creation time.
func (r *UserRepository) Add(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.read()
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	users = append(users, *user)

	return r.write(users)
}

// All returns every stored user.
func (r *UserRepository) All() ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *UserRepository) find(match func(model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) read() ([]model.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading user file: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing user file: %w", err)
	}
	return users, nil
}

// write replaces the user file via a temp file and rename so a crash never
// leaves a half-written table behind.
func (r *UserRepository) write(users []model.User) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing user file: %w", err)
	}
	return os.Rename(tmp, r.path)
}
