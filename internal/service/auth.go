package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/platevision/platevision-go/internal/crypto"
	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/repository"
)

var (
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrInvalidCredentials  = errors.New("username or password incorrect")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
)

// DefaultAvatar is assigned to newly registered users.
const DefaultAvatar = "/avatar.png"

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidationError carries every registration rule the input violated, so
// the client can show them all rather than just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// ValidateRegistration checks the registration input rules: username 2-20
// characters, valid email shape, password at least 6 characters containing
// a digit and an uppercase letter. Returns a *ValidationError listing all
// violations, or nil.
func ValidateRegistration(username, email, password string) error {
	var messages []string

	if username == "" || email == "" || password == "" {
		messages = append(messages, "all fields are required")
	}
	if username != "" && (len(username) < 2 || len(username) > 20) {
		messages = append(messages, "username must be between 2 and 20 characters")
	}
	if email != "" && !emailPattern.MatchString(email) {
		messages = append(messages, "please enter a valid email address")
	}
	if password != "" {
		if len(password) < 6 {
			messages = append(messages, "password must be at least 6 characters")
		}
		if !strings.ContainsFunc(password, unicode.IsDigit) {
			messages = append(messages, "password must contain at least one digit")
		}
		if !strings.ContainsFunc(password, unicode.IsUpper) {
			messages = append(messages, "password must contain at least one uppercase letter")
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// UserStore is the flat-file user table the auth service runs against.
type UserStore interface {
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsernameOrEmail(identifier string) (*model.User, error)
	Add(user *model.User) error
}

// AuthService handles registration and login.
type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account and returns the auth envelope with a
// session token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if err := ValidateRegistration(req.Username, req.Email, req.Password); err != nil {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Avatar:       DefaultAvatar,
	}

	if err := s.users.Add(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.AuthResponse{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	token, err := crypto.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Success: true,
		Message: "registration successful",
		User:    userPayload(user),
		Token:   token,
		Storage: "file",
	}, nil
}

// Login authenticates a user by username or email. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return model.AuthResponse{}, ErrCredentialsRequired
	}

	user, err := s.users.FindByUsernameOrEmail(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Success: true,
		Message: "login successful",
		User:    userPayload(user),
		Token:   token,
		Storage: "file",
	}, nil
}

func userPayload(user *model.User) *model.UserPayload {
	avatar := user.Avatar
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &model.UserPayload{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   avatar,
		Name:     user.Username,
	}
}
