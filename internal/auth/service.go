package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/events"
)

// Repository defines the user persistence needed by the auth service.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByEmail returns domain.ErrUserNotFound when no user has the
	// given (lowercase) email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Identity is the authenticated caller attached to a request by the session
// middleware. Handlers receive it by value; it carries no credentials.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Service handles registration, login and session resolution.
type Service struct {
	repo       Repository
	sessions   SessionStore
	events     *events.Publisher
	maxAge     time.Duration
	bcryptCost int
}

// NewService creates an auth service. Sessions live in the given store for
// maxAge before resolve starts rejecting them.
func NewService(repo Repository, sessions SessionStore, publisher *events.Publisher, maxAge time.Duration) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		events:     publisher,
		maxAge:     maxAge,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// RegisterRequest contains registration data.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user account. Name and email are trimmed, and the
// email is lowercased before the uniqueness check so conflicts are
// case-insensitive.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.UserRegistered, user.ID, user.ID,
		map[string]string{"email": user.Email})
	return user, nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse contains the authenticated user and the minted session.
type LoginResponse struct {
	User    *domain.User
	Session *domain.Session
}

// Login verifies credentials and mints a session. Unknown email and wrong
// password both return domain.ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: time.Now().Add(s.maxAge),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResponse{User: user, Session: session}, nil
}

// Signout destroys the session for the given token. A token the store no
// longer knows yields domain.ErrSessionNotFound, which transports surface as
// "already signed out".
func (s *Service) Signout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ValidateSession resolves a session token to the caller's identity.
func (s *Service) ValidateSession(ctx context.Context, token string) (Identity, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: session.UserID, Email: session.Email, Name: session.Name}, nil
}

// generateToken mints a 32-byte opaque session token.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
