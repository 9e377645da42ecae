package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Email is stored lowercase and is
// unique across all users.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicView strips credentials for API responses.
func (u *User) PublicView() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// PublicUser is the client-visible projection of a User. It never carries
// the password hash.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Session represents a logged-in session. The token is the opaque value
// transported in the session cookie.
type Session struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is past its expiry window.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
