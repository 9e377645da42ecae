package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
)

func newSession(ttl time.Duration) *domain.Session {
	return &domain.Session{
		Token:     "tok-" + uuid.NewString(),
		UserID:    uuid.New(),
		Email:     "a@x.com",
		Name:      "Alice",
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
}

func TestMemoryStore_Create_Resolve(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := newSession(time.Hour)
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Resolve(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.UserID != sess.UserID {
		t.Errorf("UserID = %v; want %v", got.UserID, sess.UserID)
	}
	if got.Email != "a@x.com" {
		t.Errorf("Email = %q; want a@x.com", got.Email)
	}
}

func TestMemoryStore_Resolve_Unknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Resolve(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Resolve() error = %v; want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_Resolve_Expired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := newSession(-time.Minute)
	store.Create(ctx, sess)

	_, err := store.Resolve(ctx, sess.Token)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("Resolve() error = %v; want ErrSessionExpired", err)
	}
	if store.Len() != 0 {
		t.Error("expired session should be evicted on resolve")
	}
}

func TestMemoryStore_Destroy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := newSession(time.Hour)
	store.Create(ctx, sess)

	if err := store.Destroy(ctx, sess.Token); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	if _, err := store.Resolve(ctx, sess.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("Resolve() should fail after Destroy()")
	}

	// Destroying again reports the session as gone, not success.
	if err := store.Destroy(ctx, sess.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second Destroy() error = %v; want ErrSessionNotFound", err)
	}
}
