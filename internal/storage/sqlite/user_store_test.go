package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	user := seedUser(t, db, "a@x.com")

	got, err := store.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v; want %v", got.ID, user.ID)
	}
	if got.PasswordHash != "x" {
		t.Errorf("PasswordHash = %q; want x", got.PasswordHash)
	}
}

func TestUserStore_GetUserByEmail_NotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	_, err := store.GetUserByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("error = %v; want ErrUserNotFound", err)
	}
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)

	first := seedUser(t, db, "a@x.com")

	dup := *first
	dup.ID = uuid.New()
	err := store.CreateUser(context.Background(), &dup)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("error = %v; want ErrEmailTaken", err)
	}
}
