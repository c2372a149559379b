package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cinesocial/auth-api/internal/domain"
	"github.com/cinesocial/auth-api/internal/repository/sqlite"
	"github.com/google/uuid"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func pendingUser(email, username, code string, expiresAt time.Time) *domain.User {
	return &domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		Username:         username,
		VerificationCode: &code,
		CodeExpiresAt:    &expiresAt,
	}
}

func TestUserRepository_UpsertByEmail_Create(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := pendingUser("test@example.com", "tester", "123456", time.Now().UTC().Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, got.ID)
	}
	if got.Username != "tester" {
		t.Fatalf("expected username tester, got %s", got.Username)
	}
	if got.VerificationCode == nil || *got.VerificationCode != "123456" {
		t.Fatalf("expected code 123456, got %v", got.VerificationCode)
	}
	if got.CodeExpiresAt == nil {
		t.Fatal("expected code expiry to be set")
	}
	if got.LastLoginAt != nil {
		t.Fatal("expected LastLoginAt to be nil for a fresh record")
	}
}

func TestUserRepository_UpsertByEmail_ConflictKeepsID(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	first := pendingUser("keep@example.com", "original", "111111", time.Now().UTC().Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := pendingUser("keep@example.com", "renamed", "222222", time.Now().UTC().Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "keep@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("id changed on conflict: expected %s, got %s", first.ID, got.ID)
	}
	if got.Username != "renamed" {
		t.Fatalf("expected username overwritten to renamed, got %s", got.Username)
	}
	if got.VerificationCode == nil || *got.VerificationCode != "222222" {
		t.Fatalf("expected new code 222222, got %v", got.VerificationCode)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByLiveCode(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()
	now := time.Now().UTC()

	user := pendingUser("live@example.com", "live", "654321", now.Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	got, err := repo.GetByLiveCode(ctx, "live@example.com", "654321", now)
	if err != nil {
		t.Fatalf("GetByLiveCode: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, got.ID)
	}

	tests := []struct {
		name  string
		email string
		code  string
		now   time.Time
	}{
		{"wrong code", "live@example.com", "000000", now},
		{"unknown email", "other@example.com", "654321", now},
		{"expired", "live@example.com", "654321", now.Add(11 * time.Minute)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.GetByLiveCode(ctx, tc.email, tc.code, tc.now)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestUserRepository_ConsumeCode(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()
	now := time.Now().UTC()

	user := pendingUser("consume@example.com", "consumer", "777777", now.Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	applied, err := repo.ConsumeCode(ctx, user.ID, "777777", now)
	if err != nil {
		t.Fatalf("ConsumeCode: %v", err)
	}
	if !applied {
		t.Fatal("expected first consume to apply")
	}

	got, err := repo.GetByEmail(ctx, "consume@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.VerificationCode != nil || got.CodeExpiresAt != nil {
		t.Fatal("expected code fields cleared after consume")
	}
	if got.LastLoginAt == nil {
		t.Fatal("expected LastLoginAt set after consume")
	}

	// The code is single-use: a second consume must not apply.
	applied, err = repo.ConsumeCode(ctx, user.ID, "777777", now)
	if err != nil {
		t.Fatalf("second ConsumeCode: %v", err)
	}
	if applied {
		t.Fatal("expected second consume not to apply")
	}
}

func TestUserRepository_ConsumeCode_WrongOrExpired(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()
	now := time.Now().UTC()

	user := pendingUser("stale@example.com", "stale", "888888", now.Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	applied, err := repo.ConsumeCode(ctx, user.ID, "999999", now)
	if err != nil {
		t.Fatalf("ConsumeCode wrong code: %v", err)
	}
	if applied {
		t.Fatal("expected consume with wrong code not to apply")
	}

	applied, err = repo.ConsumeCode(ctx, user.ID, "888888", now.Add(11*time.Minute))
	if err != nil {
		t.Fatalf("ConsumeCode expired: %v", err)
	}
	if applied {
		t.Fatal("expected consume after expiry not to apply")
	}

	// The failed attempts must not have cleared the code.
	got, err := repo.GetByEmail(ctx, "stale@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.VerificationCode == nil {
		t.Fatal("expected code to remain outstanding")
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := pendingUser("profile@example.com", "profiler", "123123", time.Now().UTC().Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	name := "Profiler"
	if err := repo.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{DisplayName: &name}); err != nil {
		t.Fatalf("UpdateProfile display name: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayName == nil || *got.DisplayName != "Profiler" {
		t.Fatalf("expected display name Profiler, got %v", got.DisplayName)
	}
	if got.AvatarURL != nil {
		t.Fatal("expected avatar to remain unset")
	}

	url := "/uploads/avatar.png"
	if err := repo.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{AvatarURL: &url}); err != nil {
		t.Fatalf("UpdateProfile avatar: %v", err)
	}

	got, err = repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AvatarURL == nil || *got.AvatarURL != url {
		t.Fatalf("expected avatar url %s, got %v", url, got.AvatarURL)
	}
	if got.DisplayName == nil || *got.DisplayName != "Profiler" {
		t.Fatal("expected display name unchanged by avatar update")
	}
}

func TestUserRepository_UpdateProfile_NoFields(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := pendingUser("noop@example.com", "noop", "456456", time.Now().UTC().Add(10*time.Minute))
	if err := repo.UpsertByEmail(ctx, user); err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}

	if err := repo.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{}); err != nil {
		t.Fatalf("expected empty update to succeed, got %v", err)
	}
}

func TestUserRepository_UpdateProfile_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()

	name := "Ghost"
	err := repo.UpdateProfile(context.Background(), uuid.NewString(), domain.ProfileUpdate{DisplayName: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
