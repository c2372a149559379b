package domain

import (
	"context"
	"time"
)

// User represents an account in the user directory. A record is created (or
// overwritten) when a verification code is requested, and is never deleted.
//
// VerificationCode and CodeExpiresAt are both nil or both set: a code is
// outstanding only while both fields are present, and at most one code is
// live per email. A nil LastLoginAt means the user has never completed a
// verification.
type User struct {
	ID               string
	Email            string
	Username         string
	DisplayName      *string
	AvatarURL        *string
	VerificationCode *string
	CodeExpiresAt    *time.Time
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProfileUpdate is a partial update of a user's profile. Nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// UpsertByEmail inserts the user, or, if a record with the same email
	// already exists, overwrites its username, verification code, and code
	// expiry. The stored id and creation time survive the conflict.
	UpsertByEmail(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByLiveCode returns the user matching email whose outstanding code
	// equals code and has not expired as of now. Any mismatch (unknown
	// email, wrong code, expired code) returns ErrNotFound.
	GetByLiveCode(ctx context.Context, email, code string, now time.Time) (*User, error)

	// ConsumeCode atomically clears the verification code fields and records
	// the login time, but only if the stored code still equals code and is
	// unexpired as of now. It reports whether the update applied. Concurrent
	// calls for the same code see at most one true result.
	ConsumeCode(ctx context.Context, id, code string, now time.Time) (bool, error)

	// UpdateProfile applies a partial profile update. An update with no
	// fields set succeeds without touching the record.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
}
