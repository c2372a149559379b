package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cinesocial/auth-api/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, email, username, display_name, avatar_url,
	verification_code, code_expires_at, last_login_at, created_at, updated_at`

func (r *UserRepository) UpsertByEmail(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, verification_code, code_expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
		     username = excluded.username,
		     verification_code = excluded.verification_code,
		     code_expires_at = excluded.code_expires_at,
		     updated_at = excluded.updated_at`,
		user.ID, user.Email, user.Username, user.VerificationCode, user.CodeExpiresAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	return scanUser(row, "query user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	)
	return scanUser(row, "query user by email")
}

func (r *UserRepository) GetByLiveCode(ctx context.Context, email, code string, now time.Time) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email = ? AND verification_code = ? AND code_expires_at >= ?`,
		email, code, now.UTC(),
	)
	return scanUser(row, "query user by live code")
}

// ConsumeCode is a single conditional UPDATE so that two concurrent
// verifications of the same code cannot both succeed: whichever statement
// runs second no longer matches the WHERE clause.
func (r *UserRepository) ConsumeCode(ctx context.Context, id, code string, now time.Time) (bool, error) {
	utc := now.UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET verification_code = NULL, code_expires_at = NULL, last_login_at = ?, updated_at = ?
		 WHERE id = ? AND verification_code = ? AND code_expires_at >= ?`,
		utc, utc, id, code, utc,
	)
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if update.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *update.DisplayName)
	}
	if update.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, *update.AvatarURL)
	}

	// Nothing to update is a successful no-op.
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanUser.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, op string) (*domain.User, error) {
	user := &domain.User{}
	var (
		displayName sql.NullString
		avatarURL   sql.NullString
		code        sql.NullString
		expiresAt   sql.NullTime
		lastLoginAt sql.NullTime
	)

	err := row.Scan(&user.ID, &user.Email, &user.Username, &displayName, &avatarURL,
		&code, &expiresAt, &lastLoginAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if displayName.Valid {
		user.DisplayName = &displayName.String
	}
	if avatarURL.Valid {
		user.AvatarURL = &avatarURL.String
	}
	if code.Valid {
		user.VerificationCode = &code.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		user.CodeExpiresAt = &t
	}
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		user.LastLoginAt = &t
	}
	return user, nil
}
