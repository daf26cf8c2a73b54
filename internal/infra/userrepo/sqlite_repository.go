package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
)

// SQLiteRepository persists users in an embedded SQLite database.
// Timestamps are stored as unix milliseconds.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new repository over an already migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new user row.
func (r *SQLiteRepository) Create(ctx context.Context, username, email, passwordHash string) (auth.User, error) {
	created := r.now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, username, email, passwordHash, created.UnixMilli())
	if err != nil {
		return auth.User{}, mapSQLiteUnique(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return auth.User{}, err
	}
	return auth.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.UnixMilli(created.UnixMilli()).UTC(),
	}, nil
}

// GetByUsername fetches a user by username.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (auth.User, bool, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username)
}

// GetByEmail fetches a user by email.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

// GetByID fetches by primary key.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) getUser(ctx context.Context, query string, arg any) (auth.User, bool, error) {
	var user auth.User
	var created int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	user.CreatedAt = time.UnixMilli(created).UTC()
	return user, true, nil
}

// GetIdentity returns an identity by provider and subject.
func (r *SQLiteRepository) GetIdentity(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities WHERE provider = ? AND provider_subject = ?
	`, provider, providerSubject)
}

// GetIdentityByUser returns an identity by user and provider.
func (r *SQLiteRepository) GetIdentityByUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities WHERE user_id = ? AND provider = ?
	`, userID, provider)
}

func (r *SQLiteRepository) getIdentity(ctx context.Context, query string, args ...any) (auth.Identity, bool, error) {
	var identity auth.Identity
	var created, updated int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&identity.ID, &identity.UserID, &identity.Provider,
		&identity.ProviderSubject, &identity.ProviderEmail, &identity.RefreshToken, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Identity{}, false, nil
	}
	if err != nil {
		return auth.Identity{}, false, err
	}
	identity.CreatedAt = time.UnixMilli(created).UTC()
	identity.UpdatedAt = time.UnixMilli(updated).UTC()
	return identity, true, nil
}

// UpsertIdentity stores or updates the identity mapping.
func (r *SQLiteRepository) UpsertIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	now := r.now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_identities (user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, provider_subject) DO UPDATE SET
			provider_email = COALESCE(NULLIF(excluded.provider_email, ''), user_identities.provider_email),
			refresh_token = COALESCE(NULLIF(excluded.refresh_token, ''), user_identities.refresh_token),
			updated_at = excluded.updated_at
	`, identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken, now, now)
	if err != nil {
		return auth.Identity{}, err
	}
	stored, _, err := r.GetIdentity(ctx, identity.Provider, identity.ProviderSubject)
	return stored, err
}

func mapSQLiteUnique(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return auth.ErrUsernameExists
	case strings.Contains(msg, "users.email"):
		return auth.ErrEmailExists
	default:
		return err
	}
}

var _ auth.Repository = (*SQLiteRepository)(nil)
