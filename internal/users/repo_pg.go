package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or refreshes a user keyed by Google subject, returning the
// stored row.
func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, google_sub, email, name, role, created_at, last_login_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (google_sub) DO UPDATE
SET email = EXCLUDED.email,
    name = EXCLUDED.name,
    role = EXCLUDED.role,
    last_login_at = EXCLUDED.last_login_at
RETURNING id, google_sub, email, name, role, created_at, last_login_at`

	return scanUser(r.DB.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.GoogleSub,
		user.Email,
		user.Name,
		user.Role,
		user.CreatedAt,
		user.LastLoginAt,
	))
}

// GetByGoogleSub fetches a user by Google subject.
func (r *PGRepo) GetByGoogleSub(ctx context.Context, sub string) (User, error) {
	const query = `
SELECT id, google_sub, email, name, role, created_at, last_login_at
FROM users
WHERE google_sub = $1
LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, sub))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var lastLogin sql.NullTime
	if err := row.Scan(
		&user.ID,
		&user.GoogleSub,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&lastLogin,
	); err != nil {
		return User{}, err
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
