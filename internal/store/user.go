package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrUsernameTaken is returned when registering an existing username.
var ErrUsernameTaken = errors.New("username already exists")

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	query, args := builder.Insert("users").
		Columns("username", "password_hash").
		Values(username, passwordHash).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

func (r *userRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	query, args := builder.Select("id", "username", "password_hash").
		From(builder.Table("users")).
		Where(entsql.EQ("username", username)).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// isUniqueViolation matches SQLite's constraint error text. The modernc
// driver reports it as "constraint failed: UNIQUE constraint failed: ...".
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
