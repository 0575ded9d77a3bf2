package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type quizSessionRepo struct {
	db *sql.DB
}

func (r *quizSessionRepo) Load(ctx context.Context, token string, now time.Time) (*QuizSession, error) {
	query, args := builder.Select("token", "user_id", "state", "expires_at").
		From(builder.Table("quiz_sessions")).
		Where(entsql.And(
			entsql.EQ("token", token),
			entsql.GT("expires_at", now.UnixMilli()),
		)).
		Query()

	var (
		s       QuizSession
		state   string
		expires int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Token, &s.UserID, &state, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz session: %w", err)
	}
	s.State = []byte(state)
	s.ExpiresAt = time.UnixMilli(expires)
	return &s, nil
}

func (r *quizSessionRepo) Save(ctx context.Context, s QuizSession) error {
	query, args := builder.Insert("quiz_sessions").
		Columns("token", "user_id", "state", "expires_at").
		Values(s.Token, s.UserID, string(s.State), s.ExpiresAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("token"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

func (r *quizSessionRepo) Delete(ctx context.Context, token string) error {
	query, args := builder.Delete("quiz_sessions").
		Where(entsql.EQ("token", token)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

func (r *quizSessionRepo) Prune(ctx context.Context, now time.Time) (int64, error) {
	query, args := builder.Delete("quiz_sessions").
		Where(entsql.LTE("expires_at", now.UnixMilli())).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune quiz sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruned rows: %w", err)
	}
	return n, nil
}
