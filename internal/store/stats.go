package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
)

type statsRepo struct {
	db *sql.DB
}

func (r *statsRepo) ApplyDeltas(ctx context.Context, userID int64, deltas map[string]StatDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	categories := make([]string, 0, len(deltas))
	for c, d := range deltas {
		if d.Correct < 0 || d.Total < d.Correct {
			return fmt.Errorf("invalid delta for %q: %d correct of %d", c, d.Correct, d.Total)
		}
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range categories {
			d := deltas[c]
			query, args := builder.Insert("user_category_stats").
				Columns("user_id", "category", "correct", "total").
				Values(userID, c, d.Correct, d.Total).
				OnConflict(
					entsql.ConflictColumns("user_id", "category"),
					entsql.ResolveWith(func(u *entsql.UpdateSet) {
						u.Add("correct", d.Correct)
						u.Add("total", d.Total)
					}),
				).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert stats for %q: %w", c, err)
			}
		}
		return nil
	})
}

func (r *statsRepo) UserStats(ctx context.Context, userID int64, perQuiz int) (*UserStats, error) {
	rows, err := r.categoryRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &UserStats{Categories: rows}
	for _, c := range rows {
		out.Correct += c.Correct
		out.Total += c.Total
	}
	if perQuiz > 0 {
		out.TotalQuizzes = out.Total / perQuiz
	}
	return out, nil
}

func (r *statsRepo) WeightsInput(ctx context.Context, userID int64) (*WeightsInput, error) {
	rows, err := r.categoryRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &WeightsInput{}, nil
	}

	plan, err := r.LatestStudyPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	for _, c := range rows {
		seen[c.Category] = true
	}

	categories, err := (&questionRepo{db: r.db}).Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if !seen[c] {
			rows = append(rows, CategoryStat{Category: c})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })

	return &WeightsInput{Stats: rows, LastStudyPlan: plan}, nil
}

func (r *statsRepo) SaveStudyPlan(ctx context.Context, userID int64, plan string) error {
	query, args := builder.Update("user_category_stats").
		Set("last_study_plan", plan).
		Where(entsql.EQ("user_id", userID)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save study plan: %w", err)
	}
	return nil
}

func (r *statsRepo) LatestStudyPlan(ctx context.Context, userID int64) (string, error) {
	query, args := builder.Select("last_study_plan").
		From(builder.Table("user_category_stats")).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.NEQ("last_study_plan", ""),
		)).
		Limit(1).
		Query()

	var plan string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&plan)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query study plan: %w", err)
	}
	return plan, nil
}

// categoryRows loads the user's rows ordered by category. The result set is
// drained before returning so the connection is free for the next query.
func (r *statsRepo) categoryRows(ctx context.Context, userID int64) ([]CategoryStat, error) {
	query, args := builder.Select("category", "correct", "total").
		From(builder.Table("user_category_stats")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("category").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var out []CategoryStat
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Correct, &c.Total); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return out, nil
}
