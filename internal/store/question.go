package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// Difficulty is the closed set of question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps a case-insensitive label to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, true
		}
	}
	return "", false
}

const (
	// QuestionTypeMultipleChoice is the only question type produced today.
	QuestionTypeMultipleChoice = "multiple_choice"

	// DefaultCategory labels questions that arrive without a category.
	DefaultCategory = "general"
)

// Question is a stored quiz question. Immutable after creation.
type Question struct {
	ID           int64      `json:"id"`
	Answer       string     `json:"answer"`
	Prompt       string     `json:"prompt"`
	QuestionType string     `json:"question_type"`
	Hint         string     `json:"hint"`
	Explanation  string     `json:"explanation"`
	Choices      []string   `json:"choices"`
	Difficulty   Difficulty `json:"difficulty_level"`
	Category     string     `json:"category"`
}

var questionColumns = []string{
	"id", "answer", "prompt", "question_type", "hint",
	"explanation", "choices", "difficulty_level", "category",
}

type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) Save(ctx context.Context, qs []Question) error {
	if len(qs) == 0 {
		return nil
	}

	ins := builder.Insert("questions").Columns(questionColumns[1:]...)
	for _, q := range qs {
		choices, err := json.Marshal(nonNil(q.Choices))
		if err != nil {
			return fmt.Errorf("encode choices: %w", err)
		}
		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = DifficultyMedium
		}
		category := strings.TrimSpace(q.Category)
		if category == "" {
			category = DefaultCategory
		}
		qtype := q.QuestionType
		if qtype == "" {
			qtype = QuestionTypeMultipleChoice
		}
		ins.Values(q.Answer, q.Prompt, qtype, q.Hint, q.Explanation,
			string(choices), string(difficulty), category)
	}

	query, args := ins.Query()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save questions: %w", err)
		}
		return nil
	})
}

func (r *questionRepo) Find(ctx context.Context, f QuestionFilter) (*Question, error) {
	sel := builder.Select(questionColumns...).From(builder.Table("questions"))
	if f.Difficulty != "" {
		sel.Where(entsql.EQ("difficulty_level", string(f.Difficulty)))
	}
	if f.Category != "" {
		sel.Where(entsql.EQ("category", f.Category))
	}
	if len(f.Exclude) > 0 {
		ids := make([]any, len(f.Exclude))
		for i, id := range f.Exclude {
			ids[i] = id
		}
		sel.Where(entsql.NotIn("id", ids...))
	}
	sel.OrderExpr(entsql.Expr("RANDOM()")).Limit(1)

	query, args := sel.Query()
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return q, nil
}

func (r *questionRepo) Categories(ctx context.Context) ([]string, error) {
	query, args := builder.Select("category").
		Distinct().
		From(builder.Table("questions")).
		OrderBy("category").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	query, args := builder.Select(entsql.Count("*")).
		From(builder.Table("questions")).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *questionRepo) Prompts(ctx context.Context, difficulty Difficulty, category string, limit int) ([]string, error) {
	sel := builder.Select("prompt").From(builder.Table("questions"))
	if difficulty != "" {
		sel.Where(entsql.EQ("difficulty_level", string(difficulty)))
	}
	if category != "" {
		sel.Where(entsql.EQ("category", category))
	}
	sel.OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanQuestion(row *sql.Row) (*Question, error) {
	var (
		q          Question
		choices    string
		difficulty string
	)
	err := row.Scan(&q.ID, &q.Answer, &q.Prompt, &q.QuestionType, &q.Hint,
		&q.Explanation, &choices, &difficulty, &q.Category)
	if err != nil {
		return nil, err
	}
	q.Difficulty = Difficulty(difficulty)
	if choices != "" {
		if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
			return nil, fmt.Errorf("decode choices for question %d: %w", q.ID, err)
		}
	}
	return &q, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
