package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on every Open. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		answer TEXT NOT NULL,
		prompt TEXT NOT NULL,
		question_type TEXT NOT NULL DEFAULT 'multiple_choice',
		hint TEXT NOT NULL DEFAULT '',
		explanation TEXT NOT NULL DEFAULT '',
		choices TEXT NOT NULL DEFAULT '[]',
		difficulty_level TEXT NOT NULL,
		category TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS questions_difficulty_category
		ON questions (difficulty_level, category)`,
	`CREATE TABLE IF NOT EXISTS user_category_stats (
		user_id INTEGER NOT NULL REFERENCES users (id),
		category TEXT NOT NULL,
		correct INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		last_study_plan TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, category),
		CHECK (correct >= 0 AND total >= correct)
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users (id),
		state TEXT NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_sessions_expires_at
		ON quiz_sessions (expires_at)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
