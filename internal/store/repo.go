package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // created_at >= From
	To      time.Time // created_at <= To
}

// QuestionFilter narrows FindQuestion. Empty fields are unconstrained.
type QuestionFilter struct {
	Difficulty Difficulty
	Category   string

	// Exclude lists question IDs that must not be returned.
	Exclude []int64
}

// QuestionRepo is the question bank.
type QuestionRepo interface {
	// Save persists questions in one transaction.
	Save(ctx context.Context, qs []Question) error

	// Find returns one random question matching f, or nil when none match.
	Find(ctx context.Context, f QuestionFilter) (*Question, error)

	// Categories returns the distinct category labels in the bank, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Count returns the number of stored questions.
	Count(ctx context.Context) (int, error)

	// Prompts returns the prompts stored for a difficulty and category,
	// newest first. Empty arguments match everything; limit <= 0 means
	// no limit.
	Prompts(ctx context.Context, difficulty Difficulty, category string, limit int) ([]string, error)
}

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create inserts a user. Returns ErrUsernameTaken on a duplicate name.
	Create(ctx context.Context, username, passwordHash string) (int64, error)

	// ByUsername returns the user or ErrNotFound.
	ByUsername(ctx context.Context, username string) (*User, error)
}

// StatDelta is an additive change to one category counter pair.
type StatDelta struct {
	Correct int
	Total   int
}

// CategoryStat is one persisted (user, category) row.
type CategoryStat struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
}

// Accuracy returns Correct/Total, or 0 for an empty row.
func (c CategoryStat) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// UserStats is the profile summary for one user.
type UserStats struct {
	Categories   []CategoryStat
	Correct      int
	Total        int
	TotalQuizzes int
}

// Accuracy returns the overall fraction of correct answers.
func (u UserStats) Accuracy() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Correct) / float64(u.Total)
}

// WeightsInput is the history handed to the category-weights prompt.
type WeightsInput struct {
	Stats         []CategoryStat `json:"stats"`
	LastStudyPlan string         `json:"last_study_plan"`
}

// Empty reports whether the user has no recorded history.
func (w WeightsInput) Empty() bool {
	return len(w.Stats) == 0
}

// StatsRepo stores per-user per-category counters and the study plan.
type StatsRepo interface {
	// ApplyDeltas adds each delta to the user's counters, creating rows as
	// needed. All categories are updated in one transaction.
	ApplyDeltas(ctx context.Context, userID int64, deltas map[string]StatDelta) error

	// UserStats summarizes the user's rows. perQuiz converts the answer
	// total into a completed-quiz count.
	UserStats(ctx context.Context, userID int64, perQuiz int) (*UserStats, error)

	// WeightsInput returns the user's rows padded with zero rows for every
	// category in the question bank. It is empty when the user has no rows.
	WeightsInput(ctx context.Context, userID int64) (*WeightsInput, error)

	// SaveStudyPlan overwrites the plan on every row of the user.
	SaveStudyPlan(ctx context.Context, userID int64, plan string) error

	// LatestStudyPlan returns the stored plan, or "" when none exists.
	LatestStudyPlan(ctx context.Context, userID int64) (string, error)
}

// QuizSession is a persisted quiz state blob bound to a session token.
type QuizSession struct {
	Token     string
	UserID    int64
	State     []byte
	ExpiresAt time.Time
}

// QuizSessionRepo is a TTL-bound key-value store for in-progress quizzes.
type QuizSessionRepo interface {
	// Load returns the session or ErrNotFound when absent or expired.
	Load(ctx context.Context, token string, now time.Time) (*QuizSession, error)

	// Save creates or replaces the session.
	Save(ctx context.Context, s QuizSession) error

	// Delete removes the session. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error

	// Prune deletes every session expired at now and returns the count.
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates calls and tokens for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records and inspects LLM requests.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil when id is unknown.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
