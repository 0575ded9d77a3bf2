package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.Users().Create(context.Background(), name, "hash")
	require.NoError(t, err)
	return id
}

func sampleQuestion(difficulty Difficulty, category, prompt string) Question {
	return Question{
		Answer:       "9.8 m/s^2",
		Prompt:       prompt,
		QuestionType: QuestionTypeMultipleChoice,
		Hint:         "Think about free fall.",
		Explanation:  "Near the surface of the Earth g is about 9.8 m/s^2.",
		Choices:      []string{"9.8 m/s^2", "1 m/s^2", "98 m/s^2", "0 m/s^2"},
		Difficulty:   difficulty,
		Category:     category,
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Questions().Save(context.Background(), []Question{
		sampleQuestion(DifficultyEasy, "gravity", "What is g?"),
	}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Questions().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQuestionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	q := sampleQuestion(DifficultyHard, "gravity", "What is the acceleration due to gravity?")
	require.NoError(t, repo.Save(ctx, []Question{q}))

	got, err := repo.Find(ctx, QuestionFilter{Difficulty: DifficultyHard, Category: "gravity"})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.NotZero(t, got.ID)
	assert.Equal(t, q.Prompt, got.Prompt)
	assert.Equal(t, q.Answer, got.Answer)
	assert.Equal(t, q.Choices, got.Choices)
	assert.Equal(t, DifficultyHard, got.Difficulty)
	assert.Equal(t, "gravity", got.Category)
}

func TestQuestionFindExcludesUsedIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	require.NoError(t, repo.Save(ctx, []Question{
		sampleQuestion(DifficultyEasy, "velocity", "q1"),
		sampleQuestion(DifficultyEasy, "velocity", "q2"),
	}))

	first, err := repo.Find(ctx, QuestionFilter{Difficulty: DifficultyEasy, Category: "velocity"})
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.Find(ctx, QuestionFilter{
		Difficulty: DifficultyEasy,
		Category:   "velocity",
		Exclude:    []int64{first.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	none, err := repo.Find(ctx, QuestionFilter{
		Difficulty: DifficultyEasy,
		Category:   "velocity",
		Exclude:    []int64{first.ID, second.ID},
	})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestQuestionFindFiltersDifficultyAndCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	require.NoError(t, repo.Save(ctx, []Question{
		sampleQuestion(DifficultyEasy, "gravity", "easy gravity"),
		sampleQuestion(DifficultyMedium, "velocity", "medium velocity"),
	}))

	got, err := repo.Find(ctx, QuestionFilter{Difficulty: DifficultyMedium, Category: "gravity"})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Find(ctx, QuestionFilter{Difficulty: DifficultyMedium})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "medium velocity", got.Prompt)
}

func TestQuestionSaveDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	require.NoError(t, repo.Save(ctx, []Question{{Answer: "a", Prompt: "p"}}))

	got, err := repo.Find(ctx, QuestionFilter{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, DifficultyMedium, got.Difficulty)
	assert.Equal(t, DefaultCategory, got.Category)
	assert.Equal(t, QuestionTypeMultipleChoice, got.QuestionType)
	assert.Empty(t, got.Choices)
}

func TestQuestionCategories(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	require.NoError(t, repo.Save(ctx, []Question{
		sampleQuestion(DifficultyEasy, "velocity", "a"),
		sampleQuestion(DifficultyHard, "gravity", "b"),
		sampleQuestion(DifficultyEasy, "gravity", "c"),
	}))

	cats, err = repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gravity", "velocity"}, cats)
}

func TestQuestionPrompts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Questions()

	require.NoError(t, repo.Save(ctx, []Question{
		sampleQuestion(DifficultyHard, "velocity", "What is velocity?"),
		sampleQuestion(DifficultyEasy, "velocity", "Is speed a vector?"),
		sampleQuestion(DifficultyHard, "velocity", "Define average velocity."),
		sampleQuestion(DifficultyHard, "gravity", "What is g?"),
	}))

	got, err := repo.Prompts(ctx, DifficultyHard, "velocity", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Define average velocity.", "What is velocity?"}, got)

	got, err = repo.Prompts(ctx, DifficultyHard, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is g?", "Define average velocity."}, got)

	got, err = repo.Prompts(ctx, DifficultyMedium, "velocity", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Users()

	id, err := repo.Create(ctx, "ada", "hash-1")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = repo.Create(ctx, "ada", "hash-2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	u, err := repo.ByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash-1", u.PasswordHash)

	_, err = repo.ByUsername(ctx, "grace")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyDeltasIsAdditive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "ada")
	repo := s.Stats()

	require.NoError(t, repo.ApplyDeltas(ctx, uid, map[string]StatDelta{
		"gravity":  {Correct: 2, Total: 3},
		"velocity": {Correct: 0, Total: 2},
	}))
	require.NoError(t, repo.ApplyDeltas(ctx, uid, map[string]StatDelta{
		"gravity": {Correct: 1, Total: 1},
	}))

	stats, err := repo.UserStats(ctx, uid, 2)
	require.NoError(t, err)
	require.Len(t, stats.Categories, 2)

	assert.Equal(t, CategoryStat{Category: "gravity", Correct: 3, Total: 4}, stats.Categories[0])
	assert.Equal(t, CategoryStat{Category: "velocity", Correct: 0, Total: 2}, stats.Categories[1])
	assert.Equal(t, 3, stats.Correct)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.InDelta(t, 0.5, stats.Accuracy(), 1e-9)
	assert.InDelta(t, 0.75, stats.Categories[0].Accuracy(), 1e-9)
}

func TestApplyDeltasRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "ada")

	err := s.Stats().ApplyDeltas(ctx, uid, map[string]StatDelta{
		"gravity": {Correct: 3, Total: 1},
	})
	require.Error(t, err)

	stats, err := s.Stats().UserStats(ctx, uid, 10)
	require.NoError(t, err)
	assert.Empty(t, stats.Categories)
	assert.Zero(t, stats.Accuracy())
}

func TestWeightsInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "ada")

	require.NoError(t, s.Questions().Save(ctx, []Question{
		sampleQuestion(DifficultyEasy, "gravity", "a"),
		sampleQuestion(DifficultyEasy, "velocity", "b"),
		sampleQuestion(DifficultyEasy, "acceleration", "c"),
	}))

	in, err := s.Stats().WeightsInput(ctx, uid)
	require.NoError(t, err)
	assert.True(t, in.Empty())

	require.NoError(t, s.Stats().ApplyDeltas(ctx, uid, map[string]StatDelta{
		"gravity": {Correct: 1, Total: 2},
	}))
	require.NoError(t, s.Stats().SaveStudyPlan(ctx, uid, "<ul><li>Review gravity.</li></ul>"))

	in, err = s.Stats().WeightsInput(ctx, uid)
	require.NoError(t, err)
	assert.False(t, in.Empty())
	assert.Equal(t, []CategoryStat{
		{Category: "acceleration"},
		{Category: "gravity", Correct: 1, Total: 2},
		{Category: "velocity"},
	}, in.Stats)
	assert.Equal(t, "<ul><li>Review gravity.</li></ul>", in.LastStudyPlan)
}

func TestStudyPlan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "ada")
	repo := s.Stats()

	plan, err := repo.LatestStudyPlan(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, plan)

	require.NoError(t, repo.ApplyDeltas(ctx, uid, map[string]StatDelta{
		"gravity":  {Correct: 1, Total: 1},
		"velocity": {Correct: 1, Total: 1},
	}))
	require.NoError(t, repo.SaveStudyPlan(ctx, uid, "first"))
	require.NoError(t, repo.SaveStudyPlan(ctx, uid, "second"))

	plan, err = repo.LatestStudyPlan(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "second", plan)
}

func TestQuizSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "ada")
	repo := s.QuizSessions()
	now := time.Now()

	_, err := repo.Load(ctx, "missing", now)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(ctx, QuizSession{
		Token:     "live",
		UserID:    uid,
		State:     []byte(`{"index":1}`),
		ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, QuizSession{
		Token:     "live",
		UserID:    uid,
		State:     []byte(`{"index":2}`),
		ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, QuizSession{
		Token:     "stale",
		UserID:    uid,
		State:     []byte(`{}`),
		ExpiresAt: now.Add(-time.Minute),
	}))

	got, err := repo.Load(ctx, "live", now)
	require.NoError(t, err)
	assert.Equal(t, uid, got.UserID)
	assert.JSONEq(t, `{"index":2}`, string(got.State))

	_, err = repo.Load(ctx, "stale", now)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, "live"))
	require.NoError(t, repo.Delete(ctx, "live"))
	_, err = repo.Load(ctx, "live", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-gen",
		InputTokens: 100, OutputTokens: 40, LatencyMs: 200, Success: true,
		RequestBody: "[user]\nhello", ResponseBody: `{"questions":[]}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "study-plan",
		InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false,
		ErrorMessage: "boom",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-gen",
		InputTokens: 20, OutputTokens: 20, LatencyMs: 400, Success: true,
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Greater(t, events[0].ID, events[1].ID)

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen", Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 20, events[0].InputTokens)

	e, err := repo.GetLLMEvent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.True(t, e.Success)
	assert.Equal(t, `{"questions":[]}`, e.ResponseBody)

	e, err = repo.GetLLMEvent(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, e)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsage{
		Purpose: "question-gen", Calls: 2, InputTokens: 120, OutputTokens: 60, AvgLatencyMs: 300,
	}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
	assert.Equal(t, "gemini-2.0-flash", byModel[0].Model)
}
