// Package quiz holds the adaptive quiz session: its state machine, the
// question selector and the end-of-quiz aggregation.
//
// State is a value. Every transition takes a State and returns a new one;
// the receiver is never modified, so a handler can load a state, try a
// transition and discard the result on error.
package quiz

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/adaptquiz/internal/store"
)

var (
	// ErrNoQuestion means the bank has nothing left to show at the
	// selected difficulty, even after replenishment.
	ErrNoQuestion = errors.New("no questions available")

	// ErrNoCurrentQuestion means an answer arrived while no question was
	// awaiting one.
	ErrNoCurrentQuestion = errors.New("no question awaiting an answer")

	// ErrCompleted means the quiz already reached its question count.
	ErrCompleted = errors.New("quiz is complete")
)

// Phase is the position of a quiz in its lifecycle.
type Phase string

const (
	PhaseNotStarted       Phase = "not_started"
	PhaseInProgress       Phase = "in_progress"
	PhaseAwaitingFeedback Phase = "awaiting_feedback"
	PhaseCompleted        Phase = "completed"
)

// Entry records one answered question.
type Entry struct {
	QuestionID    int64            `json:"question_id"`
	Question      string           `json:"question"`
	UserAnswer    string           `json:"user_answer"`
	CorrectAnswer string           `json:"correct_answer"`
	Explanation   string           `json:"explanation"`
	Correct       bool             `json:"correct"`
	Category      string           `json:"category"`
	Difficulty    store.Difficulty `json:"difficulty_level"`
}

// Feedback is shown after each answer.
type Feedback struct {
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// State is one user's quiz. It is persisted as JSON between requests.
type State struct {
	Phase        Phase              `json:"phase"`
	QuizID       string             `json:"quiz_id"`
	PerQuiz      int                `json:"per_quiz"`
	Index        int                `json:"index"`
	Score        int                `json:"score"`
	UsedIDs      []int64            `json:"used_ids"`
	History      []Entry            `json:"history"`
	AnswerTrack  []bool             `json:"answer_track"`
	LevelIndex   int                `json:"level_index"`
	Weights      map[string]float64 `json:"weights"`
	Mode         Mode               `json:"difficulty"`
	Current      *store.Question    `json:"current_question,omitempty"`
	LastFeedback *Feedback          `json:"last_feedback,omitempty"`
	StatsFlushed bool               `json:"stats_flushed"`
	StudyPlan    string             `json:"study_plan,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
}

// Start begins a fresh quiz of perQuiz questions. Counters are reset and
// the difficulty mode is Progressive.
func Start(weights map[string]float64, perQuiz int, now time.Time) State {
	return State{
		Phase:     PhaseInProgress,
		QuizID:    uuid.NewString(),
		PerQuiz:   perQuiz,
		Weights:   maps.Clone(weights),
		Mode:      ModeProgressive,
		StartedAt: now,
	}
}

// InProgress reports whether a started quiz can be resumed: at least one
// question was answered and the quiz has not completed.
func (s State) InProgress() bool {
	return s.Index > 0 && s.Phase != PhaseCompleted
}

// Started reports whether Start has been called for this state.
func (s State) Started() bool {
	return s.Phase != "" && s.Phase != PhaseNotStarted
}

// Done reports whether every question of the quiz has been answered.
func (s State) Done() bool {
	return s.PerQuiz > 0 && s.Index >= s.PerQuiz
}

// WithMode returns s with a new difficulty mode.
func (s State) WithMode(m Mode) State {
	next := s.clone()
	next.Mode = m
	return next
}

// Answer grades userAnswer against the current question.
func (s State) Answer(userAnswer string) (State, error) {
	if s.Phase != PhaseInProgress || s.Current == nil {
		return s, ErrNoCurrentQuestion
	}
	q := s.Current
	correct := CheckAnswer(userAnswer, q.Answer)

	next := s.clone()
	next.History = append(next.History, Entry{
		QuestionID:    q.ID,
		Question:      q.Prompt,
		UserAnswer:    userAnswer,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
		Correct:       correct,
		Category:      categoryOf(q),
		Difficulty:    difficultyOf(q),
	})
	next.AnswerTrack = append(next.AnswerTrack, correct)
	next.Index++
	if correct {
		next.Score++
	}
	next.LastFeedback = &Feedback{
		UserAnswer:    userAnswer,
		CorrectAnswer: q.Answer,
		Correct:       correct,
		Explanation:   q.Explanation,
	}
	next.Phase = PhaseAwaitingFeedback
	if next.Done() {
		next.Phase = PhaseCompleted
	}
	return next, nil
}

// Finish marks the quiz completed with its stats flushed and plan saved.
// A flushed quiz is never aggregated again.
func (s State) Finish(plan string) State {
	next := s.clone()
	next.Phase = PhaseCompleted
	next.StatsFlushed = true
	next.StudyPlan = plan
	return next
}

// withQuestion presents q as the current question.
func (s State) withQuestion(q *store.Question, levelIndex int) State {
	next := s.clone()
	next.LevelIndex = levelIndex
	next.UsedIDs = append(next.UsedIDs, q.ID)
	qc := *q
	qc.Choices = slices.Clone(q.Choices)
	next.Current = &qc
	next.LastFeedback = nil
	next.Phase = PhaseInProgress
	return next
}

// clone deep-copies every slice, map and pointer so the copy can be
// changed freely.
func (s State) clone() State {
	next := s
	next.UsedIDs = slices.Clone(s.UsedIDs)
	next.History = slices.Clone(s.History)
	next.AnswerTrack = slices.Clone(s.AnswerTrack)
	next.Weights = maps.Clone(s.Weights)
	if s.Current != nil {
		q := *s.Current
		q.Choices = slices.Clone(s.Current.Choices)
		next.Current = &q
	}
	if s.LastFeedback != nil {
		fb := *s.LastFeedback
		next.LastFeedback = &fb
	}
	return next
}

func categoryOf(q *store.Question) string {
	if q.Category == "" {
		return store.DefaultCategory
	}
	return q.Category
}

func difficultyOf(q *store.Question) store.Difficulty {
	if q.Difficulty == "" {
		return store.DifficultyMedium
	}
	return q.Difficulty
}
