package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/abhisek/adaptquiz/internal/coach"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
)

// GET|POST /start begins a quiz, or resumes one that has answers.
func (s *Server) start(w http.ResponseWriter, r *http.Request, v *visitor) {
	ctx := r.Context()
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if st.InProgress() {
		http.Redirect(w, r, "/question", http.StatusSeeOther)
		return
	}

	in, err := s.stats.WeightsInput(ctx, v.UserID())
	if err != nil {
		s.logger.Warn("start: no history for weights", "error", err)
		in = &store.WeightsInput{}
	}
	res := s.coach.Weights(ctx, *in)
	s.logger.Info("quiz starting", "user_id", v.UserID(), "weights_outcome", res.Outcome, "categories", len(res.Weights))

	st = quiz.Start(res.Weights, s.perQuiz, s.now())
	if err := s.saveState(ctx, w, r, v, st); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/question", http.StatusSeeOther)
}

// GET /question shows the current question, drawing a new one when the
// previous has been answered.
func (s *Server) question(w http.ResponseWriter, r *http.Request, v *visitor) {
	ctx := r.Context()
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	switch {
	case !st.Started():
		http.Redirect(w, r, "/start", http.StatusSeeOther)
		return
	case st.Phase == quiz.PhaseCompleted || st.Done():
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	case st.Phase == quiz.PhaseInProgress && st.Current != nil:
		// Reloading must not skip the question.
		s.renderQuestion(w, r, v, st)
		return
	}

	next, q, err := s.selector.Next(ctx, st)
	switch {
	case errors.Is(err, quiz.ErrNoQuestion):
		s.logger.Warn("question bank exhausted", "user_id", v.UserID(), "index", st.Index)
		s.renderError(w, r, v, http.StatusServiceUnavailable, "No questions available",
			"We could not find or generate a new question right now. Please try again in a moment.")
		return
	case errors.Is(err, quiz.ErrCompleted):
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	if err := s.saveState(ctx, w, r, v, next); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logger.Debug("question served", "user_id", v.UserID(), "question_id", q.ID, "difficulty", q.Difficulty, "category", q.Category)
	s.renderQuestion(w, r, v, next)
}

// GET /question_deviate returns to the quiz in progress without drawing.
func (s *Server) questionDeviate(w http.ResponseWriter, r *http.Request, v *visitor) {
	st, err := s.loadState(r.Context(), v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	switch {
	case st.Phase == quiz.PhaseInProgress && st.Current != nil:
		s.renderQuestion(w, r, v, st)
	case st.Phase == quiz.PhaseAwaitingFeedback:
		http.Redirect(w, r, "/feedback", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/start", http.StatusSeeOther)
	}
}

func (s *Server) renderQuestion(w http.ResponseWriter, r *http.Request, v *visitor, st quiz.State) {
	s.render(w, r, v, http.StatusOK, "question", map[string]any{
		"Question": st.Current,
		"Score":    st.Score,
		"Index":    st.Index,
		"PerQuiz":  st.PerQuiz,
		"Mode":     string(st.Mode),
		"Modes":    modes(),
	})
}

// POST /answer grades the submitted choice.
func (s *Server) answer(w http.ResponseWriter, r *http.Request, v *visitor) {
	ctx := r.Context()
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	userAnswer := strings.TrimSpace(r.PostFormValue("user_answer"))
	if userAnswer == "" && st.Phase == quiz.PhaseInProgress && st.Current != nil {
		v.flash(flashError, "Please choose an answer.")
		if err := v.save(w, r); err != nil {
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/question_deviate", http.StatusSeeOther)
		return
	}

	next, err := st.Answer(userAnswer)
	if errors.Is(err, quiz.ErrNoCurrentQuestion) {
		// A repeated submit lands where the first one went.
		switch {
		case st.Phase == quiz.PhaseCompleted:
			http.Redirect(w, r, "/result", http.StatusSeeOther)
		case st.LastFeedback != nil:
			http.Redirect(w, r, "/feedback", http.StatusSeeOther)
		default:
			http.Redirect(w, r, "/question", http.StatusSeeOther)
		}
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.saveState(ctx, w, r, v, next); err != nil {
		s.serverError(w, r, err)
		return
	}

	if next.Phase == quiz.PhaseCompleted {
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/feedback", http.StatusSeeOther)
}

// GET /feedback shows whether the last answer was right.
func (s *Server) feedback(w http.ResponseWriter, r *http.Request, v *visitor) {
	st, err := s.loadState(r.Context(), v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if st.LastFeedback == nil {
		http.Redirect(w, r, "/question", http.StatusSeeOther)
		return
	}
	s.render(w, r, v, http.StatusOK, "feedback", map[string]any{
		"Question": st.Current,
		"Feedback": st.LastFeedback,
		"Score":    st.Score,
		"Index":    st.Index,
		"PerQuiz":  st.PerQuiz,
		"Done":     st.Phase == quiz.PhaseCompleted || st.Done(),
	})
}

// GET /result finishes the quiz. Stats and the study plan are written
// once per quiz; reloading shows the stored outcome.
func (s *Server) result(w http.ResponseWriter, r *http.Request, v *visitor) {
	ctx := r.Context()
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !st.Started() {
		http.Redirect(w, r, "/start", http.StatusSeeOther)
		return
	}

	sum := quiz.Summarize(st.History, st.Score)
	if !st.StatsFlushed {
		if deltas := quiz.Aggregate(st.History); len(deltas) > 0 {
			if err := s.stats.ApplyDeltas(ctx, v.UserID(), deltas); err != nil {
				s.serverError(w, r, err)
				return
			}
		}
		plan := s.coach.StudyPlan(ctx, sum)
		if err := s.stats.SaveStudyPlan(ctx, v.UserID(), plan); err != nil {
			s.serverError(w, r, err)
			return
		}
		st = st.Finish(plan)
		if err := s.saveState(ctx, w, r, v, st); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.logger.Info("quiz completed", "user_id", v.UserID(), "quiz_id", st.QuizID, "score", sum.Score, "total", sum.Total)
	}

	data := map[string]any{
		"Score":        sum.Score,
		"Total":        sum.Total,
		"ScorePercent": sum.ScorePercent,
		"History":      st.History,
		"StudyPlan":    template.HTML(coach.SanitizeFragment(st.StudyPlan)),
	}
	addChart(data, "Category", sum.Categories)
	addChart(data, "Difficulty", sum.Difficulties)
	s.render(w, r, v, http.StatusOK, "result", data)
}

// addChart flattens tallies into the label and count arrays the charts
// read.
func addChart(data map[string]any, prefix string, ts []quiz.Tally) {
	labels := make([]string, len(ts))
	correct := make([]int, len(ts))
	incorrect := make([]int, len(ts))
	for i, t := range ts {
		labels[i] = t.Label
		correct[i] = t.Correct
		incorrect[i] = t.Incorrect
	}
	data[prefix+"Labels"] = labels
	data[prefix+"Correct"] = correct
	data[prefix+"Incorrect"] = incorrect
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// POST /set_difficulty switches the difficulty mode of the current quiz.
func (s *Server) setDifficulty(w http.ResponseWriter, r *http.Request) {
	v := s.visitor(r)
	if !v.LoggedIn() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "error", "error": "login required"})
		return
	}

	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "invalid json"})
		return
	}
	mode, err := quiz.ParseMode(req.Difficulty)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	ctx := r.Context()
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.saveState(ctx, w, r, v, st.WithMode(mode)); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logger.Info("difficulty updated", "user_id", v.UserID(), "difficulty", mode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "difficulty": string(mode)})
}

func modes() []string {
	out := []string{string(quiz.ModeProgressive)}
	for _, d := range store.Difficulties {
		out = append(out, string(d))
	}
	return out
}
