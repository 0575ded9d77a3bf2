package web

import (
	"html/template"
	"net/http"

	"github.com/abhisek/adaptquiz/internal/coach"
	"github.com/abhisek/adaptquiz/internal/store"
)

const noPlan = "<ul><li>No study plan available yet. Complete a quiz to generate one.</li></ul>"

// GET /profile
func (s *Server) profile(w http.ResponseWriter, r *http.Request, v *visitor) {
	ctx := r.Context()
	stats, err := s.stats.UserStats(ctx, v.UserID(), s.perQuiz)
	if err != nil {
		s.logger.Error("profile: stats unavailable", "user_id", v.UserID(), "error", err)
		stats = &store.UserStats{}
	}
	plan, err := s.stats.LatestStudyPlan(ctx, v.UserID())
	if err != nil {
		s.logger.Warn("profile: study plan unavailable", "error", err)
		plan = ""
	}
	if plan == "" {
		plan = noPlan
	}
	st, err := s.loadState(ctx, v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, v, http.StatusOK, "profile", map[string]any{
		"Stats":      stats,
		"InProgress": st.InProgress(),
		"StudyPlan":  template.HTML(coach.SanitizeFragment(plan)),
	})
}
