package api

import (
	"errors"
	"net/http"
	"strings"

	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/progress"
	"ai-fitness-coach/internal/wizard"

	"go.uber.org/zap"
)

type plansRequest struct {
	Mood string `json:"mood,omitempty"`
}

type plansResponse struct {
	Workout *planner.WorkoutPlan `json:"workout"`
	Meal    *planner.MealPlan    `json:"meal,omitempty"`
	Mood    *planner.Mood        `json:"mood,omitempty"`
}

type postureRequest struct {
	Exercise string `json:"exercise"`
}

type postureResponse struct {
	Exercise string `json:"exercise"`
	Feedback string `json:"feedback"`
}

type progressResponse struct {
	Points []progress.Point `json:"points"`
	Chart  string           `json:"chart"`
}

func (s *Server) store(r *http.Request) *profile.Store {
	return profile.NewOwnerStore(s.kv, ownerFrom(r.Context()))
}

// loadProfile writes the error response itself and returns nil when the
// caller has no usable profile.
func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request) *profile.UserProfile {
	p, err := s.store(r).Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load profile", zap.String("owner", ownerFrom(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return nil
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return nil
	}
	return p
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	if p := s.loadProfile(w, r); p != nil {
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.UserProfile
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p.Name = strings.TrimSpace(p.Name)

	if err := s.store(r).Save(r.Context(), p); err != nil {
		if errors.Is(err, profile.ErrIncomplete) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: wizard.IncompleteMessage, Detail: err.Error()})
			return
		}
		s.logger.Error("failed to save profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store(r).Reset(r.Context()); err != nil {
		s.logger.Error("failed to reset profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to reset profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseMood(raw string) (*planner.Mood, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m, err := planner.ParseMood(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// createPlans generates both plans. A plan that could not be generated is
// returned as null.
func (s *Server) createPlans(w http.ResponseWriter, r *http.Request) {
	var req plansRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mood, err := parseMood(req.Mood)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p := s.loadProfile(w, r)
	if p == nil {
		return
	}

	d := dashboard.New(s.coach, *p, s.logger)
	if mood != nil {
		d.PresetMood(*mood)
	}
	if err := d.Load(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate plans")
		return
	}
	st := d.Snapshot()
	writeJSON(w, http.StatusOK, plansResponse{Workout: st.Workout, Meal: st.Meal, Mood: st.Mood})
}

// createWorkout regenerates only the workout for the given mood.
func (s *Server) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req plansRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mood, err := parseMood(req.Mood)
	if err != nil || mood == nil {
		writeError(w, http.StatusBadRequest, "mood must be one of Energized, Neutral, Tired, Stressed")
		return
	}
	p := s.loadProfile(w, r)
	if p == nil {
		return
	}

	d := dashboard.New(s.coach, *p, s.logger)
	d.SelectMood(r.Context(), *mood)
	st := d.Snapshot()
	writeJSON(w, http.StatusOK, plansResponse{Workout: st.Workout, Mood: st.Mood})
}

func (s *Server) analyzePosture(w http.ResponseWriter, r *http.Request) {
	var req postureRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	exercise := strings.TrimSpace(req.Exercise)
	if exercise == "" {
		exercise = dashboard.DefaultExercise
	}
	feedback := s.coach.AnalyzePosture(r.Context(), exercise)
	writeJSON(w, http.StatusOK, postureResponse{Exercise: exercise, Feedback: feedback})
}

func (s *Server) getProgress(w http.ResponseWriter, _ *http.Request) {
	points := progress.Sample()
	writeJSON(w, http.StatusOK, progressResponse{Points: points, Chart: progress.Render(points)})
}
