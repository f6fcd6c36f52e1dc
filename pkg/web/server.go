// Package web implements the interactive HTTP API: connect a Strava
// account, browse recent activities, and trigger artwork generation for
// a chosen activity.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	raerrors "github.com/stravarunart/runart-server/pkg/errors"
	"github.com/stravarunart/runart-server/pkg/oauth"
	"github.com/stravarunart/runart-server/pkg/pipeline"
	"github.com/stravarunart/runart-server/pkg/prompt"
	"github.com/stravarunart/runart-server/pkg/strava"
)

// Session holds the per-process interactive state: whether a token
// refresh has succeeded, and the last activity list served, kept for
// validating generation requests.
type Session struct {
	mu            sync.Mutex
	authenticated bool
	activities    map[int64]strava.Activity
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) setAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
}

func (s *Session) cacheActivities(activities []strava.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = make(map[int64]strava.Activity, len(activities))
	for _, a := range activities {
		s.activities[a.ID] = a
	}
}

func (s *Session) activity(id int64) (strava.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	return a, ok
}

// ImageResolver maps a serving key to a file on disk.
type ImageResolver interface {
	Path(key string) (string, bool)
}

// Server serves the interactive API. Session state is owned here; there
// are no package-level globals.
type Server struct {
	Tokens   oauth.TokenSource
	Strava   pipeline.ActivitySource
	Pipeline *pipeline.Pipeline
	Images   ImageResolver
	Logger   *slog.Logger

	session Session
}

// activityView is the display shape for the activity list.
type activityView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Distance string `json:"distance"`
	Duration string `json:"duration"`
	Pace     string `json:"pace"`
}

func viewOf(a strava.Activity) activityView {
	return activityView{
		ID:       a.ID,
		Name:     a.Name,
		Date:     a.StartDateLocal.Format("2006-01-02"),
		Distance: fmt.Sprintf("%.2f mi", prompt.Miles(a.Distance)),
		Duration: prompt.FormatDuration(a.MovingTime),
		Pace:     prompt.FormatPace(a.Distance, a.MovingTime),
	}
}

// RegisterRoutes attaches all handlers to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/status", s.handleAuthStatus)
	mux.HandleFunc("POST /api/auth/connect", s.handleAuthConnect)
	mux.HandleFunc("GET /api/activities", s.handleActivities)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/images/{key}", s.handleImage)
}

// Handler returns the full API as a single http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"authenticated": s.session.Authenticated()})
}

func (s *Server) handleAuthConnect(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Tokens.ForceRefresh(r.Context()); err != nil {
		s.logger().Warn("Token refresh failed", "error", err)
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.session.setAuthenticated()
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.Strava.ListActivities(r.Context(), 5)
	if err != nil {
		s.logger().Warn("Activity fetch failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.session.cacheActivities(activities)

	views := make([]activityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, viewOf(a))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivityID int64 `json:"activityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, raerrors.ErrValidation.WithMessage("invalid request body"))
		return
	}

	// Only activities the client has been shown are valid targets.
	if _, ok := s.session.activity(req.ActivityID); !ok {
		s.writeError(w, http.StatusNotFound, raerrors.ErrValidation.WithMessage("unknown activity"))
		return
	}

	activity, err := s.Strava.GetActivity(r.Context(), req.ActivityID)
	if err != nil {
		s.logger().Warn("Activity detail fetch failed", "activity_id", req.ActivityID, "error", err)
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	result, err := s.Pipeline.RunForActivity(r.Context(), activity)
	if err != nil {
		s.logger().Error("Generation failed", "activity_id", req.ActivityID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Partial success still returns the image; the client can see the
	// artwork even when the description write-back failed.
	resp := map[string]interface{}{"imageUrl": "/api/images/" + result.Image.Key}
	if result.PartialSuccess() {
		resp["warning"] = "activity description update failed"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	path, ok := s.Images.Path(key)
	if !ok {
		s.writeError(w, http.StatusNotFound, raerrors.ErrValidation.WithMessage("unknown image key"))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.logger().Error("Image read failed", "key", key, "path", path, "error", err)
		s.writeError(w, http.StatusInternalServerError, raerrors.ErrStorage.WithCause(err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	stat, err := f.Stat()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, raerrors.ErrStorage.WithCause(err))
		return
	}
	http.ServeContent(w, r, key+".png", stat.ModTime(), f)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger().Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    string(raerrors.GetCode(err)),
			"message": err.Error(),
		},
	})
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
