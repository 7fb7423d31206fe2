package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/content"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/elasticsearch"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/events"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/users"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Token   string      `json:"token,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.activity != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.activity.Health(ctx); err != nil {
			s.log.Warn("activity health", slog.Any("err", err))
			writeError(w, http.StatusServiceUnavailable, msgActivityUnhealthy)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.metrics.ObserveLogin("bad_request")
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.metrics.ObserveLogin("bad_request")
		writeError(w, http.StatusBadRequest, msgMissingCreds)
		return
	}

	user, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			s.metrics.ObserveLogin("invalid")
			evt := events.New(models.EventLoginFailed, 0)
			evt.Email = strings.ToLower(strings.TrimSpace(req.Email))
			s.publish(r, evt)
			writeError(w, http.StatusUnauthorized, msgInvalidCreds)
			return
		}
		s.log.Error("authenticate", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	resp := loginResponse{Success: true, User: user}
	if s.tokens != nil {
		token, err := s.tokens.Issue(user)
		if err != nil {
			s.log.Error("issue token", slog.Int("user_id", user.ID), slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		resp.Token = token
	}

	s.metrics.ObserveLogin("success")
	evt := events.New(models.EventLoginSucceeded, user.ID)
	evt.Email = user.Email
	evt.Country = s.countryCode(user.Profile.Country)
	s.publish(r, evt)

	s.log.Info("login", slog.Int("user_id", user.ID))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookupUser(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	s.publish(r, events.New(models.EventProfileViewed, user.ID))
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userId")
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}
	user, ok := s.lookupUser(w, raw)
	if !ok {
		return
	}

	bundle, err := s.content.Home(user.Profile.Country)
	if err != nil {
		s.contentError(w, err, user.Profile.Country)
		return
	}

	evt := events.New(models.EventHomeViewed, user.ID)
	evt.Country = s.countryCode(user.Profile.Country)
	s.publish(r, evt)
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleGRC(w http.ResponseWriter, r *http.Request) {
	category, err := content.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidCategory)
		return
	}
	user, ok := s.lookupUser(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	items, err := s.content.GRC(user.Profile.Country, category)
	if err != nil {
		s.contentError(w, err, user.Profile.Country)
		return
	}

	evt := events.New(models.EventGRCViewed, user.ID)
	evt.Country = s.countryCode(user.Profile.Country)
	evt.Category = category
	s.publish(r, evt)
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	country, err := s.content.Resolve(chi.URLParam(r, "country"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidCountry)
		return
	}
	items, err := s.content.Settings(country)
	if err != nil {
		s.contentError(w, err, country)
		return
	}

	evt := events.New(models.EventSettingsViewed, 0)
	evt.Country = country
	s.publish(r, evt)
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookupUser(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if s.activity == nil {
		writeError(w, http.StatusServiceUnavailable, msgActivityDisabled)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		UserID: user.ID,
		From:   clampInt(q.Get("from"), 0, 10_000),
		Size:   clampInt(q.Get("size"), s.activityPage, s.activityMaxPage),
		Types:  parseTypes(q.Get("type")),
	}
	if since := strings.TrimSpace(q.Get("since")); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidSince)
			return
		}
		params.Since = &ts
	}

	result, err := s.activity.SearchEvents(ctx, params)
	if err != nil {
		s.log.Error("search activity", slog.Int("user_id", user.ID), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// lookupUser writes a 404 and returns false when raw does not name a user.
func (s *Server) lookupUser(w http.ResponseWriter, raw string) (models.User, bool) {
	id, ok := parseID(raw)
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return models.User{}, false
	}
	user, err := s.users.Get(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return models.User{}, false
		}
		s.log.Error("get user", slog.Int("user_id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return models.User{}, false
	}
	return user, true
}

// countryCode maps a profile country to its catalog code so every event
// carries the same form. Unknown countries are lowercased as-is.
func (s *Server) countryCode(raw string) string {
	if code, err := s.content.Resolve(raw); err == nil {
		return code
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

func (s *Server) contentError(w http.ResponseWriter, err error, country string) {
	switch {
	case errors.Is(err, content.ErrUnknownCountry), errors.Is(err, content.ErrNoContent):
		writeError(w, http.StatusNotFound, msgNoContent)
	case errors.Is(err, content.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, msgInvalidCategory)
	default:
		s.log.Error("load content", slog.String("country", country), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
